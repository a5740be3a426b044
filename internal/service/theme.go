package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-style/internal/style"
)

// ThemeService manages saved themes.
type ThemeService struct {
	dataDir string
	themes  map[string]Theme
	mu      sync.RWMutex
	bus     *EventBus
}

// NewThemeService creates a theme service persisting to dataDir. An empty
// dataDir keeps themes in memory.
func NewThemeService(dataDir string, bus *EventBus) *ThemeService {
	s := &ThemeService{
		dataDir: dataDir,
		themes:  make(map[string]Theme),
		bus:     bus,
	}
	s.loadFromDisk()
	return s
}

// List returns all saved themes.
func (s *ThemeService) List() map[string]Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]Theme, len(s.themes))
	for k, v := range s.themes {
		result[k] = v
	}
	return result
}

// Get returns a theme by ID.
func (s *ThemeService) Get(id string) (Theme, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	theme, ok := s.themes[id]
	return theme, ok
}

// Create saves a new theme.
func (s *ThemeService) Create(theme Theme) (Theme, error) {
	if err := validateTheme(theme); err != nil {
		return Theme{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if theme.ID == "" {
		theme.ID = generateID(theme.Name)
	}
	if theme.ID == "" {
		return Theme{}, fmt.Errorf("theme name %q yields an empty id", theme.Name)
	}
	if _, exists := s.themes[theme.ID]; exists {
		return Theme{}, fmt.Errorf("theme with ID %q already exists", theme.ID)
	}

	s.themes[theme.ID] = theme
	if err := s.saveToDisk(); err != nil {
		delete(s.themes, theme.ID)
		return Theme{}, err
	}

	s.bus.Publish(Event{Resource: "themes", Action: ActionCreated, ID: theme.ID})
	return theme, nil
}

// Update replaces a theme by ID.
func (s *ThemeService) Update(id string, theme Theme) (Theme, error) {
	if err := validateTheme(theme); err != nil {
		return Theme{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.themes[id]
	if !exists {
		return Theme{}, fmt.Errorf("theme %q: %w", id, ErrNotFound)
	}

	theme.ID = id
	s.themes[id] = theme
	if err := s.saveToDisk(); err != nil {
		s.themes[id] = prev
		return Theme{}, err
	}

	s.bus.Publish(Event{Resource: "themes", Action: ActionUpdated, ID: id})
	return theme, nil
}

// Delete removes a theme by ID.
func (s *ThemeService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.themes[id]
	if !exists {
		return fmt.Errorf("theme %q: %w", id, ErrNotFound)
	}

	delete(s.themes, id)
	if err := s.saveToDisk(); err != nil {
		s.themes[id] = prev
		return err
	}

	s.bus.Publish(Event{Resource: "themes", Action: ActionDeleted, ID: id})
	return nil
}

func validateTheme(t Theme) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("theme name is required")
	}
	s := t.Style()
	for _, role := range style.Roles {
		c, _ := s.Color(role)
		if _, err := style.ParseColor(string(c)); err != nil {
			return fmt.Errorf("theme %s: %w", role, err)
		}
	}
	return nil
}

// configFile returns the path to the themes file.
func (s *ThemeService) configFile() string {
	return filepath.Join(s.dataDir, "themes.json")
}

// loadFromDisk loads saved themes from disk.
func (s *ThemeService) loadFromDisk() {
	if s.dataDir == "" {
		return
	}
	data, err := os.ReadFile(s.configFile())
	if err != nil {
		return // File doesn't exist yet, start empty
	}

	var themes map[string]Theme
	if err := json.Unmarshal(data, &themes); err != nil {
		return // Invalid JSON, start empty
	}
	if themes != nil {
		s.themes = themes
	}
}

// saveToDisk persists themes to disk. Without a data directory themes
// live in memory only.
func (s *ThemeService) saveToDisk() error {
	if s.dataDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.themes, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.configFile(), data, 0644)
}

// LoadThemeFile reads a single theme from a YAML or JSON file.
func LoadThemeFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("reading theme: %w", err)
	}
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Theme{}, fmt.Errorf("parsing theme %s: %w", path, err)
	}
	if err := validateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// generateID creates a URL-safe ID from a name.
func generateID(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	var result strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
