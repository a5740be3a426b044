// Package service contains the stateful parts of the map style platform:
// the live style session, AI generation, saved themes and history.
package service

import (
	"errors"
	"time"

	"github.com/joeblew999/plat-style/internal/style"
)

var (
	// ErrNotFound is returned for unknown theme ids.
	ErrNotFound = errors.New("not found")
	// ErrSuperseded is returned when a newer apply request has been issued
	// since the ticket was taken.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// Theme is a saved, named style.
type Theme struct {
	ID        string      `json:"id,omitempty" yaml:"id,omitempty" doc:"Unique theme identifier" example:"sunset_desert"`
	Name      string      `json:"name" yaml:"name" required:"true" minLength:"1" maxLength:"100" doc:"Display name" example:"Sunset desert"`
	Prompt    string      `json:"prompt,omitempty" yaml:"prompt,omitempty" doc:"Prompt the theme was generated from"`
	Water     style.Color `json:"water" yaml:"water" pattern:"^#[0-9a-fA-F]{6}$" doc:"Water color" example:"#a0d8ef"`
	Land      style.Color `json:"land" yaml:"land" pattern:"^#[0-9a-fA-F]{6}$" doc:"Land color" example:"#fff2e6"`
	Roads     style.Color `json:"roads" yaml:"roads" pattern:"^#[0-9a-fA-F]{6}$" doc:"Road color" example:"#ff85c1"`
	Buildings style.Color `json:"buildings" yaml:"buildings" pattern:"^#[0-9a-fA-F]{6}$" doc:"Building color" example:"#f0e5ff"`
	Labels    style.Color `json:"labels" yaml:"labels" pattern:"^#[0-9a-fA-F]{6}$" doc:"Label color" example:"#222222"`
}

// Style returns the theme as an applicable style.
func (t Theme) Style() style.Style {
	return style.Style{
		Name:      t.Name,
		Water:     t.Water,
		Land:      t.Land,
		Roads:     t.Roads,
		Buildings: t.Buildings,
		Labels:    t.Labels,
	}
}

// ThemeFromStyle builds a theme carrying the colors and name of s.
func ThemeFromStyle(s style.Style) Theme {
	return Theme{
		Name:      s.Name,
		Water:     s.Water,
		Land:      s.Land,
		Roads:     s.Roads,
		Buildings: s.Buildings,
		Labels:    s.Labels,
	}
}

// HistoryEntry records one AI generation.
type HistoryEntry struct {
	ID        int64           `json:"id" doc:"Entry id"`
	CreatedAt time.Time       `json:"createdAt" doc:"When the style was generated"`
	Prompt    string          `json:"prompt" doc:"User prompt"`
	Overrides style.Overrides `json:"overrides,omitempty" doc:"Pinned colors sent with the prompt"`
	Style     style.Style     `json:"style" doc:"Normalized result"`
}
