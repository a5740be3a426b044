package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/joeblew999/plat-style/internal/llm"
	"github.com/joeblew999/plat-style/internal/style"
)

// ErrMissingCredential is returned when the model API key is not configured.
var ErrMissingCredential = llm.ErrMissingCredential

// StyleService turns prompts into normalized styles.
type StyleService struct {
	gen     llm.Generator
	history *HistoryService
	bus     *EventBus
	logger  *zap.Logger
}

// NewStyleService creates a style service. history may be nil.
func NewStyleService(gen llm.Generator, history *HistoryService, bus *EventBus, logger *zap.Logger) *StyleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StyleService{gen: gen, history: history, bus: bus, logger: logger}
}

// Generate asks the model for a style and normalizes the answer. Only a
// failed model call is an error; malformed answers fall back to defaults.
func (s *StyleService) Generate(ctx context.Context, prompt string, overrides style.Overrides) (style.Style, error) {
	raw, err := s.gen.Generate(ctx, prompt, overrides)
	if err != nil {
		return style.Style{}, fmt.Errorf("generating style: %w", err)
	}

	p, err := raw.Parse()
	if err != nil {
		s.logger.Warn("model response not parseable, using defaults", zap.Error(err))
		p = style.Partial{}
	}
	st := style.Resolve(p, overrides)

	if s.history != nil {
		entry := HistoryEntry{CreatedAt: time.Now().UTC(), Prompt: prompt, Overrides: overrides, Style: st}
		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warn("recording history failed", zap.Error(err))
		}
	}
	s.bus.Publish(Event{Resource: "styles", Action: ActionGenerated, ID: st.Name})
	return st, nil
}

// Normalize resolves a caller-supplied raw style, which may be a decoded
// object, a JSON string or nothing.
func (s *StyleService) Normalize(raw any, overrides style.Overrides) style.Style {
	p, err := style.RawFrom(raw).Parse()
	if err != nil {
		s.logger.Warn("raw style not parseable, using defaults", zap.Error(err))
		p = style.Partial{}
	}
	return style.Resolve(p, overrides)
}
