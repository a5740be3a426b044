// Package editor contains Datastar SSE handlers for the style editor UI.
//
// The page binds one color input per role (signals waterpicker, landpicker,
// roadspicker, buildingspicker, labelspicker), a pin checkbox per role
// (pinwater, ...), a prompt box (prompt) and a status line (status).
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/joeblew999/plat-style/internal/humastar"
	"github.com/joeblew999/plat-style/internal/service"
	"github.com/joeblew999/plat-style/internal/style"
)

const (
	statusCallingAI  = "Status: calling AI..."
	statusAIError    = "Status: AI error (check console)"
	statusSuperseded = "Status: superseded by a newer request"
)

// StyleHandler restyles the live map from the editor's pickers and prompt.
type StyleHandler struct {
	humastar.Handler
	styles  *service.StyleService
	session *service.Session
	logger  *zap.Logger
}

// NewStyleHandler creates a new style handler. session may be nil.
func NewStyleHandler(styles *service.StyleService, session *service.Session, logger *zap.Logger) *StyleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StyleHandler{styles: styles, session: session, logger: logger}
}

func (h *StyleHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/api/v1/editor/apply", h.Apply, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/generate", h.Generate, huma.OperationTags("editor"))
}

// ready reports 503 while no base style is loaded.
func (h *StyleHandler) ready() error {
	if h.session == nil || h.styles == nil {
		return huma.Error503ServiceUnavailable("base map style not loaded")
	}
	return nil
}

// Apply paints the picker colors onto the map as a manual override.
func (h *StyleHandler) Apply(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	if err := h.ready(); err != nil {
		return nil, err
	}
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	st := pickerStyle(signals)
	st.Name = style.ManualName

	return h.Stream(func(sse humastar.SSE) {
		ui := newEditorUI()
		report := h.session.Apply(st, ui.options())
		ui.flush(sse, report)
	}), nil
}

// Generate asks the model for a style and applies it unless a newer
// request was issued while the model was answering.
func (h *StyleHandler) Generate(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	if err := h.ready(); err != nil {
		return nil, err
	}
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	prompt := strings.TrimSpace(signals.String("prompt"))
	if prompt == "" {
		return nil, huma.Error400BadRequest("Enter a prompt")
	}
	overrides := pinnedOverrides(signals)
	ticket := h.session.Begin()

	return h.Stream(func(sse humastar.SSE) {
		sse.Signals(map[string]any{"status": statusCallingAI})

		st, err := h.styles.Generate(ctx, prompt, overrides)
		if err != nil {
			h.logger.Error("style generation failed", zap.String("prompt", prompt), zap.Error(err))
			sse.Signals(map[string]any{"status": statusAIError})
			sse.Error("AI error: " + err.Error())
			return
		}

		ui := newEditorUI()
		report, err := h.session.Commit(ticket, st, ui.options())
		if errors.Is(err, service.ErrSuperseded) {
			h.logger.Info("discarding superseded style", zap.String("name", st.Name))
			sse.Signals(map[string]any{"status": statusSuperseded})
			return
		}
		ui.flush(sse, report)
	}), nil
}

// pickerStyle reads the picker signals. Unset or malformed pickers leave
// their role out so it is not repainted.
func pickerStyle(signals humastar.Signals) style.Style {
	var st style.Style
	for _, role := range style.Roles {
		if c, err := style.ParseColor(signals.String(pickerSignal(role))); err == nil {
			st = st.With(role, c)
		}
	}
	return st
}

// pinnedOverrides returns the picker colors of the pinned roles.
func pinnedOverrides(signals humastar.Signals) style.Overrides {
	overrides := style.Overrides{}
	for _, role := range style.Roles {
		if !signals.Bool("pin" + string(role)) {
			continue
		}
		if c, err := style.ParseColor(signals.String(pickerSignal(role))); err == nil {
			overrides[role] = c
		}
	}
	return overrides
}

func pickerSignal(role style.Role) string {
	return string(role) + "picker"
}

// editorUI buffers what an apply pass reports so nothing is written to the
// stream while the session lock is held.
type editorUI struct {
	statuses []string
	pickers  map[string]any
}

func newEditorUI() *editorUI {
	return &editorUI{pickers: map[string]any{}}
}

func (u *editorUI) SetColor(role style.Role, c style.Color) {
	u.pickers[pickerSignal(role)] = c.PickerValue()
}

func (u *editorUI) options() style.ApplyOptions {
	return style.ApplyOptions{
		Status:   func(msg string) { u.statuses = append(u.statuses, msg) },
		Controls: u,
	}
}

func (u *editorUI) flush(sse humastar.SSE, report style.Report) {
	for _, s := range u.statuses {
		sse.Signals(map[string]any{"status": s})
	}
	if len(report.Failed) > 0 {
		sse.Signals(map[string]any{
			"warning": fmt.Sprintf("%d layers could not be painted: %s", len(report.Failed), strings.Join(report.Failed, ", ")),
		})
	}
	if len(u.pickers) > 0 {
		sse.Signals(u.pickers)
	}
}
