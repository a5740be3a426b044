package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-style/internal/humastar"
	"github.com/joeblew999/plat-style/internal/service"
	"github.com/joeblew999/plat-style/internal/style"
)

var themeActions = []humastar.ActionDef{
	{Rel: "apply", Pattern: "/api/v1/themes/%s/apply", Method: "POST", Title: "Apply theme"},
	{Rel: "edit", Pattern: "/api/v1/themes/%s", Method: "PUT", Title: "Update theme"},
	{Rel: "delete", Pattern: "/api/v1/themes/%s", Method: "DELETE", Title: "Delete theme"},
}

// ThemeBody is a theme with its hypermedia actions.
type ThemeBody struct {
	service.Theme
}

func (b ThemeBody) Actions() []humastar.Action {
	return humastar.ActionsFor(b.ID, themeActions)
}

type ThemeOutput struct {
	Body ThemeBody
}

type ThemesOutput struct {
	Body map[string]service.Theme
}

func (h *APIHandler) themes() (*service.ThemeService, error) {
	if h.svc.Themes == nil {
		return nil, huma.Error503ServiceUnavailable("theme storage not available")
	}
	return h.svc.Themes, nil
}

func (h *APIHandler) GetThemes(ctx context.Context, input *struct{}) (*ThemesOutput, error) {
	if h.svc.Themes == nil {
		return &ThemesOutput{Body: map[string]service.Theme{}}, nil
	}
	return &ThemesOutput{Body: h.svc.Themes.List()}, nil
}

func (h *APIHandler) CreateTheme(ctx context.Context, input *struct{ Body service.Theme }) (*ThemeOutput, error) {
	themes, err := h.themes()
	if err != nil {
		return nil, err
	}
	created, err := themes.Create(input.Body)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &ThemeOutput{Body: ThemeBody{created}}, nil
}

func (h *APIHandler) GetTheme(ctx context.Context, input *IDInput) (*ThemeOutput, error) {
	themes, err := h.themes()
	if err != nil {
		return nil, err
	}
	theme, ok := themes.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("theme not found")
	}
	return &ThemeOutput{Body: ThemeBody{theme}}, nil
}

func (h *APIHandler) PutTheme(ctx context.Context, input *struct {
	IDInput
	Body service.Theme
}) (*ThemeOutput, error) {
	themes, err := h.themes()
	if err != nil {
		return nil, err
	}
	updated, err := themes.Update(input.ID, input.Body)
	if errors.Is(err, service.ErrNotFound) {
		return nil, huma.Error404NotFound(err.Error())
	}
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &ThemeOutput{Body: ThemeBody{updated}}, nil
}

func (h *APIHandler) DeleteTheme(ctx context.Context, input *IDInput) (*struct{ Body MessageBody }, error) {
	themes, err := h.themes()
	if err != nil {
		return nil, err
	}
	if err := themes.Delete(input.ID); errors.Is(err, service.ErrNotFound) {
		return nil, huma.Error404NotFound(err.Error())
	} else if err != nil {
		return nil, huma.Error500InternalServerError("deleting theme", err)
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Theme deleted"}}, nil
}

// ApplyTheme paints a saved theme onto the live map.
func (h *APIHandler) ApplyTheme(ctx context.Context, input *IDInput) (*ReportOutput, error) {
	themes, err := h.themes()
	if err != nil {
		return nil, err
	}
	s, err := h.session()
	if err != nil {
		return nil, err
	}
	theme, ok := themes.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("theme not found")
	}
	return &ReportOutput{Body: s.Apply(theme.Style(), style.ApplyOptions{})}, nil
}
