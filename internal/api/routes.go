// Package api defines the Huma API routes and handlers.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-style/internal/service"
)

// Services holds the service dependencies for API handlers. Session and
// History are nil when the base style or the database could not be opened.
type Services struct {
	Styles  *service.StyleService
	Session *service.Session
	Themes  *service.ThemeService
	History *service.HistoryService
}

// Types

type IDInput struct {
	ID string `path:"id" doc:"Theme ID" example:"sunset_desert"`
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc  *Services
	info InfoBody
}

func NewAPIHandler(svc *Services, info InfoBody) *APIHandler {
	if svc == nil {
		svc = &Services{}
	}
	return &APIHandler{svc: svc, info: info}
}

// RegisterHealth registers health and info routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

// RegisterStyles registers the AI generation and normalization routes.
func (h *APIHandler) RegisterStyles(api huma.API) {
	huma.Post(api, "/api/v1/styles/generate", h.GenerateStyle, huma.OperationTags("styles"))
	huma.Post(api, "/api/v1/styles/normalize", h.NormalizeStyle, huma.OperationTags("styles"))
}

// RegisterMap registers routes operating on the live map style.
func (h *APIHandler) RegisterMap(api huma.API) {
	huma.Get(api, "/api/v1/map/style.json", h.GetMapStyle, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/map/layers", h.GetMapLayers, huma.OperationTags("map"))
	huma.Post(api, "/api/v1/map/apply", h.ApplyMapStyle, huma.OperationTags("map"))
	huma.Post(api, "/api/v1/map/reset", h.ResetMapStyle, huma.OperationTags("map"))
}

// RegisterThemes registers saved theme CRUD routes.
func (h *APIHandler) RegisterThemes(api huma.API) {
	huma.Get(api, "/api/v1/themes", h.GetThemes, huma.OperationTags("themes"))
	huma.Post(api, "/api/v1/themes", h.CreateTheme, huma.OperationTags("themes"))
	huma.Get(api, "/api/v1/themes/{id}", h.GetTheme, huma.OperationTags("themes"))
	huma.Put(api, "/api/v1/themes/{id}", h.PutTheme, huma.OperationTags("themes"))
	huma.Delete(api, "/api/v1/themes/{id}", h.DeleteTheme, huma.OperationTags("themes"))
	huma.Post(api, "/api/v1/themes/{id}/apply", h.ApplyTheme, huma.OperationTags("themes"))
}

// RegisterHistory registers the generation history route.
func (h *APIHandler) RegisterHistory(api huma.API) {
	huma.Get(api, "/api/v1/history", h.GetHistory, huma.OperationTags("history"))
}

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: h.info.Version}}, nil
}
