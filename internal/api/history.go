package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-style/internal/humastar"
	"github.com/joeblew999/plat-style/internal/service"
)

type HistoryInput struct {
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Number of entries to skip"`
	Limit  int `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
}

type HistoryOutput struct {
	Body humastar.PageBody[service.HistoryEntry]
}

// GetHistory lists past generations, newest first.
func (h *APIHandler) GetHistory(ctx context.Context, input *HistoryInput) (*HistoryOutput, error) {
	if h.svc.History == nil {
		return nil, huma.Error503ServiceUnavailable("history database not available")
	}
	entries, total, err := h.svc.History.List(ctx, input.Offset, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing history", err)
	}
	return &HistoryOutput{Body: humastar.PageBody[service.HistoryEntry]{
		Total:  total,
		Offset: input.Offset,
		Limit:  input.Limit,
		Data:   entries,
	}}, nil
}
