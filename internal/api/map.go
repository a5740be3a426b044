package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-style/internal/service"
	"github.com/joeblew999/plat-style/internal/style"
)

// StyleFilename is the download name of the restyled document.
const StyleFilename = "maplibre-style.json"

type MapStyleOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

type ReportOutput struct {
	Body style.Report
}

func (h *APIHandler) session() (*service.Session, error) {
	if h.svc.Session == nil {
		return nil, huma.Error503ServiceUnavailable("base map style not loaded")
	}
	return h.svc.Session, nil
}

// GetMapStyle returns the current restyled document as a download.
func (h *APIHandler) GetMapStyle(ctx context.Context, input *struct{}) (*MapStyleOutput, error) {
	s, err := h.session()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(s.Document(), "", "  ")
	if err != nil {
		return nil, huma.Error500InternalServerError("encoding map style", err)
	}
	return &MapStyleOutput{
		ContentType:        "application/json",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", StyleFilename),
		Body:               data,
	}, nil
}

func (h *APIHandler) GetMapLayers(ctx context.Context, input *struct{}) (*struct{ Body []service.LayerRoles }, error) {
	s, err := h.session()
	if err != nil {
		return nil, err
	}
	return &struct{ Body []service.LayerRoles }{Body: s.LayerRoles()}, nil
}

// ApplyMapStyle paints a style onto the live map. Roles left out are not
// repainted.
func (h *APIHandler) ApplyMapStyle(ctx context.Context, input *struct{ Body style.Style }) (*ReportOutput, error) {
	s, err := h.session()
	if err != nil {
		return nil, err
	}
	st := input.Body
	if st.Name == "" {
		st.Name = style.ManualName
	}
	return &ReportOutput{Body: s.Apply(st, style.ApplyOptions{})}, nil
}

func (h *APIHandler) ResetMapStyle(ctx context.Context, input *struct{}) (*struct{ Body MessageBody }, error) {
	s, err := h.session()
	if err != nil {
		return nil, err
	}
	s.Reset()
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Map style reset"}}, nil
}
