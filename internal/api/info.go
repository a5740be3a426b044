package api

import "context"

// InfoBody describes the running service.
type InfoBody struct {
	Name      string   `json:"name" doc:"Service name"`
	Version   string   `json:"version" doc:"Service version"`
	DataDir   string   `json:"data_dir" doc:"Data directory path"`
	BaseStyle string   `json:"base_style" doc:"Location of the base map style"`
	Model     string   `json:"model" doc:"Language model used for generation"`
	DB        bool     `json:"db" doc:"Whether the history database is available"`
	Features  []string `json:"features" doc:"Available features"`
}

func (h *APIHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	info := h.info
	info.DB = h.svc.History != nil
	info.Features = []string{"normalize", "themes"}
	if h.svc.Styles != nil {
		info.Features = append(info.Features, "generate")
	}
	if h.svc.Session != nil {
		info.Features = append(info.Features, "map")
	}
	if info.DB {
		info.Features = append(info.Features, "history")
	}
	return &struct{ Body InfoBody }{Body: info}, nil
}
