package api

import (
	"context"
	"errors"

	"github.com/joeblew999/plat-style/internal/style"
)

type GenerateStyleBody struct {
	Prompt    string          `json:"prompt" doc:"Description of the desired look" example:"sunset desert"`
	Overrides style.Overrides `json:"overrides,omitempty" doc:"Pinned colors per role; invalid colors are ignored"`
}

type NormalizeStyleBody struct {
	Raw       any             `json:"raw,omitempty" doc:"Untrusted style: an object, a JSON string or nothing"`
	Overrides style.Overrides `json:"overrides,omitempty" doc:"Pinned colors per role"`
}

type StyleBody struct {
	Style style.Style `json:"style" doc:"Complete, validated style"`
}

type StyleOutput struct {
	Body StyleBody
}

var errGenerationUnavailable = errors.New("style generation not configured")

// GenerateStyle asks the model for a style. Every failure is reported as
// 500 with an `error` field; malformed model output is not a failure.
func (h *APIHandler) GenerateStyle(ctx context.Context, input *struct{ Body GenerateStyleBody }) (*StyleOutput, error) {
	if h.svc.Styles == nil {
		return nil, internalError(errGenerationUnavailable)
	}
	st, err := h.svc.Styles.Generate(ctx, input.Body.Prompt, input.Body.Overrides)
	if err != nil {
		return nil, internalError(err)
	}
	return &StyleOutput{Body: StyleBody{Style: st}}, nil
}

func (h *APIHandler) NormalizeStyle(ctx context.Context, input *struct{ Body NormalizeStyleBody }) (*StyleOutput, error) {
	if h.svc.Styles == nil {
		return &StyleOutput{Body: StyleBody{Style: style.Normalize(style.RawFrom(input.Body.Raw), input.Body.Overrides)}}, nil
	}
	return &StyleOutput{Body: StyleBody{Style: h.svc.Styles.Normalize(input.Body.Raw, input.Body.Overrides)}}, nil
}
