package style

import (
	"fmt"

	"go.uber.org/zap"
)

// Map is the rendering surface the engine restyles. Implementations own
// the layers; the engine only reads them and issues paint mutations.
// Setting a property to nil removes it from the layer's paint table.
type Map interface {
	Layers() []Layer
	PaintProperty(layerID, name string) (any, bool)
	SetPaintProperty(layerID, name string, value any) error
}

func hasPaint(m Map, layerID, name string) bool {
	_, ok := m.PaintProperty(layerID, name)
	return ok
}

// Paint property names touched by the applicator.
const (
	BackgroundColor = "background-color"
	FillColor       = "fill-color"
	LineColor       = "line-color"
	TextColor       = "text-color"
	IconColor       = "icon-color"
	TextHaloColor   = "text-halo-color"
)

// Applicator paints a color onto a single layer, choosing the paint
// property from the layer's render type.
type Applicator struct {
	logger *zap.Logger
}

// NewApplicator creates an applicator that reports failures to logger.
func NewApplicator(logger *zap.Logger) *Applicator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applicator{logger: logger}
}

// Apply colors layer on m. Failures are logged and leave the layer as it
// was; Apply never returns an error and never panics.
func (a *Applicator) Apply(m Map, layer Layer, color Color) {
	a.apply(m, layer, color)
}

func (a *Applicator) apply(m Map, layer Layer, color Color) (err error) {
	var done []paintSet
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("set paint property: %v", r)
			rollback(m, layer.ID, done)
		}
		if err != nil {
			a.logger.Warn("apply color failed",
				zap.String("layer", layer.ID),
				zap.String("type", layer.Type),
				zap.Error(err))
		}
	}()

	for _, p := range paintPlan(m, layer, color) {
		prev, _ := m.PaintProperty(layer.ID, p.name)
		if err := m.SetPaintProperty(layer.ID, p.name, p.value); err != nil {
			rollback(m, layer.ID, done)
			return fmt.Errorf("%s: %w", p.name, err)
		}
		done = append(done, paintSet{p.name, prev})
	}
	return nil
}

// rollback restores the previous values of properties already written.
func rollback(m Map, layerID string, done []paintSet) {
	defer func() { recover() }()
	for i := len(done) - 1; i >= 0; i-- {
		_ = m.SetPaintProperty(layerID, done[i].name, done[i].value)
	}
}

type paintSet struct {
	name  string
	value any
}

// paintPlan decides every property write for layer before any is issued.
func paintPlan(m Map, layer Layer, color Color) []paintSet {
	c := string(color)
	switch layer.RenderType() {
	case TypeBackground:
		return []paintSet{{BackgroundColor, c}}
	case TypeFill:
		return []paintSet{{FillColor, c}}
	case TypeLine:
		return []paintSet{{LineColor, c}}
	case TypeSymbol:
		var plan []paintSet
		switch {
		case hasPaint(m, layer.ID, TextColor):
			plan = append(plan, paintSet{TextColor, c})
		case hasPaint(m, layer.ID, IconColor):
			plan = append(plan, paintSet{IconColor, c})
		}
		if hasPaint(m, layer.ID, TextHaloColor) {
			plan = append(plan, paintSet{TextHaloColor, HaloColor})
		}
		return plan
	default:
		var plan []paintSet
		if hasPaint(m, layer.ID, FillColor) {
			plan = append(plan, paintSet{FillColor, c})
		}
		if hasPaint(m, layer.ID, LineColor) {
			plan = append(plan, paintSet{LineColor, c})
		}
		return plan
	}
}
