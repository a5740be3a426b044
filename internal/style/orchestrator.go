package style

import (
	"fmt"

	"go.uber.org/zap"
)

// Controls are presentational inputs bound to roles, such as color pickers.
type Controls interface {
	SetColor(role Role, c Color)
}

// StatusFunc receives human-readable progress text.
type StatusFunc func(msg string)

// Report summarises one application pass.
type Report struct {
	Name    string            `json:"name" doc:"Name of the applied style"`
	Painted map[Role][]string `json:"painted" doc:"Layer ids painted per role"`
	Failed  []string          `json:"failed,omitempty" doc:"Layer ids whose paint update failed"`
	Skipped []Role            `json:"skipped,omitempty" doc:"Roles without a color"`
}

// Orchestrator drives classification and color application for every role.
// It keeps no state between calls.
type Orchestrator struct {
	classifier *Classifier
	applicator *Applicator
	logger     *zap.Logger
}

// NewOrchestrator wires a classifier and applicator sharing logger.
func NewOrchestrator(keywords KeywordTable, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		classifier: NewClassifier(keywords, logger),
		applicator: NewApplicator(logger),
		logger:     logger,
	}
}

// Classifier returns the classifier used by o.
func (o *Orchestrator) Classifier() *Classifier {
	return o.classifier
}

// ApplyOptions carries the optional presentation hooks of an Apply call.
type ApplyOptions struct {
	Status   StatusFunc
	Controls Controls
}

// Apply paints s onto m role by role. Roles without a color are skipped.
// A failing layer never stops the remaining layers or roles.
func (o *Orchestrator) Apply(m Map, s Style, opts ApplyOptions) Report {
	status := opts.Status
	if status == nil {
		status = func(string) {}
	}
	status(fmt.Sprintf("Status: applying style %s", s.Name))

	report := Report{Name: s.Name, Painted: make(map[Role][]string, len(Roles))}
	layers := m.Layers()
	for _, role := range Roles {
		color, ok := s.Color(role)
		if !ok {
			report.Skipped = append(report.Skipped, role)
			continue
		}
		matched := o.classifier.Classify(layers, role)
		if len(matched) == 0 {
			status(fmt.Sprintf("Status: no layers matched %s", role))
		}
		ids := make([]string, 0, len(matched))
		for _, l := range matched {
			if err := o.applicator.apply(m, l, color); err != nil {
				report.Failed = append(report.Failed, l.ID)
				continue
			}
			ids = append(ids, l.ID)
		}
		report.Painted[role] = ids
	}

	if opts.Controls != nil {
		for _, role := range Roles {
			if c, ok := s.Color(role); ok {
				opts.Controls.SetColor(role, c)
			}
		}
	}

	o.logger.Debug("style applied",
		zap.String("name", s.Name),
		zap.Int("failed", len(report.Failed)))
	status("Status: style applied")
	return report
}
