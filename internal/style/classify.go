package style

import (
	"strings"

	"go.uber.org/zap"
)

// RenderType is the paint surface of a layer.
type RenderType string

const (
	TypeBackground RenderType = "background"
	TypeFill       RenderType = "fill"
	TypeLine       RenderType = "line"
	TypeSymbol     RenderType = "symbol"
	TypeOther      RenderType = "other"
)

// Layer is the read-only view of a style layer the engine works with.
type Layer struct {
	ID          string `json:"id" doc:"Layer identifier" example:"water"`
	Type        string `json:"type" doc:"Layer type as declared in the style" example:"fill"`
	SourceLayer string `json:"sourceLayer,omitempty" doc:"Vector source layer name" example:"water"`
}

// RenderType collapses the declared type onto the surfaces the applicator knows.
func (l Layer) RenderType() RenderType {
	switch t := RenderType(l.Type); t {
	case TypeBackground, TypeFill, TypeLine, TypeSymbol:
		return t
	}
	return TypeOther
}

// Classifier partitions layers into roles by keyword containment.
type Classifier struct {
	keywords KeywordTable
	logger   *zap.Logger
}

// NewClassifier creates a classifier over the given keyword table.
// A nil table selects DefaultKeywords.
func NewClassifier(keywords KeywordTable, logger *zap.Logger) *Classifier {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{keywords: keywords, logger: logger}
}

// Keywords returns the keywords configured for role.
func (c *Classifier) Keywords(role Role) []string {
	return c.keywords[role]
}

// Classify returns the layers belonging to role, in their original order.
// An empty result is logged as a warning and is not an error.
func (c *Classifier) Classify(layers []Layer, role Role) []Layer {
	matched := Match(layers, c.keywords[role])
	if len(matched) == 0 {
		c.logger.Warn("no layers matched role",
			zap.String("role", string(role)),
			zap.Strings("keywords", c.keywords[role]))
	}
	return matched
}

// Roles returns every role l belongs to. A layer may belong to several.
func (c *Classifier) Roles(l Layer) []Role {
	var roles []Role
	for _, role := range Roles {
		if matches(l, c.keywords[role]) {
			roles = append(roles, role)
		}
	}
	return roles
}

// Match filters layers whose lower-cased id or source-layer contains any
// keyword. Order is preserved.
func Match(layers []Layer, keywords []string) []Layer {
	var matched []Layer
	for _, l := range layers {
		if matches(l, keywords) {
			matched = append(matched, l)
		}
	}
	return matched
}

func matches(l Layer, keywords []string) bool {
	id := strings.ToLower(l.ID)
	src := strings.ToLower(l.SourceLayer)
	for _, k := range keywords {
		if k == "" {
			continue
		}
		k = strings.ToLower(k)
		if strings.Contains(id, k) || (src != "" && strings.Contains(src, k)) {
			return true
		}
	}
	return false
}
