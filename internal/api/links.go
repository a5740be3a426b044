package api

import (
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-style/internal/humastar"
)

// links maps operation paths to their RFC 8288 Link header values.
// Enables restish hypermedia navigation via `restish links <url>`.
var links = map[string][]string{
	"/health": {
		`</api/v1/info>; rel="info"`,
		`</api/v1/map/layers>; rel="layers"`,
		`</api/v1/themes>; rel="themes"`,
		`</api/v1/history>; rel="history"`,
	},
	"/api/v1/info": {
		`</health>; rel="health"`,
	},
	"/api/v1/styles/generate": {
		`</api/v1/map/apply>; rel="apply"`,
		`</api/v1/history>; rel="history"`,
	},
	"/api/v1/map/layers": {
		`</api/v1/map/style.json>; rel="style"`,
		`</api/v1/map/apply>; rel="apply"`,
	},
	"/api/v1/map/apply": {
		`</api/v1/map/style.json>; rel="style"`,
		`</api/v1/map/reset>; rel="reset"`,
	},
	"/api/v1/themes": {
		`</api/v1/map/layers>; rel="layers"`,
	},
	"/api/v1/themes/{id}": {
		`</api/v1/themes>; rel="collection"`,
	},
}

// LinkTransformer returns a Huma Transformer that injects RFC 8288 Link
// headers: static navigation links per operation, pagination links for
// humastar.Pager bodies and action links for humastar.Actor bodies.
func LinkTransformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range links[op.Path] {
			ctx.AppendHeader("Link", link)
		}
		for _, link := range humastar.LinksFor(v, ctx.URL().Path) {
			ctx.AppendHeader("Link", link)
		}

		// Item endpoints get a self link
		if strings.Contains(op.Path, "{") {
			ctx.AppendHeader("Link", fmt.Sprintf(`<%s>; rel="self"`, ctx.URL().Path))
		}

		return v, nil
	}
}
