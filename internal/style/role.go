// Package style maps semantic color roles onto the layers of a vector map
// style and turns untrusted style descriptions into complete, valid ones.
package style

// Role is a semantic color category a user can restyle.
type Role string

const (
	Water     Role = "water"
	Land      Role = "land"
	Roads     Role = "roads"
	Buildings Role = "buildings"
	Labels    Role = "labels"
)

// Roles lists every role in application order.
var Roles = []Role{Water, Land, Roads, Buildings, Labels}

// KeywordTable maps each role to the lower-case substrings that identify
// its layers. A layer matches a role when its id or source-layer contains
// any of the role's keywords.
type KeywordTable map[Role][]string

// DefaultKeywords is the keyword table used when none is configured.
var DefaultKeywords = KeywordTable{
	Water:     {"water", "ocean", "lake", "river"},
	Land:      {"land", "background", "landcover", "grass", "park"},
	Roads:     {"road", "highway", "street", "motorway"},
	Buildings: {"building", "structure"},
	Labels:    {"label", "place", "poi", "admin"},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}
