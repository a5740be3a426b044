package style

// Default names given to normalized and picker-built styles.
const (
	DefaultName = "AI style"
	ManualName  = "Manual override"
)

// Defaults holds the built-in color for each role.
var Defaults = map[Role]Color{
	Water:     "#a0d8ef",
	Land:      "#fff2e6",
	Roads:     "#ff85c1",
	Buildings: "#f0e5ff",
	Labels:    "#222222",
}

// Style is a complete map theme: one color per role plus a display name.
// Styles are built fresh for every change and never mutated afterwards.
type Style struct {
	Name      string `json:"name,omitempty" doc:"Display name" example:"Sunset desert"`
	Water     Color  `json:"water,omitempty" pattern:"^#[0-9a-fA-F]{6}$" doc:"Water color" example:"#a0d8ef"`
	Land      Color  `json:"land,omitempty" pattern:"^#[0-9a-fA-F]{6}$" doc:"Land color" example:"#fff2e6"`
	Roads     Color  `json:"roads,omitempty" pattern:"^#[0-9a-fA-F]{6}$" doc:"Road color" example:"#ff85c1"`
	Buildings Color  `json:"buildings,omitempty" pattern:"^#[0-9a-fA-F]{6}$" doc:"Building color" example:"#f0e5ff"`
	Labels    Color  `json:"labels,omitempty" pattern:"^#[0-9a-fA-F]{6}$" doc:"Label color" example:"#222222"`
}

// Color returns the color assigned to role, if any.
func (s Style) Color(role Role) (Color, bool) {
	var c Color
	switch role {
	case Water:
		c = s.Water
	case Land:
		c = s.Land
	case Roads:
		c = s.Roads
	case Buildings:
		c = s.Buildings
	case Labels:
		c = s.Labels
	}
	return c, c != ""
}

// With returns a copy of s with role set to c.
func (s Style) With(role Role, c Color) Style {
	switch role {
	case Water:
		s.Water = c
	case Land:
		s.Land = c
	case Roads:
		s.Roads = c
	case Buildings:
		s.Buildings = c
	case Labels:
		s.Labels = c
	}
	return s
}

// Complete reports whether every role carries a valid color.
func (s Style) Complete() bool {
	for _, role := range Roles {
		c, ok := s.Color(role)
		if !ok || !c.Valid() {
			return false
		}
	}
	return true
}

// Overrides pins roles to caller-chosen colors. Keys are role names.
type Overrides map[Role]Color
