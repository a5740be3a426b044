package style

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrParse is returned when a raw style cannot be read as a JSON object.
var ErrParse = errors.New("style: unparseable response")

type rawKind int

const (
	rawAbsent rawKind = iota
	rawStructured
	rawText
)

// Raw is an untrusted style description: a decoded object, text that
// should hold a JSON object, or nothing at all.
type Raw struct {
	kind rawKind
	obj  map[string]any
	text string
}

// Absent is the Raw for a missing response.
var Absent = Raw{}

// Structured wraps an already-decoded object.
func Structured(obj map[string]any) Raw {
	if obj == nil {
		return Absent
	}
	return Raw{kind: rawStructured, obj: obj}
}

// Text wraps text that is expected to contain a JSON object.
func Text(s string) Raw {
	return Raw{kind: rawText, text: s}
}

// RawFrom classifies an arbitrary decoded JSON value.
func RawFrom(v any) Raw {
	switch t := v.(type) {
	case nil:
		return Absent
	case map[string]any:
		return Structured(t)
	case string:
		return Text(t)
	case json.RawMessage:
		return Text(string(t))
	case []byte:
		return Text(string(t))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Absent
	}
	return Text(string(b))
}

// Partial is the subset of style fields a raw description actually carried.
// Values are unvalidated.
type Partial struct {
	Name   string
	Colors map[Role]string
}

// Parse extracts the string-valued style fields from r. Non-string values
// are ignored. Absent input yields an empty Partial without error.
func (r Raw) Parse() (Partial, error) {
	var obj map[string]any
	switch r.kind {
	case rawAbsent:
		return Partial{}, nil
	case rawStructured:
		obj = r.obj
	case rawText:
		if err := json.Unmarshal([]byte(r.text), &obj); err != nil {
			return Partial{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if obj == nil {
			return Partial{}, fmt.Errorf("%w: not an object", ErrParse)
		}
	}

	p := Partial{Colors: make(map[Role]string, len(Roles))}
	if name, ok := obj["name"].(string); ok {
		p.Name = name
	}
	for _, role := range Roles {
		if v, ok := obj[string(role)].(string); ok {
			p.Colors[role] = v
		}
	}
	return p, nil
}

// Resolve builds a complete Style from p. Per role the first valid color
// wins: override, then p, then the built-in default. Invalid colors from
// either source are ignored.
func Resolve(p Partial, overrides Overrides) Style {
	name := p.Name
	if name == "" {
		name = DefaultName
	}
	s := Style{Name: name}
	for _, role := range Roles {
		s = s.With(role, resolveColor(role, p, overrides))
	}
	return s
}

func resolveColor(role Role, p Partial, overrides Overrides) Color {
	if c, ok := overrides[role]; ok {
		if v, err := ParseColor(string(c)); err == nil {
			return v
		}
	}
	if c, err := ParseColor(p.Colors[role]); err == nil {
		return c
	}
	return Defaults[role]
}

// Normalize turns raw into a complete Style, honouring overrides.
// It never fails: unparseable input resolves to the defaults.
func Normalize(raw Raw, overrides Overrides) Style {
	p, err := raw.Parse()
	if err != nil {
		p = Partial{}
	}
	return Resolve(p, overrides)
}
