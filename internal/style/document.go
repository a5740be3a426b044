package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

var (
	// ErrUnknownLayer is returned when a paint update names a missing layer.
	ErrUnknownLayer = errors.New("style: unknown layer")
	// ErrPropertyType is returned when a paint property does not belong
	// to the layer's type.
	ErrPropertyType = errors.New("style: property not valid for layer type")
)

// Document is an in-memory MapLibre style. Only layer ids, types,
// source-layers, paint tables and the camera are interpreted; every other
// field is carried through untouched.
//
// A Document is not safe for concurrent use.
type Document struct {
	root   map[string]any
	layers []any
	index  map[string]map[string]any
}

// ParseDocument decodes a style.json document.
func ParseDocument(data []byte) (*Document, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing style: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("parsing style: not an object")
	}

	d := &Document{root: root, index: make(map[string]map[string]any)}
	if raw, ok := root["layers"]; ok {
		layers, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("parsing style: layers is %T, want array", raw)
		}
		d.layers = layers
	}
	for _, l := range d.layers {
		obj, ok := l.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := obj["id"].(string); ok && id != "" {
			if _, dup := d.index[id]; !dup {
				d.index[id] = obj
			}
		}
	}
	return d, nil
}

// MarshalJSON encodes the document including all pass-through fields.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.root)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	data, err := d.MarshalJSON()
	if err != nil {
		// Values decoded from JSON always re-encode.
		panic(fmt.Sprintf("style: cloning document: %v", err))
	}
	c, err := ParseDocument(data)
	if err != nil {
		panic(fmt.Sprintf("style: cloning document: %v", err))
	}
	return c
}

// Layers returns the document's layers in style order.
func (d *Document) Layers() []Layer {
	layers := make([]Layer, 0, len(d.layers))
	for _, l := range d.layers {
		obj, ok := l.(map[string]any)
		if !ok {
			continue
		}
		id, _ := obj["id"].(string)
		if id == "" {
			continue
		}
		typ, _ := obj["type"].(string)
		src, _ := obj["source-layer"].(string)
		layers = append(layers, Layer{ID: id, Type: typ, SourceLayer: src})
	}
	return layers
}

// PaintProperty returns the value of a paint property declared on a layer.
func (d *Document) PaintProperty(layerID, name string) (any, bool) {
	layer, ok := d.index[layerID]
	if !ok {
		return nil, false
	}
	paint, ok := layer["paint"].(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := paint[name]
	return v, ok
}

// SetPaintProperty sets a paint property on a layer. A nil value removes it.
// The property family must match the layer type, as in the map renderer.
func (d *Document) SetPaintProperty(layerID, name string, value any) error {
	layer, ok := d.index[layerID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, layerID)
	}
	typ, _ := layer["type"].(string)
	if propertyFamily(name) != typ {
		return fmt.Errorf("%w: %q on %s layer %q", ErrPropertyType, name, typ, layerID)
	}

	paint, ok := layer["paint"].(map[string]any)
	if !ok {
		if value == nil {
			return nil
		}
		paint = make(map[string]any)
		layer["paint"] = paint
	}
	if value == nil {
		delete(paint, name)
		return nil
	}
	paint[name] = value
	return nil
}

// propertyFamily returns the layer type a paint property belongs to.
func propertyFamily(name string) string {
	if strings.HasPrefix(name, "fill-extrusion-") {
		return "fill-extrusion"
	}
	i := strings.IndexByte(name, '-')
	if i <= 0 {
		return ""
	}
	switch family := name[:i]; family {
	case "text", "icon":
		return "symbol"
	default:
		return family
	}
}

// Center returns the initial map center, or the zero point if unset.
func (d *Document) Center() orb.Point {
	c, ok := d.root["center"].([]any)
	if !ok || len(c) != 2 {
		return orb.Point{}
	}
	lon, _ := c[0].(float64)
	lat, _ := c[1].(float64)
	return orb.Point{lon, lat}
}

// Zoom returns the initial zoom level, or 0 if unset.
func (d *Document) Zoom() float64 {
	z, _ := d.root["zoom"].(float64)
	return z
}

// SetView sets the initial camera of the style.
func (d *Document) SetView(center orb.Point, zoom maptile.Zoom) {
	d.root["center"] = []any{center.Lon(), center.Lat()}
	d.root["zoom"] = float64(zoom)
}
