package webmap

import (
	"encoding/json"
	"fmt"

	"github.com/mtoralba/geovista/geotab"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// DefaultFillColor matches the Leaflet default polygon fill.
const DefaultFillColor = "#3388ff"

// DefaultOutlineColor is used by AddOutlines for unmapped group values.
const DefaultOutlineColor = "#999999"

// PolygonOptions configures AddPolygons.
type PolygonOptions struct {
	// ColorBy names the category column; one layer per distinct non-nil
	// value, each with its own palette color. Empty means a single layer
	// filled with FillColor.
	ColorBy string
	// TooltipFields and TooltipAliases attach per-feature tooltips.
	TooltipFields  []string
	TooltipAliases []string
	// Palette defaults to Tab20.
	Palette Palette
	// FillOpacity defaults to 0.4.
	FillOpacity float64
	// FillColor defaults to DefaultFillColor.
	FillColor string
}

// AddPolygons overlays region layers. With a category column the rows are
// partitioned by distinct value (sorted, nulls excluded), each group drawn
// as its own layer with a palette fill, a black weight-1 outline, and a
// layer-control label in the group's color.
func (m *Map) AddPolygons(s *geotab.Set, opts PolygonOptions) error {
	if opts.Palette == nil {
		opts.Palette = Tab20
	}
	if opts.FillOpacity == 0 {
		opts.FillOpacity = 0.4
	}
	if opts.FillColor == "" {
		opts.FillColor = DefaultFillColor
	}

	if opts.ColorBy == "" {
		data, err := setToGeoJSON(s)
		if err != nil {
			return err
		}
		m.overlays = append(m.overlays, overlay{geo: &geoLayer{
			geoJSON: data,
			style: layerStyle{
				fillColor:   opts.FillColor,
				color:       "black",
				weight:      1,
				fillOpacity: opts.FillOpacity,
			},
			tooltipFields:  opts.TooltipFields,
			tooltipAliases: opts.TooltipAliases,
		}})
		return nil
	}

	colors := colorsFor(opts.Palette, s, opts.ColorBy)

	for _, g := range s.GroupBy(opts.ColorBy) {
		data, err := setToGeoJSON(g.Set)
		if err != nil {
			return err
		}
		color := colors[g.Key]
		m.overlays = append(m.overlays, overlay{geo: &geoLayer{
			name:    fmt.Sprintf(`<span style="color:%s">%s</span>`, color, g.Key),
			geoJSON: data,
			style: layerStyle{
				fillColor:   color,
				color:       "black",
				weight:      1,
				fillOpacity: opts.FillOpacity,
			},
			tooltipFields:  opts.TooltipFields,
			tooltipAliases: opts.TooltipAliases,
		}})
	}

	return nil
}

// OutlineOptions configures AddOutlines.
type OutlineOptions struct {
	// GroupBy names the column to partition by. Required.
	GroupBy string
	// Colors maps a group value to its outline color; unmapped values get
	// DefaultOutlineColor.
	Colors map[string]string
	// Emojis decorates the layer-control name of a group.
	Emojis map[string]string
	// TooltipFields and TooltipAliases attach per-feature tooltips.
	TooltipFields  []string
	TooltipAliases []string
}

// AddOutlines overlays one outline-only layer per group: resolved color for
// both stroke and (invisible) fill, weight 2, zero fill opacity.
func (m *Map) AddOutlines(s *geotab.Set, opts OutlineOptions) error {
	if opts.GroupBy == "" {
		return fmt.Errorf("outlines: group column: %w", geotab.ErrMissingColumn)
	}

	for _, g := range s.GroupBy(opts.GroupBy) {
		data, err := setToGeoJSON(g.Set)
		if err != nil {
			return err
		}

		color := DefaultOutlineColor
		if c, ok := opts.Colors[g.Key]; ok {
			color = c
		}

		name := g.Key
		if emoji, ok := opts.Emojis[g.Key]; ok && emoji != "" {
			name = emoji + " " + g.Key
		}

		m.overlays = append(m.overlays, overlay{geo: &geoLayer{
			name:    name,
			geoJSON: data,
			style: layerStyle{
				fillColor:   color,
				color:       color,
				weight:      2,
				fillOpacity: 0,
			},
			tooltipFields:  opts.TooltipFields,
			tooltipAliases: opts.TooltipAliases,
		}})
	}

	return nil
}

func setToGeoJSON(s *geotab.Set) ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, s.Len())}
	for _, f := range s.Features {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   f.Geom,
			Properties: f.Props,
		})
	}
	return json.Marshal(fc)
}
