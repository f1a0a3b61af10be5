// Package config handles render-job configuration loading and shared data
// structures.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root render-job file: one map view, any number of
// overlay layers, one output page.
type Config struct {
	Output string  `yaml:"output"`
	Map    MapView `yaml:"map"`
	Layers []Layer `yaml:"layers"`
}

// MapView describes the base map.
type MapView struct {
	Lat          *float64 `yaml:"lat,omitempty"`
	Lon          *float64 `yaml:"lon,omitempty"`
	Fit          string   `yaml:"fit,omitempty"` // shapefile to center on
	Zoom         int      `yaml:"zoom,omitempty"`
	Tiles        string   `yaml:"tiles,omitempty"`
	ControlScale bool     `yaml:"control_scale,omitempty"`
	PreferCanvas bool     `yaml:"prefer_canvas,omitempty"`
}

// Layer describes one overlay. Type selects which options apply.
type Layer struct {
	Type      string `yaml:"type"` // points, polygons, outlines, labels
	Shapefile string `yaml:"shapefile"`

	// points
	LatCol      string   `yaml:"lat_col,omitempty"`
	LonCol      string   `yaml:"lon_col,omitempty"`
	Tooltip     string   `yaml:"tooltip,omitempty"`
	TooltipCols []string `yaml:"tooltip_cols,omitempty"`

	// points and polygons
	ColorBy string `yaml:"color_by,omitempty"`

	// polygons
	FillOpacity float64 `yaml:"fill_opacity,omitempty"`
	FillColor   string  `yaml:"fill_color,omitempty"`

	// outlines
	GroupBy string            `yaml:"group_by,omitempty"`
	Colors  map[string]string `yaml:"colors,omitempty"`
	Emojis  map[string]string `yaml:"emojis,omitempty"`

	// polygons and outlines
	TooltipFields  []string `yaml:"tooltip_fields,omitempty"`
	TooltipAliases []string `yaml:"tooltip_aliases,omitempty"`

	// labels
	Column string `yaml:"column,omitempty"`
	Color  string `yaml:"color,omitempty"`
}

// Load reads and parses the YAML render-job file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Output == "" {
		cfg.Output = "map.html"
	}

	for i, l := range cfg.Layers {
		switch l.Type {
		case "points", "polygons", "outlines", "labels":
		default:
			return nil, fmt.Errorf("layer %d: unknown type %q", i, l.Type)
		}
		if l.Shapefile == "" {
			return nil, fmt.Errorf("layer %d: shapefile is required", i)
		}
	}

	return &cfg, nil
}
