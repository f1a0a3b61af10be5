// Package webmap builds interactive Leaflet map artifacts from geometric
// record sets. A Map accumulates overlay layers in call order and renders
// to a standalone, minified HTML page.
package webmap

import (
	"errors"
	"fmt"

	"github.com/mtoralba/geovista/geotab"
)

// ErrNoCenter means neither an explicit center nor a record set to derive
// one from was supplied.
var ErrNoCenter = errors.New("no center coordinates and no record set to fit")

// LatLon is an explicit map center.
type LatLon struct {
	Lat float64
	Lon float64
}

// Options configures a new map artifact.
type Options struct {
	// Center places the map at explicit coordinates. Ignored when Fit is set.
	Center *LatLon
	// Fit centers the map on the centroid of a record set.
	Fit *geotab.Set
	// Zoom is the initial zoom level; 0 means the default of 10.
	Zoom int
	// Tiles selects a base layer by registry name ("OpenStreetMap",
	// "CartoDB positron", "CartoDB dark_matter") or is used verbatim as a
	// tile URL template. Empty means CartoDB positron.
	Tiles string
	// ControlScale shows the scale indicator.
	ControlScale bool
	// PreferCanvas switches Leaflet to the canvas renderer, which keeps the
	// page usable with many thousands of markers.
	PreferCanvas bool
	// File, when set, saves the artifact there immediately.
	File string
}

// Map is the in-memory map artifact. It is not safe for concurrent overlay
// calls; the caller threads it through successive Add* calls.
type Map struct {
	lat, lon     float64
	zoom         int
	tiles        tileLayer
	controlScale bool
	preferCanvas bool
	overlays     []overlay
}

type overlay struct {
	circles []circleMarker
	geo     *geoLayer
	labels  []textLabel
}

type circleMarker struct {
	lat, lon float64
	color    string
	tooltip  string
}

type geoLayer struct {
	name           string // layer control entry, may carry inline HTML
	geoJSON        []byte
	style          layerStyle
	tooltipFields  []string
	tooltipAliases []string
}

// layerStyle is resolved once per layer at append time, so every layer keeps
// its own colors no matter how many groups follow it.
type layerStyle struct {
	fillColor   string
	color       string
	weight      int
	fillOpacity float64
}

type textLabel struct {
	lat, lon float64
	html     string
}

// New builds a map artifact centered on opts.Fit's centroid or opts.Center,
// in that order. With opts.File set the page is written out immediately;
// the artifact is returned either way for further composition.
func New(opts Options) (*Map, error) {
	m := &Map{
		zoom:         opts.Zoom,
		tiles:        resolveTiles(opts.Tiles),
		controlScale: opts.ControlScale,
		preferCanvas: opts.PreferCanvas,
	}
	if m.zoom <= 0 {
		m.zoom = 10
	}

	switch {
	case opts.Fit != nil:
		c, err := opts.Fit.Centroid()
		if err != nil {
			return nil, fmt.Errorf("fit: %w", err)
		}
		m.lon, m.lat = c.X(), c.Y()
	case opts.Center != nil:
		m.lat, m.lon = opts.Center.Lat, opts.Center.Lon
	default:
		return nil, ErrNoCenter
	}

	if opts.File != "" {
		if err := m.Save(opts.File); err != nil {
			return nil, err
		}
	}

	return m, nil
}
