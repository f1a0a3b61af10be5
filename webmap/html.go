package webmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const leafletVersion = "1.9.4"

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@{{.Version}}/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@{{.Version}}/dist/leaflet.js"></script>
<style>
html, body, #map { height: 100%; width: 100%; margin: 0; padding: 0; }
.map-label { white-space: nowrap; }
</style>
</head>
<body>
<div id="map"></div>
<script>
{{.Script}}
</script>
</body>
</html>
`))

type pageData struct {
	Version string
	Script  string
}

// HTML renders the artifact as a standalone, minified Leaflet page.
func (m *Map) HTML() (string, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{
		Version: leafletVersion,
		Script:  m.script(),
	}); err != nil {
		return "", err
	}

	min := minify.New()
	min.AddFunc("text/css", css.Minify)
	min.AddFunc("text/html", html.Minify)
	min.AddFunc("text/javascript", js.Minify)

	return min.String("text/html", buf.String())
}

// Save writes the rendered page to path.
func (m *Map) Save(path string) error {
	page, err := m.HTML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(page), 0644)
}

// script emits the map initialization and every overlay, in append order.
func (m *Map) script() string {
	var b strings.Builder

	fmt.Fprintf(&b, "var map = L.map('map', {preferCanvas: %t});\n", m.preferCanvas)
	fmt.Fprintf(&b, "map.setView([%g, %g], %d);\n", m.lat, m.lon, m.zoom)
	fmt.Fprintf(&b, "L.tileLayer(%s, {maxZoom: %d, attribution: %s}).addTo(map);\n",
		jsString(m.tiles.url), m.tiles.maxZoom, jsString(m.tiles.attribution))
	if m.controlScale {
		b.WriteString("L.control.scale().addTo(map);\n")
	}

	type namedLayer struct {
		name, ref string
	}
	var named []namedLayer

	for i, ov := range m.overlays {
		ref := fmt.Sprintf("layer%d", i)
		switch {
		case ov.geo != nil:
			writeGeoLayer(&b, ref, ov.geo)
			if ov.geo.name != "" {
				named = append(named, namedLayer{name: ov.geo.name, ref: ref})
			}
		case ov.circles != nil:
			writeCircles(&b, ref, ov.circles)
		case ov.labels != nil:
			writeLabels(&b, ref, ov.labels)
		}
		fmt.Fprintf(&b, "%s.addTo(map);\n", ref)
	}

	if len(named) > 0 {
		b.WriteString("var overlays = {};\n")
		for _, n := range named {
			fmt.Fprintf(&b, "overlays[%s] = %s;\n", jsString(n.name), n.ref)
		}
		b.WriteString("L.control.layers(null, overlays).addTo(map);\n")
	}

	return b.String()
}

func writeGeoLayer(b *strings.Builder, ref string, l *geoLayer) {
	fmt.Fprintf(b, "var %s = L.geoJSON(%s, {style: {fillColor: %s, color: %s, weight: %d, fillOpacity: %g}%s});\n",
		ref, l.geoJSON,
		jsString(l.style.fillColor), jsString(l.style.color),
		l.style.weight, l.style.fillOpacity,
		tooltipCallback(l.tooltipFields, l.tooltipAliases))
}

// tooltipCallback builds the onEachFeature option binding a tooltip from the
// given property fields, labeled by their aliases.
func tooltipCallback(fields, aliases []string) string {
	if len(fields) == 0 {
		return ""
	}
	if len(aliases) != len(fields) {
		aliases = fields
	}
	return fmt.Sprintf(
		", onEachFeature: function(f, l) { var ff = %s, aa = %s;"+
			" l.bindTooltip(ff.map(function(k, i) { return aa[i] + ': ' + f.properties[k]; }).join('<br>'), {sticky: true}); }",
		jsString(fields), jsString(aliases))
}

func writeCircles(b *strings.Builder, ref string, markers []circleMarker) {
	fmt.Fprintf(b, "var %s = L.layerGroup();\n", ref)
	for _, c := range markers {
		tooltip := ""
		if c.tooltip != "" {
			tooltip = fmt.Sprintf(".bindTooltip(%s, {sticky: true})", jsString(c.tooltip))
		}
		fmt.Fprintf(b,
			"L.circleMarker([%g, %g], {radius: 2, color: %s, fill: true, fillColor: %s, fillOpacity: 0.7})%s.addTo(%s);\n",
			c.lat, c.lon, jsString(c.color), jsString(c.color), tooltip, ref)
	}
}

func writeLabels(b *strings.Builder, ref string, labels []textLabel) {
	fmt.Fprintf(b, "var %s = L.layerGroup();\n", ref)
	for _, l := range labels {
		fmt.Fprintf(b,
			"L.marker([%g, %g], {icon: L.divIcon({className: 'map-label', iconSize: [100, 20], iconAnchor: [0, 0], html: %s})}).addTo(%s);\n",
			l.lat, l.lon, jsString(l.html), ref)
	}
}

// jsString JSON-encodes a value for embedding in the generated script.
func jsString(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(data)
}
