package webmap

import "strings"

type tileLayer struct {
	url         string
	attribution string
	maxZoom     int
}

// tileRegistry maps base layer style names to their tile servers, keyed in
// lower case. Unknown names fall through as raw URL templates.
var tileRegistry = map[string]tileLayer{
	"openstreetmap": {
		url:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		maxZoom:     19,
	},
	"cartodb positron": {
		url:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		maxZoom:     20,
	},
	"cartodb dark_matter": {
		url:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		maxZoom:     20,
	},
}

// DefaultTiles is the base layer used when Options.Tiles is empty.
const DefaultTiles = "CartoDB positron"

func resolveTiles(name string) tileLayer {
	if name == "" {
		name = DefaultTiles
	}
	if t, ok := tileRegistry[strings.ToLower(name)]; ok {
		return t
	}
	return tileLayer{url: name, maxZoom: 19}
}
