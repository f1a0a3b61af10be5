package webmap

import (
	"fmt"

	"github.com/mtoralba/geovista/geotab"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// AddPolygonLabels places a text label at the centroid of every simple
// polygon in the set, showing the row's value from the named column in the
// given CSS color. MultiPolygons are unpacked into their parts and rows with
// non-polygonal geometry contribute nothing.
func (m *Map) AddPolygonLabels(s *geotab.Set, column, textColor string) error {
	if textColor == "" {
		textColor = "black"
	}

	labels := make([]textLabel, 0, s.Len())
	for i, f := range s.Features {
		value, _ := s.Attr(i, column)

		var polys []*geom.Polygon
		switch g := f.Geom.(type) {
		case *geom.Polygon:
			polys = []*geom.Polygon{g}
		case *geom.MultiPolygon:
			for j := 0; j < g.NumPolygons(); j++ {
				polys = append(polys, g.Polygon(j))
			}
		default:
			continue
		}

		for _, p := range polys {
			c, err := xy.Centroid(p)
			if err != nil {
				return fmt.Errorf("row %d: centroid: %w", i, err)
			}
			labels = append(labels, textLabel{
				lat: c.Y(),
				lon: c.X(),
				html: fmt.Sprintf(
					`<div style="font-size:11pt;font-weight:bold;color:%s">%v</div>`,
					textColor, value),
			})
		}
	}

	m.overlays = append(m.overlays, overlay{labels: labels})
	return nil
}
