package geotab

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
)

// Web Mercator sphere radius and the projection's latitude clamp.
const (
	mercatorRadius = 6378137.0
	maxLatitude    = 85.05112878
)

// webMercatorToWGS84 converts one EPSG:3857 coordinate pair to degrees
// longitude/latitude using the inverse spherical Mercator projection.
func webMercatorToWGS84(x, y float64) (lon, lat float64) {
	lon = x / mercatorRadius * (180.0 / math.Pi)

	latRad := (2.0 * math.Atan(math.Exp(y/mercatorRadius))) - (math.Pi * 0.5)
	lat = latRad * (180.0 / math.Pi)

	if lat > maxLatitude {
		lat = maxLatitude
	} else if lat < -maxLatitude {
		lat = -maxLatitude
	}

	return lon, lat
}

// ToWGS84 reprojects the set to the canonical CRS in place. A set already
// tagged canonical is returned as is; only the fixed Web Mercator case has
// a transform, anything else is ErrUnsupportedCRS.
func (s *Set) ToWGS84() error {
	switch s.CRS {
	case WGS84:
		return nil
	case WebMercator:
		for i, f := range s.Features {
			if f.Geom == nil {
				continue
			}
			s.Features[i].Geom = reprojectGeom(f.Geom)
		}
		s.CRS = WGS84
		return nil
	default:
		return fmt.Errorf("EPSG:%d: %w", s.CRS, ErrUnsupportedCRS)
	}
}

// reprojectGeom rebuilds a geometry with every vertex run through the
// inverse Mercator. Extra ordinates beyond X/Y are dropped.
func reprojectGeom(g geom.T) geom.T {
	switch t := g.(type) {
	case *geom.Point:
		c := t.Coords()
		lon, lat := webMercatorToWGS84(c[0], c[1])
		return geom.NewPointFlat(geom.XY, []float64{lon, lat})
	case *geom.LineString:
		return geom.NewLineString(geom.XY).MustSetCoords(reprojectCoords(t.Coords()))
	case *geom.Polygon:
		rings := make([][]geom.Coord, t.NumLinearRings())
		for i := range rings {
			rings[i] = reprojectCoords(t.LinearRing(i).Coords())
		}
		return geom.NewPolygon(geom.XY).MustSetCoords(rings)
	case *geom.MultiPolygon:
		polys := make([][][]geom.Coord, t.NumPolygons())
		for i := range polys {
			p := t.Polygon(i)
			rings := make([][]geom.Coord, p.NumLinearRings())
			for j := range rings {
				rings[j] = reprojectCoords(p.LinearRing(j).Coords())
			}
			polys[i] = rings
		}
		return geom.NewMultiPolygon(geom.XY).MustSetCoords(polys)
	default:
		return g
	}
}

func reprojectCoords(src []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(src))
	for i, c := range src {
		lon, lat := webMercatorToWGS84(c[0], c[1])
		out[i] = geom.Coord{lon, lat}
	}
	return out
}
