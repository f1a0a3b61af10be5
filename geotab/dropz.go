package geotab

import "github.com/twpayne/go-geom"

// DropZ strips the elevation ordinate from polygonal geometry, returning a
// strictly 2D rebuild. Ring order, ring count and winding are untouched.
// A nil input stays nil and non-polygonal geometry passes through unchanged,
// whatever its dimensionality.
func DropZ(g geom.T) geom.T {
	switch p := g.(type) {
	case *geom.Polygon:
		return dropPolygonZ(p)
	case *geom.MultiPolygon:
		out := geom.NewMultiPolygon(geom.XY)
		for i := 0; i < p.NumPolygons(); i++ {
			if err := out.Push(dropPolygonZ(p.Polygon(i))); err != nil {
				return g
			}
		}
		return out
	default:
		return g
	}
}

func dropPolygonZ(p *geom.Polygon) *geom.Polygon {
	rings := make([][]geom.Coord, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		src := p.LinearRing(i).Coords()
		ring := make([]geom.Coord, len(src))
		for j, c := range src {
			ring[j] = geom.Coord{c[0], c[1]}
		}
		rings = append(rings, ring)
	}
	return geom.NewPolygon(geom.XY).MustSetCoords(rings)
}
