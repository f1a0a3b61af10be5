package geotab

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestDropZPolygon(t *testing.T) {
	p := geom.NewPolygon(geom.XYZ).MustSetCoords([][]geom.Coord{
		{{0, 0, 10}, {4, 0, 11}, {4, 4, 12}, {0, 4, 13}, {0, 0, 10}},
		{{1, 1, 5}, {2, 1, 6}, {2, 2, 7}, {1, 1, 5}},
	})

	out, ok := DropZ(p).(*geom.Polygon)
	require.True(t, ok)
	require.Equal(t, geom.XY, out.Layout())
	require.Equal(t, 2, out.NumLinearRings())

	for i := 0; i < p.NumLinearRings(); i++ {
		src := p.LinearRing(i).Coords()
		got := out.LinearRing(i).Coords()
		require.Len(t, got, len(src))
		for j := range src {
			require.Equal(t, geom.Coord{src[j][0], src[j][1]}, got[j])
		}
	}
}

func TestDropZMultiPolygon(t *testing.T) {
	mp := geom.NewMultiPolygon(geom.XYZ).MustSetCoords([][][]geom.Coord{
		{{{0, 0, 1}, {1, 0, 2}, {1, 1, 3}, {0, 0, 1}}},
		{{{5, 5, 9}, {6, 5, 9}, {6, 6, 9}, {5, 5, 9}}},
	})

	out, ok := DropZ(mp).(*geom.MultiPolygon)
	require.True(t, ok)
	require.Equal(t, geom.XY, out.Layout())
	require.Equal(t, 2, out.NumPolygons())
	require.Equal(t, geom.Coord{5, 5}, out.Polygon(1).LinearRing(0).Coords()[0])
}

func TestDropZNil(t *testing.T) {
	require.Nil(t, DropZ(nil))
}

func TestDropZNonPolygonalIdentity(t *testing.T) {
	pt := geom.NewPointFlat(geom.XYZ, []float64{1, 2, 3})
	require.Same(t, pt, DropZ(pt).(*geom.Point))

	line := geom.NewLineString(geom.XYZ).MustSetCoords([]geom.Coord{{0, 0, 1}, {1, 1, 2}})
	require.Same(t, line, DropZ(line).(*geom.LineString))
}

func TestDropZAlready2D(t *testing.T) {
	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
	})
	out := DropZ(p).(*geom.Polygon)
	require.Equal(t, p.Coords(), out.Coords())
}
