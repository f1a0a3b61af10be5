package geotab

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestWebMercatorToWGS84(t *testing.T) {
	lon, lat := webMercatorToWGS84(0, 0)
	require.Equal(t, 0.0, lon)
	require.Equal(t, 0.0, lat)

	lon, lat = webMercatorToWGS84(20037508.342789244, 20037508.342789244)
	require.InDelta(t, 180.0, lon, 1e-6)
	require.InDelta(t, maxLatitude, lat, 1e-6)

	// Values past the projection edge clamp instead of blowing up.
	_, lat = webMercatorToWGS84(0, 40075016.0)
	require.Equal(t, maxLatitude, lat)
}

func TestToWGS84ReprojectsPoints(t *testing.T) {
	s := &Set{
		CRS: WebMercator,
		Features: []Feature{
			{Geom: geom.NewPointFlat(geom.XY, []float64{111319.49079327357, 0})},
		},
	}

	require.NoError(t, s.ToWGS84())
	require.Equal(t, WGS84, s.CRS)

	p := s.Features[0].Geom.(*geom.Point)
	require.InDelta(t, 1.0, p.X(), 1e-9)
	require.InDelta(t, 0.0, p.Y(), 1e-9)
}

func TestToWGS84Idempotent(t *testing.T) {
	p := geom.NewPointFlat(geom.XY, []float64{2, 41})
	s := &Set{CRS: WGS84, Features: []Feature{{Geom: p}}}

	require.NoError(t, s.ToWGS84())
	require.Same(t, p, s.Features[0].Geom.(*geom.Point))
}

func TestToWGS84Unsupported(t *testing.T) {
	s := &Set{CRS: 25831}
	require.ErrorIs(t, s.ToWGS84(), ErrUnsupportedCRS)
}

func TestCentroidMeanOfFeatures(t *testing.T) {
	s := NewSet()
	s.Features = []Feature{
		{Geom: geom.NewPointFlat(geom.XY, []float64{2.0, 41.0})},
		{Geom: geom.NewPointFlat(geom.XY, []float64{2.2, 41.4})},
	}

	c, err := s.Centroid()
	require.NoError(t, err)
	require.InDelta(t, 2.1, c.X(), 1e-9)
	require.InDelta(t, 41.2, c.Y(), 1e-9)
}

func TestCentroidEmpty(t *testing.T) {
	_, err := NewSet().Centroid()
	require.ErrorIs(t, err, ErrEmptySet)
}
