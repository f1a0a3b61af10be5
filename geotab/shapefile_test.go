package geotab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func pointExport() *Set {
	s := NewSet("name", "value")
	s.Features = []Feature{
		{
			Props: map[string]any{"name": "alpha", "value": 1.5},
			Geom:  geom.NewPointFlat(geom.XY, []float64{2.0, 41.0}),
		},
		{
			Props: map[string]any{"name": "beta", "value": 2.5},
			Geom:  geom.NewPointFlat(geom.XY, []float64{2.1, 41.1}),
		},
	}
	return s
}

func TestWriteEmptySetTouchesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.shp")

	err := Write(NewSet(), path, true)
	require.ErrorIs(t, err, ErrEmptySet)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestWriteRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.shp")
	require.NoError(t, os.WriteFile(path, []byte("sentinel"), 0644))

	err := Write(pointExport(), path, false)
	require.ErrorIs(t, err, ErrExists)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	require.Equal(t, "sentinel", string(data))
}

func TestWriteInvalidGeometry(t *testing.T) {
	s := NewSet()
	s.Features = []Feature{{
		Props: map[string]any{},
		// Open ring: first and last vertex differ.
		Geom: geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
			{{0, 0}, {1, 0}, {1, 1}, {2, 2}},
		}),
	}}

	err := Write(s, filepath.Join(t.TempDir(), "out.shp"), true)
	require.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestWriteNilGeometry(t *testing.T) {
	s := NewSet()
	s.Features = []Feature{{Props: map[string]any{}}}

	err := Write(s, filepath.Join(t.TempDir(), "out.shp"), true)
	require.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.shp")

	require.NoError(t, Write(pointExport(), path, false))

	// The CRS tag must survive via the sidecar.
	prj, err := os.ReadFile(filepath.Join(dir, "points.prj"))
	require.NoError(t, err)
	require.Contains(t, string(prj), "WGS_1984")

	// The attribute table must land at "<base>.dbf", where readers look
	// for it, not at the dotless name go-shp emits.
	_, err = os.Stat(filepath.Join(dir, "points.dbf"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "pointsdbf"))
	require.True(t, os.IsNotExist(err))

	got, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, WGS84, got.CRS)
	require.Equal(t, 2, got.Len())
	require.Equal(t, []string{"name", "value"}, got.Columns)

	p := got.Features[0].Geom.(*geom.Point)
	require.InDelta(t, 2.0, p.X(), 1e-9)
	require.InDelta(t, 41.0, p.Y(), 1e-9)

	name, ok := got.Attr(0, "name")
	require.True(t, ok)
	require.Equal(t, "alpha", name)
}

func TestWriteOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.shp")

	require.NoError(t, Write(pointExport(), path, false))
	require.NoError(t, Write(pointExport(), path, true))

	got, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
}

func TestWriteLineString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.shp")

	s := NewSet(DurationColumn)
	s.Features = []Feature{{
		Props: map[string]any{DurationColumn: 5.0},
		Geom: geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{
			{2.0, 41.0}, {2.1, 41.1}, {2.2, 41.2},
		}),
	}}

	require.NoError(t, Write(s, path, false))

	got, err := Read(path)
	require.NoError(t, err)

	line := got.Features[0].Geom.(*geom.LineString)
	require.Equal(t, 3, line.NumCoords())

	// The duration attribute must survive the export.
	require.Equal(t, []string{DurationColumn}, got.Columns)
	hours, ok := got.Attr(0, DurationColumn)
	require.True(t, ok)
	require.Contains(t, hours, "5.0")
}

func TestReadMercatorSidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "merc.shp")

	s := NewSet("name")
	s.Features = []Feature{{
		Props: map[string]any{"name": "origin"},
		Geom:  geom.NewPointFlat(geom.XY, []float64{111319.49079327357, 0}),
	}}
	require.NoError(t, Write(s, path, false))

	// Replace the sidecar so the reader sees Web Mercator data.
	prj := `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",PROJECTION["Mercator_Auxiliary_Sphere"]]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "merc.prj"), []byte(prj), 0644))

	got, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, WGS84, got.CRS)

	p := got.Features[0].Geom.(*geom.Point)
	require.InDelta(t, 1.0, p.X(), 1e-6)
}

func TestReadUnknownSidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "utm.shp")

	require.NoError(t, Write(pointExport(), path, false))
	prj := `PROJCS["ETRS89_UTM_Zone_31N",PROJECTION["Transverse_Mercator"]]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "utm.prj"), []byte(prj), 0644))

	_, err := Read(path)
	require.Error(t, err)
}
