package geotab

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestFromTableCoordinateColumns(t *testing.T) {
	table := &Table{
		Columns: []string{"id", "lon", "lat"},
		Rows: [][]any{
			{1, 2.0, 41.0},
			{2, 2.1, 41.1},
		},
	}

	set, err := FromTable(table, "lon", "lat")
	require.NoError(t, err)
	require.Equal(t, WGS84, set.CRS)
	require.Equal(t, 2, set.Len())

	p := set.Features[1].Geom.(*geom.Point)
	require.Equal(t, 2.1, p.X())
	require.Equal(t, 41.1, p.Y())
}

func TestFromTablePrefersCoordinatesOverWKT(t *testing.T) {
	table := &Table{
		Columns: []string{"lon", "lat", "geometry"},
		Rows: [][]any{
			{2.0, 41.0, "POINT (99 99)"},
		},
	}

	set, err := FromTable(table, "lon", "lat")
	require.NoError(t, err)

	p := set.Features[0].Geom.(*geom.Point)
	require.Equal(t, 2.0, p.X())
	require.Equal(t, 41.0, p.Y())
}

func TestFromTableWKTColumn(t *testing.T) {
	table := &Table{
		Columns: []string{"name", "geometry"},
		Rows: [][]any{
			{"a", "POINT (2 41)"},
			{"b", "POLYGON ((0 0, 1 0, 1 1, 0 0))"},
		},
	}

	set, err := FromTable(table, "lon", "lat")
	require.NoError(t, err)
	require.Equal(t, WGS84, set.CRS)
	require.NotContains(t, set.Columns, GeometryColumn)

	require.IsType(t, &geom.Point{}, set.Features[0].Geom)
	require.IsType(t, &geom.Polygon{}, set.Features[1].Geom)

	// The raw WKT text must not survive as an attribute.
	_, ok := set.Attr(0, GeometryColumn)
	require.False(t, ok)
}

func TestFromTableBadWKT(t *testing.T) {
	table := &Table{
		Columns: []string{"geometry"},
		Rows:    [][]any{{"POINT (not a number)"}},
	}

	_, err := FromTable(table, "lon", "lat")
	require.ErrorIs(t, err, ErrBadWKT)
}

func TestFromTableNonTextGeometry(t *testing.T) {
	table := &Table{
		Columns: []string{"geometry"},
		Rows:    [][]any{{42}},
	}

	_, err := FromTable(table, "lon", "lat")
	require.ErrorIs(t, err, ErrBadWKT)
}

func TestFromTableRaggedRow(t *testing.T) {
	table := &Table{
		Columns: []string{"id", "lon", "lat"},
		Rows: [][]any{
			{1, 2.0, 41.0},
			{2},
		},
	}

	_, err := FromTable(table, "lon", "lat")
	require.Error(t, err)
}

func TestFromTableNoCoordinates(t *testing.T) {
	table := &Table{
		Columns: []string{"id", "name"},
		Rows:    [][]any{{1, "a"}},
	}

	_, err := FromTable(table, "lon", "lat")
	require.ErrorIs(t, err, ErrNoCoordinates)
}
