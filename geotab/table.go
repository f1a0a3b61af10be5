package geotab

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// Table is a plain tabular record set without geometry.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Column returns the index of the named column and whether it exists.
func (t *Table) Column(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// GeometryColumn is the column name FromTable parses as well-known text
// when no coordinate columns are present.
const GeometryColumn = "geometry"

// FromTable converts a plain table to a geometric record set tagged with the
// canonical CRS. If both lonCol and latCol exist, one Point per row is built
// from them; otherwise a column literally named "geometry" is parsed as WKT.
// With neither, ErrNoCoordinates is returned.
func FromTable(t *Table, lonCol, latCol string) (*Set, error) {
	lonIdx, hasLon := t.Column(lonCol)
	latIdx, hasLat := t.Column(latCol)
	geomIdx, hasGeom := t.Column(GeometryColumn)

	if !hasLon || !hasLat {
		if !hasGeom {
			return nil, ErrNoCoordinates
		}
	}

	cols := t.Columns
	if !hasLon || !hasLat {
		// The WKT column becomes the geometry itself, not an attribute.
		cols = make([]string, 0, len(t.Columns)-1)
		for _, c := range t.Columns {
			if c != GeometryColumn {
				cols = append(cols, c)
			}
		}
	}

	set := &Set{Columns: cols, CRS: WGS84}
	set.Features = make([]Feature, 0, len(t.Rows))

	for n, row := range t.Rows {
		f := Feature{Props: make(map[string]any, len(t.Columns))}
		for i, c := range t.Columns {
			if i < len(row) {
				f.Props[c] = row[i]
			}
		}

		// Coordinate columns take precedence over a WKT geometry column.
		if hasLon && hasLat {
			if lonIdx >= len(row) || latIdx >= len(row) {
				return nil, fmt.Errorf("row %d: missing coordinate values", n)
			}
			lon, err := toFloat(row[lonIdx])
			if err != nil {
				return nil, fmt.Errorf("row %d: column %q: %w", n, lonCol, err)
			}
			lat, err := toFloat(row[latIdx])
			if err != nil {
				return nil, fmt.Errorf("row %d: column %q: %w", n, latCol, err)
			}
			f.Geom = geom.NewPointFlat(geom.XY, []float64{lon, lat})
		} else {
			if geomIdx >= len(row) {
				return nil, fmt.Errorf("row %d: missing geometry value: %w", n, ErrBadWKT)
			}
			text, ok := row[geomIdx].(string)
			if !ok {
				return nil, fmt.Errorf("row %d: geometry value is not text: %w", n, ErrBadWKT)
			}
			g, err := wkt.Unmarshal(text)
			if err != nil {
				return nil, fmt.Errorf("row %d: %q: %w", n, text, ErrBadWKT)
			}
			f.Geom = g
			delete(f.Props, GeometryColumn)
		}

		set.Features = append(set.Features, f)
	}

	return set, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("value %v is not numeric", v)
	}
}
