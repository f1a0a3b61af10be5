package webmap

import (
	"fmt"
	"strings"

	"github.com/mtoralba/geovista/geotab"
	"github.com/twpayne/go-geom"
)

// DefaultPointColor is the marker color when no category column is given.
const DefaultPointColor = "blue"

// PointOptions configures AddPoints.
type PointOptions struct {
	// LatCol and LonCol name the coordinate columns used for rows without a
	// geometry. Empty means "latitude" / "longitude".
	LatCol string
	LonCol string
	// ColorBy names a category column; each distinct value gets its own
	// palette color. Empty means DefaultPointColor for every marker.
	ColorBy string
	// TooltipCols builds a "name: value" tooltip from these columns.
	TooltipCols []string
	// Tooltip names a single column whose value becomes the tooltip, or is
	// shown literally when no such column exists. Ignored when TooltipCols
	// is set.
	Tooltip string
	// Palette defaults to Tab10.
	Palette Palette
}

// AddPoints adds one small filled circle marker per row, in row order.
// Coordinates come from the row's geometry when present, otherwise from the
// named coordinate columns.
func (m *Map) AddPoints(s *geotab.Set, opts PointOptions) error {
	if opts.LatCol == "" {
		opts.LatCol = "latitude"
	}
	if opts.LonCol == "" {
		opts.LonCol = "longitude"
	}
	if opts.Palette == nil {
		opts.Palette = Tab10
	}

	var colors map[string]string
	if opts.ColorBy != "" {
		colors = colorsFor(opts.Palette, s, opts.ColorBy)
	}

	markers := make([]circleMarker, 0, s.Len())
	for i := range s.Features {
		lat, lon, err := rowCoords(s, i, opts.LatCol, opts.LonCol)
		if err != nil {
			return err
		}

		color := DefaultPointColor
		if colors != nil {
			if v, ok := s.Attr(i, opts.ColorBy); ok && v != nil {
				if c, ok := colors[fmt.Sprint(v)]; ok {
					color = c
				}
			}
		}

		markers = append(markers, circleMarker{
			lat:     lat,
			lon:     lon,
			color:   color,
			tooltip: rowTooltip(s, i, opts.TooltipCols, opts.Tooltip),
		})
	}

	m.overlays = append(m.overlays, overlay{circles: markers})
	return nil
}

func rowCoords(s *geotab.Set, i int, latCol, lonCol string) (lat, lon float64, err error) {
	if g := s.Features[i].Geom; g != nil {
		p, ok := g.(*geom.Point)
		if !ok {
			return 0, 0, fmt.Errorf("row %d: geometry is not a point", i)
		}
		return p.Y(), p.X(), nil
	}

	latVal, ok := s.Attr(i, latCol)
	if !ok {
		return 0, 0, fmt.Errorf("row %d: %q: %w", i, latCol, geotab.ErrMissingColumn)
	}
	lonVal, ok := s.Attr(i, lonCol)
	if !ok {
		return 0, 0, fmt.Errorf("row %d: %q: %w", i, lonCol, geotab.ErrMissingColumn)
	}

	lat, err = asFloat(latVal)
	if err != nil {
		return 0, 0, fmt.Errorf("row %d: %q: %w", i, latCol, err)
	}
	lon, err = asFloat(lonVal)
	if err != nil {
		return 0, 0, fmt.Errorf("row %d: %q: %w", i, lonCol, err)
	}
	return lat, lon, nil
}

func asFloat(v any) (float64, error) {
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

// rowTooltip resolves a marker tooltip: a column list becomes "name: value"
// pairs joined with line breaks, a single name becomes that column's value
// or, when no such column exists, the literal text itself.
func rowTooltip(s *geotab.Set, i int, cols []string, single string) string {
	if len(cols) > 0 {
		pairs := make([]string, 0, len(cols))
		for _, c := range cols {
			v, _ := s.Attr(i, c)
			pairs = append(pairs, fmt.Sprintf("%s: %v", c, v))
		}
		return strings.Join(pairs, "<br>")
	}
	if single != "" {
		if s.HasColumn(single) {
			v, _ := s.Attr(i, single)
			return fmt.Sprint(v)
		}
		return single
	}
	return ""
}
