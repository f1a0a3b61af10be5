package geotab

import (
	"fmt"
	"sort"
	"time"

	"github.com/twpayne/go-geom"
)

// DurationColumn is the attribute holding the elapsed route time in hours
// on the record set returned by Trajectory.
const DurationColumn = "tiempo_horas"

// Trajectory builds a chronologically ordered path from timestamped position
// rows. Rows are stably sorted ascending by timeCol, coordinates come from
// the geometry when the set carries one, otherwise from lonCol/latCol, and
// the result is a one-row set holding a single LineString plus the elapsed
// time between the first and last timestamp in hours. A single input row
// yields a degenerate one-vertex line with duration 0.
func Trajectory(s *Set, latCol, lonCol, timeCol string) (*Set, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("trajectory: %w", ErrEmptySet)
	}

	order := make([]int, s.Len())
	stamps := make([]time.Time, s.Len())
	for i := range order {
		order[i] = i
		v, ok := s.Attr(i, timeCol)
		if !ok {
			return nil, fmt.Errorf("trajectory: row %d: %q: %w", i, timeCol, ErrMissingColumn)
		}
		ts, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("trajectory: row %d: %q is not a timestamp", i, timeCol)
		}
		stamps[i] = ts
	}

	// Ties keep their original relative order.
	sort.SliceStable(order, func(a, b int) bool {
		return stamps[order[a]].Before(stamps[order[b]])
	})

	hasGeom := false
	for _, f := range s.Features {
		if f.Geom != nil {
			hasGeom = true
			break
		}
	}

	coords := make([]geom.Coord, 0, len(order))
	for _, i := range order {
		if hasGeom {
			p, ok := s.Features[i].Geom.(*geom.Point)
			if !ok {
				return nil, fmt.Errorf("trajectory: row %d: geometry is not a point", i)
			}
			coords = append(coords, geom.Coord{p.X(), p.Y()})
			continue
		}

		lon, ok := s.Attr(i, lonCol)
		if !ok {
			return nil, fmt.Errorf("trajectory: row %d: %q: %w", i, lonCol, ErrMissingColumn)
		}
		lat, ok := s.Attr(i, latCol)
		if !ok {
			return nil, fmt.Errorf("trajectory: row %d: %q: %w", i, latCol, ErrMissingColumn)
		}
		x, err := toFloat(lon)
		if err != nil {
			return nil, fmt.Errorf("trajectory: row %d: %w", i, err)
		}
		y, err := toFloat(lat)
		if err != nil {
			return nil, fmt.Errorf("trajectory: row %d: %w", i, err)
		}
		coords = append(coords, geom.Coord{x, y})
	}

	first := stamps[order[0]]
	last := stamps[order[len(order)-1]]
	hours := last.Sub(first).Hours()

	line := geom.NewLineString(geom.XY).MustSetCoords(coords)

	return &Set{
		Columns: []string{DurationColumn},
		Features: []Feature{{
			Props: map[string]any{DurationColumn: hours},
			Geom:  line,
		}},
		CRS: WGS84,
	}, nil
}
