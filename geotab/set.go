// Package geotab handles geometric record sets: tabular data where each row
// carries one geometry plus named attributes, tagged with a coordinate
// reference system.
package geotab

import (
	"fmt"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// EPSG codes the package knows about.
const (
	// WGS84 is the canonical CRS; every import and export normalizes to it.
	WGS84 = 4326
	// WebMercator is the only foreign CRS with a built-in reprojection.
	WebMercator = 3857
)

// Feature is one row of a Set: a single geometry plus its attributes.
type Feature struct {
	Props map[string]any
	Geom  geom.T
}

// Set is an ordered geometric record set. Columns preserves the attribute
// order for exports; CRS is the EPSG code shared by every geometry.
type Set struct {
	Columns  []string
	Features []Feature
	CRS      int
}

// NewSet returns an empty record set tagged with the canonical CRS.
func NewSet(columns ...string) *Set {
	return &Set{Columns: columns, CRS: WGS84}
}

// Len returns the number of rows.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Features)
}

// Attr returns the named attribute of row i and whether it is present.
func (s *Set) Attr(i int, name string) (any, bool) {
	if i < 0 || i >= len(s.Features) || s.Features[i].Props == nil {
		return nil, false
	}
	v, ok := s.Features[i].Props[name]
	return v, ok
}

// HasColumn reports whether the set declares the named attribute column.
func (s *Set) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Group is one partition of a Set produced by GroupBy.
type Group struct {
	Key string
	Set *Set
}

// GroupBy partitions rows by the named column. Rows with a nil or missing
// value are excluded. Groups come back sorted by key so downstream color
// assignment is deterministic.
func (s *Set) GroupBy(column string) []Group {
	byKey := make(map[string]*Set)
	keys := make([]string, 0)

	for i, f := range s.Features {
		v, ok := s.Attr(i, column)
		if !ok || v == nil {
			continue
		}
		key := fmt.Sprint(v)
		sub, ok := byKey[key]
		if !ok {
			sub = &Set{Columns: s.Columns, CRS: s.CRS}
			byKey[key] = sub
			keys = append(keys, key)
		}
		sub.Features = append(sub.Features, f)
	}

	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, Group{Key: key, Set: byKey[key]})
	}

	return groups
}

// Centroid returns the mean of the per-feature centroids, used for map
// centering. Features without a geometry are skipped.
func (s *Set) Centroid() (geom.Coord, error) {
	var sumX, sumY float64
	var n int

	for _, f := range s.Features {
		if f.Geom == nil {
			continue
		}
		c, err := xy.Centroid(f.Geom)
		if err != nil {
			return nil, err
		}
		sumX += c.X()
		sumY += c.Y()
		n++
	}

	if n == 0 {
		return nil, fmt.Errorf("centroid: %w", ErrEmptySet)
	}

	return geom.Coord{sumX / float64(n), sumY / float64(n)}, nil
}

// Bounds returns the bounding box covering every geometry in the set.
func (s *Set) Bounds() *geom.Bounds {
	b := geom.NewBounds(geom.XY)
	for _, f := range s.Features {
		if f.Geom != nil {
			b.Extend(f.Geom)
		}
	}
	return b
}
