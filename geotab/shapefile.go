package geotab

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonas-p/go-shp"
	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom"
)

// wgs84PRJ is the ESRI well-known text written next to every export so the
// CRS tag survives a round trip.
const wgs84PRJ = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// Read imports a shapefile as a geometric record set normalized to the
// canonical CRS. The .prj sidecar decides the source CRS: a Web Mercator
// projection triggers the fixed reprojection, a missing sidecar means the
// data is taken as already geographic and only tagged.
func Read(path string) (*Set, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close shapefile")
		}
	}()

	fields := r.Fields()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.String()
	}

	set := &Set{Columns: columns}

	for r.Next() {
		n, shape := r.Shape()

		g, err := shapeToGeom(shape)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, n, err)
		}

		props := make(map[string]any, len(fields))
		for i := range fields {
			props[columns[i]] = strings.TrimRight(r.ReadAttribute(n, i), "\x00 ")
		}

		set.Features = append(set.Features, Feature{Props: props, Geom: g})
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	crs, err := readPRJ(path)
	if err != nil {
		return nil, err
	}
	set.CRS = crs

	return set, set.ToWGS84()
}

// Write exports the set as a shapefile at path, reprojected to the canonical
// CRS, with UTF-8 attribute text and a WGS84 .prj sidecar. An empty set and
// invalid geometry are rejected before anything touches the filesystem, and
// an existing target is only replaced when overwrite is set.
func Write(s *Set, path string, overwrite bool) error {
	if s.Len() == 0 {
		return fmt.Errorf("export %s: %w", path, ErrEmptySet)
	}
	for i, f := range s.Features {
		if err := validateGeom(f.Geom); err != nil {
			return fmt.Errorf("export %s: row %d: %w", path, i, err)
		}
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}

	// Reproject a shallow copy so the caller's set keeps its CRS.
	out := &Set{
		Columns:  s.Columns,
		Features: append([]Feature(nil), s.Features...),
		CRS:      s.CRS,
	}
	if err := out.ToWGS84(); err != nil {
		return err
	}

	w, err := shp.Create(path, shapeTypeOf(out.Features[0].Geom))
	if err != nil {
		return err
	}

	// SetFields creates the attribute table; without it the shapefile
	// would silently carry no attributes at all.
	if err := w.SetFields(dbfFields(out)); err != nil {
		w.Close()
		return err
	}

	for row, f := range out.Features {
		w.Write(geomToShape(f.Geom))
		for col, name := range out.Columns {
			v, _ := out.Attr(row, name)
			if err := w.WriteAttribute(row, col, dbfValue(v)); err != nil {
				w.Close()
				return err
			}
		}
	}

	w.Close()

	// go-shp names the attribute table "<base>dbf" without the dot, which
	// no reader (including ours) looks for. Rename it to "<base>.dbf".
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if _, err := os.Stat(base + "dbf"); err == nil {
		if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
			return err
		}
	}

	return os.WriteFile(sidecar(path, ".prj"), []byte(wgs84PRJ), 0644)
}

// readPRJ sniffs the projection sidecar. Only the two CRS the package knows
// are recognized; anything else is an error rather than a silent guess.
func readPRJ(path string) (int, error) {
	data, err := os.ReadFile(sidecar(path, ".prj"))
	if os.IsNotExist(err) {
		return WGS84, nil
	}
	if err != nil {
		return 0, err
	}

	text := string(data)
	switch {
	case strings.Contains(text, "Web_Mercator") || strings.Contains(text, "Pseudo-Mercator") || strings.Contains(text, "3857"):
		return WebMercator, nil
	case strings.Contains(text, "GCS_WGS_1984") || strings.Contains(text, "WGS 84") || strings.Contains(text, "4326"):
		return WGS84, nil
	default:
		return 0, fmt.Errorf("%s: %w", sidecar(path, ".prj"), ErrUnsupportedCRS)
	}
}

func sidecar(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// validateGeom is the export validity check: a geometry must exist, have
// coordinates, and polygon rings must be closed with at least four vertices.
func validateGeom(g geom.T) error {
	if g == nil {
		return fmt.Errorf("%w: nil geometry", ErrInvalidGeometry)
	}
	if len(g.FlatCoords()) == 0 {
		return fmt.Errorf("%w: empty geometry", ErrInvalidGeometry)
	}

	switch t := g.(type) {
	case *geom.Polygon:
		return validateRings(t)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			if err := validateRings(t.Polygon(i)); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateRings(p *geom.Polygon) error {
	for i := 0; i < p.NumLinearRings(); i++ {
		coords := p.LinearRing(i).Coords()
		if len(coords) < 4 {
			return fmt.Errorf("%w: ring %d has %d vertices", ErrInvalidGeometry, i, len(coords))
		}
		first, last := coords[0], coords[len(coords)-1]
		if first[0] != last[0] || first[1] != last[1] {
			return fmt.Errorf("%w: ring %d is not closed", ErrInvalidGeometry, i)
		}
	}
	return nil
}

// shapeToGeom converts one go-shp record to a go-geom value. Z variants keep
// their elevation as an XYZ layout so DropZ has something to strip.
func shapeToGeom(s shp.Shape) (geom.T, error) {
	switch v := s.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{v.X, v.Y}), nil
	case *shp.PointZ:
		return geom.NewPointFlat(geom.XYZ, []float64{v.X, v.Y, v.Z}), nil
	case *shp.PolyLine:
		// Multi-part polylines are flattened into one vertex sequence.
		return geom.NewLineString(geom.XY).MustSetCoords(flatten(splitParts(v.Parts, v.Points, nil))), nil
	case *shp.PolyLineZ:
		return geom.NewLineString(geom.XYZ).MustSetCoords(flatten(splitParts(v.Parts, v.Points, v.ZArray))), nil
	case *shp.Polygon:
		return geom.NewPolygon(geom.XY).MustSetCoords(splitParts(v.Parts, v.Points, nil)), nil
	case *shp.PolygonZ:
		return geom.NewPolygon(geom.XYZ).MustSetCoords(splitParts(v.Parts, v.Points, v.ZArray)), nil
	case *shp.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported shape type %T", s)
	}
}

// splitParts slices the flat shapefile point array into per-part coordinate
// rings, attaching Z values when present.
func splitParts(parts []int32, points []shp.Point, zs []float64) [][]geom.Coord {
	if len(parts) == 0 && len(points) > 0 {
		parts = []int32{0}
	}

	out := make([][]geom.Coord, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		ring := make([]geom.Coord, 0, end-int(start))
		for j := int(start); j < end; j++ {
			if zs != nil {
				ring = append(ring, geom.Coord{points[j].X, points[j].Y, zs[j]})
			} else {
				ring = append(ring, geom.Coord{points[j].X, points[j].Y})
			}
		}
		out = append(out, ring)
	}
	return out
}

func flatten(parts [][]geom.Coord) []geom.Coord {
	out := make([]geom.Coord, 0)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func shapeTypeOf(g geom.T) shp.ShapeType {
	switch g.(type) {
	case *geom.Point:
		return shp.POINT
	case *geom.LineString:
		return shp.POLYLINE
	default:
		return shp.POLYGON
	}
}

func geomToShape(g geom.T) shp.Shape {
	switch t := g.(type) {
	case *geom.Point:
		return &shp.Point{X: t.X(), Y: t.Y()}
	case *geom.LineString:
		return shp.NewPolyLine([][]shp.Point{shpPoints(t.Coords())})
	case *geom.Polygon:
		return (*shp.Polygon)(shp.NewPolyLine(shpRings(t)))
	case *geom.MultiPolygon:
		parts := make([][]shp.Point, 0)
		for i := 0; i < t.NumPolygons(); i++ {
			parts = append(parts, shpRings(t.Polygon(i))...)
		}
		return (*shp.Polygon)(shp.NewPolyLine(parts))
	default:
		return &shp.Null{}
	}
}

func shpRings(p *geom.Polygon) [][]shp.Point {
	rings := make([][]shp.Point, p.NumLinearRings())
	for i := range rings {
		rings[i] = shpPoints(p.LinearRing(i).Coords())
	}
	return rings
}

func shpPoints(coords []geom.Coord) []shp.Point {
	pts := make([]shp.Point, len(coords))
	for i, c := range coords {
		pts[i] = shp.Point{X: c[0], Y: c[1]}
	}
	return pts
}

// dbfFields derives the attribute table schema from the first row's values.
func dbfFields(s *Set) []shp.Field {
	fields := make([]shp.Field, len(s.Columns))
	for i, name := range s.Columns {
		v, _ := s.Attr(0, name)
		switch v.(type) {
		case float64, float32:
			fields[i] = shp.FloatField(name, 24, 6)
		case int, int32, int64:
			fields[i] = shp.NumberField(name, 16)
		default:
			fields[i] = shp.StringField(name, 120)
		}
	}
	return fields
}

func dbfValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
