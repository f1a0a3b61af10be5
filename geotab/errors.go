package geotab

import "errors"

// Sentinel errors; callers match them with errors.Is.
var (
	// ErrNoCoordinates means a table had neither lon/lat columns nor a
	// WKT geometry column.
	ErrNoCoordinates = errors.New("no longitude/latitude columns and no geometry column")

	// ErrMissingColumn means a named attribute column does not exist.
	ErrMissingColumn = errors.New("column not found")

	// ErrBadWKT means a geometry column value could not be parsed as
	// well-known text.
	ErrBadWKT = errors.New("malformed WKT geometry")

	// ErrEmptySet means an operation needing at least one row got none.
	ErrEmptySet = errors.New("empty record set")

	// ErrInvalidGeometry means a geometry failed the export validity check.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrExists means the export target already exists and overwrite was
	// not requested.
	ErrExists = errors.New("file already exists")

	// ErrUnsupportedCRS means a shapefile is tagged with a CRS this
	// package cannot reproject from.
	ErrUnsupportedCRS = errors.New("unsupported coordinate reference system")
)
