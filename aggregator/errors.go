package aggregator

import "errors"

var (
	// ErrNilData is returned when a nil row is added
	ErrNilData = errors.New("data cannot be nil")
	// ErrUnsupportedData is returned for rows that are neither maps nor structs
	ErrUnsupportedData = errors.New("unsupported data type")
	// ErrFieldNotFound is returned when a group field is missing from a row
	ErrFieldNotFound = errors.New("field not found")
	// ErrNilGroupValue is returned when a group field holds nil
	ErrNilGroupValue = errors.New("group field has nil value")
	// ErrIncompatibleAggregators is returned when merging aggregators built
	// from different group or aggregation fields
	ErrIncompatibleAggregators = errors.New("incompatible aggregators")
	// ErrInvalidConfig is returned for unusable aggregation fields
	ErrInvalidConfig = errors.New("invalid aggregation config")
)
