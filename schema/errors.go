package schema

import "errors"

var (
	// ErrInvalidInput is returned when a required numeric field is missing, non-numeric or not finite.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUndefinedStatistic is returned when an aggregate has no contributing rows.
	ErrUndefinedStatistic = errors.New("undefined statistic")

	// ErrConfiguration is returned for parameters that make a formula undefined.
	ErrConfiguration = errors.New("configuration error")
)
