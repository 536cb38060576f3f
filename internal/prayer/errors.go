package prayer

import "errors"

var (
	// ErrInvalidCoordinates is returned for a latitude outside [-90, 90] or a
	// longitude outside [-180, 180]. Values are never clamped.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrUnknownMethod is returned when a calculation method name is not registered.
	ErrUnknownMethod = errors.New("unknown calculation method")

	// ErrNoSolarSolution is returned when the sun never reaches an altitude the
	// schedule depends on and the method's high-latitude rule cannot stand in.
	ErrNoSolarSolution = errors.New("no solar solution")

	ErrNoTomorrow = errors.New("tomorrow's prayer times are not available")
)
