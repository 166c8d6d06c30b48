package cleaners

import "fmt"

// ConfigurationError reports an invalid construction parameter.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// PlacementExhaustedError reports that the requested trash cannot fit in the
// free cells of the grid.
type PlacementExhaustedError struct {
	Requested int
	Available int
}

func (e *PlacementExhaustedError) Error() string {
	return fmt.Sprintf("cannot place %d trash agents: only %d free cells", e.Requested, e.Available)
}
