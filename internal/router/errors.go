package router

import (
	"errors"
	"fmt"
)

// ErrUnknownUpstream is returned when an operation names an upstream id that
// is not registered. Disabled and unknown ids are indistinguishable to
// callers.
var ErrUnknownUpstream = errors.New("unknown upstream")

func unknownUpstream(id string) error {
	return fmt.Errorf("upstream %q: %w", id, ErrUnknownUpstream)
}
