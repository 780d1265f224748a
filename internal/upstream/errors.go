package upstream

import (
	"errors"
	"fmt"
)

var (
	ErrMissingActivityID = errors.New("upstream: activity id is required")
	ErrUnexpectedStatus  = errors.New("upstream: unexpected status")
	ErrTimeout           = errors.New("upstream: request timed out")
)

// FetchError wraps a failed call to one engagement endpoint.
type FetchError struct {
	Source Source
	Status int // zero when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream: fetch %s: status %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream: fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
