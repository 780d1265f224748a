package posturl

import (
	"errors"
	"fmt"
)

// ErrIdentifierNotFound is returned when a valid-looking post URL carries no
// numeric activity identifier.
var ErrIdentifierNotFound = errors.New("posturl: activity identifier not found")

// InvalidURLError reports input that does not match any known post URL shape.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("posturl: invalid post url %q: %s", e.URL, e.Reason)
}
