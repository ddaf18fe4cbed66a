package discovery

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable is matched by every SourceError
var ErrSourceUnavailable = errors.New("identity source unavailable")

var errNoProfile = errors.New("source returned no profile")

// SourceError tells which identity source could not be queried and why
type SourceError struct {
	Source SourceKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source unavailable: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}
