package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrData matches any DataError with errors.Is.
	ErrData = errors.New("data error")
	// ErrDomain matches any DomainError with errors.Is.
	ErrDomain = errors.New("domain error")
)

// DataError reports return series whose shape does not allow a run:
// empty input or series (or dates) of different lengths.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("sim: data error: %s", e.Reason)
}

func (e *DataError) Is(target error) bool { return target == ErrData }

// DomainError reports a non-positive value where a strictly positive one
// is required.
type DomainError struct {
	Series string
	Index  int
	Value  float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("sim: domain error: %s[%d] = %g must be positive", e.Series, e.Index, e.Value)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }
