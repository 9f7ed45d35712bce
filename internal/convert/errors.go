package convert

import (
	"errors"
	"fmt"
	"strings"

	"stl2scc/internal/stl"
)

var (
	// ErrInvalidHeader is fatal: the buffer is not an STL file for the
	// configured layout.
	ErrInvalidHeader = stl.ErrInvalidHeader
	// ErrEmptyResult accompanies a valid Result that holds no captions.
	ErrEmptyResult = errors.New("no displayable captions")
	// ErrConfiguration marks options that cannot be used.
	ErrConfiguration = errors.New("configuration error")
)

// RecordError reports a record whose timecodes could not be decoded. The
// record is skipped; conversion continues.
type RecordError struct {
	Index  int
	Offset int
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (offset %d): %v", e.Index, e.Offset, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// wrap tags err with marker and an operation/message detail.
func wrap(marker error, operation, message string, err error) error {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "conversion failure"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
