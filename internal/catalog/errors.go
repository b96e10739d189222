package catalog

import (
	"errors"
	"fmt"
)

// ErrDataFormat matches every *DataFormatError via errors.Is.
var ErrDataFormat = errors.New("catalog data format")

// DataFormatError reports a malformed catalog record.
// Index is -1 when the payload as a whole could not be decoded.
type DataFormatError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Index < 0 {
		return fmt.Sprintf("catalog: %s", msg)
	}
	return fmt.Sprintf("catalog: record %d: %s", e.Index, msg)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

func (e *DataFormatError) Is(target error) bool { return target == ErrDataFormat }
