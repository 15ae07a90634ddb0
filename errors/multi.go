package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is provided, nil is returned. If only one non-nil error
// is provided, it is returned as it is.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten so that appending to a multi error does not nest.
		if m, ok := e.(*multiErr); ok {
			flat = append(flat, m.errs...)
		} else {
			flat = append(flat, e)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return &multiErr{errs: flat}
}

type multiErr struct {
	errs []error
}

func (e *multiErr) Error() string {
	if len(e.errs) == 1 {
		return fmt.Sprintf("1 error occurred:\n\t* %s\n", e.errs[0])
	}

	points := make([]string, len(e.errs))
	for i, err := range e.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(e.errs), strings.Join(points, "\n\t"))
}

// Unpack returns all errors clubbed together by this instance.
func (e *multiErr) Unpack() []error {
	return e.errs
}

// Cause returns the first error so that the fail-fast classification of a
// multi error is the classification of its first element.
func (e *multiErr) Cause() error {
	return e.errs[0]
}

type unpacker interface {
	Unpack() []error
}
