package errors

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Field returns an error describing an invalid field or attribute of a
// value. It returns nil if provided error is nil.
//
// Use Go naming for the field name. Elements of a list are named after their
// index starting with 0, see Index.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	// Stack trace is attached once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField is a shortcut for Append(errorsOrNil, Field(fieldName,
// fieldErrOrNil, "")).
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

// Index returns the name of the i-th element of a list field, for example
// Recipients.2
func Index(fieldName string, i int) string {
	return fieldName + "." + strconv.Itoa(i)
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error  { return err.parent }
func (err *fieldError) Unwrap() error { return err.parent }
func (err *fieldError) Field() string { return err.field }

type fielder interface {
	Field() string
}

// FieldErrors returns all errors created for the given field name. Field
// errors nested in a field error of the same name are not reported
// separately.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	eachField(err, func(name string, ferr error) {
		if name == fieldName {
			res = append(res, ferr)
		}
	})
	return res
}

// Fields returns the names of all fields reported by given error, in the
// order they were appended. Nested field errors are not visited.
func Fields(err error) []string {
	var names []string
	eachField(err, func(name string, _ error) {
		names = append(names, name)
	})
	return names
}

// eachField calls fn for every outermost field error found in err.
func eachField(err error, fn func(name string, ferr error)) {
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok {
			fn(f.Field(), err)
			return
		}
		// Unpacker is a superset of causer and its Cause is always one
		// of the unpacked errors.
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				eachField(e, fn)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}
