// Package assert provides the minimal set of test assertions used across
// this module.
package assert

import (
	"reflect"

	"github.com/iov-one/splitter/errors"
	"github.com/stretchr/testify/assert"
)

// Tester is the subset of testing.TB that the assertions use. Fatal is not
// expected to stop the execution, so that a mock can count failures.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if given value is not nil. A typed nil pointer, map,
// slice or function stored in an interface is nil as well.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if v.IsNil() {
			return
		}
	}
	// %+v prints the stack trace of errors that carry one.
	t.Fatalf("want a nil value, got %+v", value)
}

// Equal fails the test if two values are not equal. Byte slices are compared
// by content, all other values are deeply compared.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !assert.ObjectsAreEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if calling fn does not panic.
func Panics(t Tester, fn func()) {
	t.Helper()
	if !didPanic(fn) {
		t.Fatal("panic expected")
	}
}

func didPanic(fn func()) (panicked bool) {
	defer func() {
		if recover() != nil {
			panicked = true
		}
	}()
	fn()
	return false
}

// FieldError fails the test unless err contains exactly one error for the
// given field name and that error is of the wanted kind. Use nil to ensure
// that no error was reported for that field.
func FieldError(t Tester, err error, fieldName string, want *errors.Error) {
	t.Helper()

	errs := errors.FieldErrors(err, fieldName)
	switch {
	case want == nil && len(errs) == 0:
	case want == nil:
		t.Fatalf("want no error for %q, got %d: %q", fieldName, len(errs), errs[0])
	case len(errs) == 0:
		t.Fatalf("no error found for %q, fields with errors: %q", fieldName, errors.Fields(err))
	case len(errs) > 1:
		t.Fatalf("want one error for %q, got %d", fieldName, len(errs))
	case !want.Is(errs[0]):
		t.Fatalf("unexpected error found for %q: %q", fieldName, errs[0])
	}
}

// IsErr fails the test if got is not of the wanted kind.
func IsErr(t Tester, want *errors.Error, got error) {
	t.Helper()
	if !want.Is(got) {
		t.Fatalf("want %q, got %+v", want, got)
	}
}
