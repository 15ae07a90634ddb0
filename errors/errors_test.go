package errors

import (
	stdlib "errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrInput,
			root: ErrInput,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrInput, "foo"),
			root: ErrInput,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrInput,
			b:      ErrInput,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrInput,
			b:      ErrAddress,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrSimulationFailed,
			b:      errors.Wrap(ErrSimulationFailed, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrSimulationFailed,
			b:      errors.Wrap(ErrExecutionFailed, "gone"),
			wantIs: false,
		},
		"field error": {
			a:      ErrAddress,
			b:      Field("Recipients.1", ErrAddress, "bad"),
			wantIs: true,
		},
		"multi error contains": {
			a:      ErrAddress,
			b:      Append(ErrInput.New("a"), ErrAddress.New("b")),
			wantIs: true,
		},
		"nil is not an error": {
			a:      ErrInput,
			b:      nil,
			wantIs: false,
		},
		"nil kind matches nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

func TestRegisterDuplicateCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrInput.Code(), "duplicate")
}

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"nil":          {err: nil, want: 0},
		"root":         {err: ErrNetwork, want: 12},
		"wrapped":      {err: Wrapf(ErrPollingTimedOut, "hash %s", "abc"), want: 11},
		"stdlib error": {err: stdlib.New("x"), want: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestWrapMessage(t *testing.T) {
	err := Wrap(Wrap(ErrAddress, "inner"), "outer")
	if got, want := err.Error(), "outer: inner: invalid address format"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if !strings.Contains(fmt.Sprintf("%+v", err), "errors_test.go") {
		t.Fatal("stack trace missing")
	}
	if !stdlib.Is(err, ErrAddress) {
		t.Fatal("stdlib errors.Is must unwrap")
	}
}

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Shares.0", ErrInput, "must be positive"),
		Field(Index("Recipients", 1), ErrAddress, "bad"),
		Field("Shares.2", ErrInput, "must be positive"),
	)
	if got, want := Fields(err), []string{"Shares.0", "Recipients.1", "Shares.2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("want %q fields, got %q", want, got)
	}
	if n := len(FieldErrors(err, "Shares.0")); n != 1 {
		t.Fatalf("want one error, got %d", n)
	}
	if n := len(FieldErrors(err, "Recipients.0")); n != 0 {
		t.Fatalf("want no errors, got %d", n)
	}
	if !strings.HasPrefix(err.Error(), "3 errors occurred") {
		t.Fatalf("unexpected message: %s", err)
	}
}

func TestNestedFieldErrors(t *testing.T) {
	err := Field("Recipients", AppendField(Field("0", ErrAddress, ""), "2", ErrAddress), "invalid list")
	if got := Fields(err); !reflect.DeepEqual(got, []string{"Recipients"}) {
		t.Fatalf("only the outermost field must be reported, got %q", got)
	}
	if n := len(FieldErrors(err, "0")); n != 0 {
		t.Fatalf("nested field must not be reported, got %d", n)
	}
	if !ErrAddress.Is(err) {
		t.Fatal("want address error")
	}
}

func TestAppendNil(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	single := ErrInput.New("x")
	if err := Append(nil, single); err != single {
		t.Fatal("single error must be returned as it is")
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	if err := fn(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
}
