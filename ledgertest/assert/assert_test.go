package assert

import (
	"testing"

	"github.com/iov-one/splitter/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  *errors.Error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrInput,
			ErrGot:   errors.ErrInput,
			WantFail: false,
		},
		"compared to nil": {
			ErrWant:  nil,
			ErrGot:   errors.ErrInput,
			WantFail: true,
		},
		"both nil": {
			ErrWant:  nil,
			ErrGot:   nil,
			WantFail: false,
		},
		"wrapped": {
			ErrWant:  errors.ErrInput,
			ErrGot:   errors.Wrap(errors.ErrInput, "test"),
			WantFail: false,
		},
		"different": {
			ErrWant:  errors.ErrInput,
			ErrGot:   errors.ErrNetwork,
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			IsErr(mock, tc.ErrWant, tc.ErrGot)
			failed := mock.failcalls > 0
			if tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestFieldErrors(t *testing.T) {
	cases := map[string]struct {
		Err      error
		Name     string
		WantErr  *errors.Error
		WantFail bool
	}{
		"ensure a single error exists and is found": {
			Err:      errors.Field("Shares.0", errors.ErrInput, "must be positive"),
			Name:     "Shares.0",
			WantErr:  errors.ErrInput,
			WantFail: false,
		},
		"use nil to ensure no error was found": {
			Err:      errors.Field("Shares.0", errors.ErrInput, "must be positive"),
			Name:     "unknown-name",
			WantErr:  nil,
			WantFail: false,
		},
		"use nil to fail when an error was found but was not expected": {
			Err:      errors.Field("Shares.0", errors.ErrInput, "must be positive"),
			Name:     "Shares.0",
			WantErr:  nil,
			WantFail: true,
		},
		"more than one error for a single field is not allowed": {
			Err: errors.Append(
				errors.Field("Shares.0", errors.ErrInput, "first"),
				errors.Field("Shares.0", errors.ErrInput, "second"),
			),
			Name:     "Shares.0",
			WantErr:  errors.ErrInput,
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			FieldError(mock, tc.Err, tc.Name, tc.WantErr)
			failed := mock.failcalls > 0
			if tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

// tmock mocks testing.TB and only counts failure calls. It ignores all other
// input.
type tmock struct {
	testing.TB
	failcalls int
}

func (t *tmock) Fatal(args ...interface{}) {
	t.TB.Log(args...)
	t.failcalls++
}

func (t *tmock) Fatalf(s string, args ...interface{}) {
	t.TB.Logf(s, args...)
	t.failcalls++
}

func TestNil(t *testing.T) {
	var nilErr *errors.Error
	var nilMap map[string]int
	cases := map[string]struct {
		Value    interface{}
		WantFail bool
	}{
		"nil":          {Value: nil},
		"typed nil":    {Value: nilErr},
		"nil map":      {Value: nilMap},
		"zero int":     {Value: 0, WantFail: true},
		"error":        {Value: errors.ErrInput, WantFail: true},
		"empty slice":  {Value: []int{}, WantFail: true},
		"empty string": {Value: "", WantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			Nil(mock, tc.Value)
			if failed := mock.failcalls > 0; tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestEqualAndPanics(t *testing.T) {
	mock := &tmock{TB: t}
	Equal(mock, []byte("abc"), []byte("abc"))
	Equal(mock, map[string]uint32{"a": 1}, map[string]uint32{"a": 1})
	Panics(mock, func() { panic("boom") })
	if mock.failcalls != 0 {
		t.Fatalf("want no failures, got %d", mock.failcalls)
	}

	Equal(mock, uint32(1), uint64(1))
	Panics(mock, func() {})
	if mock.failcalls != 2 {
		t.Fatalf("want two failures, got %d", mock.failcalls)
	}
}
