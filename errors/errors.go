package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInput is returned when a request is malformed: a non positive
	// share, mismatched recipient and share list lengths, an empty list.
	ErrInput = Register(2, "invalid input")

	// ErrAddress is returned when an identifier does not have the shape
	// required for its role (account or contract).
	ErrAddress = Register(3, "invalid address format")

	// ErrAccountUnavailable is returned when the source account cannot be
	// loaded from the ledger, usually because it is not funded.
	ErrAccountUnavailable = Register(4, "account unavailable")

	// ErrSimulationFailed is returned when the ledger rejects a contract
	// call during simulation, before anything is executed.
	ErrSimulationFailed = Register(5, "simulation failed")

	// ErrSimulationIncomplete is returned when a simulation succeeded but
	// its response is missing data required to continue.
	ErrSimulationIncomplete = Register(6, "simulation incomplete")

	// ErrSigningDeclined is returned when the signer refused to sign or
	// the user cancelled the request.
	ErrSigningDeclined = Register(7, "signing declined")

	// ErrSubmissionFailed is returned when the ledger rejects a signed
	// transaction.
	ErrSubmissionFailed = Register(8, "submission failed")

	// ErrExecutionFailed is returned when a transaction was included in
	// the ledger but its execution failed.
	ErrExecutionFailed = Register(9, "execution failed")

	// ErrUnknownStatus is returned when the ledger reports a transaction
	// status that is not recognized.
	ErrUnknownStatus = Register(10, "unknown status")

	// ErrPollingTimedOut is returned when a submitted transaction did not
	// reach a terminal status within the configured polling bounds.
	ErrPollingTimedOut = Register(11, "polling timed out")

	// ErrNetwork is returned when the ledger endpoint cannot be reached or
	// returns a transport level failure.
	ErrNetwork = Register(12, "network")

	// ErrEncoding is returned when a value cannot be converted to or from
	// its contract call representation.
	ErrEncoding = Register(13, "encoding")

	// ErrAmount is returned for amounts that cannot be represented, for
	// example a negative balance.
	ErrAmount = Register(14, "invalid amount")

	// ErrDuplicate is returned when a splitter with exactly the same
	// configuration is already deployed.
	ErrDuplicate = Register(15, "already exists")

	// ErrConfig is returned when the configuration is not valid.
	ErrConfig = Register(16, "invalid configuration")

	// ErrPanic is only set when we recover from a panic.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// This function ensures that no error code is used twice. Attempt to reuse an
// error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for errors not created by this package.
}

// Error represents a root error.
//
// Each instance created during the runtime should wrap one of the declared
// root errors. This allows error tests and classification of all failures in
// a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the registered code of this root error.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		return isNilErr(err)
	}

	for {
		if err == kind {
			return true
		}

		// A multi error matches if any of the contained errors
		// matches.
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				if kind.Is(e) {
					return true
				}
			}
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Code returns the code of the root error that given error wraps. Errors that
// do not wrap a registered root error have code 1.
func Code(err error) uint32 {
	if isNilErr(err) {
		return 0
	}
	for {
		if e, ok := err.(*Error); ok {
			return e.code
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return 1
		}
	}
}

// Wrap extends given error with an additional information.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap allows the standard library errors package to walk the chain.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Format prints the full stack trace for the %+v verb.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s", e.Error())
		if st := stackTrace(e.parent); st != nil {
			fmt.Fprintf(s, "%+v", st)
		}
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}
