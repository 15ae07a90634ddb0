package client

import (
	"fmt"
	"strings"

	"github.com/iov-one/splitter/errors"
	"github.com/stellar/go/xdr"
)

// Reason is a structured cause of a ledger failure, decoded from the ledger
// response rather than from its human readable description.
type Reason struct {
	// Result is the transaction level result code.
	Result *xdr.TransactionResultCode
	// Operation is the result code of the contract call operation.
	Operation *xdr.InvokeHostFunctionResultCode
	// Host is the error raised by the contract host or by the contract.
	Host *xdr.ScError
}

// Duplicate returns true if the failure was caused by an attempt to create
// a ledger entry that already exists.
func (r Reason) Duplicate() bool {
	return r.Host != nil &&
		r.Host.Type == xdr.ScErrorTypeSceStorage &&
		r.Host.Code != nil &&
		*r.Host.Code == xdr.ScErrorCodeScecExistingValue
}

// Missing returns true if the failure was caused by reading a ledger entry,
// for example a contract instance, that does not exist.
func (r Reason) Missing() bool {
	return r.Host != nil &&
		r.Host.Type == xdr.ScErrorTypeSceStorage &&
		r.Host.Code != nil &&
		*r.Host.Code == xdr.ScErrorCodeScecMissingValue
}

// ContractCode returns the error code raised by the contract itself.
func (r Reason) ContractCode() (uint32, bool) {
	if r.Host == nil || r.Host.Type != xdr.ScErrorTypeSceContract || r.Host.ContractCode == nil {
		return 0, false
	}
	return uint32(*r.Host.ContractCode), true
}

func (r Reason) String() string {
	var parts []string
	if r.Result != nil {
		parts = append(parts, strings.TrimPrefix(r.Result.String(), "TransactionResultCode"))
	}
	if r.Operation != nil {
		parts = append(parts, strings.TrimPrefix(r.Operation.String(), "InvokeHostFunctionResultCode"))
	}
	if r.Host != nil {
		parts = append(parts, hostError(*r.Host))
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, " ")
}

func hostError(e xdr.ScError) string {
	kind := strings.TrimPrefix(e.Type.String(), "ScErrorTypeSce")
	switch {
	case e.ContractCode != nil:
		return fmt.Sprintf("Error(%s, #%d)", kind, *e.ContractCode)
	case e.Code != nil:
		return fmt.Sprintf("Error(%s, %s)", kind, strings.TrimPrefix(e.Code.String(), "ScErrorCodeScec"))
	default:
		return fmt.Sprintf("Error(%s)", kind)
	}
}

// Failure is an error returned by the ledger for a specific transaction. It
// wraps one of the registered root errors.
type Failure struct {
	err error
	// Hash is the transaction hash, if the transaction was submitted.
	Hash string
	// Reason is the structured cause, if the ledger reported one.
	Reason *Reason
}

func newFailure(kind *errors.Error, hash string, reason *Reason, description string) *Failure {
	return &Failure{
		err:    errors.Wrap(kind, description),
		Hash:   hash,
		Reason: reason,
	}
}

func (f *Failure) Error() string {
	msg := f.err.Error()
	if f.Reason != nil {
		msg += ": " + f.Reason.String()
	}
	if f.Hash != "" {
		msg += " (transaction " + f.Hash + ")"
	}
	return msg
}

// Cause returns the wrapped root error.
func (f *Failure) Cause() error {
	return f.err
}

// Unwrap implements the standard library errors interface.
func (f *Failure) Unwrap() error {
	return f.err
}

// Format prints the stack trace of the wrapped error for %+v.
func (f *Failure) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%+v", f.err)
		if f.Reason != nil {
			fmt.Fprintf(s, "\nreason: %s", f.Reason)
		}
		return
	}
	fmt.Fprint(s, f.Error())
}

// AsFailure returns the ledger failure wrapped by given error, if any.
func AsFailure(err error) (*Failure, bool) {
	type causer interface {
		Cause() error
	}
	for err != nil {
		if f, ok := err.(*Failure); ok {
			return f, true
		}
		c, ok := err.(causer)
		if !ok {
			return nil, false
		}
		err = c.Cause()
	}
	return nil, false
}

// ReasonOf returns the structured reason carried by given error, if any.
func ReasonOf(err error) (Reason, bool) {
	f, ok := AsFailure(err)
	if !ok || f.Reason == nil {
		return Reason{}, false
	}
	return *f.Reason, true
}

// HashOf returns the transaction hash carried by given error, if any.
func HashOf(err error) (string, bool) {
	f, ok := AsFailure(err)
	if !ok || f.Hash == "" {
		return "", false
	}
	return f.Hash, true
}
