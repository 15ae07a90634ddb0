package client

import (
	"context"

	"github.com/stellar/go/xdr"
)

// Ledger is the ledger RPC surface used to invoke contracts.
//
// Implementations must return errors wrapping errors.ErrNetwork for
// transport failures, so that they can be told apart from a ledger
// rejecting the request.
type Ledger interface {
	// GetAccount returns the account with its current sequence number. It
	// fails with errors.ErrAccountUnavailable if the account does not
	// exist.
	GetAccount(ctx context.Context, address string) (*Account, error)

	// SimulateTransaction dry runs given base64 encoded transaction
	// envelope. A rejected call is not an error, it is reported in the
	// result.
	SimulateTransaction(ctx context.Context, envelope string) (*Simulation, error)

	// SendTransaction submits given base64 encoded signed transaction
	// envelope.
	SendTransaction(ctx context.Context, envelope string) (*Submission, error)

	// GetTransaction returns the current status of a transaction.
	GetTransaction(ctx context.Context, hash string) (*TransactionStatus, error)
}

// Account is a ledger account able to pay for and sign transactions.
type Account struct {
	ID       string
	Sequence int64
}

// Simulation is the outcome of simulating a transaction. It is either an
// error or a success, depending on whether Error is set.
type Simulation struct {
	// Error is the ledger provided description of why the call was
	// rejected. Empty on success.
	Error string
	// Reason is the structured cause of a rejection, if the ledger
	// reported one.
	Reason *Reason

	// TransactionData is the resource footprint computed by the ledger.
	TransactionData *xdr.SorobanTransactionData
	// MinResourceFee is the resource fee, in stroops, that must be paid on
	// top of the inclusion fee.
	MinResourceFee int64
	// Auth holds the authorization entries required by the call.
	Auth []xdr.SorobanAuthorizationEntry
	// ReturnValue is the value returned by the simulated call, if any.
	ReturnValue *xdr.ScVal

	LatestLedger uint32
}

// Failed returns true if the simulation was rejected.
func (s *Simulation) Failed() bool {
	return s.Error != ""
}

// SubmissionStatus is the status returned right after sending a
// transaction.
type SubmissionStatus string

const (
	// SubmissionPending means the transaction was accepted and awaits
	// inclusion in a ledger.
	SubmissionPending SubmissionStatus = "PENDING"
	// SubmissionDuplicate means the same transaction was already
	// submitted.
	SubmissionDuplicate SubmissionStatus = "DUPLICATE"
	// SubmissionTryAgainLater means the ledger is not accepting new
	// transactions from this account at the moment.
	SubmissionTryAgainLater SubmissionStatus = "TRY_AGAIN_LATER"
	// SubmissionError means the transaction was rejected.
	SubmissionError SubmissionStatus = "ERROR"
)

// Submission is the receipt of sending a transaction.
type Submission struct {
	Hash   string
	Status SubmissionStatus
	// Reason is set when the status is SubmissionError.
	Reason *Reason
}

// Status is the status of a submitted transaction.
type Status string

const (
	// StatusNotFound means the transaction is not yet known to the ledger.
	// It is not an error.
	StatusNotFound Status = "NOT_FOUND"
	StatusSuccess  Status = "SUCCESS"
	StatusFailed   Status = "FAILED"
)

// Terminal returns true if no status change is expected anymore.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// TransactionStatus is the current state of a submitted transaction.
type TransactionStatus struct {
	Status Status
	// Ledger is the sequence of the ledger that included the transaction.
	Ledger uint32
	// ReturnValue is set on success if the contract method returns a
	// value.
	ReturnValue *xdr.ScVal
	// Reason is set on failure.
	Reason *Reason
}
