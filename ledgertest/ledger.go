package ledgertest

import (
	"context"
	"sync"

	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/errors"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// Ledger is a client.Ledger implementation returning scripted results. It
// counts calls of every method and records submitted envelopes. It is safe
// for concurrent use, but fields must not be changed once it is in use.
type Ledger struct {
	// NetworkPassphrase is used to compute the hash of submitted
	// transactions. Defaults to the test network.
	NetworkPassphrase string

	// Accounts maps an address to its sequence number. Unknown accounts
	// are unavailable.
	Accounts   map[string]int64
	AccountErr error

	// Simulate is called for every simulation if set. Otherwise Simulation
	// and SimulationErr are returned.
	Simulate      func(call xdr.InvokeContractArgs) (*client.Simulation, error)
	Simulation    *client.Simulation
	SimulationErr error

	// Submission is returned by SendTransaction. When nil, the
	// transaction is accepted as pending.
	Submission    *client.Submission
	SubmissionErr error

	// Statuses are returned by consecutive GetTransaction calls. The last
	// one is repeated. An empty list means the transaction is never found.
	Statuses  []client.TransactionStatus
	StatusErr error

	mu            sync.Mutex
	accountCalls  int
	simulateCalls int
	sendCalls     int
	statusCalls   int
	sent          []string
}

var _ client.Ledger = (*Ledger)(nil)

// NewLedger returns a ledger knowing given accounts, all with sequence
// number 100.
func NewLedger(accounts ...string) *Ledger {
	l := &Ledger{Accounts: make(map[string]int64)}
	for _, a := range accounts {
		l.Accounts[a] = 100
	}
	return l
}

func (l *Ledger) GetAccount(ctx context.Context, address string) (*client.Account, error) {
	l.mu.Lock()
	l.accountCalls++
	l.mu.Unlock()

	if l.AccountErr != nil {
		return nil, l.AccountErr
	}
	seq, ok := l.Accounts[address]
	if !ok {
		return nil, errors.Wrapf(errors.ErrAccountUnavailable, "account %s not found", address)
	}
	return &client.Account{ID: address, Sequence: seq}, nil
}

func (l *Ledger) SimulateTransaction(ctx context.Context, envelope string) (*client.Simulation, error) {
	l.mu.Lock()
	l.simulateCalls++
	l.mu.Unlock()

	if l.Simulate != nil {
		call, err := ContractCall(envelope)
		if err != nil {
			return nil, err
		}
		return l.Simulate(call)
	}
	if l.SimulationErr != nil {
		return nil, l.SimulationErr
	}
	if l.Simulation == nil {
		return Simulated(nil), nil
	}
	return l.Simulation, nil
}

func (l *Ledger) SendTransaction(ctx context.Context, envelope string) (*client.Submission, error) {
	l.mu.Lock()
	l.sendCalls++
	l.sent = append(l.sent, envelope)
	l.mu.Unlock()

	if l.SubmissionErr != nil {
		return nil, l.SubmissionErr
	}
	if l.Submission != nil {
		return l.Submission, nil
	}
	hash, err := l.hash(envelope)
	if err != nil {
		return nil, err
	}
	return &client.Submission{Hash: hash, Status: client.SubmissionPending}, nil
}

func (l *Ledger) GetTransaction(ctx context.Context, hash string) (*client.TransactionStatus, error) {
	l.mu.Lock()
	n := l.statusCalls
	l.statusCalls++
	l.mu.Unlock()

	if l.StatusErr != nil {
		return nil, l.StatusErr
	}
	if len(l.Statuses) == 0 {
		return &client.TransactionStatus{Status: client.StatusNotFound}, nil
	}
	if n >= len(l.Statuses) {
		n = len(l.Statuses) - 1
	}
	st := l.Statuses[n]
	return &st, nil
}

func (l *Ledger) hash(envelope string) (string, error) {
	passphrase := l.NetworkPassphrase
	if passphrase == "" {
		passphrase = network.TestNetworkPassphrase
	}
	gtx, err := txnbuild.TransactionFromXDR(envelope)
	if err != nil {
		return "", errors.Wrap(errors.ErrEncoding, err.Error())
	}
	return gtx.HashHex(passphrase)
}

// AccountCallCount returns the number of GetAccount calls.
func (l *Ledger) AccountCallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accountCalls
}

// SimulateCallCount returns the number of SimulateTransaction calls.
func (l *Ledger) SimulateCallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.simulateCalls
}

// SendCallCount returns the number of SendTransaction calls.
func (l *Ledger) SendCallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sendCalls
}

// StatusCallCount returns the number of GetTransaction calls.
func (l *Ledger) StatusCallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statusCalls
}

// Sent returns all submitted envelopes in order.
func (l *Ledger) Sent() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.sent...)
}
