package client

import (
	"context"
	"time"

	"github.com/iov-one/splitter"
	"github.com/iov-one/splitter/errors"
	"github.com/iov-one/splitter/scval"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/tendermint/tendermint/libs/log"
)

// PlaceholderAccount is the well known account with an all zero public key.
// Nobody holds its secret key, which makes it a safe source for read only
// simulations.
const PlaceholderAccount = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"

// PollPolicy bounds waiting for a submitted transaction. Polling stops on
// the first bound that is reached. Zero MaxAttempts or Timeout disables
// that bound, but at least one of them must be set.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

// Config is the configuration of a Client.
type Config struct {
	NetworkPassphrase string
	// BaseFee is the inclusion fee, in stroops, of a single operation.
	// The resource fee computed by simulation is added to it.
	BaseFee int64
	// TxTimeout limits the validity window of built transactions.
	TxTimeout time.Duration
	Poll      PollPolicy
	// SimulationSource is the account used as the source of read only
	// calls. It does not have to exist on the ledger.
	SimulationSource string
}

// DefaultConfig returns the configuration for the test network.
func DefaultConfig() Config {
	return Config{
		NetworkPassphrase: network.TestNetworkPassphrase,
		BaseFee:           txnbuild.MinBaseFee,
		TxTimeout:         30 * time.Second,
		Poll: PollPolicy{
			Interval:    time.Second,
			MaxAttempts: 60,
			Timeout:     2 * time.Minute,
		},
		SimulationSource: PlaceholderAccount,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	var errs error
	if c.NetworkPassphrase == "" {
		errs = errors.AppendField(errs, "NetworkPassphrase", errors.ErrConfig)
	}
	if c.BaseFee < txnbuild.MinBaseFee {
		errs = errors.AppendField(errs, "BaseFee",
			errors.Wrapf(errors.ErrConfig, "must be at least %d", txnbuild.MinBaseFee))
	}
	if c.TxTimeout < time.Second {
		errs = errors.AppendField(errs, "TxTimeout",
			errors.Wrap(errors.ErrConfig, "must be at least one second"))
	}
	if c.Poll.Interval <= 0 {
		errs = errors.AppendField(errs, "Poll.Interval",
			errors.Wrap(errors.ErrConfig, "must be positive"))
	}
	if c.Poll.MaxAttempts < 0 || c.Poll.Timeout < 0 || (c.Poll.MaxAttempts == 0 && c.Poll.Timeout == 0) {
		errs = errors.AppendField(errs, "Poll",
			errors.Wrap(errors.ErrConfig, "polling must be bounded by attempts or timeout"))
	}
	if err := splitter.ValidateAccountAddress(c.SimulationSource); err != nil {
		errs = errors.AppendField(errs, "SimulationSource", errors.Wrap(errors.ErrConfig, err.Error()))
	}
	return errs
}

// Invocation is a call of a contract method. Arguments must be in the order
// the method declares its parameters.
type Invocation struct {
	Contract string
	Method   string
	Args     []xdr.ScVal
}

func (inv Invocation) validate() error {
	if err := splitter.ValidateContractAddress(inv.Contract); err != nil {
		return errors.Wrap(err, "contract")
	}
	if inv.Method == "" {
		return errors.Wrap(errors.ErrInput, "method name is required")
	}
	return nil
}

// Result is the outcome of a successfully executed invocation.
type Result struct {
	Hash   string
	Ledger uint32
	// ReturnValue is nil if the method does not return a value.
	ReturnValue *xdr.ScVal
}

// Client invokes contracts through a ledger endpoint.
type Client struct {
	ledger Ledger
	conf   Config
	logger log.Logger
}

// NewClient returns a client using given ledger. Logger can be nil.
func NewClient(ledger Ledger, conf Config, logger log.Logger) (*Client, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Client{
		ledger: ledger,
		conf:   conf,
		logger: logger.With("module", "client"),
	}, nil
}

// Config returns the configuration the client was created with.
func (c *Client) Config() Config {
	return c.conf
}

// Invoke executes a contract call signed by the source account. It blocks
// until the transaction is executed, fails, or polling is exhausted.
//
// Addresses are validated before anything is sent to the ledger. Every
// failure wraps one of the registered root errors, so the caller can
// classify it, and failures reported by the ledger are a *Failure carrying
// the structured reason.
func (c *Client) Invoke(ctx context.Context, source string, inv Invocation, signer Signer) (*Result, error) {
	if err := splitter.ValidateAccountAddress(source); err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if err := inv.validate(); err != nil {
		return nil, err
	}
	if signer == nil {
		return nil, errors.Wrap(errors.ErrInput, "signer is required")
	}
	logger := c.logger.With("method", inv.Method, "contract", inv.Contract)

	logger.Debug("load account", "source", source)
	acc, err := c.ledger.GetAccount(ctx, source)
	if err != nil {
		if errors.ErrAccountUnavailable.Is(err) {
			return nil, errors.Wrap(err, "source")
		}
		return nil, errors.Wrapf(errors.ErrAccountUnavailable, "%s: %s", source, err)
	}

	op, err := invokeOperation(inv)
	if err != nil {
		return nil, err
	}
	tx, err := c.transaction(*acc, op, c.conf.BaseFee)
	if err != nil {
		return nil, err
	}

	logger.Debug("simulate", "sequence", acc.Sequence+1)
	sim, err := c.simulate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if sim.TransactionData == nil {
		return nil, errors.Wrap(errors.ErrSimulationIncomplete, "no transaction data")
	}

	tx, err = c.assemble(*acc, op, sim)
	if err != nil {
		return nil, err
	}
	unsigned, err := tx.Base64()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "transaction envelope: %s", err)
	}
	hash, err := tx.HashHex(c.conf.NetworkPassphrase)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "transaction hash: %s", err)
	}

	logger.Debug("sign", "hash", hash, "fee", tx.MaxFee())
	signed, err := signer.Sign(ctx, unsigned, SignOptions{
		Address:           source,
		NetworkPassphrase: c.conf.NetworkPassphrase,
	})
	if err != nil {
		if errors.ErrSigningDeclined.Is(err) {
			return nil, err
		}
		return nil, errors.Wrapf(errors.ErrSigningDeclined, "signer: %s", err)
	}
	envelope, err := c.verifySigned(signed, hash)
	if err != nil {
		return nil, err
	}

	logger.Debug("submit", "hash", hash)
	sub, err := c.ledger.SendTransaction(ctx, envelope)
	if err != nil {
		return nil, errors.Wrap(err, "send transaction")
	}
	switch sub.Status {
	case SubmissionPending, SubmissionDuplicate:
	case SubmissionTryAgainLater:
		return nil, newFailure(errors.ErrSubmissionFailed, hash, sub.Reason, "ledger is busy, try again later")
	case SubmissionError:
		return nil, newFailure(errors.ErrSubmissionFailed, hash, sub.Reason, "transaction rejected")
	default:
		return nil, newFailure(errors.ErrUnknownStatus, hash, nil, string(sub.Status))
	}
	if sub.Hash != "" && sub.Hash != hash {
		logger.Error("ledger reported unexpected hash", "hash", hash, "reported", sub.Hash)
		hash = sub.Hash
	}

	status, err := c.poll(ctx, hash)
	if err != nil {
		logger.Error("transaction not executed", "hash", hash, "err", err)
		return nil, err
	}
	logger.Info("transaction executed", "hash", hash, "ledger", status.Ledger)
	return &Result{
		Hash:        hash,
		Ledger:      status.Ledger,
		ReturnValue: status.ReturnValue,
	}, nil
}

// Simulate executes a read only contract call and returns its result.
// Nothing is signed or submitted.
func (c *Client) Simulate(ctx context.Context, inv Invocation) (xdr.ScVal, error) {
	if err := inv.validate(); err != nil {
		return xdr.ScVal{}, err
	}
	op, err := invokeOperation(inv)
	if err != nil {
		return xdr.ScVal{}, err
	}
	tx, err := c.transaction(Account{ID: c.conf.SimulationSource}, op, c.conf.BaseFee)
	if err != nil {
		return xdr.ScVal{}, err
	}
	c.logger.Debug("simulate read only", "method", inv.Method, "contract", inv.Contract)
	sim, err := c.simulate(ctx, tx)
	if err != nil {
		return xdr.ScVal{}, err
	}
	if sim.ReturnValue == nil {
		return xdr.ScVal{}, errors.Wrap(errors.ErrSimulationIncomplete, "no return value")
	}
	return *sim.ReturnValue, nil
}

func invokeOperation(inv Invocation) (*txnbuild.InvokeHostFunction, error) {
	contract, err := scval.ScAddress(inv.Contract)
	if err != nil {
		return nil, errors.Wrap(err, "contract")
	}
	return &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contract,
				FunctionName:    xdr.ScSymbol(inv.Method),
				Args:            inv.Args,
			},
		},
	}, nil
}

// transaction builds a transaction using the next sequence number of given
// account. Account is copied, so it can be used to build the same
// transaction again.
func (c *Client) transaction(acc Account, op txnbuild.Operation, fee int64) (*txnbuild.Transaction, error) {
	source := txnbuild.NewSimpleAccount(acc.ID, acc.Sequence)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &source,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              fee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(int64(c.conf.TxTimeout / time.Second)),
		},
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "build transaction: %s", err)
	}
	return tx, nil
}

func (c *Client) simulate(ctx context.Context, tx *txnbuild.Transaction) (*Simulation, error) {
	envelope, err := tx.Base64()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "transaction envelope: %s", err)
	}
	sim, err := c.ledger.SimulateTransaction(ctx, envelope)
	if err != nil {
		return nil, errors.Wrap(err, "simulate transaction")
	}
	if sim.Failed() {
		return nil, newFailure(errors.ErrSimulationFailed, "", sim.Reason, sim.Error)
	}
	return sim, nil
}

// assemble rebuilds the transaction with the resource footprint, the
// authorization entries and the resource fee computed by the simulation.
func (c *Client) assemble(acc Account, op *txnbuild.InvokeHostFunction, sim *Simulation) (*txnbuild.Transaction, error) {
	if sim.MinResourceFee < 0 {
		return nil, errors.Wrapf(errors.ErrSimulationIncomplete, "negative resource fee %d", sim.MinResourceFee)
	}
	data := *sim.TransactionData
	data.ResourceFee = xdr.Int64(sim.MinResourceFee)

	assembled := *op
	assembled.Ext = xdr.TransactionExt{V: 1, SorobanData: &data}
	if len(sim.Auth) != 0 {
		assembled.Auth = sim.Auth
	}
	// Only one operation is allowed, so the base fee is paid once.
	return c.transaction(acc, &assembled, c.conf.BaseFee+sim.MinResourceFee)
}

// verifySigned ensures the signer returned the assembled transaction, with
// at least one signature.
func (c *Client) verifySigned(signed string, hash string) (string, error) {
	gtx, err := txnbuild.TransactionFromXDR(signed)
	if err != nil {
		return "", errors.Wrapf(errors.ErrSigningDeclined, "invalid signed envelope: %s", err)
	}
	tx, ok := gtx.Transaction()
	if !ok {
		return "", errors.Wrap(errors.ErrSigningDeclined, "signer returned a fee bump transaction")
	}
	got, err := tx.HashHex(c.conf.NetworkPassphrase)
	if err != nil {
		return "", errors.Wrapf(errors.ErrEncoding, "signed transaction hash: %s", err)
	}
	if got != hash {
		return "", errors.Wrap(errors.ErrSigningDeclined, "signer returned a different transaction")
	}
	if len(tx.Signatures()) == 0 {
		return "", errors.Wrap(errors.ErrSigningDeclined, "transaction is not signed")
	}
	envelope, err := tx.Base64()
	if err != nil {
		return "", errors.Wrapf(errors.ErrEncoding, "signed envelope: %s", err)
	}
	return envelope, nil
}
