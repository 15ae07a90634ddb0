package ledgertest

import (
	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/errors"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// ResourceFee is the resource fee of simulations returned by Simulated.
const ResourceFee = 31337

// Simulated returns a successful simulation with given return value. Value
// can be nil.
func Simulated(ret *xdr.ScVal) *client.Simulation {
	return &client.Simulation{
		TransactionData: &xdr.SorobanTransactionData{
			Resources: xdr.SorobanResources{
				Instructions: 1000,
				ReadBytes:    100,
				WriteBytes:   100,
			},
		},
		MinResourceFee: ResourceFee,
		ReturnValue:    ret,
		LatestLedger:   1234,
	}
}

// Rejected returns a failed simulation.
func Rejected(message string, reason *client.Reason) *client.Simulation {
	return &client.Simulation{Error: message, Reason: reason, LatestLedger: 1234}
}

// Executed returns a successful transaction status with given return
// value. Value can be nil.
func Executed(ret *xdr.ScVal) client.TransactionStatus {
	return client.TransactionStatus{Status: client.StatusSuccess, Ledger: 1240, ReturnValue: ret}
}

// NotFound returns a status of a transaction not yet included in a ledger.
func NotFound() client.TransactionStatus {
	return client.TransactionStatus{Status: client.StatusNotFound}
}

// Failed returns a failed transaction status.
func Failed(reason *client.Reason) client.TransactionStatus {
	return client.TransactionStatus{Status: client.StatusFailed, Ledger: 1240, Reason: reason}
}

// DuplicateReason returns the reason reported when creating an entry that
// already exists.
func DuplicateReason() *client.Reason {
	code := xdr.ScErrorCodeScecExistingValue
	return &client.Reason{
		Host: &xdr.ScError{Type: xdr.ScErrorTypeSceStorage, Code: &code},
	}
}

// ContractCall returns the contract call of a single operation transaction
// envelope.
func ContractCall(envelope string) (xdr.InvokeContractArgs, error) {
	tx, err := Transaction(envelope)
	if err != nil {
		return xdr.InvokeContractArgs{}, err
	}
	ops := tx.Operations()
	if len(ops) != 1 {
		return xdr.InvokeContractArgs{}, errors.Wrapf(errors.ErrEncoding, "want one operation, got %d", len(ops))
	}
	op, ok := ops[0].(*txnbuild.InvokeHostFunction)
	if !ok || op.HostFunction.InvokeContract == nil {
		return xdr.InvokeContractArgs{}, errors.Wrap(errors.ErrEncoding, "not a contract call")
	}
	return *op.HostFunction.InvokeContract, nil
}

// Transaction parses a base64 encoded transaction envelope.
func Transaction(envelope string) (*txnbuild.Transaction, error) {
	gtx, err := txnbuild.TransactionFromXDR(envelope)
	if err != nil {
		return nil, errors.Wrap(errors.ErrEncoding, err.Error())
	}
	tx, ok := gtx.Transaction()
	if !ok {
		return nil, errors.Wrap(errors.ErrEncoding, "fee bump transaction")
	}
	return tx, nil
}
