package ledgertest

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	core "github.com/iov-one/splitter"
	"github.com/iov-one/splitter/amount"
	"github.com/iov-one/splitter/scval"
	"github.com/stellar/go/network"
	"github.com/stellar/go/xdr"
)

// NetworkLedger is the latest ledger reported by a Network.
const NetworkLedger = 1240

// Network is a ledger RPC server hosting a token contract, a splitter
// factory contract and splitters created by it. Every account exists with
// sequence 100. Submitted transactions are executed right away.
//
// Configure the public fields before the first call.
type Network struct {
	Passphrase string
	Token      string
	Factory    string
	// Created is the address assigned to the next splitter created by the
	// factory.
	Created string

	mu        sync.Mutex
	splitters map[string]core.Config
	balances  map[string]amount.Amount
	executed  map[string]xdr.ScVal
	calls     []xdr.InvokeContractArgs
}

// NewNetwork returns a network on the test passphrase using the Token and
// Factory fixtures, together with the server exposing it.
func NewNetwork(t testing.TB) (*Network, *httptest.Server) {
	t.Helper()
	n := &Network{
		Passphrase: network.TestNetworkPassphrase,
		Token:      Token,
		Factory:    Factory,
		Created:    ContractB,
		splitters:  make(map[string]core.Config),
		balances:   make(map[string]amount.Amount),
		executed:   make(map[string]xdr.ScVal),
	}
	srv := NewRPCServer(t, map[string]interface{}{
		"getHealth":           n.getHealth,
		"getNetwork":          n.getNetwork,
		"getLedgerEntries":    n.getLedgerEntries,
		"simulateTransaction": n.simulateTransaction,
		"sendTransaction":     n.sendTransaction,
		"getTransaction":      n.getTransaction,
	})
	return n, srv
}

// Deploy registers a splitter.
func (n *Network) Deploy(addr string, conf core.Config) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.splitters[addr] = conf
}

// SetBalance sets the token balance of a holder.
func (n *Network) SetBalance(holder string, a amount.Amount) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balances[holder] = a
}

// Balance returns the token balance of a holder.
func (n *Network) Balance(holder string) amount.Amount {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.balances[holder]
}

// Splitter returns the configuration of a deployed splitter.
func (n *Network) Splitter(addr string) (core.Config, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.splitters[addr]
	return c, ok
}

// Executed returns all contract calls of submitted transactions.
func (n *Network) Executed() []xdr.InvokeContractArgs {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]xdr.InvokeContractArgs(nil), n.calls...)
}

type envelopeRequest struct {
	Transaction string `json:"transaction"`
}

type hashRequest struct {
	Hash string `json:"hash"`
}

type keysRequest struct {
	Keys []string `json:"keys"`
}

func (n *Network) getHealth(ctx context.Context) (interface{}, error) {
	return map[string]interface{}{"status": "healthy", "latestLedger": NetworkLedger}, nil
}

func (n *Network) getNetwork(ctx context.Context) (interface{}, error) {
	return map[string]interface{}{"passphrase": n.Passphrase, "protocolVersion": 22}, nil
}

func (n *Network) getLedgerEntries(ctx context.Context, req keysRequest) (interface{}, error) {
	var entries []map[string]interface{}
	for _, raw := range req.Keys {
		var key xdr.LedgerKey
		if err := xdr.SafeUnmarshalBase64(raw, &key); err != nil {
			return nil, err
		}
		if key.Account == nil {
			continue
		}
		data := xdr.LedgerEntryData{
			Type: xdr.LedgerEntryTypeAccount,
			Account: &xdr.AccountEntry{
				AccountId: key.Account.AccountId,
				Balance:   1000000000,
				SeqNum:    100,
			},
		}
		b64, err := xdr.MarshalBase64(data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, map[string]interface{}{
			"key":                   raw,
			"xdr":                   b64,
			"lastModifiedLedgerSeq": NetworkLedger - 1,
		})
	}
	return map[string]interface{}{"entries": entries, "latestLedger": NetworkLedger}, nil
}

func (n *Network) simulateTransaction(ctx context.Context, req envelopeRequest) (interface{}, error) {
	call, err := ContractCall(req.Transaction)
	if err != nil {
		return nil, err
	}
	n.mu.Lock()
	ret, fail := n.invoke(call, false)
	n.mu.Unlock()
	if fail != nil {
		event, err := xdr.MarshalBase64(fail.event())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"error":        fail.Error(),
			"events":       []string{event},
			"latestLedger": NetworkLedger,
		}, nil
	}

	data, err := xdr.MarshalBase64(xdr.SorobanTransactionData{
		Resources: xdr.SorobanResources{Instructions: 1000},
	})
	if err != nil {
		return nil, err
	}
	result, err := xdr.MarshalBase64(ret)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"transactionData": data,
		"minResourceFee":  "31337",
		"results":         []map[string]interface{}{{"auth": []string{}, "xdr": result}},
		"latestLedger":    NetworkLedger,
	}, nil
}

func (n *Network) sendTransaction(ctx context.Context, req envelopeRequest) (interface{}, error) {
	tx, err := Transaction(req.Transaction)
	if err != nil {
		return nil, err
	}
	hash, err := tx.HashHex(n.Passphrase)
	if err != nil {
		return nil, err
	}
	call, err := ContractCall(req.Transaction)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if len(tx.Signatures()) == 0 {
		return map[string]interface{}{"status": "ERROR", "hash": hash, "latestLedger": NetworkLedger}, nil
	}
	if ret, fail := n.invoke(call, true); fail == nil {
		n.executed[hash] = ret
		n.calls = append(n.calls, call)
	}
	return map[string]interface{}{"status": "PENDING", "hash": hash, "latestLedger": NetworkLedger}, nil
}

func (n *Network) getTransaction(ctx context.Context, req hashRequest) (interface{}, error) {
	n.mu.Lock()
	ret, ok := n.executed[req.Hash]
	n.mu.Unlock()
	if !ok {
		return map[string]interface{}{"status": "NOT_FOUND", "latestLedger": NetworkLedger}, nil
	}
	meta, err := xdr.MarshalBase64(xdr.TransactionMeta{
		V:  3,
		V3: &xdr.TransactionMetaV3{SorobanMeta: &xdr.SorobanTransactionMeta{ReturnValue: ret}},
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"status":        "SUCCESS",
		"ledger":        NetworkLedger,
		"resultMetaXdr": meta,
		"latestLedger":  NetworkLedger,
	}, nil
}

var void = xdr.ScVal{Type: xdr.ScValTypeScvVoid}

// hostFailure is a failed contract call.
type hostFailure struct {
	code xdr.ScError
	msg  string
}

func failure(t xdr.ScErrorType, c xdr.ScErrorCode, msg string) *hostFailure {
	return &hostFailure{code: xdr.ScError{Type: t, Code: &c}, msg: msg}
}

func invalidInput(err error) *hostFailure {
	return failure(xdr.ScErrorTypeSceValue, xdr.ScErrorCodeScecInvalidInput, err.Error())
}

func (f *hostFailure) Error() string {
	return "HostError: " + f.msg
}

// event returns the diagnostic event describing this failure.
func (f *hostFailure) event() xdr.DiagnosticEvent {
	sym := xdr.ScSymbol("error")
	code := f.code
	return xdr.DiagnosticEvent{
		Event: xdr.ContractEvent{
			Type: xdr.ContractEventTypeDiagnostic,
			Body: xdr.ContractEventBody{
				V: 0,
				V0: &xdr.ContractEventV0{
					Topics: []xdr.ScVal{
						{Type: xdr.ScValTypeScvSymbol, Sym: &sym},
						{Type: xdr.ScValTypeScvError, Error: &code},
					},
					Data: void,
				},
			},
		},
	}
}

// invoke executes a contract call. State is changed only if commit is set.
// Caller must hold the lock.
func (n *Network) invoke(call xdr.InvokeContractArgs, commit bool) (xdr.ScVal, *hostFailure) {
	contract, err := scval.EncodeScAddress(call.ContractAddress)
	if err != nil {
		return void, invalidInput(err)
	}
	method := string(call.FunctionName)

	switch {
	case contract == n.Factory && method == "create":
		return n.create(call.Args, commit)
	case contract == n.Token && method == "balance":
		if len(call.Args) != 1 {
			return void, failure(xdr.ScErrorTypeSceWasmVm, xdr.ScErrorCodeScecInvalidAction, "Error(WasmVm, InvalidAction)")
		}
		holder, err := scval.DecodeAddress(call.Args[0])
		if err != nil {
			return void, invalidInput(err)
		}
		v, err := scval.I128(n.balances[holder])
		if err != nil {
			return void, invalidInput(err)
		}
		return v, nil
	}

	conf, ok := n.splitters[contract]
	if !ok {
		return void, failure(xdr.ScErrorTypeSceStorage, xdr.ScErrorCodeScecMissingValue, "Error(Storage, MissingValue)")
	}
	switch method {
	case "get_config":
		token, _ := scval.Address(conf.Token)
		recipients, _ := scval.AddressList(conf.Recipients)
		return scval.Vec([]xdr.ScVal{token, recipients, scval.U32List(conf.Shares)}), nil
	case "distribute":
		if commit {
			n.distribute(contract, conf)
		}
		return void, nil
	default:
		return void, failure(xdr.ScErrorTypeSceWasmVm, xdr.ScErrorCodeScecMissingValue, "Error(WasmVm, MissingValue)")
	}
}

func (n *Network) create(args []xdr.ScVal, commit bool) (xdr.ScVal, *hostFailure) {
	if len(args) != 4 {
		return void, failure(xdr.ScErrorTypeSceWasmVm, xdr.ScErrorCodeScecInvalidAction, "Error(WasmVm, InvalidAction)")
	}
	token, err := scval.DecodeAddress(args[1])
	if err != nil {
		return void, invalidInput(err)
	}
	recipients, err := scval.DecodeAddressList(args[2])
	if err != nil {
		return void, invalidInput(err)
	}
	shares, err := scval.DecodeU32List(args[3])
	if err != nil {
		return void, invalidInput(err)
	}
	if _, ok := n.splitters[n.Created]; ok {
		return void, failure(xdr.ScErrorTypeSceStorage, xdr.ScErrorCodeScecExistingValue, "Error(Storage, ExistingValue)")
	}
	if commit {
		n.splitters[n.Created] = core.Config{Token: token, Recipients: recipients, Shares: shares}
	}
	addr, err := scval.Address(n.Created)
	if err != nil {
		return void, invalidInput(err)
	}
	return addr, nil
}

func (n *Network) distribute(addr string, conf core.Config) {
	if conf.Token != n.Token {
		return
	}
	balance := n.balances[addr]
	total := conf.TotalShares()
	paid := amount.Zero
	for i, r := range conf.Recipients {
		part, err := balance.MulDiv(uint64(conf.Shares[i]), total)
		if err != nil {
			continue
		}
		if n.balances[r], err = n.balances[r].Add(part); err != nil {
			continue
		}
		paid, _ = paid.Add(part)
	}
	n.balances[addr], _ = balance.Sub(paid)
}
