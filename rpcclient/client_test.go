package rpcclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/creachadair/jrpc2"
	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/errors"
	"github.com/iov-one/splitter/ledgertest"
	"github.com/iov-one/splitter/ledgertest/assert"
	"github.com/iov-one/splitter/scval"
	"github.com/stellar/go/xdr"
)

func b64(t testing.TB, v interface{}) string {
	t.Helper()
	s, err := xdr.MarshalBase64(v)
	if err != nil {
		t.Fatalf("cannot marshal %T: %s", v, err)
	}
	return s
}

func newTestClient(t testing.TB, methods map[string]interface{}) *Client {
	t.Helper()
	srv := ledgertest.NewRPCServer(t, methods)
	c := NewClient(srv.URL, nil)
	t.Cleanup(func() { c.Close() })
	return c
}

func errorEvent(t testing.TB, e xdr.ScError) string {
	t.Helper()
	sym := xdr.ScSymbol("error")
	ev := xdr.DiagnosticEvent{
		Event: xdr.ContractEvent{
			Type: xdr.ContractEventTypeDiagnostic,
			Body: xdr.ContractEventBody{
				V: 0,
				V0: &xdr.ContractEventV0{
					Topics: []xdr.ScVal{
						{Type: xdr.ScValTypeScvSymbol, Sym: &sym},
						{Type: xdr.ScValTypeScvError, Error: &e},
					},
					Data: xdr.ScVal{Type: xdr.ScValTypeScvVoid},
				},
			},
		},
	}
	return b64(t, ev)
}

func TestGetAccount(t *testing.T) {
	var aid xdr.AccountId
	assert.Nil(t, aid.SetAddress(ledgertest.AccountA))
	entry := xdr.LedgerEntryData{
		Type: xdr.LedgerEntryTypeAccount,
		Account: &xdr.AccountEntry{
			AccountId: aid,
			Balance:   1000000000,
			SeqNum:    4242,
		},
	}

	c := newTestClient(t, map[string]interface{}{
		"getLedgerEntries": func(ctx context.Context, req getLedgerEntriesRequest) (getLedgerEntriesResponse, error) {
			if len(req.Keys) != 1 {
				return getLedgerEntriesResponse{}, &jrpc2.Error{Code: jrpc2.InvalidParams, Message: "one key expected"}
			}
			var key xdr.LedgerKey
			if err := xdr.SafeUnmarshalBase64(req.Keys[0], &key); err != nil {
				return getLedgerEntriesResponse{}, err
			}
			addr, err := key.Account.AccountId.GetAddress()
			if err != nil || addr != ledgertest.AccountA {
				return getLedgerEntriesResponse{LatestLedger: 10}, nil
			}
			return getLedgerEntriesResponse{
				Entries:      []ledgerEntry{{Key: req.Keys[0], XDR: b64(t, entry)}},
				LatestLedger: 10,
			}, nil
		},
	})

	acc, err := c.GetAccount(context.Background(), ledgertest.AccountA)
	assert.Nil(t, err)
	assert.Equal(t, &client.Account{ID: ledgertest.AccountA, Sequence: 4242}, acc)

	_, err = c.GetAccount(context.Background(), ledgertest.AccountB)
	assert.IsErr(t, errors.ErrAccountUnavailable, err)

	_, err = c.GetAccount(context.Background(), ledgertest.ContractA)
	assert.IsErr(t, errors.ErrAddress, err)
}

func TestSimulateTransaction(t *testing.T) {
	ret := scval.U32(5)
	data := xdr.SorobanTransactionData{
		Resources: xdr.SorobanResources{Instructions: 99},
	}
	code := xdr.ScErrorCodeScecExistingValue
	storageErr := xdr.ScError{Type: xdr.ScErrorTypeSceStorage, Code: &code}

	c := newTestClient(t, map[string]interface{}{
		"simulateTransaction": func(ctx context.Context, req simulateTransactionRequest) (simulateTransactionResponse, error) {
			switch req.Transaction {
			case "ok":
				return simulateTransactionResponse{
					TransactionData: b64(t, data),
					MinResourceFee:  31337,
					Results:         []simulateHostFunctionResult{{XDR: b64(t, ret)}},
					LatestLedger:    77,
				}, nil
			case "duplicate":
				return simulateTransactionResponse{
					Error:        "HostError: Error(Storage, ExistingValue)",
					Events:       []string{errorEvent(t, storageErr)},
					LatestLedger: 77,
				}, nil
			default:
				return simulateTransactionResponse{}, &jrpc2.Error{Code: jrpc2.InvalidParams, Message: "bad envelope"}
			}
		},
	})

	sim, err := c.SimulateTransaction(context.Background(), "ok")
	assert.Nil(t, err)
	assert.Equal(t, false, sim.Failed())
	assert.Equal(t, int64(31337), sim.MinResourceFee)
	assert.Equal(t, uint32(77), sim.LatestLedger)
	assert.Equal(t, xdr.Uint32(99), sim.TransactionData.Resources.Instructions)
	if sim.ReturnValue == nil || !sim.ReturnValue.Equals(ret) {
		t.Fatalf("unexpected return value: %v", sim.ReturnValue)
	}

	sim, err = c.SimulateTransaction(context.Background(), "duplicate")
	assert.Nil(t, err)
	assert.Equal(t, true, sim.Failed())
	if sim.Reason == nil || !sim.Reason.Duplicate() {
		t.Fatalf("want duplicate reason, got %v", sim.Reason)
	}

	_, err = c.SimulateTransaction(context.Background(), "garbage")
	assert.IsErr(t, errors.ErrNetwork, err)
}

func TestSendTransaction(t *testing.T) {
	failed := xdr.TransactionResult{
		FeeCharged: 100,
		Result: xdr.TransactionResultResult{
			Code: xdr.TransactionResultCodeTxFailed,
			Results: &[]xdr.OperationResult{{
				Code: xdr.OperationResultCodeOpInner,
				Tr: &xdr.OperationResultTr{
					Type: xdr.OperationTypeInvokeHostFunction,
					InvokeHostFunctionResult: &xdr.InvokeHostFunctionResult{
						Code: xdr.InvokeHostFunctionResultCodeInvokeHostFunctionTrapped,
					},
				},
			}},
		},
	}

	c := newTestClient(t, map[string]interface{}{
		"sendTransaction": func(ctx context.Context, req sendTransactionRequest) (sendTransactionResponse, error) {
			if req.Transaction == "bad" {
				return sendTransactionResponse{Status: "ERROR", Hash: "ff01", ErrorResultXDR: b64(t, failed)}, nil
			}
			return sendTransactionResponse{Status: "PENDING", Hash: "aa01"}, nil
		},
	})

	sub, err := c.SendTransaction(context.Background(), "good")
	assert.Nil(t, err)
	assert.Equal(t, &client.Submission{Hash: "aa01", Status: client.SubmissionPending}, sub)

	sub, err = c.SendTransaction(context.Background(), "bad")
	assert.Nil(t, err)
	assert.Equal(t, client.SubmissionError, sub.Status)
	if sub.Reason == nil || sub.Reason.Result == nil || sub.Reason.Operation == nil {
		t.Fatalf("incomplete reason: %v", sub.Reason)
	}
	assert.Equal(t, xdr.TransactionResultCodeTxFailed, *sub.Reason.Result)
	assert.Equal(t, xdr.InvokeHostFunctionResultCodeInvokeHostFunctionTrapped, *sub.Reason.Operation)
	assert.Equal(t, "TxFailed InvokeHostFunctionTrapped", sub.Reason.String())
}

func TestGetTransaction(t *testing.T) {
	ret := scval.U32(9)
	success := xdr.TransactionMeta{
		V: 3,
		V3: &xdr.TransactionMetaV3{
			SorobanMeta: &xdr.SorobanTransactionMeta{ReturnValue: ret},
		},
	}
	var contractCode xdr.Uint32 = 3
	trapped := xdr.TransactionMeta{
		V: 3,
		V3: &xdr.TransactionMetaV3{
			SorobanMeta: &xdr.SorobanTransactionMeta{
				ReturnValue: xdr.ScVal{Type: xdr.ScValTypeScvVoid},
				DiagnosticEvents: []xdr.DiagnosticEvent{
					mustEvent(t, xdr.ScError{Type: xdr.ScErrorTypeSceContract, ContractCode: &contractCode}),
				},
			},
		},
	}
	result := xdr.TransactionResult{
		FeeCharged: 100,
		Result: xdr.TransactionResultResult{
			Code: xdr.TransactionResultCodeTxFailed,
			Results: &[]xdr.OperationResult{{
				Code: xdr.OperationResultCodeOpInner,
				Tr: &xdr.OperationResultTr{
					Type: xdr.OperationTypeInvokeHostFunction,
					InvokeHostFunctionResult: &xdr.InvokeHostFunctionResult{
						Code: xdr.InvokeHostFunctionResultCodeInvokeHostFunctionTrapped,
					},
				},
			}},
		},
	}

	c := newTestClient(t, map[string]interface{}{
		"getTransaction": func(ctx context.Context, req getTransactionRequest) (getTransactionResponse, error) {
			switch req.Hash {
			case "success":
				return getTransactionResponse{Status: "SUCCESS", Ledger: 50, ResultMetaXDR: b64(t, success)}, nil
			case "failed":
				return getTransactionResponse{
					Status:        "FAILED",
					Ledger:        51,
					ResultXDR:     b64(t, result),
					ResultMetaXDR: b64(t, trapped),
				}, nil
			default:
				return getTransactionResponse{Status: "NOT_FOUND", LatestLedger: 52}, nil
			}
		},
	})

	st, err := c.GetTransaction(context.Background(), "success")
	assert.Nil(t, err)
	assert.Equal(t, client.StatusSuccess, st.Status)
	assert.Equal(t, uint32(50), st.Ledger)
	if st.ReturnValue == nil || !st.ReturnValue.Equals(ret) {
		t.Fatalf("unexpected return value: %v", st.ReturnValue)
	}

	st, err = c.GetTransaction(context.Background(), "failed")
	assert.Nil(t, err)
	assert.Equal(t, client.StatusFailed, st.Status)
	if st.ReturnValue != nil {
		t.Fatalf("unexpected return value: %v", st.ReturnValue)
	}
	code, ok := st.Reason.ContractCode()
	assert.Equal(t, true, ok)
	assert.Equal(t, uint32(3), code)

	st, err = c.GetTransaction(context.Background(), "unknown")
	assert.Nil(t, err)
	assert.Equal(t, client.StatusNotFound, st.Status)
	if st.Reason != nil {
		t.Fatalf("unexpected reason: %v", st.Reason)
	}
}

func mustEvent(t testing.TB, e xdr.ScError) xdr.DiagnosticEvent {
	t.Helper()
	var ev xdr.DiagnosticEvent
	if err := xdr.SafeUnmarshalBase64(errorEvent(t, e), &ev); err != nil {
		t.Fatalf("cannot decode event: %s", err)
	}
	return ev
}

func TestNetworkAndHealth(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{
		"getNetwork": func(ctx context.Context) (getNetworkResponse, error) {
			return getNetworkResponse{Passphrase: "Test SDF Network ; September 2015", ProtocolVersion: 22}, nil
		},
		"getHealth": func(ctx context.Context) (getHealthResponse, error) {
			return getHealthResponse{Status: "healthy", LatestLedger: 1000}, nil
		},
	})

	n, err := c.Network(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, &Network{Passphrase: "Test SDF Network ; September 2015", ProtocolVersion: 22}, n)

	latest, err := c.Health(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, uint32(1000), latest)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return fn(r) }

func TestUserAgent(t *testing.T) {
	srv := ledgertest.NewRPCServer(t, map[string]interface{}{
		"getHealth": func(ctx context.Context) (getHealthResponse, error) {
			return getHealthResponse{Status: "healthy", LatestLedger: 7}, nil
		},
	})
	var agents []string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		agents = append(agents, r.Header.Get("User-Agent"))
		return http.DefaultTransport.RoundTrip(r)
	})}

	c := NewClient(srv.URL, &Options{HTTPClient: hc, UserAgent: "splittercli/v0.1.0"})
	defer c.Close()
	_, err := c.Health(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, []string{"splittercli/v0.1.0"}, agents)
}

func TestTransportFailure(t *testing.T) {
	srv := ledgertest.NewRPCServer(t, map[string]interface{}{})
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil)
	defer c.Close()
	_, err := c.GetTransaction(context.Background(), "abc")
	assert.IsErr(t, errors.ErrNetwork, err)
}

func TestClientImplementsLedger(t *testing.T) {
	srv := ledgertest.NewRPCServer(t, map[string]interface{}{
		"getTransaction": func(ctx context.Context, req getTransactionRequest) (getTransactionResponse, error) {
			return getTransactionResponse{Status: "NOT_FOUND"}, nil
		},
	})
	var l client.Ledger = NewClient(srv.URL, nil)
	st, err := l.GetTransaction(context.Background(), "x")
	assert.Nil(t, err)
	assert.Equal(t, client.StatusNotFound, st.Status)
}
