package rpcclient

import (
	"context"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/errors"
	"github.com/stellar/go/xdr"
	"github.com/tendermint/tendermint/libs/log"
)

// Client is a JSON-RPC client of a ledger RPC server.
type Client struct {
	url    string
	rpc    *jrpc2.Client
	logger log.Logger
}

var _ client.Ledger = (*Client)(nil)

// Options configure a Client. All fields are optional.
type Options struct {
	// HTTPClient is used to send requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
	// UserAgent is sent with every request when not empty.
	UserAgent string
	Logger    log.Logger
}

// NewClient returns a client of the RPC server at given URL.
func NewClient(url string, opts *Options) *Client {
	var hc jhttp.HTTPClient = http.DefaultClient
	logger := log.NewNopLogger()
	if opts != nil {
		if opts.HTTPClient != nil {
			hc = opts.HTTPClient
		}
		if opts.UserAgent != "" {
			hc = userAgentClient{HTTPClient: hc, agent: opts.UserAgent}
		}
		if opts.Logger != nil {
			logger = opts.Logger
		}
	}
	ch := jhttp.NewChannel(url, &jhttp.ChannelOptions{Client: hc})
	return &Client{
		url:    url,
		rpc:    jrpc2.NewClient(ch, nil),
		logger: logger.With("module", "rpcclient"),
	}
}

type userAgentClient struct {
	jhttp.HTTPClient
	agent string
}

func (c userAgentClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.agent)
	return c.HTTPClient.Do(req)
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	c.logger.Debug("rpc call", "method", method)
	err := c.rpc.CallResult(ctx, method, params, result)
	if err == nil {
		return nil
	}
	if e, ok := err.(*jrpc2.Error); ok {
		return errors.Wrapf(errors.ErrNetwork, "%s: server error %d: %s", method, e.Code, e.Message)
	}
	return errors.Wrapf(errors.ErrNetwork, "%s: %s", method, err)
}

// Health returns the latest ledger known to the server. It fails if the
// server is not healthy.
func (c *Client) Health(ctx context.Context) (uint32, error) {
	var res getHealthResponse
	if err := c.call(ctx, "getHealth", nil, &res); err != nil {
		return 0, err
	}
	if res.Status != "healthy" {
		return res.LatestLedger, errors.Wrapf(errors.ErrNetwork, "server is %s", res.Status)
	}
	return res.LatestLedger, nil
}

// Network describes the network an RPC server is connected to.
type Network struct {
	Passphrase      string `json:"passphrase"`
	ProtocolVersion int    `json:"protocol_version"`
}

// Network returns the network the server is connected to.
func (c *Client) Network(ctx context.Context) (*Network, error) {
	var res getNetworkResponse
	if err := c.call(ctx, "getNetwork", nil, &res); err != nil {
		return nil, err
	}
	return &Network{Passphrase: res.Passphrase, ProtocolVersion: res.ProtocolVersion}, nil
}

// GetAccount loads the account ledger entry.
func (c *Client) GetAccount(ctx context.Context, address string) (*client.Account, error) {
	var aid xdr.AccountId
	if err := aid.SetAddress(address); err != nil {
		return nil, errors.Wrapf(errors.ErrAddress, "%q: %s", address, err)
	}
	var key xdr.LedgerKey
	if err := key.SetAccount(aid); err != nil {
		return nil, errors.Wrap(errors.ErrEncoding, err.Error())
	}
	rawKey, err := xdr.MarshalBase64(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrEncoding, err.Error())
	}

	var res getLedgerEntriesResponse
	if err := c.call(ctx, "getLedgerEntries", getLedgerEntriesRequest{Keys: []string{rawKey}}, &res); err != nil {
		return nil, err
	}
	if len(res.Entries) == 0 {
		return nil, errors.Wrapf(errors.ErrAccountUnavailable, "account %s not found", address)
	}
	var data xdr.LedgerEntryData
	if err := xdr.SafeUnmarshalBase64(res.Entries[0].XDR, &data); err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "account entry: %s", err)
	}
	acc, ok := data.GetAccount()
	if !ok {
		return nil, errors.Wrapf(errors.ErrEncoding, "want account entry, got %s", data.Type)
	}
	return &client.Account{ID: address, Sequence: int64(acc.SeqNum)}, nil
}

// SimulateTransaction dry runs a transaction.
func (c *Client) SimulateTransaction(ctx context.Context, envelope string) (*client.Simulation, error) {
	var res simulateTransactionResponse
	if err := c.call(ctx, "simulateTransaction", simulateTransactionRequest{Transaction: envelope}, &res); err != nil {
		return nil, err
	}
	sim := &client.Simulation{
		Error:          res.Error,
		MinResourceFee: res.MinResourceFee,
		LatestLedger:   res.LatestLedger,
	}

	if res.Error != "" {
		events, err := decodeDiagnosticEvents(res.Events)
		if err != nil {
			c.logger.Error("cannot decode simulation events", "err", err)
		}
		if host := hostErrorOf(events); host != nil {
			sim.Reason = &client.Reason{Host: host}
		}
		return sim, nil
	}

	if res.TransactionData != "" {
		var data xdr.SorobanTransactionData
		if err := xdr.SafeUnmarshalBase64(res.TransactionData, &data); err != nil {
			return nil, errors.Wrapf(errors.ErrEncoding, "transaction data: %s", err)
		}
		sim.TransactionData = &data
	}
	if len(res.Results) != 0 {
		r := res.Results[0]
		for i, raw := range r.Auth {
			var entry xdr.SorobanAuthorizationEntry
			if err := xdr.SafeUnmarshalBase64(raw, &entry); err != nil {
				return nil, errors.Wrapf(errors.ErrEncoding, "auth entry %d: %s", i, err)
			}
			sim.Auth = append(sim.Auth, entry)
		}
		if r.XDR != "" {
			ret, err := decodeScVal(r.XDR)
			if err != nil {
				return nil, errors.Wrap(err, "return value")
			}
			sim.ReturnValue = ret
		}
	}
	return sim, nil
}

// SendTransaction submits a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, envelope string) (*client.Submission, error) {
	var res sendTransactionResponse
	if err := c.call(ctx, "sendTransaction", sendTransactionRequest{Transaction: envelope}, &res); err != nil {
		return nil, err
	}
	sub := &client.Submission{
		Hash:   res.Hash,
		Status: client.SubmissionStatus(res.Status),
	}
	if res.ErrorResultXDR != "" {
		reason, err := resultReason(res.ErrorResultXDR)
		if err != nil {
			return nil, err
		}
		if events, err := decodeDiagnosticEvents(res.DiagnosticEventsXDR); err == nil {
			reason.Host = hostErrorOf(events)
		}
		sub.Reason = reason
	}
	return sub, nil
}

// GetTransaction returns the status of a transaction.
func (c *Client) GetTransaction(ctx context.Context, hash string) (*client.TransactionStatus, error) {
	var res getTransactionResponse
	if err := c.call(ctx, "getTransaction", getTransactionRequest{Hash: hash}, &res); err != nil {
		return nil, err
	}
	st := &client.TransactionStatus{
		Status: client.Status(res.Status),
		Ledger: res.Ledger,
	}

	var hostErr *xdr.ScError
	if res.ResultMetaXDR != "" {
		ret, host, err := metaOutcome(res.ResultMetaXDR)
		if err != nil {
			return nil, err
		}
		hostErr = host
		if st.Status == client.StatusSuccess {
			st.ReturnValue = ret
		}
	}
	if st.Status == client.StatusFailed {
		reason := &client.Reason{Host: hostErr}
		if res.ResultXDR != "" {
			r, err := resultReason(res.ResultXDR)
			if err != nil {
				return nil, err
			}
			r.Host = hostErr
			reason = r
		}
		st.Reason = reason
	}
	return st, nil
}
