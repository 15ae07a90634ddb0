package rpcclient

// Request and response bodies of the ledger JSON-RPC methods. Only the
// fields used by this package are declared.

type getHealthResponse struct {
	Status       string `json:"status"`
	LatestLedger uint32 `json:"latestLedger"`
}

type getNetworkResponse struct {
	Passphrase      string `json:"passphrase"`
	ProtocolVersion int    `json:"protocolVersion"`
	FriendbotURL    string `json:"friendbotUrl,omitempty"`
}

type getLedgerEntriesRequest struct {
	Keys []string `json:"keys"`
}

type ledgerEntry struct {
	Key                string `json:"key"`
	XDR                string `json:"xdr"`
	LastModifiedLedger uint32 `json:"lastModifiedLedgerSeq"`
}

type getLedgerEntriesResponse struct {
	Entries      []ledgerEntry `json:"entries"`
	LatestLedger uint32        `json:"latestLedger"`
}

type simulateTransactionRequest struct {
	Transaction string `json:"transaction"`
}

type simulateHostFunctionResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

type simulateTransactionResponse struct {
	Error           string                       `json:"error,omitempty"`
	TransactionData string                       `json:"transactionData,omitempty"`
	MinResourceFee  int64                        `json:"minResourceFee,string,omitempty"`
	Events          []string                     `json:"events,omitempty"`
	Results         []simulateHostFunctionResult `json:"results,omitempty"`
	LatestLedger    uint32                       `json:"latestLedger"`
}

type sendTransactionRequest struct {
	Transaction string `json:"transaction"`
}

type sendTransactionResponse struct {
	Status              string   `json:"status"`
	Hash                string   `json:"hash"`
	ErrorResultXDR      string   `json:"errorResultXdr,omitempty"`
	DiagnosticEventsXDR []string `json:"diagnosticEventsXdr,omitempty"`
	LatestLedger        uint32   `json:"latestLedger"`
}

type getTransactionRequest struct {
	Hash string `json:"hash"`
}

type getTransactionResponse struct {
	Status        string `json:"status"`
	Ledger        uint32 `json:"ledger,omitempty"`
	ResultXDR     string `json:"resultXdr,omitempty"`
	ResultMetaXDR string `json:"resultMetaXdr,omitempty"`
	LatestLedger  uint32 `json:"latestLedger"`
}
