package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	core "github.com/iov-one/splitter"
	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/errors"
	"github.com/iov-one/splitter/x/splitter"
	"github.com/tendermint/tendermint/libs/log"
)

// Viewer returns the current state of a splitter.
type Viewer interface {
	View(ctx context.Context, splitter string) (*splitter.View, error)
}

// HealthChecker returns the latest ledger known to the ledger RPC server.
type HealthChecker interface {
	Health(ctx context.Context) (uint32, error)
}

// Info describes this instance of the API.
type Info struct {
	Version           string `json:"version"`
	NetworkPassphrase string `json:"network_passphrase"`
	FactoryContract   string `json:"factory_contract"`
	TokenContract     string `json:"token_contract,omitempty"`
}

type InfoHandler struct {
	Info Info
}

func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		JSONErr(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	JSONResp(w, http.StatusOK, h.Info)
}

type HealthHandler struct {
	Ledger HealthChecker
	Logger log.Logger
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	latest, err := h.Ledger.Health(r.Context())
	if err != nil {
		h.Logger.Error("ledger health check", "err", err)
		JSONErr(w, http.StatusServiceUnavailable, "Ledger is not available.")
		return
	}
	JSONResp(w, http.StatusOK, struct {
		LatestLedger uint32 `json:"latest_ledger"`
	}{
		LatestLedger: latest,
	})
}

// SplitterHandler serves /splitters/<address> requests.
type SplitterHandler struct {
	Splitters Viewer
	Logger    log.Logger
}

func (h *SplitterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		JSONErr(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	addr := lastChunk(r.URL.Path)
	if err := core.ValidateContractAddress(addr); err != nil {
		JSONErr(w, http.StatusBadRequest, "Splitter address must be a contract address.")
		return
	}

	switch v, err := h.Splitters.View(r.Context(), addr); {
	case err == nil:
		JSONResp(w, http.StatusOK, v)
	case errors.ErrAddress.Is(err):
		JSONErr(w, http.StatusBadRequest, err.Error())
	case isMissing(err):
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	case errors.ErrNetwork.Is(err):
		h.Logger.Error("view splitter", "splitter", addr, "err", err)
		JSONErr(w, http.StatusBadGateway, "Ledger is not available.")
	default:
		h.Logger.Error("view splitter", "splitter", addr, "err", err)
		JSONErr(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// isMissing returns true if the call failed because the contract does not
// exist.
func isMissing(err error) bool {
	reason, ok := client.ReasonOf(err)
	return ok && reason.Missing()
}

type DefaultHandler struct{}

func (h *DefaultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// No trailing slash.
	if len(r.URL.Path) > 1 && r.URL.Path[len(r.URL.Path)-1] == '/' {
		path := strings.TrimRight(r.URL.Path, "/")
		JSONRedirect(w, http.StatusPermanentRedirect, path)
		return
	}
	JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// lastChunk returns last path chunk - everything after the last `/`
// character. For example LAST in /foo/bar/LAST and empty string in /foo/bar/
func lastChunk(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// JSONResp write content as JSON encoded response.
func JSONResp(w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		code = http.StatusInternalServerError
		b = []byte(`{"errors":["Internal Server Errror"]}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// JSONErr write single error as JSON encoded response.
func JSONErr(w http.ResponseWriter, code int, errText string) {
	JSONErrs(w, code, []string{errText})
}

// JSONErrs write multiple errors as JSON encoded response.
func JSONErrs(w http.ResponseWriter, code int, errs []string) {
	resp := struct {
		Errors []string `json:"errors"`
	}{
		Errors: errs,
	}
	JSONResp(w, code, resp)
}

// JSONRedirect return redirect response, but with JSON formatted body.
func JSONRedirect(w http.ResponseWriter, code int, urlStr string) {
	w.Header().Set("Location", urlStr)
	var content = struct {
		Code     int    `json:"code"`
		Location string `json:"location"`
	}{
		Code:     code,
		Location: urlStr,
	}
	JSONResp(w, code, content)
}
