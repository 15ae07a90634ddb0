package ledgertest

import (
	"net/http/httptest"
	"testing"

	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
)

// NewRPCServer starts an HTTP server answering JSON-RPC 2.0 calls. Each
// method is implemented by a function accepted by handler.New, for example
//
//	func(ctx context.Context, req map[string]interface{}) (interface{}, error)
//
// The server is closed when the test finishes.
func NewRPCServer(t testing.TB, methods map[string]interface{}) *httptest.Server {
	t.Helper()

	m := make(handler.Map, len(methods))
	for name, fn := range methods {
		m[name] = handler.New(fn)
	}
	bridge := jhttp.NewBridge(m, nil)
	srv := httptest.NewServer(bridge)
	t.Cleanup(func() {
		srv.Close()
		bridge.Close()
	})
	return srv
}
