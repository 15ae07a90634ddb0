package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	core "github.com/iov-one/splitter"
	"github.com/iov-one/splitter/amount"
	"github.com/iov-one/splitter/gconf"
	"github.com/iov-one/splitter/ledgertest"
	"github.com/iov-one/splitter/ledgertest/assert"
	"github.com/stellar/go/keypair"
)

// newTestNetwork returns a network with a single splitter deployed at
// ContractA, holding 100 tokens and paying AccountA and AccountB in 1:3
// proportion.
func newTestNetwork(t testing.TB) (*ledgertest.Network, *httptest.Server) {
	t.Helper()
	n, srv := ledgertest.NewNetwork(t)
	n.Token = gconf.DefaultTokenContract
	n.Factory = gconf.DefaultFactoryContract
	n.Deploy(ledgertest.ContractA, core.Config{
		Token:      gconf.DefaultTokenContract,
		Recipients: []string{ledgertest.AccountA, ledgertest.AccountB},
		Shares:     []uint32{1, 3},
	})
	n.SetBalance(ledgertest.ContractA, amount.MustParse("100"))
	return n, srv
}

// run executes a command against given server and returns its output.
func run(t testing.TB, cmd func(input io.Reader, output io.Writer, args []string) error, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	args = append([]string{"-rpc", srv.URL, "-log-level", "none"}, args...)
	var output bytes.Buffer
	err := cmd(strings.NewReader(""), &output, args)
	return output.String(), err
}

func decodeJSON(t testing.TB, raw string, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		t.Fatalf("cannot decode %q: %s", raw, err)
	}
}

func secret() string {
	return keypair.MustRandom().Seed()
}

func TestCmdVersion(t *testing.T) {
	var output bytes.Buffer
	assert.Nil(t, cmdVersion(nil, &output, nil))
	assert.Equal(t, core.Version()+"\n", output.String())
}
