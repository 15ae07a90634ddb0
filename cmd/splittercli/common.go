package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	core "github.com/iov-one/splitter"
	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/gconf"
	"github.com/iov-one/splitter/rpcclient"
	"github.com/iov-one/splitter/x/splitter"
	"github.com/tendermint/tendermint/libs/log"
)

// settings are the flags shared by all commands talking to the ledger.
type settings struct {
	config     *string
	rpc        *string
	passphrase *string
	factory    *string
	token      *string
	logLevel   *string
}

func settingsFlags(fl *flag.FlagSet) *settings {
	return &settings{
		config: fl.String("config", env("SPLITTER_CONFIG", ""),
			"Path to a TOML configuration file. You can use SPLITTER_CONFIG environment variable to set it."),
		rpc: fl.String("rpc", "",
			"Ledger RPC server address. Overrides the configured value."),
		passphrase: fl.String("network", "",
			"Network passphrase. Overrides the configured value."),
		factory: fl.String("factory", "",
			"Address of the splitter factory contract. Overrides the configured value."),
		token: fl.String("token", "",
			"Address of the token contract. Overrides the configured value."),
		logLevel: fl.String("log-level", "error",
			"Log level written to stderr. One of debug, info, error or none."),
	}
}

// configuration returns the validated configuration with command line
// flags applied on top of the file and the environment.
func (s *settings) configuration() (gconf.Configuration, error) {
	conf, err := gconf.Load(*s.config)
	if err != nil {
		return conf, fmt.Errorf("cannot load configuration: %s", err)
	}
	for _, f := range []struct {
		dst *string
		val string
	}{
		{&conf.RPCURL, *s.rpc},
		{&conf.NetworkPassphrase, *s.passphrase},
		{&conf.FactoryContract, *s.factory},
		{&conf.TokenContract, *s.token},
	} {
		if f.val != "" {
			*f.dst = f.val
		}
	}
	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("invalid configuration: %s", err)
	}
	return conf, nil
}

func (s *settings) logger(w io.Writer) (log.Logger, error) {
	if *s.logLevel == "none" {
		return log.NewNopLogger(), nil
	}
	opt, err := log.AllowLevel(*s.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), opt), nil
}

// service returns the contract API together with a function that releases
// its connection. Logs are written to stderr.
func (s *settings) service() (*splitter.Service, gconf.Configuration, func(), error) {
	conf, err := s.configuration()
	if err != nil {
		return nil, conf, nil, err
	}
	logger, err := s.logger(os.Stderr)
	if err != nil {
		return nil, conf, nil, err
	}
	rpc := rpcclient.NewClient(conf.RPCURL, &rpcclient.Options{
		UserAgent: core.UserAgent("splittercli"),
		Logger:    logger,
	})
	c, err := client.NewClient(rpc, conf.ClientConfig(), logger)
	if err != nil {
		rpc.Close()
		return nil, conf, nil, fmt.Errorf("cannot create client: %s", err)
	}
	svc, err := splitter.NewService(c, conf.FactoryContract, conf.TokenContract, logger)
	if err != nil {
		rpc.Close()
		return nil, conf, nil, fmt.Errorf("cannot create service: %s", err)
	}
	return svc, conf, func() { rpc.Close() }, nil
}

// signerFlag registers the secret seed flag.
func signerFlag(fl *flag.FlagSet) *string {
	return fl.String("secret", env("SPLITTER_SECRET", ""),
		"Secret seed of the account signing and paying for the transaction. You can use SPLITTER_SECRET environment variable to set it.")
}

func keypairSigner(seed string) (*client.KeypairSigner, error) {
	if seed == "" {
		return nil, fmt.Errorf("secret seed is required")
	}
	s, err := client.NewKeypairSigner(seed)
	if err != nil {
		return nil, fmt.Errorf("cannot use secret seed: %s", err)
	}
	return s, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	pretty, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(w, string(pretty))
	return err
}

// txResult is the printed outcome of a submitted transaction.
type txResult struct {
	Hash   string `json:"hash"`
	Ledger uint32 `json:"ledger"`
}

func newTxResult(r *client.Result) txResult {
	return txResult{Hash: r.Hash, Ledger: r.Ledger}
}

// failureDetails returns the hash and the ledger reason of a failed call if
// they are known.
func failureDetails(err error) string {
	var msg string
	if hash, ok := client.HashOf(err); ok {
		msg += fmt.Sprintf("\ntransaction: %s", hash)
	}
	if reason, ok := client.ReasonOf(err); ok {
		msg += fmt.Sprintf("\nreason: %s", reason)
	}
	return msg
}

// env returns the value of the SPLITTER_* environment variable with given
// name. Fallback is used only if the variable is not set at all.
func env(name, fallback string) string {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}
	return v
}
