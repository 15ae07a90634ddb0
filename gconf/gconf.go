package gconf

import (
	"bufio"
	"io"
	"os"
	"reflect"
	"strconv"
	"time"

	core "github.com/iov-one/splitter"
	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/errors"
	"github.com/naoina/toml"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
)

// Test network deployment.
const (
	DefaultRPCURL          = "https://soroban-testnet.stellar.org"
	DefaultFactoryContract = "CA4WV3U4KUNIWKGZA6CVLLH33HTJR63LSTTKWEX3SI24FKMHJ7G75LAP"
	DefaultTokenContract   = "CACZL3MGXXP3O6ROMB4Q36ROFULRWD6QARPE3AKWPSWMYZVF2474CBXP"
)

// Configuration holds all settings of a splitter client.
type Configuration struct {
	RPCURL            string
	NetworkPassphrase string
	FactoryContract   string
	TokenContract     string
	SimulationSource  string
	BaseFee           int64
	TxTimeout         Duration
	PollInterval      Duration
	PollAttempts      int
	PollTimeout       Duration
	// RefreshInterval is how often a watched balance is fetched.
	RefreshInterval Duration
	// HTTP is the listen address of the API server.
	HTTP string
}

// Default returns the test network configuration.
func Default() Configuration {
	return Configuration{
		RPCURL:            DefaultRPCURL,
		NetworkPassphrase: network.TestNetworkPassphrase,
		FactoryContract:   DefaultFactoryContract,
		TokenContract:     DefaultTokenContract,
		SimulationSource:  client.PlaceholderAccount,
		BaseFee:           txnbuild.MinBaseFee,
		TxTimeout:         Duration(30 * time.Second),
		PollInterval:      Duration(time.Second),
		PollAttempts:      60,
		PollTimeout:       Duration(2 * time.Minute),
		RefreshInterval:   Duration(10 * time.Second),
		HTTP:              ":8000",
	}
}

// Keys are the exact field names and unknown keys are rejected.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return errors.Wrapf(errors.ErrConfig, "field %q is not defined in %s", field, rt.String())
	},
}

// Decode reads TOML encoded values from r into c. Keys not present in r do
// not change c.
func (c *Configuration) Decode(r io.Reader) error {
	if err := tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(c); err != nil {
		if lerr, ok := err.(*toml.LineError); ok && errors.ErrConfig.Is(lerr.Err) {
			return lerr.Err
		}
		return errors.Wrap(errors.ErrConfig, err.Error())
	}
	return nil
}

// Encode writes c to w in TOML format.
func (c Configuration) Encode(w io.Writer) error {
	raw, err := tomlSettings.Marshal(&c)
	if err != nil {
		return errors.Wrap(errors.ErrConfig, err.Error())
	}
	_, err = w.Write(raw)
	return err
}

// LoadFile returns defaults overridden by the content of given TOML file.
func LoadFile(path string) (Configuration, error) {
	conf := Default()
	fd, err := os.Open(path)
	if err != nil {
		return conf, errors.Wrap(errors.ErrConfig, err.Error())
	}
	defer fd.Close()
	if err := conf.Decode(fd); err != nil {
		return conf, errors.Wrap(err, path)
	}
	return conf, nil
}

// Load returns the default configuration, overridden by given file if path
// is not empty and then by the process environment.
func Load(path string) (Configuration, error) {
	conf := Default()
	if path != "" {
		var err error
		if conf, err = LoadFile(path); err != nil {
			return conf, err
		}
	}
	if err := conf.ApplyEnv(os.LookupEnv); err != nil {
		return conf, err
	}
	return conf, nil
}

// LookupFunc returns the value of a variable and whether it is set.
// os.LookupEnv implements it.
type LookupFunc func(name string) (string, bool)

// ApplyEnv overrides configuration values with the SPLITTER_ prefixed
// variables that are set.
func (c *Configuration) ApplyEnv(lookup LookupFunc) error {
	var errs error

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int64) {
		v, ok := lookup(name)
		if !ok {
			return
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = errors.AppendField(errs, name, errors.Wrap(errors.ErrConfig, err.Error()))
			return
		}
		*dst = n
	}
	duration := func(name string, dst *Duration) {
		v, ok := lookup(name)
		if !ok {
			return
		}
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			errs = errors.AppendField(errs, name, err)
		}
	}

	str("SPLITTER_RPC_URL", &c.RPCURL)
	str("SPLITTER_NETWORK_PASSPHRASE", &c.NetworkPassphrase)
	str("SPLITTER_FACTORY", &c.FactoryContract)
	str("SPLITTER_TOKEN", &c.TokenContract)
	str("SPLITTER_SIMULATION_SOURCE", &c.SimulationSource)
	str("SPLITTER_HTTP", &c.HTTP)
	integer("SPLITTER_BASE_FEE", &c.BaseFee)
	attempts := int64(c.PollAttempts)
	integer("SPLITTER_POLL_ATTEMPTS", &attempts)
	c.PollAttempts = int(attempts)
	duration("SPLITTER_TX_TIMEOUT", &c.TxTimeout)
	duration("SPLITTER_POLL_INTERVAL", &c.PollInterval)
	duration("SPLITTER_POLL_TIMEOUT", &c.PollTimeout)
	duration("SPLITTER_REFRESH_INTERVAL", &c.RefreshInterval)
	return errs
}

// Validate returns an error listing every invalid value.
func (c Configuration) Validate() error {
	var errs error
	if c.RPCURL == "" {
		errs = errors.AppendField(errs, "RPCURL", errors.Wrap(errors.ErrConfig, "required"))
	}
	if err := core.ValidateContractAddress(c.FactoryContract); err != nil {
		errs = errors.AppendField(errs, "FactoryContract", errors.Wrap(errors.ErrConfig, err.Error()))
	}
	if c.TokenContract != "" {
		if err := core.ValidateContractAddress(c.TokenContract); err != nil {
			errs = errors.AppendField(errs, "TokenContract", errors.Wrap(errors.ErrConfig, err.Error()))
		}
	}
	if c.RefreshInterval <= 0 {
		errs = errors.AppendField(errs, "RefreshInterval", errors.Wrap(errors.ErrConfig, "must be positive"))
	}
	return errors.Append(errs, c.ClientConfig().Validate())
}

// ClientConfig returns the part of the configuration used by the
// transaction client.
func (c Configuration) ClientConfig() client.Config {
	return client.Config{
		NetworkPassphrase: c.NetworkPassphrase,
		BaseFee:           c.BaseFee,
		TxTimeout:         c.TxTimeout.Duration(),
		Poll: client.PollPolicy{
			Interval:    c.PollInterval.Duration(),
			MaxAttempts: c.PollAttempts,
			Timeout:     c.PollTimeout.Duration(),
		},
		SimulationSource: c.SimulationSource,
	}
}
