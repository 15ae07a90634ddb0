package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	core "github.com/iov-one/splitter"
	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/cmd/splitterapi/handlers"
	"github.com/iov-one/splitter/gconf"
	"github.com/iov-one/splitter/rpcclient"
	"github.com/iov-one/splitter/x/splitter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	configFl := flag.String("config", env("SPLITTER_CONFIG", ""),
		"Path to a TOML configuration file. You can use SPLITTER_CONFIG environment variable to set it.")
	originsFl := flag.String("cors", env("SPLITTER_CORS_ORIGINS", "*"),
		"Comma separated list of origins allowed to query the API. You can use SPLITTER_CORS_ORIGINS environment variable to set it.")
	flag.Parse()

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "splitterapi")

	conf, err := gconf.Load(*configFl)
	if err != nil {
		logger.Error("cannot load configuration", "err", err)
		os.Exit(2)
	}
	if err := conf.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	if err := run(conf, strings.Split(*originsFl, ","), logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func run(conf gconf.Configuration, origins []string, logger log.Logger) error {
	rpc := rpcclient.NewClient(conf.RPCURL, &rpcclient.Options{
		UserAgent: core.UserAgent("splitterapi"),
		Logger:    logger,
	})
	defer rpc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	network, err := rpc.Network(ctx)
	if err != nil {
		return fmt.Errorf("cannot get network: %s", err)
	}
	if network.Passphrase != conf.NetworkPassphrase {
		return fmt.Errorf("RPC server is connected to %q network, %q configured", network.Passphrase, conf.NetworkPassphrase)
	}

	c, err := client.NewClient(rpc, conf.ClientConfig(), logger)
	if err != nil {
		return fmt.Errorf("client: %s", err)
	}
	svc, err := splitter.NewService(c, conf.FactoryContract, conf.TokenContract, logger)
	if err != nil {
		return fmt.Errorf("service: %s", err)
	}

	info := handlers.Info{
		Version:           core.Version(),
		NetworkPassphrase: conf.NetworkPassphrase,
		FactoryContract:   conf.FactoryContract,
		TokenContract:     conf.TokenContract,
	}
	rt := newRouter(svc, rpc, info, origins, prometheus.NewRegistry(), logger)

	logger.Info("listening", "addr", conf.HTTP, "rpc", conf.RPCURL)
	if err := http.ListenAndServe(conf.HTTP, rt); err != nil {
		return fmt.Errorf("http server: %s", err)
	}
	return nil
}

// newRouter returns the API handler. Request counts are registered with
// given registry and exposed under /metrics.
func newRouter(
	splitters handlers.Viewer,
	ledger handlers.HealthChecker,
	info handlers.Info,
	origins []string,
	reg *prometheus.Registry,
	logger log.Logger,
) http.Handler {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splitterapi",
		Name:      "requests_total",
		Help:      "Number of handled HTTP requests.",
	}, []string{"handler", "code", "method"})
	reg.MustRegister(requests)

	instrument := func(name string, h http.Handler) http.Handler {
		return promhttp.InstrumentHandlerCounter(requests.MustCurryWith(prometheus.Labels{"handler": name}), h)
	}

	rt := http.NewServeMux()
	rt.Handle("/info", instrument("info", &handlers.InfoHandler{Info: info}))
	rt.Handle("/health", instrument("health", &handlers.HealthHandler{Ledger: ledger, Logger: logger}))
	rt.Handle("/splitters/", instrument("splitters", &handlers.SplitterHandler{Splitters: splitters, Logger: logger}))
	rt.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	rt.Handle("/", &handlers.DefaultHandler{})

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(rt)
}
