package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/iov-one/splitter/x/splitter"
)

func cmdConfig(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the token, the recipients and the shares of a deployed splitter.
`)
		fl.PrintDefaults()
	}
	var (
		set        = settingsFlags(fl)
		splitterFl = fl.String("splitter", "", "Address of the splitter contract.")
	)
	fl.Parse(args)

	svc, _, closeFn, err := set.service()
	if err != nil {
		return err
	}
	defer closeFn()

	conf, err := svc.Config(context.Background(), *splitterFl)
	if err != nil {
		return fmt.Errorf("cannot get splitter configuration: %s%s", err, failureDetails(err))
	}
	return writeJSON(output, conf)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the token balance of an account or a contract.
`)
		fl.PrintDefaults()
	}
	var (
		set      = settingsFlags(fl)
		holderFl = fl.String("holder", "", "Address of the account or the contract holding tokens.")
	)
	fl.Parse(args)

	svc, conf, closeFn, err := set.service()
	if err != nil {
		return err
	}
	defer closeFn()

	if conf.TokenContract == "" {
		return fmt.Errorf("token contract is required")
	}
	b, err := svc.Balance(context.Background(), conf.TokenContract, *holderFl)
	if err != nil {
		return fmt.Errorf("cannot get balance: %s%s", err, failureDetails(err))
	}
	_, err = fmt.Fprintln(output, b)
	return err
}

func cmdView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the configuration and the balance of a splitter together with the amount
each recipient would receive if the balance was distributed now.
`)
		fl.PrintDefaults()
	}
	var (
		set        = settingsFlags(fl)
		splitterFl = fl.String("splitter", "", "Address of the splitter contract.")
	)
	fl.Parse(args)

	svc, _, closeFn, err := set.service()
	if err != nil {
		return err
	}
	defer closeFn()

	v, err := svc.View(context.Background(), *splitterFl)
	if err != nil {
		return fmt.Errorf("cannot view splitter: %s%s", err, failureDetails(err))
	}
	return writeJSON(output, v)
}

func cmdWatch(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Periodically print the token balance of an account or a contract until
interrupted. Each line contains the time of the reading and the balance.
`)
		fl.PrintDefaults()
	}
	var (
		set        = settingsFlags(fl)
		holderFl   = fl.String("holder", "", "Address of the account or the contract holding tokens.")
		intervalFl = fl.Duration("interval", 0, "Time between readings. Defaults to the configured refresh interval.")
		countFl    = fl.Int("count", 0, "Stop after this many readings. Zero means no limit.")
	)
	fl.Parse(args)

	svc, conf, closeFn, err := set.service()
	if err != nil {
		return err
	}
	defer closeFn()

	if conf.TokenContract == "" {
		return fmt.Errorf("token contract is required")
	}
	interval := *intervalFl
	if interval == 0 {
		interval = conf.RefreshInterval.Duration()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	results := make(chan splitter.BalanceSnapshot)
	if err := svc.WatchBalance(ctx, conf.TokenContract, *holderFl, interval, results); err != nil {
		return fmt.Errorf("cannot watch balance: %s", err)
	}
	var n int
	for snap := range results {
		if snap.Err != nil {
			fmt.Fprintf(output, "%s\terror: %s\n", snap.At.Format(time.RFC3339), snap.Err)
		} else {
			fmt.Fprintf(output, "%s\t%s\n", snap.At.Format(time.RFC3339), snap.Balance)
		}
		if n++; *countFl > 0 && n >= *countFl {
			cancel()
			// Drain until the watcher closes the channel.
			for range results {
			}
		}
	}
	return nil
}
