package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	core "github.com/iov-one/splitter"
	"github.com/iov-one/splitter/scval"
)

func cmdAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Validate an address and print its kind, either account or contract. The
address is read from the standard input unless given as an argument.

The checksum is verified as well, so an address with a typo is rejected.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	var addr string
	if fl.NArg() > 0 {
		addr = fl.Arg(0)
	} else {
		raw, err := ioutil.ReadAll(input)
		if err != nil {
			return fmt.Errorf("cannot read address: %s", err)
		}
		addr = strings.TrimSpace(string(raw))
	}
	if addr == "" {
		return fmt.Errorf("no address given")
	}

	if _, err := scval.ScAddress(addr); err != nil {
		return fmt.Errorf("invalid address: %s", err)
	}
	_, err := fmt.Fprintln(output, core.ClassifyAddress(addr))
	return err
}

func cmdSettings(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the effective configuration in TOML format. Output can be used as a
configuration file.
`)
		fl.PrintDefaults()
	}
	set := settingsFlags(fl)
	fl.Parse(args)

	conf, err := set.configuration()
	if err != nil {
		return err
	}
	if err := conf.Encode(output); err != nil {
		return fmt.Errorf("cannot TOML serialize: %s", err)
	}
	return nil
}
