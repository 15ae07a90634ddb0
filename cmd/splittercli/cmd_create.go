package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/splitter/x/splitter"
)

func cmdCreate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Deploy a new splitter contract using the factory contract.

Recipient at a given position receives the share at the same position. Shares
are relative weights, for example "1,3" pays 25% to the first and 75% to the
second recipient. Recipients can be account or contract addresses.

The configured token is used unless -token is given. Address of the created
splitter is printed out.
`)
		fl.PrintDefaults()
	}
	var (
		set          = settingsFlags(fl)
		secretFl     = signerFlag(fl)
		recipientsFl = flStrings(fl, "recipients", "", "Comma separated list of recipient addresses.")
		sharesFl     = flUint32s(fl, "shares", "", "Comma separated list of share weights, one for each recipient.")
		saltFl       = flSalt(fl, "salt", "Hex encoded 32 byte salt. Random if not given.")
	)
	fl.Parse(args)

	signer, err := keypairSigner(*secretFl)
	if err != nil {
		return err
	}
	svc, _, closeFn, err := set.service()
	if err != nil {
		return err
	}
	defer closeFn()

	req := splitter.CreateRequest{
		Recipients: *recipientsFl,
		Shares:     *sharesFl,
		Salt:       *saltFl,
	}
	created, err := svc.Create(context.Background(), signer.Address(), signer, req)
	if err != nil {
		return fmt.Errorf("cannot create splitter: %s%s", err, failureDetails(err))
	}
	return writeJSON(output, struct {
		Address string `json:"address"`
		Salt    string `json:"salt"`
		txResult
	}{
		Address:  created.Address,
		Salt:     created.Salt.String(),
		txResult: newTxResult(created.Result),
	})
}

func cmdDistribute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Pay out the whole token balance of a splitter to its recipients. Anyone can
trigger the distribution, the signer only pays the transaction fee.
`)
		fl.PrintDefaults()
	}
	var (
		set        = settingsFlags(fl)
		secretFl   = signerFlag(fl)
		splitterFl = fl.String("splitter", "", "Address of the splitter contract.")
	)
	fl.Parse(args)

	signer, err := keypairSigner(*secretFl)
	if err != nil {
		return err
	}
	svc, _, closeFn, err := set.service()
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Distribute(context.Background(), signer.Address(), signer, *splitterFl)
	if err != nil {
		return fmt.Errorf("cannot distribute: %s%s", err, failureDetails(err))
	}
	return writeJSON(output, newTxResult(res))
}
