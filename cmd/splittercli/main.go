package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	core "github.com/iov-one/splitter"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It is the responsibility of
// the command function to parse the arguments using the flag package. A
// command is expected to read and write only to provided input and output.
// Log messages are written to os.Stderr.
//
// Each command provides a single functionality. Commands writing JSON can be
// combined with tools like jq:
//
//   $ splittercli view -splitter CA4WV... | jq .distribution
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"address":    cmdAddress,
	"balance":    cmdBalance,
	"config":     cmdConfig,
	"create":     cmdCreate,
	"distribute": cmdDistribute,
	"settings":   cmdSettings,
	"version":    cmdVersion,
	"view":       cmdView,
	"watch":      cmdWatch,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for payment splitter contracts.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, core.Version())
	return nil
}
