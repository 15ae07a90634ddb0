package splitter

import "fmt"

// Release version numbers. Suffix is empty for tagged releases.
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "-dev"
)

// GitCommit set by build flags
var GitCommit = ""

func release() string {
	return fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
}

// Version returns the release version followed by the commit it was built
// from, if known.
func Version() string {
	if GitCommit == "" {
		return release()
	}
	return release() + " " + GitCommit
}

// UserAgent returns the User-Agent header value that the named program
// sends to the ledger RPC server, for example splittercli/v0.1.0-dev.
func UserAgent(program string) string {
	ua := program + "/" + release()
	if c := GitCommit; c != "" {
		if len(c) > 8 {
			c = c[:8]
		}
		ua += " (" + c + ")"
	}
	return ua
}
