package splitter

import (
	"github.com/iov-one/splitter/errors"
)

// MaxRecipients is the highest number of recipients a single splitter can be
// created with. The distribute call pays every recipient within a single
// transaction and the ledger bounds the resources of a single call.
const MaxRecipients = 64

// Config is the immutable configuration of a deployed splitter contract.
// Recipient at index i receives the share at index i.
type Config struct {
	Token      string   `json:"token"`
	Recipients []string `json:"recipients"`
	Shares     []uint32 `json:"shares"`
}

// TotalShares returns the sum of all share weights.
func (c Config) TotalShares() uint64 {
	var total uint64
	for _, s := range c.Shares {
		total += uint64(s)
	}
	return total
}

// Validate returns an error if this configuration cannot describe a
// splitter. All invalid fields are reported.
func (c Config) Validate() error {
	var errs error
	if err := ValidateContractAddress(c.Token); err != nil {
		errs = errors.AppendField(errs, "Token", err)
	}
	return errors.Append(errs, validateRecipients(c.Recipients, c.Shares, false))
}

// ValidateRecipients returns an error if given recipients and shares cannot
// be used to create a splitter. Both lists must be of the same, non zero
// length, every share must be positive and no recipient can repeat.
func ValidateRecipients(recipients []string, shares []uint32) error {
	return validateRecipients(recipients, shares, true)
}

func validateRecipients(recipients []string, shares []uint32, unique bool) error {
	switch n := len(recipients); {
	case n == 0:
		return errors.Field("Recipients", errors.ErrInput, "at least one recipient is required")
	case n > MaxRecipients:
		return errors.Field("Recipients", errors.ErrInput, "at most %d recipients are allowed", MaxRecipients)
	case n != len(shares):
		return errors.Field("Shares", errors.ErrInput,
			"got %d shares for %d recipients", len(shares), n)
	}

	var errs error
	seen := make(map[string]int, len(recipients))
	for i, r := range recipients {
		if err := ValidateAddress(r); err != nil {
			errs = errors.Append(errs, errors.Field(errors.Index("Recipients", i), err, ""))
			continue
		}
		if j, ok := seen[r]; ok && unique {
			errs = errors.Append(errs, errors.Field(errors.Index("Recipients", i), errors.ErrInput,
				"duplicates recipient %d", j))
			continue
		}
		seen[r] = i
	}
	for i, s := range shares {
		if s == 0 {
			errs = errors.Append(errs, errors.Field(errors.Index("Shares", i), errors.ErrInput, "must be positive"))
		}
	}
	return errs
}
