package distribution

import (
	"fmt"
	"sort"

	"github.com/iov-one/splitter"
	"github.com/iov-one/splitter/amount"
	"github.com/iov-one/splitter/errors"
)

// Whole is the percentage representing the whole balance.
const Whole Percentage = 10000

// Percentage is a part of the whole counted in basis points. A value of 2500
// is 25.00%.
type Percentage uint32

// String returns the percentage with two fractional digits and without the
// percent sign, for example "33.34".
func (p Percentage) String() string {
	return fmt.Sprintf("%d.%02d", p/100, p%100)
}

// MarshalText implements encoding.TextMarshaler.
func (p Percentage) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Entry is a single recipient's part of a distribution.
type Entry struct {
	// Recipient is set only for distributions computed from a splitter
	// configuration.
	Recipient  string        `json:"recipient,omitempty"`
	Share      uint32        `json:"share"`
	Percentage Percentage    `json:"percentage"`
	Amount     amount.Amount `json:"amount"`
}

// Distribution is the result of dividing a balance between share weights.
// Entries are in the same order as the shares they were computed from.
type Distribution struct {
	Balance amount.Amount `json:"balance"`
	Entries []Entry       `json:"entries"`
	// Dust is the part of the balance that is not paid to anyone because of
	// rounding down to the minor unit.
	Dust amount.Amount `json:"dust"`
}

// Distributed returns the sum of all entry amounts.
func (d Distribution) Distributed() amount.Amount {
	sum, _ := d.Balance.Sub(d.Dust)
	return sum
}

// Calculate divides given balance between share weights.
//
// Shares must add up to a positive number unless the list is empty, in which
// case nothing is distributed and the whole balance is dust. Calculate does
// not modify its arguments and always returns the same result for the same
// input.
func Calculate(balance amount.Amount, shares []uint32) (Distribution, error) {
	var total uint64
	for _, s := range shares {
		total += uint64(s)
	}
	if len(shares) == 0 {
		return Distribution{Balance: balance, Entries: []Entry{}, Dust: balance}, nil
	}
	if total == 0 {
		return Distribution{}, errors.Wrap(errors.ErrInput, "total share weight must be greater than zero")
	}

	entries := make([]Entry, len(shares))
	distributed := amount.Zero
	for i, s := range shares {
		a, err := balance.MulDiv(uint64(s), total)
		if err != nil {
			return Distribution{}, errors.Wrapf(err, "share %d", i)
		}
		if distributed, err = distributed.Add(a); err != nil {
			return Distribution{}, errors.Wrap(err, "distributed sum")
		}
		entries[i] = Entry{Share: s, Amount: a}
	}
	for i, p := range percentages(shares, total) {
		entries[i].Percentage = p
	}

	dust, err := balance.Sub(distributed)
	if err != nil {
		// Floor division never distributes more than the balance.
		return Distribution{}, errors.Wrap(err, "dust")
	}
	return Distribution{Balance: balance, Entries: entries, Dust: dust}, nil
}

// percentages returns basis points of each share using the largest remainder
// method. Ties are resolved in favour of the lower index.
func percentages(shares []uint32, total uint64) []Percentage {
	res := make([]Percentage, len(shares))
	rems := make([]uint64, len(shares))
	var assigned uint64
	for i, s := range shares {
		n := uint64(s) * uint64(Whole)
		res[i] = Percentage(n / total)
		rems[i] = n % total
		assigned += n / total
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]] > rems[order[b]]
	})
	for left := uint64(Whole) - assigned; left > 0; left-- {
		res[order[0]]++
		order = order[1:]
	}
	return res
}

// ForConfig divides given balance between the recipients of a splitter.
// Configuration must be valid.
func ForConfig(conf splitter.Config, balance amount.Amount) (Distribution, error) {
	if err := conf.Validate(); err != nil {
		return Distribution{}, errors.Wrap(err, "config")
	}
	d, err := Calculate(balance, conf.Shares)
	if err != nil {
		return d, err
	}
	for i := range d.Entries {
		d.Entries[i].Recipient = conf.Recipients[i]
	}
	return d, nil
}
