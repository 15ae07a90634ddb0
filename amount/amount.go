/*
Package amount implements token amounts with a fixed precision of seven
fractional digits.

The ledger stores balances as signed 128 bit integers counting minor units.
One whole token equals 10^7 minor units. Amount keeps the minor unit value in
an unsigned 256 bit integer so that a balance multiplied by a share weight can
never overflow during distribution arithmetic.
*/
package amount

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/iov-one/splitter/errors"
)

// Decimals is the number of fractional digits of a token amount.
const Decimals = 7

// Unit is the number of minor units in one whole token (10^7).
const Unit uint64 = 10_000_000

// Amount is a non negative token amount.
type Amount struct {
	raw uint256.Int
}

// Zero is an amount of nothing.
var Zero = Amount{}

// FromMinor returns an amount of given number of minor units.
func FromMinor(minor uint64) Amount {
	var a Amount
	a.raw.SetUint64(minor)
	return a
}

// FromUint256 returns an amount of given number of minor units. Given value
// is copied.
func FromUint256(minor *uint256.Int) Amount {
	var a Amount
	a.raw.Set(minor)
	return a
}

// FromInt128 returns an amount from the two halves of a signed 128 bit
// integer, as used by the ledger to represent balances. Negative values are
// rejected.
func FromInt128(hi int64, lo uint64) (Amount, error) {
	if hi < 0 {
		return Zero, errors.Wrapf(errors.ErrAmount, "negative balance (hi=%d, lo=%d)", hi, lo)
	}
	var a Amount
	a.raw.SetUint64(uint64(hi))
	a.raw.Lsh(&a.raw, 64)
	a.raw.Or(&a.raw, uint256.NewInt(lo))
	return a, nil
}

// Int128 returns the two halves of the signed 128 bit integer representation
// of this amount. An amount that does not fit into 127 bits cannot be
// represented and an error is returned.
func (a Amount) Int128() (hi int64, lo uint64, err error) {
	if a.raw.BitLen() > 127 {
		return 0, 0, errors.Wrap(errors.ErrAmount, "value does not fit into i128")
	}
	var h uint256.Int
	h.Rsh(&a.raw, 64)
	return int64(h.Uint64()), a.raw.Uint64(), nil
}

// Parse returns an amount from its human readable decimal form, for example
// "12", "0.5" or "100.0000000". At most seven fractional digits are accepted.
func Parse(s string) (Amount, error) {
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return Zero, errors.Wrapf(errors.ErrAmount, "%q: empty", s)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return Zero, errors.Wrapf(errors.ErrAmount, "%q: not a non negative decimal number", s)
	}
	if len(frac) > Decimals {
		return Zero, errors.Wrapf(errors.ErrAmount, "%q: more than %d fractional digits", s, Decimals)
	}
	if whole = strings.TrimLeft(whole, "0"); whole == "" {
		whole = "0"
	}
	frac += strings.Repeat("0", Decimals-len(frac))

	w, err := uint256.FromDecimal(whole)
	if err != nil {
		return Zero, errors.Wrapf(errors.ErrAmount, "%q: %s", s, err)
	}
	if _, overflow := w.MulOverflow(w, uint256.NewInt(Unit)); overflow {
		return Zero, errors.Wrapf(errors.ErrAmount, "%q: too big", s)
	}
	f, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return Zero, errors.Wrapf(errors.ErrAmount, "%q: %s", s, err)
	}
	var a Amount
	if _, overflow := a.raw.AddOverflow(w, uint256.NewInt(f)); overflow {
		return Zero, errors.Wrapf(errors.ErrAmount, "%q: too big", s)
	}
	return a, nil
}

// MustParse is like Parse but panics on error. Use only with constant values.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// String returns the decimal form of this amount, always with seven
// fractional digits.
func (a Amount) String() string {
	var q, r uint256.Int
	q.DivMod(&a.raw, uint256.NewInt(Unit), &r)
	return fmt.Sprintf("%s.%07d", q.Dec(), r.Uint64())
}

// Minor returns the number of minor units of this amount.
func (a Amount) Minor() *uint256.Int {
	return a.raw.Clone()
}

// IsZero returns true if this amount is zero.
func (a Amount) IsZero() bool {
	return a.raw.IsZero()
}

// Cmp compares two amounts and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.raw.Cmp(&b.raw)
}

// Equals returns true if both amounts are the same.
func (a Amount) Equals(b Amount) bool {
	return a.raw.Eq(&b.raw)
}

// Add returns the sum of two amounts.
func (a Amount) Add(b Amount) (Amount, error) {
	var res Amount
	if _, overflow := res.raw.AddOverflow(&a.raw, &b.raw); overflow {
		return Zero, errors.Wrap(errors.ErrAmount, "addition overflow")
	}
	return res, nil
}

// Sub returns the difference of two amounts. Subtracting a bigger amount
// from a smaller one is an error.
func (a Amount) Sub(b Amount) (Amount, error) {
	var res Amount
	if _, underflow := res.raw.SubOverflow(&a.raw, &b.raw); underflow {
		return Zero, errors.Wrapf(errors.ErrAmount, "cannot subtract %s from %s", b, a)
	}
	return res, nil
}

// MulDiv returns floor(a * num / den). This is the same integer computation
// the splitter contract performs when paying out a share of its balance.
func (a Amount) MulDiv(num, den uint64) (Amount, error) {
	if den == 0 {
		return Zero, errors.Wrap(errors.ErrInput, "division by zero")
	}
	var res Amount
	if _, overflow := res.raw.MulOverflow(&a.raw, uint256.NewInt(num)); overflow {
		return Zero, errors.Wrap(errors.ErrAmount, "multiplication overflow")
	}
	res.raw.Div(&res.raw, uint256.NewInt(den))
	return res, nil
}

// MarshalJSON serializes an amount as its decimal string form.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON loads an amount from its decimal string form.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrAmount, err.Error())
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Set implements flag.Value interface.
func (a *Amount) Set(raw string) error {
	v, err := Parse(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
