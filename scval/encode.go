package scval

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"

	"github.com/iov-one/splitter"
	"github.com/iov-one/splitter/amount"
	"github.com/iov-one/splitter/errors"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// SaltSize is the length of the salt passed to the factory create method.
const SaltSize = 32

// Salt is a random value that makes the address of a newly created splitter
// unique, even if another splitter with the same configuration exists.
type Salt [SaltSize]byte

// NewSalt returns a salt read from a cryptographically secure source.
func NewSalt() (Salt, error) {
	var s Salt
	if _, err := rand.Read(s[:]); err != nil {
		return s, errors.Wrap(errors.ErrEncoding, "cannot read random salt")
	}
	return s, nil
}

func (s Salt) String() string {
	return hex.EncodeToString(s[:])
}

// ScVal returns the salt encoded as a byte array value.
func (s Salt) ScVal() xdr.ScVal {
	return Bytes(s[:])
}

// Bytes returns a byte array value. Given slice is copied.
func Bytes(b []byte) xdr.ScVal {
	v := xdr.ScBytes(append([]byte(nil), b...))
	return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &v}
}

// U32 returns a 32 bit unsigned integer value.
func U32(n uint32) xdr.ScVal {
	v := xdr.Uint32(n)
	return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &v}
}

// I128 returns a signed 128 bit integer value holding the minor units of
// given amount.
func I128(a amount.Amount) (xdr.ScVal, error) {
	hi, lo, err := a.Int128()
	if err != nil {
		return xdr.ScVal{}, errors.Wrap(err, "i128")
	}
	parts := xdr.Int128Parts{Hi: xdr.Int64(hi), Lo: xdr.Uint64(lo)}
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &parts}, nil
}

// Vec returns a list value containing given values in the same order.
func Vec(vals []xdr.ScVal) xdr.ScVal {
	vec := xdr.ScVec(vals)
	pvec := &vec
	return xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &pvec}
}

// U32List returns a list of 32 bit unsigned integer values.
func U32List(ns []uint32) xdr.ScVal {
	vals := make([]xdr.ScVal, len(ns))
	for i, n := range ns {
		vals[i] = U32(n)
	}
	return Vec(vals)
}

// ScAddress decodes given account or contract identifier. Unlike the
// shape check of the splitter package, the checksum is verified as well.
func ScAddress(s string) (xdr.ScAddress, error) {
	switch splitter.ClassifyAddress(s) {
	case splitter.AccountAddress:
		var aid xdr.AccountId
		if err := aid.SetAddress(s); err != nil {
			return xdr.ScAddress{}, errors.Wrapf(errors.ErrAddress, "%q: %s", s, err)
		}
		return xdr.ScAddress{
			Type:      xdr.ScAddressTypeScAddressTypeAccount,
			AccountId: &aid,
		}, nil
	case splitter.ContractAddress:
		raw, err := strkey.Decode(strkey.VersionByteContract, s)
		if err != nil {
			return xdr.ScAddress{}, errors.Wrapf(errors.ErrAddress, "%q: %s", s, err)
		}
		var id xdr.Hash
		copy(id[:], raw)
		return xdr.ScAddress{
			Type:       xdr.ScAddressTypeScAddressTypeContract,
			ContractId: &id,
		}, nil
	default:
		return xdr.ScAddress{}, splitter.ValidateAddress(s)
	}
}

// Address returns an address value of given account or contract identifier.
func Address(s string) (xdr.ScVal, error) {
	addr, err := ScAddress(s)
	if err != nil {
		return xdr.ScVal{}, err
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}

// AddressList returns a list of address values. All invalid addresses are
// reported, each as a field error named after its index.
func AddressList(addrs []string) (xdr.ScVal, error) {
	var errs error
	vals := make([]xdr.ScVal, len(addrs))
	for i, a := range addrs {
		v, err := Address(a)
		if err != nil {
			errs = errors.AppendField(errs, strconv.Itoa(i), err)
			continue
		}
		vals[i] = v
	}
	if errs != nil {
		return xdr.ScVal{}, errs
	}
	return Vec(vals), nil
}
