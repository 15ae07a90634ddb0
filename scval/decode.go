package scval

import (
	"strconv"

	"github.com/iov-one/splitter"
	"github.com/iov-one/splitter/amount"
	"github.com/iov-one/splitter/errors"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// DecodeAddress returns the encoded identifier of an address value.
func DecodeAddress(v xdr.ScVal) (string, error) {
	addr, ok := v.GetAddress()
	if !ok {
		return "", errors.Wrapf(errors.ErrEncoding, "want address, got %s", v.Type)
	}
	return EncodeScAddress(addr)
}

// EncodeScAddress returns the encoded identifier of given address.
func EncodeScAddress(addr xdr.ScAddress) (string, error) {
	switch addr.Type {
	case xdr.ScAddressTypeScAddressTypeAccount:
		if addr.AccountId == nil {
			return "", errors.Wrap(errors.ErrEncoding, "account address without account id")
		}
		s, err := addr.AccountId.GetAddress()
		if err != nil {
			return "", errors.Wrap(errors.ErrEncoding, err.Error())
		}
		return s, nil
	case xdr.ScAddressTypeScAddressTypeContract:
		if addr.ContractId == nil {
			return "", errors.Wrap(errors.ErrEncoding, "contract address without contract id")
		}
		s, err := strkey.Encode(strkey.VersionByteContract, addr.ContractId[:])
		if err != nil {
			return "", errors.Wrap(errors.ErrEncoding, err.Error())
		}
		return s, nil
	default:
		return "", errors.Wrapf(errors.ErrEncoding, "unsupported address type %s", addr.Type)
	}
}

// DecodeVec returns the elements of a list value.
func DecodeVec(v xdr.ScVal) ([]xdr.ScVal, error) {
	vec, ok := v.GetVec()
	if !ok {
		return nil, errors.Wrapf(errors.ErrEncoding, "want vec, got %s", v.Type)
	}
	if vec == nil {
		return nil, nil
	}
	return *vec, nil
}

// DecodeTuple returns the elements of a tuple value. A tuple is a list with a
// fixed number of elements.
func DecodeTuple(v xdr.ScVal, size int) ([]xdr.ScVal, error) {
	elems, err := DecodeVec(v)
	if err != nil {
		return nil, errors.Wrap(err, "tuple")
	}
	if len(elems) != size {
		return nil, errors.Wrapf(errors.ErrEncoding, "want a tuple of %d elements, got %d", size, len(elems))
	}
	return elems, nil
}

// DecodeAddressList returns the identifiers of a list of address values.
func DecodeAddressList(v xdr.ScVal) ([]string, error) {
	elems, err := DecodeVec(v)
	if err != nil {
		return nil, err
	}
	addrs := make([]string, len(elems))
	for i, e := range elems {
		a, err := DecodeAddress(e)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		addrs[i] = a
	}
	return addrs, nil
}

// DecodeU32 returns the value of a 32 bit unsigned integer value.
func DecodeU32(v xdr.ScVal) (uint32, error) {
	n, ok := v.GetU32()
	if !ok {
		return 0, errors.Wrapf(errors.ErrEncoding, "want u32, got %s", v.Type)
	}
	return uint32(n), nil
}

// DecodeU32List returns the values of a list of 32 bit unsigned integers.
func DecodeU32List(v xdr.ScVal) ([]uint32, error) {
	elems, err := DecodeVec(v)
	if err != nil {
		return nil, err
	}
	ns := make([]uint32, len(elems))
	for i, e := range elems {
		n, err := DecodeU32(e)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		ns[i] = n
	}
	return ns, nil
}

// DecodeBalance returns the amount of a signed 128 bit integer value counting
// minor units. Negative values are rejected.
func DecodeBalance(v xdr.ScVal) (amount.Amount, error) {
	parts, ok := v.GetI128()
	if !ok {
		return amount.Zero, errors.Wrapf(errors.ErrEncoding, "want i128, got %s", v.Type)
	}
	return amount.FromInt128(int64(parts.Hi), uint64(parts.Lo))
}

// DecodeBytes returns the content of a byte array value.
func DecodeBytes(v xdr.ScVal) ([]byte, error) {
	b, ok := v.GetBytes()
	if !ok {
		return nil, errors.Wrapf(errors.ErrEncoding, "want bytes, got %s", v.Type)
	}
	return []byte(b), nil
}

// DecodeSplitterConfig returns the configuration encoded as the
// (token, recipients, shares) tuple returned by a splitter's get_config
// method. Decoded configuration is validated.
func DecodeSplitterConfig(v xdr.ScVal) (splitter.Config, error) {
	elems, err := DecodeTuple(v, 3)
	if err != nil {
		return splitter.Config{}, errors.Wrap(err, "config")
	}
	token, err := DecodeAddress(elems[0])
	if err != nil {
		return splitter.Config{}, errors.Wrap(err, "config token")
	}
	recipients, err := DecodeAddressList(elems[1])
	if err != nil {
		return splitter.Config{}, errors.Wrap(err, "config recipients")
	}
	shares, err := DecodeU32List(elems[2])
	if err != nil {
		return splitter.Config{}, errors.Wrap(err, "config shares")
	}
	conf := splitter.Config{
		Token:      token,
		Recipients: recipients,
		Shares:     shares,
	}
	if err := conf.Validate(); err != nil {
		return conf, errors.Wrap(err, "config")
	}
	return conf, nil
}

// Describe returns a short human readable representation of a value. It is
// meant for logs and command line output, not for parsing.
func Describe(v xdr.ScVal) string {
	switch v.Type {
	case xdr.ScValTypeScvVoid:
		return "void"
	case xdr.ScValTypeScvAddress:
		if s, err := DecodeAddress(v); err == nil {
			return s
		}
	case xdr.ScValTypeScvU32:
		if n, err := DecodeU32(v); err == nil {
			return strconv.FormatUint(uint64(n), 10)
		}
	case xdr.ScValTypeScvI128:
		if a, err := DecodeBalance(v); err == nil {
			return a.String()
		}
	}
	return v.Type.String()
}
