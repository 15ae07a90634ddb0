package splitter

import (
	"github.com/iov-one/splitter/errors"
)

// AddressLength is the length of every encoded ledger identifier, both
// account and contract.
const AddressLength = 56

const (
	accountPrefix  = 'G'
	contractPrefix = 'C'
)

// AddressKind describes the role of an encoded identifier.
type AddressKind int

const (
	UnknownAddress AddressKind = iota
	AccountAddress
	ContractAddress
)

func (k AddressKind) String() string {
	switch k {
	case AccountAddress:
		return "account"
	case ContractAddress:
		return "contract"
	default:
		return "unknown"
	}
}

// IsContractAddress returns true if given value has the shape of a contract
// identifier.
func IsContractAddress(s string) bool {
	return len(s) == AddressLength && s[0] == contractPrefix
}

// IsAccountAddress returns true if given value has the shape of an account
// identifier.
func IsAccountAddress(s string) bool {
	return len(s) == AddressLength && s[0] == accountPrefix
}

// ClassifyAddress returns the kind of given identifier.
func ClassifyAddress(s string) AddressKind {
	switch {
	case IsAccountAddress(s):
		return AccountAddress
	case IsContractAddress(s):
		return ContractAddress
	default:
		return UnknownAddress
	}
}

// ValidateContractAddress returns an ErrAddress error if given value is not a
// contract identifier.
func ValidateContractAddress(s string) error {
	if !IsContractAddress(s) {
		return errors.Wrapf(errors.ErrAddress,
			"%q: expected a %d character contract address starting with %q",
			s, AddressLength, contractPrefix)
	}
	return nil
}

// ValidateAccountAddress returns an ErrAddress error if given value is not an
// account identifier.
func ValidateAccountAddress(s string) error {
	if !IsAccountAddress(s) {
		return errors.Wrapf(errors.ErrAddress,
			"%q: expected a %d character account address starting with %q",
			s, AddressLength, accountPrefix)
	}
	return nil
}

// ValidateAddress returns an ErrAddress error if given value is neither an
// account nor a contract identifier. Splitter recipients can be of both
// kinds.
func ValidateAddress(s string) error {
	if ClassifyAddress(s) == UnknownAddress {
		return errors.Wrapf(errors.ErrAddress,
			"%q: expected a %d character account or contract address",
			s, AddressLength)
	}
	return nil
}
