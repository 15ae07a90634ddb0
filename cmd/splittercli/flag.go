package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iov-one/splitter/scval"
)

// flStrings returns a list of comma separated values that is being
// initialized with given default value and optionally overwritten by a
// command line argument if provided. This function follows Go's flag package
// convention.
func flStrings(fl *flag.FlagSet, name, defaultVal, usage string) *[]string {
	var s stringsSlice
	if defaultVal != "" {
		_ = s.Set(defaultVal)
	}
	fl.Var(&s, name, usage)
	return (*[]string)(&s)
}

type stringsSlice []string

func (s stringsSlice) String() string {
	return strings.Join(s, ",")
}

func (s *stringsSlice) Set(raw string) error {
	var vals []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			vals = append(vals, v)
		}
	}
	*s = vals
	return nil
}

// flUint32s returns a list of comma separated numbers that is being
// initialized with given default value and optionally overwritten by a
// command line argument if provided. This function follows Go's flag package
// convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flUint32s(fl *flag.FlagSet, name, defaultVal, usage string) *[]uint32 {
	var u uint32Slice
	if defaultVal != "" {
		if err := u.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q number list flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&u, name, usage)
	return (*[]uint32)(&u)
}

type uint32Slice []uint32

func (u uint32Slice) String() string {
	vals := make([]string, len(u))
	for i, n := range u {
		vals[i] = strconv.FormatUint(uint64(n), 10)
	}
	return strings.Join(vals, ",")
}

func (u *uint32Slice) Set(raw string) error {
	var vals []uint32
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return err
		}
		vals = append(vals, uint32(n))
	}
	*u = vals
	return nil
}

// flSalt returns a hex encoded salt value. Returned pointer is nil until
// the flag is set.
func flSalt(fl *flag.FlagSet, name, usage string) **scval.Salt {
	var s saltFlag
	fl.Var(&s, name, usage)
	return &s.salt
}

type saltFlag struct {
	salt *scval.Salt
}

func (s *saltFlag) String() string {
	if s == nil || s.salt == nil {
		return ""
	}
	return s.salt.String()
}

func (s *saltFlag) Set(raw string) error {
	b, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	if len(b) != scval.SaltSize {
		return fmt.Errorf("salt must be %d bytes long, got %d", scval.SaltSize, len(b))
	}
	var salt scval.Salt
	copy(salt[:], b)
	s.salt = &salt
	return nil
}
