package gconf

import (
	"time"

	"github.com/iov-one/splitter/errors"
)

// Duration is a time.Duration that is written as text, for example "1m30s".
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(raw []byte) error {
	v, err := time.ParseDuration(string(raw))
	if err != nil {
		return errors.Wrap(errors.ErrConfig, err.Error())
	}
	*d = Duration(v)
	return nil
}
