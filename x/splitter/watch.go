package splitter

import (
	"context"
	"time"

	core "github.com/iov-one/splitter"
	"github.com/iov-one/splitter/amount"
	"github.com/iov-one/splitter/errors"
)

// BalanceSnapshot is a single balance reading. Err is set if the balance
// could not be fetched.
type BalanceSnapshot struct {
	At      time.Time
	Balance amount.Amount
	Err     error
}

// WatchBalance fetches the balance of holder right away and then every
// interval, writing each reading to the results channel. A failed reading
// is reported and does not stop watching. Results channel is closed once
// the context is cancelled.
func (s *Service) WatchBalance(ctx context.Context, token, holder string, interval time.Duration, results chan<- BalanceSnapshot) error {
	if err := core.ValidateContractAddress(token); err != nil {
		return errors.Wrap(err, "token")
	}
	if err := core.ValidateAddress(holder); err != nil {
		return errors.Wrap(err, "holder")
	}
	if interval <= 0 {
		return errors.Wrap(errors.ErrInput, "interval must be positive")
	}

	go func() {
		defer close(results)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			b, err := s.Balance(ctx, token, holder)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				s.logger.Error("cannot fetch balance", "holder", holder, "err", err)
			}
			select {
			case results <- BalanceSnapshot{At: time.Now(), Balance: b, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return nil
}
