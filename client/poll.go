package client

import (
	"context"
	"fmt"
	"time"

	"github.com/iov-one/splitter/errors"
)

// WaitForTransaction polls the status of a submitted transaction until it
// reaches a terminal status. Not found transactions are retried, any other
// failure is returned immediately.
func (c *Client) WaitForTransaction(ctx context.Context, hash string) (*TransactionStatus, error) {
	if hash == "" {
		return nil, errors.Wrap(errors.ErrInput, "transaction hash is required")
	}
	return c.poll(ctx, hash)
}

func (c *Client) poll(ctx context.Context, hash string) (*TransactionStatus, error) {
	policy := c.conf.Poll
	if policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	ticker := time.NewTicker(policy.Interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		st, err := c.ledger.GetTransaction(ctx, hash)
		if err != nil {
			if ctx.Err() != nil {
				return nil, newFailure(errors.ErrPollingTimedOut, hash, nil, ctx.Err().Error())
			}
			return nil, errors.Wrapf(err, "get transaction %s", hash)
		}

		c.logger.Debug("transaction status", "hash", hash, "status", st.Status, "attempt", attempt)
		switch st.Status {
		case StatusSuccess:
			return st, nil
		case StatusFailed:
			return nil, newFailure(errors.ErrExecutionFailed, hash, st.Reason, "transaction failed")
		case StatusNotFound:
		default:
			return nil, newFailure(errors.ErrUnknownStatus, hash, nil, string(st.Status))
		}

		if policy.MaxAttempts > 0 && attempt >= policy.MaxAttempts {
			return nil, newFailure(errors.ErrPollingTimedOut, hash, nil,
				fmt.Sprintf("not found after %d attempts", attempt))
		}
		select {
		case <-ctx.Done():
			return nil, newFailure(errors.ErrPollingTimedOut, hash, nil, ctx.Err().Error())
		case <-ticker.C:
		}
	}
}
