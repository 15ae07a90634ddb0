package ledgertest

import (
	"context"
	"sync"

	"github.com/iov-one/splitter/client"
	"github.com/stellar/go/keypair"
)

// Signer signs with a random key unless Err is set, in which case it
// declines. It counts calls.
type Signer struct {
	Err error

	key   *client.KeypairSigner
	mu    sync.Mutex
	calls int
	last  string
}

var _ client.Signer = (*Signer)(nil)

// NewSigner returns a signer holding a new random key.
func NewSigner() *Signer {
	key, err := client.NewKeypairSigner(keypair.MustRandom().Seed())
	if err != nil {
		panic(err)
	}
	return &Signer{key: key}
}

// Address returns the account address of the signing key.
func (s *Signer) Address() string {
	return s.key.Address()
}

func (s *Signer) Sign(ctx context.Context, envelope string, opts client.SignOptions) (string, error) {
	s.mu.Lock()
	s.calls++
	s.last = envelope
	s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}
	return s.key.Sign(ctx, envelope, opts)
}

// CallCount returns the number of Sign calls.
func (s *Signer) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastEnvelope returns the envelope passed to the most recent Sign call.
func (s *Signer) LastEnvelope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
