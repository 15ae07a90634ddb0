package client

import (
	"context"

	"github.com/iov-one/splitter/errors"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// SignOptions tells the signer which key is expected to sign and for which
// network.
type SignOptions struct {
	Address           string
	NetworkPassphrase string
}

// Signer signs transactions on behalf of an account owner. Usually this is a
// wallet that asks the user for confirmation.
//
// Sign receives a base64 encoded unsigned transaction envelope and returns
// the signed envelope in the same encoding. A user refusing to sign must be
// reported as an error.
type Signer interface {
	Sign(ctx context.Context, envelope string, opts SignOptions) (string, error)
}

// SignerFunc adapts a function to the Signer interface.
type SignerFunc func(ctx context.Context, envelope string, opts SignOptions) (string, error)

// Sign calls fn.
func (fn SignerFunc) Sign(ctx context.Context, envelope string, opts SignOptions) (string, error) {
	return fn(ctx, envelope, opts)
}

// KeypairSigner signs with a locally held secret key. It refuses to sign for
// any address other than its own.
type KeypairSigner struct {
	kp *keypair.Full
}

var _ Signer = (*KeypairSigner)(nil)

// NewKeypairSigner returns a signer using given secret seed.
func NewKeypairSigner(seed string) (*KeypairSigner, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "invalid secret seed")
	}
	return &KeypairSigner{kp: kp}, nil
}

// Address returns the account address of the signing key.
func (s *KeypairSigner) Address() string {
	return s.kp.Address()
}

// Sign signs given transaction envelope.
func (s *KeypairSigner) Sign(ctx context.Context, envelope string, opts SignOptions) (string, error) {
	if opts.Address != "" && opts.Address != s.kp.Address() {
		return "", errors.Wrapf(errors.ErrSigningDeclined, "cannot sign for %s", opts.Address)
	}
	gtx, err := txnbuild.TransactionFromXDR(envelope)
	if err != nil {
		return "", errors.Wrapf(errors.ErrEncoding, "transaction envelope: %s", err)
	}
	tx, ok := gtx.Transaction()
	if !ok {
		return "", errors.Wrap(errors.ErrEncoding, "fee bump transactions are not supported")
	}
	signed, err := tx.Sign(opts.NetworkPassphrase, s.kp)
	if err != nil {
		return "", errors.Wrapf(errors.ErrSigningDeclined, "sign: %s", err)
	}
	out, err := signed.Base64()
	if err != nil {
		return "", errors.Wrapf(errors.ErrEncoding, "signed envelope: %s", err)
	}
	return out, nil
}
