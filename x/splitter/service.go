package splitter

import (
	"context"

	core "github.com/iov-one/splitter"
	"github.com/iov-one/splitter/amount"
	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/distribution"
	"github.com/iov-one/splitter/errors"
	"github.com/iov-one/splitter/scval"
	"github.com/stellar/go/xdr"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"
)

// Contract method names.
const (
	MethodCreate     = "create"
	MethodGetConfig  = "get_config"
	MethodDistribute = "distribute"
	MethodBalance    = "balance"
)

// Service calls the factory, splitter and token contracts.
type Service struct {
	client  *client.Client
	factory string
	token   string
	logger  log.Logger
}

// NewService returns a service using given factory contract. Token is the
// contract expected to be used by splitters and can be empty. Logger can be
// nil.
func NewService(c *client.Client, factory, token string, logger log.Logger) (*Service, error) {
	if err := core.ValidateContractAddress(factory); err != nil {
		return nil, errors.Wrap(err, "factory")
	}
	if token != "" {
		if err := core.ValidateContractAddress(token); err != nil {
			return nil, errors.Wrap(err, "token")
		}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Service{
		client:  c,
		factory: factory,
		token:   token,
		logger:  logger.With("module", "splitter"),
	}, nil
}

// CreateRequest describes a splitter to deploy.
type CreateRequest struct {
	// Token defaults to the service token.
	Token      string
	Recipients []string
	Shares     []uint32
	// Salt defaults to a random value.
	Salt *scval.Salt
}

// Validate returns all problems found in the request. It does not check
// the token if it is left to the default.
func (r CreateRequest) Validate() error {
	var errs error
	if r.Token != "" {
		errs = errors.AppendField(errs, "Token", core.ValidateContractAddress(r.Token))
	}
	return errors.Append(errs, core.ValidateRecipients(r.Recipients, r.Shares))
}

// Created is the outcome of deploying a splitter.
type Created struct {
	Address string
	Salt    scval.Salt
	Result  *client.Result
}

// Create deploys a new splitter signed by source. Deploying a configuration
// with a salt already used fails with errors.ErrDuplicate.
func (s *Service) Create(ctx context.Context, source string, signer client.Signer, req CreateRequest) (*Created, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	token := req.Token
	if token == "" {
		token = s.token
	}
	if token == "" {
		return nil, errors.Field("Token", errors.ErrInput, "token is required")
	}

	var salt scval.Salt
	if req.Salt != nil {
		salt = *req.Salt
	} else {
		var err error
		if salt, err = scval.NewSalt(); err != nil {
			return nil, err
		}
	}

	tokenArg, err := scval.Address(token)
	if err != nil {
		return nil, errors.Field("Token", err, "")
	}
	recipientsArg, err := scval.AddressList(req.Recipients)
	if err != nil {
		return nil, errors.Field("Recipients", err, "")
	}
	inv := client.Invocation{
		Contract: s.factory,
		Method:   MethodCreate,
		Args: []xdr.ScVal{
			salt.ScVal(),
			tokenArg,
			recipientsArg,
			scval.U32List(req.Shares),
		},
	}

	s.logger.Info("create splitter", "salt", salt.String(), "recipients", len(req.Recipients))
	res, err := s.client.Invoke(ctx, source, inv, signer)
	if err != nil {
		if reason, ok := client.ReasonOf(err); ok && reason.Duplicate() {
			return nil, errors.Wrapf(errors.ErrDuplicate, "splitter with salt %s: %s", salt, err)
		}
		return nil, errors.Wrap(err, "create")
	}
	if res.ReturnValue == nil {
		return nil, errors.Wrap(errors.ErrEncoding, "factory did not return the splitter address")
	}
	addr, err := scval.DecodeAddress(*res.ReturnValue)
	if err != nil {
		return nil, errors.Wrap(err, "splitter address")
	}
	return &Created{Address: addr, Salt: salt, Result: res}, nil
}

// Config returns the configuration of a deployed splitter.
func (s *Service) Config(ctx context.Context, splitter string) (core.Config, error) {
	v, err := s.client.Simulate(ctx, client.Invocation{Contract: splitter, Method: MethodGetConfig})
	if err != nil {
		return core.Config{}, errors.Wrap(err, "get config")
	}
	return scval.DecodeSplitterConfig(v)
}

// Balance returns the token balance of an account or a contract.
func (s *Service) Balance(ctx context.Context, token, holder string) (amount.Amount, error) {
	arg, err := scval.Address(holder)
	if err != nil {
		return amount.Zero, errors.Wrap(err, "holder")
	}
	v, err := s.client.Simulate(ctx, client.Invocation{
		Contract: token,
		Method:   MethodBalance,
		Args:     []xdr.ScVal{arg},
	})
	if err != nil {
		return amount.Zero, errors.Wrap(err, "balance")
	}
	return scval.DecodeBalance(v)
}

// Distribute pays out the whole balance of a splitter to its recipients.
func (s *Service) Distribute(ctx context.Context, source string, signer client.Signer, splitter string) (*client.Result, error) {
	s.logger.Info("distribute", "splitter", splitter)
	res, err := s.client.Invoke(ctx, source, client.Invocation{Contract: splitter, Method: MethodDistribute}, signer)
	if err != nil {
		return nil, errors.Wrap(err, "distribute")
	}
	return res, nil
}

// View is the current state of a splitter.
type View struct {
	Address      string                    `json:"address"`
	Config       core.Config               `json:"config"`
	Balance      amount.Amount             `json:"balance"`
	Distribution distribution.Distribution `json:"distribution"`
}

// View returns the configuration, the balance and what each recipient would
// receive if the splitter was distributed now.
//
// When the service has a token configured, the configuration and the
// balance are fetched concurrently.
func (s *Service) View(ctx context.Context, splitter string) (*View, error) {
	if err := core.ValidateContractAddress(splitter); err != nil {
		return nil, err
	}

	var (
		conf    core.Config
		balance amount.Amount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		conf, err = s.Config(gctx, splitter)
		return err
	})
	if s.token != "" {
		g.Go(func() error {
			var err error
			balance, err = s.Balance(gctx, s.token, splitter)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Splitter pays out a different token than the configured one.
	if conf.Token != s.token {
		var err error
		if balance, err = s.Balance(ctx, conf.Token, splitter); err != nil {
			return nil, err
		}
	}
	d, err := distribution.ForConfig(conf, balance)
	if err != nil {
		return nil, err
	}
	return &View{
		Address:      splitter,
		Config:       conf,
		Balance:      balance,
		Distribution: d,
	}, nil
}
