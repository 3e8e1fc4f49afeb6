// Package bits is the bonding curve share market: every creator anchors a
// quadratic curve, traders buy and sell bits of it, and each trade pays a
// creator fee, a protocol fee and a reflection fee shared by the holders.
package bits

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/krazyTry/mellow-bits/bits/distributor"
	"github.com/krazyTry/mellow-bits/bits/ledger"
	"github.com/krazyTry/mellow-bits/bits/reader"
	"github.com/krazyTry/mellow-bits/bits/shared"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrUnauthorized        = errors.New("caller is not authorized")
	ErrZeroAddress         = errors.New("zero address")
)

// FeeDistributor receives creator and reflection fees and pays them out on claim.
type FeeDistributor interface {
	ledger.BalanceHook
	Accrue(creator common.Address, amount *uint256.Int) error
	CreditCreatorFee(creator common.Address, amount *uint256.Int) error
	Claim(holder common.Address) (*uint256.Int, error)
	Claimable(holder common.Address) (*uint256.Int, error)

	Snapshot() int
	RevertToSnapshot(id int)
	Commit()
}

// FeeReader answers price queries without mutating state.
type FeeReader interface {
	PreviewBuy(creator common.Address, amount *uint256.Int) (*shared.Quote, error)
	PreviewSell(creator common.Address, amount *uint256.Int) (*shared.Quote, error)
}

type Bits struct {
	owner  common.Address
	logger *zap.Logger

	// serializes trades, claims and setters
	mu sync.Mutex

	// guards params and the routed collaborators; writers also hold mu
	paramsMu    sync.RWMutex
	params      shared.CurveParams
	distributor FeeDistributor
	reader      FeeReader

	ledger *ledger.Ledger
	sink   PaymentSink
	auth   Authorizer

	// held exclusively while a trade publishes its staged writes, so
	// readers never see the ledger and distributor half committed
	commitMu sync.RWMutex
	// value held by the market: curve reserves plus unclaimed fees
	reserve  *uint256.Int
	sequence uint64
}

type Option func(*Bits)

func WithLogger(logger *zap.Logger) Option {
	return func(b *Bits) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSink sets where payouts are sent. The default is a fresh Vault.
func WithSink(sink PaymentSink) Option {
	return func(b *Bits) { b.sink = sink }
}

func WithAuthorizer(auth Authorizer) Option {
	return func(b *Bits) { b.auth = auth }
}

// WithParams sets the initial curve parameters. Without it every field starts at zero.
func WithParams(params shared.CurveParams) Option {
	return func(b *Bits) { b.params = params.Clone() }
}

// New creates a market owned by owner.
//
// Example:
//
// market := New(owner, WithParams(params), WithSink(vault))
//
// receipt, _ := market.BuyBits(ctx, buyer, creator, uint256.NewInt(1), payment)
func New(owner common.Address, opts ...Option) *Bits {
	b := &Bits{
		owner:   owner,
		logger:  zap.NewNop(),
		params:  shared.CurveParams{}.Clone(),
		ledger:  ledger.New(),
		reserve: new(uint256.Int),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.sink == nil {
		b.sink = NewVault()
	}
	if b.auth == nil {
		b.auth = OwnerOnly(owner)
	}

	dist := distributor.New(b.ledger, b.logger.Named("distributor"))
	b.distributor = dist
	b.ledger.SetHook(dist)
	b.reader = reader.New(b, b.logger.Named("reader"))
	return b
}

func (b *Bits) Owner() common.Address {
	return b.owner
}

// Params returns a copy of the current curve parameters.
func (b *Bits) Params() shared.CurveParams {
	b.paramsMu.RLock()
	defer b.paramsMu.RUnlock()
	return b.params.Clone()
}

// SupplyOf returns the committed supply of creator. A trade in progress is
// not visible until it commits.
func (b *Bits) SupplyOf(creator common.Address) *uint256.Int {
	b.commitMu.RLock()
	defer b.commitMu.RUnlock()
	return b.ledger.SupplyOf(creator)
}

func (b *Bits) BalanceOf(holder, creator common.Address) *uint256.Int {
	b.commitMu.RLock()
	defer b.commitMu.RUnlock()
	return b.ledger.BalanceOf(holder, creator)
}

// Holders lists every address that ever held bits of creator.
func (b *Bits) Holders(creator common.Address) []common.Address {
	b.commitMu.RLock()
	defer b.commitMu.RUnlock()
	return b.ledger.Holders(creator)
}

// Reserve returns the value currently held by the market.
func (b *Bits) Reserve() *uint256.Int {
	b.commitMu.RLock()
	defer b.commitMu.RUnlock()
	return new(uint256.Int).Set(b.reserve)
}

func (b *Bits) Distributor() FeeDistributor {
	b.paramsMu.RLock()
	defer b.paramsMu.RUnlock()
	return b.distributor
}

func (b *Bits) feeReader() FeeReader {
	b.paramsMu.RLock()
	defer b.paramsMu.RUnlock()
	return b.reader
}
