package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/krazyTry/mellow-bits/bits"
	"github.com/krazyTry/mellow-bits/decimal_math"
)

// defaultScenario is the deployment smoke test: the owner trades its own bits.
const defaultScenario = `{
  "name": "deploy smoke test",
  "steps": [
    {"action": "buy", "amount": 1},
    {"action": "buy", "amount": 3},
    {"action": "sell", "amount": 1},
    {"action": "buy", "amount": 5},
    {"action": "sell", "amount": 3}
  ]
}`

type stepAction string

const (
	actionBuy   stepAction = "buy"
	actionSell  stepAction = "sell"
	actionClaim stepAction = "claim"
)

type step struct {
	Action  stepAction
	Trader  common.Address
	Creator common.Address
	Amount  *uint256.Int
	// Payment overrides the quoted cost of a buy.
	Payment *uint256.Int
	// ExpectError makes the step pass only when it fails.
	ExpectError bool
}

type scenario struct {
	Name  string
	Steps []step
}

// parseScenario reads a scenario document. Trader (holder for claims)
// defaults to owner and creator defaults to trader.
func parseScenario(doc string, owner common.Address) (*scenario, error) {
	if !gjson.Valid(doc) {
		return nil, errors.New("scenario is not valid json")
	}
	root := gjson.Parse(doc)

	sc := &scenario{Name: root.Get("name").String()}
	var err error
	root.Get("steps").ForEach(func(key, value gjson.Result) bool {
		var s step
		if s, err = parseStep(value, owner); err != nil {
			err = fmt.Errorf("step %d: %w", key.Int(), err)
			return false
		}
		sc.Steps = append(sc.Steps, s)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("scenario has no steps")
	}
	return sc, nil
}

func parseStep(v gjson.Result, owner common.Address) (step, error) {
	s := step{
		Action:      stepAction(strings.ToLower(v.Get("action").String())),
		Trader:      owner,
		ExpectError: v.Get("expect_error").Bool(),
	}

	var err error
	t := v.Get("trader")
	if !t.Exists() {
		t = v.Get("holder")
	}
	if t.Exists() {
		if s.Trader, err = parseAddress(t.String()); err != nil {
			return step{}, err
		}
	}
	s.Creator = s.Trader
	if c := v.Get("creator"); c.Exists() {
		if s.Creator, err = parseAddress(c.String()); err != nil {
			return step{}, err
		}
	}
	if p := v.Get("payment"); p.Exists() {
		if s.Payment, err = decimal_math.ParseEther(p.String()); err != nil {
			return step{}, err
		}
	}

	switch s.Action {
	case actionBuy, actionSell:
		amount := v.Get("amount")
		if !amount.Exists() {
			return step{}, fmt.Errorf("%s needs an amount", s.Action)
		}
		if s.Amount, err = uint256.FromDecimal(amount.String()); err != nil {
			return step{}, fmt.Errorf("amount %q: %w", amount.String(), err)
		}
	case actionClaim:
	default:
		return step{}, fmt.Errorf("unknown action %q", s.Action)
	}
	return s, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// runScenario replays sc against market and writes one line per step.
func runScenario(ctx context.Context, market *bits.Bits, sc *scenario, w io.Writer, logger *zap.Logger) error {
	logger.Info("scenario started", zap.String("name", sc.Name), zap.Int("steps", len(sc.Steps)))

	for i, s := range sc.Steps {
		line, err := runStep(ctx, market, s)
		switch {
		case err != nil && s.ExpectError:
			fmt.Fprintf(w, "%2d %-5s failed as expected: %v\n", i, s.Action, err)
		case err != nil:
			return fmt.Errorf("step %d %s: %w", i, s.Action, err)
		case s.ExpectError:
			return fmt.Errorf("step %d %s: expected an error", i, s.Action)
		default:
			fmt.Fprintf(w, "%2d %s\n", i, line)
		}
	}
	return nil
}

func runStep(ctx context.Context, market *bits.Bits, s step) (string, error) {
	switch s.Action {
	case actionBuy:
		payment := s.Payment
		if payment == nil {
			cost, err := market.GetBuyPriceAfterFee(s.Creator, s.Amount)
			if err != nil {
				return "", err
			}
			payment = cost
		}
		r, err := market.BuyBits(ctx, s.Trader, s.Creator, s.Amount, payment)
		if err != nil {
			return "", err
		}
		return formatReceipt(r), nil

	case actionSell:
		r, err := market.SellBits(ctx, s.Trader, s.Creator, s.Amount)
		if err != nil {
			return "", err
		}
		return formatReceipt(r), nil

	case actionClaim:
		paid, err := market.Claim(ctx, s.Trader)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("claim %s paid %s ETH", s.Trader.Hex(), decimal_math.FormatEther(paid)), nil
	}
	return "", fmt.Errorf("unknown action %q", s.Action)
}

func formatReceipt(r *bits.Receipt) string {
	return fmt.Sprintf("%-5s %s bits of %s raw %s fee %s/%s/%s total %s supply %s",
		r.Side, r.Amount.Dec(), r.Creator.Hex(),
		decimal_math.FormatEther(r.Raw),
		decimal_math.FormatEther(r.CreatorFee),
		decimal_math.FormatEther(r.MellowFee),
		decimal_math.FormatEther(r.ReflectionFee),
		decimal_math.FormatEther(r.Total),
		r.SupplyAfter.Dec())
}
