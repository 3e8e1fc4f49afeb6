package main

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/krazyTry/mellow-bits/bits/reader"
	"github.com/krazyTry/mellow-bits/bits/shared"
	"github.com/krazyTry/mellow-bits/decimal_math"
)

var quoteSupply string

var quoteCmd = &cobra.Command{
	Use:   "quote buy|sell AMOUNT...",
	Short: "Price one or more batch sizes at a given supply",
	Example: `  bitsctl quote buy 1 5 10 --supply 100
  bitsctl quote sell 3 --supply 4`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var side shared.Side
		switch strings.ToLower(args[0]) {
		case "buy":
			side = shared.SideBuy
		case "sell":
			side = shared.SideSell
		default:
			return fmt.Errorf("unknown side %q, want buy or sell", args[0])
		}

		supply, err := uint256.FromDecimal(quoteSupply)
		if err != nil {
			return fmt.Errorf("supply %q: %w", quoteSupply, err)
		}
		params, err := cfg.Params()
		if err != nil {
			return err
		}

		requests := make([]reader.Request, 0, len(args)-1)
		for _, arg := range args[1:] {
			amount, err := uint256.FromDecimal(arg)
			if err != nil {
				return fmt.Errorf("amount %q: %w", arg, err)
			}
			requests = append(requests, reader.Request{Side: side, Amount: amount})
		}

		r := reader.New(fixedSupply{supply: supply, params: params}, logger.Named("reader"))
		results, err := r.PreviewMany(cmd.Context(), requests)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, res := range results {
			if res.Err != nil {
				fmt.Fprintf(out, "%s %s: %v\n", side, res.Amount.Dec(), res.Err)
				continue
			}
			q := res.Quote
			fmt.Fprintf(out, "%s %s at supply %s: raw %s fees %s total %s ETH\n",
				side, q.Amount.Dec(), q.Supply.Dec(),
				decimal_math.FormatEther(q.Raw),
				decimal_math.FormatEther(q.TotalFee),
				decimal_math.FormatEther(q.Total))
		}
		return nil
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteSupply, "supply", "0", "current supply of the creator")
}

// fixedSupply prices every creator at the same supply.
type fixedSupply struct {
	supply *uint256.Int
	params shared.CurveParams
}

func (f fixedSupply) SupplyOf(common.Address) *uint256.Int {
	return new(uint256.Int).Set(f.supply)
}

func (f fixedSupply) Params() shared.CurveParams {
	return f.params.Clone()
}
