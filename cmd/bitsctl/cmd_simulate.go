package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/krazyTry/mellow-bits/bits"
	"github.com/krazyTry/mellow-bits/decimal_math"
)

var scenarioPath string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Deploy a market and replay a trade scenario against it",
	Long: `Replays a JSON scenario:

  {"name": "...", "steps": [
    {"action": "buy", "trader": "0x..", "creator": "0x..", "amount": 3, "payment": "0.1"},
    {"action": "sell", "amount": 1},
    {"action": "claim", "holder": "0x.."}
  ]}

Without --scenario the deployment smoke test runs: the owner buys 1, buys 3,
sells 1, buys 5 and sells 3 of its own bits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := defaultScenario
		if scenarioPath != "" {
			raw, err := os.ReadFile(scenarioPath)
			if err != nil {
				return err
			}
			doc = string(raw)
		}

		sc, err := parseScenario(doc, cfg.OwnerAddress())
		if err != nil {
			return err
		}
		market, vault, err := deploy(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := runScenario(cmd.Context(), market, sc, out, logger); err != nil {
			return err
		}
		return printSummary(out, market, vault, sc)
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario json file")
}

func printSummary(w io.Writer, market *bits.Bits, vault *bits.Vault, sc *scenario) error {
	fmt.Fprintf(w, "reserve: %s ETH\n", decimal_math.FormatEther(market.Reserve()))
	fmt.Fprintf(w, "treasury: %s ETH\n", decimal_math.FormatEther(vault.BalanceOf(market.Params().MellowFeeAddress)))

	var creators, accounts []common.Address
	seenCreator := make(map[common.Address]bool)
	seenAccount := make(map[common.Address]bool)
	for _, s := range sc.Steps {
		if !seenCreator[s.Creator] {
			seenCreator[s.Creator] = true
			creators = append(creators, s.Creator)
		}
		for _, addr := range []common.Address{s.Trader, s.Creator} {
			if !seenAccount[addr] {
				seenAccount[addr] = true
				accounts = append(accounts, addr)
			}
		}
	}

	for _, c := range creators {
		fmt.Fprintf(w, "creator %s supply %s\n", c.Hex(), market.SupplyOf(c).Dec())
	}
	for _, addr := range accounts {
		owed, err := market.Claimable(addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "account %s paid %s ETH claimable %s ETH\n", addr.Hex(),
			decimal_math.FormatEther(vault.BalanceOf(addr)),
			decimal_math.FormatEther(owed))
	}
	return nil
}
