package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/mellow-bits/bits"
	"github.com/krazyTry/mellow-bits/bits/distributor"
	"github.com/krazyTry/mellow-bits/bits/reader"
	"github.com/krazyTry/mellow-bits/config"
	"github.com/krazyTry/mellow-bits/decimal_math"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a market and print its effective parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		market, _, err := deploy(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		printParams(cmd.OutOrStdout(), market)
		return nil
	},
}

// deploy creates a market and configures it through the owner gated setters,
// in the order a fresh deployment does.
func deploy(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*bits.Bits, *bits.Vault, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, nil, err
	}
	owner := cfg.OwnerAddress()
	vault := bits.NewVault()
	market := bits.New(owner, bits.WithLogger(logger), bits.WithSink(vault))

	steps := []func() error{
		func() error { return market.SetDeltaAmount(ctx, owner, params.Delta) },
		func() error { return market.SetCreatorFeePercent(ctx, owner, params.CreatorFeePercent) },
		func() error { return market.SetMellowFeePercent(ctx, owner, params.MellowFeePercent) },
		func() error { return market.SetReflectionFeePercent(ctx, owner, params.ReflectionFeePercent) },
		func() error {
			dist := distributor.New(market.Ledger(), logger.Named("distributor"))
			return market.SetFeeDistributor(ctx, owner, dist)
		},
		func() error { return market.SetMellowFeeAddress(ctx, owner, params.MellowFeeAddress) },
		func() error { return market.SetFeeReader(ctx, owner, reader.New(market, logger.Named("reader"))) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, nil, fmt.Errorf("deploy: %w", err)
		}
	}

	logger.Info("market deployed", zap.String("owner", owner.Hex()))
	return market, vault, nil
}

func printParams(w io.Writer, market *bits.Bits) {
	p := market.Params()
	fmt.Fprintf(w, "owner:              %s\n", market.Owner().Hex())
	fmt.Fprintf(w, "delta:              %s ETH\n", decimal_math.FormatEther(p.Delta))
	fmt.Fprintf(w, "creator fee:        %s\n", decimal_math.Percent(p.CreatorFeePercent))
	fmt.Fprintf(w, "mellow fee:         %s\n", decimal_math.Percent(p.MellowFeePercent))
	fmt.Fprintf(w, "reflection fee:     %s\n", decimal_math.Percent(p.ReflectionFeePercent))
	fmt.Fprintf(w, "mellow fee address: %s\n", p.MellowFeeAddress.Hex())
}
