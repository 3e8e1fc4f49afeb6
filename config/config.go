// Package config loads market deployment parameters with viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/viper"

	"github.com/krazyTry/mellow-bits/bits/shared"
	"github.com/krazyTry/mellow-bits/decimal_math"
)

// Config holds amounts as decimal ether strings, "0.04" is a 4% rate.
type Config struct {
	Owner            string `mapstructure:"owner"`
	Delta            string `mapstructure:"delta"`
	CreatorFee       string `mapstructure:"creator_fee"`
	MellowFee        string `mapstructure:"mellow_fee"`
	ReflectionFee    string `mapstructure:"reflection_fee"`
	MellowFeeAddress string `mapstructure:"mellow_fee_address"`
	DebugLogging     bool   `mapstructure:"debug_logging"`
}

const (
	EnvPrefix = "MELLOW_BITS"

	DefaultOwner            = "0x0000000000000000000000000000000000000001"
	DefaultDelta            = "0.0000000006"
	DefaultCreatorFee       = "0.04"
	DefaultMellowFee        = "0.02"
	DefaultReflectionFee    = "0.04"
	DefaultMellowFeeAddress = "0x000000000000000000000000000000000000dEaD"
)

var ErrFeeSum = errors.New("fee percents sum above 100%")

// LoadConfig reads path, applies defaults and MELLOW_BITS_* environment
// overrides, and validates the result. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"owner":              DefaultOwner,
		"delta":              DefaultDelta,
		"creator_fee":        DefaultCreatorFee,
		"mellow_fee":         DefaultMellowFee,
		"reflection_fee":     DefaultReflectionFee,
		"mellow_fee_address": DefaultMellowFeeAddress,
		"debug_logging":      false,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if !common.IsHexAddress(cfg.Owner) {
		return fmt.Errorf("invalid owner address %q", cfg.Owner)
	}
	if !common.IsHexAddress(cfg.MellowFeeAddress) {
		return fmt.Errorf("invalid mellow_fee_address %q", cfg.MellowFeeAddress)
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	sum := new(uint256.Int).Add(params.CreatorFeePercent, params.MellowFeePercent)
	sum.Add(sum, params.ReflectionFeePercent)
	if sum.Gt(shared.Precision) {
		return fmt.Errorf("%w: %s", ErrFeeSum, decimal_math.Percent(sum))
	}
	return nil
}

// Params converts the configured strings into curve parameters.
func (c *Config) Params() (shared.CurveParams, error) {
	var params shared.CurveParams
	for _, f := range []struct {
		name  string
		value string
		dst   **uint256.Int
	}{
		{"delta", c.Delta, &params.Delta},
		{"creator_fee", c.CreatorFee, &params.CreatorFeePercent},
		{"mellow_fee", c.MellowFee, &params.MellowFeePercent},
		{"reflection_fee", c.ReflectionFee, &params.ReflectionFeePercent},
	} {
		v, err := decimal_math.ParseEther(f.value)
		if err != nil {
			return shared.CurveParams{}, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.dst = v
	}
	params.MellowFeeAddress = common.HexToAddress(c.MellowFeeAddress)
	return params, nil
}

func (c *Config) OwnerAddress() common.Address {
	return common.HexToAddress(c.Owner)
}
