package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/mellow-bits/decimal_math"
)

var validConfigJSON = `{
    "owner": "0x00000000000000000000000000000000000000a1",
    "delta": "0.001",
    "creator_fee": "0.2",
    "mellow_fee": "0.2",
    "reflection_fee": "0.2",
    "mellow_fee_address": "0x000000000000000000000000000000000000dead",
    "debug_logging": true
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfigJSON))
	require.NoError(t, err)
	assert.True(t, cfg.DebugLogging)
	assert.Equal(t, common.HexToAddress("0xa1"), cfg.OwnerAddress())

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1_000_000_000_000_000), params.Delta)
	assert.Equal(t, "20%", decimal_math.Percent(params.CreatorFeePercent))
	assert.Equal(t, "20%", decimal_math.Percent(params.MellowFeePercent))
	assert.Equal(t, "20%", decimal_math.Percent(params.ReflectionFeePercent))
	assert.Equal(t, common.HexToAddress("0xdead"), params.MellowFeeAddress)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(600_000_000), params.Delta)
	assert.Equal(t, "4%", decimal_math.Percent(params.CreatorFeePercent))
	assert.Equal(t, "2%", decimal_math.Percent(params.MellowFeePercent))
	assert.Equal(t, "4%", decimal_math.Percent(params.ReflectionFeePercent))
	assert.False(t, cfg.DebugLogging)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MELLOW_BITS_DELTA", "0.0000000005")
	t.Setenv("MELLOW_BITS_MELLOW_FEE", "0.03")

	cfg, err := LoadConfig(writeConfig(t, validConfigJSON))
	require.NoError(t, err)

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(500_000_000), params.Delta)
	assert.Equal(t, "3%", decimal_math.Percent(params.MellowFeePercent))
	assert.Equal(t, "20%", decimal_math.Percent(params.CreatorFeePercent))
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIs  error
	}{
		{
			name:    "fee sum above 100%",
			content: `{"creator_fee": "0.5", "mellow_fee": "0.3", "reflection_fee": "0.25"}`,
			wantIs:  ErrFeeSum,
		},
		{
			name:    "negative delta",
			content: `{"delta": "-1"}`,
			wantIs:  decimal_math.ErrNegative,
		},
		{
			name:    "delta below one wei",
			content: `{"delta": "0.0000000000000000001"}`,
			wantIs:  decimal_math.ErrPrecision,
		},
		{
			name:    "bad treasury",
			content: `{"mellow_fee_address": "dead"}`,
		},
		{
			name:    "bad owner",
			content: `{"owner": "0x12"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFeeSumAtLimit(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"creator_fee": "0.5", "mellow_fee": "0.25", "reflection_fee": "0.25"}`))
	require.NoError(t, err)
	assert.Equal(t, "0.5", cfg.CreatorFee)
}
