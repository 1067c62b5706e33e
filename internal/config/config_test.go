package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/dimensions"
	"github.com/Veraticus/dqscore/internal/scoring"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viperFromYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(doc)))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, scoring.DefaultWeights(), cfg.Weights)
	assert.InDelta(t, scoring.DefaultLowThreshold, cfg.LowThreshold, 0)

	defaults := dimensions.DefaultConfig()
	assert.Equal(t, defaults.DefaultSLADays, cfg.Dimensions.DefaultSLADays)
	assert.Equal(t, defaults.CustomerIDColumn, cfg.Dimensions.CustomerIDColumn)
	assert.Equal(t, map[string]int{"upi": 1, "card": 2, "wire": 3}, cfg.Dimensions.ChannelSLA)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local/share/dqs/history.db"), cfg.DatabasePath)

	_, err = dimensions.New(cfg.Dimensions)
	require.NoError(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	v := viperFromYAML(t, `
logging:
  level: debug
  format: JSON
database:
  path: /tmp/dqs-test.db
scoring:
  weights:
    completeness: 0.30
    validity: 0.15
timeliness:
  default_sla_days: 4
  sla_days:
    NEFT: 2
columns:
  customer_id: cust_id
analysis:
  low_threshold: 90
`)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/tmp/dqs-test.db", cfg.DatabasePath)
	assert.InDelta(t, 0.30, cfg.Weights.Completeness, 1e-9)
	assert.InDelta(t, 0.15, cfg.Weights.Validity, 1e-9)
	// omitted weights keep their defaults
	assert.InDelta(t, 0.15, cfg.Weights.Uniqueness, 1e-9)
	assert.Equal(t, 4, cfg.Dimensions.DefaultSLADays)
	assert.Equal(t, 2, cfg.Dimensions.ChannelSLA["neft"])
	assert.Equal(t, 3, cfg.Dimensions.ChannelSLA["wire"])
	assert.Equal(t, "cust_id", cfg.Dimensions.CustomerIDColumn)
	assert.Equal(t, "merchant_id", cfg.Dimensions.MerchantIDColumn)
	assert.InDelta(t, 90.0, cfg.LowThreshold, 1e-9)
}

func TestLoad_PartialSLATable(t *testing.T) {
	v := viperFromYAML(t, `
timeliness:
  sla_days:
    upi: 0
`)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"upi": 0, "card": 2, "wire": 3}, cfg.Dimensions.ChannelSLA)
}

func TestLoad_LogLevelCase(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "DEBUG")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		doc     string
	}{
		{
			name:    "unknown log level",
			doc:     "logging:\n  level: loud\n",
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "unknown log format",
			doc:     "logging:\n  format: xml\n",
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "weights do not sum to one",
			doc:     "scoring:\n  weights:\n    completeness: 0.9\n",
			wantErr: common.ErrInvalidWeights,
		},
		{
			name:    "weight is not a number",
			doc:     "scoring:\n  weights:\n    validity: high\n",
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "negative SLA",
			doc:     "timeliness:\n  sla_days:\n    UPI: -1\n",
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "SLA is not a number",
			doc:     "timeliness:\n  default_sla_days: soon\n",
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "blank column name",
			doc:     "columns:\n  merchant_id: \" \"\n",
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "threshold out of range",
			doc:     "analysis:\n  low_threshold: 120\n",
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(viperFromYAML(t, tt.doc))
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, common.IsConfigError(err))
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("DQS_TEST_DIR", "/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/dqs/history.db", want: filepath.Join(home, "dqs/history.db")},
		{name: "env var", in: "$DQS_TEST_DIR/history.db", want: "/data/history.db"},
		{name: "absolute", in: "/var/lib/dqs.db", want: "/var/lib/dqs.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
