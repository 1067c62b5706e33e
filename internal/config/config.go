package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/dimensions"
	"github.com/Veraticus/dqscore/internal/scoring"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// DefaultDatabasePath is where assessment history is kept unless configured.
const DefaultDatabasePath = "~/.local/share/dqs/history.db"

// Config is the fully resolved application configuration.
type Config struct {
	LogLevel     string
	LogFormat    string
	DatabasePath string
	Dimensions   dimensions.Config
	Weights      scoring.Weights
	LowThreshold float64
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	dims := dimensions.DefaultConfig()
	weights := scoring.DefaultWeights()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("scoring.weights.completeness", weights.Completeness)
	v.SetDefault("scoring.weights.validity", weights.Validity)
	v.SetDefault("scoring.weights.uniqueness", weights.Uniqueness)
	v.SetDefault("scoring.weights.integrity", weights.Integrity)
	v.SetDefault("scoring.weights.consistency", weights.Consistency)
	v.SetDefault("scoring.weights.timeliness", weights.Timeliness)
	v.SetDefault("scoring.weights.accuracy", weights.Accuracy)

	slaDays := make(map[string]any, len(dims.ChannelSLA))
	for channel, days := range dims.ChannelSLA {
		slaDays[channel] = days
	}
	v.SetDefault("timeliness.sla_days", slaDays)
	v.SetDefault("timeliness.default_sla_days", dims.DefaultSLADays)

	v.SetDefault("columns.transaction_timestamp", dims.TransactionTimestampColumn)
	v.SetDefault("columns.settlement_date", dims.SettlementDateColumn)
	v.SetDefault("columns.payment_channel", dims.PaymentChannelColumn)
	v.SetDefault("columns.customer_id", dims.CustomerIDColumn)
	v.SetDefault("columns.merchant_id", dims.MerchantIDColumn)

	v.SetDefault("analysis.low_threshold", scoring.DefaultLowThreshold)
}

// Load resolves and validates the configuration held by v. Keys without a
// value fall back to the defaults registered by SetDefaults.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		LogLevel:     strings.ToLower(strings.TrimSpace(v.GetString("logging.level"))),
		LogFormat:    strings.ToLower(v.GetString("logging.format")),
		DatabasePath: ExpandPath(v.GetString("database.path")),
	}

	if _, err := common.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: logging.level: %w", common.ErrInvalidConfig, err)
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("%w: logging.format must be console or json, got %q", common.ErrInvalidConfig, cfg.LogFormat)
	}

	weights, err := loadWeights(v)
	if err != nil {
		return nil, err
	}
	cfg.Weights = weights
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}

	dims, err := loadDimensions(v)
	if err != nil {
		return nil, err
	}
	cfg.Dimensions = dims

	threshold, err := cast.ToFloat64E(v.Get("analysis.low_threshold"))
	if err != nil {
		return nil, fmt.Errorf("%w: analysis.low_threshold: %w", common.ErrInvalidConfig, err)
	}
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("%w: analysis.low_threshold must be within [0, 100], got %v", common.ErrInvalidConfig, threshold)
	}
	cfg.LowThreshold = threshold

	return cfg, nil
}

// loadWeights reads each weight key on its own so that a partial
// scoring.weights block keeps the defaults of the keys it omits.
func loadWeights(v *viper.Viper) (scoring.Weights, error) {
	var w scoring.Weights
	fields := []struct {
		dst *float64
		key string
	}{
		{&w.Completeness, "completeness"},
		{&w.Validity, "validity"},
		{&w.Uniqueness, "uniqueness"},
		{&w.Integrity, "integrity"},
		{&w.Consistency, "consistency"},
		{&w.Timeliness, "timeliness"},
		{&w.Accuracy, "accuracy"},
	}
	for _, f := range fields {
		value, err := cast.ToFloat64E(v.Get("scoring.weights." + f.key))
		if err != nil {
			return w, fmt.Errorf("%w: scoring.weights.%s: %w", common.ErrInvalidConfig, f.key, err)
		}
		*f.dst = value
	}
	return w, nil
}

func loadDimensions(v *viper.Viper) (dimensions.Config, error) {
	dims := dimensions.Config{
		ChannelSLA:                 make(map[string]int),
		TransactionTimestampColumn: v.GetString("columns.transaction_timestamp"),
		SettlementDateColumn:       v.GetString("columns.settlement_date"),
		PaymentChannelColumn:       v.GetString("columns.payment_channel"),
		CustomerIDColumn:           v.GetString("columns.customer_id"),
		MerchantIDColumn:           v.GetString("columns.merchant_id"),
	}

	defaultDays, err := cast.ToIntE(v.Get("timeliness.default_sla_days"))
	if err != nil {
		return dims, fmt.Errorf("%w: timeliness.default_sla_days: %w", common.ErrInvalidConfig, err)
	}
	dims.DefaultSLADays = defaultDays

	// a configured table only overrides the channels it names
	for channel, days := range dimensions.DefaultChannelSLA() {
		dims.ChannelSLA[strings.ToLower(channel)] = days
	}
	// viper lowercases keys; the calculator matches channels case-insensitively
	for channel, raw := range v.GetStringMap("timeliness.sla_days") {
		days, err := cast.ToIntE(raw)
		if err != nil {
			return dims, fmt.Errorf("%w: timeliness.sla_days.%s: %w", common.ErrInvalidConfig, channel, err)
		}
		dims.ChannelSLA[channel] = days
	}

	if err := dims.Validate(); err != nil {
		return dims, err
	}
	return dims, nil
}
