package dimensions

import (
	"fmt"
	"strings"

	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/validation"
)

// Default settlement SLAs in days per payment channel.
const (
	DefaultSLADays = 2
)

// DefaultChannelSLA returns the built-in channel table.
func DefaultChannelSLA() map[string]int {
	return map[string]int{
		"UPI":  1,
		"CARD": 2,
		"WIRE": 3,
	}
}

// Config is the immutable configuration of a Calculator.
type Config struct {
	// ChannelSLA maps an uppercase payment channel to its allowed settlement delay in days.
	ChannelSLA map[string]int

	TransactionTimestampColumn string
	SettlementDateColumn       string
	PaymentChannelColumn       string
	CustomerIDColumn           string
	MerchantIDColumn           string

	// Matchers drives the schema validation pass. Nil selects the default table.
	Matchers []validation.Matcher

	// DefaultSLADays applies to unknown or missing channels and when no channel column exists.
	DefaultSLADays int
}

// DefaultConfig returns the standard payment configuration.
func DefaultConfig() Config {
	return Config{
		ChannelSLA:                 DefaultChannelSLA(),
		DefaultSLADays:             DefaultSLADays,
		TransactionTimestampColumn: "transaction_timestamp",
		SettlementDateColumn:       "settlement_date",
		PaymentChannelColumn:       "payment_channel",
		CustomerIDColumn:           "customer_id",
		MerchantIDColumn:           "merchant_id",
	}
}

// Validate checks the configuration for defects.
func (c Config) Validate() error {
	if c.DefaultSLADays < 0 {
		return fmt.Errorf("%w: default SLA days must be non-negative, got %d", common.ErrInvalidConfig, c.DefaultSLADays)
	}
	for channel, days := range c.ChannelSLA {
		if strings.TrimSpace(channel) == "" {
			return fmt.Errorf("%w: empty payment channel in SLA table", common.ErrInvalidConfig)
		}
		if days < 0 {
			return fmt.Errorf("%w: SLA for %s must be non-negative, got %d", common.ErrInvalidConfig, channel, days)
		}
	}

	required := map[string]string{
		"transaction timestamp column": c.TransactionTimestampColumn,
		"settlement date column":       c.SettlementDateColumn,
		"payment channel column":       c.PaymentChannelColumn,
		"customer id column":           c.CustomerIDColumn,
		"merchant id column":           c.MerchantIDColumn,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", common.ErrInvalidConfig, name)
		}
	}
	return nil
}

// clone returns a copy whose SLA table is keyed by uppercase channel and
// cannot be changed by the caller afterwards.
func (c Config) clone() Config {
	out := c
	out.ChannelSLA = make(map[string]int, len(c.ChannelSLA))
	for channel, days := range c.ChannelSLA {
		out.ChannelSLA[strings.ToUpper(strings.TrimSpace(channel))] = days
	}
	if c.Matchers != nil {
		out.Matchers = append([]validation.Matcher(nil), c.Matchers...)
	}
	return out
}

// slaFor returns the allowed delay for a channel value.
func (c Config) slaFor(channel string) int {
	if days, ok := c.ChannelSLA[strings.ToUpper(strings.TrimSpace(channel))]; ok {
		return days
	}
	return c.DefaultSLADays
}
