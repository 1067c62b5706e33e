package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/dqscore/internal/common"
)

// DatasetKind selects which optional checks apply to a dataset.
type DatasetKind string

const (
	// KindTransaction is a payment transaction dataset. Only this kind is checked for integrity.
	KindTransaction DatasetKind = "transaction"
	// KindKYC is a customer KYC dataset.
	KindKYC DatasetKind = "kyc"
	// KindMerchant is a merchant master dataset.
	KindMerchant DatasetKind = "merchant"
)

// DatasetKinds lists every valid kind in display order.
func DatasetKinds() []DatasetKind {
	return []DatasetKind{KindTransaction, KindKYC, KindMerchant}
}

// Validate returns ErrInvalidKind for anything outside the fixed enumeration.
func (k DatasetKind) Validate() error {
	switch k {
	case KindTransaction, KindKYC, KindMerchant:
		return nil
	default:
		return fmt.Errorf("%w: %q", common.ErrInvalidKind, string(k))
	}
}

// DisplayName returns the human label used in reports.
func (k DatasetKind) DisplayName() string {
	switch k {
	case KindTransaction:
		return "Transaction Dataset"
	case KindKYC:
		return "Customer KYC Dataset"
	case KindMerchant:
		return "Merchant Master Dataset"
	default:
		return string(k)
	}
}

// ParseDatasetKind parses a kind name case-insensitively.
func ParseDatasetKind(s string) (DatasetKind, error) {
	k := DatasetKind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}
