package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/dqscore/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

const (
	transactionsCSV = `transaction_id,customer_id,merchant_id,amount,transaction_timestamp,settlement_date,payment_channel
T1,C1,M1,100.5,2024-01-01 10:00:00,2024-01-02 10:00:00,UPI
T2,C2,M1,20,2024-01-01 10:00:00,2024-01-05 10:00:00,CARD
T3,C9,M2,35,2024-01-02 10:00:00,2024-01-03 10:00:00,WIRE
`
	kycCSV = `customer_id,email
C1,a@example.com
C2,b@example.com
`
	merchantsCSV = `merchant_id,name
M1,Corner Shop
M2,Book Store
`
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// testConfig returns the default configuration with the history database
// placed in a temporary directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)
	cfg.DatabasePath = filepath.Join(t.TempDir(), "history.db")
	return cfg
}

func sampleOptions(t *testing.T) assessOptions {
	t.Helper()
	dir := t.TempDir()
	return assessOptions{
		transactions: writeCSV(t, dir, "transactions.csv", transactionsCSV),
		kyc:          writeCSV(t, dir, "kyc.csv", kycCSV),
		merchants:    writeCSV(t, dir, "merchants.csv", merchantsCSV),
	}
}
