package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProfile(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "kyc.csv", "customer_id,email\nC1,a@example.com\nC2,\nC1,a@example.com\n")

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runProfile([]string{path}, false, &out))
		assert.Contains(t, out.String(), "Profile: kyc.csv")
		assert.Contains(t, out.String(), "Duplicate rows: 1")
		assert.Contains(t, out.String(), "email")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runProfile([]string{path}, true, &out))

		var profiles []namedProfile
		require.NoError(t, json.Unmarshal(out.Bytes(), &profiles))
		require.Len(t, profiles, 1)
		assert.Equal(t, "kyc.csv", profiles[0].Name)
		assert.Equal(t, 3, profiles[0].Summary.Rows)
		require.Len(t, profiles[0].Summary.Columns, 2)
		assert.Equal(t, 1, profiles[0].Summary.Columns[1].NullCount)
	})

	t.Run("missing file", func(t *testing.T) {
		var out bytes.Buffer
		err := runProfile([]string{filepath.Join(dir, "absent.csv")}, false, &out)
		require.Error(t, err)
		assert.Empty(t, out.String())
	})
}
