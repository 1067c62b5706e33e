// Package loader reads CSV files into datasets, typing each column the way a
// dataframe reader would.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/model"
	"github.com/spf13/cast"
)

// naTokens are cell texts read as missing values.
var naTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsNAToken reports whether text denotes a missing value.
func IsNAToken(text string) bool {
	return naTokens[strings.TrimSpace(text)]
}

// LoadFile reads the CSV file at path.
func LoadFile(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	ds, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ds, nil
}

// Load reads a CSV document with a header row. Rows shorter than the header
// are padded with missing values; longer rows are rejected. A column whose
// non-missing cells all parse as finite numbers becomes numeric; any other
// column keeps its text.
func Load(r io.Reader) (*model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", common.ErrMalformedCSVFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedCSVFile, err)
	}
	names := columnNames(header)

	raw := make([][]string, len(names))
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrMalformedCSVFile, err)
		}
		if len(record) > len(names) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				common.ErrMalformedCSVFile, line, len(record), len(names))
		}
		for i := range names {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			raw[i] = append(raw[i], cell)
		}
	}

	columns := make([]model.Column, len(names))
	for i, name := range names {
		columns[i] = model.Column{Name: name, Values: typeColumn(raw[i])}
	}
	return model.NewDataset(columns...)
}

// columnNames strips a leading byte order mark, names blank headers
// "Unnamed: <i>" and suffixes repeated names with ".1", ".2", and so on.
func columnNames(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		used[candidate] = true
		names[i] = candidate
	}
	return names
}

func typeColumn(cells []string) []model.Value {
	values := make([]model.Value, len(cells))
	numbers := make([]float64, len(cells))
	numeric := true

	for i, cell := range cells {
		if IsNAToken(cell) {
			values[i] = model.Missing()
			continue
		}
		if !numeric {
			continue
		}
		n, err := cast.ToFloat64E(strings.TrimSpace(cell))
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			numeric = false
			continue
		}
		numbers[i] = n
	}

	for i, cell := range cells {
		if IsNAToken(cell) {
			continue
		}
		if numeric {
			values[i] = model.Number(numbers[i])
		} else {
			values[i] = model.String(cell)
		}
	}
	return values
}
