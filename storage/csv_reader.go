package storage

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"parking-dashboard/models"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// LoadMeters reads the parking-meter CSV at path into a fresh MeterTable.
// A missing file, a missing required column or a non-numeric value in a
// numeric column is fatal.
func LoadMeters(path string) (*models.MeterTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	table, err := ReadMeters(f)
	if err != nil {
		return nil, fmt.Errorf("csv: load %q: %w", path, err)
	}
	return table, nil
}

// ReadMeters parses parking-meter CSV data from r.
func ReadMeters(r io.Reader) (*models.MeterTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		header[i] = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range models.RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	table := &models.MeterTable{Columns: header}

	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}

		rec, err := parseRecord(row, fields, index)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

func parseRecord(row int, fields []string, index map[string]int) (models.MeterRecord, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	rec := models.MeterRecord{
		Row:            row,
		MeterID:        cell(models.ColMeterID),
		Street:         cell(models.ColStreet),
		Zone:           nullString(cell(models.ColZone)),
		TowAwayRaw:     nullString(cell(models.ColTowAway)),
		InstalledOnRaw: cell(models.ColInstalledOn),
	}

	numeric := []struct {
		col string
		dst *sql.NullFloat64
	}{
		{models.ColX, &rec.X},
		{models.ColY, &rec.Y},
		{models.ColLongitude, &rec.Longitude},
		{models.ColLatitude, &rec.Latitude},
		{models.ColBaseRate, &rec.BaseRate},
	}
	for _, n := range numeric {
		v, err := parseFloat(cell(n.col))
		if err != nil {
			return rec, fmt.Errorf("row %d column %s: %w", row, n.col, err)
		}
		*n.dst = v
	}

	return rec, nil
}

// parseFloat treats an empty cell as missing. Currency markers are stripped
// so "$0.25" reads as 0.25.
func parseFloat(s string) (sql.NullFloat64, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.EqualFold(s, "nan") {
		return sql.NullFloat64{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
