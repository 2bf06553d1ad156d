package storage

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"parking-dashboard/models"
)

// CSVWriter exports cleaned meter tables to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

var exportHeader = []string{
	models.ColMeterID, models.ColStreet,
	models.ColX, models.ColY, models.ColLongitude, models.ColLatitude,
	models.ColZone, models.ColBaseRate, models.ColTowAway, models.ColInstalledOn,
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends every record of the table. TOW_AWAY keeps the raw marker so
// the exported file coerces the same way on the next load.
func (c *CSVWriter) Write(table *models.MeterTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range table.Records {
		r := &table.Records[i]

		installed := r.InstalledOnRaw
		if r.InstalledOn.Valid {
			installed = r.InstalledOn.Time.Format("2006-01-02")
		}

		row := []string{
			r.MeterID,
			r.Street,
			formatFloat(r.X),
			formatFloat(r.Y),
			formatFloat(r.Longitude),
			formatFloat(r.Latitude),
			r.Zone.String,
			formatFloat(r.BaseRate),
			r.TowAwayRaw.String,
			installed,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row %d: %w", r.Row, err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
