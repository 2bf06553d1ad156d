package storage

import "parking-dashboard/models"

// MeterWriter is the interface any export backend must satisfy.
type MeterWriter interface {
	Write(table *models.MeterTable) error
	Close() error
}

var (
	_ MeterWriter = (*CSVWriter)(nil)
	_ MeterWriter = (*PostgresWriter)(nil)
)

// Export writes table to w and closes it. The write error wins over the
// close error.
func Export(w MeterWriter, table *models.MeterTable) error {
	if err := w.Write(table); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
