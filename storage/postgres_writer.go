package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"parking-dashboard/models"
	"parking-dashboard/utils"
)

// PostgresWriter archives cleaned meter tables in PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS parking_meters (
			id           SERIAL PRIMARY KEY,
			source_row   INTEGER       NOT NULL,
			meter_id     TEXT          NOT NULL DEFAULT '',
			street       TEXT          NOT NULL DEFAULT '',
			x            DOUBLE PRECISION,
			y            DOUBLE PRECISION,
			longitude    DOUBLE PRECISION NOT NULL,
			latitude     DOUBLE PRECISION NOT NULL,
			g_zone       TEXT,
			base_rate    NUMERIC(10,2),
			tow_away     BOOLEAN       NOT NULL DEFAULT FALSE,
			installed_on DATE,
			archived_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_parking_meters_zone      ON parking_meters(g_zone);
		CREATE INDEX IF NOT EXISTS idx_parking_meters_tow_away  ON parking_meters(tow_away);
		CREATE INDEX IF NOT EXISTS idx_parking_meters_installed ON parking_meters(installed_on);
	`)
	return err
}

// Clear deletes all archived meters.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM parking_meters")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the archive with the records of table. Records without
// coordinates are rejected by the schema, so callers archive cleaned tables.
func (pw *PostgresWriter) Write(table *models.MeterTable) error {
	if table.Len() == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(table.Records); i += batchSize {
		end := i + batchSize
		if end > len(table.Records) {
			end = len(table.Records)
		}
		if err := pw.insertBatch(table.Records[i:end]); err != nil {
			return fmt.Errorf("postgres: insert batch at row %d: %w", table.Records[i].Row, err)
		}
	}
	return nil
}

const meterColumns = 11

func (pw *PostgresWriter) insertBatch(batch []models.MeterRecord) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*meterColumns)

	for idx := range batch {
		r := &batch[idx]
		base := idx * meterColumns
		placeholders := make([]string, meterColumns)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.Row, r.MeterID, r.Street, r.X, r.Y, r.Longitude, r.Latitude,
			r.Zone, r.BaseRate, r.TowAway, r.InstalledOn)
	}

	query := fmt.Sprintf(`
		INSERT INTO parking_meters
			(source_row, meter_id, street, x, y, longitude, latitude, g_zone, base_rate, tow_away, installed_on)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// Close closes the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchZoneCounts reads back per-zone counts of the archive, ascending by zone.
func (pw *PostgresWriter) FetchZoneCounts() (models.ZoneCounts, error) {
	rows, err := pw.db.Query(`
		SELECT g_zone, COUNT(*)
		FROM parking_meters
		WHERE g_zone IS NOT NULL
		GROUP BY g_zone
		ORDER BY g_zone
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch zone counts: %w", err)
	}
	defer rows.Close()

	var counts models.ZoneCounts
	for rows.Next() {
		var zc models.ZoneCount
		if err := rows.Scan(&zc.Zone, &zc.Count); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		counts = append(counts, zc)
	}
	return counts, rows.Err()
}
