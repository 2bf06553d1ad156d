package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"parking-dashboard/models"
	"parking-dashboard/utils"
)

// ErrUnparsableDate is returned when an INSTALLED_ON value is present but not
// a recognizable date.
var ErrUnparsableDate = errors.New("unparsable installation date")

// installLayouts are tried before falling back to dateparse. The second
// matches the city's ArcGIS export ("2014/08/27 00:00:00+00").
var installLayouts = []string{
	"2006-01-02",
	"2006/01/02 15:04:05-07",
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Cleaner filters and coerces meter tables.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean returns a new table holding only records that have both coordinates
// and, when requireZone is set, a zone. The source table is not modified.
func (c *Cleaner) Clean(table *models.MeterTable, requireZone bool) *models.MeterTable {
	result := table.Derive(table.Len())

	for _, r := range table.Records {
		if !r.HasCoordinates() {
			c.logger.Debug("[cleaner] Dropping row %d: missing coordinates", r.Row)
			continue
		}
		if requireZone && !r.Zone.Valid {
			c.logger.Debug("[cleaner] Dropping row %d: missing zone", r.Row)
			continue
		}
		result.Records = append(result.Records, r)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d meters (dropped %d)",
		table.Len(), result.Len(), table.Len()-result.Len())
	return result
}

// CoerceTowAway sets each record's TowAway flag to whether the raw marker is
// present. Applying it more than once has no further effect.
func (c *Cleaner) CoerceTowAway(table *models.MeterTable) {
	for i := range table.Records {
		r := &table.Records[i]
		r.TowAway = r.TowAwayRaw.Valid
	}
	table.TowAwayCoerced = true
}

// CoerceInstallDates parses INSTALLED_ON for every record. Empty values stay
// missing; the first present but unparsable value aborts with
// ErrUnparsableDate and leaves the table unchanged.
func (c *Cleaner) CoerceInstallDates(table *models.MeterTable) error {
	if table.DatesCoerced {
		return nil
	}

	parsed := make([]sql.NullTime, len(table.Records))
	for i := range table.Records {
		r := &table.Records[i]
		if r.InstalledOnRaw == "" {
			continue
		}
		t, err := parseInstallDate(r.InstalledOnRaw)
		if err != nil {
			return fmt.Errorf("row %d %s %q: %w", r.Row, models.ColInstalledOn, r.InstalledOnRaw, ErrUnparsableDate)
		}
		parsed[i] = sql.NullTime{Time: t, Valid: true}
	}

	for i := range table.Records {
		table.Records[i].InstalledOn = parsed[i]
	}
	table.DatesCoerced = true
	return nil
}

func parseInstallDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if !strings.ContainsAny(raw, "0123456789") {
		return time.Time{}, fmt.Errorf("no digits in %q", raw)
	}
	for _, layout := range installLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseIn(raw, time.UTC)
}
