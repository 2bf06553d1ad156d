package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"parking-dashboard/models"
	"parking-dashboard/utils"
)

// ErrUnknownColumn is returned for a column name that is not numeric.
var ErrUnknownColumn = errors.New("unknown numeric column")

// NumericColumns lists the columns AggregateByColumn and Describe accept.
var NumericColumns = []string{
	models.ColX, models.ColY, models.ColLongitude, models.ColLatitude, models.ColBaseRate,
}

// Aggregator computes derived views over a meter table. Every method is a
// pure function of its input table.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// AggregateByZone counts records per zone, ascending by zone. Records without
// a zone are not counted.
func (a *Aggregator) AggregateByZone(table *models.MeterTable) models.ZoneCounts {
	counts := make(map[string]int)
	for i := range table.Records {
		if z := table.Records[i].Zone; z.Valid {
			counts[z.String]++
		}
	}

	result := make(models.ZoneCounts, 0, len(counts))
	for zone, n := range counts {
		result = append(result, models.ZoneCount{Zone: zone, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Zone < result[j].Zone
	})
	return result
}

// Zones returns the distinct zones present, sorted ascending.
func (a *Aggregator) Zones(table *models.MeterTable) []string {
	counts := a.AggregateByZone(table)
	zones := make([]string, len(counts))
	for i, zc := range counts {
		zones[i] = zc.Zone
	}
	return zones
}

// AggregateByColumn returns the mean and max of a numeric column, ignoring
// missing values. HasValues is false when the column has none.
func (a *Aggregator) AggregateByColumn(table *models.MeterTable, column string) (models.ColumnStats, error) {
	values, err := columnValues(table, column)
	if err != nil {
		return models.ColumnStats{}, err
	}

	stats := models.ColumnStats{Column: column, Count: len(values)}
	if len(values) == 0 {
		return stats, nil
	}

	var sum float64
	stats.Max = values[0]
	for _, v := range values {
		sum += v
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Mean = sum / float64(len(values))
	stats.HasValues = true
	return stats, nil
}

// Describe summarizes each column the way a describe() table does: count,
// mean, sample standard deviation, min, quartiles and max. Quartiles use
// linear interpolation between closest ranks.
func (a *Aggregator) Describe(table *models.MeterTable, columns ...string) ([]models.ColumnSummary, error) {
	out := make([]models.ColumnSummary, 0, len(columns))
	for _, col := range columns {
		values, err := columnValues(table, col)
		if err != nil {
			return nil, err
		}

		s := models.ColumnSummary{Column: col, Count: len(values)}
		if len(values) == 0 {
			s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max =
				math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
			out = append(out, s)
			continue
		}

		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)

		var sum float64
		for _, v := range sorted {
			sum += v
		}
		s.Mean = sum / float64(len(sorted))

		if len(sorted) > 1 {
			var sq float64
			for _, v := range sorted {
				sq += (v - s.Mean) * (v - s.Mean)
			}
			s.Std = math.Sqrt(sq / float64(len(sorted)-1))
		} else {
			s.Std = math.NaN()
		}

		s.Min = sorted[0]
		s.Q25 = quantile(sorted, 0.25)
		s.Median = quantile(sorted, 0.5)
		s.Q75 = quantile(sorted, 0.75)
		s.Max = sorted[len(sorted)-1]
		out = append(out, s)
	}
	return out, nil
}

// AggregateByInstallDate counts records per installation day in
// chronological order, with a running total. Records without a coerced date
// are skipped. The table must have been passed through CoerceInstallDates.
func (a *Aggregator) AggregateByInstallDate(table *models.MeterTable) ([]models.InstallCount, error) {
	if !table.DatesCoerced {
		return nil, fmt.Errorf("aggregate by install date: %s not coerced", models.ColInstalledOn)
	}

	counts := make(map[time.Time]int)
	for i := range table.Records {
		d := table.Records[i].InstalledOn
		if !d.Valid {
			continue
		}
		y, m, day := d.Time.Date()
		counts[time.Date(y, m, day, 0, 0, 0, 0, time.UTC)]++
	}

	result := make([]models.InstallCount, 0, len(counts))
	for date, n := range counts {
		result = append(result, models.InstallCount{Date: date, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	running := 0
	for i := range result {
		running += result[i].Count
		result[i].Cumulative = running
	}
	return result, nil
}

// FilterByTowAway returns the records whose coerced flag matches choice, or
// a copy of the whole table for TowAwayAll.
func (a *Aggregator) FilterByTowAway(table *models.MeterTable, choice models.TowAwayChoice) (*models.MeterTable, error) {
	var keep func(*models.MeterRecord) bool
	switch choice {
	case models.TowAwayAll, "":
		keep = func(*models.MeterRecord) bool { return true }
	case models.TowAwayYes:
		keep = func(r *models.MeterRecord) bool { return r.TowAway }
	case models.TowAwayNo:
		keep = func(r *models.MeterRecord) bool { return !r.TowAway }
	default:
		return nil, fmt.Errorf("filter tow-away %q: %w", choice, models.ErrInvalidChoice)
	}
	if choice != models.TowAwayAll && choice != "" && !table.TowAwayCoerced {
		return nil, fmt.Errorf("filter tow-away: %s not coerced", models.ColTowAway)
	}
	return filter(table, keep), nil
}

// FilterByZone returns the records in zone, or a copy of the whole table when
// zone is empty or models.AllZones. A zone with no records yields an empty
// table.
func (a *Aggregator) FilterByZone(table *models.MeterTable, zone string) *models.MeterTable {
	if zone == "" || zone == models.AllZones {
		return filter(table, func(*models.MeterRecord) bool { return true })
	}
	return filter(table, func(r *models.MeterRecord) bool {
		return r.Zone.Valid && r.Zone.String == zone
	})
}

// MapCenter centers a map on the mean coordinate of the table. A table with
// no coordinates yields an Empty view instead of a NaN center.
func (a *Aggregator) MapCenter(table *models.MeterTable, zoom, pitch float64) models.MapView {
	var lat, lon float64
	n := 0
	for i := range table.Records {
		r := &table.Records[i]
		if !r.HasCoordinates() {
			continue
		}
		lat += r.Latitude.Float64
		lon += r.Longitude.Float64
		n++
	}
	if n == 0 {
		return models.MapView{Zoom: zoom, Pitch: pitch, Empty: true}
	}
	return models.MapView{
		Latitude:  lat / float64(n),
		Longitude: lon / float64(n),
		Zoom:      zoom,
		Pitch:     pitch,
	}
}

func filter(table *models.MeterTable, keep func(*models.MeterRecord) bool) *models.MeterTable {
	result := table.Derive(table.Len())
	for i := range table.Records {
		if keep(&table.Records[i]) {
			result.Records = append(result.Records, table.Records[i])
		}
	}
	return result
}

func columnValues(table *models.MeterTable, column string) ([]float64, error) {
	var get func(*models.MeterRecord) sql.NullFloat64
	switch column {
	case models.ColX:
		get = func(r *models.MeterRecord) sql.NullFloat64 { return r.X }
	case models.ColY:
		get = func(r *models.MeterRecord) sql.NullFloat64 { return r.Y }
	case models.ColLongitude:
		get = func(r *models.MeterRecord) sql.NullFloat64 { return r.Longitude }
	case models.ColLatitude:
		get = func(r *models.MeterRecord) sql.NullFloat64 { return r.Latitude }
	case models.ColBaseRate:
		get = func(r *models.MeterRecord) sql.NullFloat64 { return r.BaseRate }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	values := make([]float64, 0, table.Len())
	for i := range table.Records {
		if v := get(&table.Records[i]); v.Valid {
			values = append(values, v.Float64)
		}
	}
	return values, nil
}

// quantile expects sorted input with at least one value.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
