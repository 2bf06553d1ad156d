package models

import (
	"database/sql"
	"time"
)

// Column names of the parking-meter CSV export.
const (
	ColX           = "X"
	ColY           = "Y"
	ColLongitude   = "LONGITUDE"
	ColLatitude    = "LATITUDE"
	ColZone        = "G_ZONE"
	ColBaseRate    = "BASE_RATE"
	ColTowAway     = "TOW_AWAY"
	ColInstalledOn = "INSTALLED_ON"

	ColMeterID = "METER_ID"
	ColStreet  = "STREET"
)

// RequiredColumns must all be present in the CSV header.
var RequiredColumns = []string{
	ColX, ColY, ColLongitude, ColLatitude, ColZone, ColBaseRate, ColTowAway, ColInstalledOn,
}

// MeterRecord is one row of the parking-meter dataset. Numeric and categorical
// fields are nullable; an empty CSV cell is a missing value.
type MeterRecord struct {
	Row int

	MeterID string
	Street  string

	X         sql.NullFloat64
	Y         sql.NullFloat64
	Longitude sql.NullFloat64
	Latitude  sql.NullFloat64
	BaseRate  sql.NullFloat64
	Zone      sql.NullString

	// TowAwayRaw is the marker exactly as read; TowAway is derived from it.
	TowAwayRaw sql.NullString
	TowAway    bool

	InstalledOnRaw string
	InstalledOn    sql.NullTime
}

// HasCoordinates reports whether both longitude and latitude are present.
func (r *MeterRecord) HasCoordinates() bool {
	return r.Longitude.Valid && r.Latitude.Valid
}

// MeterTable is an ordered collection of meter records in CSV row order.
// Records are held by value so derived tables never alias their source.
type MeterTable struct {
	Columns []string
	Records []MeterRecord

	TowAwayCoerced bool
	DatesCoerced   bool
}

// Len returns the number of records.
func (t *MeterTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Derive returns an empty table carrying t's header and coercion state.
func (t *MeterTable) Derive(capacity int) *MeterTable {
	return &MeterTable{
		Columns:        append([]string(nil), t.Columns...),
		Records:        make([]MeterRecord, 0, capacity),
		TowAwayCoerced: t.TowAwayCoerced,
		DatesCoerced:   t.DatesCoerced,
	}
}

// ZoneCount is the number of meters in one zone.
type ZoneCount struct {
	Zone  string `json:"zone"`
	Count int    `json:"count"`
}

// ZoneCounts is sorted by zone ascending.
type ZoneCounts []ZoneCount

// Map returns the counts keyed by zone.
func (zc ZoneCounts) Map() map[string]int {
	m := make(map[string]int, len(zc))
	for _, z := range zc {
		m[z.Zone] = z.Count
	}
	return m
}

// Total sums all zone counts.
func (zc ZoneCounts) Total() int {
	total := 0
	for _, z := range zc {
		total += z.Count
	}
	return total
}

// ColumnStats holds mean and max of a numeric column over non-missing values.
type ColumnStats struct {
	Column    string  `json:"column"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Max       float64 `json:"max"`
	HasValues bool    `json:"has_values"`
}

// ColumnSummary is one column of a describe() style statistics table.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// InstallCount is the number of meters installed on one calendar day.
type InstallCount struct {
	Date       time.Time `json:"date"`
	Count      int       `json:"count"`
	Cumulative int       `json:"cumulative"`
}

// MapView is the initial camera for a map. Empty is set when there were no
// coordinates to center on.
type MapView struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
	Bearing   float64 `json:"bearing"`
	Empty     bool    `json:"empty"`
}

// Feedback is one submission of the data source page's feedback form.
type Feedback struct {
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// MeterReport holds the console summary over a cleaned table.
type MeterReport struct {
	TotalMeters   int
	TowAwayMeters int
	BaseRate      ColumnStats
	X             ColumnStats
	Zones         ZoneCounts
	Installs      []InstallCount
}
