package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parking-dashboard/models"
)

const sampleCSV = `X,Y,METER_ID,STREET,LONGITUDE,LATITUDE,G_ZONE,BASE_RATE,TOW_AWAY,INSTALLED_ON
-7910000.1,5210000.2,1001,BOYLSTON ST,-71.0712,42.3503,Back Bay,$0.25,,2020-01-01
-7910001.1,5210001.2,1002,NEWBURY ST,-71.0801,42.3490,Back Bay,1.00,Y,2020-01-01
-7910002.1,5210002.2,1003,HANOVER ST,,,North End,0.25,,2020-01-02
-7910003.1,5210003.2,1004,TREMONT ST,-71.0650,42.3550,,0.25,,
`

func TestReadMeters(t *testing.T) {
	table, err := ReadMeters(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 4 {
		t.Fatalf("rows: got %d, want 4", table.Len())
	}

	first := table.Records[0]
	if first.Row != 1 || first.MeterID != "1001" || first.Street != "BOYLSTON ST" {
		t.Errorf("first record: got %+v", first)
	}
	if !first.BaseRate.Valid || first.BaseRate.Float64 != 0.25 {
		t.Errorf("BASE_RATE with currency marker: got %+v", first.BaseRate)
	}
	if first.TowAwayRaw.Valid {
		t.Error("empty TOW_AWAY should be missing")
	}
	if !table.Records[1].TowAwayRaw.Valid || table.Records[1].TowAwayRaw.String != "Y" {
		t.Errorf("TOW_AWAY: got %+v", table.Records[1].TowAwayRaw)
	}

	third := table.Records[2]
	if third.Longitude.Valid || third.Latitude.Valid {
		t.Error("empty coordinates should be missing")
	}
	if table.Records[3].Zone.Valid {
		t.Error("empty G_ZONE should be missing")
	}
	if table.Records[3].InstalledOnRaw != "" {
		t.Errorf("INSTALLED_ON: got %q", table.Records[3].InstalledOnRaw)
	}
}

func TestReadMetersMissingColumn(t *testing.T) {
	data := "X,Y,LONGITUDE,LATITUDE,G_ZONE,BASE_RATE,INSTALLED_ON\n1,2,3,4,A,0.25,2020-01-01\n"

	_, err := ReadMeters(strings.NewReader(data))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), models.ColTowAway) {
		t.Errorf("error should name the column: %v", err)
	}
}

func TestReadMetersEmpty(t *testing.T) {
	if _, err := ReadMeters(strings.NewReader("")); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn for empty input, got %v", err)
	}
}

func TestReadMetersBadNumber(t *testing.T) {
	data := "X,Y,LONGITUDE,LATITUDE,G_ZONE,BASE_RATE,TOW_AWAY,INSTALLED_ON\n1,2,abc,4,A,0.25,,2020-01-01\n"

	_, err := ReadMeters(strings.NewReader(data))
	if err == nil {
		t.Fatal("expected an error for a non-numeric LONGITUDE")
	}
	if !strings.Contains(err.Error(), "row 1") || !strings.Contains(err.Error(), models.ColLongitude) {
		t.Errorf("error should name row and column: %v", err)
	}
}

func TestReadMetersBOMHeader(t *testing.T) {
	data := "\ufeff" + sampleCSV
	table, err := ReadMeters(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Columns[0] != models.ColX {
		t.Errorf("first column: got %q", table.Columns[0])
	}
}

func TestLoadMetersMissingFile(t *testing.T) {
	_, err := LoadMeters(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadMetersFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Parking_Meters.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadMeters(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 4 {
		t.Errorf("rows: got %d, want 4", table.Len())
	}
}
