package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCSVWriterRoundTrip(t *testing.T) {
	table, err := ReadMeters(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out", "meters.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := Export(w, table); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows: got %d, want header + 4", len(rows))
	}
	if rows[2][8] != "Y" || rows[1][8] != "" {
		t.Errorf("TOW_AWAY: got %q / %q", rows[1][8], rows[2][8])
	}
	if rows[1][7] != "0.25" {
		t.Errorf("BASE_RATE: got %q", rows[1][7])
	}
	if rows[3][4] != "" {
		t.Errorf("missing LONGITUDE should export empty, got %q", rows[3][4])
	}

	reloaded, err := LoadMeters(path)
	if err != nil {
		t.Fatalf("exported file should load again: %v", err)
	}
	if reloaded.Len() != table.Len() {
		t.Fatalf("reloaded rows: got %d, want %d", reloaded.Len(), table.Len())
	}
	for i := range table.Records {
		if reloaded.Records[i].TowAwayRaw != table.Records[i].TowAwayRaw {
			t.Errorf("row %d TOW_AWAY changed on reload", i+1)
		}
	}
}
