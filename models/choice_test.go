package models

import (
	"errors"
	"testing"
)

func TestParseTowAwayChoice(t *testing.T) {
	tests := []struct {
		in   string
		want TowAwayChoice
	}{
		{"", TowAwayAll},
		{"All", TowAwayAll},
		{"yes", TowAwayYes},
		{" Y ", TowAwayYes},
		{"No", TowAwayNo},
		{"false", TowAwayNo},
	}

	for _, tt := range tests {
		got, err := ParseTowAwayChoice(tt.in)
		if err != nil {
			t.Errorf("ParseTowAwayChoice(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTowAwayChoice(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTowAwayChoice("Maybe"); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("expected ErrInvalidChoice, got %v", err)
	}
}

func TestParseMapMode(t *testing.T) {
	for _, m := range MapModes {
		got, err := ParseMapMode(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMapMode(%q) = %q, %v", m, got, err)
		}
		if m.Label() == "" {
			t.Errorf("%q has no label", m)
		}
	}

	if got, err := ParseMapMode(""); err != nil || got != MapGrid {
		t.Errorf("empty mode: got %q, %v; want grid", got, err)
	}
	if _, err := ParseMapMode("satellite"); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("expected ErrInvalidChoice, got %v", err)
	}
}
