package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidChoice is returned when user input does not name a known option.
var ErrInvalidChoice = errors.New("invalid choice")

// AllZones is the zone drop-down sentinel meaning "no filter".
const AllZones = "All"

// TowAwayChoice is the three-way tow-away radio selection.
type TowAwayChoice string

const (
	TowAwayAll TowAwayChoice = "All"
	TowAwayYes TowAwayChoice = "Yes"
	TowAwayNo  TowAwayChoice = "No"
)

// TowAwayChoices lists the radio options in display order.
var TowAwayChoices = []TowAwayChoice{TowAwayAll, TowAwayYes, TowAwayNo}

// ParseTowAwayChoice accepts the option names case-insensitively. An empty
// string selects All.
func ParseTowAwayChoice(s string) (TowAwayChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return TowAwayAll, nil
	case "yes", "y", "true":
		return TowAwayYes, nil
	case "no", "n", "false":
		return TowAwayNo, nil
	}
	return "", fmt.Errorf("tow-away %q: %w", s, ErrInvalidChoice)
}

// MapMode selects one of the three map renderings of the same data.
type MapMode string

const (
	MapGrid    MapMode = "grid"
	MapScatter MapMode = "flat"
	MapHeat    MapMode = "heat"
)

// MapModes lists the view options in display order.
var MapModes = []MapMode{MapGrid, MapScatter, MapHeat}

// Label is the radio button caption for the mode.
func (m MapMode) Label() string {
	switch m {
	case MapGrid:
		return "Option 1 (3-D)"
	case MapScatter:
		return "Option 2 (flat)"
	case MapHeat:
		return "Option 3 (heat)"
	}
	return string(m)
}

// ParseMapMode defaults to the 3-D grid when s is empty.
func ParseMapMode(s string) (MapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "grid", "3d", "3-d":
		return MapGrid, nil
	case "flat", "scatter":
		return MapScatter, nil
	case "heat", "heatmap":
		return MapHeat, nil
	}
	return "", fmt.Errorf("map view %q: %w", s, ErrInvalidChoice)
}
