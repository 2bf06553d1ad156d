package dashboard

import (
	"parking-dashboard/models"
)

// Map rendering parameters.
const (
	gridCellSize       = 200
	gridElevationScale = 4
	gridPitch          = 45
	pointRadius        = 100
	heatOpacity        = 0.9
)

var (
	overviewColor = []int{180, 0, 200, 140}
	projectColor  = []int{200, 30, 0, 160}
)

type mapPoint struct {
	Position [2]float64 `json:"position"`
	Weight   float64    `json:"weight"`
}

type mapLayer struct {
	Type           string     `json:"type"`
	Data           []mapPoint `json:"data"`
	CellSize       int        `json:"cellSize,omitempty"`
	ElevationScale int        `json:"elevationScale,omitempty"`
	Extruded       bool       `json:"extruded,omitempty"`
	Pickable       bool       `json:"pickable,omitempty"`
	Radius         int        `json:"radius,omitempty"`
	Color          []int      `json:"color,omitempty"`
	Opacity        float64    `json:"opacity,omitempty"`
}

// mapSpec is handed to the browser as JSON and drawn with deck.gl.
type mapSpec struct {
	Layer   mapLayer       `json:"layer"`
	View    models.MapView `json:"view"`
	Style   string         `json:"style"`
	Tooltip string         `json:"tooltip,omitempty"`
}

// categorySpec feeds the zone bar and pie charts.
type categorySpec struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// timelineSpec feeds the installation line chart.
type timelineSpec struct {
	Dates      []string `json:"dates"`
	Counts     []int    `json:"counts"`
	Cumulative []int    `json:"cumulative"`
}

func points(table *models.MeterTable, weighted bool) []mapPoint {
	out := make([]mapPoint, 0, table.Len())
	for i := range table.Records {
		r := &table.Records[i]
		if !r.HasCoordinates() {
			continue
		}
		p := mapPoint{Position: [2]float64{r.Longitude.Float64, r.Latitude.Float64}, Weight: 1}
		if weighted && r.BaseRate.Valid {
			p.Weight = r.BaseRate.Float64
		}
		out = append(out, p)
	}
	return out
}

// layerFor builds the deck.gl layer for one of the three map modes.
func layerFor(mode models.MapMode, table *models.MeterTable) (mapLayer, float64) {
	switch mode {
	case models.MapGrid:
		return mapLayer{
			Type:           "GridLayer",
			Data:           points(table, false),
			CellSize:       gridCellSize,
			ElevationScale: gridElevationScale,
			Extruded:       true,
			Pickable:       true,
		}, gridPitch
	case models.MapHeat:
		return mapLayer{
			Type:    "HeatmapLayer",
			Data:    points(table, true),
			Radius:  pointRadius,
			Opacity: heatOpacity,
		}, 0
	default:
		return mapLayer{
			Type:   "ScatterplotLayer",
			Data:   points(table, false),
			Radius: pointRadius,
			Color:  projectColor,
		}, 0
	}
}

func zoneChart(title string, counts models.ZoneCounts) categorySpec {
	spec := categorySpec{
		Title:  title,
		Labels: make([]string, len(counts)),
		Values: make([]int, len(counts)),
	}
	for i, zc := range counts {
		spec.Labels[i] = zc.Zone
		spec.Values[i] = zc.Count
	}
	return spec
}

func installTimeline(installs []models.InstallCount) timelineSpec {
	spec := timelineSpec{
		Dates:      make([]string, len(installs)),
		Counts:     make([]int, len(installs)),
		Cumulative: make([]int, len(installs)),
	}
	for i, ic := range installs {
		spec.Dates[i] = ic.Date.Format("2006-01-02")
		spec.Counts[i] = ic.Count
		spec.Cumulative[i] = ic.Cumulative
	}
	return spec
}
