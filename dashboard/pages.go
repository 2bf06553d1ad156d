package dashboard

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"parking-dashboard/models"
	"parking-dashboard/storage"
)

// page is one entry of the multi-page app's navigation table.
type page struct {
	Name   string
	Slug   string
	render func(r *http.Request) (*pageData, error)
}

type navItem struct {
	Name   string
	Href   string
	Active bool
}

// pageData is the template input shared by every page. Exactly one of the
// per-page views is set.
type pageData struct {
	Title string
	Nav   []navItem
	Error string

	Source   *sourceView
	Overview *overviewView
	Project  *projectView
}

type sourceView struct {
	Submitted bool
	Feedback  []models.Feedback
}

type overviewView struct {
	Summaries    []models.ColumnSummary
	BaseRate     models.ColumnStats
	X            models.ColumnStats
	Zones        []string
	SelectedZone string
	Bar          categorySpec
	Pie          categorySpec
	Map          *mapSpec
	MapRows      int
}

type radioOption struct {
	Value   string
	Label   string
	Checked bool
}

type projectView struct {
	TowAway  []radioOption
	Modes    []radioOption
	Map      *mapSpec
	MapRows  int
	Timeline timelineSpec
}

func (s *Server) navigation() []page {
	return []page{
		{Name: "Data Source", Slug: "source", render: s.renderSource},
		{Name: "Data Overview", Slug: "overview", render: s.renderOverview},
		{Name: "Final Project", Slug: "project", render: s.renderProject},
	}
}

// handleApp serves the combined app, picking the page from ?page=.
func (s *Server) handleApp(w http.ResponseWriter, r *http.Request) {
	selected := s.pages[0]
	if slug := r.URL.Query().Get("page"); slug != "" {
		found := false
		for _, p := range s.pages {
			if p.Slug == slug || p.Name == slug {
				selected, found = p, true
				break
			}
		}
		if !found {
			http.Error(w, "Page not found", http.StatusNotFound)
			return
		}
	}
	s.serve(w, r, selected)
}

func (s *Server) handlePage(p page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, p)
	}
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, p page) {
	data, err := p.render(r)
	if data == nil {
		data = &pageData{}
	}
	data.Title = p.Name
	data.Nav = s.nav(p)

	status := http.StatusOK
	if err != nil {
		s.logger.Error("[dashboard] Rendering %s: %v", p.Name, err)
		data.Error = err.Error()
		status = http.StatusInternalServerError
	}

	if err := s.templates.render(w, p.Slug, data, status); err != nil {
		s.logger.Error("[dashboard] Executing %s template: %v", p.Slug, err)
	}
}

func (s *Server) nav(active page) []navItem {
	items := make([]navItem, len(s.pages))
	for i, p := range s.pages {
		items[i] = navItem{Name: p.Name, Href: "/?page=" + url.QueryEscape(p.Slug), Active: p.Slug == active.Slug}
	}
	return items
}

func (s *Server) renderSource(r *http.Request) (*pageData, error) {
	return &pageData{Source: &sourceView{
		Submitted: r.URL.Query().Get("submitted") == "1",
		Feedback:  s.sessions.Feedback(SessionID(r.Context())),
	}}, nil
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	n := s.sessions.AppendFeedback(SessionID(r.Context()), r.PostFormValue("feedback"), time.Now())
	s.logger.Debug("[dashboard] Session now holds %d feedback entries", n)
	http.Redirect(w, r, "/?page=source&submitted=1", http.StatusSeeOther)
}

func (s *Server) renderOverview(r *http.Request) (*pageData, error) {
	raw, err := storage.LoadMeters(s.cfg.CSVPath)
	if err != nil {
		return nil, err
	}
	table := s.cleaner.Clean(raw, true)

	view := &overviewView{}
	if view.Summaries, err = s.aggregator.Describe(table, models.ColX, models.ColY, models.ColBaseRate); err != nil {
		return nil, err
	}
	if view.BaseRate, err = s.aggregator.AggregateByColumn(table, models.ColBaseRate); err != nil {
		return nil, err
	}
	if view.X, err = s.aggregator.AggregateByColumn(table, models.ColX); err != nil {
		return nil, err
	}

	zones := s.aggregator.AggregateByZone(table)
	view.Bar = zoneChart("Zone-wise Distribution of Parking Meters", zones)
	view.Pie = zoneChart("Distribution of Parking Meters by Zone", zones)

	view.SelectedZone = r.URL.Query().Get("zone")
	if view.SelectedZone == "" {
		view.SelectedZone = models.AllZones
	}
	view.Zones = append([]string{models.AllZones}, s.aggregator.Zones(table)...)

	mapTable := s.aggregator.FilterByZone(table, view.SelectedZone)
	view.MapRows = mapTable.Len()
	if center := s.aggregator.MapCenter(mapTable, s.cfg.MapZoom, 0); !center.Empty {
		view.Map = &mapSpec{
			Layer: mapLayer{
				Type:   "ScatterplotLayer",
				Data:   points(mapTable, false),
				Radius: pointRadius,
				Color:  overviewColor,
			},
			View:  center,
			Style: s.cfg.MapStyle,
		}
	}

	return &pageData{Overview: view}, nil
}

func (s *Server) renderProject(r *http.Request) (*pageData, error) {
	choice, err := models.ParseTowAwayChoice(r.URL.Query().Get("tow"))
	if err != nil {
		return nil, err
	}
	mode, err := models.ParseMapMode(r.URL.Query().Get("view"))
	if err != nil {
		return nil, err
	}

	table, err := storage.LoadMeters(s.cfg.CSVPath)
	if err != nil {
		return nil, err
	}
	s.cleaner.CoerceTowAway(table)

	filtered, err := s.aggregator.FilterByTowAway(table, choice)
	if err != nil {
		return nil, err
	}
	mapTable := s.cleaner.Clean(filtered, false)

	view := &projectView{MapRows: mapTable.Len()}
	for _, c := range models.TowAwayChoices {
		view.TowAway = append(view.TowAway, radioOption{Value: string(c), Label: string(c), Checked: c == choice})
	}
	for _, m := range models.MapModes {
		view.Modes = append(view.Modes, radioOption{Value: string(m), Label: m.Label(), Checked: m == mode})
	}

	layer, pitch := layerFor(mode, mapTable)
	if center := s.aggregator.MapCenter(mapTable, s.cfg.MapZoom, pitch); !center.Empty {
		view.Map = &mapSpec{Layer: layer, View: center, Style: s.cfg.MapStyle}
		if mode == models.MapGrid {
			view.Map.Tooltip = "Count: {count}"
		}
	}

	if err := s.cleaner.CoerceInstallDates(table); err != nil {
		return nil, fmt.Errorf("installation timeline: %w", err)
	}
	installs, err := s.aggregator.AggregateByInstallDate(table)
	if err != nil {
		return nil, err
	}
	view.Timeline = installTimeline(installs)

	return &pageData{Project: view}, nil
}
