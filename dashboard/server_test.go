package dashboard

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"parking-dashboard/config"
	"parking-dashboard/services"
	"parking-dashboard/utils"
)

const testCSV = `X,Y,LONGITUDE,LATITUDE,G_ZONE,BASE_RATE,TOW_AWAY,INSTALLED_ON
10,20,-71.0712,42.3503,Back Bay,0.25,,2020-01-01
11,21,-71.0801,42.3490,Back Bay,1.00,Y,2020-01-01
12,22,-71.0550,42.3640,North End,0.25,,2020-01-02
13,23,,,North End,0.25,,2020-01-02
`

func newTestServer(t *testing.T, csvData string) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Parking_Meters.csv")
	if csvData != "" {
		if err := os.WriteFile(path, []byte(csvData), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &config.Config{
		CSVPath:     path,
		CORSOrigins: []string{"*"},
		SessionTTL:  time.Minute,
		MapZoom:     11,
		MapStyle:    "https://example.test/style.json",
	}
	srv, err := NewServer(cfg, utils.Discard(), services.NewSessionStore(time.Minute))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, client *http.Client, u string) (int, string) {
	t.Helper()
	resp, err := client.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestOverviewPage(t *testing.T) {
	ts := newTestServer(t, testCSV)

	status, body := get(t, ts.Client(), ts.URL+"/overview")
	if status != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", status, body)
	}
	for _, want := range []string{"Basic Statistics", "Back Bay", "North End", "Average Base Rate: 0.5", "zone-map"} {
		if !strings.Contains(body, want) {
			t.Errorf("overview missing %q", want)
		}
	}
}

func TestOverviewUnknownZoneShowsPlaceholder(t *testing.T) {
	ts := newTestServer(t, testCSV)

	status, body := get(t, ts.Client(), ts.URL+"/?page=overview&zone=Nowhere")
	if status != http.StatusOK {
		t.Fatalf("status: got %d", status)
	}
	if !strings.Contains(body, "No meters with coordinates in Nowhere") {
		t.Error("expected empty-map placeholder")
	}
}

func TestProjectPageFilters(t *testing.T) {
	ts := newTestServer(t, testCSV)

	tests := []struct {
		query string
		rows  string
	}{
		{"", "3 meters shown"},
		{"?tow=Yes", "1 meters shown"},
		{"?tow=No&view=heat", "2 meters shown"},
		{"?tow=All&view=flat", "3 meters shown"},
	}
	for _, tt := range tests {
		status, body := get(t, ts.Client(), ts.URL+"/project"+tt.query)
		if status != http.StatusOK {
			t.Errorf("%s: status %d", tt.query, status)
			continue
		}
		if !strings.Contains(body, tt.rows) {
			t.Errorf("%s: expected %q", tt.query, tt.rows)
		}
		if !strings.Contains(body, "Installation Timeline") || !strings.Contains(body, "2020-01-02") {
			t.Errorf("%s: timeline missing", tt.query)
		}
	}
}

func TestProjectPageInvalidChoice(t *testing.T) {
	ts := newTestServer(t, testCSV)

	status, body := get(t, ts.Client(), ts.URL+"/project?tow=Maybe")
	if status != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", status)
	}
	if !strings.Contains(body, "Unable to render this page") {
		t.Error("expected error state")
	}
}

func TestProjectPageUnparsableDate(t *testing.T) {
	data := testCSV + "14,24,-71.06,42.36,North End,0.25,,someday\n"
	ts := newTestServer(t, data)

	status, body := get(t, ts.Client(), ts.URL+"/project")
	if status != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", status)
	}
	if !strings.Contains(body, "someday") {
		t.Error("error should name the offending value")
	}
}

func TestMissingCSVIsFatal(t *testing.T) {
	ts := newTestServer(t, "")

	for _, path := range []string{"/overview", "/project"} {
		status, body := get(t, ts.Client(), ts.URL+path)
		if status != http.StatusInternalServerError {
			t.Errorf("%s: status %d, want 500", path, status)
		}
		if !strings.Contains(body, "Unable to render this page") {
			t.Errorf("%s: expected error state", path)
		}
	}

	status, _ := get(t, ts.Client(), ts.URL+"/health")
	if status != http.StatusServiceUnavailable {
		t.Errorf("health: got %d, want 503", status)
	}
}

func TestMissingColumnIsFatal(t *testing.T) {
	ts := newTestServer(t, "X,Y,LONGITUDE,LATITUDE\n1,2,3,4\n")

	status, body := get(t, ts.Client(), ts.URL+"/overview")
	if status != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", status)
	}
	if !strings.Contains(body, "missing required column") {
		t.Error("expected missing column message")
	}
}

func TestAppNavigation(t *testing.T) {
	ts := newTestServer(t, testCSV)

	status, body := get(t, ts.Client(), ts.URL+"/")
	if status != http.StatusOK || !strings.Contains(body, "Parking Meters Data Source Information") {
		t.Errorf("default page should be Data Source, got %d", status)
	}
	for _, name := range []string{"Data Source", "Data Overview", "Final Project"} {
		if !strings.Contains(body, name) {
			t.Errorf("navigation missing %q", name)
		}
	}

	if status, _ := get(t, ts.Client(), ts.URL+"/?page=nope"); status != http.StatusNotFound {
		t.Errorf("unknown page: got %d, want 404", status)
	}
}

func TestFeedbackIsSessionScoped(t *testing.T) {
	ts := newTestServer(t, testCSV)

	jar := newJar(t)
	client := &http.Client{Jar: jar}

	get(t, client, ts.URL+"/source")
	resp, err := client.PostForm(ts.URL+"/source/feedback", url.Values{"feedback": {"More zones please"}})
	if err != nil {
		t.Fatalf("POST feedback: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if !strings.Contains(string(body), "Thank you for your feedback!") {
		t.Error("expected confirmation after redirect")
	}
	if !strings.Contains(string(body), "More zones please") {
		t.Error("submission should be listed for the same session")
	}

	_, other := get(t, &http.Client{Jar: newJar(t)}, ts.URL+"/source")
	if strings.Contains(other, "More zones please") {
		t.Error("another session must not see the submission")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, testCSV)

	status, body := get(t, ts.Client(), ts.URL+"/health")
	if status != http.StatusOK {
		t.Fatalf("status: got %d", status)
	}
	if !strings.Contains(body, `"csv_readable":true`) {
		t.Errorf("health body: %s", body)
	}
}
