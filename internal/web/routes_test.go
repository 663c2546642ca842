package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/rkondla/chiller-dashboard/internal/config"
	"github.com/rkondla/chiller-dashboard/internal/dataset"
	"github.com/rkondla/chiller-dashboard/internal/weather"
)

type stubFetcher struct {
	calls   int
	records []weather.Record
	err     error
}

func (f *stubFetcher) FetchTimeline(ctx context.Context, location, start, end string) ([]weather.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newTestApp(fetcher weather.TimelineFetcher) (*fiber.App, *Handler) {
	cfg := &config.AppConfig{
		OperatorUsername: "Rohith",
		OperatorPassword: "password123",
	}
	sessions := session.New()
	datasets := dataset.NewStore()
	cache := weather.NewFetchCache(fetcher, "Hyderabad, India", time.Hour)

	h := NewHandler(cfg, sessions, datasets, cache)
	app := fiber.New()
	h.Register(app)
	return app, h
}

// login authenticates the operator and returns the session cookie.
func login(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {"Rohith"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login: expected status %d, got %d", http.StatusFound, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("login: expected redirect to /dashboard, got %q", loc)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	t.Fatal("login: no session cookie set")
	return nil
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(b)
}

func TestRootRedirectsToLogin(t *testing.T) {
	app, _ := newTestApp(&stubFetcher{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestDashboardRequiresAuth(t *testing.T) {
	app, _ := newTestApp(&stubFetcher{})

	for _, path := range []string{"/dashboard", "/dashboard/chart?kind=power", "/dashboard/weather/data"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
			t.Errorf("%s: expected redirect to /login, got %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, _ := newTestApp(&stubFetcher{})

	// Wrong username: only the username error shows, password never checked.
	form := url.Values{"username": {"someone"}, "password": {"wrong-too"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := bodyString(t, resp)
	if !strings.Contains(body, "Invalid username.") {
		t.Error("expected username error in response")
	}
	if strings.Contains(body, "Invalid password.") {
		t.Error("password error must be suppressed when the username is wrong")
	}

	// Right username, wrong password.
	form = url.Values{"username": {"Rohith"}, "password": {"nope"}}
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body = bodyString(t, resp)
	if !strings.Contains(body, "Invalid password.") || strings.Contains(body, "Invalid username.") {
		t.Error("expected only the password error")
	}
}

func TestLoginGrantsDashboardAccess(t *testing.T) {
	app, _ := newTestApp(&stubFetcher{})
	cookie := login(t, app)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after login, got %d", resp.StatusCode)
	}
	// First render defaults to the upload tab.
	if !strings.Contains(bodyString(t, resp), "Upload only .csv files") {
		t.Error("expected the upload view on first render")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	app, _ := newTestApp(&stubFetcher{})
	cookie := login(t, app)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("dashboard should redirect after logout, got %d", resp.StatusCode)
	}
}

func TestTabSelectionPersists(t *testing.T) {
	app, _ := newTestApp(&stubFetcher{})
	cookie := login(t, app)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?tab=weather", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(bodyString(t, resp), "Weather Data") {
		t.Fatal("expected the weather view")
	}

	// A request without a tab click keeps the last-clicked tab highlighted.
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := bodyString(t, resp)
	if !strings.Contains(body, "Weather Data") {
		t.Error("expected the weather tab to stay active")
	}
	if got := strings.Count(body, `class="active"`); got != 1 {
		t.Errorf("exactly one tab must be highlighted, found %d", got)
	}
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

const telemetryCSV = "Date/Time,Chiller 1 Power,CHWS Temp,CHWR Temp\n" +
	"01/02/2025 00:00:00,120.5,6.1,11.9\n" +
	"01/02/2025 00:15:00,118.2,6.3,12.1\n"

func TestUploadAndClassify(t *testing.T) {
	app, h := newTestApp(&stubFetcher{})
	cookie := login(t, app)

	req := uploadRequest(t, "telemetry.csv", telemetryCSV)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := bodyString(t, resp)
	if !strings.Contains(body, "Successfully uploaded: telemetry.csv") {
		t.Error("expected upload confirmation")
	}
	if !strings.Contains(body, "Detected Chiller Power columns: Chiller 1 Power") ||
		!strings.Contains(body, "Detected Supply Temp columns: CHWS Temp") ||
		!strings.Contains(body, "Detected Return Temp columns: CHWR Temp") {
		t.Errorf("expected detected column report, got:\n%s", body)
	}
	if h.datasets.Current() == nil {
		t.Fatal("dataset store not populated")
	}
}

func TestUploadNonCSVLeavesStoreUntouched(t *testing.T) {
	app, h := newTestApp(&stubFetcher{})
	cookie := login(t, app)

	// Seed a good dataset first.
	req := uploadRequest(t, "telemetry.csv", telemetryCSV)
	req.AddCookie(cookie)
	if _, err := app.Test(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := h.datasets.Current()

	req = uploadRequest(t, "telemetry.xlsx", telemetryCSV)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(bodyString(t, resp), "Unsupported file format. Please upload a valid CSV file.") {
		t.Error("expected the non-csv error message")
	}
	if h.datasets.Current() != before {
		t.Fatal("rejected upload mutated the dataset store")
	}
}

func TestResetClearsDataset(t *testing.T) {
	app, h := newTestApp(&stubFetcher{})
	cookie := login(t, app)

	req := uploadRequest(t, "telemetry.csv", telemetryCSV)
	req.AddCookie(cookie)
	if _, err := app.Test(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/dashboard/reset", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(bodyString(t, resp), "Dataset cleared. Please upload a new file.") {
		t.Error("expected the cleared message")
	}
	if h.datasets.Current() != nil {
		t.Fatal("reset left a dataset behind")
	}

	// A subsequent dashboard render shows the no-dataset placeholder.
	req = httptest.NewRequest(http.MethodGet, "/dashboard?tab=dashboard", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(bodyString(t, resp), "Upload a dataset to view visualizations.") {
		t.Error("expected the no-dataset placeholder")
	}
}

func TestTelemetryChartWithoutDataset(t *testing.T) {
	app, _ := newTestApp(&stubFetcher{})
	cookie := login(t, app)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/chart?kind=power", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fig struct {
		NoData     bool   `json:"noData"`
		Annotation string `json:"annotation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fig); err != nil {
		t.Fatalf("decoding figure: %v", err)
	}
	if !fig.NoData {
		t.Error("expected a no-data placeholder figure")
	}
}

func weatherGet(t *testing.T, app *fiber.App, cookie *http.Cookie, query string) weatherResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/dashboard/weather/data?"+query, nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var wr weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return wr
}

func TestWeatherValidationBlocksFetch(t *testing.T) {
	fetcher := &stubFetcher{}
	app, _ := newTestApp(fetcher)
	cookie := login(t, app)

	wr := weatherGet(t, app, cookie, "start=2025-03-10&end=2025-03-05")
	if wr.Alert.Message != "End date must be after start date." {
		t.Errorf("unexpected message: %q", wr.Alert.Message)
	}
	if !wr.Retry {
		t.Error("expected a retry affordance")
	}

	wr = weatherGet(t, app, cookie, "start=10-03-2025&end=2025-03-15")
	if wr.Alert.Message != "Invalid date format. Dates should be in YYYY-MM-DD format." {
		t.Errorf("unexpected message: %q", wr.Alert.Message)
	}

	if fetcher.calls != 0 {
		t.Fatalf("validation failures must not reach the provider, got %d calls", fetcher.calls)
	}
}

func TestWeatherDefaultRangeNotice(t *testing.T) {
	fetcher := &stubFetcher{}
	app, h := newTestApp(fetcher)
	h.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }
	cookie := login(t, app)

	wr := weatherGet(t, app, cookie, "metrics=temp")
	if wr.Alert.Message != "Using default range: 08-03-2025 to 15-03-2025." {
		t.Errorf("unexpected notice: %q", wr.Alert.Message)
	}
	if wr.Start != "2025-03-08" || wr.End != "2025-03-15" {
		t.Errorf("unexpected substituted range: %s..%s", wr.Start, wr.End)
	}
	// The substitution tick itself never fetches.
	if fetcher.calls != 0 {
		t.Fatalf("default substitution must not fetch, got %d calls", fetcher.calls)
	}
}

func TestWeatherFetchUsesCache(t *testing.T) {
	fetcher := &stubFetcher{records: []weather.Record{
		{Date: "2025-03-08", TempC: 31.2, Humidity: 40, WindSpeed: 3.1},
		{Date: "2025-03-09", TempC: 32.0, Humidity: 38, WindSpeed: 2.8},
	}}
	app, h := newTestApp(fetcher)
	h.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }
	cookie := login(t, app)

	wr := weatherGet(t, app, cookie, "start=2025-03-08&end=2025-03-09&metrics=temp,humidity")
	want := "Weather data fetched for Hyderabad, India from 08-03-2025 to 09-03-2025."
	if wr.Alert.Message != want {
		t.Errorf("alert = %q, want %q", wr.Alert.Message, want)
	}
	if wr.Figure == nil || len(wr.Figure.Series) != 2 {
		t.Fatalf("expected 2 series, got %+v", wr.Figure)
	}
	if wr.Retry {
		t.Error("successful fetch should hide the retry control")
	}

	weatherGet(t, app, cookie, "start=2025-03-08&end=2025-03-09&metrics=temp,humidity")
	if fetcher.calls != 1 {
		t.Fatalf("identical range within the window must hit the cache, got %d calls", fetcher.calls)
	}
}

func TestWeatherPreset(t *testing.T) {
	fetcher := &stubFetcher{records: []weather.Record{{Date: "2025-02-13", TempC: 30}}}
	app, h := newTestApp(fetcher)
	h.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }
	cookie := login(t, app)

	wr := weatherGet(t, app, cookie, "preset=30days&metrics=temp")
	if wr.Start != "2025-02-13" || wr.End != "2025-03-15" {
		t.Errorf("preset range = %s..%s, want 2025-02-13..2025-03-15", wr.Start, wr.End)
	}
	if fetcher.calls != 1 {
		t.Fatalf("preset selection must trigger the fetch pipeline, got %d calls", fetcher.calls)
	}
}

func TestWeatherProviderFailureSurfacesRetry(t *testing.T) {
	fetcher := &stubFetcher{err: context.DeadlineExceeded}
	app, _ := newTestApp(fetcher)
	cookie := login(t, app)

	end := time.Now().UTC().Format(weather.DateLayout)
	start := time.Now().UTC().AddDate(0, 0, -2).Format(weather.DateLayout)
	wr := weatherGet(t, app, cookie, "start="+start+"&end="+end+"&metrics=temp")
	if !wr.Retry {
		t.Error("provider failure must surface a retry affordance")
	}
	if !strings.Contains(wr.Alert.Message, "Error fetching weather data") {
		t.Errorf("unexpected message: %q", wr.Alert.Message)
	}
}
