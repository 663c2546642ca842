package web

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/rkondla/chiller-dashboard/internal/auth"
	"github.com/rkondla/chiller-dashboard/internal/chart"
	"github.com/rkondla/chiller-dashboard/internal/config"
	"github.com/rkondla/chiller-dashboard/internal/dataset"
	"github.com/rkondla/chiller-dashboard/internal/weather"
	"github.com/rkondla/chiller-dashboard/internal/weather/providers"
)

var validate = validator.New()

const (
	sessionKeyWeatherStart = "weather_start"
	sessionKeyWeatherEnd   = "weather_end"
)

// Handler owns the HTTP surface: the login gate, the tabbed dashboard, and
// the JSON endpoints the embedded front end pulls chart data from.
type Handler struct {
	creds    auth.Credentials
	sessions *session.Store
	datasets *dataset.Store
	cache    *weather.FetchCache

	now func() time.Time
}

func NewHandler(cfg *config.AppConfig, sessions *session.Store, datasets *dataset.Store, cache *weather.FetchCache) *Handler {
	return &Handler{
		creds:    auth.Credentials{Username: cfg.OperatorUsername, Password: cfg.OperatorPassword},
		sessions: sessions,
		datasets: datasets,
		cache:    cache,
		now:      time.Now,
	}
}

// Register wires the HTTP handlers into the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(auth.LoginPath, fiber.StatusFound)
	})

	app.Get("/login", h.loginPage)
	app.Post("/login", h.loginSubmit)
	app.Get("/logout", h.logout)

	dash := app.Group("/dashboard", auth.RequireAuth(h.sessions))
	dash.Get("/", h.dashboardPage)
	dash.Post("/upload", h.upload)
	dash.Post("/reset", h.reset)
	dash.Get("/chart", h.telemetryChart)
	dash.Get("/weather/data", h.weatherData)
	// Any other dashboard path renders the page for the current tab.
	dash.Get("/*", h.dashboardPage)
}

func (h *Handler) loginPage(c *fiber.Ctx) error {
	return render(c, loginTemplate, loginView{})
}

type loginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *Handler) loginSubmit(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, loginTemplate, loginView{})
	}
	if !auth.SubmitEnabled(req.Username, req.Password) {
		// The submit control is disabled while either field is empty, so an
		// empty submission only happens outside the UI. Re-render plainly.
		return render(c, loginTemplate, loginView{Username: req.Username})
	}

	result := h.creds.Validate(req.Username, req.Password)
	if result.ShouldRedirect {
		sess, err := h.sessions.Get(c)
		if err != nil {
			return fmt.Errorf("getting session: %w", err)
		}
		if err := auth.SetAuthenticated(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		log.Printf("INFO: operator logged in")
		return c.Redirect("/dashboard", fiber.StatusFound)
	}

	return render(c, loginTemplate, loginView{
		Username:      req.Username,
		UsernameError: result.UsernameError,
		PasswordError: result.PasswordError,
	})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	if sess, err := h.sessions.Get(c); err == nil {
		if err := auth.ClearAuthenticated(sess); err != nil {
			log.Printf("ERROR: clearing session: %v", err)
		}
	}
	return c.Redirect(auth.LoginPath, fiber.StatusFound)
}

func (h *Handler) dashboardPage(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	// A tab click is a transition; without one, the last-clicked tab stays
	// highlighted.
	tab := activeTab(sess)
	if requested, ok := ParseTab(c.Query("tab")); ok {
		tab = requested
		if err := selectTab(sess, tab); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
	}

	return render(c, dashboardTemplate, h.buildDashboardView(tab, sess, nil))
}

func (h *Handler) upload(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}
	if err := selectTab(sess, TabUpload); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	result := h.processUpload(c)
	return render(c, dashboardTemplate, h.buildDashboardView(TabUpload, sess, result))
}

// processUpload validates and parses the posted file. Any failure leaves the
// dataset store untouched.
func (h *Handler) processUpload(c *fiber.Ctx) *uploadResult {
	header, err := c.FormFile("file")
	if err != nil {
		if ds := h.datasets.Current(); ds != nil {
			return &uploadResult{Previous: true, Rows: ds.NumRows(), Cols: len(ds.Columns)}
		}
		return &uploadResult{Error: "No file uploaded yet."}
	}

	file, err := header.Open()
	if err != nil {
		return &uploadResult{Error: "There was an error processing the file.", Detail: err.Error()}
	}
	defer file.Close()

	ds, err := dataset.ParseCSV(header.Filename, file)
	if err != nil {
		if errors.Is(err, dataset.ErrNotCSV) {
			return &uploadResult{Error: "Unsupported file format. Please upload a valid CSV file."}
		}
		return &uploadResult{Error: "There was an error processing the file.", Detail: err.Error()}
	}

	h.datasets.Replace(ds)
	log.Printf("INFO: dataset replaced: %s (%d rows, %d columns)", ds.Filename, ds.NumRows(), len(ds.Columns))

	cls := dataset.ClassifyColumns(ds.Columns)
	return &uploadResult{
		Filename:   ds.Filename,
		Rows:       ds.NumRows(),
		Cols:       len(ds.Columns),
		Power:      cls.Power,
		Supply:     cls.Supply,
		Return:     cls.Return,
		AllColumns: ds.Columns,
	}
}

func (h *Handler) reset(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}
	if err := selectTab(sess, TabUpload); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	h.datasets.Clear()
	log.Printf("INFO: dataset cleared")

	return render(c, dashboardTemplate, h.buildDashboardView(TabUpload, sess, &uploadResult{Cleared: true}))
}

// telemetryChart returns the figure for one chart section as JSON.
func (h *Handler) telemetryChart(c *fiber.Ctx) error {
	kind := c.Query("kind")
	var title, yTitle string
	for _, k := range chartKinds {
		if k.Kind == kind {
			title, yTitle = k.Title, k.YTitle
		}
	}
	if title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "unknown chart kind")
	}

	selected := splitCSV(c.Query("cols"))

	ds := h.datasets.Current()
	if ds == nil {
		return c.JSON(chart.Placeholder(title, "Date", yTitle, "No data to display."))
	}

	xName := ds.XColumn()
	xs, _ := ds.ColumnValues(xName)
	var cols []chart.RawColumn
	for _, name := range selected {
		if values, ok := ds.ColumnValues(name); ok {
			cols = append(cols, chart.RawColumn{Name: name, Values: values})
		}
	}

	return c.JSON(chart.TimeSeries(title, xName, yTitle, xs, cols, selected))
}

type weatherQuery struct {
	Start   string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End     string `query:"end" validate:"omitempty,datetime=2006-01-02"`
	Preset  string `query:"preset"`
	Metrics string `query:"metrics"`
}

type alert struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type weatherResponse struct {
	Alert  alert         `json:"alert"`
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Figure *chart.Figure `json:"figure,omitempty"`
	Retry  bool          `json:"retry"`
}

// weatherData runs the validate-then-fetch pipeline. Validation failures and
// provider failures are inline alerts, never HTTP errors; the prior chart
// state stays untouched on failure.
func (h *Handler) weatherData(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	var req weatherQuery
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(weatherResponse{
			Alert: alert{Level: "danger", Message: weather.ErrBadDateFormat.Error()},
			Start: req.Start, End: req.End,
			Retry: true,
		})
	}

	today := h.now()

	// A preset click computes a concrete range and runs the same pipeline a
	// manual edit would.
	r := weather.Range{Start: req.Start, End: req.End}
	if req.Preset != "" {
		r = weather.PresetRange(req.Preset, today)
	}

	check, err := weather.ValidateRange(r, today)
	if err != nil {
		return c.JSON(weatherResponse{
			Alert: alert{Level: "danger", Message: err.Error()},
			Start: r.Start, End: r.End,
			Retry: true,
		})
	}

	if check.Defaulted {
		// Show the substituted range only; the fetch happens once the
		// populated dates come back on the next request.
		return c.JSON(weatherResponse{
			Alert: alert{Level: "success", Message: check.Notice},
			Start: check.Range.Start, End: check.Range.End,
		})
	}

	records, err := h.cache.Fetch(c.UserContext(), check.Range)
	if err != nil {
		return c.JSON(weatherResponse{
			Alert: alert{Level: "danger", Message: providerMessage(err)},
			Start: check.Range.Start, End: check.Range.End,
			Retry: true,
		})
	}

	sess.Set(sessionKeyWeatherStart, check.Range.Start)
	sess.Set(sessionKeyWeatherEnd, check.Range.End)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	selected := splitCSV(req.Metrics)
	if len(selected) == 0 {
		selected = []string{"temp"}
	}

	figure := weatherFigure(h.cache.Location(), records, selected)
	return c.JSON(weatherResponse{
		Alert: alert{
			Level: "success",
			Message: fmt.Sprintf("Weather data fetched for %s from %s.",
				h.cache.Location(), weather.DisplaySpan(check.Range)),
		},
		Start: check.Range.Start, End: check.Range.End,
		Figure: &figure,
	})
}

func providerMessage(err error) string {
	switch {
	case errors.Is(err, providers.ErrRateLimited):
		return "Rate limit exceeded, please try again later."
	case errors.Is(err, providers.ErrBadRequest):
		return "Invalid date range or location."
	}
	return fmt.Sprintf("Error fetching weather data: %v", err)
}

func weatherFigure(location string, records []weather.Record, selected []string) chart.Figure {
	xs := make([]string, len(records))
	metrics := make(map[string][]float64)
	for i, rec := range records {
		xs[i] = rec.Date
		for _, key := range selected {
			if v, ok := rec.Metric(key); ok {
				metrics[key] = append(metrics[key], v)
			}
		}
	}
	fig := chart.MetricSeries("Weather Data for "+location, "Date", "Value", xs, metrics, selected)
	for i := range fig.Series {
		fig.Series[i].Name = weather.MetricLabel(fig.Series[i].Name)
	}
	return fig
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
