package web

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/rkondla/chiller-dashboard/internal/dataset"
	"github.com/rkondla/chiller-dashboard/internal/weather"
)

// loginView is the data behind the login page.
type loginView struct {
	Username      string
	UsernameError string
	PasswordError string
}

type tabLink struct {
	ID     string
	Title  string
	Active bool
}

// uploadResult summarizes the outcome of the last upload or reset action.
type uploadResult struct {
	Error   string
	Detail  string
	Cleared bool

	// Previous is set when the view re-renders without a new file while a
	// dataset is still loaded.
	Previous bool

	Filename   string
	Rows       int
	Cols       int
	Power      []string
	Supply     []string
	Return     []string
	AllColumns []string
}

// chartSection is one telemetry chart block on the Dashboard tab.
type chartSection struct {
	Title   string
	Kind    string
	YTitle  string
	Columns []string
}

// dashboardView is the data behind the tabbed dashboard page. The whole view
// is rebuilt from (active tab, dataset store, session) on every request; no
// state lives in the view itself.
type dashboardView struct {
	ActiveTab string
	Tabs      []tabLink
	Location  string

	HasDataset bool
	NoDetected bool
	Sections   []chartSection
	Overlap    []string
	AllColumns []string

	Upload *uploadResult

	WeatherStart string
	WeatherEnd   string
}

var chartKinds = []struct {
	Kind   string
	Title  string
	YTitle string
}{
	{"power", "Chiller Power", "Power (kW)"},
	{"supply", "Chiller Water Supply Temperature", "Temperature (°C)"},
	{"return", "Chiller Water Return Temperature", "Temperature (°C)"},
}

func buildTabs(active Tab) []tabLink {
	var links []tabLink
	for _, t := range AllTabs() {
		links = append(links, tabLink{
			ID:     string(t),
			Title:  t.Title(),
			Active: t == active,
		})
	}
	return links
}

// buildDashboardView assembles the page model for the active tab. Column
// classification is recomputed here on every render; it is never cached.
func (h *Handler) buildDashboardView(tab Tab, sess *session.Session, upload *uploadResult) dashboardView {
	view := dashboardView{
		ActiveTab: string(tab),
		Tabs:      buildTabs(tab),
		Location:  h.cache.Location(),
		Upload:    upload,
	}

	if ds := h.datasets.Current(); ds != nil {
		view.HasDataset = true
		view.AllColumns = ds.Columns

		cls := dataset.ClassifyColumns(ds.Columns)
		view.NoDetected = cls.Empty()
		view.Overlap = cls.Overlap()
		for _, k := range chartKinds {
			view.Sections = append(view.Sections, chartSection{
				Title:   k.Title,
				Kind:    k.Kind,
				YTitle:  k.YTitle,
				Columns: cls.ByKind(k.Kind),
			})
		}
	}

	def := weather.DefaultRange(h.now())
	view.WeatherStart, view.WeatherEnd = def.Start, def.End
	if v, ok := sess.Get(sessionKeyWeatherStart).(string); ok && v != "" {
		view.WeatherStart = v
	}
	if v, ok := sess.Get(sessionKeyWeatherEnd).(string); ok && v != "" {
		view.WeatherEnd = v
	}

	return view
}

func render(c *fiber.Ctx, tpl *template.Template, data interface{}) error {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
