package web

import "github.com/gofiber/fiber/v2/middleware/session"

// Tab identifies one of the four dashboard views. Exactly one tab is active
// at a time; the active tab lives in the session so a re-render highlights
// the last-clicked tab.
type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabUpload    Tab = "upload"
	TabWeather   Tab = "weather"
	TabSettings  Tab = "settings"
)

const sessionKeyActiveTab = "active_tab"

// DefaultTab is the view shown on first render.
const DefaultTab = TabUpload

// ParseTab maps a tab-selection value to a Tab.
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabDashboard, TabUpload, TabWeather, TabSettings:
		return Tab(s), true
	}
	return "", false
}

// Title returns the navigation label for the tab.
func (t Tab) Title() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabUpload:
		return "Data Upload"
	case TabWeather:
		return "Weather"
	case TabSettings:
		return "Settings"
	}
	return string(t)
}

// AllTabs in display order.
func AllTabs() []Tab {
	return []Tab{TabDashboard, TabUpload, TabWeather, TabSettings}
}

// activeTab reads the session's tab, falling back to the default.
func activeTab(sess *session.Session) Tab {
	if v, ok := sess.Get(sessionKeyActiveTab).(string); ok {
		if tab, valid := ParseTab(v); valid {
			return tab
		}
	}
	return DefaultTab
}

// selectTab records a tab transition. The previous tab needs no explicit
// clearing: views are rebuilt from scratch and highlight only the stored tab.
func selectTab(sess *session.Session, tab Tab) error {
	sess.Set(sessionKeyActiveTab, string(tab))
	return sess.Save()
}
