// Package appeasy reads and checks tree/app.easy documents, the JSON app description stored
// as one of the generated project files.
package appeasy

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	ConventionalVersion = "1.0.0"
	ActionNavigate      = "navigate"
)

type App struct {
	AppName     string   `json:"appName"`
	AppVersion  string   `json:"appVersion"`
	StartScreen string   `json:"startScreen"`
	AdmobAppID  string   `json:"admobAppId"`
	Toolbar     Toolbar  `json:"toolbar"`
	Screens     []Screen `json:"screens"`
	Actions     []Action `json:"actions"`
}

type Toolbar struct {
	Title string     `json:"title"`
	Menu  []MenuItem `json:"menu,omitempty"`
}

type MenuItem struct {
	ID     string `json:"id"`
	Icon   string `json:"icon"`
	Action string `json:"action"`
}

// Screen keeps widgets opaque; their shape is owned by the app runtime.
type Screen struct {
	Name    string           `json:"name"`
	Title   string           `json:"title"`
	Widgets []map[string]any `json:"widgets"`
}

type Action struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
	Screen string `json:"screen,omitempty"`
	Target string `json:"target,omitempty"`
}

// Destination is the screen a navigate action points at.
func (a Action) Destination() string {
	if a.Screen != "" {
		return a.Screen
	}
	return a.Target
}

// Parse decodes an app.easy document.
func Parse(raw string) (App, error) {
	var app App
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &app); err != nil {
		return App{}, fmt.Errorf("app.easy is not valid JSON: %w", err)
	}
	return app, nil
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

// Valid reports whether the report has no errors. Warnings do not count.
func (r Report) Valid() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

func (r *Report) errorf(field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityError, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityWarning, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks app against the app.easy contract. When adIdentifier is non-empty the
// admobAppId must echo it exactly.
func Validate(app App, adIdentifier string) Report {
	report := Report{Issues: []Issue{}}

	if strings.TrimSpace(app.AppName) == "" {
		report.errorf("appName", "appName is required")
	}
	switch {
	case app.AppVersion == "":
		report.errorf("appVersion", "appVersion is required")
	case app.AppVersion != ConventionalVersion:
		report.warnf("appVersion", "appVersion is %q, new apps start at %q", app.AppVersion, ConventionalVersion)
	}
	if adIdentifier != "" && app.AdmobAppID != adIdentifier {
		report.errorf("admobAppId", "admobAppId %q does not match the requested identifier %q", app.AdmobAppID, adIdentifier)
	}
	if strings.TrimSpace(app.Toolbar.Title) == "" {
		report.errorf("toolbar.title", "toolbar title is required")
	}

	screens := make(map[string]bool, len(app.Screens))
	switch len(app.Screens) {
	case 0:
		report.errorf("screens", "at least one screen is required")
	case 1:
		report.warnf("screens", "only one screen declared, apps are expected to have at least 2")
	}
	for i, screen := range app.Screens {
		field := fmt.Sprintf("screens[%d].name", i)
		switch {
		case screen.Name == "":
			report.errorf(field, "screen name is required")
		case screens[screen.Name]:
			report.errorf(field, "duplicate screen name %q", screen.Name)
		}
		screens[screen.Name] = true
	}

	if app.StartScreen == "" {
		report.errorf("startScreen", "startScreen is required")
	} else if !screens[app.StartScreen] {
		report.errorf("startScreen", "startScreen %q is not a declared screen", app.StartScreen)
	}

	actionIDs := make(map[string]bool, len(app.Actions))
	navigates := 0
	for i, action := range app.Actions {
		if action.ID != "" {
			actionIDs[action.ID] = true
		}
		if action.Type != ActionNavigate {
			continue
		}
		if dest := action.Destination(); !screens[dest] {
			report.errorf(fmt.Sprintf("actions[%d].screen", i), "navigate action points at undeclared screen %q", dest)
			continue
		}
		navigates++
	}
	if navigates == 0 {
		report.errorf("actions", "at least one navigate action to a declared screen is required")
	}

	for i, item := range app.Toolbar.Menu {
		if item.Action != "" && !actionIDs[item.Action] {
			report.warnf(fmt.Sprintf("toolbar.menu[%d].action", i), "menu item %q refers to unknown action %q", item.ID, item.Action)
		}
	}

	return report
}

// Check parses raw and validates it in one step.
func Check(raw, adIdentifier string) (Report, error) {
	app, err := Parse(raw)
	if err != nil {
		return Report{}, err
	}
	return Validate(app, adIdentifier), nil
}
