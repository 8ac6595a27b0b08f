// Package repository maps tracker entities to and from spreadsheet rows and
// exposes collection-level persistence on top of the sheets engine.
package repository

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/thistracker/thistracker-backend/internal/sheets"
)

// Column orders are the wire format. Existing spreadsheets were written with
// exactly these headers in exactly this order; do not reorder.
var (
	clientHeaders = []string{
		"ID", "Name", "Email", "Phone", "Address", "Notes",
		"Created At", "Updated At", "Is Active",
	}
	projectHeaders = []string{
		"ID", "Client ID", "Name", "Description", "Status", "Hourly Rate",
		"Budget", "Start Date", "End Date", "Created At", "Updated At", "Is Active",
	}
	taskHeaders = []string{
		"ID", "Project ID", "Name", "Description", "Status", "Priority",
		"Estimated Hours", "Created At", "Updated At", "Is Active",
	}
	timeEntryHeaders = []string{
		"ID", "Task ID", "Project ID", "Client ID", "Description", "Start Time",
		"End Time", "Duration (ms)", "Hourly Rate", "Total Amount", "Notes",
		"Created At", "Updated At", "Is Active",
	}
	settingsHeaders = []string{"Key", "Value", "Description", "Type", "Updated At"}
)

// TabSet binds configured tab names to their header schemas.
type TabSet struct {
	Clients     sheets.Tab
	Projects    sheets.Tab
	Tasks       sheets.Tab
	TimeEntries sheets.Tab
	Settings    sheets.Tab
}

func NewTabSet(clients, projects, tasks, timeEntries, settings string) TabSet {
	return TabSet{
		Clients:     sheets.Tab{Name: clients, Headers: clientHeaders},
		Projects:    sheets.Tab{Name: projects, Headers: projectHeaders},
		Tasks:       sheets.Tab{Name: tasks, Headers: taskHeaders},
		TimeEntries: sheets.Tab{Name: timeEntries, Headers: timeEntryHeaders},
		Settings:    sheets.Tab{Name: settings, Headers: settingsHeaders},
	}
}

// ProvisionSpec describes this tab layout to the provisioning engine.
// Clients, Projects, Tasks and Settings are ensured on every initialization;
// the Time Entries tab is written eagerly only on the created path and is
// otherwise repaired lazily by the sync engine's create-then-retry write.
func (ts TabSet) ProvisionSpec(mainName, baseName, appName, version string) sheets.ProvisionSpec {
	seed := map[string]any{
		"appName":              appName,
		"version":              version,
		"createdAt":            time.Now().UTC().Format(time.RFC3339),
		"lastUpdated":          time.Now().UTC().Format(time.RFC3339),
		"dataStructureVersion": version,
		"collections": map[string]any{
			"clients":     ts.Clients.Name,
			"projects":    ts.Projects.Name,
			"tasks":       ts.Tasks.Name,
			"timeEntries": ts.TimeEntries.Name,
		},
	}

	return sheets.ProvisionSpec{
		MainName:    mainName,
		BaseName:    baseName,
		Required:    []sheets.Tab{ts.Clients, ts.Projects, ts.Tasks, ts.Settings},
		Eager:       []sheets.Tab{ts.TimeEntries},
		SettingsTab: ts.Settings,
		SeedRows:    settingsToRows(seed, time.Now().UTC()),
	}
}

// settingsToRows encodes a settings map into tab rows, keys sorted for a
// stable layout. Object values are stored as JSON with an "object" type tag
// so reads can round-trip them.
func settingsToRows(values map[string]any, now time.Time) [][]string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		value, typeTag := encodeSettingValue(values[k])
		rows = append(rows, []string{k, value, "Setting: " + k, typeTag, formatTime(now)})
	}
	return rows
}

func encodeSettingValue(v any) (string, string) {
	switch tv := v.(type) {
	case string:
		return tv, "string"
	case bool:
		if tv {
			return "true", "boolean"
		}
		return "false", "boolean"
	case float64:
		return formatFloat(tv), "number"
	case int:
		return formatFloat(float64(tv)), "number"
	case int64:
		return formatFloat(float64(tv)), "number"
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", "string"
		}
		return string(raw), "object"
	}
}
