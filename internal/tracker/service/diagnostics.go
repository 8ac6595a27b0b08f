package service

import (
	"context"
	"fmt"
	"time"

	"github.com/thistracker/thistracker-backend/internal/sheets"
	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

// SpreadsheetInfo describes the backing spreadsheet for debugging.
type SpreadsheetInfo struct {
	SpreadsheetID string           `json:"spreadsheetId"`
	Title         string           `json:"title"`
	Tabs          []sheets.TabInfo `json:"sheets"`
	URL           string           `json:"url"`
}

// IntegrityReport is the outcome of a structural check over the required tabs.
type IntegrityReport struct {
	IsIntact bool   `json:"isIntact"`
	Message  string `json:"message"`
}

// EntityCounts holds the size of each collection.
type EntityCounts struct {
	Clients     int `json:"clients"`
	Projects    int `json:"projects"`
	Tasks       int `json:"tasks"`
	TimeEntries int `json:"timeEntries"`
}

// RecentActivity holds the latest update timestamp per collection.
type RecentActivity struct {
	LastClient    *time.Time `json:"lastClient,omitempty"`
	LastProject   *time.Time `json:"lastProject,omitempty"`
	LastTask      *time.Time `json:"lastTask,omitempty"`
	LastTimeEntry *time.Time `json:"lastTimeEntry,omitempty"`
}

// DataOverview is a dashboard summary of the whole dataset.
type DataOverview struct {
	SpreadsheetInfo *SpreadsheetInfo `json:"spreadsheetInfo"`
	Counts          EntityCounts     `json:"counts"`
	RecentActivity  RecentActivity   `json:"recentActivity"`
}

// GetSpreadsheetInfo returns metadata about the backing spreadsheet.
func (s *DataService) GetSpreadsheetInfo(ctx context.Context) (*SpreadsheetInfo, error) {
	meta, err := s.store.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	return &SpreadsheetInfo{
		SpreadsheetID: meta.SpreadsheetID,
		Title:         meta.Title,
		Tabs:          meta.Tabs,
		URL:           fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", meta.SpreadsheetID),
	}, nil
}

// VerifyIntegrity checks that every required tab exists, recreating any that
// went missing since initialization.
func (s *DataService) VerifyIntegrity(ctx context.Context) (*IntegrityReport, error) {
	intact, err := s.prov.VerifyIntegrity(ctx, s.store.SpreadsheetID())
	if err != nil {
		return nil, err
	}
	report := &IntegrityReport{IsIntact: intact}
	if intact {
		report.Message = "All required tabs (Clients, Projects, Tasks, Settings) are present and accessible."
	} else {
		report.Message = "Some required tabs are missing or inaccessible. They have been recreated."
	}
	return report, nil
}

// GetDataOverview aggregates collection counts and last-touched timestamps.
func (s *DataService) GetDataOverview(ctx context.Context) (*DataOverview, error) {
	info, err := s.GetSpreadsheetInfo(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.GetClients(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.GetProjects(ctx, "")
	if err != nil {
		return nil, err
	}
	tasks, err := s.GetTasks(ctx, "")
	if err != nil {
		return nil, err
	}
	entries, err := s.GetTimeEntries(ctx, domain.TimeEntryFilter{Limit: 100})
	if err != nil {
		return nil, err
	}

	overview := &DataOverview{
		SpreadsheetInfo: info,
		Counts: EntityCounts{
			Clients:     len(clients),
			Projects:    len(projects),
			Tasks:       len(tasks),
			TimeEntries: len(entries),
		},
	}
	for _, c := range clients {
		overview.RecentActivity.LastClient = latest(overview.RecentActivity.LastClient, c.UpdatedAt)
	}
	for _, p := range projects {
		overview.RecentActivity.LastProject = latest(overview.RecentActivity.LastProject, p.UpdatedAt)
	}
	for _, t := range tasks {
		overview.RecentActivity.LastTask = latest(overview.RecentActivity.LastTask, t.UpdatedAt)
	}
	for _, e := range entries {
		overview.RecentActivity.LastTimeEntry = latest(overview.RecentActivity.LastTimeEntry, e.UpdatedAt)
	}
	return overview, nil
}

func latest(current *time.Time, candidate time.Time) *time.Time {
	if current == nil || candidate.After(*current) {
		return &candidate
	}
	return current
}
