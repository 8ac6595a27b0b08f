package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/thistracker/thistracker-backend/internal/sheets"
	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

// Store persists tracker collections to spreadsheet tabs. Every read loads a
// whole tab and every save replaces a whole tab; callers own the
// read-modify-write cycle.
type Store struct {
	eng  *sheets.Engine
	tabs TabSet
}

func NewStore(eng *sheets.Engine, tabs TabSet) *Store {
	return &Store{eng: eng, tabs: tabs}
}

func (s *Store) SpreadsheetID() string {
	return s.eng.SpreadsheetID()
}

func (s *Store) Metadata(ctx context.Context) (*sheets.SpreadsheetMetadata, error) {
	return s.eng.Metadata(ctx)
}

func (s *Store) Clients(ctx context.Context) ([]domain.Client, error) {
	return sheets.ReadAll(ctx, s.eng, s.tabs.Clients.Name, rowToClient)
}

func (s *Store) SaveClients(ctx context.Context, clients []domain.Client) error {
	return sheets.WriteAll(ctx, s.eng, s.tabs.Clients, clients, clientToRow)
}

func (s *Store) Projects(ctx context.Context) ([]domain.Project, error) {
	return sheets.ReadAll(ctx, s.eng, s.tabs.Projects.Name, rowToProject)
}

func (s *Store) SaveProjects(ctx context.Context, projects []domain.Project) error {
	return sheets.WriteAll(ctx, s.eng, s.tabs.Projects, projects, projectToRow)
}

func (s *Store) Tasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := sheets.ReadAll(ctx, s.eng, s.tabs.Tasks.Name, rowToTask)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (s *Store) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	return sheets.WriteAll(ctx, s.eng, s.tabs.Tasks, tasks, taskToRow)
}

// TimeEntries tolerates a missing tab: the Time Entries tab is created
// lazily on first write, so an adopted spreadsheet may not have one yet.
func (s *Store) TimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	entries, err := sheets.ReadAll(ctx, s.eng, s.tabs.TimeEntries.Name, rowToTimeEntry)
	if err != nil {
		if errors.Is(err, sheets.ErrTabNotFound) {
			return []domain.TimeEntry{}, nil
		}
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime.After(entries[j].StartTime)
	})
	return entries, nil
}

func (s *Store) SaveTimeEntries(ctx context.Context, entries []domain.TimeEntry) error {
	return sheets.WriteAll(ctx, s.eng, s.tabs.TimeEntries, entries, timeEntryToRow)
}

// Settings returns the settings tab as typed values, keyed by setting name.
// The type tag column drives decoding; unknown tags fall back to string.
func (s *Store) Settings(ctx context.Context) (map[string]any, error) {
	rows, err := sheets.ReadAll(ctx, s.eng, s.tabs.Settings.Name, rowToSetting)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(rows))
	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		values[row.Key] = decodeSettingValue(row.Value, row.Type)
	}
	return values, nil
}

func (s *Store) SaveSettings(ctx context.Context, values map[string]any) error {
	now := time.Now().UTC()
	rows := settingsToRows(values, now)
	settings := make([]domain.Setting, 0, len(rows))
	for _, row := range rows {
		settings = append(settings, rowToSetting(row))
	}
	return sheets.WriteAll(ctx, s.eng, s.tabs.Settings, settings, settingToRow)
}

func decodeSettingValue(raw, typeTag string) any {
	switch typeTag {
	case domain.SettingTypeBoolean:
		return raw == "true"
	case domain.SettingTypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		return n
	case domain.SettingTypeObject:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return raw
		}
		return v
	default:
		return raw
	}
}
