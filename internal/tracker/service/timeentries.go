package service

import (
	"context"
	"time"

	"github.com/thistracker/thistracker-backend/internal/apperr"
	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

const defaultTimeEntryLimit = 1000

// GetTimeEntries returns time entries newest first, narrowed by the filter.
// Entity and date-range filters apply before pagination.
func (s *DataService) GetTimeEntries(ctx context.Context, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error) {
	entries, err := s.store.TimeEntries(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if filter.ClientID != "" && e.ClientID != filter.ClientID {
			continue
		}
		if filter.ProjectID != "" && e.ProjectID != filter.ProjectID {
			continue
		}
		if filter.TaskID != "" && e.TaskID != filter.TaskID {
			continue
		}
		if filter.Start != nil && e.StartTime.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && e.StartTime.After(*filter.End) {
			continue
		}
		filtered = append(filtered, e)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTimeEntryLimit
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(filtered) {
		return []domain.TimeEntry{}, nil
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

// GetTimeEntry returns one time entry by id.
func (s *DataService) GetTimeEntry(ctx context.Context, id string) (*domain.TimeEntry, error) {
	entries, err := s.store.TimeEntries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "Time entry not found")
}

// CreateTimeEntry creates a time entry. The owning task and its project must
// exist at creation time; their ids are denormalized onto the entry and never
// re-derived afterwards. Duration and total amount are derived when an end
// time and an effective hourly rate are available.
func (s *DataService) CreateTimeEntry(ctx context.Context, form domain.TimeEntryForm) (*domain.TimeEntry, error) {
	if form.TaskID == "" {
		return nil, apperr.New(apperr.ValidationFailed, "Time entry taskId is required")
	}
	if form.Description == "" {
		return nil, apperr.New(apperr.ValidationFailed, "Time entry description is required")
	}
	if form.StartTime.IsZero() {
		return nil, apperr.New(apperr.ValidationFailed, "Time entry startTime is required")
	}

	tasks, err := s.store.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	var task *domain.Task
	for i := range tasks {
		if tasks[i].ID == form.TaskID {
			task = &tasks[i]
			break
		}
	}
	if task == nil {
		return nil, apperr.New(apperr.NotFound, "Task not found")
	}

	projects, err := s.store.Projects(ctx)
	if err != nil {
		return nil, err
	}
	var project *domain.Project
	for i := range projects {
		if projects[i].ID == task.ProjectID {
			project = &projects[i]
			break
		}
	}
	if project == nil {
		return nil, apperr.New(apperr.NotFound, "Project not found")
	}

	rate := form.HourlyRate
	if rate == nil {
		rate = project.HourlyRate
	}

	now := time.Now().UTC()
	entry := domain.TimeEntry{
		ID:          newID(),
		TaskID:      form.TaskID,
		ProjectID:   task.ProjectID,
		ClientID:    project.ClientID,
		Description: form.Description,
		StartTime:   form.StartTime,
		EndTime:     form.EndTime,
		HourlyRate:  rate,
		Notes:       form.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    true,
	}
	if form.EndTime != nil {
		ms := form.EndTime.Sub(form.StartTime).Milliseconds()
		entry.DurationMs = &ms
		if rate != nil {
			amount := float64(ms) / float64(time.Hour/time.Millisecond) * *rate
			entry.TotalAmount = &amount
		}
	}

	entries, err := s.store.TimeEntries(ctx)
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry)
	if err := s.store.SaveTimeEntries(ctx, entries); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateTimeEntry applies a partial update. When either time changes, the
// duration and total amount are recomputed from the merged times and the
// merged entry-level rate; the project rate is not consulted again.
func (s *DataService) UpdateTimeEntry(ctx context.Context, id string, patch domain.TimeEntryPatch) (*domain.TimeEntry, error) {
	entries, err := s.store.TimeEntries(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range entries {
		if entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperr.New(apperr.NotFound, "Time entry not found")
	}

	entry := entries[idx]
	if patch.Description != nil {
		entry.Description = *patch.Description
	}
	if patch.StartTime != nil {
		entry.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		entry.EndTime = patch.EndTime
	}
	if patch.HourlyRate != nil {
		entry.HourlyRate = patch.HourlyRate
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	entry.UpdatedAt = time.Now().UTC()

	if (patch.StartTime != nil || patch.EndTime != nil) && entry.EndTime != nil {
		ms := entry.EndTime.Sub(entry.StartTime).Milliseconds()
		entry.DurationMs = &ms
		if entry.HourlyRate != nil {
			amount := float64(ms) / float64(time.Hour/time.Millisecond) * *entry.HourlyRate
			entry.TotalAmount = &amount
		}
	}

	entries[idx] = entry
	if err := s.store.SaveTimeEntries(ctx, entries); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteTimeEntry removes a time entry.
func (s *DataService) DeleteTimeEntry(ctx context.Context, id string) error {
	entries, err := s.store.TimeEntries(ctx)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return s.store.SaveTimeEntries(ctx, kept)
}
