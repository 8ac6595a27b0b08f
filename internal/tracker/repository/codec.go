package repository

import (
	"fmt"
	"time"

	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

// Row codecs. Encoding is total; decoding is defensive: a structurally
// invalid row (missing id or other required fields) becomes a placeholder
// entity with an "error-" prefixed id and IsActive=false, so one corrupt row
// never aborts loading the rest of a collection.

func placeholderID(raw string) string {
	if raw != "" {
		return "error-" + raw
	}
	return fmt.Sprintf("error-%d", time.Now().UnixMilli())
}

func clientToRow(c domain.Client) []string {
	return []string{
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Address,
		c.Notes,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
		formatBool(c.IsActive),
	}
}

func rowToClient(row []string) domain.Client {
	now := time.Now().UTC()
	if cell(row, 0) == "" || cell(row, 1) == "" {
		return domain.Client{
			ID:        placeholderID(cell(row, 0)),
			Name:      "Malformed client",
			CreatedAt: now,
			UpdatedAt: now,
			IsActive:  false,
		}
	}

	return domain.Client{
		ID:        cell(row, 0),
		Name:      cell(row, 1),
		Email:     cell(row, 2),
		Phone:     cell(row, 3),
		Address:   cell(row, 4),
		Notes:     cell(row, 5),
		CreatedAt: parseTimeOr(cell(row, 6), now),
		UpdatedAt: parseTimeOr(cell(row, 7), now),
		IsActive:  parseActive(cell(row, 8)),
	}
}

func projectToRow(p domain.Project) []string {
	return []string{
		p.ID,
		p.ClientID,
		p.Name,
		p.Description,
		string(p.Status),
		formatFloatPtr(p.HourlyRate),
		formatFloatPtr(p.Budget),
		formatTimePtr(p.StartDate),
		formatTimePtr(p.EndDate),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
		formatBool(p.IsActive),
	}
}

func rowToProject(row []string) domain.Project {
	now := time.Now().UTC()
	if cell(row, 0) == "" || cell(row, 2) == "" {
		return domain.Project{
			ID:        placeholderID(cell(row, 0)),
			Name:      "Malformed project",
			Status:    domain.ProjectStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
			IsActive:  false,
		}
	}

	return domain.Project{
		ID:          cell(row, 0),
		ClientID:    cell(row, 1),
		Name:        cell(row, 2),
		Description: cell(row, 3),
		Status:      domain.ParseProjectStatus(cell(row, 4)),
		HourlyRate:  parseFloatPtr(cell(row, 5)),
		Budget:      parseFloatPtr(cell(row, 6)),
		StartDate:   parseTimePtr(cell(row, 7)),
		EndDate:     parseTimePtr(cell(row, 8)),
		CreatedAt:   parseTimeOr(cell(row, 9), now),
		UpdatedAt:   parseTimeOr(cell(row, 10), now),
		IsActive:    parseActive(cell(row, 11)),
	}
}

func taskToRow(t domain.Task) []string {
	return []string{
		t.ID,
		t.ProjectID,
		t.Name,
		t.Description,
		string(t.Status),
		string(t.Priority),
		formatFloatPtr(t.EstimatedHours),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
		formatBool(t.IsActive),
	}
}

func rowToTask(row []string) domain.Task {
	now := time.Now().UTC()
	if cell(row, 0) == "" || cell(row, 1) == "" || cell(row, 2) == "" {
		return domain.Task{
			ID:        placeholderID(cell(row, 0)),
			ProjectID: cell(row, 1),
			Name:      "Malformed task",
			Status:    domain.TaskStatusTodo,
			Priority:  domain.TaskPriorityMedium,
			CreatedAt: now,
			UpdatedAt: now,
			IsActive:  false,
		}
	}

	return domain.Task{
		ID:             cell(row, 0),
		ProjectID:      cell(row, 1),
		Name:           cell(row, 2),
		Description:    cell(row, 3),
		Status:         domain.ParseTaskStatus(cell(row, 4)),
		Priority:       domain.ParseTaskPriority(cell(row, 5)),
		EstimatedHours: parseFloatPtr(cell(row, 6)),
		CreatedAt:      parseTimeOr(cell(row, 7), now),
		UpdatedAt:      parseTimeOr(cell(row, 8), now),
		IsActive:       parseActive(cell(row, 9)),
	}
}

func timeEntryToRow(e domain.TimeEntry) []string {
	return []string{
		e.ID,
		e.TaskID,
		e.ProjectID,
		e.ClientID,
		e.Description,
		formatTime(e.StartTime),
		formatTimePtr(e.EndTime),
		formatInt64Ptr(e.DurationMs),
		formatFloatPtr(e.HourlyRate),
		formatFloatPtr(e.TotalAmount),
		e.Notes,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
		formatBool(e.IsActive),
	}
}

func rowToTimeEntry(row []string) domain.TimeEntry {
	now := time.Now().UTC()
	if cell(row, 0) == "" || cell(row, 1) == "" {
		return domain.TimeEntry{
			ID:          placeholderID(cell(row, 0)),
			TaskID:      cell(row, 1),
			Description: "Malformed time entry",
			StartTime:   now,
			CreatedAt:   now,
			UpdatedAt:   now,
			IsActive:    false,
		}
	}

	return domain.TimeEntry{
		ID:          cell(row, 0),
		TaskID:      cell(row, 1),
		ProjectID:   cell(row, 2),
		ClientID:    cell(row, 3),
		Description: cell(row, 4),
		StartTime:   parseTimeOr(cell(row, 5), now),
		EndTime:     parseTimePtr(cell(row, 6)),
		DurationMs:  parseInt64Ptr(cell(row, 7)),
		HourlyRate:  parseFloatPtr(cell(row, 8)),
		TotalAmount: parseFloatPtr(cell(row, 9)),
		Notes:       cell(row, 10),
		CreatedAt:   parseTimeOr(cell(row, 11), now),
		UpdatedAt:   parseTimeOr(cell(row, 12), now),
		IsActive:    parseActive(cell(row, 13)),
	}
}

func settingToRow(s domain.Setting) []string {
	return []string{s.Key, s.Value, s.Description, s.Type, formatTime(s.UpdatedAt)}
}

func rowToSetting(row []string) domain.Setting {
	return domain.Setting{
		Key:         cell(row, 0),
		Value:       cell(row, 1),
		Description: cell(row, 2),
		Type:        cell(row, 3),
		UpdatedAt:   parseTimeOr(cell(row, 4), time.Now().UTC()),
	}
}
