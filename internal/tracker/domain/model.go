// Package domain holds the tracker entities persisted as spreadsheet rows.
package domain

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusPaused    ProjectStatus = "paused"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// ParseProjectStatus maps a raw cell to a status, falling back to active for
// anything unrecognized.
func ParseProjectStatus(s string) ProjectStatus {
	switch ProjectStatus(s) {
	case ProjectStatusActive, ProjectStatusPaused, ProjectStatusCompleted, ProjectStatusCancelled:
		return ProjectStatus(s)
	default:
		return ProjectStatusActive
	}
}

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func ParseTaskStatus(s string) TaskStatus {
	switch TaskStatus(s) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return TaskStatus(s)
	default:
		return TaskStatusTodo
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func ParseTaskPriority(s string) TaskPriority {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return TaskPriority(s)
	default:
		return TaskPriorityMedium
	}
}

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsActive  bool      `json:"isActive"`
}

type Project struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"clientId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	HourlyRate  *float64      `json:"hourlyRate,omitempty"`
	Budget      *float64      `json:"budget,omitempty"`
	StartDate   *time.Time    `json:"startDate,omitempty"`
	EndDate     *time.Time    `json:"endDate,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	IsActive    bool          `json:"isActive"`
}

type Task struct {
	ID             string       `json:"id"`
	ProjectID      string       `json:"projectId"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	EstimatedHours *float64     `json:"estimatedHours,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	IsActive       bool         `json:"isActive"`
}

// TimeEntry denormalizes ProjectID and ClientID from the owning task at
// creation time. They are never re-derived afterwards, even if the task is
// later moved to another project.
type TimeEntry struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"taskId"`
	ProjectID   string     `json:"projectId"`
	ClientID    string     `json:"clientId"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	DurationMs  *int64     `json:"duration,omitempty"`
	HourlyRate  *float64   `json:"hourlyRate,omitempty"`
	TotalAmount *float64   `json:"totalAmount,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	IsActive    bool       `json:"isActive"`
}

// Running reports whether the entry has no end time yet.
func (e TimeEntry) Running() bool {
	return e.EndTime == nil
}

// Setting is one row of the Settings tab. Type tags the value so reads can
// round-trip numbers, booleans and JSON objects.
type Setting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const (
	SettingTypeString  = "string"
	SettingTypeNumber  = "number"
	SettingTypeBoolean = "boolean"
	SettingTypeObject  = "object"
)
