package domain

import "time"

// Form types carry caller input for creates; patch types carry partial input
// for updates, with pointers marking which fields were supplied.

type ClientForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type ClientPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type ProjectForm struct {
	ClientID    string     `json:"clientId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	HourlyRate  *float64   `json:"hourlyRate"`
	Budget      *float64   `json:"budget"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type ProjectPatch struct {
	ClientID    *string    `json:"clientId"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	HourlyRate  *float64   `json:"hourlyRate"`
	Budget      *float64   `json:"budget"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type TaskForm struct {
	ProjectID      string   `json:"projectId"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	EstimatedHours *float64 `json:"estimatedHours"`
}

type TaskPatch struct {
	ProjectID      *string  `json:"projectId"`
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	EstimatedHours *float64 `json:"estimatedHours"`
}

type TimeEntryForm struct {
	TaskID      string     `json:"taskId"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	HourlyRate  *float64   `json:"hourlyRate"`
	Notes       string     `json:"notes"`
}

type TimeEntryPatch struct {
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	HourlyRate  *float64   `json:"hourlyRate"`
	Notes       *string    `json:"notes"`
}

// TimeEntryFilter narrows a listing; all fields are optional and combine.
type TimeEntryFilter struct {
	ClientID  string
	ProjectID string
	TaskID    string
	Start     *time.Time
	End       *time.Time
	Limit     int
	Page      int
}
