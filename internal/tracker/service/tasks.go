package service

import (
	"context"
	"time"

	"github.com/thistracker/thistracker-backend/internal/apperr"
	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

// GetTasks returns all tasks newest first, optionally filtered by project id.
func (s *DataService) GetTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	tasks, err := s.store.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	if projectID == "" {
		return tasks, nil
	}
	filtered := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectID == projectID {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// GetTask returns one task by id.
func (s *DataService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	tasks, err := s.store.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "Task not found")
}

// CreateTask creates a new task under the given project id.
func (s *DataService) CreateTask(ctx context.Context, form domain.TaskForm) (*domain.Task, error) {
	if form.Name == "" {
		return nil, apperr.New(apperr.ValidationFailed, "Task name is required")
	}
	if form.ProjectID == "" {
		return nil, apperr.New(apperr.ValidationFailed, "Task projectId is required")
	}

	now := time.Now().UTC()
	task := domain.Task{
		ID:             newID(),
		ProjectID:      form.ProjectID,
		Name:           form.Name,
		Description:    form.Description,
		Status:         domain.ParseTaskStatus(form.Status),
		Priority:       domain.ParseTaskPriority(form.Priority),
		EstimatedHours: form.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
		IsActive:       true,
	}

	tasks, err := s.store.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, task)
	if err := s.store.SaveTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to an existing task. Moving a task to
// another project does not rewrite the denormalized ids on its time entries.
func (s *DataService) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	tasks, err := s.store.Tasks(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperr.New(apperr.NotFound, "Task not found")
	}

	task := tasks[idx]
	if patch.ProjectID != nil {
		task.ProjectID = *patch.ProjectID
	}
	if patch.Name != nil {
		task.Name = *patch.Name
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = domain.ParseTaskStatus(*patch.Status)
	}
	if patch.Priority != nil {
		task.Priority = domain.ParseTaskPriority(*patch.Priority)
	}
	if patch.EstimatedHours != nil {
		task.EstimatedHours = patch.EstimatedHours
	}
	task.UpdatedAt = time.Now().UTC()

	tasks[idx] = task
	if err := s.store.SaveTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task without touching its time entries.
func (s *DataService) DeleteTask(ctx context.Context, id string) error {
	tasks, err := s.store.Tasks(ctx)
	if err != nil {
		return err
	}
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.store.SaveTasks(ctx, kept)
}
