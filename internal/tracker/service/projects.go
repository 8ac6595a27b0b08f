package service

import (
	"context"
	"time"

	"github.com/thistracker/thistracker-backend/internal/apperr"
	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

// ProjectWithTasks bundles a project with its tasks.
type ProjectWithTasks struct {
	Project domain.Project `json:"project"`
	Tasks   []domain.Task  `json:"tasks"`
}

// GetProjects returns all projects, optionally filtered by client id. The
// client id is not checked for existence, so an unknown id simply yields an
// empty list.
func (s *DataService) GetProjects(ctx context.Context, clientID string) ([]domain.Project, error) {
	projects, err := s.store.Projects(ctx)
	if err != nil {
		return nil, err
	}
	if clientID == "" {
		return projects, nil
	}
	filtered := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if p.ClientID == clientID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetProject returns one project by id.
func (s *DataService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	projects, err := s.store.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "Project not found")
}

// CreateProject creates a new project. The client id is stored as given;
// referential integrity is not enforced.
func (s *DataService) CreateProject(ctx context.Context, form domain.ProjectForm) (*domain.Project, error) {
	if form.Name == "" {
		return nil, apperr.New(apperr.ValidationFailed, "Project name is required")
	}

	now := time.Now().UTC()
	project := domain.Project{
		ID:          newID(),
		ClientID:    form.ClientID,
		Name:        form.Name,
		Description: form.Description,
		Status:      domain.ParseProjectStatus(form.Status),
		HourlyRate:  form.HourlyRate,
		Budget:      form.Budget,
		StartDate:   form.StartDate,
		EndDate:     form.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    true,
	}

	projects, err := s.store.Projects(ctx)
	if err != nil {
		return nil, err
	}
	projects = append(projects, project)
	if err := s.store.SaveProjects(ctx, projects); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies a partial update to an existing project.
func (s *DataService) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	projects, err := s.store.Projects(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range projects {
		if projects[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperr.New(apperr.NotFound, "Project not found")
	}

	project := projects[idx]
	if patch.ClientID != nil {
		project.ClientID = *patch.ClientID
	}
	if patch.Name != nil {
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Status != nil {
		project.Status = domain.ParseProjectStatus(*patch.Status)
	}
	if patch.HourlyRate != nil {
		project.HourlyRate = patch.HourlyRate
	}
	if patch.Budget != nil {
		project.Budget = patch.Budget
	}
	if patch.StartDate != nil {
		project.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		project.EndDate = patch.EndDate
	}
	project.UpdatedAt = time.Now().UTC()

	projects[idx] = project
	if err := s.store.SaveProjects(ctx, projects); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project without touching its tasks or time entries.
func (s *DataService) DeleteProject(ctx context.Context, id string) error {
	projects, err := s.store.Projects(ctx)
	if err != nil {
		return err
	}
	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return s.store.SaveProjects(ctx, kept)
}

// GetProjectWithTasks returns a project together with its tasks.
func (s *DataService) GetProjectWithTasks(ctx context.Context, id string) (*ProjectWithTasks, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.GetTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProjectWithTasks{Project: *project, Tasks: tasks}, nil
}
