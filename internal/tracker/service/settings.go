package service

import (
	"context"

	"github.com/thistracker/thistracker-backend/internal/apperr"
)

// GetSettings returns every setting as a typed value keyed by name.
func (s *DataService) GetSettings(ctx context.Context) (map[string]any, error) {
	return s.store.Settings(ctx)
}

// GetSetting returns one setting value.
func (s *DataService) GetSetting(ctx context.Context, key string) (any, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return nil, err
	}
	value, ok := settings[key]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Setting not found")
	}
	return value, nil
}

// SetSetting writes one setting, keeping all others intact.
func (s *DataService) SetSetting(ctx context.Context, key string, value any) error {
	if key == "" {
		return apperr.New(apperr.ValidationFailed, "Setting key is required")
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return err
	}
	settings[key] = value
	return s.store.SaveSettings(ctx, settings)
}

// DeleteSetting removes one setting.
func (s *DataService) DeleteSetting(ctx context.Context, key string) error {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return err
	}
	if _, ok := settings[key]; !ok {
		return apperr.New(apperr.NotFound, "Setting not found")
	}
	delete(settings, key)
	return s.store.SaveSettings(ctx, settings)
}
