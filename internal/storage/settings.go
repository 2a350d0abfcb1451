// ABOUTME: Settings service for the stored AI API key and last history date.
// ABOUTME: Both values are stored as plain strings under fixed keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/harperreed/fitlog/internal/kvstore"
)

// SettingsService reads and writes user settings.
type SettingsService struct {
	store kvstore.Store
}

// NewSettingsService creates a settings service over store.
func NewSettingsService(store kvstore.Store) *SettingsService {
	return &SettingsService{store: store}
}

func (s *SettingsService) getString(ctx context.Context, key string) (string, error) {
	data, err := s.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return string(data), nil
}

// APIKey returns the stored API key, or "" when none is set.
func (s *SettingsService) APIKey(ctx context.Context) (string, error) {
	return s.getString(ctx, kvstore.KeyAPIKey)
}

// SetAPIKey stores key after trimming whitespace.
func (s *SettingsService) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return invalid("api_key", "API key cannot be empty")
	}
	if err := s.store.Set(ctx, kvstore.KeyAPIKey, []byte(key)); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return nil
}

// ClearAPIKey removes the stored API key.
func (s *SettingsService) ClearAPIKey(ctx context.Context) error {
	if err := s.store.Remove(ctx, kvstore.KeyAPIKey); err != nil {
		return fmt.Errorf("clear api key: %w", err)
	}
	return nil
}

// SelectedDate returns the last selected history day, or nil when unset or
// unreadable.
func (s *SettingsService) SelectedDate(ctx context.Context) *time.Time {
	raw, err := s.getString(ctx, kvstore.KeySelectedDate)
	if err != nil || raw == "" {
		return nil
	}
	day, err := calendar.ParseDay(raw, time.Local)
	if err != nil {
		return nil
	}
	return &day
}

// SetSelectedDate remembers day as the selected history day.
func (s *SettingsService) SetSelectedDate(ctx context.Context, day time.Time) error {
	if err := s.store.Set(ctx, kvstore.KeySelectedDate, []byte(calendar.DayKey(day))); err != nil {
		return fmt.Errorf("save selected date: %w", err)
	}
	return nil
}
