// ABOUTME: Tests for the settings service.
// ABOUTME: Covers API key storage and the remembered history date.
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/fitlog/internal/kvstore"
)

func TestSettingsAPIKey(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestServices(t)

	key, err := svc.Settings.APIKey(ctx)
	if err != nil || key != "" {
		t.Fatalf("expected empty key, got %q, %v", key, err)
	}

	if err := svc.Settings.SetAPIKey(ctx, "  sk-test  "); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	key, _ = svc.Settings.APIKey(ctx)
	if key != "sk-test" {
		t.Errorf("expected trimmed key, got %q", key)
	}

	if err := svc.Settings.SetAPIKey(ctx, "   "); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	if err := svc.Settings.ClearAPIKey(ctx); err != nil {
		t.Fatalf("ClearAPIKey failed: %v", err)
	}
	key, _ = svc.Settings.APIKey(ctx)
	if key != "" {
		t.Errorf("expected cleared key, got %q", key)
	}
}

func TestSettingsSelectedDate(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestServices(t)

	if svc.Settings.SelectedDate(ctx) != nil {
		t.Fatal("expected no selected date")
	}

	day := time.Date(2024, 2, 29, 15, 30, 0, 0, time.Local)
	if err := svc.Settings.SetSelectedDate(ctx, day); err != nil {
		t.Fatalf("SetSelectedDate failed: %v", err)
	}
	got := svc.Settings.SelectedDate(ctx)
	if got == nil || got.Year() != 2024 || got.Month() != time.February || got.Day() != 29 {
		t.Errorf("unexpected selected date %v", got)
	}

	_ = store.Set(ctx, kvstore.KeySelectedDate, []byte("garbage"))
	if svc.Settings.SelectedDate(ctx) != nil {
		t.Error("unparseable date should read as unset")
	}
}
