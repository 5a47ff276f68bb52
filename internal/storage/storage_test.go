package storage

import (
	"context"
	"errors"
	"testing"

	"daily-routine/internal/model"
)

func TestLoadMissingKeyIsNotAnError(t *testing.T) {
	a := NewAdapter(NewMemoryKV())
	settings := model.DefaultNotificationSettings()
	found, err := a.Load(context.Background(), "p1", KeyNotificationSettings, &settings)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if found {
		t.Fatalf("expected missing key")
	}
	if settings.ReminderMinutes != 15 {
		t.Fatalf("defaults should be left untouched, got %+v", settings)
	}
}

func TestSaveReplacesWholeValue(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemoryKV())
	first := model.WaterIntake{Date: "2026-10-15", Amount: 3, Goal: model.WaterGoal}
	if err := a.Save(ctx, "p1", KeyWaterIntake, first); err != nil {
		t.Fatal(err)
	}
	if err := a.Save(ctx, "p1", KeyWaterIntake, map[string]int{"amount": 1}); err != nil {
		t.Fatal(err)
	}
	var got model.WaterIntake
	if _, err := a.Load(ctx, "p1", KeyWaterIntake, &got); err != nil {
		t.Fatal(err)
	}
	if got.Date != "" || got.Amount != 1 || got.Goal != 0 {
		t.Fatalf("expected whole-value replace, got %+v", got)
	}
}

func TestLoadCorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := kv.Put(ctx, "p1", KeyMoods, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	var moods []model.Mood
	_, err := NewAdapter(kv).Load(ctx, "p1", KeyMoods, &moods)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemoryKV())
	if err := a.Save(ctx, "p1", FocusTaskKey("2026-10-15"), model.FocusTask{Task: "Ship it"}); err != nil {
		t.Fatal(err)
	}
	var focus model.FocusTask
	found, err := a.Load(ctx, "p2", FocusTaskKey("2026-10-15"), &focus)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatalf("profile p2 should not see p1's focus task")
	}
}

func TestReplaceByDateKeepsOneEntryPerDate(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemoryKV())
	entries := []model.JournalEntry{
		{ID: "a", Date: "2026-10-14", Content: "yesterday"},
		{ID: "b", Date: "2026-10-15", Content: "first draft"},
		{ID: "c", Date: "2026-10-15", Content: "final"},
	}
	for _, e := range entries {
		if _, err := ReplaceByDate(ctx, a, "p1", KeyJournalEntries, e); err != nil {
			t.Fatal(err)
		}
	}

	var stored []model.JournalEntry
	if _, err := a.Load(ctx, "p1", KeyJournalEntries, &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stored))
	}
	today, ok, err := FindByDate[model.JournalEntry](ctx, a, "p1", KeyJournalEntries, "2026-10-15")
	if err != nil || !ok {
		t.Fatalf("expected entry for today, ok=%v err=%v", ok, err)
	}
	if today.Content != "final" {
		t.Fatalf("expected second save to win, got %q", today.Content)
	}
}

func TestPerDateKeys(t *testing.T) {
	if got := FocusTaskKey("2026-10-15"); got != "focusTask_2026-10-15" {
		t.Fatalf("unexpected focus key %s", got)
	}
	if got := HealthDataKey("2026-10-15"); got != "healthData_2026-10-15" {
		t.Fatalf("unexpected health key %s", got)
	}
}
