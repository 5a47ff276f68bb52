package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"daily-routine/internal/model"
	"daily-routine/internal/storage"
)

func TestMoodPerDateOverwrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	if _, err := f.trackers.SaveMood(ctx, "tg-1", "2024-03-03", model.MoodPoor, ""); err != nil {
		t.Fatalf("SaveMood: %v", err)
	}
	if _, err := f.trackers.SaveMood(ctx, "tg-1", "2024-03-04", model.MoodOkay, "first"); err != nil {
		t.Fatalf("SaveMood: %v", err)
	}
	if _, err := f.trackers.SaveMood(ctx, "tg-1", "2024-03-04", model.MoodGood, "second"); err != nil {
		t.Fatalf("SaveMood: %v", err)
	}

	var stored []model.Mood
	if _, err := f.store.Load(ctx, "tg-1", storage.KeyMoods, &stored); err != nil {
		t.Fatalf("Load: %v", err)
	}
	count := 0
	for _, m := range stored {
		if m.Date == "2024-03-04" {
			count++
		}
	}
	if len(stored) != 2 || count != 1 {
		t.Fatalf("stored = %+v", stored)
	}

	mood, found, err := f.trackers.MoodFor(ctx, "tg-1", "2024-03-04")
	if err != nil || !found {
		t.Fatalf("MoodFor = %v, %v", found, err)
	}
	if mood.Mood != model.MoodGood || mood.Notes != "second" || mood.Emoji != "😊" || mood.Color != "blue" {
		t.Errorf("mood = %+v", mood)
	}
	if _, err := f.trackers.SaveMood(ctx, "tg-1", "2024-03-04", "meh", ""); err == nil {
		t.Error("unknown mood accepted")
	}
	if _, err := f.trackers.SaveMood(ctx, "tg-1", "03/04/2024", model.MoodGood, ""); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date err = %v", err)
	}
	if _, _, err := f.trackers.MoodFor(ctx, "tg-1", "garbage"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("MoodFor bad date err = %v", err)
	}
}

func TestJournalPerDateOverwrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	if _, err := f.trackers.SaveJournal(ctx, "tg-1", "2024-03-04", "   "); !errors.Is(err, ErrBlankContent) {
		t.Errorf("blank journal err = %v", err)
	}
	for _, content := range []string{"one", "two"} {
		if _, err := f.trackers.SaveJournal(ctx, "tg-1", "2024-03-04", content); err != nil {
			t.Fatalf("SaveJournal(%s): %v", content, err)
		}
	}

	var stored []model.JournalEntry
	if _, err := f.store.Load(ctx, "tg-1", storage.KeyJournalEntries, &stored); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(stored) != 1 || stored[0].Content != "two" {
		t.Fatalf("stored = %+v", stored)
	}
	if !stored[0].CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v", stored[0].CreatedAt)
	}
	if _, found, _ := f.trackers.JournalFor(ctx, "tg-1", "2024-03-05"); found {
		t.Error("journal found for a date never written")
	}
	if _, _, err := f.trackers.JournalFor(ctx, "tg-1", "2024-02-30"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("JournalFor bad date err = %v", err)
	}
}

func TestWaterClamp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	day := "2024-03-04"

	w, err := f.trackers.AdjustWater(ctx, "tg-1", day, -1)
	if err != nil || w.Amount != 0 || w.Goal != model.WaterGoal {
		t.Fatalf("decrement from zero = %+v, %v", w, err)
	}
	for i := 0; i < model.WaterGoal+2; i++ {
		w, _ = f.trackers.AdjustWater(ctx, "tg-1", day, 1)
	}
	if w.Amount != model.WaterGoal+2 {
		t.Errorf("amount = %d, want %d", w.Amount, model.WaterGoal+2)
	}

	next, _ := f.trackers.Water(ctx, "tg-1", "2024-03-05")
	if next.Amount != 0 || next.Date != "2024-03-05" {
		t.Errorf("next day water = %+v", next)
	}
	next, _ = f.trackers.AdjustWater(ctx, "tg-1", "2024-03-05", 1)
	if next.Amount != 1 {
		t.Errorf("next day after increment = %+v", next)
	}
	for _, delta := range []int{0, 2, -5} {
		if _, err := f.trackers.AdjustWater(ctx, "tg-1", "2024-03-05", delta); !errors.Is(err, ErrWaterStep) {
			t.Errorf("AdjustWater(%d) err = %v", delta, err)
		}
	}
}

// slowKV delays reads so interleaved updates would overlap, and fails reads
// of failKey.
type slowKV struct {
	storage.KV
	delay   time.Duration
	failKey string
}

func (k slowKV) Get(ctx context.Context, owner, key string) ([]byte, bool, error) {
	if key == k.failKey {
		return nil, false, errors.New("backend unavailable")
	}
	time.Sleep(k.delay)
	return k.KV.Get(ctx, owner, key)
}

func newSlowTrackers(t *testing.T, failKey string) (*TrackerService, *storage.Adapter) {
	t.Helper()
	f := newFixture(t, true)
	store := storage.NewAdapter(slowKV{KV: storage.NewMemoryKV(), delay: 2 * time.Millisecond, failKey: failKey})
	trackers := NewTrackerService(store, f.notifier, NewTaskService(store, f.notifier, 0), time.UTC)
	trackers.now = func() time.Time { return testNow }
	return trackers, store
}

func TestConcurrentUpdatesKeepEveryWrite(t *testing.T) {
	ctx := context.Background()
	trackers, store := newSlowTrackers(t, "")

	var wg sync.WaitGroup
	for day := 1; day <= 28; day++ {
		wg.Add(1)
		go func(date string) {
			defer wg.Done()
			if _, err := trackers.SaveJournal(ctx, "tg-1", date, "entry "+date); err != nil {
				t.Errorf("SaveJournal(%s): %v", date, err)
			}
		}(fmt.Sprintf("2024-02-%02d", day))
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := trackers.AdjustWater(ctx, "tg-1", "2024-03-04", 1); err != nil {
				t.Errorf("AdjustWater: %v", err)
			}
		}()
	}
	wg.Wait()

	var entries []model.JournalEntry
	if _, err := store.Load(ctx, "tg-1", storage.KeyJournalEntries, &entries); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 28 {
		t.Errorf("kept %d of 28 journal entries", len(entries))
	}
	water, err := trackers.Water(ctx, "tg-1", "2024-03-04")
	if err != nil {
		t.Fatalf("Water: %v", err)
	}
	if water.Amount != 20 {
		t.Errorf("water amount = %d, want 20", water.Amount)
	}
}

func TestSaveSettingsSurvivesReminderSyncFailure(t *testing.T) {
	ctx := context.Background()
	trackers, store := newSlowTrackers(t, storage.KeyTasks)

	settings := model.DefaultNotificationSettings()
	settings.ReminderMinutes = 30
	saved, err := trackers.SaveSettings(ctx, "tg-1", settings)
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if saved.ReminderMinutes != 30 {
		t.Errorf("saved = %+v", saved)
	}
	var stored model.NotificationSettings
	if found, err := store.Load(ctx, "tg-1", storage.KeyNotificationSettings, &stored); err != nil || !found || stored.ReminderMinutes != 30 {
		t.Errorf("stored = %+v, %v, %v", stored, found, err)
	}
}

func TestHealthDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	day := "2024-03-04"

	snap, err := f.trackers.Health(ctx, "tg-1", day)
	if err != nil || snap.Sleep.Quality != 5 || snap.Date != day {
		t.Fatalf("default snapshot = %+v, %v", snap, err)
	}

	snap.Steps = 4200
	snap.Meals.Breakfast = "oats"
	snap.Sleep = model.Sleep{Bedtime: "23:00", Wakeup: "07:00", Quality: 8}
	if _, err := f.trackers.SaveHealth(ctx, "tg-1", day, snap); err != nil {
		t.Fatalf("SaveHealth: %v", err)
	}

	updated, err := f.trackers.UpdateHealth(ctx, "tg-1", day, func(h *model.HealthSnapshot) { h.Meals.Lunch = "soup" })
	if err != nil || updated.Meals.Breakfast != "oats" || updated.Meals.Lunch != "soup" || updated.Steps != 4200 {
		t.Errorf("UpdateHealth = %+v, %v", updated, err)
	}

	for _, bad := range []model.HealthSnapshot{
		{Sleep: model.Sleep{Quality: 11}},
		{Sleep: model.Sleep{Quality: 0}},
		{Sleep: model.Sleep{Quality: 5}, Steps: -1},
		{Sleep: model.Sleep{Quality: 5, Bedtime: "11pm"}},
	} {
		if _, err := f.trackers.SaveHealth(ctx, "tg-1", day, bad); err == nil {
			t.Errorf("SaveHealth accepted %+v", bad)
		}
	}
}

func TestFocus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	day := "2024-03-04"

	if _, ok, err := f.trackers.ToggleFocus(ctx, "tg-1", day); ok || err != nil {
		t.Errorf("toggle unset focus = %v, %v", ok, err)
	}
	if _, err := f.trackers.SetFocus(ctx, "tg-1", day, " "); !errors.Is(err, ErrBlankContent) {
		t.Errorf("blank focus err = %v", err)
	}
	if _, err := f.trackers.SetFocus(ctx, "tg-1", day, "Ship it"); err != nil {
		t.Fatalf("SetFocus: %v", err)
	}
	focus, ok, err := f.trackers.ToggleFocus(ctx, "tg-1", day)
	if err != nil || !ok || !focus.Completed || focus.Task != "Ship it" {
		t.Errorf("ToggleFocus = %+v, %v, %v", focus, ok, err)
	}
	if _, found, _ := f.trackers.Focus(ctx, "tg-1", "2024-03-05"); found {
		t.Error("focus leaked to another date")
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	settings, err := f.trackers.Settings(ctx, "tg-1")
	if err != nil || settings != model.DefaultNotificationSettings() {
		t.Fatalf("Settings = %+v, %v", settings, err)
	}

	settings.ReminderMinutes = 61
	if _, err := f.trackers.SaveSettings(ctx, "tg-1", settings); err == nil {
		t.Error("reminderMinutes 61 accepted")
	}

	updated, granted, err := f.trackers.EnableNotifications(ctx, "tg-1", true)
	if err != nil || granted || updated.Enabled {
		t.Errorf("denied EnableNotifications = %+v, %v, %v", updated, granted, err)
	}

	f.platform.mu.Lock()
	f.platform.granted = true
	f.platform.mu.Unlock()
	updated, granted, err = f.trackers.EnableNotifications(ctx, "tg-1", true)
	if err != nil || !granted || !updated.Enabled {
		t.Errorf("granted EnableNotifications = %+v, %v, %v", updated, granted, err)
	}

	updated, _, _ = f.trackers.EnableNotifications(ctx, "tg-1", false)
	if updated.Enabled {
		t.Error("disable left notifications enabled")
	}
}

func TestToday(t *testing.T) {
	f := newFixture(t, true)
	if got := f.trackers.Today(); got != "2024-03-04" {
		t.Errorf("Today = %q", got)
	}
}
