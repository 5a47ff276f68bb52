package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"daily-routine/internal/metrics"
	"daily-routine/internal/model"
	"daily-routine/internal/notify"
	"daily-routine/internal/storage"
)

// TrackerService keeps the per-day trackers: mood, journal, health, water and
// focus, plus the notification settings.
type TrackerService struct {
	store    *storage.Adapter
	notifier *notify.Service
	tasks    *TaskService
	loc      *time.Location
	now      func() time.Time

	// locks serializes read-modify-write cycles per owner.
	locks sync.Map
}

func NewTrackerService(store *storage.Adapter, notifier *notify.Service, tasks *TaskService, loc *time.Location) *TrackerService {
	if loc == nil {
		loc = time.Local
	}
	return &TrackerService{store: store, notifier: notifier, tasks: tasks, loc: loc, now: time.Now}
}

// Today is the current calendar date in the configured location.
func (s *TrackerService) Today() string {
	return model.DateOf(s.now().In(s.loc))
}

func (s *TrackerService) lock(owner string) func() {
	mu, _ := s.locks.LoadOrStore(owner, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func checkDate(date string) error {
	if !model.IsDate(date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// SaveMood records the mood of date, replacing any earlier one for that date.
func (s *TrackerService) SaveMood(ctx context.Context, owner, date string, kind model.MoodKind, notes string) (model.Mood, error) {
	if err := checkDate(date); err != nil {
		return model.Mood{}, err
	}
	if !kind.Valid() {
		return model.Mood{}, fmt.Errorf("unknown mood %q", kind)
	}
	mood := model.Mood{
		ID:    uuid.NewString(),
		Date:  date,
		Mood:  kind,
		Color: kind.Color(),
		Emoji: kind.Emoji(),
		Notes: strings.TrimSpace(notes),
	}
	defer s.lock(owner)()
	if _, err := storage.ReplaceByDate(ctx, s.store, owner, storage.KeyMoods, mood); err != nil {
		return model.Mood{}, err
	}
	metrics.TrackTrackerUpdate("mood")
	return mood, nil
}

func (s *TrackerService) MoodFor(ctx context.Context, owner, date string) (model.Mood, bool, error) {
	if err := checkDate(date); err != nil {
		return model.Mood{}, false, err
	}
	return storage.FindByDate[model.Mood](ctx, s.store, owner, storage.KeyMoods, date)
}

// SaveJournal records the journal of date, replacing any earlier entry.
func (s *TrackerService) SaveJournal(ctx context.Context, owner, date, content string) (model.JournalEntry, error) {
	if err := checkDate(date); err != nil {
		return model.JournalEntry{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return model.JournalEntry{}, ErrBlankContent
	}
	entry := model.JournalEntry{
		ID:        uuid.NewString(),
		Date:      date,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	defer s.lock(owner)()
	if _, err := storage.ReplaceByDate(ctx, s.store, owner, storage.KeyJournalEntries, entry); err != nil {
		return model.JournalEntry{}, err
	}
	metrics.TrackTrackerUpdate("journal")
	return entry, nil
}

func (s *TrackerService) JournalFor(ctx context.Context, owner, date string) (model.JournalEntry, bool, error) {
	if err := checkDate(date); err != nil {
		return model.JournalEntry{}, false, err
	}
	return storage.FindByDate[model.JournalEntry](ctx, s.store, owner, storage.KeyJournalEntries, date)
}

// Health returns the snapshot of date, or a blank one when nothing was saved.
func (s *TrackerService) Health(ctx context.Context, owner, date string) (model.HealthSnapshot, error) {
	if err := checkDate(date); err != nil {
		return model.HealthSnapshot{}, err
	}
	snap := model.NewHealthSnapshot(date)
	if _, err := s.store.Load(ctx, owner, storage.HealthDataKey(date), &snap); err != nil {
		return model.HealthSnapshot{}, err
	}
	return snap, nil
}

// SaveHealth overwrites the whole snapshot of date.
func (s *TrackerService) SaveHealth(ctx context.Context, owner, date string, snap model.HealthSnapshot) (model.HealthSnapshot, error) {
	if err := checkDate(date); err != nil {
		return model.HealthSnapshot{}, err
	}
	defer s.lock(owner)()
	return s.saveHealth(ctx, owner, date, snap)
}

func (s *TrackerService) saveHealth(ctx context.Context, owner, date string, snap model.HealthSnapshot) (model.HealthSnapshot, error) {
	snap.Date = date
	if err := snap.Validate(); err != nil {
		return model.HealthSnapshot{}, err
	}
	if err := s.store.Save(ctx, owner, storage.HealthDataKey(date), snap); err != nil {
		return model.HealthSnapshot{}, err
	}
	metrics.TrackTrackerUpdate("health")
	return snap, nil
}

// UpdateHealth loads the snapshot of date, applies fn and saves it whole.
func (s *TrackerService) UpdateHealth(ctx context.Context, owner, date string, fn func(*model.HealthSnapshot)) (model.HealthSnapshot, error) {
	defer s.lock(owner)()
	snap, err := s.Health(ctx, owner, date)
	if err != nil {
		return model.HealthSnapshot{}, err
	}
	fn(&snap)
	return s.saveHealth(ctx, owner, date, snap)
}

// Water returns the counter for date. A counter stored for another day reads
// as empty.
func (s *TrackerService) Water(ctx context.Context, owner, date string) (model.WaterIntake, error) {
	if err := checkDate(date); err != nil {
		return model.WaterIntake{}, err
	}
	var stored model.WaterIntake
	found, err := s.store.Load(ctx, owner, storage.KeyWaterIntake, &stored)
	if err != nil {
		return model.WaterIntake{}, err
	}
	if !found || stored.Date != date {
		return model.WaterIntake{Date: date, Goal: model.WaterGoal}, nil
	}
	stored.Goal = model.WaterGoal
	return stored, nil
}

// AdjustWater adds or removes one glass, delta being +1 or -1. The amount
// never drops below zero and may pass the goal.
func (s *TrackerService) AdjustWater(ctx context.Context, owner, date string, delta int) (model.WaterIntake, error) {
	if delta != 1 && delta != -1 {
		return model.WaterIntake{}, fmt.Errorf("%w: %d", ErrWaterStep, delta)
	}
	defer s.lock(owner)()
	water, err := s.Water(ctx, owner, date)
	if err != nil {
		return model.WaterIntake{}, err
	}
	water.Amount += delta
	if water.Amount < 0 {
		water.Amount = 0
	}
	if err := s.store.Save(ctx, owner, storage.KeyWaterIntake, water); err != nil {
		return model.WaterIntake{}, err
	}
	metrics.TrackTrackerUpdate("water")
	return water, nil
}

func (s *TrackerService) Focus(ctx context.Context, owner, date string) (model.FocusTask, bool, error) {
	if err := checkDate(date); err != nil {
		return model.FocusTask{}, false, err
	}
	var focus model.FocusTask
	found, err := s.store.Load(ctx, owner, storage.FocusTaskKey(date), &focus)
	if err != nil {
		return model.FocusTask{}, false, err
	}
	return focus, found, nil
}

// SetFocus sets the focus of date. Setting it again starts over as not done.
func (s *TrackerService) SetFocus(ctx context.Context, owner, date, text string) (model.FocusTask, error) {
	if err := checkDate(date); err != nil {
		return model.FocusTask{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.FocusTask{}, ErrBlankContent
	}
	focus := model.FocusTask{ID: uuid.NewString(), Task: text, Date: date}
	defer s.lock(owner)()
	if err := s.store.Save(ctx, owner, storage.FocusTaskKey(date), focus); err != nil {
		return model.FocusTask{}, err
	}
	metrics.TrackTrackerUpdate("focus")
	return focus, nil
}

// ToggleFocus flips completion of date's focus. Without a focus it does
// nothing and reports false.
func (s *TrackerService) ToggleFocus(ctx context.Context, owner, date string) (model.FocusTask, bool, error) {
	defer s.lock(owner)()
	focus, found, err := s.Focus(ctx, owner, date)
	if err != nil || !found {
		return model.FocusTask{}, false, err
	}
	focus.Completed = !focus.Completed
	if err := s.store.Save(ctx, owner, storage.FocusTaskKey(date), focus); err != nil {
		return model.FocusTask{}, false, err
	}
	metrics.TrackTrackerUpdate("focus")
	return focus, true, nil
}

// Settings returns owner's notification settings, defaults when unset.
func (s *TrackerService) Settings(ctx context.Context, owner string) (model.NotificationSettings, error) {
	return loadSettings(ctx, s.store, owner)
}

// SaveSettings rewrites the whole settings record and re-arms reminders. The
// settings stay saved when re-arming fails.
func (s *TrackerService) SaveSettings(ctx context.Context, owner string, settings model.NotificationSettings) (model.NotificationSettings, error) {
	unlock := s.lock(owner)
	err := s.saveSettings(ctx, owner, settings)
	unlock()
	if err != nil {
		return model.NotificationSettings{}, err
	}
	s.syncReminders(ctx, owner)
	return settings, nil
}

// UpdateSettings applies fn to the current settings and saves the result.
func (s *TrackerService) UpdateSettings(ctx context.Context, owner string, fn func(*model.NotificationSettings)) (model.NotificationSettings, error) {
	unlock := s.lock(owner)
	settings, err := s.Settings(ctx, owner)
	if err == nil {
		fn(&settings)
		err = s.saveSettings(ctx, owner, settings)
	}
	unlock()
	if err != nil {
		return model.NotificationSettings{}, err
	}
	s.syncReminders(ctx, owner)
	return settings, nil
}

func (s *TrackerService) saveSettings(ctx context.Context, owner string, settings model.NotificationSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, owner, storage.KeyNotificationSettings, settings); err != nil {
		return err
	}
	metrics.TrackTrackerUpdate("settings")
	return nil
}

// syncReminders runs outside the owner lock; TaskService has its own.
func (s *TrackerService) syncReminders(ctx context.Context, owner string) {
	if err := s.tasks.SyncReminders(ctx, owner); err != nil {
		log.Printf("[warn] sync reminders for %s: %v", owner, err)
	}
}

// EnableNotifications turns notifications on after the platform grants
// permission, or off. The returned bool is the permission outcome.
func (s *TrackerService) EnableNotifications(ctx context.Context, owner string, enable bool) (model.NotificationSettings, bool, error) {
	if !enable {
		settings, err := s.UpdateSettings(ctx, owner, func(n *model.NotificationSettings) { n.Enabled = false })
		return settings, s.notifier.Granted(ctx, owner), err
	}

	granted, err := s.notifier.RequestPermission(ctx, owner)
	if err != nil {
		return model.NotificationSettings{}, false, err
	}
	if !granted {
		settings, err := s.Settings(ctx, owner)
		return settings, false, err
	}
	settings, err := s.UpdateSettings(ctx, owner, func(n *model.NotificationSettings) { n.Enabled = true })
	return settings, true, err
}
