package notify

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"daily-routine/internal/metrics"
	"daily-routine/internal/model"
)

var motivationalMessages = []string{
	"Start your day with intention! 💪",
	"Every small step counts towards your goals 🌟",
	"You've got this! Make today amazing ✨",
	"Consistency is the key to success 🔑",
	"Your future self will thank you! 🙏",
}

// Timer is a pending callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// AfterFunc arms f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Reminder is a pending task reminder.
type Reminder struct {
	Recipient string    `json:"recipient"`
	TaskID    string    `json:"taskId"`
	TaskName  string    `json:"taskName"`
	FireAt    time.Time `json:"fireAt"`

	svc   *Service
	timer Timer
}

// Cancel stops the reminder. It reports false when it already fired or was
// cancelled.
func (r *Reminder) Cancel() bool {
	if r == nil {
		return false
	}
	return r.svc.release(r, true)
}

// Service schedules reminders and shows notifications to recipients who have
// granted permission.
type Service struct {
	platform  Platform
	now       func() time.Time
	loc       *time.Location
	afterFunc AfterFunc

	randMu sync.Mutex
	rand   *rand.Rand

	mu          sync.Mutex
	permissions map[string]bool
	pending     map[string]map[string]*Reminder
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Service) { s.afterFunc = fn }
}

func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rand = r }
}

func NewService(platform Platform, opts ...Option) *Service {
	s := &Service{
		platform:    platform,
		now:         time.Now,
		loc:         time.Local,
		afterFunc:   realAfterFunc,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		permissions: make(map[string]bool),
		pending:     make(map[string]map[string]*Reminder),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestPermission asks the platform and remembers the answer. Nothing is
// persisted.
func (s *Service) RequestPermission(ctx context.Context, recipient string) (bool, error) {
	granted, err := s.platform.RequestPermission(ctx, recipient)
	if err != nil {
		return false, fmt.Errorf("request permission: %w", err)
	}
	s.mu.Lock()
	s.permissions[recipient] = granted
	s.mu.Unlock()
	return granted, nil
}

// Granted reports the remembered permission, asking the platform for its
// current status the first time.
func (s *Service) Granted(ctx context.Context, recipient string) bool {
	s.mu.Lock()
	granted, known := s.permissions[recipient]
	s.mu.Unlock()
	if known {
		return granted
	}

	granted, err := s.platform.Status(ctx, recipient)
	if err != nil {
		log.Printf("[warn] notification status for %s: %v", recipient, err)
		return false
	}
	s.mu.Lock()
	s.permissions[recipient] = granted
	s.mu.Unlock()
	return granted
}

// Show delivers a notification right away. Without permission it does nothing.
func (s *Service) Show(ctx context.Context, recipient, title, body, icon string) {
	if !s.Granted(ctx, recipient) {
		metrics.TrackNotification("suppressed")
		return
	}
	if err := s.platform.Deliver(ctx, recipient, Notification{Title: title, Body: body, Icon: icon}); err != nil {
		metrics.TrackNotification("failed")
		log.Printf("[warn] deliver notification to %s: %v", recipient, err)
		return
	}
	metrics.TrackNotification("delivered")
}

// ShowTest sends the sample reminder used to check delivery.
func (s *Service) ShowTest(ctx context.Context, recipient string) {
	s.Show(ctx, recipient, "Test Notification", "This is how your task reminders will look!", "🔔")
}

func (s *Service) ShowStreakReminder(ctx context.Context, recipient string, streak int) {
	s.Show(ctx, recipient,
		fmt.Sprintf("🔥 %d Day Streak!", streak),
		fmt.Sprintf("Keep going! You're on a %d day streak. Don't break the chain!", streak),
		"🔥")
}

func (s *Service) ShowDailyMotivation(ctx context.Context, recipient string) {
	s.randMu.Lock()
	msg := motivationalMessages[s.rand.Intn(len(motivationalMessages))]
	s.randMu.Unlock()
	s.Show(ctx, recipient, "Daily Motivation", msg, "🌟")
}

// ScheduleTaskReminder arms a reminder lead minutes before today's clock
// time. It returns nil when permission is missing or the reminder time has
// already passed. A pending reminder for the same task is replaced.
func (s *Service) ScheduleTaskReminder(ctx context.Context, recipient, taskID, taskName, clock string, lead int) (*Reminder, error) {
	hour, minute, err := model.ParseClock(clock)
	if err != nil {
		return nil, err
	}
	if !s.Granted(ctx, recipient) {
		metrics.TrackReminder("skipped")
		return nil, nil
	}

	now := s.now().In(s.loc)
	taskAt := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, s.loc)
	fireAt := taskAt.Add(-time.Duration(lead) * time.Minute)
	if !fireAt.After(now) {
		metrics.TrackReminder("skipped")
		return nil, nil
	}

	r := &Reminder{Recipient: recipient, TaskID: taskID, TaskName: taskName, FireAt: fireAt, svc: s}
	title := fmt.Sprintf("Upcoming Task: %s", taskName)
	body := fmt.Sprintf("Your task \"%s\" is scheduled in %d minutes", taskName, lead)

	s.mu.Lock()
	if old := s.pending[recipient][taskID]; old != nil {
		old.timer.Stop()
		metrics.TrackReminder("cancelled")
	}
	if s.pending[recipient] == nil {
		s.pending[recipient] = make(map[string]*Reminder)
	}
	s.pending[recipient][taskID] = r
	r.timer = s.afterFunc(fireAt.Sub(now), func() {
		if !s.release(r, false) {
			return
		}
		metrics.TrackReminder("fired")
		s.Show(context.Background(), recipient, title, body, "⏰")
	})
	s.mu.Unlock()

	metrics.TrackReminder("scheduled")
	return r, nil
}

// Cancel retracts the pending reminder of a task, if any.
func (s *Service) Cancel(recipient, taskID string) bool {
	s.mu.Lock()
	r := s.pending[recipient][taskID]
	s.mu.Unlock()
	if r == nil {
		return false
	}
	return s.release(r, true)
}

// CancelAll retracts every pending reminder of recipient and returns how many
// were pending.
func (s *Service) CancelAll(recipient string) int {
	s.mu.Lock()
	reminders := s.pending[recipient]
	delete(s.pending, recipient)
	s.mu.Unlock()

	for _, r := range reminders {
		r.timer.Stop()
		metrics.TrackReminder("cancelled")
	}
	return len(reminders)
}

// Shutdown stops every pending reminder of every recipient.
func (s *Service) Shutdown() int {
	s.mu.Lock()
	all := s.pending
	s.pending = make(map[string]map[string]*Reminder)
	s.mu.Unlock()

	n := 0
	for _, reminders := range all {
		for _, r := range reminders {
			r.timer.Stop()
			metrics.TrackReminder("cancelled")
			n++
		}
	}
	return n
}

// Pending lists recipient's armed reminders by fire time.
func (s *Service) Pending(recipient string) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Reminder, 0, len(s.pending[recipient]))
	for _, r := range s.pending[recipient] {
		out = append(out, Reminder{Recipient: r.Recipient, TaskID: r.TaskID, TaskName: r.TaskName, FireAt: r.FireAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].TaskID < out[j].TaskID
		}
		return out[i].FireAt.Before(out[j].FireAt)
	})
	return out
}

// release drops r from the pending set if it is still the armed reminder for
// its task. stop also stops the timer.
func (s *Service) release(r *Reminder, stop bool) bool {
	s.mu.Lock()
	current := s.pending[r.Recipient][r.TaskID]
	if current != r {
		s.mu.Unlock()
		return false
	}
	delete(s.pending[r.Recipient], r.TaskID)
	if len(s.pending[r.Recipient]) == 0 {
		delete(s.pending, r.Recipient)
	}
	s.mu.Unlock()

	if stop {
		r.timer.Stop()
		metrics.TrackReminder("cancelled")
	}
	return true
}
