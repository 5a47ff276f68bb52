package model

import (
	"fmt"
	"strings"
	"time"
)

// MoodKind is one of the five moods a day can be tagged with.
type MoodKind string

const (
	MoodExcellent MoodKind = "excellent"
	MoodGood      MoodKind = "good"
	MoodOkay      MoodKind = "okay"
	MoodPoor      MoodKind = "poor"
	MoodTerrible  MoodKind = "terrible"
)

var MoodKinds = []MoodKind{MoodExcellent, MoodGood, MoodOkay, MoodPoor, MoodTerrible}

func (m MoodKind) Valid() bool {
	switch m {
	case MoodExcellent, MoodGood, MoodOkay, MoodPoor, MoodTerrible:
		return true
	default:
		return false
	}
}

func (m MoodKind) Emoji() string {
	switch m {
	case MoodExcellent:
		return "😄"
	case MoodGood:
		return "😊"
	case MoodOkay:
		return "😐"
	case MoodPoor:
		return "😔"
	case MoodTerrible:
		return "😢"
	default:
		return ""
	}
}

// Color is the display color token stored alongside the mood.
func (m MoodKind) Color() string {
	switch m {
	case MoodExcellent:
		return "green"
	case MoodGood:
		return "blue"
	case MoodOkay:
		return "yellow"
	case MoodPoor:
		return "orange"
	case MoodTerrible:
		return "red"
	default:
		return ""
	}
}

func (m *MoodKind) UnmarshalText(text []byte) error {
	parsed, err := ParseMoodKind(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func ParseMoodKind(raw string) (MoodKind, error) {
	value := MoodKind(strings.ToLower(strings.TrimSpace(raw)))
	if !value.Valid() {
		return "", fmt.Errorf("unknown mood %q", raw)
	}
	return value, nil
}

// Mood is the mood recorded for one calendar date.
type Mood struct {
	ID    string   `json:"id"`
	Date  string   `json:"date"`
	Mood  MoodKind `json:"mood"`
	Color string   `json:"color"`
	Emoji string   `json:"emoji"`
	Notes string   `json:"notes,omitempty"`
}

func (m Mood) EntryDate() string { return m.Date }

// JournalEntry is the free-text journal for one calendar date.
type JournalEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (j JournalEntry) EntryDate() string { return j.Date }

type Meals struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snacks    string `json:"snacks"`
}

type Sleep struct {
	Bedtime string `json:"bedtime" validate:"omitempty,hhmm"`
	Wakeup  string `json:"wakeup" validate:"omitempty,hhmm"`
	Quality int    `json:"quality" validate:"gte=1,lte=10"`
	Notes   string `json:"notes"`
}

// HealthSnapshot is stored whole per date; saving replaces the previous one.
type HealthSnapshot struct {
	Date  string `json:"date" validate:"date"`
	Meals Meals  `json:"meals"`
	Sleep Sleep  `json:"sleep"`
	Steps int    `json:"steps" validate:"gte=0"`
}

func (h HealthSnapshot) Validate() error {
	return validate.Struct(h)
}

// NewHealthSnapshot returns the blank snapshot shown before anything is saved.
func NewHealthSnapshot(date string) HealthSnapshot {
	return HealthSnapshot{Date: date, Sleep: Sleep{Quality: 5}}
}

// WaterGoal is the daily number of glasses.
const WaterGoal = 8

type WaterIntake struct {
	Date   string `json:"date"`
	Amount int    `json:"amount"`
	Goal   int    `json:"goal"`
}

// NotificationSettings is a single global record rewritten on every change.
type NotificationSettings struct {
	Enabled         bool `json:"enabled"`
	TaskReminders   bool `json:"taskReminders"`
	StreakReminders bool `json:"streakReminders"`
	DailyMotivation bool `json:"dailyMotivation"`
	ReminderMinutes int  `json:"reminderMinutes" validate:"gte=1,lte=60"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		TaskReminders:   true,
		StreakReminders: true,
		DailyMotivation: true,
		ReminderMinutes: 15,
	}
}

func (s NotificationSettings) Validate() error {
	return validate.Struct(s)
}

// FocusTask is the one thing to get done on a given day, independent of the
// routine task list.
type FocusTask struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}
