package service

import (
	"context"
	"log"
	"time"

	"daily-routine/internal/notify"
	"daily-routine/internal/repository"
)

// RearmTime is when reminders for the new day are armed.
const RearmTime = "00:01"

// JobTimes holds the HH:MM of each daily push.
type JobTimes struct {
	Motivation     string
	StreakReminder string
	DailyReport    string
}

// DailyJobs pushes the daily notifications to every known profile.
type DailyJobs struct {
	users    *repository.UserRepository
	tasks    *TaskService
	trackers *TrackerService
	reports  *ReportService
	notifier *notify.Service
	loc      *time.Location
}

func NewDailyJobs(users *repository.UserRepository, tasks *TaskService, trackers *TrackerService, reports *ReportService, notifier *notify.Service, loc *time.Location) *DailyJobs {
	return &DailyJobs{users: users, tasks: tasks, trackers: trackers, reports: reports, notifier: notifier, loc: loc}
}

// Register adds every daily job to the scheduler.
func (j *DailyJobs) Register(s *SchedulerService, times JobTimes) error {
	jobs := []struct {
		name  string
		clock string
		run   func(context.Context)
	}{
		{"rearm-reminders", RearmTime, j.RearmReminders},
		{"daily-motivation", times.Motivation, j.SendMotivation},
		{"streak-reminder", times.StreakReminder, j.SendStreakReminders},
		{"daily-report", times.DailyReport, j.SendReports},
	}
	for _, job := range jobs {
		if _, err := s.ScheduleDaily(job.name, job.clock, job.run); err != nil {
			return err
		}
	}
	return nil
}

func (j *DailyJobs) profiles(ctx context.Context) []string {
	users, err := j.users.ListAll(ctx)
	if err != nil {
		log.Printf("[warn] list users: %v", err)
		return nil
	}
	owners := make([]string, 0, len(users))
	for _, u := range users {
		owners = append(owners, u.ProfileKey())
	}
	return owners
}

// RearmReminders arms today's task reminders for every profile.
func (j *DailyJobs) RearmReminders(ctx context.Context) {
	for _, owner := range j.profiles(ctx) {
		if err := j.tasks.SyncReminders(ctx, owner); err != nil {
			log.Printf("[warn] rearm reminders for %s: %v", owner, err)
		}
	}
}

func (j *DailyJobs) SendMotivation(ctx context.Context) {
	for _, owner := range j.profiles(ctx) {
		settings, err := j.trackers.Settings(ctx, owner)
		if err != nil {
			log.Printf("[warn] settings for %s: %v", owner, err)
			continue
		}
		if settings.Enabled && settings.DailyMotivation {
			j.notifier.ShowDailyMotivation(ctx, owner)
		}
	}
}

// SendStreakReminders celebrates the longest running streak of each profile.
func (j *DailyJobs) SendStreakReminders(ctx context.Context) {
	for _, owner := range j.profiles(ctx) {
		settings, err := j.trackers.Settings(ctx, owner)
		if err != nil {
			log.Printf("[warn] settings for %s: %v", owner, err)
			continue
		}
		if !settings.Enabled || !settings.StreakReminders {
			continue
		}
		summary, err := j.tasks.Summary(ctx, owner)
		if err != nil {
			log.Printf("[warn] summary for %s: %v", owner, err)
			continue
		}
		if summary.LongestStreak > 0 {
			j.notifier.ShowStreakReminder(ctx, owner, summary.LongestStreak)
		}
	}
}

func (j *DailyJobs) SendReports(ctx context.Context) {
	now := time.Now().In(j.loc)
	for _, owner := range j.profiles(ctx) {
		settings, err := j.trackers.Settings(ctx, owner)
		if err != nil {
			log.Printf("[warn] settings for %s: %v", owner, err)
			continue
		}
		if !settings.Enabled {
			continue
		}
		text, err := j.reports.Daily(ctx, owner, now)
		if err != nil {
			log.Printf("[warn] report for %s: %v", owner, err)
			continue
		}
		j.notifier.Show(ctx, owner, "Daily Routine Report", text, "📋")
	}
}
