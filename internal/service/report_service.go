package service

import (
	"context"
	"time"

	"daily-routine/internal/model"
	"daily-routine/internal/report"
)

// ReportService assembles the plain-text daily export.
type ReportService struct {
	tasks    *TaskService
	trackers *TrackerService
}

func NewReportService(tasks *TaskService, trackers *TrackerService) *ReportService {
	return &ReportService{tasks: tasks, trackers: trackers}
}

// Daily renders owner's report for the calendar day of day.
func (s *ReportService) Daily(ctx context.Context, owner string, day time.Time) (string, error) {
	tasks, err := s.tasks.Tasks(ctx, owner)
	if err != nil {
		return "", err
	}
	date := model.DateOf(day)

	r := report.Report{Date: day, Tasks: tasks}
	mood, found, err := s.trackers.MoodFor(ctx, owner, date)
	if err != nil {
		return "", err
	}
	if found {
		r.Mood = &mood
	}
	journal, found, err := s.trackers.JournalFor(ctx, owner, date)
	if err != nil {
		return "", err
	}
	if found {
		r.Journal = &journal
	}
	return report.Format(r), nil
}
