package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"daily-routine/internal/model"
)

// jobTimeout bounds a single run of a daily job.
const jobTimeout = 5 * time.Minute

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleDaily registers a named job to run every day at the given HH:MM.
func (s *SchedulerService) ScheduleDaily(name, clock string, job func(ctx context.Context)) (cron.EntryID, error) {
	spec, err := buildDailySpec(clock)
	if err != nil {
		return 0, fmt.Errorf("schedule %s: %w", name, err)
	}
	return s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		started := time.Now()
		job(ctx)
		log.Printf("[info] job %s finished in %s", name, time.Since(started).Round(time.Millisecond))
	})
}

// Next reports when the job with id runs next.
func (s *SchedulerService) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func buildDailySpec(clock string) (string, error) {
	hour, minute, err := model.ParseClock(clock)
	if err != nil {
		return "", err
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
