package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"daily-routine/internal/analyzer"
	"daily-routine/internal/metrics"
	"daily-routine/internal/model"
	"daily-routine/internal/notify"
	"daily-routine/internal/routine"
	"daily-routine/internal/storage"
)

// suggestionInput is the task created when an analyzer suggestion is
// applied. Only the name comes from the suggestion.
func suggestionInput(name string) model.TaskInput {
	return model.TaskInput{
		Name:     name,
		Time:     "09:00",
		Category: model.CategoryHealth,
		Priority: model.PriorityMedium,
		Icon:     "✨",
		Repeat:   model.RepeatDaily,
		Duration: 15,
		Goal:     1,
	}
}

// TaskService wraps routine task logic for every profile. Each profile's task
// list is loaded once and written back after every change.
type TaskService struct {
	store         *storage.Adapter
	notifier      *notify.Service
	analysisDelay time.Duration

	mu        sync.Mutex
	routines  map[string]*routine.Store
	analyzers map[string]*analyzer.Analyzer
}

func NewTaskService(store *storage.Adapter, notifier *notify.Service, analysisDelay time.Duration) *TaskService {
	return &TaskService{
		store:         store,
		notifier:      notifier,
		analysisDelay: analysisDelay,
		routines:      make(map[string]*routine.Store),
		analyzers:     make(map[string]*analyzer.Analyzer),
	}
}

// routineFor returns the cached store of owner, loading it on first use.
// Callers hold s.mu.
func (s *TaskService) routineFor(ctx context.Context, owner string) (*routine.Store, error) {
	if r, ok := s.routines[owner]; ok {
		return r, nil
	}
	var tasks []model.Task
	if _, err := s.store.Load(ctx, owner, storage.KeyTasks, &tasks); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	r := routine.NewStore(tasks)
	s.routines[owner] = r
	return r, nil
}

// mutate runs fn on owner's store, persists the result and re-arms reminders.
func (s *TaskService) mutate(ctx context.Context, owner, op string, fn func(r *routine.Store) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.routineFor(ctx, owner)
	if err != nil {
		return err
	}
	if !fn(r) {
		return nil
	}
	metrics.TrackTaskOperation(op)

	if err := s.store.Save(ctx, owner, storage.KeyTasks, r.Tasks()); err != nil {
		// Drop the cached copy so the next call reloads what was persisted.
		delete(s.routines, owner)
		return fmt.Errorf("save tasks: %w", err)
	}
	s.syncRemindersLocked(ctx, owner, r)
	return nil
}

// List returns owner's tasks in display order.
func (s *TaskService) List(ctx context.Context, owner string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.routineFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return r.Display(), nil
}

// Tasks returns owner's tasks in stored order, the order positions in
// Reorder refer to.
func (s *TaskService) Tasks(ctx context.Context, owner string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.routineFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	return r.Tasks(), nil
}

func (s *TaskService) Get(ctx context.Context, owner, id string) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.routineFor(ctx, owner)
	if err != nil {
		return model.Task{}, false, err
	}
	task, ok := r.Get(id)
	return task, ok, nil
}

func (s *TaskService) Add(ctx context.Context, owner string, in model.TaskInput) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}
	var added model.Task
	err := s.mutate(ctx, owner, "add", func(r *routine.Store) bool {
		added = r.Add(in)
		return true
	})
	return added, err
}

// AddAll appends inputs in one write.
func (s *TaskService) AddAll(ctx context.Context, owner string, inputs []model.TaskInput) ([]model.Task, error) {
	for _, in := range inputs {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("task %q: %w", in.Name, err)
		}
	}
	var added []model.Task
	err := s.mutate(ctx, owner, "add", func(r *routine.Store) bool {
		added = r.AddAll(inputs)
		return len(added) > 0
	})
	return added, err
}

// Edit replaces a task record. An unknown id changes nothing and reports false.
func (s *TaskService) Edit(ctx context.Context, owner string, task model.Task) (bool, error) {
	if err := task.Validate(); err != nil {
		return false, err
	}
	var ok bool
	err := s.mutate(ctx, owner, "edit", func(r *routine.Store) bool {
		ok = r.Edit(task)
		return ok
	})
	return ok, err
}

// Update overwrites the editable fields of task id with in.
func (s *TaskService) Update(ctx context.Context, owner, id string, in model.TaskInput) (model.Task, bool, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, false, err
	}
	var updated model.Task
	var ok bool
	err := s.mutate(ctx, owner, "edit", func(r *routine.Store) bool {
		current, found := r.Get(id)
		if !found {
			return false
		}
		updated = current.Apply(in)
		ok = r.Edit(updated)
		return ok
	})
	return updated, ok, err
}

func (s *TaskService) Delete(ctx context.Context, owner, id string) (bool, error) {
	var ok bool
	err := s.mutate(ctx, owner, "delete", func(r *routine.Store) bool {
		ok = r.Delete(id)
		return ok
	})
	return ok, err
}

func (s *TaskService) Toggle(ctx context.Context, owner, id string) (model.Task, bool, error) {
	var task model.Task
	var ok bool
	err := s.mutate(ctx, owner, "toggle", func(r *routine.Store) bool {
		task, ok = r.Toggle(id)
		return ok
	})
	return task, ok, err
}

// Reorder moves a task between positions of the stored order.
func (s *TaskService) Reorder(ctx context.Context, owner string, from, to int) (bool, error) {
	var ok bool
	err := s.mutate(ctx, owner, "reorder", func(r *routine.Store) bool {
		ok = r.Reorder(from, to)
		return ok
	})
	return ok, err
}

func (s *TaskService) Summary(ctx context.Context, owner string) (routine.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.routineFor(ctx, owner)
	if err != nil {
		return routine.Summary{}, err
	}
	return r.Summary(), nil
}

// Analyze runs the routine analyzer of owner over the current tasks. It
// blocks for the configured analysis delay.
func (s *TaskService) Analyze(ctx context.Context, owner string) (analyzer.Result, error) {
	s.mu.Lock()
	r, err := s.routineFor(ctx, owner)
	if err != nil {
		s.mu.Unlock()
		return analyzer.Result{}, err
	}
	tasks := r.Tasks()
	a := s.analyzerLocked(owner)
	s.mu.Unlock()

	return a.Run(ctx, tasks)
}

// AnalysisState reports where owner's last analysis stands.
func (s *TaskService) AnalysisState(owner string) (analyzer.State, analyzer.Result) {
	s.mu.Lock()
	a := s.analyzerLocked(owner)
	s.mu.Unlock()
	return a.State()
}

func (s *TaskService) analyzerLocked(owner string) *analyzer.Analyzer {
	a, ok := s.analyzers[owner]
	if !ok {
		a = analyzer.New(s.analysisDelay)
		s.analyzers[owner] = a
	}
	return a
}

// ApplySuggestion adds a task named after a suggestion, using fixed defaults
// for everything else.
func (s *TaskService) ApplySuggestion(ctx context.Context, owner, name string) (model.Task, error) {
	return s.Add(ctx, owner, suggestionInput(name))
}

// SyncReminders re-arms owner's task reminders from the current tasks and
// notification settings.
func (s *TaskService) SyncReminders(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.routineFor(ctx, owner)
	if err != nil {
		return err
	}
	s.syncRemindersLocked(ctx, owner, r)
	return nil
}

func (s *TaskService) syncRemindersLocked(ctx context.Context, owner string, r *routine.Store) {
	s.notifier.CancelAll(owner)

	settings, err := loadSettings(ctx, s.store, owner)
	if err != nil {
		log.Printf("[warn] reminders for %s: %v", owner, err)
		return
	}
	if !settings.Enabled || !settings.TaskReminders {
		return
	}
	for _, t := range r.Tasks() {
		if t.Completed {
			continue
		}
		if _, err := s.notifier.ScheduleTaskReminder(ctx, owner, t.ID, t.Name, t.Time, settings.ReminderMinutes); err != nil {
			log.Printf("[warn] schedule reminder for task %s: %v", t.ID, err)
		}
	}
}

func loadSettings(ctx context.Context, store *storage.Adapter, owner string) (model.NotificationSettings, error) {
	settings := model.DefaultNotificationSettings()
	if _, err := store.Load(ctx, owner, storage.KeyNotificationSettings, &settings); err != nil {
		return model.DefaultNotificationSettings(), err
	}
	return settings, nil
}
