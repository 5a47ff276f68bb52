// Package routine holds the in-memory ordered task collection of one profile.
package routine

import (
	"sort"

	"github.com/google/uuid"

	"daily-routine/internal/model"
)

// Store is the ordered task collection of a single profile. It is not safe
// for concurrent use; callers serialize access.
type Store struct {
	tasks []model.Task
	newID func() string
}

// NewStore wraps an existing collection, typically loaded from storage.
func NewStore(tasks []model.Task) *Store {
	return &Store{
		tasks: append([]model.Task(nil), tasks...),
		newID: uuid.NewString,
	}
}

// Tasks returns a copy of the collection in stored order.
func (s *Store) Tasks() []model.Task {
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Len() int { return len(s.tasks) }

// Get returns the task with id.
func (s *Store) Get(id string) (model.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Add appends a new task built from in and returns it.
func (s *Store) Add(in model.TaskInput) model.Task {
	task := model.Task{ID: s.newID(), Order: len(s.tasks)}.Apply(in)
	if task.Goal == 0 {
		task.Goal = 1
	}
	s.tasks = append(s.tasks, task)
	return task
}

// AddAll appends every input in order.
func (s *Store) AddAll(inputs []model.TaskInput) []model.Task {
	added := make([]model.Task, 0, len(inputs))
	for _, in := range inputs {
		added = append(added, s.Add(in))
	}
	return added
}

// Edit replaces the task carrying the same id. Unknown ids are ignored.
func (s *Store) Edit(task model.Task) bool {
	i := s.index(task.ID)
	if i < 0 {
		return false
	}
	s.tasks[i] = task
	return true
}

// Delete removes the task with id. Unknown ids are ignored.
func (s *Store) Delete(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// Toggle flips completion and moves the streak with it.
func (s *Store) Toggle(id string) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	t := &s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		t.Streak++
	} else if t.Streak > 0 {
		t.Streak--
	}
	return *t, true
}

// Reorder moves the task at position from to position to and renumbers every
// task's order to its new position. Out of range positions are ignored.
func (s *Store) Reorder(from, to int) bool {
	n := len(s.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	moved := s.tasks[from]
	rest := append(append([]model.Task(nil), s.tasks[:from]...), s.tasks[from+1:]...)
	s.tasks = append(rest[:to], append([]model.Task{moved}, rest[to:]...)...)
	for i := range s.tasks {
		s.tasks[i].Order = i
	}
	return true
}

// Display returns the tasks as shown to the user: by order, then by time.
func (s *Store) Display() []model.Task {
	return DisplaySort(s.tasks)
}

// DisplaySort sorts a copy of tasks by order and then stably by time, so
// tasks sharing a time keep their manual order.
func DisplaySort(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// LongestStreak is the highest streak across tasks.
func (s *Store) LongestStreak() int {
	longest := 0
	for _, t := range s.tasks {
		if t.Streak > longest {
			longest = t.Streak
		}
	}
	return longest
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
