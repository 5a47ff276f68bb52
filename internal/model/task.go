package model

// Task is a single routine item scheduled at a time of day.
type Task struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Time      string   `json:"time"`
	Category  Category `json:"category"`
	Priority  Priority `json:"priority"`
	Icon      string   `json:"icon"`
	Completed bool     `json:"completed"`
	Streak    int      `json:"streak"`
	Repeat    Repeat   `json:"repeat"`
	Order     int      `json:"order"`
	Notes     string   `json:"notes,omitempty"`
	Goal      int      `json:"goal,omitempty"`
	Duration  int      `json:"duration,omitempty"` // minutes
}

// TaskInput carries the user-editable fields of a task. Identity, completion,
// streak and order are assigned by the store.
type TaskInput struct {
	Name     string   `json:"name" validate:"required"`
	Time     string   `json:"time" validate:"required,hhmm"`
	Category Category `json:"category" validate:"enum"`
	Priority Priority `json:"priority" validate:"enum"`
	Icon     string   `json:"icon"`
	Repeat   Repeat   `json:"repeat" validate:"enum"`
	Notes    string   `json:"notes,omitempty"`
	Goal     int      `json:"goal,omitempty" validate:"gte=0"`
	Duration int      `json:"duration,omitempty" validate:"gte=0"`
}

// Validate applies the form-boundary checks: name and time are required and
// the enumerations must hold known values.
func (in TaskInput) Validate() error {
	return validate.Struct(in)
}

// Input returns the editable part of the task.
func (t Task) Input() TaskInput {
	return TaskInput{
		Name:     t.Name,
		Time:     t.Time,
		Category: t.Category,
		Priority: t.Priority,
		Icon:     t.Icon,
		Repeat:   t.Repeat,
		Notes:    t.Notes,
		Goal:     t.Goal,
		Duration: t.Duration,
	}
}

// Apply overwrites the editable fields of the task with in.
func (t Task) Apply(in TaskInput) Task {
	t.Name = in.Name
	t.Time = in.Time
	t.Category = in.Category
	t.Priority = in.Priority
	t.Icon = in.Icon
	t.Repeat = in.Repeat
	t.Notes = in.Notes
	t.Goal = in.Goal
	t.Duration = in.Duration
	return t
}

// Validate checks a full task record, e.g. one submitted for replacement.
func (t Task) Validate() error {
	if err := t.Input().Validate(); err != nil {
		return err
	}
	return validate.Var(t.Streak, "gte=0")
}
