package analyzer

import (
	"context"
	"sync"
	"time"

	"daily-routine/internal/model"
)

// DefaultDelay is how long an analysis appears to take.
const DefaultDelay = 2 * time.Second

type State int

const (
	Idle State = iota
	Analyzing
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Analyzing:
		return "analyzing"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Analyzer runs Analyze behind an artificial delay and remembers the last
// result. Starting a new run cancels the one in flight.
type Analyzer struct {
	mu     sync.Mutex
	delay  time.Duration
	state  State
	result Result
	run    uint64
	cancel context.CancelFunc
}

func New(delay time.Duration) *Analyzer {
	if delay < 0 {
		delay = 0
	}
	return &Analyzer{delay: delay}
}

// Run analyzes tasks and blocks until the delay elapses or ctx is done. A
// cancelled run returns the analyzer to Idle.
func (a *Analyzer) Run(ctx context.Context, tasks []model.Task) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.run++
	run := a.run
	a.cancel = cancel
	a.state = Analyzing
	a.result = Result{}
	a.mu.Unlock()

	result := Analyze(tasks)

	timer := time.NewTimer(a.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		a.mu.Lock()
		if a.run == run {
			a.state = Idle
			a.cancel = nil
		}
		a.mu.Unlock()
		return Result{}, ctx.Err()
	case <-timer.C:
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.run != run {
		return Result{}, context.Canceled
	}
	a.state = Ready
	a.result = result
	a.cancel = nil
	return result, nil
}

// State reports the current state and, when Ready, the last result.
func (a *Analyzer) State() (State, Result) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.result
}
