// Package schedule provides a tick-driven virtual clock with cancellable
// one-shot and recurring callbacks.
//
// The host frame loop owns the clock and calls Advance once per frame.
// Callbacks run synchronously inside Advance, on the caller's goroutine,
// so game state touched by them needs no locking.
package schedule

import (
	"sort"
	"time"
)

// Task is a handle to a scheduled callback.
type Task interface {
	// Cancel prevents any further runs. Safe to call more than once.
	Cancel()
	// Active reports whether the task may still run.
	Active() bool
}

type task struct {
	id       uint64
	due      time.Time
	interval time.Duration // 0 for one-shot tasks
	fn       func()
	canceled bool
	done     bool
}

func (t *task) Cancel() {
	t.canceled = true
}

func (t *task) Active() bool {
	return !t.canceled && !t.done
}

// Scheduler is a virtual clock plus the tasks waiting on it.
type Scheduler struct {
	now    time.Time
	tasks  []*task
	nextID uint64
}

// New creates a scheduler whose clock starts at origin.
func New(origin time.Time) *Scheduler {
	return &Scheduler{now: origin}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After runs fn once, the first time the clock reaches now+d.
func (s *Scheduler) After(d time.Duration, fn func()) Task {
	return s.add(d, 0, fn)
}

// Every runs fn each time interval elapses. A recurring task fires at most
// once per Advance; missed periods are coalesced, like a frame timer.
func (s *Scheduler) Every(interval time.Duration, fn func()) Task {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return s.add(interval, interval, fn)
}

func (s *Scheduler) add(d, interval time.Duration, fn func()) Task {
	if d < 0 {
		d = 0
	}
	s.nextID++
	t := &task{
		id:       s.nextID,
		due:      s.now.Add(d),
		interval: interval,
		fn:       fn,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by dt and runs every task that became due,
// in due-time order. Tasks scheduled by a callback wait for a later Advance.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt > 0 {
		s.now = s.now.Add(dt)
	}

	due := make([]*task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Active() && !t.due.After(s.now) {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})

	for _, t := range due {
		// An earlier callback in this batch may have cancelled it
		if !t.Active() {
			continue
		}
		if t.interval == 0 {
			t.done = true
		} else {
			t.due = s.now.Add(t.interval)
		}
		t.fn()
	}

	s.compact()
}

// Pending returns the number of tasks that may still run.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if t.Active() {
			n++
		}
	}
	return n
}

// CancelAll cancels every pending task.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.Cancel()
	}
	s.tasks = s.tasks[:0]
}

// compact drops finished and cancelled tasks.
func (s *Scheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.Active() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}
