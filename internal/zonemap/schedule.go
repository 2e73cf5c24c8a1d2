package zonemap

// Scheduler runs callbacks a fixed number of update ticks in the
// future. It replaces ambient timers so that teardown can reliably
// cancel everything still pending; callbacks never fire after the map
// that owns the scheduler is unmounted.
type Scheduler struct {
	tick  int
	tasks []*Task
}

// Task is a single scheduled callback.
type Task struct {
	due      int
	fn       func()
	canceled bool
	done     bool
}

// Cancel prevents the task from running. Safe to call repeatedly and
// after the task has fired.
func (t *Task) Cancel() {
	if t != nil {
		t.canceled = true
	}
}

func NewScheduler() *Scheduler { return &Scheduler{} }

// After schedules fn to run after the given number of ticks. A delay
// of zero or less fires on the next Tick.
func (s *Scheduler) After(ticks int, fn func()) *Task {
	t := &Task{due: s.tick + ticks, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Tick advances the scheduler by one update frame and runs everything
// that has come due.
func (s *Scheduler) Tick() {
	s.tick++
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.canceled {
			continue
		}
		if t.due <= s.tick {
			t.done = true
			t.fn()
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
}

// CancelAll drops every pending task. Called on teardown.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.canceled = true
	}
	s.tasks = s.tasks[:0]
}

// Debouncer coalesces rapid triggers into one callback that fires a
// fixed number of ticks after the last trigger. Used for resize-driven
// road repaints.
type Debouncer struct {
	sched   *Scheduler
	delay   int
	fn      func()
	pending *Task
}

func NewDebouncer(sched *Scheduler, delayTicks int, fn func()) *Debouncer {
	return &Debouncer{sched: sched, delay: delayTicks, fn: fn}
}

// Trigger arms (or re-arms) the debounced callback.
func (d *Debouncer) Trigger() {
	d.pending.Cancel()
	d.pending = d.sched.After(d.delay, func() {
		d.pending = nil
		d.fn()
	})
}

// Cancel drops any armed callback.
func (d *Debouncer) Cancel() {
	d.pending.Cancel()
	d.pending = nil
}
