package zonemap

import "testing"

func TestSchedulerAfter(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.After(3, func() { fired++ })

	s.Tick()
	s.Tick()
	if fired != 0 {
		t.Fatal("fired early")
	}
	s.Tick()
	if fired != 1 {
		t.Fatalf("expected one firing, got %d", fired)
	}
	s.Tick()
	if fired != 1 {
		t.Fatal("task fired twice")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	task := s.After(2, func() { fired = true })
	task.Cancel()
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if fired {
		t.Fatal("cancelled task fired")
	}
	// Cancelling a nil or finished task is harmless.
	var nilTask *Task
	nilTask.Cancel()
	task.Cancel()
}

func TestSchedulerCancelAll(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.After(1, func() { fired = true })
	s.After(2, func() { fired = true })
	s.CancelAll()
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if fired {
		t.Fatal("task fired after teardown")
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	s := NewScheduler()
	fired := 0
	d := NewDebouncer(s, 3, func() { fired++ })

	// Rapid triggers collapse into a single firing after the last one.
	d.Trigger()
	s.Tick()
	d.Trigger()
	s.Tick()
	d.Trigger()
	for i := 0; i < 3; i++ {
		s.Tick()
	}
	if fired != 1 {
		t.Fatalf("expected one coalesced firing, got %d", fired)
	}

	// A later trigger fires again.
	d.Trigger()
	for i := 0; i < 3; i++ {
		s.Tick()
	}
	if fired != 2 {
		t.Fatalf("expected a second firing, got %d", fired)
	}
}

func TestDebouncerCancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	d := NewDebouncer(s, 2, func() { fired = true })
	d.Trigger()
	d.Cancel()
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if fired {
		t.Fatal("cancelled debounce fired")
	}
}
