package domain

import (
	"testing"
	"time"
)

func ts(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestStopTransitions(t *testing.T) {
	stop := Stop{StopID: "s1", Name: "A", Status: StopPending}

	// Completing before arriving violates the state machine.
	if err := stop.Complete(ts(9, 0)); err == nil {
		t.Fatal("complete from PENDING must fail")
	}

	if err := stop.Arrive(ts(8, 30)); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	if stop.Status != StopInProgress || stop.ArrivedAt == nil {
		t.Fatalf("after arrive: status=%s arrived=%v", stop.Status, stop.ArrivedAt)
	}

	// Departure must not precede arrival.
	if err := stop.Complete(ts(8, 0)); err == nil {
		t.Fatal("departure before arrival must fail")
	}

	if err := stop.Complete(ts(8, 45)); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if stop.Status != StopCompleted || stop.DepartedAt == nil {
		t.Fatalf("after complete: status=%s departed=%v", stop.Status, stop.DepartedAt)
	}

	// Canceled is only reachable from PENDING.
	if err := stop.Cancel(); err == nil {
		t.Fatal("cancel of a completed stop must fail")
	}

	other := Stop{StopID: "s2", Name: "B", Status: StopPending}
	if err := other.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := other.Arrive(ts(9, 0)); err == nil {
		t.Fatal("canceled stop must not re-enter the route")
	}
}

func TestRunComplete(t *testing.T) {
	run := Run{RunID: "r1", StartedAt: ts(8, 0), StartMileage: 100, Status: RunInProgress}

	if err := run.Complete(ts(7, 0), 120); err == nil {
		t.Fatal("end time before start time must fail")
	}
	if err := run.Complete(ts(12, 0), 120); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if run.Status != RunCompleted || run.EndedAt == nil || run.EndMileage == nil {
		t.Fatalf("run not closed: %+v", run)
	}
	if err := run.Complete(ts(13, 0), 130); err == nil {
		t.Fatal("double completion must fail")
	}
}

func TestRunLastKnownMileage(t *testing.T) {
	m1, m2 := 105.0, 118.0
	run := Run{
		RunID:  "r1",
		Status: RunInProgress,
		Stops: []Stop{
			{StopID: "a", MileageAtStop: &m1},
			{StopID: "b"},
			{StopID: "c", MileageAtStop: &m2},
		},
	}

	if got := run.LastKnownMileage(); got == nil || *got != 118 {
		t.Fatalf("fallback mileage = %v, want 118", got)
	}

	end := 130.0
	run.EndMileage = &end
	if got := run.LastKnownMileage(); got == nil || *got != 130 {
		t.Fatalf("end mileage must win, got %v", got)
	}

	empty := Run{RunID: "r2"}
	if got := empty.LastKnownMileage(); got != nil {
		t.Fatalf("no readings must yield nil, got %v", *got)
	}
}
