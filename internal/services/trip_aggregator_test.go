package services

import (
	"reflect"
	"testing"
	"time"

	"fleet-tracking-service/internal/domain"
)

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func tptr(v time.Time) *time.Time { return &v }
func fptr(v float64) *float64     { return &v }

func completedStop(name string, arrive, depart time.Time, mileage float64) domain.Stop {
	return domain.Stop{
		StopID:        "stop-" + name,
		Name:          name,
		Status:        domain.StopCompleted,
		ArrivedAt:     tptr(arrive),
		DepartedAt:    tptr(depart),
		MileageAtStop: fptr(mileage),
	}
}

func TestAggregateRunsSingleRun(t *testing.T) {
	end := at(t, 10, 0)
	run := &domain.Run{
		RunID:        "r1",
		DriverID:     "d1",
		DriverName:   "Ana",
		VehicleID:    "V1",
		StartedAt:    at(t, 8, 0),
		StartMileage: 100,
		Status:       domain.RunCompleted,
		EndedAt:      &end,
		EndMileage:   fptr(120),
		Stops: []domain.Stop{
			completedStop("A", at(t, 8, 30), at(t, 8, 45), 105),
			completedStop("B", at(t, 9, 30), at(t, 9, 45), 120),
		},
	}

	trips := AggregateRuns([]*domain.Run{run}, map[string]string{"d1": "1° NORMAL"})
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}

	trip := trips[0]
	if trip.Key != "V1-1° NORMAL-2026-03-10" {
		t.Fatalf("unexpected key %q", trip.Key)
	}
	if trip.Shift != "1° NORMAL" {
		t.Fatalf("shift = %q, want 1° NORMAL", trip.Shift)
	}
	if trip.TotalDistance != 20 {
		t.Fatalf("total distance = %v, want 20", trip.TotalDistance)
	}
	if trip.Status != domain.RunCompleted {
		t.Fatalf("status = %s, want COMPLETED", trip.Status)
	}
	if len(trip.Runs) != 1 || trip.Runs[0].RunID != "r1" {
		t.Fatalf("member runs not retained: %+v", trip.Runs)
	}
}

func TestAggregateRunsChainedRuns(t *testing.T) {
	end := at(t, 12, 0)
	first := &domain.Run{
		RunID:        "r1",
		DriverID:     "d1",
		VehicleID:    "V1",
		StartedAt:    at(t, 8, 0),
		StartMileage: 100,
		Status:       domain.RunCompleted,
		EndedAt:      &end,
		EndMileage:   fptr(120),
		Stops: []domain.Stop{
			completedStop("A", at(t, 9, 0), at(t, 9, 15), 110),
		},
	}
	second := &domain.Run{
		RunID:        "r2",
		DriverID:     "d1",
		VehicleID:    "V1",
		StartedAt:    at(t, 13, 0),
		StartMileage: 120,
		Status:       domain.RunInProgress,
		Stops: []domain.Stop{
			{StopID: "s-open", Name: "C", Status: domain.StopInProgress, ArrivedAt: tptr(at(t, 13, 30))},
		},
	}

	// Deliberately out of start order.
	trips := AggregateRuns([]*domain.Run{second, first}, map[string]string{"d1": "1° NORMAL"})
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}

	trip := trips[0]
	if trip.Status != domain.RunInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", trip.Status)
	}
	if trip.EndedAt != nil {
		t.Fatalf("ended at should be nil while last member is in progress, got %v", trip.EndedAt)
	}
	if trip.EndMileage != nil {
		t.Fatalf("end mileage should be nil, got %v", *trip.EndMileage)
	}
	if trip.TotalDistance != 0 {
		t.Fatalf("total distance = %v, want 0", trip.TotalDistance)
	}
	if trip.StartedAt != at(t, 8, 0) || trip.StartMileage != 100 {
		t.Fatalf("trip start not taken from earliest member: %v %v", trip.StartedAt, trip.StartMileage)
	}
	if len(trip.Runs) != 2 || trip.Runs[0].RunID != "r1" || trip.Runs[1].RunID != "r2" {
		t.Fatalf("member runs not sorted by start: %v, %v", trip.Runs[0].RunID, trip.Runs[1].RunID)
	}

	idle := trip.IdleBefore(1)
	if idle == nil || *idle != time.Hour {
		t.Fatalf("idle before second run = %v, want 1h", idle)
	}
	if trip.IdleBefore(0) != nil {
		t.Fatal("first member must have no idle gap")
	}
}

func TestAggregateRunsIdleUnknownWithoutEndTime(t *testing.T) {
	first := &domain.Run{
		RunID: "r1", DriverID: "d1", VehicleID: "V1",
		StartedAt: at(t, 8, 0), Status: domain.RunInProgress,
	}
	second := &domain.Run{
		RunID: "r2", DriverID: "d1", VehicleID: "V1",
		StartedAt: at(t, 13, 0), Status: domain.RunInProgress,
	}

	trips := AggregateRuns([]*domain.Run{first, second}, nil)
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}
	if idle := trips[0].IdleBefore(1); idle != nil {
		t.Fatalf("idle must be omitted when the previous run has no end time, got %v", *idle)
	}
}

func TestAggregateRunsNoShiftSentinel(t *testing.T) {
	run := &domain.Run{
		RunID: "r1", DriverID: "ghost", VehicleID: "V9",
		StartedAt: at(t, 8, 0), Status: domain.RunInProgress,
	}

	trips := AggregateRuns([]*domain.Run{run}, map[string]string{})
	if len(trips) != 1 {
		t.Fatalf("run without shift assignment was dropped")
	}
	if trips[0].Shift != domain.NoShift {
		t.Fatalf("shift = %q, want %q", trips[0].Shift, domain.NoShift)
	}
	if trips[0].Key != "V9-no shift-2026-03-10" {
		t.Fatalf("unexpected key %q", trips[0].Key)
	}
}

func TestAggregateRunsGrouping(t *testing.T) {
	runs := []*domain.Run{
		{RunID: "a", DriverID: "d1", VehicleID: "V1", StartedAt: at(t, 8, 0), Status: domain.RunCompleted},
		{RunID: "b", DriverID: "d1", VehicleID: "V2", StartedAt: at(t, 8, 0), Status: domain.RunCompleted},
		{RunID: "c", DriverID: "d2", VehicleID: "V1", StartedAt: at(t, 9, 0), Status: domain.RunCompleted},
		{RunID: "d", DriverID: "d1", VehicleID: "V1", StartedAt: time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC), Status: domain.RunCompleted},
	}
	shifts := map[string]string{"d1": "1° NORMAL", "d2": "2° NORMAL"}

	trips := AggregateRuns(runs, shifts)

	// Different vehicle, shift, and day all split buckets.
	if len(trips) != 4 {
		t.Fatalf("expected 4 trips, got %d", len(trips))
	}

	seen := map[string]int{}
	for _, trip := range trips {
		for _, r := range trip.Runs {
			seen[r.RunID]++
		}
	}
	for _, r := range runs {
		if seen[r.RunID] != 1 {
			t.Fatalf("run %s appears %d times across trips, want exactly 1", r.RunID, seen[r.RunID])
		}
	}

	// Output is most recent first.
	for i := 1; i < len(trips); i++ {
		if trips[i].StartedAt.After(trips[i-1].StartedAt) {
			t.Fatalf("trips not sorted descending by start time at index %d", i)
		}
	}
}

func TestAggregateRunsStopAndLocationOrdering(t *testing.T) {
	noArrival := domain.Stop{StopID: "s3", Name: "pending", Status: domain.StopPending}
	run := &domain.Run{
		RunID: "r1", DriverID: "d1", VehicleID: "V1",
		StartedAt: at(t, 8, 0), Status: domain.RunInProgress,
		Stops: []domain.Stop{
			noArrival,
			completedStop("late", at(t, 10, 0), at(t, 10, 5), 110),
			completedStop("early", at(t, 8, 30), at(t, 8, 35), 105),
		},
		LocationHistory: []domain.LocationPoint{
			{Latitude: 3, Longitude: 3, RecordedAt: at(t, 10, 0)},
			{Latitude: 1, Longitude: 1, RecordedAt: at(t, 8, 0)},
			{Latitude: 2, Longitude: 2, RecordedAt: at(t, 9, 0)},
		},
	}

	trip := AggregateRuns([]*domain.Run{run}, nil)[0]

	if trip.Stops[0].Name != "early" || trip.Stops[1].Name != "late" {
		t.Fatalf("stops not sorted by arrival: %q, %q", trip.Stops[0].Name, trip.Stops[1].Name)
	}
	if trip.Stops[2].Name != "pending" {
		t.Fatalf("stop without arrival must sort last, got %q", trip.Stops[2].Name)
	}
	for i := 1; i < len(trip.LocationHistory); i++ {
		if trip.LocationHistory[i].RecordedAt.Before(trip.LocationHistory[i-1].RecordedAt) {
			t.Fatalf("location history not sorted at index %d", i)
		}
	}
}

func TestAggregateRunsNegativeDistanceClamps(t *testing.T) {
	end := at(t, 10, 0)
	run := &domain.Run{
		RunID: "r1", DriverID: "d1", VehicleID: "V1",
		StartedAt: at(t, 8, 0), StartMileage: 200,
		Status: domain.RunCompleted, EndedAt: &end, EndMileage: fptr(150),
	}

	trip := AggregateRuns([]*domain.Run{run}, nil)[0]
	if trip.TotalDistance != 0 {
		t.Fatalf("inconsistent mileage must clamp to 0, got %v", trip.TotalDistance)
	}
}

func TestAggregateRunsIdempotent(t *testing.T) {
	runs := []*domain.Run{
		{
			RunID: "r1", DriverID: "d1", VehicleID: "V1",
			StartedAt: at(t, 8, 0), StartMileage: 100, Status: domain.RunInProgress,
			Stops: []domain.Stop{completedStop("A", at(t, 8, 30), at(t, 8, 45), 105)},
			LocationHistory: []domain.LocationPoint{
				{Latitude: 1, Longitude: 1, RecordedAt: at(t, 8, 10)},
			},
		},
	}
	shifts := map[string]string{"d1": "2° NORMAL"}

	first := AggregateRuns(runs, shifts)
	second := AggregateRuns(runs, shifts)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("aggregation is not idempotent over unchanged input")
	}
}
