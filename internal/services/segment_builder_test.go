package services

import (
	"testing"
	"time"

	"fleet-tracking-service/internal/domain"
)

func point(t *testing.T, hour, min int, lon, lat float64) domain.LocationPoint {
	t.Helper()
	return domain.LocationPoint{Longitude: lon, Latitude: lat, RecordedAt: at(t, hour, min)}
}

// Two completed stops, mileage 100 -> 105 -> 120.
func completedTrip(t *testing.T) *domain.AggregatedRun {
	t.Helper()
	end := at(t, 10, 0)
	return &domain.AggregatedRun{
		Key:          "V1-1° NORMAL-2026-03-10",
		VehicleID:    "V1",
		StartedAt:    at(t, 8, 0),
		StartMileage: 100,
		EndedAt:      &end,
		EndMileage:   fptr(120),
		Status:       domain.RunCompleted,
		Stops: []domain.Stop{
			completedStop("A", at(t, 8, 30), at(t, 8, 45), 105),
			completedStop("B", at(t, 9, 30), at(t, 9, 45), 120),
		},
		LocationHistory: []domain.LocationPoint{
			point(t, 8, 0, 10, 20),
			point(t, 8, 15, 11, 21),
			point(t, 8, 30, 12, 22),
			point(t, 9, 0, 13, 23),
			point(t, 9, 30, 14, 24),
		},
	}
}

func TestBuildSegmentsCompletedTrip(t *testing.T) {
	trip := completedTrip(t)
	segs := BuildSegments(trip, at(t, 11, 0))

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}

	a := segs[0]
	if a.Label != "A" {
		t.Fatalf("first label = %q, want A", a.Label)
	}
	if a.TravelTime != "30 min" {
		t.Fatalf("first travel time = %q, want 30 min", a.TravelTime)
	}
	if a.StopTime != "15 min" {
		t.Fatalf("first stop time = %q, want 15 min", a.StopTime)
	}
	if a.Distance == nil || *a.Distance != 5 {
		t.Fatalf("first distance = %v, want 5", a.Distance)
	}
	if len(a.Path) != 3 || a.Path[0] != (domain.Coordinates{Lon: 10, Lat: 20}) {
		t.Fatalf("first path = %v", a.Path)
	}

	b := segs[1]
	if b.Label != "B" {
		t.Fatalf("second label = %q, want B", b.Label)
	}
	if b.TravelTime != "45 min" {
		t.Fatalf("second travel time = %q, want 45 min", b.TravelTime)
	}
	if b.Distance == nil || *b.Distance != 15 {
		t.Fatalf("second distance = %v, want 15", b.Distance)
	}

	// Continuity: adjacent segments share the joining point.
	if a.Path[len(a.Path)-1] != b.Path[0] {
		t.Fatalf("segments not stitched: %v vs %v", a.Path[len(a.Path)-1], b.Path[0])
	}

	// Completed trip never gets a live-position segment.
	for _, s := range segs {
		if s.Label == domain.CurrentPositionLabel {
			t.Fatal("completed trip must not carry a current-position segment")
		}
	}
}

func TestBuildSegmentsEmptyHistory(t *testing.T) {
	trip := completedTrip(t)
	trip.LocationHistory = nil

	if segs := BuildSegments(trip, at(t, 11, 0)); len(segs) != 0 {
		t.Fatalf("expected no segments without location history, got %d", len(segs))
	}
}

func TestBuildSegmentsUnsortedHistory(t *testing.T) {
	trip := completedTrip(t)
	// Reverse delivery order; capture order must still win.
	for i, j := 0, len(trip.LocationHistory)-1; i < j; i, j = i+1, j-1 {
		trip.LocationHistory[i], trip.LocationHistory[j] = trip.LocationHistory[j], trip.LocationHistory[i]
	}

	segs := BuildSegments(trip, at(t, 11, 0))
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	want := []domain.Coordinates{{Lon: 10, Lat: 20}, {Lon: 11, Lat: 21}, {Lon: 12, Lat: 22}}
	for i, c := range want {
		if segs[0].Path[i] != c {
			t.Fatalf("path[%d] = %v, want %v", i, segs[0].Path[i], c)
		}
	}
}

func TestBuildSegmentsSkipsCanceledAndPending(t *testing.T) {
	trip := completedTrip(t)
	canceled := domain.Stop{StopID: "s-x", Name: "X", Status: domain.StopCanceled, ArrivedAt: tptr(at(t, 9, 0))}
	pending := domain.Stop{StopID: "s-p", Name: "P", Status: domain.StopPending}
	trip.Stops = []domain.Stop{trip.Stops[0], canceled, trip.Stops[1], pending}

	segs := BuildSegments(trip, at(t, 11, 0))
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	// Travel for B still measured from A's departure, unaffected by X.
	if segs[1].TravelTime != "45 min" {
		t.Fatalf("second travel time = %q, want 45 min", segs[1].TravelTime)
	}
}

func TestBuildSegmentsOpenStopDwellInProgress(t *testing.T) {
	trip := completedTrip(t)
	trip.Status = domain.RunInProgress
	trip.EndedAt = nil
	trip.EndMileage = nil
	// Last stop arrived but not departed.
	trip.Stops[1] = domain.Stop{
		StopID: "s-open", Name: "B", Status: domain.StopInProgress, ArrivedAt: tptr(at(t, 9, 30)),
	}

	segs := BuildSegments(trip, at(t, 11, 0))
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	open := segs[1]
	if open.StopTime != "in progress" {
		t.Fatalf("open stop dwell = %q, want in progress", open.StopTime)
	}
	if open.Distance != nil {
		t.Fatalf("open stop without mileage must omit distance, got %v", *open.Distance)
	}
	// The open stop has not released the vehicle: no trailing live segment.
	if segs[len(segs)-1].Label == domain.CurrentPositionLabel {
		t.Fatal("unexpected current-position segment after an open stop")
	}
}

func TestBuildSegmentsTrailingCurrentPosition(t *testing.T) {
	trip := completedTrip(t)
	trip.Status = domain.RunInProgress
	trip.EndedAt = nil
	trip.LocationHistory = append(trip.LocationHistory,
		point(t, 9, 45, 15, 25),
		point(t, 10, 0, 16, 26),
	)

	segs := BuildSegments(trip, at(t, 10, 15))
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}

	live := segs[2]
	if live.Label != domain.CurrentPositionLabel {
		t.Fatalf("trailing label = %q", live.Label)
	}
	if live.Color != domain.CurrentPositionColor {
		t.Fatalf("trailing color = %q", live.Color)
	}
	if live.TravelTime != "30 min" {
		t.Fatalf("trailing elapsed = %q, want 30 min", live.TravelTime)
	}
	if live.StopTime != "" || live.Distance != nil {
		t.Fatal("live segment must carry no dwell time and no distance")
	}
	want := []domain.Coordinates{{Lon: 15, Lat: 25}, {Lon: 16, Lat: 26}}
	if len(live.Path) != 2 || live.Path[0] != want[0] || live.Path[1] != want[1] {
		t.Fatalf("live path = %v, want %v", live.Path, want)
	}
}

func TestBuildSegmentsPaletteCycles(t *testing.T) {
	trip := &domain.AggregatedRun{
		StartedAt: at(t, 6, 0),
		Status:    domain.RunCompleted,
		LocationHistory: []domain.LocationPoint{
			point(t, 6, 0, 1, 1),
		},
	}
	base := at(t, 6, 0)
	for i := 0; i < 12; i++ {
		arrive := base.Add(time.Duration(i+1) * 10 * time.Minute)
		depart := arrive.Add(2 * time.Minute)
		trip.Stops = append(trip.Stops, domain.Stop{
			StopID: "s", Name: "S", Status: domain.StopCompleted,
			ArrivedAt: &arrive, DepartedAt: &depart,
		})
	}

	segs := BuildSegments(trip, at(t, 12, 0))
	if len(segs) != 12 {
		t.Fatalf("expected 12 segments, got %d", len(segs))
	}
	if segs[0].Color != domain.SegmentPalette[0] {
		t.Fatalf("first color = %q", segs[0].Color)
	}
	if segs[10].Color != domain.SegmentPalette[0] || segs[11].Color != domain.SegmentPalette[1] {
		t.Fatal("palette must cycle by index mod palette size")
	}
}

func TestBuildSegmentsMalformedDwellClamps(t *testing.T) {
	trip := completedTrip(t)
	// Departure recorded before arrival: display computation clamps, never errors.
	trip.Stops[0].DepartedAt = tptr(at(t, 8, 20))

	segs := BuildSegments(trip, at(t, 11, 0))
	if segs[0].StopTime != "0 min" {
		t.Fatalf("malformed dwell = %q, want 0 min", segs[0].StopTime)
	}
}

func TestBuildSegmentsSkipsStopWithoutArrival(t *testing.T) {
	trip := completedTrip(t)
	trip.Stops = append(trip.Stops, domain.Stop{
		StopID: "s-n", Name: "N", Status: domain.StopInProgress,
	})

	segs := BuildSegments(trip, at(t, 11, 0))
	if len(segs) != 2 {
		t.Fatalf("a stop without arrival must not bound a segment, got %d segments", len(segs))
	}
}
