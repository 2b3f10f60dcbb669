package services

import (
	"fleet-tracking-service/internal/domain"
	"log"
	"slices"
	"time"
)

// AggregateRuns groups raw run records into logical trips, one per distinct
// (vehicle, driver shift, calendar day of the run's start). Multiple runs in
// a bucket model a single shift with breaks and are concatenated in start
// order. The result is sorted most-recent trip first.
//
// Pure function of its inputs: no I/O, no hidden state, safe to re-run on
// every refresh.
func AggregateRuns(runs []*domain.Run, shiftByDriver map[string]string) []*domain.AggregatedRun {
	buckets := make(map[string][]*domain.Run)
	for _, run := range runs {
		shift := shiftByDriver[run.DriverID]
		if shift == "" {
			shift = domain.NoShift
		}
		key := run.VehicleID + "-" + shift + "-" + dateOf(run.StartedAt)
		buckets[key] = append(buckets[key], run)
	}

	trips := make([]*domain.AggregatedRun, 0, len(buckets))
	for key, members := range buckets {
		slices.SortStableFunc(members, func(a, b *domain.Run) int {
			return a.StartedAt.Compare(b.StartedAt)
		})
		trips = append(trips, buildTrip(key, members, shiftByDriver))
	}

	// Most recent trip first; key breaks start-time ties deterministically.
	slices.SortStableFunc(trips, func(a, b *domain.AggregatedRun) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		if a.Key < b.Key {
			return -1
		}
		if a.Key > b.Key {
			return 1
		}
		return 0
	})
	return trips
}

func buildTrip(key string, members []*domain.Run, shiftByDriver map[string]string) *domain.AggregatedRun {
	first := members[0]
	last := members[len(members)-1]

	shift := shiftByDriver[first.DriverID]
	if shift == "" {
		shift = domain.NoShift
	}

	trip := &domain.AggregatedRun{
		Key:          key,
		DriverID:     first.DriverID,
		DriverName:   first.DriverName,
		VehicleID:    first.VehicleID,
		Shift:        shift,
		StartedAt:    first.StartedAt,
		StartMileage: first.StartMileage,
		EndedAt:      last.EndedAt,
		EndMileage:   last.LastKnownMileage(),
		Status:       domain.RunCompleted,
		Runs:         members,
	}

	for _, m := range members {
		if m.Status == domain.RunInProgress {
			trip.Status = domain.RunInProgress
		}
		trip.Stops = append(trip.Stops, m.Stops...)
		trip.LocationHistory = append(trip.LocationHistory, m.LocationHistory...)
	}

	if trip.EndMileage != nil {
		d := *trip.EndMileage - trip.StartMileage
		if d < 0 {
			log.Printf("trip=%s end_mileage=%.1f below start_mileage=%.1f, clamping distance to 0",
				key, *trip.EndMileage, trip.StartMileage)
			d = 0
		}
		trip.TotalDistance = d
	}

	sortStopsByArrival(trip.Stops)
	sortLocationsByTime(trip.LocationHistory)
	return trip
}

// sortStopsByArrival orders stops ascending by arrival time. Stops with no
// arrival sort last (arrival treated as +infinity for ordering only); ties
// keep original order.
func sortStopsByArrival(stops []domain.Stop) {
	slices.SortStableFunc(stops, func(a, b domain.Stop) int {
		switch {
		case a.ArrivedAt == nil && b.ArrivedAt == nil:
			return 0
		case a.ArrivedAt == nil:
			return 1
		case b.ArrivedAt == nil:
			return -1
		default:
			return a.ArrivedAt.Compare(*b.ArrivedAt)
		}
	})
}

func sortLocationsByTime(points []domain.LocationPoint) {
	slices.SortStableFunc(points, func(a, b domain.LocationPoint) int {
		return a.RecordedAt.Compare(b.RecordedAt)
	})
}

// dateOf renders the calendar-day component of a grouping key.
func dateOf(t time.Time) string { return t.UTC().Format("2006-01-02") }
