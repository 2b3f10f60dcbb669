package services

import (
	"fleet-tracking-service/internal/domain"
	"log"
	"slices"
	"time"
)

// BuildSegments carves an aggregated run's location history into one travel
// segment per completed or in-progress stop, in arrival order, plus an
// optional trailing "current position" segment for runs still underway.
// Stops that were canceled, never started, or never arrived at produce no
// segment. now bounds the live segment's elapsed time and is passed in so the
// function stays pure.
//
// Returns an empty list when the run has no location history: there is no
// geometry to show and the caller should decline to render a map.
func BuildSegments(trip *domain.AggregatedRun, now time.Time) []domain.Segment {
	segments := []domain.Segment{}
	if len(trip.LocationHistory) == 0 {
		return segments
	}

	// Input may be unsorted; sort a copy so the trip itself is untouched.
	history := slices.Clone(trip.LocationHistory)
	sortLocationsByTime(history)

	stops := qualifyingStops(trip.Stops)

	lastDeparture := trip.StartedAt
	lastMileage := trip.StartMileage
	var tailDeparture *time.Time

	for _, stop := range stops {
		arrival := *stop.ArrivedAt

		var dist *float64
		if stop.MileageAtStop != nil {
			d := *stop.MileageAtStop - lastMileage
			if d < 0 {
				log.Printf("stop=%q mileage=%.1f below cursor=%.1f, clamping segment distance to 0",
					stop.Name, *stop.MileageAtStop, lastMileage)
				d = 0
			}
			dist = &d
		}

		path := pointsBetween(history, lastDeparture, arrival)
		if len(segments) == 0 {
			// First segment joins at the first point at or after run start.
			if p, ok := firstAtOrAfter(history, trip.StartedAt); ok {
				path = stitchFront(path, p)
			}
		} else if p, ok := lastAtOrBefore(history, lastDeparture); ok {
			// Adjacent segments share a joining point so the rendered path
			// has no visible gap.
			path = stitchFront(path, p)
		}

		travel := arrival.Sub(lastDeparture)
		if travel < 0 {
			log.Printf("stop=%q arrival precedes previous departure, clamping travel time to 0", stop.Name)
			travel = 0
		}

		stopTime := "in progress"
		if stop.DepartedAt != nil {
			dwell := stop.DepartedAt.Sub(arrival)
			if dwell < 0 {
				log.Printf("stop=%q departure precedes arrival, clamping stop time to 0", stop.Name)
				dwell = 0
			}
			stopTime = FormatMinutes(dwell)
		}

		segments = append(segments, domain.Segment{
			Label:      stop.Name,
			Path:       path,
			Color:      domain.SegmentPalette[len(segments)%len(domain.SegmentPalette)],
			TravelTime: FormatMinutes(travel),
			StopTime:   stopTime,
			Distance:   dist,
			Stop:       stop,
		})

		// An unfinished stop has not released the vehicle: the cursor only
		// advances past stops with a recorded departure.
		if stop.DepartedAt != nil {
			lastDeparture = *stop.DepartedAt
		}
		tailDeparture = stop.DepartedAt
		if stop.MileageAtStop != nil {
			lastMileage = *stop.MileageAtStop
		}
	}

	if trip.Status == domain.RunInProgress && tailDeparture != nil {
		elapsed := now.Sub(*tailDeparture)
		if elapsed < 0 {
			elapsed = 0
		}
		segments = append(segments, domain.Segment{
			Label:      domain.CurrentPositionLabel,
			Path:       pointsAtOrAfter(history, *tailDeparture),
			Color:      domain.CurrentPositionColor,
			TravelTime: FormatMinutes(elapsed),
		})
	}

	return segments
}

// qualifyingStops filters to COMPLETED/IN_PROGRESS stops with a recorded
// arrival, sorted by arrival (stable, so ties keep original stop order).
func qualifyingStops(stops []domain.Stop) []domain.Stop {
	out := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		if s.Qualifies() {
			out = append(out, s)
		}
	}
	sortStopsByArrival(out)
	return out
}

// pointsBetween returns the path of points recorded within [from, to]
// inclusive, in timestamp order. history must already be sorted.
func pointsBetween(history []domain.LocationPoint, from, to time.Time) []domain.Coordinates {
	path := []domain.Coordinates{}
	for _, p := range history {
		if p.RecordedAt.Before(from) {
			continue
		}
		if p.RecordedAt.After(to) {
			break
		}
		path = append(path, p.Coord())
	}
	return path
}

func pointsAtOrAfter(history []domain.LocationPoint, from time.Time) []domain.Coordinates {
	path := []domain.Coordinates{}
	for _, p := range history {
		if p.RecordedAt.Before(from) {
			continue
		}
		path = append(path, p.Coord())
	}
	return path
}

func firstAtOrAfter(history []domain.LocationPoint, t time.Time) (domain.Coordinates, bool) {
	for _, p := range history {
		if !p.RecordedAt.Before(t) {
			return p.Coord(), true
		}
	}
	return domain.Coordinates{}, false
}

func lastAtOrBefore(history []domain.LocationPoint, t time.Time) (domain.Coordinates, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].RecordedAt.After(t) {
			return history[i].Coord(), true
		}
	}
	return domain.Coordinates{}, false
}

// stitchFront prepends the joining point unless it already leads the path.
func stitchFront(path []domain.Coordinates, p domain.Coordinates) []domain.Coordinates {
	if len(path) > 0 && path[0] == p {
		return path
	}
	return append([]domain.Coordinates{p}, path...)
}
