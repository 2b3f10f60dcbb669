package domain

import (
	"errors"
	"fmt"
	"time"
)

type StopStatus string

const (
	StopPending    StopStatus = "PENDING"
	StopInProgress StopStatus = "IN_PROGRESS"
	StopCompleted  StopStatus = "COMPLETED"
	// Canceled is absorbing: a canceled stop never re-enters the route.
	StopCanceled StopStatus = "CANCELED"
)

// Stop is one waypoint in a route. Names identify physical locations and are
// not guaranteed unique across a route. Arrival is set on the transition to
// IN_PROGRESS, departure on the transition to COMPLETED. Collected cargo,
// mileage, occupancy, and observation are recorded by the driver on
// completion and may all be absent.
type Stop struct {
	StopID         string
	Name           string
	Status         StopStatus
	ArrivedAt      *time.Time
	DepartedAt     *time.Time
	CollectedCargo *int
	MileageAtStop  *float64
	OccupancyPct   *int // 0-100
	Observation    string
}

// HasArrival reports whether the stop can bound a travel segment.
func (s Stop) HasArrival() bool { return s.ArrivedAt != nil }

// Qualifies reports whether the stop participates in segment generation:
// it has been arrived at and was not canceled or left pending.
func (s Stop) Qualifies() bool {
	return (s.Status == StopCompleted || s.Status == StopInProgress) && s.ArrivedAt != nil
}

// Arrive transitions the stop to IN_PROGRESS and records the arrival time.
func (s *Stop) Arrive(at time.Time) error {
	if s.Status != StopPending {
		return fmt.Errorf("arrive stop %q: cannot arrive from status %s", s.Name, s.Status)
	}
	s.Status = StopInProgress
	s.ArrivedAt = &at
	return nil
}

// Complete transitions the stop to COMPLETED and records the departure time.
// A stop cannot complete without a recorded arrival, and departure must not
// precede arrival.
func (s *Stop) Complete(at time.Time) error {
	if s.Status != StopInProgress {
		return fmt.Errorf("complete stop %q: cannot complete from status %s", s.Name, s.Status)
	}
	if s.ArrivedAt == nil {
		return fmt.Errorf("complete stop %q: no recorded arrival", s.Name)
	}
	if at.Before(*s.ArrivedAt) {
		return fmt.Errorf("complete stop %q: departure %s before arrival %s",
			s.Name, at.Format(time.RFC3339), s.ArrivedAt.Format(time.RFC3339))
	}
	s.Status = StopCompleted
	s.DepartedAt = &at
	return nil
}

// Cancel marks the stop CANCELED. Only stops not yet started can be canceled.
func (s *Stop) Cancel() error {
	if s.Status != StopPending {
		return fmt.Errorf("cancel stop %q: cannot cancel from status %s", s.Name, s.Status)
	}
	s.Status = StopCanceled
	return nil
}

// Validate checks the temporal invariant on already-recorded data.
func (s Stop) Validate() error {
	if s.ArrivedAt != nil && s.DepartedAt != nil && s.DepartedAt.Before(*s.ArrivedAt) {
		return fmt.Errorf("stop %q: departure before arrival", s.Name)
	}
	if s.Status == StopCompleted && s.ArrivedAt == nil {
		return errors.New("stop " + s.Name + ": completed without arrival")
	}
	return nil
}
