package domain

import (
	"fmt"
	"time"
)

type RunStatus string

const (
	RunInProgress RunStatus = "IN_PROGRESS"
	RunCompleted  RunStatus = "COMPLETED"
)

// Run is one driver shift operating one vehicle, from start to completion.
// Stops hold the planned/actual visiting order and stay mutable during the
// run (reorder, append, cancel before being started). LocationHistory is
// append-only and not necessarily sorted by arrival; consumers sort by
// timestamp before use. Mileage is an odometer reading and non-decreasing
// across a run and across chained runs of the same vehicle.
type Run struct {
	RunID           string
	CompanyID       string
	SectorID        string
	DriverID        string
	DriverName      string
	VehicleID       string
	StartedAt       time.Time
	StartMileage    float64
	Status          RunStatus
	EndedAt         *time.Time
	EndMileage      *float64
	Stops           []Stop
	LocationHistory []LocationPoint
}

// StopByID returns a pointer into the run's stop slice.
func (r *Run) StopByID(stopID string) (*Stop, bool) {
	for i := range r.Stops {
		if r.Stops[i].StopID == stopID {
			return &r.Stops[i], true
		}
	}
	return nil, false
}

// AppendLocation records one GPS sample. Points are never rejected for being
// out of order; ordering is a read-side concern.
func (r *Run) AppendLocation(p LocationPoint) {
	r.LocationHistory = append(r.LocationHistory, p)
}

// Complete closes the run with its end time and final odometer reading.
func (r *Run) Complete(at time.Time, endMileage float64) error {
	if r.Status == RunCompleted {
		return fmt.Errorf("complete run %s: already completed", r.RunID)
	}
	if at.Before(r.StartedAt) {
		return fmt.Errorf("complete run %s: end time before start time", r.RunID)
	}
	r.Status = RunCompleted
	r.EndedAt = &at
	r.EndMileage = &endMileage
	return nil
}

// LastKnownMileage returns the run's end mileage when recorded, otherwise the
// highest mileage-at-stop reading among its stops, otherwise nil.
func (r *Run) LastKnownMileage() *float64 {
	if r.EndMileage != nil {
		return r.EndMileage
	}
	var best *float64
	for i := range r.Stops {
		m := r.Stops[i].MileageAtStop
		if m == nil {
			continue
		}
		if best == nil || *m > *best {
			best = m
		}
	}
	return best
}
