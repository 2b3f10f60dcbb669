package domain

import "time"

// AggregatedRun is one logical trip: one or more chained runs of the same
// vehicle, driver shift, and calendar day merged into a single view. It is
// derived on every refresh from the live set of runs and never persisted.
// Stops are sorted by arrival time (missing arrival last); LocationHistory is
// sorted by timestamp; Runs keeps the ordered member list for drill-down.
type AggregatedRun struct {
	Key             string
	DriverID        string
	DriverName      string
	VehicleID       string
	Shift           string
	StartedAt       time.Time
	StartMileage    float64
	EndedAt         *time.Time
	EndMileage      *float64
	TotalDistance   float64
	Status          RunStatus
	Stops           []Stop
	LocationHistory []LocationPoint
	Runs            []*Run
}

// IdleBefore returns the gap between the end of member run i-1 and the start
// of member run i. It is nil for the first member and whenever the earlier
// run has no recorded end time (never zero in that case).
func (a *AggregatedRun) IdleBefore(i int) *time.Duration {
	if i <= 0 || i >= len(a.Runs) {
		return nil
	}
	prev := a.Runs[i-1]
	if prev.EndedAt == nil {
		return nil
	}
	gap := a.Runs[i].StartedAt.Sub(*prev.EndedAt)
	if gap < 0 {
		gap = 0
	}
	return &gap
}
