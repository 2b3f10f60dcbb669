package ports

import (
	"context"
	"fleet-tracking-service/internal/domain"
	"time"
)

// Port: a boundary for reading and mutating Run records.
type RunRepository interface {
	// Persist a new run with its planned stops.
	CreateRun(ctx context.Context, run *domain.Run) error

	// Fetch one run with stops (in visiting order) and location history.
	GetRun(ctx context.Context, runID string) (*domain.Run, error)

	// Fetch all runs for a company/sector scope.
	ListRuns(ctx context.Context, companyID, sectorID string) ([]*domain.Run, error)

	// Persist the current state of one stop (status, timestamps, readings).
	UpdateStop(ctx context.Context, runID string, stop domain.Stop) error

	// Persist a new visiting order. stopIDs must cover the run's stops.
	ReorderStops(ctx context.Context, runID string, stopIDs []string) error

	// Append GPS samples to a run's location history.
	AppendLocations(ctx context.Context, runID string, points []domain.LocationPoint) error

	// Close a run with its end time and final odometer reading.
	CompleteRun(ctx context.Context, runID string, endedAt time.Time, endMileage float64) error
}
