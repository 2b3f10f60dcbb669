package services

import (
	"context"
	"fleet-tracking-service/internal/domain"
	"fleet-tracking-service/internal/ports"
	"fmt"
)

// TripQuery scopes a trip listing to one company sector.
type TripQuery struct {
	CompanyID string
	SectorID  string
}

// BuildTrips fetches the current runs and driver shift assignments for a
// scope and aggregates them into trips. This is the only trip service that
// touches ports; AggregateRuns and BuildSegments stay pure.
func BuildTrips(
	ctx context.Context,
	q TripQuery,
	runRepo ports.RunRepository,
	userRepo ports.UserRepository,
) ([]*domain.AggregatedRun, error) {
	runs, err := runRepo.ListRuns(ctx, q.CompanyID, q.SectorID)
	if err != nil {
		return nil, fmt.Errorf("build trips: list runs: %w", err)
	}

	shifts, err := ShiftLookup(ctx, q, userRepo)
	if err != nil {
		return nil, fmt.Errorf("build trips: %w", err)
	}

	return AggregateRuns(runs, shifts), nil
}

// ShiftLookup derives the driver-id to shift-name map used as a grouping key.
// Drivers without an assignment are simply absent; the aggregator substitutes
// the no-shift sentinel.
func ShiftLookup(ctx context.Context, q TripQuery, userRepo ports.UserRepository) (map[string]string, error) {
	users, err := userRepo.ListUsers(ctx, q.CompanyID, q.SectorID)
	if err != nil {
		return nil, fmt.Errorf("shift lookup: list users: %w", err)
	}

	shifts := make(map[string]string, len(users))
	for _, u := range users {
		if u.Shift != "" {
			shifts[u.UserID] = u.Shift
		}
	}
	return shifts, nil
}
