package ports

import (
	"context"
	"fleet-tracking-service/internal/domain"
)

// Subscription is one live stream of run snapshots. Updates delivers the
// full current set for the subscribed scope whenever it changes; there is no
// incremental delta. The channel closes after Close or when the subscription
// fails; Err reports the failure, nil on clean shutdown.
type Subscription interface {
	Updates() <-chan []*domain.Run
	Err() error
	Close()
}

// Port: a boundary for live run updates. The aggregation core is a pure
// function invoked on each delivered snapshot, not tied to the mechanism.
type RunFeed interface {
	SubscribeRuns(ctx context.Context, companyID, sectorID string) (Subscription, error)
}
