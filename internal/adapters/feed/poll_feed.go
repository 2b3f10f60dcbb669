package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"fleet-tracking-service/internal/domain"
	"fleet-tracking-service/internal/ports"
)

// PollFeed implements ports.RunFeed by polling the run store and pushing a
// full fresh snapshot whenever the observed state changes. Consumers re-run
// the aggregation pipeline per snapshot; there is no incremental delta.
type PollFeed struct {
	Repo     ports.RunRepository
	Interval time.Duration
}

func NewPollFeed(repo ports.RunRepository, interval time.Duration) *PollFeed {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &PollFeed{Repo: repo, Interval: interval}
}

func (f *PollFeed) SubscribeRuns(ctx context.Context, companyID, sectorID string) (ports.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := &pollSubscription{
		updates: make(chan []*domain.Run, 1),
		cancel:  cancel,
	}
	go sub.poll(ctx, f.Repo, companyID, sectorID, f.Interval)
	return sub, nil
}

type pollSubscription struct {
	updates chan []*domain.Run
	cancel  context.CancelFunc

	mu  sync.Mutex
	err error
}

func (s *pollSubscription) Updates() <-chan []*domain.Run { return s.updates }

func (s *pollSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *pollSubscription) Close() { s.cancel() }

func (s *pollSubscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *pollSubscription) poll(ctx context.Context, repo ports.RunRepository, companyID, sectorID string, interval time.Duration) {
	defer close(s.updates)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// The first snapshot always delivers, even when empty: subscribers need
	// an initial state to render.
	first := true
	last := ""
	for {
		runs, err := repo.ListRuns(ctx, companyID, sectorID)
		if err != nil {
			if ctx.Err() == nil {
				s.setErr(fmt.Errorf("poll runs: %w", err))
			}
			return
		}

		if fp := fingerprint(runs); first || fp != last {
			first = false
			last = fp
			s.push(runs)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// push delivers the latest snapshot without ever blocking on a slow
// consumer: an undelivered stale snapshot is dropped first.
func (s *pollSubscription) push(runs []*domain.Run) {
	for {
		select {
		case s.updates <- runs:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

// fingerprint summarizes the mutable surface of a snapshot: run status and
// end fields, per-stop status/timestamps, and location history length with
// its newest timestamp. Runs arrive in stable store order, so a plain
// concatenation is comparison-safe.
func fingerprint(runs []*domain.Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.RunID)
		b.WriteByte(':')
		b.WriteString(string(r.Status))
		if r.EndedAt != nil {
			b.WriteString(strconv.FormatInt(r.EndedAt.Unix(), 10))
		}
		for _, stop := range r.Stops {
			b.WriteString(stop.StopID)
			b.WriteString(string(stop.Status))
			if stop.ArrivedAt != nil {
				b.WriteString(strconv.FormatInt(stop.ArrivedAt.Unix(), 10))
			}
			if stop.DepartedAt != nil {
				b.WriteString(strconv.FormatInt(stop.DepartedAt.Unix(), 10))
			}
		}
		b.WriteString(strconv.Itoa(len(r.LocationHistory)))
		if n := len(r.LocationHistory); n > 0 {
			b.WriteString(strconv.FormatInt(r.LocationHistory[n-1].RecordedAt.Unix(), 10))
		}
		b.WriteByte(';')
	}
	return b.String()
}
