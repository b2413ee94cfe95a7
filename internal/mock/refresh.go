package mock

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"pagebuilder/internal/schedule"
)

// Handle identifies a running refresh schedule.
type Handle struct {
	ComponentID string
	Interval    time.Duration

	timer schedule.Timer
	once  sync.Once
}

// Refresher re-fetches a component's data on a fixed interval. It does not
// track handles per component: stopping a previous schedule before starting
// a new one is the caller's job.
type Refresher struct {
	fetcher *Fetcher
	sched   schedule.Scheduler
	log     *zap.Logger
}

func NewRefresher(fetcher *Fetcher, sched schedule.Scheduler, log *zap.Logger) *Refresher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Refresher{fetcher: fetcher, sched: sched, log: log.Named("refresh")}
}

// Start begins refreshing every DataSource.RefreshInterval seconds. It
// returns nil, and schedules nothing, when the interval is not positive.
func (r *Refresher) Start(ctx context.Context, componentID string, req Request, onData func(any)) *Handle {
	seconds := req.DataSource.RefreshInterval
	if seconds <= 0 {
		r.log.Debug("refresh disabled", zap.String("component_id", componentID))
		return nil
	}
	interval := time.Duration(seconds) * time.Second
	log := r.log.With(zap.String("component_id", componentID), zap.Duration("interval", interval))

	h := &Handle{ComponentID: componentID, Interval: interval}
	h.timer = r.sched.Every(interval, func() {
		log.Debug("tick")
		r.fetcher.Fetch(ctx, req, onData)
	})
	log.Info("refresh started")
	return h
}

// Stop cancels future ticks. A fetch already in flight still delivers.
// Stop is a no-op for a nil or already stopped handle.
func (r *Refresher) Stop(h *Handle) {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.timer.Stop()
		r.log.Info("refresh stopped", zap.String("component_id", h.ComponentID))
	})
}
