package mock

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/schedule"
)

// ─────────────────────────────────────────────────────────────
// Fetcher: simulated remote fetch with latency
// ─────────────────────────────────────────────────────────────

// Default simulated network latency range.
const (
	LatencyMin = 300 * time.Millisecond
	LatencyMax = 800 * time.Millisecond
)

// FailureMessage is what the Notifier receives when a fetch fails.
const FailureMessage = "API request failed"

// Request describes one fetch for a data-bound component.
type Request struct {
	Kind       string
	DataSource domain.DataSource
	Hints      Hints
}

// Source produces the payload for a request. The synthesizer is the only
// implementation today; a real HTTP client can take its place.
type Source interface {
	Fetch(ctx context.Context, req Request) (any, error)
}

// Fetch makes a Synthesizer usable as a Source.
func (s *Synthesizer) Fetch(_ context.Context, req Request) (any, error) {
	return s.Synthesize(req.Kind, req.DataSource.URL, req.Hints), nil
}

// Notifier shows a transient, user-visible message.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// FetcherConfig tunes a Fetcher.
type FetcherConfig struct {
	LatencyMin time.Duration
	LatencyMax time.Duration
}

// Fetcher delivers a Source's payload after a randomized delay. Failures
// are logged and reported to the Notifier, never returned to the caller.
type Fetcher struct {
	src      Source
	sched    schedule.Scheduler
	notifier Notifier
	log      *zap.Logger
	rnd      Rand
	minLat   time.Duration
	maxLat   time.Duration
}

// NewFetcher wires a Fetcher. notifier may be nil.
func NewFetcher(src Source, sched schedule.Scheduler, notifier Notifier, log *zap.Logger, cfg FetcherConfig) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Fetcher{
		src:      src,
		sched:    sched,
		notifier: notifier,
		log:      log.Named("fetch"),
		rnd:      globalRand{},
		minLat:   cfg.LatencyMin,
		maxLat:   cfg.LatencyMax,
	}
	if f.minLat <= 0 && f.maxLat <= 0 {
		f.minLat, f.maxLat = LatencyMin, LatencyMax
	}
	if f.maxLat < f.minLat {
		f.maxLat = f.minLat
	}
	return f
}

func (f *Fetcher) latency() time.Duration {
	span := int(f.maxLat - f.minLat)
	if span <= 0 {
		return f.minLat
	}
	return f.minLat + time.Duration(f.rnd.IntN(span+1))
}

// Fetch schedules one fetch and returns immediately. onData runs on the
// scheduler's goroutine once the simulated latency has elapsed. A
// cancelled ctx drops the delivery.
func (f *Fetcher) Fetch(ctx context.Context, req Request, onData func(any)) {
	f.start(ctx, req, onData, func(error) {
		if f.notifier != nil {
			f.notifier.Notify(ctx, FailureMessage)
		}
	})
}

// Await runs one fetch and blocks until it settles. Failures are returned
// instead of being passed to the Notifier.
func (f *Fetcher) Await(ctx context.Context, req Request) (any, error) {
	type result struct {
		data any
		err  error
	}
	done := make(chan result, 1)
	f.start(ctx, req,
		func(data any) { done <- result{data: data} },
		func(err error) { done <- result{err: err} },
	)
	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Fetcher) start(ctx context.Context, req Request, onData func(any), onErr func(error)) {
	log := f.log.With(
		zap.String("kind", req.Kind),
		zap.String("method", req.DataSource.Method),
		zap.String("url", req.DataSource.URL),
	)
	log.Info("request")

	f.sched.AfterFunc(f.latency(), func() {
		if ctx.Err() != nil {
			log.Debug("dropped, context done", zap.Error(ctx.Err()))
			return
		}
		data, err := f.load(ctx, req)
		if err != nil {
			log.Error("request failed", zap.Error(err))
			onErr(fmt.Errorf("%s: %w", FailureMessage, err))
			return
		}
		log.Info("response")
		if onData != nil {
			onData(data)
		}
	})
}

// load calls the source, turning a panic into an error.
func (f *Fetcher) load(ctx context.Context, req Request) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("synthesize %s: %v", req.Kind, r)
		}
	}()
	return f.src.Fetch(ctx, req)
}
