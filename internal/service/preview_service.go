package service

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/mock"
	"pagebuilder/internal/schedule"
)

// PreviewPayload is the data delivered to one component.
type PreviewPayload struct {
	ComponentID string `json:"componentId"`
	Kind        string `json:"kind"`
	Data        any    `json:"data"`
}

// PreviewService binds data-bound components to their data: static payloads
// are delivered at once, remote ones are fetched on mount and re-fetched on
// their refresh interval. It keeps at most one refresh schedule per
// component and caches the latest payload of each.
type PreviewService struct {
	fetcher   *mock.Fetcher
	refresher *mock.Refresher
	emitter   EventEmitter
	log       *zap.Logger

	mu      sync.Mutex
	handles map[string]*mock.Handle
	latest  map[string]any
}

// NewPreviewService wires a fetcher and refresher over src. Fetch failures
// are reported through emitter as notify:error events.
func NewPreviewService(src mock.Source, sched schedule.Scheduler, emitter EventEmitter, log *zap.Logger, cfg mock.FetcherConfig) *PreviewService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &PreviewService{
		emitter: emitter,
		log:     log.Named("preview"),
		handles: map[string]*mock.Handle{},
		latest:  map[string]any{},
	}
	s.fetcher = mock.NewFetcher(src, sched, s, log, cfg)
	s.refresher = mock.NewRefresher(s.fetcher, sched, log)
	return s
}

// Notify implements mock.Notifier.
func (s *PreviewService) Notify(ctx context.Context, msg string) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, EventNotifyError, msg)
	}
}

func (s *PreviewService) deliver(ctx context.Context, c *domain.Component) func(any) {
	id, kind := c.ID, c.Type
	return func(data any) {
		s.mu.Lock()
		s.latest[id] = data
		s.mu.Unlock()
		if s.emitter != nil {
			s.emitter.Emit(ctx, EventPreviewData, PreviewPayload{ComponentID: id, Kind: kind, Data: data})
		}
	}
}

// Mount starts delivering data for c, stopping any schedule c already had.
// Components without a remote source and without static data are ignored.
func (s *PreviewService) Mount(ctx context.Context, c *domain.Component) {
	if c == nil {
		return
	}
	s.Unmount(c.ID)

	ds := c.DataSource
	switch ds.Type {
	case domain.DataSourceRemote:
		req := mock.Request{Kind: c.Type, DataSource: ds, Hints: mock.HintsFromComponent(c)}
		onData := s.deliver(ctx, c)
		s.fetcher.Fetch(ctx, req, onData)
		if h := s.refresher.Start(ctx, c.ID, req, onData); h != nil {
			s.mu.Lock()
			s.handles[c.ID] = h
			s.mu.Unlock()
		}
	default:
		if ds.Data != nil {
			s.deliver(ctx, c)(ds.Data)
		}
	}
}

// MountAll mounts every node of the forest, pre-order.
func (s *PreviewService) MountAll(ctx context.Context, forest []*domain.Component) {
	for _, root := range forest {
		root.Walk(func(c *domain.Component) bool {
			s.Mount(ctx, c)
			return true
		})
	}
}

// Sync remounts the preview for a changed forest: every schedule is
// stopped, cached payloads of vanished components are dropped, then the
// forest is mounted again.
func (s *PreviewService) Sync(ctx context.Context, forest []*domain.Component) {
	s.StopAll()

	present := map[string]bool{}
	for _, root := range forest {
		root.Walk(func(c *domain.Component) bool {
			present[c.ID] = true
			return true
		})
	}
	s.mu.Lock()
	for id := range s.latest {
		if !present[id] {
			delete(s.latest, id)
		}
	}
	s.mu.Unlock()

	s.MountAll(ctx, forest)
}

// Unmount stops the refresh schedule of id, if any.
func (s *PreviewService) Unmount(id string) {
	s.mu.Lock()
	h := s.handles[id]
	delete(s.handles, id)
	s.mu.Unlock()
	s.refresher.Stop(h)
}

// StopAll stops every refresh schedule. Fetches in flight still deliver.
func (s *PreviewService) StopAll() {
	s.mu.Lock()
	handles := s.handles
	s.handles = map[string]*mock.Handle{}
	s.mu.Unlock()
	for _, h := range handles {
		s.refresher.Stop(h)
	}
}

// Refreshing lists the ids with an active refresh schedule, sorted.
func (s *PreviewService) Refreshing() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.handles))
	for id := range s.handles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Latest returns the most recent payload delivered to id.
func (s *PreviewService) Latest(id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.latest[id]
	return v, ok
}

// Await runs a one-off fetch outside any component and waits for it, e.g.
// for the mock endpoint of the HTTP API. Nothing is cached or emitted.
func (s *PreviewService) Await(ctx context.Context, req mock.Request) (any, error) {
	return s.fetcher.Await(ctx, req)
}

// Follow returns an emitter that keeps the preview in step with the page:
// each page:changed event resyncs the preview. Fetches and refreshes run
// under ctx rather than the context of the mutation that triggered them.
func (s *PreviewService) Follow(ctx context.Context) EventEmitter {
	return previewFollower{ctx: ctx, preview: s}
}

type previewFollower struct {
	ctx     context.Context
	preview *PreviewService
}

func (f previewFollower) Emit(_ context.Context, event string, data any) {
	if event != EventPageChanged {
		return
	}
	forest, ok := data.([]*domain.Component)
	if !ok {
		return
	}
	f.preview.Sync(f.ctx, forest)
}
