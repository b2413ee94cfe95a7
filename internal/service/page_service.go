package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"pagebuilder/internal/catalog"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/page"
)

// PageOptions sets the slot key and document metadata used by Save.
type PageOptions struct {
	SlotKey string
	Title   string
	Version string
}

// PageService owns the editing session of one page and its persistence.
type PageService struct {
	session *page.Session
	store   domain.SlotStore
	emitter EventEmitter
	log     *zap.Logger
	opts    PageOptions

	mu       sync.Mutex
	lastSeen []byte // last document written or read through this service

	reloading sync.Mutex // held while a Reload runs
	reloads   sync.WaitGroup
}

// NewPageService creates a PageService. store may be nil for a session
// that never persists.
func NewPageService(session *page.Session, store domain.SlotStore, emitter EventEmitter, log *zap.Logger, opts PageOptions) *PageService {
	if session == nil {
		session = page.NewSession()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SlotKey == "" {
		opts.SlotKey = domain.PageSlotKey
	}
	if opts.Title == "" {
		opts.Title = domain.DefaultPageTitle
	}
	if opts.Version == "" {
		opts.Version = domain.PageVersion
	}
	return &PageService{
		session: session,
		store:   store,
		emitter: emitter,
		log:     log.Named("page"),
		opts:    opts,
	}
}

// SlotKey returns the key the page is saved under.
func (s *PageService) SlotKey() string { return s.opts.SlotKey }

func (s *PageService) emit(ctx context.Context, event string, data any) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, event, data)
	}
}

func (s *PageService) changed(ctx context.Context) {
	s.emit(ctx, EventPageChanged, s.session.Components())
}

// ── Mutations ────────────────────────────────────────────────

// Add appends c to the root level.
func (s *PageService) Add(ctx context.Context, c *domain.Component) {
	s.session.Add(c)
	s.log.Debug("component added", zap.String("component_id", c.ID), zap.String("kind", c.Type))
	s.changed(ctx)
}

// AddFromCatalog creates a component of the given kind from its catalog
// defaults and appends it.
func (s *PageService) AddFromCatalog(ctx context.Context, kind string) (*domain.Component, error) {
	c, err := catalog.NewComponent(kind)
	if err != nil {
		return nil, fmt.Errorf("add component: %w", err)
	}
	s.Add(ctx, c)
	return c, nil
}

// Update replaces the root-level node with c's id. Unknown ids are a no-op.
func (s *PageService) Update(ctx context.Context, c *domain.Component) bool {
	if !s.session.Update(c) {
		s.log.Debug("update ignored, no root-level match", zap.String("component_id", c.ID))
		return false
	}
	s.changed(ctx)
	return true
}

// Remove deletes the root-level node with id. Unknown ids are a no-op for
// the forest; a selection pointing at id is still cleared.
func (s *PageService) Remove(ctx context.Context, id string) bool {
	wasSelected := s.session.Selected() == id && id != ""
	removed := s.session.Remove(id)
	if removed {
		s.changed(ctx)
	}
	if wasSelected {
		s.emit(ctx, EventSelection, "")
	}
	return removed
}

// Clear empties the page and the selection.
func (s *PageService) Clear(ctx context.Context) {
	s.session.Clear()
	s.changed(ctx)
	s.emit(ctx, EventSelection, "")
}

// Select sets the selected id ("" clears it).
func (s *PageService) Select(ctx context.Context, id string) {
	s.session.SetSelected(id)
	s.emit(ctx, EventSelection, id)
}

// ── Reads ────────────────────────────────────────────────────

func (s *PageService) Selected() string { return s.session.Selected() }

func (s *PageService) Components() []*domain.Component { return s.session.Components() }

// Find returns the node with id anywhere in the forest.
func (s *PageService) Find(id string) *domain.Component { return s.session.Find(id) }

// EnclosingForm resolves the nearest form ancestor of id.
func (s *PageService) EnclosingForm(id string) (*domain.Component, page.FormResolution) {
	return page.ResolveForm(s.session.Components(), id)
}

// FormData collects the submission payload for id: id itself when it is a
// form, otherwise its enclosing form. The resolution reports which case
// applied; data is nil unless a form was found.
func (s *PageService) FormData(id string) (any, page.FormResolution) {
	forest := s.session.Components()
	if c := page.Find(forest, id); c != nil && c.Type == domain.TypeForm {
		return page.CollectFormData(c), page.FormFound
	}
	form, res := page.ResolveForm(forest, id)
	if form == nil {
		return nil, res
	}
	return page.CollectFormData(form), res
}

// Document returns the current page as a persistable document.
func (s *PageService) Document() *domain.PageConfig {
	return &domain.PageConfig{
		Version:    s.opts.Version,
		Title:      s.opts.Title,
		Layout:     domain.LayoutConfig{Type: domain.LayoutFree, Props: map[string]any{}},
		Components: s.session.Components(),
	}
}

// ── Persistence ──────────────────────────────────────────────

var errNoStore = errors.New("no slot store configured")

// Save writes the whole page to the slot, replacing what was there.
func (s *PageService) Save(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("save page: %w", errNoStore)
	}
	data, err := json.Marshal(s.Document())
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	if err := s.store.Put(ctx, s.opts.SlotKey, data); err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	s.remember(data)
	s.log.Info("page saved", zap.String("slot", s.opts.SlotKey), zap.Int("bytes", len(data)))
	return nil
}

// Load reads the slot and replaces the forest with its components. It
// returns nil with no error when nothing was saved or the stored document
// is malformed; a malformed document is logged and the forest is left
// untouched. Only storage failures are returned as errors.
func (s *PageService) Load(ctx context.Context) (*domain.PageConfig, error) {
	cfg, _, err := s.load(ctx, false)
	return cfg, err
}

// Reload is Load for change notifications: it does nothing when the slot
// still holds the document this service last wrote or read, or when a
// reload is already running.
func (s *PageService) Reload(ctx context.Context) (bool, error) {
	if !s.reloading.TryLock() {
		return false, nil
	}
	s.reloads.Add(1)
	defer func() {
		s.reloading.Unlock()
		s.reloads.Done()
	}()
	cfg, applied, err := s.load(ctx, true)
	return applied && cfg != nil, err
}

// Wait blocks until an in-flight reload finishes or ctx is done.
func (s *PageService) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.reloads.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (s *PageService) load(ctx context.Context, skipUnchanged bool) (*domain.PageConfig, bool, error) {
	if s.store == nil {
		return nil, false, fmt.Errorf("load page: %w", errNoStore)
	}
	raw, err := s.store.Get(ctx, s.opts.SlotKey)
	if errors.Is(err, domain.ErrSlotNotFound) {
		s.log.Info("no saved page", zap.String("slot", s.opts.SlotKey))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load page: %w", err)
	}
	if skipUnchanged && s.seen(raw) {
		return nil, false, nil
	}

	var cfg domain.PageConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		s.log.Error("malformed page document", zap.String("slot", s.opts.SlotKey), zap.Error(err))
		return nil, false, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		s.log.Error("malformed page document", zap.String("slot", s.opts.SlotKey), zap.String("reason", "null document"))
		return nil, false, nil
	}
	// A document without components loads as an empty page.
	cfg.Components = page.Compact(cfg.Components)
	s.session.Replace(cfg.Components)
	s.remember(raw)
	s.log.Info("page loaded", zap.String("slot", s.opts.SlotKey), zap.Int("components", len(cfg.Components)))
	s.changed(ctx)
	return &cfg, true, nil
}

func (s *PageService) remember(data []byte) {
	s.mu.Lock()
	s.lastSeen = append(s.lastSeen[:0], data...)
	s.mu.Unlock()
}

func (s *PageService) seen(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen != nil && bytes.Equal(s.lastSeen, data)
}
