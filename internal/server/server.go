// Package server exposes the page builder over HTTP: a JSON API for editing
// the page and a websocket that pushes page and preview events.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pagebuilder/internal/catalog"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/mock"
	"pagebuilder/internal/page"
	"pagebuilder/internal/service"
)

// Deps holds the services the HTTP layer drives.
type Deps struct {
	Pages   *service.PageService
	Preview *service.PreviewService
	Hub     *Hub
	Log     *zap.Logger
}

// Server routes HTTP requests to the page and preview services.
type Server struct {
	pages   *service.PageService
	preview *service.PreviewService
	hub     *Hub
	log     *zap.Logger
	router  chi.Router
}

// New builds the router. The hub is given a snapshot hook so a new
// client starts from the current page.
func New(deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	hub := deps.Hub
	if hub == nil {
		hub = NewHub(log)
	}
	s := &Server{
		pages:   deps.Pages,
		preview: deps.Preview,
		hub:     hub,
		log:     log.Named("http"),
	}
	hub.snapshot = s.snapshotMessages
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Websocket first, outside the request timeout.
	r.Get("/ws/preview", s.hub.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(s.requestLogger)

		r.Route("/api", func(r chi.Router) {
			r.Route("/components", func(r chi.Router) {
				r.Get("/", s.handleListComponents)
				r.Post("/", s.handleAddComponent)
				r.Get("/{id}", s.handleGetComponent)
				r.Put("/{id}", s.handleUpdateComponent)
				r.Delete("/{id}", s.handleRemoveComponent)
			})
			r.Post("/selection", s.handleSelect)
			r.Post("/clear", s.handleClear)
			r.Get("/forms/{id}", s.handleEnclosingForm)
			r.Post("/forms/{id}/submit", s.handleSubmitForm)
			r.Post("/page/save", s.handleSave)
			r.Post("/page/load", s.handleLoad)
			r.Get("/page", s.handleDocument)
			r.Get("/catalog", s.handleCatalog)
			r.Get("/mock/{kind}", s.handleMock)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// snapshotMessages is what a freshly connected preview client receives:
// the current forest, the selection, and every cached payload.
func (s *Server) snapshotMessages() []Message {
	forest := s.pages.Components()
	msgs := []Message{
		{Type: service.EventPageChanged, Data: forest},
		{Type: service.EventSelection, Data: s.pages.Selected()},
	}
	if s.preview == nil {
		return msgs
	}
	for _, root := range forest {
		root.Walk(func(c *domain.Component) bool {
			if data, ok := s.preview.Latest(c.ID); ok {
				msgs = append(msgs, Message{
					Type: service.EventPreviewData,
					Data: service.PreviewPayload{ComponentID: c.ID, Kind: c.Type, Data: data},
				})
			}
			return true
		})
	}
	return msgs
}

// ── Components ─────────────────────────────────────────────

type pageSnapshot struct {
	Selected   string              `json:"selected"`
	Components []*domain.Component `json:"components"`
}

func (s *Server) handleListComponents(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, pageSnapshot{Selected: s.pages.Selected(), Components: s.pages.Components()})
}

// addRequest creates a component either from catalog defaults (Type plus
// optional Props overrides) or verbatim (Component).
type addRequest struct {
	Type      string            `json:"type"`
	Props     map[string]any    `json:"props"`
	Component *domain.Component `json:"component"`
}

func (s *Server) handleAddComponent(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	ctx := r.Context()

	if req.Component != nil {
		if req.Component.ID == "" || req.Component.Type == "" {
			s.writeError(w, http.StatusBadRequest, "INVALID_COMPONENT", "component needs an id and a type")
			return
		}
		s.pages.Add(ctx, req.Component)
		s.writeJSON(w, http.StatusCreated, req.Component)
		return
	}

	c, err := catalog.NewComponent(req.Type)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "UNKNOWN_TYPE", err.Error())
		return
	}
	for k, v := range req.Props {
		c.Props[k] = v
	}
	s.pages.Add(ctx, c)
	s.writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c := s.pages.Find(id)
	if c == nil {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "component not found: "+id)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateComponent(w http.ResponseWriter, r *http.Request) {
	var c domain.Component
	if err := decodeJSON(r, &c); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	c.ID = chi.URLParam(r, "id")
	if !s.pages.Update(r.Context(), &c) {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "no root-level component: "+c.ID)
		return
	}
	s.writeJSON(w, http.StatusOK, &c)
}

func (s *Server) handleRemoveComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.pages.Remove(r.Context(), id) {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "no root-level component: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	s.pages.Select(r.Context(), req.ID)
	s.writeJSON(w, http.StatusOK, map[string]string{"selected": s.pages.Selected()})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.pages.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ── Forms ──────────────────────────────────────────────────

func (s *Server) writeFormMiss(w http.ResponseWriter, id string, res page.FormResolution) {
	if res == page.FormTargetMissing {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "component not found: "+id)
		return
	}
	s.writeError(w, http.StatusNotFound, "NO_FORM", "component is not inside a form: "+id)
}

func (s *Server) handleEnclosingForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	form, res := s.pages.EnclosingForm(id)
	if form == nil {
		s.writeFormMiss(w, id, res)
		return
	}
	s.writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, res := s.pages.FormData(id)
	if data == nil {
		s.writeFormMiss(w, id, res)
		return
	}
	s.log.Info("form submitted", zap.String("component_id", id), zap.Any("data", data))
	s.writeJSON(w, http.StatusOK, map[string]any{"componentId": id, "data": data})
}

// ── Page ───────────────────────────────────────────────────

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.pages.Save(r.Context()); err != nil {
		s.log.Error("save page", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "SAVE_FAILED", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.pages.Document())
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.pages.Load(r.Context())
	if err != nil {
		s.log.Error("load page", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "LOAD_FAILED", err.Error())
		return
	}
	if cfg == nil {
		s.writeError(w, http.StatusNotFound, "NO_PAGE", "no usable page saved")
		return
	}
	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.pages.Document())
}

// ── Catalog and mock data ──────────────────────────────────

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, catalog.Grouped())
}

func (s *Server) handleMock(w http.ResponseWriter, r *http.Request) {
	if s.preview == nil {
		s.writeError(w, http.StatusServiceUnavailable, "NO_PREVIEW", "preview is not configured")
		return
	}
	q := r.URL.Query()
	req := mock.Request{
		Kind: chi.URLParam(r, "kind"),
		DataSource: domain.DataSource{
			Type:   domain.DataSourceRemote,
			URL:    q.Get("url"),
			Method: http.MethodGet,
		},
		Hints: mock.Hints{
			Columns: q["column"],
			Fields:  q["field"],
		},
	}

	data, err := s.preview.Await(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "FETCH_FAILED", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}
