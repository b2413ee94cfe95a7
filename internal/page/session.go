package page

import (
	"sync"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Session: the live component forest plus the current selection
// ─────────────────────────────────────────────────────────────

// Session owns the editing state of one page. Updates and removals only
// look at the root level of the forest; nested nodes are reached by
// replacing their root ancestor.
type Session struct {
	mu         sync.RWMutex
	components []*domain.Component
	selected   string
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{components: []*domain.Component{}}
}

// SetSelected replaces the selection. An empty id clears it.
func (s *Session) SetSelected(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

// Selected returns the selected id, or "" when nothing is selected.
func (s *Session) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Add appends c to the root level. Id uniqueness is the caller's job.
func (s *Session) Add(c *domain.Component) {
	if c == nil {
		return
	}
	s.mu.Lock()
	s.components = append(s.components, c)
	s.mu.Unlock()
}

// Update replaces the root-level node sharing c's id. It reports whether a
// node was replaced.
func (s *Session) Update(c *domain.Component) bool {
	if c == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.components {
		if existing != nil && existing.ID == c.ID {
			s.components[i] = c
			return true
		}
	}
	return false
}

// Remove deletes the first root-level node with the given id and clears the
// selection if it pointed at id. The selection is cleared even when no
// root node matched.
func (s *Session) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == id {
		s.selected = ""
	}
	for i, existing := range s.components {
		if existing != nil && existing.ID == id {
			s.components = append(s.components[:i:i], s.components[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the forest and the selection.
func (s *Session) Clear() {
	s.mu.Lock()
	s.components = []*domain.Component{}
	s.selected = ""
	s.mu.Unlock()
}

// Components returns a snapshot of the root-level slice. The nodes are
// shared with the session and must be treated as read-only.
func (s *Session) Components() []*domain.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Component, len(s.components))
	copy(out, s.components)
	return out
}

// Replace swaps the whole forest in one step. Nil roots are dropped. The
// selection is kept.
func (s *Session) Replace(components []*domain.Component) {
	components = Compact(components)
	s.mu.Lock()
	s.components = components
	s.mu.Unlock()
}

// Find returns the first node with the given id anywhere in the forest.
func (s *Session) Find(id string) *domain.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Find(s.components, id)
}

// Find searches the forest pre-order and returns the first node with id.
func Find(forest []*domain.Component, id string) *domain.Component {
	var found *domain.Component
	for _, root := range forest {
		root.Walk(func(c *domain.Component) bool {
			if c.ID == id {
				found = c
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// Compact returns forest without its nil roots. The result is never nil.
func Compact(forest []*domain.Component) []*domain.Component {
	out := make([]*domain.Component, 0, len(forest))
	for _, c := range forest {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
