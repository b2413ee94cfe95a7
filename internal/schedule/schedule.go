package schedule

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Scheduler: one-shot delays and repeating ticks
// ─────────────────────────────────────────────────────────────

// Timer is a pending one-shot or repeating callback.
type Timer interface {
	// Stop cancels future firings. A callback already running is not
	// interrupted.
	Stop()
}

// Scheduler runs callbacks after a delay or on a fixed period.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// Cron is the production Scheduler. Repeating jobs go through a shared
// cron.Cron (constant-delay schedules, whole seconds); one-shots use the
// runtime timer.
type Cron struct {
	mu      sync.Mutex
	c       *cron.Cron
	started bool
}

// NewCron returns a scheduler whose cron loop starts lazily on the first
// repeating job.
func NewCron() *Cron {
	return &Cron{c: cron.New()}
}

func (s *Cron) AfterFunc(d time.Duration, fn func()) Timer {
	return runtimeTimer{time.AfterFunc(d, fn)}
}

func (s *Cron) Every(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.c.Schedule(cron.Every(d), cron.FuncJob(fn))
	if !s.started {
		s.c.Start()
		s.started = true
	}
	return &cronEntry{c: s.c, id: id}
}

// Close stops the cron loop and waits for running jobs to return.
func (s *Cron) Close() {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.mu.Unlock()
	if started {
		<-s.c.Stop().Done()
	}
}

type runtimeTimer struct{ t *time.Timer }

func (r runtimeTimer) Stop() { r.t.Stop() }

type cronEntry struct {
	c    *cron.Cron
	id   cron.EntryID
	once sync.Once
}

func (e *cronEntry) Stop() {
	e.once.Do(func() { e.c.Remove(e.id) })
}
