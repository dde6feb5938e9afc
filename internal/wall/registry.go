package wall

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/multiview/multiview/internal/app"
	"github.com/multiview/multiview/internal/urlstate"
)

const (
	DefaultSettingsDelay = 3 * time.Second
	DefaultIdleTimeout   = 30 * time.Minute
)

type Config struct {
	MaxVideos     int
	SettingsDelay time.Duration
	IdleTimeout   time.Duration
	// ReapInterval defaults to a quarter of IdleTimeout.
	ReapInterval time.Duration
	AfterFunc    app.AfterFunc
}

// Registry owns every live wall in the process.
type Registry struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*Session
	reaped   chan struct{}
}

func NewRegistry(cfg Config) *Registry {
	if cfg.SettingsDelay <= 0 {
		cfg.SettingsDelay = DefaultSettingsDelay
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = cfg.IdleTimeout / 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
		reaped:   make(chan struct{}),
	}
	go r.reapLoop()
	return r
}

// Create starts a new wall seeded from state.
func (r *Registry) Create(state urlstate.State) *Session {
	id := uuid.New().String()
	s := newSession(r.ctx, id, state, sessionConfig{
		maxVideos:     r.cfg.MaxVideos,
		settingsDelay: r.cfg.SettingsDelay,
		afterFunc:     r.cfg.AfterFunc,
	})

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	slog.Info("wall: created", "wall_id", id, "videos", len(state.IDs))
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get wall %q: %w", id, ErrNotFound)
	}
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("get wall %s: %w", id, ErrNotFound)
	}
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Remove closes the wall and forgets it.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

// Close shuts down every wall.
func (r *Registry) Close() {
	r.cancel()
	<-r.reaped

	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		<-s.Done()
	}
}

func (r *Registry) reapLoop() {
	defer close(r.reaped)
	ticker := time.NewTicker(r.cfg.ReapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.reap(now); n > 0 {
				slog.Info("wall: reaped idle walls", "count", n)
			}
		}
	}
}

// reap removes walls that have had no clients for longer than IdleTimeout.
func (r *Registry) reap(now time.Time) int {
	var idle []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.Clients() == 0 && now.Sub(s.LastActive()) > r.cfg.IdleTimeout {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	return len(idle)
}
