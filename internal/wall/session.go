package wall

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/multiview/multiview/internal/app"
	"github.com/multiview/multiview/internal/player"
	"github.com/multiview/multiview/internal/urlstate"
)

var (
	ErrNotFound = errors.New("wall not found")
	ErrClosed   = errors.New("wall closed")
)

type request struct {
	cmds  []app.Command
	reply chan app.Snapshot
}

// Session is one live wall. All grid state is owned by the goroutine started
// in run; everything else talks to it over channels.
type Session struct {
	id      string
	created time.Time

	requests   chan request
	register   chan *client
	unregister chan *client
	pointer    chan struct{}
	hide       chan struct{}
	done       chan struct{}
	cancel     context.CancelFunc

	clients    int64
	lastActive int64

	// loop-owned
	controller      *app.Controller
	members         map[*client]bool
	settings        *app.Debouncer
	settingsVisible bool
}

type sessionConfig struct {
	maxVideos     int
	settingsDelay time.Duration
	afterFunc     app.AfterFunc
}

func newSession(ctx context.Context, id string, state urlstate.State, cfg sessionConfig) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:         id,
		created:    time.Now(),
		requests:   make(chan request),
		register:   make(chan *client),
		unregister: make(chan *client),
		pointer:    make(chan struct{}, 1),
		hide:       make(chan struct{}, 1),
		done:       make(chan struct{}),
		cancel:     cancel,
		members:    make(map[*client]bool),
	}
	s.touch()
	s.controller = app.NewController(app.Config{
		MaxVideos: cfg.maxVideos,
		Players:   player.FactoryFunc(s.newPlayer),
	})
	s.controller.Load(state)
	s.controller.ResetDiagnostics()

	s.settings = app.NewDebouncer(cfg.settingsDelay, func() {
		select {
		case s.hide <- struct{}{}:
		default:
		}
	})
	if cfg.afterFunc != nil {
		s.settings.WithAfterFunc(cfg.afterFunc)
	}

	go s.run(ctx)
	return s
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Created() time.Time    { return s.created }
func (s *Session) Clients() int          { return int(atomic.LoadInt64(&s.clients)) }
func (s *Session) LastActive() time.Time { return time.Unix(0, atomic.LoadInt64(&s.lastActive)) }

// Done is closed once the event loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close stops the event loop and disconnects every client.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

// Submit applies cmds in order on the event loop and returns the resulting
// snapshot. Diagnostics in the snapshot belong to this submission only.
func (s *Session) Submit(ctx context.Context, cmds ...app.Command) (app.Snapshot, error) {
	req := request{cmds: cmds, reply: make(chan app.Snapshot, 1)}
	select {
	case s.requests <- req:
	case <-s.done:
		return app.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return app.Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-req.reply:
		return snap, nil
	case <-s.done:
		return app.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return app.Snapshot{}, ctx.Err()
	}
}

// Snapshot returns the current state without changing it.
func (s *Session) Snapshot(ctx context.Context) (app.Snapshot, error) {
	return s.Submit(ctx)
}

// Pointer reports pointer activity on a wall page. It never blocks.
func (s *Session) Pointer() {
	select {
	case s.pointer <- struct{}{}:
	default:
	}
}

func (s *Session) touch() {
	atomic.StoreInt64(&s.lastActive, time.Now().UnixNano())
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.settings.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range s.members {
				c.close()
				delete(s.members, c)
			}
			atomic.StoreInt64(&s.clients, 0)
			slog.Info("wall: closed", "wall_id", s.id)
			return

		case c := <-s.register:
			s.members[c] = true
			atomic.StoreInt64(&s.clients, int64(len(s.members)))
			s.touch()
			snap := s.controller.Snapshot()
			c.offer(encode(Message{Type: TypeState, State: &snap}))
			visible := s.settingsVisible
			c.offer(encode(Message{Type: TypeSettings, Visible: &visible}))
			slog.Debug("wall: client joined", "wall_id", s.id, "clients", len(s.members))

		case c := <-s.unregister:
			if s.members[c] {
				delete(s.members, c)
				c.close()
			}
			atomic.StoreInt64(&s.clients, int64(len(s.members)))
			s.touch()
			slog.Debug("wall: client left", "wall_id", s.id, "clients", len(s.members))

		case req := <-s.requests:
			s.touch()
			if len(req.cmds) == 0 {
				req.reply <- s.controller.Snapshot()
				continue
			}
			s.controller.ResetDiagnostics()
			s.controller.Dispatch(req.cmds...)
			snap := s.controller.Snapshot()
			s.broadcast(Message{Type: TypeState, State: &snap})
			req.reply <- snap

		case <-s.pointer:
			s.touch()
			if !s.settingsVisible {
				s.settingsVisible = true
				s.broadcastSettings()
			}
			s.settings.Trigger()

		case <-s.hide:
			if s.settingsVisible {
				s.settingsVisible = false
				s.broadcastSettings()
			}
		}
	}
}

func (s *Session) broadcastSettings() {
	visible := s.settingsVisible
	s.broadcast(Message{Type: TypeSettings, Visible: &visible})
}

// broadcast must only be called from the event loop.
func (s *Session) broadcast(m Message) {
	msg := encode(m)
	for c := range s.members {
		c.offer(msg)
	}
}

// wallPlayer turns player commands into broadcast messages. It is only
// driven from Dispatch, which runs on the event loop.
type wallPlayer struct {
	session *Session
	key     string
	videoID string
}

func (s *Session) newPlayer(key, videoID string) player.Player {
	return &wallPlayer{session: s, key: key, videoID: videoID}
}

func (p *wallPlayer) Send(cmd player.Command) {
	fn, args := cmd.Func()
	p.session.broadcast(Message{Type: TypePlayer, Player: &PlayerMessage{
		Key:     p.key,
		VideoID: p.videoID,
		Action:  string(cmd.Action),
		Func:    fn,
		Args:    args,
	}})
}
