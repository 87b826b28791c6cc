// Package session keeps one set of stores per viewer session.
package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/client"
	"github.com/Guyuepp/market-front/internal/usecase/comment"
	"github.com/Guyuepp/market-front/internal/usecase/like"
	"github.com/Guyuepp/market-front/internal/usecase/product"
)

const DefaultIdleTimeout = 30 * time.Minute

type session struct {
	viewer   *domain.Viewer
	lastSeen atomic.Int64
	closers  []func()
}

func (s *session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *session) close() {
	for _, unsubscribe := range s.closers {
		unsubscribe()
	}
}

type Config struct {
	// Client is the anonymous backend client every session derives its own from.
	Client *client.Client
	// Cache may be nil.
	Cache    domain.ProductCache
	CacheTTL time.Duration
	Notifier domain.NotifyWorker
	// OnClose is called after a session was removed, by logout or by the sweeper.
	OnClose func(sessionID string)
}

type Manager struct {
	cfg      Config
	sessions cmap.ConcurrentMap[string, *session]
	now      func() time.Time
}

var _ domain.ViewerRegistry = (*Manager)(nil)

func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:      cfg,
		sessions: cmap.New[*session](),
		now:      time.Now,
	}
}

func (m *Manager) Open(token string) (*domain.Viewer, error) {
	id := uuid.NewString()
	api := m.cfg.Client.WithToken(token)

	comments := comment.NewStore(api)
	likes := like.NewStore(api)
	products := product.NewService(api, comments, likes, m.cfg.Cache, id, m.cfg.CacheTTL)

	s := &session{
		viewer: &domain.Viewer{
			SessionID:     id,
			Authenticated: token != "",
			OpenedAt:      m.now(),
			Comments:      comments,
			Likes:         likes,
			Products:      products,
		},
	}
	s.touch(m.now())

	s.closers = append(s.closers,
		comments.Subscribe(func(e domain.StoreEvent) {
			m.notify(id, e)
		}),
		likes.Subscribe(func(e domain.StoreEvent) {
			m.notify(id, e)
		}),
	)

	m.sessions.Set(id, s)
	logrus.Infof("session %s opened, authenticated=%t", id, s.viewer.Authenticated)
	return s.viewer, nil
}

func (m *Manager) notify(id string, e domain.StoreEvent) {
	if m.cfg.Notifier == nil {
		return
	}
	e.SessionID = id
	m.cfg.Notifier.Send(e)
}

func (m *Manager) Get(sessionID string) (*domain.Viewer, error) {
	s, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.touch(m.now())
	return s.viewer, nil
}

// Logout resets the like state before removing the session, so listeners still
// attached see the reset. The cached pages are gone when it returns.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	s, ok := m.sessions.Pop(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.viewer.Likes.Reset()
	s.viewer.Products.InvalidateCache(ctx)
	m.release(s)
	logrus.Infof("session %s logged out", sessionID)
	return nil
}

func (m *Manager) release(s *session) {
	s.close()
	if m.cfg.OnClose != nil {
		m.cfg.OnClose(s.viewer.SessionID)
	}
}

func (m *Manager) Count() int {
	return m.sessions.Count()
}

// Sweep evicts sessions idle for longer than idle, every interval, until ctx is done.
func (m *Manager) Sweep(ctx context.Context, idle, interval time.Duration) {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.evictIdle(ctx, idle); n > 0 {
				logrus.Infof("evicted %d idle sessions", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) evictIdle(ctx context.Context, idle time.Duration) int {
	deadline := m.now().Add(-idle).UnixNano()
	evicted := 0
	for item := range m.sessions.IterBuffered() {
		s := item.Val
		if s.lastSeen.Load() >= deadline {
			continue
		}
		removed := m.sessions.RemoveCb(item.Key, func(_ string, v *session, exists bool) bool {
			return exists && v == s && v.lastSeen.Load() < deadline
		})
		if !removed {
			continue
		}
		s.viewer.Products.InvalidateCache(ctx)
		m.release(s)
		evicted++
	}
	return evicted
}
