package transport

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/carli2/speech-server/internal/config"
)

// Registry tracks live sessions by id so that pipeline stages running in
// other goroutines can attach to them. It is bounded: when more than
// MaxSessions are tracked, the least-recently-used session is closed and
// evicted.
type Registry struct {
	log   *zap.Logger
	cfg   *config.TransportConfig
	cache *lru.Cache[string, *Session]
}

// NewRegistry creates a session registry sized from the config.
func NewRegistry(cfg *config.Config, logger *zap.Logger) (*Registry, error) {
	r := &Registry{
		log: logger.Named("registry"),
		cfg: &cfg.Transport,
	}
	cache, err := lru.NewWithEvict(cfg.Transport.MaxSessions, func(id string, s *Session) {
		r.log.Warn("evicting session", zap.String("session", id))
		s.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("transport: registry: %w", err)
	}
	r.cache = cache
	return r, nil
}

// Create makes a new session, registers it and returns it. An existing
// session with the same id is closed and replaced.
func (r *Registry) Create(id string, logger *zap.Logger) *Session {
	if old, ok := r.cache.Get(id); ok {
		old.Close()
	}
	s := NewSession(id, r.cfg, logger)
	r.cache.Add(id, s)
	return s
}

// Get returns the session with the given id, if it is registered.
func (r *Registry) Get(id string) (*Session, bool) {
	return r.cache.Get(id)
}

// Remove unregisters and closes a session.
func (r *Registry) Remove(id string) {
	if s, ok := r.cache.Peek(id); ok {
		r.cache.Remove(id)
		s.Close()
	}
}

// Len reports the number of registered sessions.
func (r *Registry) Len() int {
	return r.cache.Len()
}
