package composer

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/profiles"
)

var ErrDraftNotFound = fmt.Errorf("%w: draft not found", errors.NotFound)

type Config struct {
	MaxSessions int           `envconfig:"CAREPROFILES_DRAFT_SESSIONS_MAX" default:"1000"`
	IdleTimeout time.Duration `envconfig:"CAREPROFILES_DRAFT_SESSION_IDLE_TIMEOUT" default:"30m"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type session struct {
	ownerId  string
	gate     *auth.Session
	composer *Composer
	lastUsed time.Time
}

// Registry keeps the composer sessions of all caregivers. Sessions are bound
// to the identity that started them, evicted when idle for longer than the
// configured timeout and, once the registry is full, least recently used
// first.
type Registry struct {
	mu          sync.Mutex
	lru         *simplelru.LRU
	idleTimeout time.Duration

	store  profiles.Service
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewRegistry(cfg *Config, store profiles.Service, logger *zap.SugaredLogger) (*Registry, error) {
	r := &Registry{
		idleTimeout: cfg.IdleTimeout,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}

	lru, err := simplelru.NewLRU(cfg.MaxSessions, r.onEvict)
	if err != nil {
		return nil, err
	}
	r.lru = lru

	return r, nil
}

// Start opens a new composer session for identity and returns its id.
func (r *Registry) Start(identity auth.Identity, opts ...Option) (string, *Composer) {
	gate := auth.NewSession(&identity)
	s := &session{
		ownerId:  identity.SubjectId,
		gate:     gate,
		composer: New(gate, r.store, r.logger, opts...),
		lastUsed: r.now(),
	}
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lru.Add(id, s)

	r.logger.Debugw("draft session started", "draftId", id, "ownerId", identity.SubjectId)
	return id, s.composer
}

// Get returns the composer of a session owned by identity. Sessions of other
// identities are reported as not found.
func (r *Registry) Get(id string, identity auth.Identity) (*Composer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.get(id, identity)
	if err != nil {
		return nil, err
	}
	s.lastUsed = r.now()
	return s.composer, nil
}

// Discard ends a session and clears the identity bound to it.
func (r *Registry) Discard(id string, identity auth.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.get(id, identity); err != nil {
		return err
	}
	r.lru.Remove(id)
	return nil
}

// Len returns the number of open sessions, including idle ones not yet
// collected.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Len()
}

// RemoveIdle evicts every session that has not been used within the idle
// timeout and returns how many were removed.
func (r *Registry) RemoveIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, key := range r.lru.Keys() {
		value, ok := r.lru.Peek(key)
		if ok && r.isIdle(value.(*session)) {
			r.lru.Remove(key)
			removed++
		}
	}
	return removed
}

func (r *Registry) get(id string, identity auth.Identity) (*session, error) {
	value, ok := r.lru.Get(id)
	if !ok {
		return nil, ErrDraftNotFound
	}

	s := value.(*session)
	if r.isIdle(s) {
		r.lru.Remove(id)
		return nil, ErrDraftNotFound
	}
	if s.ownerId != identity.SubjectId {
		return nil, ErrDraftNotFound
	}
	return s, nil
}

func (r *Registry) isIdle(s *session) bool {
	return r.idleTimeout > 0 && r.now().Sub(s.lastUsed) > r.idleTimeout
}

func (r *Registry) onEvict(key interface{}, value interface{}) {
	s := value.(*session)
	s.gate.Clear()
	r.logger.Debugw("draft session ended", "draftId", key, "ownerId", s.ownerId)
}
