package auth

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

var (
	IdentityContextKey    = IdentityKey("identity")
	TokenExpiryContextKey = IdentityKey("tokenExpiry")
)

type IdentityKey string

// Identity is the authenticated subject of a request.
type Identity struct {
	SubjectId    string `json:"subjectId" mapstructure:"sub"`
	ServerAccess bool   `json:"serverAccess" mapstructure:"srv"`
}

func IsServerIdentity(i *Identity) bool {
	return i != nil && i.ServerAccess
}

// Gate supplies the current authenticated identity, or nil when there is none.
type Gate interface {
	CurrentIdentity() *Identity
}

// Session is a Gate whose identity is bound when a session starts and cleared
// when it ends.
type Session struct {
	mu       sync.RWMutex
	identity *Identity
}

var _ Gate = &Session{}

func NewSession(identity *Identity) *Session {
	s := &Session{}
	if identity != nil {
		s.Bind(*identity)
	}
	return s
}

func (s *Session) Bind(identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &identity
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
}

func (s *Session) CurrentIdentity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*Identity); ok {
		return identity
	}

	return nil
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

func SetIdentity(ec echo.Context, identity *Identity) {
	ec.SetRequest(ec.Request().WithContext(WithIdentity(ec.Request().Context(), identity)))
}

// GetTokenExpiry returns the expiry of the token the request identity was
// authenticated with.
func GetTokenExpiry(ctx context.Context) (time.Time, bool) {
	expiresAt, ok := ctx.Value(TokenExpiryContextKey).(time.Time)
	return expiresAt, ok
}

func SetTokenExpiry(ec echo.Context, expiresAt time.Time) {
	ctx := context.WithValue(ec.Request().Context(), TokenExpiryContextKey, expiresAt)
	ec.SetRequest(ec.Request().WithContext(ctx))
}

// RequestGate returns a Gate reporting the identity attached to ctx.
func RequestGate(ctx context.Context) Gate {
	return NewSession(GetIdentity(ctx))
}
