package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mitchellh/mapstructure"

	"github.com/tidepool-org/careprofiles/errors"
)

var (
	ErrInvalidToken                   = fmt.Errorf("%w: session token is invalid", errors.Unauthorized)
	CareProfilesSessionTokenHeaderKey = "x-careprofiles-session-token"
)

type Authenticator interface {
	ValidateAndSetAuthData(token string, ec echo.Context) (bool, error)
}

type AuthMiddlewareOpts struct {
	Skipper middleware.Skipper
}

func NewAuthMiddleware(authenticator Authenticator, opts AuthMiddlewareOpts) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Allow skipping authentication for certain routes (e.g. readiness probe)
			if opts.Skipper != nil {
				if opts.Skipper(c) {
					return next(c)
				}
			}

			token := GetRequestToken(c)
			if token == "" {
				return errors.ErrUnauthenticated
			}

			valid, err := authenticator.ValidateAndSetAuthData(token, c)
			if err != nil {
				return err
			} else if valid {
				return next(c)
			}
			return errors.ErrUnauthenticated
		}
	}
}

// GetRequestToken returns the bearer token of the request, falling back to the
// session token header.
func GetRequestToken(c echo.Context) string {
	header := c.Request().Header
	if authorization := header.Get(echo.HeaderAuthorization); authorization != "" {
		if scheme, token, ok := strings.Cut(authorization, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return header.Get(CareProfilesSessionTokenHeaderKey)
}

// NewAuthenticator returns a token authenticator that caches server identities
func NewAuthenticator(cfg *Config) (Authenticator, error) {
	delegate := NewTokenAuthenticator([]byte(cfg.TokenSecret), cfg.TokenIssuer)
	return NewCachingAuthenticator(
		cfg.CacheSize,
		cfg.CacheExpiration,
		delegate,
		IsServerIdentity,
	)
}

// TokenAuthenticator verifies HS256 signed session tokens. The subject claim
// is the identity.
type TokenAuthenticator struct {
	secret []byte
	issuer string
}

var _ Authenticator = &TokenAuthenticator{}

func NewTokenAuthenticator(secret []byte, issuer string) *TokenAuthenticator {
	return &TokenAuthenticator{secret: secret, issuer: issuer}
}

func (t *TokenAuthenticator) ValidateAndSetAuthData(token string, ec echo.Context) (bool, error) {
	identity, expiresAt, err := t.VerifyWithExpiry(token)
	if err != nil {
		return false, err
	}
	SetIdentity(ec, identity)
	if !expiresAt.IsZero() {
		SetTokenExpiry(ec, expiresAt)
	}
	return true, nil
}

func (t *TokenAuthenticator) Verify(token string) (*Identity, error) {
	identity, _, err := t.VerifyWithExpiry(token)
	return identity, err
}

// VerifyWithExpiry verifies token and also returns the time encoded in its exp
// claim. The time is zero when the token does not expire.
func (t *TokenAuthenticator) VerifyWithExpiry(token string) (*Identity, time.Time, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, time.Time{}, ErrInvalidToken
	}
	if t.issuer != "" && !claims.VerifyIssuer(t.issuer, true) {
		return nil, time.Time{}, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}

	identity := &Identity{}
	if err := mapstructure.WeakDecode(map[string]interface{}(claims), identity); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(identity.SubjectId) == "" {
		return nil, time.Time{}, fmt.Errorf("%w: subject is missing", ErrInvalidToken)
	}

	expiresAt, err := claimTime(claims, "exp")
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return identity, expiresAt, nil
}

func claimTime(claims jwt.MapClaims, name string) (time.Time, error) {
	switch value := claims[name].(type) {
	case nil:
		return time.Time{}, nil
	case float64:
		return time.Unix(int64(value), 0), nil
	case json.Number:
		seconds, err := value.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(seconds, 0), nil
	}
	return time.Time{}, fmt.Errorf("%s claim is not a number", name)
}

// SignToken issues a session token for identity that expires after ttl.
func SignToken(secret []byte, issuer string, identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": identity.SubjectId,
		"srv": identity.ServerAccess,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if issuer != "" {
		claims["iss"] = issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

type CacheEntry struct {
	token    string
	identity *Identity
	expiry   time.Time
}

func (c CacheEntry) IsExpired() bool {
	return time.Now().After(c.expiry)
}

type CachingAuthenticator struct {
	delegate    Authenticator
	expiration  time.Duration
	lru         *simplelru.LRU
	mu          *sync.Mutex
	shouldCache func(*Identity) bool
}

var _ Authenticator = &CachingAuthenticator{}

func NewCachingAuthenticator(size int, expiration time.Duration, delegate Authenticator, shouldCache func(*Identity) bool) (Authenticator, error) {
	var onEvict simplelru.EvictCallback
	lru, err := simplelru.NewLRU(size, onEvict)
	if err != nil {
		return nil, err
	}

	return &CachingAuthenticator{
		delegate:    delegate,
		expiration:  expiration,
		lru:         lru,
		mu:          &sync.Mutex{},
		shouldCache: shouldCache,
	}, nil
}

func (c *CachingAuthenticator) ValidateAndSetAuthData(token string, ec echo.Context) (bool, error) {
	if entry := c.getCachedEntry(token); entry != nil {
		SetIdentity(ec, entry.identity)
		SetTokenExpiry(ec, entry.expiry)
		return true, nil
	}

	res, err := c.delegate.ValidateAndSetAuthData(token, ec)
	identity := GetIdentity(ec.Request().Context())

	if err == nil && c.shouldCache(identity) {
		// Entries never outlive the token itself.
		expiry := time.Now().Add(c.expiration)
		if expiresAt, ok := GetTokenExpiry(ec.Request().Context()); ok && expiresAt.Before(expiry) {
			expiry = expiresAt
		}
		c.setCacheEntry(CacheEntry{
			token:    token,
			identity: identity,
			expiry:   expiry,
		})
	}

	return res, err
}

func (c *CachingAuthenticator) getCachedEntry(token string) *CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.lru.Get(token); ok {
		entry := e.(CacheEntry)
		if entry.IsExpired() {
			c.lru.Remove(token)
			return nil
		}
		return &entry
	}

	return nil
}

func (c *CachingAuthenticator) setCacheEntry(entry CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.lru.Add(entry.token, entry)
}
