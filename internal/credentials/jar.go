package credentials

import (
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// DefaultAccessTTL applies to access tokens whose expiry cannot be read
const DefaultAccessTTL = 20 * time.Minute

type cookie struct {
	value   string
	expires time.Time
}

// Jar is an in-memory cookie store. Expired entries read as absent.
type Jar struct {
	mu      sync.RWMutex
	cookies map[string]cookie
	now     func() time.Time
}

// NewJar creates an empty jar using the wall clock
func NewJar() *Jar {
	return &Jar{cookies: make(map[string]cookie), now: time.Now}
}

// WithClock replaces the jar's clock; used by tests.
func (j *Jar) WithClock(now func() time.Time) *Jar {
	j.now = now
	return j
}

// Get returns the value of name when present and not expired
func (j *Jar) Get(name string) (string, bool) {
	j.mu.RLock()
	c, ok := j.cookies[name]
	j.mu.RUnlock()
	if !ok || !c.expires.After(j.now()) {
		return "", false
	}
	return c.value, true
}

// Set stores value under name until expires
func (j *Jar) Set(name, value string, expires time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !expires.After(j.now()) {
		// an expiry in the past evicts the entry, like a browser does
		delete(j.cookies, name)
		return
	}
	j.cookies[name] = cookie{value: value, expires: expires}
}

// ExpiryOf reads the exp claim of a (possibly "Bearer "-prefixed) JWT without
// verifying its signature. Tokens that cannot be parsed get DefaultAccessTTL.
func (j *Jar) ExpiryOf(token string) time.Time {
	raw := strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			return time.Unix(int64(exp), 0)
		}
	}
	return j.now().Add(DefaultAccessTTL)
}
