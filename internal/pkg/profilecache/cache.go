package profilecache

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	// DefaultTTL is how long a fetched profile is trusted.
	DefaultTTL = 10 * time.Minute

	DefaultAvatarURL = "https://cdn.discordapp.com/embed/avatars/0.png"
)

// Profile is what the dashboard shows for a Discord user.
type Profile struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
}

// LookupFunc fetches a profile from Discord.
type LookupFunc func(ctx context.Context, userID string) (Profile, error)

type entry struct {
	profile   Profile
	lastFetch time.Time
}

// Cache is a read-through profile cache with lazy TTL expiry. It is unbounded
// and safe for concurrent use; concurrent misses for the same id may each
// call the lookup.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	lookup  LookupFunc
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(lookup LookupFunc, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		lookup:  lookup,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fallback is returned when a profile cannot be fetched.
func Fallback(userID string) Profile {
	return Profile{Username: "Unknown (" + userID + ")", AvatarURL: DefaultAvatarURL}
}

// Get returns the cached profile while it is fresh and fetches it otherwise.
// Failed lookups yield Fallback and are not stored.
func (c *Cache) Get(ctx context.Context, userID string) Profile {
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok && now.Sub(e.lastFetch) < c.ttl {
		return e.profile
	}

	p, err := c.lookup(ctx, userID)
	if err != nil {
		log.Warnf("[ProfileCache] lookup %s failed: %v", userID, err)
		return Fallback(userID)
	}
	if p.Username == "" {
		p.Username = Fallback(userID).Username
	}
	if p.AvatarURL == "" {
		p.AvatarURL = DefaultAvatarURL
	}

	c.mu.Lock()
	c.entries[userID] = entry{profile: p, lastFetch: c.now()}
	c.mu.Unlock()
	return p
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
