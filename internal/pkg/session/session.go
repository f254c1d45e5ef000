package session

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/cache"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/env"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
)

const Expiration = 24 * time.Hour

const (
	keyDiscordID   = "discord_id"
	keyUsername    = "username"
	keyAvatar      = "avatar"
	keyAccessToken = "access_token"
	keyGuilds      = "guilds"
)

var sessionStore *session.Store

// User is the logged-in Discord user kept in the session.
type User struct {
	DiscordID string
	Username  string
	Avatar    string
}

func NewSessionStore() *session.Store {
	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	// Sessions live in DB 1, the cache uses DB 0
	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})

	return UseStore(session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     Expiration,
		KeyLookup:      "cookie:session_id",
	}))
}

// UseStore replaces the package store, e.g. with an in-memory one in tests.
func UseStore(s *session.Store) *session.Store {
	sessionStore = s
	return sessionStore
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// SetSessionValue stores a key-value pair in the user's individual session
func SetSessionValue(c *fiber.Ctx, key string, value string) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %v", err)
	}

	sess.Set(key, value)
	return sess.Save()
}

// GetSessionValue retrieves a value by key from the user's individual session
func GetSessionValue(c *fiber.Ctx, key string) string {
	if sessionStore == nil {
		return ""
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return ""
	}

	if s, ok := sess.Get(key).(string); ok {
		return s
	}
	return ""
}

// Login starts a fresh session for the user. The access token must already
// be sealed; only managed guilds should be passed in.
func Login(c *fiber.Ctx, u User, sealedAccessToken string, guilds []guildaccess.Guild) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}

	raw, err := json.Marshal(guilds)
	if err != nil {
		return err
	}
	sess.Set(keyDiscordID, u.DiscordID)
	sess.Set(keyUsername, u.Username)
	sess.Set(keyAvatar, u.Avatar)
	sess.Set(keyAccessToken, sealedAccessToken)
	sess.Set(keyGuilds, string(raw))
	return sess.Save()
}

// CurrentUser returns the session user, false when nobody is logged in.
func CurrentUser(c *fiber.Ctx) (User, bool) {
	if sessionStore == nil {
		return User{}, false
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return User{}, false
	}
	id, _ := sess.Get(keyDiscordID).(string)
	if id == "" {
		return User{}, false
	}
	name, _ := sess.Get(keyUsername).(string)
	avatar, _ := sess.Get(keyAvatar).(string)
	return User{DiscordID: id, Username: name, Avatar: avatar}, true
}

// Guilds returns the managed guilds captured at login.
func Guilds(c *fiber.Ctx) []guildaccess.Guild {
	raw := GetSessionValue(c, keyGuilds)
	if raw == "" {
		return []guildaccess.Guild{}
	}
	var guilds []guildaccess.Guild
	if err := json.Unmarshal([]byte(raw), &guilds); err != nil {
		return []guildaccess.Guild{}
	}
	return guilds
}

// SetGuilds replaces the managed guilds of the session.
func SetGuilds(c *fiber.Ctx, guilds []guildaccess.Guild) error {
	raw, err := json.Marshal(guilds)
	if err != nil {
		return err
	}
	return SetSessionValue(c, keyGuilds, string(raw))
}

// SealedAccessToken returns the sealed OAuth access token of the session.
func SealedAccessToken(c *fiber.Ctx) string {
	return GetSessionValue(c, keyAccessToken)
}

// Destroy ends the session.
func Destroy(c *fiber.Ctx) error {
	if sessionStore == nil {
		return nil
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
