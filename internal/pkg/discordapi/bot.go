package discordapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/profilecache"
)

var ErrNotConfigured = errors.New("discord bot is not configured")

// GuildStat is a snapshot of one guild from the gateway cache.
type GuildStat struct {
	ID          string
	Name        string
	Icon        string
	MemberCount int
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Bot wraps the disgo client the dashboard uses for presence checks,
// profile lookups and notifications.
type Bot struct {
	client       bot.Client
	logChannelID snowflake.ID
}

// NewBot creates the client without connecting. An empty token yields a Bot
// whose lookups fail with ErrNotConfigured.
func NewBot(token, logChannelID string) (*Bot, error) {
	b := &Bot{}
	if logChannelID != "" {
		id, err := snowflake.Parse(logChannelID)
		if err != nil {
			return nil, fmt.Errorf("invalid log channel id %q: %w", logChannelID, err)
		}
		b.logChannelID = id
	}
	if token == "" {
		log.Warn("[Discord] DISCORD_BOT_TOKEN not set, bot features disabled")
		return b, nil
	}

	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}
	b.client = client
	return b, nil
}

// Open connects to the gateway so the guild cache fills.
func (b *Bot) Open(ctx context.Context) error {
	if b.client == nil {
		return ErrNotConfigured
	}
	if err := b.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}
	log.Info("[Discord] gateway connected")
	return nil
}

func (b *Bot) Close(ctx context.Context) {
	if b.client != nil {
		b.client.Close(ctx)
	}
}

// HasGuild reports whether the bot is in the guild, according to the cache.
func (b *Bot) HasGuild(guildID string) bool {
	if b.client == nil {
		return false
	}
	id, err := snowflake.Parse(guildID)
	if err != nil {
		return false
	}
	_, ok := b.client.Caches().Guild(id)
	return ok
}

// Guilds returns every cached guild, largest first.
func (b *Bot) Guilds() []GuildStat {
	if b.client == nil {
		return nil
	}
	var out []GuildStat
	b.client.Caches().GuildsForEach(func(g discord.Guild) {
		stat := GuildStat{ID: g.ID.String(), Name: g.Name, MemberCount: g.MemberCount}
		if g.Icon != nil {
			stat.Icon = *g.Icon
		}
		out = append(out, stat)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].MemberCount > out[j].MemberCount })
	return out
}

// TextChannels lists the guild's text channels.
func (b *Bot) TextChannels(ctx context.Context, guildID string) ([]Channel, error) {
	if b.client == nil {
		return nil, ErrNotConfigured
	}
	id, err := snowflake.Parse(guildID)
	if err != nil {
		return nil, fmt.Errorf("invalid guild id %q: %w", guildID, err)
	}
	channels, err := b.client.Rest().GetGuildChannels(id, rest.WithCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channels: %w", err)
	}
	out := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type() != discord.ChannelTypeGuildText {
			continue
		}
		out = append(out, Channel{ID: ch.ID().String(), Name: ch.Name()})
	}
	return out, nil
}

// FetchProfile looks a user up through the REST API.
func (b *Bot) FetchProfile(ctx context.Context, userID string) (profilecache.Profile, error) {
	if b.client == nil {
		return profilecache.Profile{}, ErrNotConfigured
	}
	id, err := snowflake.Parse(userID)
	if err != nil {
		return profilecache.Profile{}, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	user, err := b.client.Rest().GetUser(id, rest.WithCtx(ctx))
	if err != nil {
		return profilecache.Profile{}, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	var avatar string
	if user.Avatar != nil {
		avatar = *user.Avatar
	}
	return profilecache.Profile{Username: user.Username, AvatarURL: AvatarURL(userID, avatar)}, nil
}

// SendEmbed posts an embed to the configured log channel.
func (b *Bot) SendEmbed(ctx context.Context, embed discord.Embed) error {
	if b.client == nil || b.logChannelID == 0 {
		return ErrNotConfigured
	}
	_, err := b.client.Rest().CreateMessage(b.logChannelID, discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// AvatarURL builds the CDN URL for a user avatar hash, falling back to the
// default avatar.
func AvatarURL(userID, avatarHash string) string {
	if avatarHash == "" {
		return profilecache.DefaultAvatarURL
	}
	return "https://cdn.discordapp.com/avatars/" + userID + "/" + avatarHash + ".png"
}
