package statistics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/discordapi"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/profilecache"
)

const (
	CacheKeySnapshot = "statistics:bot:snapshot"
	CacheExpiration  = 30 * time.Minute
	RefreshSchedule  = "@every 5m"
	TopServerCount   = 3
	EmptyCount       = "+ 0"
)

// GuildSource lists the guilds the bot is in.
type GuildSource interface {
	Guilds() []discordapi.GuildStat
}

// Store keeps the latest snapshot.
type Store interface {
	SetJSON(ctx context.Context, key string, v interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dst interface{}) error
}

type TopServer struct {
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Players int    `json:"players"`
}

// Snapshot holds the bot-wide numbers shown on the home page.
type Snapshot struct {
	TotalServers int         `json:"totalServers"`
	TotalPlayers int64       `json:"totalPlayers"`
	TopServers   []TopServer `json:"topServers"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// StatisticsData is the formatted view of a Snapshot.
type StatisticsData struct {
	TotalServers string
	TotalPlayers string
	TopServers   []TopServer
}

type Service struct {
	source GuildSource
	store  Store
	now    func() time.Time
}

func NewService(source GuildSource, store Store) *Service {
	return &Service{source: source, store: store, now: time.Now}
}

// Compute builds a snapshot from the guild list.
func Compute(guilds []discordapi.GuildStat, now time.Time) Snapshot {
	snap := Snapshot{TotalServers: len(guilds), UpdatedAt: now, TopServers: []TopServer{}}
	sorted := make([]discordapi.GuildStat, len(guilds))
	copy(sorted, guilds)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MemberCount > sorted[j].MemberCount })

	for i, g := range sorted {
		snap.TotalPlayers += int64(g.MemberCount)
		if i >= TopServerCount {
			continue
		}
		icon := profilecache.DefaultAvatarURL
		if g.Icon != "" {
			icon = fmt.Sprintf("https://cdn.discordapp.com/icons/%s/%s.png?size=64", g.ID, g.Icon)
		}
		snap.TopServers = append(snap.TopServers, TopServer{Name: g.Name, Icon: icon, Players: g.MemberCount})
	}
	return snap
}

// Refresh recomputes the snapshot and stores it.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	snap := Compute(s.source.Guilds(), s.now())
	if err := s.store.SetJSON(ctx, CacheKeySnapshot, snap, CacheExpiration); err != nil {
		return snap, fmt.Errorf("failed to cache statistics: %w", err)
	}
	log.Infof("[Statistics] updated: %d servers, %d players", snap.TotalServers, snap.TotalPlayers)
	return snap, nil
}

// GetStatisticsData returns the formatted statistics, computing them when
// the cache has none.
func (s *Service) GetStatisticsData(ctx context.Context) StatisticsData {
	var snap Snapshot
	if err := s.store.GetJSON(ctx, CacheKeySnapshot, &snap); err != nil {
		fresh, err := s.Refresh(ctx)
		if err != nil {
			log.Warnf("[Statistics] %v", err)
		}
		snap = fresh
	}
	if snap.TotalServers == 0 {
		return StatisticsData{TotalServers: EmptyCount, TotalPlayers: EmptyCount, TopServers: []TopServer{}}
	}
	return StatisticsData{
		TotalServers: FormatNumber(int64(snap.TotalServers)),
		TotalPlayers: FormatNumber(snap.TotalPlayers),
		TopServers:   snap.TopServers,
	}
}

// StartRefresher refreshes the snapshot on RefreshSchedule until the returned
// cron is stopped.
func (s *Service) StartRefresher() (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if _, err := s.Refresh(ctx); err != nil {
			log.Errorf("[Statistics] refresh: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// FormatNumber renders counts the way the home page shows them, e.g. +1.2K.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("+%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("+%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("+%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("+%d", n)
}
