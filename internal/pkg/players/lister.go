package players

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/repository"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/profilecache"
)

const PageSize = 5

// ProfileSource resolves display profiles; it never fails.
type ProfileSource interface {
	Get(ctx context.Context, userID string) profilecache.Profile
}

// View is a player record with its Discord profile.
type View struct {
	models.Player
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type Page struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"totalPages"`
	TotalPlayers int64  `json:"totalPlayers"`
	Players      []View `json:"players"`
}

type Lister struct {
	players  repository.PlayerRepository
	profiles ProfileSource
}

func NewLister(players repository.PlayerRepository, profiles ProfileSource) *Lister {
	return &Lister{players: players, profiles: profiles}
}

// List returns one page of the guild's players. search filters the enriched
// page by user id or case-insensitive username.
func (l *Lister) List(ctx context.Context, guildID string, claim guildaccess.Claim, page int, search string) (*Page, error) {
	if !claim.CanManage() {
		return nil, ErrPermissionDenied
	}
	if page < 1 {
		page = 1
	}

	total, err := l.players.CountByGuild(ctx, guildID)
	if err != nil {
		log.Errorf("[Players] count %s: %v", guildID, err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	records, err := l.players.ListByGuild(ctx, guildID, (page-1)*PageSize, PageSize)
	if err != nil {
		log.Errorf("[Players] list %s: %v", guildID, err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	views := make([]View, len(records))
	g, gctx := errgroup.WithContext(ctx)
	for i := range records {
		i := i
		g.Go(func() error {
			p := l.profiles.Get(gctx, records[i].UserID)
			views[i] = View{Player: records[i], Username: p.Username, Avatar: p.AvatarURL}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		filtered := views[:0]
		for _, v := range views {
			if strings.Contains(v.UserID, search) || strings.Contains(strings.ToLower(v.Username), search) {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	return &Page{
		Page:         page,
		TotalPages:   int((total + PageSize - 1) / PageSize),
		TotalPlayers: total,
		Players:      views,
	}, nil
}
