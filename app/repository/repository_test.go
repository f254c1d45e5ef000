package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/testutil"
)

func newRepos(t *testing.T) (*Repositories, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewRepositories(db, gameconfig.Default().GuildDefaults), db
}

func TestGuildRepository_UpsertSettings(t *testing.T) {
	repos, db := newRepos(t)
	ctx := context.Background()

	g := models.NewGuild("100", repos.Guild.Defaults())
	g.MaxBet = 777
	g.LevelStatus = false
	require.NoError(t, repos.Guild.UpsertSettings(ctx, g, []string{"max_bet", "level_status"}))

	stored, err := repos.Guild.GetByGuildID(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, int64(777), stored.MaxBet)
	assert.False(t, stored.LevelStatus)

	// premium flag is untouched by settings upserts
	require.NoError(t, db.Model(&models.Guild{}).Where("guild_id = ?", "100").Update("vip_server", true).Error)
	again := models.NewGuild("100", repos.Guild.Defaults())
	again.MaxBet = 888
	require.NoError(t, repos.Guild.UpsertSettings(ctx, again, []string{"max_bet"}))

	stored, err = repos.Guild.GetByGuildID(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, int64(888), stored.MaxBet)
	assert.True(t, stored.VipServer)
	assert.False(t, stored.LevelStatus)

	var count int64
	db.Model(&models.Guild{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGuildRepository_PremiumByGuildIDs(t *testing.T) {
	repos, db := newRepos(t)
	ctx := context.Background()

	_, err := repos.Guild.GetOrCreate(ctx, "1")
	require.NoError(t, err)
	_, err = repos.Guild.GetOrCreate(ctx, "2")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Guild{}).Where("guild_id = ?", "2").Update("vip_server", true).Error)

	premium, err := repos.Guild.PremiumByGuildIDs(ctx, []string{"1", "2", "3"})
	require.NoError(t, err)
	assert.False(t, premium["1"])
	assert.True(t, premium["2"])
	_, ok := premium["3"]
	assert.False(t, ok)

	empty, err := repos.Guild.PremiumByGuildIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPlayerRepository(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	guild, err := repos.Guild.GetOrCreate(ctx, "g1")
	require.NoError(t, err)

	_, err = repos.Player.Get(ctx, "g1", "u1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	for _, id := range []string{"u1", "u2", "u3"} {
		_, err := repos.Player.GetOrCreate(ctx, guild, id)
		require.NoError(t, err)
	}
	// same user, other guild
	other, err := repos.Guild.GetOrCreate(ctx, "g2")
	require.NoError(t, err)
	_, err = repos.Player.GetOrCreate(ctx, other, "u1")
	require.NoError(t, err)

	count, err := repos.Player.CountByGuild(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	page, err := repos.Player.ListByGuild(ctx, "g1", 1, 5)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "u2", page[0].UserID)

	require.NoError(t, repos.Player.UpdateFields(ctx, "g1", "u1", map[string]interface{}{"balance": int64(5), "swag_car": int64(2)}))
	p, err := repos.Player.Get(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Balance)
	assert.Equal(t, int64(2), p.Swag.Car)

	p2, err := repos.Player.Get(ctx, "g2", "u1")
	require.NoError(t, err)
	assert.Equal(t, guild.InitBalance, p2.Balance)
}

func TestUserLoginRepository_Upsert(t *testing.T) {
	repos, db := newRepos(t)
	ctx := context.Background()

	now := time.Now()
	u := &models.UserLogin{DiscordID: "42", Username: "old", AccessTokenEnc: "a", RefreshTokenEnc: "r", LastLoginAt: &now}
	require.NoError(t, repos.UserLogin.Upsert(ctx, u))
	firstID := u.ID

	u2 := &models.UserLogin{DiscordID: "42", Username: "new", Avatar: "hash", AccessTokenEnc: "a2", RefreshTokenEnc: "r2"}
	require.NoError(t, repos.UserLogin.Upsert(ctx, u2))
	assert.Equal(t, firstID, u2.ID)

	got, err := repos.UserLogin.GetByDiscordID(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Username)
	assert.Equal(t, "a2", got.AccessTokenEnc)

	var count int64
	db.Model(&models.UserLogin{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFactory_GettersShareRepositories(t *testing.T) {
	db := testutil.NewDB(t)
	f := NewFactory(db, gameconfig.Default().GuildDefaults)

	repos := f.GetRepositories()
	assert.Same(t, repos, f.GetRepositories())
	assert.Equal(t, repos.Guild, f.GetGuildRepository())
	assert.Equal(t, repos.Player, f.GetPlayerRepository())
	assert.Equal(t, repos.UserLogin, f.GetUserLoginRepository())

	ctx := context.Background()
	_, err := f.GetGuildRepository().GetOrCreate(ctx, "7")
	require.NoError(t, err)
	stored, err := repos.Guild.GetByGuildID(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", stored.GuildID)
}
