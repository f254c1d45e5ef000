package players

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/repository"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/profilecache"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/testutil"
)

var admin = guildaccess.Claim{GuildID: "g1", Permissions: guildaccess.PermissionAdministrator}

func seed(t *testing.T, userIDs ...string) *repository.Repositories {
	t.Helper()
	repos := repository.NewRepositories(testutil.NewDB(t), gameconfig.Default().GuildDefaults)
	ctx := context.Background()
	guild, err := repos.Guild.GetOrCreate(ctx, "g1")
	require.NoError(t, err)
	for _, id := range userIDs {
		_, err := repos.Player.GetOrCreate(ctx, guild, id)
		require.NoError(t, err)
		require.NoError(t, repos.Player.UpdateFields(ctx, "g1", id, map[string]interface{}{
			"last_work":              int64(1234),
			"battle_pass_level":      int64(7),
			"battle_pass_experience": int64(40),
			"battle_pass_active":     true,
		}))
	}
	return repos
}

func TestFilter_Policy(t *testing.T) {
	fields, err := Filter(map[string]any{
		"balance":              float64(10),
		"lastWork":             float64(0),
		"lastDaily":            "0",
		"battlePass":           map[string]any{"level": float64(99)},
		"battlePass.level":     float64(99),
		"battlePassExperience": float64(5),
		"swag.car":             float64(3),
		"swag":                 map[string]any{"bike": "2"},
		"userId":               "other",
		"guildId":              "other",
		"_id":                  "x",
		"unknown":              float64(1),
		"multiplier":           1.256,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"balance":    int64(10),
		"swag_car":   int64(3),
		"swag_bike":  int64(2),
		"multiplier": 1.26,
	}, fields)
}

func TestFilter_NeverTouchesProtectedKeys(t *testing.T) {
	payloads := []map[string]any{
		{"lastWork": float64(1), "lastCrime": float64(2), "lastVote": "3"},
		{"battlePass": map[string]any{"active": true, "level": float64(9), "rewardsClaimed": []any{1, 2}}},
		{"battlePass.experience": float64(100), "battlePass.rewardsClaimed": []any{float64(1)}},
		{"lastSlot.nested": float64(1)},
	}
	for i, payload := range payloads {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			fields, err := Filter(payload)
			require.NoError(t, err)
			for col := range fields {
				assert.False(t, strings.HasPrefix(col, "last_"), col)
				assert.False(t, strings.HasPrefix(col, "battle_pass_"), col)
			}
			assert.Empty(t, fields)
		})
	}
}

func TestFilter_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		key     string
	}{
		{"negative", map[string]any{"balance": float64(-5)}, "balance"},
		{"text", map[string]any{"level": "ten"}, "level"},
		{"fraction on integer", map[string]any{"swag.castle": 1.5}, "swag.castle"},
		{"bool", map[string]any{"experience": true}, "experience"},
		{"negative multiplier", map[string]any{"multiplier": "-0.5"}, "multiplier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Filter(tt.payload)
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.key, fe.Key)
		})
	}
}

func decodeNumbers(t *testing.T, body string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	require.NoError(t, dec.Decode(&payload))
	return payload
}

func TestFilter_IntegerRange(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int64
		wantErr bool
	}{
		{name: "max int64", body: `{"balance": 9223372036854775807}`, want: math.MaxInt64},
		{name: "above 2^53 kept exact", body: `{"balance": 9007199254740993}`, want: 9007199254740993},
		{name: "quoted max int64", body: `{"balance": "9223372036854775807"}`, want: math.MaxInt64},
		{name: "integral exponent", body: `{"balance": 1e3}`, want: 1000},
		{name: "integral decimal text", body: `{"balance": "10.0"}`, want: 10},
		{name: "2^63", body: `{"balance": 9223372036854775808}`, wantErr: true},
		{name: "quoted 2^63", body: `{"balance": "9223372036854775808"}`, wantErr: true},
		{name: "2^63 as exponent", body: `{"balance": 9.223372036854775808e18}`, wantErr: true},
		{name: "huge negative", body: `{"balance": -9223372036854775809}`, wantErr: true},
		{name: "negative zero stays zero", body: `{"balance": "-0"}`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := Filter(decodeNumbers(t, tt.body))
			if tt.wantErr {
				var fe *FieldError
				require.True(t, errors.As(err, &fe), "got %v", err)
				assert.Equal(t, "balance", fe.Key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fields["balance"])
		})
	}

	fields, err := Filter(map[string]any{"balance": float64(1 << 63)})
	require.Error(t, err)
	assert.Nil(t, fields)
}

func TestUpdater_StoresLargeIntegersExactly(t *testing.T) {
	repos := seed(t, "u1")
	u := NewUpdater(repos.Player)
	ctx := context.Background()

	require.NoError(t, u.Update(ctx, "g1", "u1", admin, decodeNumbers(t, `{"balance": 9223372036854775807, "experience": 9007199254740993}`)))
	p, err := repos.Player.Get(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), p.Balance)
	assert.Equal(t, int64(9007199254740993), p.Experience)

	err = u.Update(ctx, "g1", "u1", admin, decodeNumbers(t, `{"balance": 9223372036854775808}`))
	var fe *FieldError
	require.True(t, errors.As(err, &fe), "got %v", err)

	p, err = repos.Player.Get(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), p.Balance)
}

func TestUpdater_Update(t *testing.T) {
	repos := seed(t, "u1")
	u := NewUpdater(repos.Player)
	ctx := context.Background()

	err := u.Update(ctx, "g1", "u1", admin, map[string]any{
		"balance":          float64(999999999),
		"swag":             map[string]any{"castle": float64(4)},
		"lastWork":         float64(0),
		"battlePass.level": float64(50),
	})
	require.NoError(t, err)

	p, err := repos.Player.Get(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(999999999), p.Balance)
	assert.Equal(t, int64(4), p.Swag.Castle)
	assert.Equal(t, int64(1234), p.LastWork)
	assert.Equal(t, int64(7), p.BattlePass.Level)
	assert.Equal(t, int64(40), p.BattlePass.Experience)
	assert.True(t, p.BattlePass.Active)
}

func TestUpdater_Errors(t *testing.T) {
	repos := seed(t, "u1")
	u := NewUpdater(repos.Player)
	ctx := context.Background()

	err := u.Update(ctx, "g1", "u1", guildaccess.Claim{GuildID: "g1"}, map[string]any{"balance": float64(1)})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = u.Update(ctx, "g1", "missing", admin, map[string]any{"balance": float64(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	err = u.Update(ctx, "g2", "u1", guildaccess.Claim{GuildID: "g2", Owner: true}, map[string]any{"balance": float64(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	err = u.Update(ctx, "g1", "u1", admin, map[string]any{"balance": float64(-1)})
	var fe *FieldError
	assert.True(t, errors.As(err, &fe))

	// nothing editable left: success without a write
	require.NoError(t, u.Update(ctx, "g1", "u1", admin, map[string]any{"lastWork": float64(0)}))
	p, err := repos.Player.Get(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), p.LastWork)
}

type fakeProfiles struct {
	mu    sync.Mutex
	calls int
	names map[string]string
}

func (f *fakeProfiles) Get(ctx context.Context, userID string) profilecache.Profile {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if name, ok := f.names[userID]; ok {
		return profilecache.Profile{Username: name, AvatarURL: "https://cdn/" + userID + ".png"}
	}
	return profilecache.Fallback(userID)
}

func TestLister_List(t *testing.T) {
	ids := []string{"101", "102", "103", "104", "105", "106", "107"}
	repos := seed(t, ids...)
	profiles := &fakeProfiles{names: map[string]string{"101": "Alice", "102": "Bob", "106": "alicia"}}
	l := NewLister(repos.Player, profiles)
	ctx := context.Background()

	page, err := l.List(ctx, "g1", admin, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(7), page.TotalPlayers)
	require.Len(t, page.Players, PageSize)
	assert.Equal(t, "101", page.Players[0].UserID)
	assert.Equal(t, "Alice", page.Players[0].Username)
	assert.Equal(t, "Unknown (103)", page.Players[2].Username)
	assert.Equal(t, PageSize, profiles.calls)

	page, err = l.List(ctx, "g1", admin, 2, "")
	require.NoError(t, err)
	require.Len(t, page.Players, 2)
	assert.Equal(t, "106", page.Players[0].UserID)

	page, err = l.List(ctx, "g1", admin, 1, "ALI")
	require.NoError(t, err)
	require.Len(t, page.Players, 1)
	assert.Equal(t, "101", page.Players[0].UserID)

	page, err = l.List(ctx, "g1", admin, 1, "104")
	require.NoError(t, err)
	require.Len(t, page.Players, 1)

	page, err = l.List(ctx, "g1", admin, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)

	_, err = l.List(ctx, "g1", guildaccess.Claim{GuildID: "g1"}, 1, "")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestView_JSON(t *testing.T) {
	v := View{Player: models.Player{UserID: "1", Balance: 5}, Username: "x", Avatar: "a"}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"userId":"1"`)
	assert.Contains(t, string(data), `"username":"x"`)
	assert.Contains(t, string(data), `"swag":{`)
}
