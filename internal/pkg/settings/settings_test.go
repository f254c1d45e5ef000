package settings

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/repository"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/testutil"
)

var ownerClaim = guildaccess.Claim{GuildID: "g1", Owner: true}

func validForm() map[string]string {
	return map[string]string{
		"lang":           "en",
		"economyType":    "on",
		"levelStatus":    "on",
		"commandChannel": "123",
		"logChannel":     "",
		"initBalance":    "1000",
		"maxBet":         "100",
		"minBet":         "50",
		"xpLevel":        "100",
		"initBalloon":    "0",
		"initMobile":     "0",
		"initBike":       "0",
		"initCar":        "0",
		"initCastle":     "0",
		"initLevel":      "1",
		"rewardWork":     "500",
		"rewardDaily":    "1000",
		"rewardWeekly":   "5000",
		"initMultiplier": "1.25",
		"maxBetLvl5":     "60",
		"maxBetLvl15":    "70",
		"maxBetLvl35":    "80",
		"maxBetLvl75":    "90",
		"maxBetLvl150":   "100",
		"maxBetLvl300":   "100",
	}
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(gameconfig.Default())
	require.NoError(t, err)
	return v
}

func with(form map[string]string, kv ...string) map[string]string {
	for i := 0; i+1 < len(kv); i += 2 {
		form[kv[i]] = kv[i+1]
	}
	return form
}

func TestValidate_Accepts(t *testing.T) {
	v := newValidator(t)

	patch, err := v.Validate(ownerClaim, validForm())
	require.NoError(t, err)

	assert.Equal(t, "en", patch.Lang)
	assert.True(t, patch.EconomyType)
	assert.True(t, patch.LevelStatus)
	assert.False(t, patch.ItemStatus)
	require.NotNil(t, patch.CommandChannel)
	assert.Equal(t, "123", *patch.CommandChannel)
	assert.Nil(t, patch.LogChannel)
	assert.Equal(t, 1.25, patch.InitMultiplier)
	assert.Equal(t, int64(100), patch.Ints["maxBet"])
	assert.Equal(t, int64(60), patch.BetLevels[5])
	assert.Len(t, patch.BetLevels, 6)

	g := &models.Guild{}
	require.NoError(t, patch.Apply(g))
	assert.Equal(t, int64(50), g.MinBet)
	assert.Equal(t, int64(100), g.MaxBetLvl300)

	cols, err := patch.Columns()
	require.NoError(t, err)
	assert.Contains(t, cols, "max_bet_lvl35")
	assert.Contains(t, cols, "xp_level")
	assert.NotContains(t, cols, "vip_server")
}

func TestValidate_IntegralFloatText(t *testing.T) {
	v := newValidator(t)

	patch, err := v.Validate(ownerClaim, with(validForm(),
		"initBalance", "1e3",
		"rewardWork", "500.0",
		"maxBetLvl5", "6e1",
	))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), patch.Ints["initBalance"])
	assert.Equal(t, int64(500), patch.Ints["rewardWork"])
	assert.Equal(t, int64(60), patch.BetLevels[5])

	for _, raw := range []string{"1.5", "-1", "", "1e19", "NaN", "Inf"} {
		_, ok := parseNonNegativeInt(raw)
		assert.False(t, ok, raw)
	}
	n, ok := parseNonNegativeInt("9223372036854775807")
	assert.True(t, ok)
	assert.Equal(t, int64(9223372036854775807), n)
}

func TestValidate_Rejections(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		claim   guildaccess.Claim
		form    map[string]string
		kind    Kind
		field   string
		tier    int
		message string
	}{
		{
			name:    "no permission",
			claim:   guildaccess.Claim{GuildID: "g1", Permissions: 0x20},
			form:    validForm(),
			kind:    PermissionDenied,
			message: "❌ You don't have permission to edit this server.",
		},
		{
			name:    "unknown language",
			claim:   ownerClaim,
			form:    with(validForm(), "lang", "xx"),
			kind:    InvalidLanguage,
			message: "❌ Invalid language selected.",
		},
		{
			name:    "missing language",
			claim:   ownerClaim,
			form:    func() map[string]string { f := validForm(); delete(f, "lang"); return f }(),
			kind:    InvalidLanguage,
			message: "❌ Invalid language selected.",
		},
		{
			name:    "negative integer",
			claim:   ownerClaim,
			form:    with(validForm(), "rewardDaily", "-1"),
			kind:    InvalidField,
			field:   "rewardDaily",
			message: `❌ Field "rewardDaily" must be a positive integer.`,
		},
		{
			name:  "decimal integer field",
			claim: ownerClaim,
			form:  with(validForm(), "initBalance", "1.5"),
			kind:  InvalidField,
			field: "initBalance",
		},
		{
			name:  "negative float integer field",
			claim: ownerClaim,
			form:  with(validForm(), "rewardWeekly", "-5.0"),
			kind:  InvalidField,
			field: "rewardWeekly",
		},
		{
			name:  "empty integer field",
			claim: ownerClaim,
			form:  with(validForm(), "xpLevel", ""),
			kind:  InvalidField,
			field: "xpLevel",
		},
		{
			name:    "min above max",
			claim:   ownerClaim,
			form:    with(validForm(), "minBet", "100", "maxBet", "50"),
			kind:    BetRangeInvalid,
			message: "❌ Min Bet cannot be greater than Max Bet.",
		},
		{
			name:    "multiplier with three decimals",
			claim:   ownerClaim,
			form:    with(validForm(), "initMultiplier", "1.255"),
			kind:    InvalidMultiplier,
			message: "❌ Multiplier must be a non-negative number with up to 2 decimals.",
		},
		{
			name:  "negative multiplier",
			claim: ownerClaim,
			form:  with(validForm(), "initMultiplier", "-1"),
			kind:  InvalidMultiplier,
		},
		{
			name:  "tier not an integer",
			claim: ownerClaim,
			form:  with(validForm(), "maxBetLvl15", "abc"),
			kind:  BetLevelInvalid,
			field: "maxBetLvl15",
			tier:  15,
		},
		{
			name:    "tier above max bet",
			claim:   ownerClaim,
			form:    with(validForm(), "maxBetLvl300", "101"),
			kind:    BetLevelInvalid,
			field:   "maxBetLvl300",
			tier:    300,
			message: "❌ Max Bet for Level 300 cannot exceed Max Bet.",
		},
		{
			name:    "tier below previous",
			claim:   ownerClaim,
			form:    with(validForm(), "maxBetLvl35", "65"),
			kind:    BetLevelInvalid,
			field:   "maxBetLvl35",
			tier:    35,
			message: "❌ Max Bet for Level 35 must be >= Level 15.",
		},
		{
			name:    "min above a tier",
			claim:   ownerClaim,
			form:    with(validForm(), "minBet", "65"),
			kind:    BetRangeInvalid,
			message: "❌ Min Bet cannot be greater than any Max Bet level.",
		},
		{
			name:  "language checked before integers",
			claim: ownerClaim,
			form:  with(validForm(), "lang", "xx", "initBalance", "nope"),
			kind:  InvalidLanguage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := v.Validate(tt.claim, tt.form)
			assert.Nil(t, patch)
			ve, ok := AsValidation(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Equal(t, tt.kind, ve.Kind)
			if tt.field != "" {
				assert.Equal(t, tt.field, ve.Field)
			}
			if tt.tier != 0 {
				assert.Equal(t, tt.tier, ve.Tier)
			}
			if tt.message != "" {
				assert.Equal(t, tt.message, ve.Message)
			}
		})
	}
}

func TestValidate_AdministratorBit(t *testing.T) {
	v := newValidator(t)
	_, err := v.Validate(guildaccess.Claim{GuildID: "g1", Permissions: 0x8 | 0x20}, validForm())
	assert.NoError(t, err)
}

func TestValidate_TierPermutations(t *testing.T) {
	v := newValidator(t)
	rng := rand.New(rand.NewSource(42))
	fields := []string{"maxBetLvl5", "maxBetLvl15", "maxBetLvl35", "maxBetLvl75", "maxBetLvl150", "maxBetLvl300"}

	for i := 0; i < 500; i++ {
		values := make([]int64, len(fields))
		for j := range values {
			values[j] = rng.Int63n(130)
		}
		maxBet := int64(100)
		minBet := rng.Int63n(60)

		form := with(validForm(), "maxBet", strconv.FormatInt(maxBet, 10), "minBet", strconv.FormatInt(minBet, 10))
		for j, f := range fields {
			form[f] = strconv.FormatInt(values[j], 10)
		}

		sorted := sort.SliceIsSorted(values, func(a, b int) bool { return values[a] < values[b] })
		want := sorted
		for _, n := range values {
			if n > maxBet || minBet > n {
				want = false
			}
		}

		_, err := v.Validate(ownerClaim, form)
		if want {
			assert.NoError(t, err, "values %v min %d", values, minBet)
			continue
		}
		ve, ok := AsValidation(err)
		require.True(t, ok, "values %v min %d should be rejected", values, minBet)
		assert.Contains(t, []Kind{BetLevelInvalid, BetRangeInvalid}, ve.Kind)
	}
}

type countingGuilds struct {
	repository.GuildRepository
	upserts int
	fail    error
}

func (c *countingGuilds) UpsertSettings(ctx context.Context, g *models.Guild, columns []string) error {
	c.upserts++
	if c.fail != nil {
		return c.fail
	}
	return c.GuildRepository.UpsertSettings(ctx, g, columns)
}

type presence map[string]bool

func (p presence) HasGuild(id string) bool { return p[id] }

func newService(t *testing.T) (*Service, *countingGuilds) {
	t.Helper()
	cfg := gameconfig.Default()
	db := testutil.NewDB(t)
	guilds := &countingGuilds{GuildRepository: repository.NewGuildRepository(db, cfg.GuildDefaults)}
	v, err := NewValidator(cfg)
	require.NoError(t, err)
	return NewService(v, guilds, presence{"g1": true}), guilds
}

func TestService_Update(t *testing.T) {
	svc, guilds := newService(t)
	ctx := context.Background()

	g, err := svc.Update(ctx, "g1", ownerClaim, validForm())
	require.NoError(t, err)
	assert.Equal(t, 1, guilds.upserts)
	assert.Equal(t, "g1", g.GuildID)
	assert.Equal(t, int64(50), g.MinBet)
	assert.False(t, g.ItemStatus)
	assert.False(t, g.VipServer)

	// second save overwrites in place
	g, err = svc.Update(ctx, "g1", ownerClaim, with(validForm(), "itemStatus", "on", "minBet", "10"))
	require.NoError(t, err)
	assert.Equal(t, 2, guilds.upserts)
	assert.True(t, g.ItemStatus)
	assert.Equal(t, int64(10), g.MinBet)
}

func TestService_RejectionWritesNothing(t *testing.T) {
	svc, guilds := newService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "g1", ownerClaim, with(validForm(), "lang", "xx", "maxBet", "100", "minBet", "50", "maxBetLvl5", "80"))
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, InvalidLanguage, ve.Kind)

	_, err = svc.Update(ctx, "g1", ownerClaim, with(validForm(), "minBet", "100", "maxBet", "50"))
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, BetRangeInvalid, ve.Kind)

	_, err = svc.Update(ctx, "g1", guildaccess.Claim{GuildID: "g1"}, validForm())
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, PermissionDenied, ve.Kind)

	assert.Equal(t, 0, guilds.upserts)
	_, err = guilds.GetByGuildID(ctx, "g1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestService_BotNotInGuild(t *testing.T) {
	svc, guilds := newService(t)

	_, err := svc.Update(context.Background(), "g2", guildaccess.Claim{GuildID: "g2", Owner: true}, validForm())
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, BotNotInGuild, ve.Kind)
	assert.Equal(t, 0, guilds.upserts)
}

func TestService_PersistenceFailure(t *testing.T) {
	svc, guilds := newService(t)
	guilds.fail = errors.New("disk full")

	_, err := svc.Update(context.Background(), "g1", ownerClaim, validForm())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistenceFailed))
	_, isValidation := AsValidation(err)
	assert.False(t, isValidation)
}
