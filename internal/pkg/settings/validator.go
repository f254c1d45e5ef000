package settings

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
)

var multiplierPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

type intField struct {
	name   string
	column string
	set    func(*models.Guild, int64)
}

// intFields is checked in this order; the first failure is reported.
var intFields = []intField{
	{"initBalance", "init_balance", func(g *models.Guild, v int64) { g.InitBalance = v }},
	{"maxBet", "max_bet", func(g *models.Guild, v int64) { g.MaxBet = v }},
	{"minBet", "min_bet", func(g *models.Guild, v int64) { g.MinBet = v }},
	{"xpLevel", "xp_level", func(g *models.Guild, v int64) { g.XPLevel = v }},
	{"initBalloon", "init_balloon", func(g *models.Guild, v int64) { g.InitBalloon = v }},
	{"initMobile", "init_mobile", func(g *models.Guild, v int64) { g.InitMobile = v }},
	{"initBike", "init_bike", func(g *models.Guild, v int64) { g.InitBike = v }},
	{"initCar", "init_car", func(g *models.Guild, v int64) { g.InitCar = v }},
	{"initCastle", "init_castle", func(g *models.Guild, v int64) { g.InitCastle = v }},
	{"initLevel", "init_level", func(g *models.Guild, v int64) { g.InitLevel = v }},
	{"rewardWork", "reward_work", func(g *models.Guild, v int64) { g.RewardWork = v }},
	{"rewardDaily", "reward_daily", func(g *models.Guild, v int64) { g.RewardDaily = v }},
	{"rewardWeekly", "reward_weekly", func(g *models.Guild, v int64) { g.RewardWeekly = v }},
}

// IntFieldNames lists the plain integer form fields.
func IntFieldNames() []string {
	out := make([]string, len(intFields))
	for i, f := range intFields {
		out[i] = f.name
	}
	return out
}

// Patch is an accepted, normalized settings update.
type Patch struct {
	Lang           string
	EconomyType    bool
	LevelStatus    bool
	ItemStatus     bool
	CommandChannel *string
	LogChannel     *string
	InitMultiplier float64
	Ints           map[string]int64
	BetLevels      map[int]int64
}

// Apply copies the patch onto g.
func (p *Patch) Apply(g *models.Guild) error {
	g.Lang = p.Lang
	g.EconomyType = p.EconomyType
	g.LevelStatus = p.LevelStatus
	g.ItemStatus = p.ItemStatus
	g.CommandChannel = p.CommandChannel
	g.LogChannel = p.LogChannel
	g.InitMultiplier = p.InitMultiplier
	for _, f := range intFields {
		f.set(g, p.Ints[f.name])
	}
	for level, v := range p.BetLevels {
		if err := g.SetMaxBetLevel(level, v); err != nil {
			return fmt.Errorf("level %d: %w", level, err)
		}
	}
	return nil
}

// Columns names every column the patch writes.
func (p *Patch) Columns() ([]string, error) {
	cols := []string{"lang", "economy_type", "level_status", "item_status", "command_channel", "log_channel", "init_multiplier"}
	for _, f := range intFields {
		cols = append(cols, f.column)
	}
	for level := range p.BetLevels {
		col, err := models.BetLevelColumn(level)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", level, err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// Validator runs the settings-update cascade against the game configuration.
type Validator struct {
	cfg *gameconfig.Config
}

// NewValidator fails when the configuration names tiers the guild table
// cannot store.
func NewValidator(cfg *gameconfig.Config) (*Validator, error) {
	for _, lvl := range cfg.BetLevels {
		if _, err := models.BetLevelColumn(lvl.Level); err != nil {
			return nil, fmt.Errorf("bet level %d: %w", lvl.Level, err)
		}
	}
	return &Validator{cfg: cfg}, nil
}

// Validate checks form in a fixed order and stops at the first failure.
func (v *Validator) Validate(claim guildaccess.Claim, form map[string]string) (*Patch, error) {
	if !claim.CanManage() {
		return nil, permissionDenied()
	}

	lang, ok := form["lang"]
	if !ok || lang == "" || !v.cfg.IsAllowedLanguage(lang) {
		return nil, invalidLanguage()
	}

	ints := make(map[string]int64, len(intFields))
	for _, f := range intFields {
		n, ok := parseNonNegativeInt(form[f.name])
		if !ok {
			return nil, invalidField(f.name)
		}
		ints[f.name] = n
	}

	maxBet, minBet := ints["maxBet"], ints["minBet"]
	if minBet > maxBet {
		return nil, minAboveMax()
	}

	rawMultiplier := strings.TrimSpace(form["initMultiplier"])
	if !multiplierPattern.MatchString(rawMultiplier) {
		return nil, invalidMultiplier()
	}
	multiplier, err := strconv.ParseFloat(rawMultiplier, 64)
	if err != nil || multiplier < 0 {
		return nil, invalidMultiplier()
	}

	levels := make(map[int]int64, len(v.cfg.BetLevels))
	var previous int64
	for i, lvl := range v.cfg.BetLevels {
		n, ok := parseNonNegativeInt(form[lvl.Field])
		if !ok {
			return nil, tierNotInteger(lvl.Field, lvl.Level)
		}
		if n > maxBet {
			return nil, tierAboveMax(lvl.Field, lvl.Level)
		}
		if i > 0 && n < previous {
			return nil, tierBelowPrevious(lvl.Field, lvl.Level, v.cfg.BetLevels[i-1].Level)
		}
		levels[lvl.Level] = n
		previous = n
	}

	for _, n := range levels {
		if minBet > n {
			return nil, minAboveTier()
		}
	}

	return &Patch{
		Lang:           lang,
		EconomyType:    checkbox(form["economyType"]),
		LevelStatus:    checkbox(form["levelStatus"]),
		ItemStatus:     checkbox(form["itemStatus"]),
		CommandChannel: optionalID(form["commandChannel"]),
		LogChannel:     optionalID(form["logChannel"]),
		InitMultiplier: multiplier,
		Ints:           ints,
		BetLevels:      levels,
	}, nil
}

// parseNonNegativeInt accepts plain integers as well as integral float text
// such as "10.0" or "1e3". Anything at or above 2^63 is rejected.
func parseNonNegativeInt(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, n >= 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f >= float64(1<<63) {
		return 0, false
	}
	return int64(f), true
}

// checkbox follows HTML form semantics: an unchecked box is simply absent.
func checkbox(raw string) bool {
	return raw == "on"
}

func optionalID(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}
