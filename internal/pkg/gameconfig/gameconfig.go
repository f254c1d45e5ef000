package gameconfig

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultConfig []byte

type Language struct {
	Code string `toml:"code"`
	Name string `toml:"name"`
}

// BetLevel is one progression tier with its own max-bet ceiling.
type BetLevel struct {
	Level int    `toml:"level"`
	Field string `toml:"field"`
}

// GuildDefaults are the values a guild record is materialized with.
type GuildDefaults struct {
	Lang           string           `toml:"lang"`
	InitBalance    int64            `toml:"init_balance"`
	MaxBet         int64            `toml:"max_bet"`
	MinBet         int64            `toml:"min_bet"`
	XPLevel        int64            `toml:"xp_level"`
	InitBalloon    int64            `toml:"init_balloon"`
	InitMobile     int64            `toml:"init_mobile"`
	InitBike       int64            `toml:"init_bike"`
	InitCar        int64            `toml:"init_car"`
	InitCastle     int64            `toml:"init_castle"`
	InitMultiplier float64          `toml:"init_multiplier"`
	InitLevel      int64            `toml:"init_level"`
	RewardWork     int64            `toml:"reward_work"`
	RewardDaily    int64            `toml:"reward_daily"`
	RewardWeekly   int64            `toml:"reward_weekly"`
	MaxBetLevels   map[string]int64 `toml:"max_bet_levels"`
}

// MaxBetForLevel returns the default ceiling for a tier, 0 if unset.
func (d GuildDefaults) MaxBetForLevel(level int) int64 {
	return d.MaxBetLevels[strconv.Itoa(level)]
}

type Config struct {
	Languages     []Language    `toml:"languages"`
	BetLevels     []BetLevel    `toml:"bet_levels"`
	GuildDefaults GuildDefaults `toml:"guild_defaults"`
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		panic(fmt.Sprintf("embedded game config is invalid: %v", err))
	}
	return cfg
}

// Load reads a TOML file; an empty path yields the embedded defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open game config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(cfg.BetLevels, func(i, j int) bool {
		return cfg.BetLevels[i].Level < cfg.BetLevels[j].Level
	})
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Languages) == 0 {
		return errors.New("at least one language is required")
	}
	seenLevel := make(map[int]struct{}, len(c.BetLevels))
	for _, lvl := range c.BetLevels {
		if lvl.Level <= 0 || lvl.Field == "" {
			return fmt.Errorf("bet level %d: level and field are required", lvl.Level)
		}
		if _, ok := seenLevel[lvl.Level]; ok {
			return fmt.Errorf("bet level %d declared twice", lvl.Level)
		}
		seenLevel[lvl.Level] = struct{}{}
	}
	if !c.IsAllowedLanguage(c.GuildDefaults.Lang) {
		return fmt.Errorf("default language %q is not in the language list", c.GuildDefaults.Lang)
	}
	return nil
}

func (c *Config) IsAllowedLanguage(code string) bool {
	for _, l := range c.Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}
