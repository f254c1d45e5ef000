package models

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
)

// Guild stores the casino configuration of one Discord server.
// Columns carry no defaults; NewGuild applies them.
type Guild struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	GuildID         string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"guildId"`
	Lang            string    `gorm:"type:varchar(8);not null" json:"lang"`
	EconomyType     bool      `gorm:"not null" json:"economyType"`
	CommandChannel  *string   `gorm:"type:varchar(32);default:null" json:"commandChannel"`
	LogChannel      *string   `gorm:"type:varchar(32);default:null" json:"logChannel"`
	InitBalance     int64     `gorm:"not null" json:"initBalance"`
	MaxBet          int64     `gorm:"not null" json:"maxBet"`
	MinBet          int64     `gorm:"not null" json:"minBet"`
	XPLevel         int64     `gorm:"column:xp_level;not null" json:"xpLevel"`
	InitBalloon     int64     `gorm:"not null" json:"initBalloon"`
	InitMobile      int64     `gorm:"not null" json:"initMobile"`
	InitBike        int64     `gorm:"not null" json:"initBike"`
	InitCar         int64     `gorm:"not null" json:"initCar"`
	InitCastle      int64     `gorm:"not null" json:"initCastle"`
	InitMultiplier  float64   `gorm:"type:decimal(10,2);not null" json:"initMultiplier"`
	InitLevel       int64     `gorm:"not null" json:"initLevel"`
	MaxBetLvl5      int64     `gorm:"column:max_bet_lvl5;not null" json:"maxBetLvl5"`
	MaxBetLvl15     int64     `gorm:"column:max_bet_lvl15;not null" json:"maxBetLvl15"`
	MaxBetLvl35     int64     `gorm:"column:max_bet_lvl35;not null" json:"maxBetLvl35"`
	MaxBetLvl75     int64     `gorm:"column:max_bet_lvl75;not null" json:"maxBetLvl75"`
	MaxBetLvl150    int64     `gorm:"column:max_bet_lvl150;not null" json:"maxBetLvl150"`
	MaxBetLvl300    int64     `gorm:"column:max_bet_lvl300;not null" json:"maxBetLvl300"`
	RewardWork      int64     `gorm:"not null" json:"rewardWork"`
	RewardDaily     int64     `gorm:"not null" json:"rewardDaily"`
	RewardWeekly    int64     `gorm:"not null" json:"rewardWeekly"`
	LevelStatus     bool      `gorm:"not null" json:"levelStatus"`
	ItemStatus      bool      `gorm:"not null" json:"itemStatus"`
	VipServer       bool      `gorm:"not null;index" json:"vipServer"`
	CommandsNotUsed []string  `gorm:"serializer:json;type:text" json:"commandsNotUsed"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ErrUnsupportedBetLevel is returned for tiers that have no column.
var ErrUnsupportedBetLevel = errors.New("unsupported bet level")

// NewGuild builds an unsaved guild carrying the configured defaults.
func NewGuild(guildID string, d gameconfig.GuildDefaults) *Guild {
	g := &Guild{
		GuildID:         guildID,
		Lang:            d.Lang,
		InitBalance:     d.InitBalance,
		MaxBet:          d.MaxBet,
		MinBet:          d.MinBet,
		XPLevel:         d.XPLevel,
		InitBalloon:     d.InitBalloon,
		InitMobile:      d.InitMobile,
		InitBike:        d.InitBike,
		InitCar:         d.InitCar,
		InitCastle:      d.InitCastle,
		InitMultiplier:  d.InitMultiplier,
		InitLevel:       d.InitLevel,
		RewardWork:      d.RewardWork,
		RewardDaily:     d.RewardDaily,
		RewardWeekly:    d.RewardWeekly,
		LevelStatus:     true,
		ItemStatus:      true,
		CommandsNotUsed: []string{},
	}
	if g.Lang == "" {
		g.Lang = "en"
	}
	for _, level := range SupportedBetLevels {
		_ = g.SetMaxBetLevel(level, d.MaxBetForLevel(level))
	}
	return g
}

// SupportedBetLevels lists the tiers that have a column on guilds.
var SupportedBetLevels = []int{5, 15, 35, 75, 150, 300}

func (g *Guild) betLevelField(level int) *int64 {
	switch level {
	case 5:
		return &g.MaxBetLvl5
	case 15:
		return &g.MaxBetLvl15
	case 35:
		return &g.MaxBetLvl35
	case 75:
		return &g.MaxBetLvl75
	case 150:
		return &g.MaxBetLvl150
	case 300:
		return &g.MaxBetLvl300
	}
	return nil
}

// MaxBetLevel returns the ceiling of a tier.
func (g *Guild) MaxBetLevel(level int) (int64, error) {
	f := g.betLevelField(level)
	if f == nil {
		return 0, ErrUnsupportedBetLevel
	}
	return *f, nil
}

func (g *Guild) SetMaxBetLevel(level int, v int64) error {
	f := g.betLevelField(level)
	if f == nil {
		return ErrUnsupportedBetLevel
	}
	*f = v
	return nil
}

// BetLevelColumn maps a tier to its column name.
func BetLevelColumn(level int) (string, error) {
	switch level {
	case 5, 15, 35, 75, 150, 300:
		return "max_bet_lvl" + strconv.Itoa(level), nil
	}
	return "", ErrUnsupportedBetLevel
}

// GetOrCreateGuild returns the stored guild or materializes it with defaults.
func GetOrCreateGuild(db *gorm.DB, guildID string, d gameconfig.GuildDefaults) (*Guild, error) {
	var g Guild
	err := db.Where("guild_id = ?", guildID).First(&g).Error
	if err == nil {
		return &g, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := NewGuild(guildID, d)
	if err := db.Create(created).Error; err != nil {
		// A concurrent request may have created it first.
		if lookupErr := db.Where("guild_id = ?", guildID).First(&g).Error; lookupErr == nil {
			return &g, nil
		}
		return nil, err
	}
	return created, nil
}
