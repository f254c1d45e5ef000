package viewmodel

import (
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/discordapi"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
)

// ServerCard is one managed guild on the dashboard.
type ServerCard struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	IconURL       string `json:"iconUrl"`
	Owner         bool   `json:"owner"`
	IsBotInServer bool   `json:"isBotInServer"`
	Premium       bool   `json:"premium"`
}

// BetLevelRow is a tier input on the settings form.
type BetLevelRow struct {
	Level int
	Field string
	Value int64
}

// SettingsPage carries everything the settings form renders besides the guild.
type SettingsPage struct {
	ServerName string
	Channels   []discordapi.Channel
	Languages  []gameconfig.Language
	BetLevels  []BetLevelRow
}
