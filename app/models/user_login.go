package models

import "time"

// UserLogin is the dashboard account of a Discord user. OAuth tokens are
// stored sealed (see internal/pkg/security).
type UserLogin struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	DiscordID       string     `gorm:"type:varchar(32);not null;uniqueIndex" json:"discordId"`
	Username        string     `gorm:"type:varchar(100);not null" json:"username"`
	Avatar          string     `gorm:"type:varchar(100)" json:"avatar"`
	AccessTokenEnc  string     `gorm:"type:text;not null" json:"-"`
	RefreshTokenEnc string     `gorm:"type:text;not null" json:"-"`
	TokenExpiresAt  *time.Time `gorm:"type:timestamp;default:null" json:"-"`
	LastLoginAt     *time.Time `gorm:"type:timestamp;default:null" json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

const defaultAvatarURL = "https://cdn.discordapp.com/embed/avatars/0.png"

// AvatarURL is the CDN URL of the user's avatar or Discord's default one.
func (u *UserLogin) AvatarURL() string {
	if u.Avatar == "" {
		return defaultAvatarURL
	}
	return "https://cdn.discordapp.com/avatars/" + u.DiscordID + "/" + u.Avatar + ".png"
}
