package guildaccess

import "strconv"

// PermissionAdministrator is Discord's ADMINISTRATOR permission bit.
const PermissionAdministrator int64 = 0x8

// Guild is a guild as seen by the logged-in user through OAuth.
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Owner       bool   `json:"owner"`
	Permissions int64  `json:"permissions"`
}

// Claim is the caller's authority over one guild.
type Claim struct {
	GuildID     string
	Owner       bool
	Permissions int64
}

// CanManage reports whether the caller owns the guild or holds ADMINISTRATOR.
func (c Claim) CanManage() bool {
	return c.Owner || c.Permissions&PermissionAdministrator == PermissionAdministrator
}

func (g Guild) Claim() Claim {
	return Claim{GuildID: g.ID, Owner: g.Owner, Permissions: g.Permissions}
}

// IconURL returns the CDN URL for the guild icon, empty when the guild has none.
func (g Guild) IconURL() string {
	if g.Icon == "" {
		return ""
	}
	return "https://cdn.discordapp.com/icons/" + g.ID + "/" + g.Icon + ".png"
}

// Managed filters the guilds down to the ones the caller can manage.
func Managed(guilds []Guild) []Guild {
	out := make([]Guild, 0, len(guilds))
	for _, g := range guilds {
		if g.Claim().CanManage() {
			out = append(out, g)
		}
	}
	return out
}

// ClaimFor looks up the caller's claim for guildID. A guild that is not in the
// list yields an empty claim, which never authorizes.
func ClaimFor(guilds []Guild, guildID string) (Claim, Guild, bool) {
	for _, g := range guilds {
		if g.ID == guildID {
			return g.Claim(), g, true
		}
	}
	return Claim{GuildID: guildID}, Guild{}, false
}

// ParsePermissions parses the decimal permission string Discord returns.
func ParsePermissions(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
