package guildaccess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimCanManage(t *testing.T) {
	tests := []struct {
		name  string
		claim Claim
		want  bool
	}{
		{"owner without perms", Claim{Owner: true}, true},
		{"administrator bit", Claim{Permissions: 0x8}, true},
		{"administrator among others", Claim{Permissions: 0x8 | 0x20 | 0x400}, true},
		{"manage guild only", Claim{Permissions: 0x20}, false},
		{"nothing", Claim{}, false},
		{"all bits", Claim{Permissions: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claim.CanManage())
		})
	}
}

func TestManagedAndClaimFor(t *testing.T) {
	guilds := []Guild{
		{ID: "1", Name: "owned", Owner: true},
		{ID: "2", Name: "admin", Permissions: 8},
		{ID: "3", Name: "member", Permissions: 1024},
	}

	managed := Managed(guilds)
	assert.Len(t, managed, 2)
	assert.Equal(t, "1", managed[0].ID)
	assert.Equal(t, "2", managed[1].ID)

	claim, g, ok := ClaimFor(guilds, "2")
	assert.True(t, ok)
	assert.Equal(t, "admin", g.Name)
	assert.True(t, claim.CanManage())

	claim, _, ok = ClaimFor(guilds, "99")
	assert.False(t, ok)
	assert.Equal(t, "99", claim.GuildID)
	assert.False(t, claim.CanManage())
}

func TestParsePermissionsAndIcon(t *testing.T) {
	assert.Equal(t, int64(2147483647), ParsePermissions("2147483647"))
	assert.Equal(t, int64(0), ParsePermissions("nope"))
	assert.Equal(t, "", Guild{ID: "1"}.IconURL())
	assert.Equal(t, "https://cdn.discordapp.com/icons/1/abc.png", Guild{ID: "1", Icon: "abc"}.IconURL())
}
