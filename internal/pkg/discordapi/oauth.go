package discordapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
)

const defaultAPIBaseURL = "https://discord.com/api/v10"

// OAuthClient calls Discord on behalf of a logged-in user.
type OAuthClient struct {
	APIBaseURL string
	HTTPClient *http.Client
}

func NewOAuthClient() *OAuthClient {
	return &OAuthClient{
		APIBaseURL: defaultAPIBaseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// UserGuilds returns the guilds of the user owning accessToken, with the
// user's owner flag and permission mask in each.
func (c *OAuthClient) UserGuilds(ctx context.Context, accessToken string) ([]guildaccess.Guild, error) {
	token := strings.TrimSpace(accessToken)
	if token == "" {
		return nil, errors.New("access token is required")
	}

	url := strings.TrimRight(c.APIBaseURL, "/") + "/users/@me/guilds"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("discord guilds request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var raw []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Icon        string `json:"icon"`
		Owner       bool   `json:"owner"`
		Permissions string `json:"permissions"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	out := make([]guildaccess.Guild, 0, len(raw))
	for _, g := range raw {
		out = append(out, guildaccess.Guild{
			ID:          g.ID,
			Name:        g.Name,
			Icon:        g.Icon,
			Owner:       g.Owner,
			Permissions: guildaccess.ParsePermissions(g.Permissions),
		})
	}
	return out, nil
}
