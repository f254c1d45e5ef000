package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/markbates/goth"
	gothfiber "github.com/shareed2k/goth_fiber"
	"github.com/sujit-baniya/flash"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/repository"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/security"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/session"
)

// GuildFetcher lists the guilds of the user owning an OAuth access token.
type GuildFetcher interface {
	UserGuilds(ctx context.Context, accessToken string) ([]guildaccess.Guild, error)
}

// AuthController handles the Discord login flow.
type AuthController struct {
	users  repository.UserLoginRepository
	guilds GuildFetcher
	box    *security.TokenBox
	now    func() time.Time
}

func NewAuthController(users repository.UserLoginRepository, guilds GuildFetcher, box *security.TokenBox) *AuthController {
	return &AuthController{users: users, guilds: guilds, box: box, now: time.Now}
}

// HandleLogin starts the Discord OAuth flow.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	return c.Redirect("/auth/discord", fiber.StatusSeeOther)
}

// HandleOAuthCallback completes the provider flow and logs the user in
func (ac *AuthController) HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Errorf("[Auth] oauth callback: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "There is a problem with the login process"}).Redirect("/")
	}
	if err := ac.completeLogin(c, u); err != nil {
		log.Errorf("[Auth] login of %s failed: %v", u.UserID, err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "There is a problem with the login process"}).Redirect("/")
	}
	log.Infof("[Auth] authenticated user %s", u.UserID)
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// completeLogin stores the account, loads the managed guilds and opens the session.
func (ac *AuthController) completeLogin(c *fiber.Ctx, u goth.User) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	access, err := ac.box.Seal(u.AccessToken)
	if err != nil {
		return err
	}
	refresh, err := ac.box.Seal(u.RefreshToken)
	if err != nil {
		return err
	}

	avatar, _ := u.RawData["avatar"].(string)
	username := firstNonEmpty(u.Name, u.NickName, u.UserID)
	now := ac.now()
	login := &models.UserLogin{
		DiscordID:       u.UserID,
		Username:        username,
		Avatar:          avatar,
		AccessTokenEnc:  access,
		RefreshTokenEnc: refresh,
		LastLoginAt:     &now,
	}
	if !u.ExpiresAt.IsZero() {
		exp := u.ExpiresAt
		login.TokenExpiresAt = &exp
	}
	if err := ac.users.Upsert(ctx, login); err != nil {
		return err
	}

	all, err := ac.guilds.UserGuilds(ctx, u.AccessToken)
	if err != nil {
		return err
	}

	return session.Login(c, session.User{
		DiscordID: u.UserID,
		Username:  username,
		Avatar:    avatar,
	}, access, guildaccess.Managed(all))
}

// HandleLogout destroys the session.
func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := session.Destroy(c); err != nil {
		log.Warnf("[Auth] logout: %v", err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
