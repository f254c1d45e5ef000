package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/session"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/usercontext"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/viewmodel"
)

const requestTimeout = 15 * time.Second

const msgNoPermission = "No permission"

// CSRFContextKey is where the csrf middleware leaves the token.
const CSRFContextKey = "csrf"

// requestContext bounds the work a handler does on behalf of one request.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// claimFor returns the caller's claim on a guild from the session guild list.
func claimFor(c *fiber.Ctx, guildID string) (guildaccess.Claim, guildaccess.Guild, bool) {
	return guildaccess.ClaimFor(session.Guilds(c), guildID)
}

func layoutFor(c *fiber.Ctx, page, clientID string) viewmodel.Layout {
	userCtx := usercontext.GetUserContext(c)
	token, _ := c.Locals(CSRFContextKey).(string)
	return viewmodel.Layout{
		Page:       page,
		IsLoggedIn: userCtx.IsLoggedIn,
		Username:   userCtx.Username,
		AvatarURL:  userCtx.AvatarURL(),
		Msg:        flash.Get(c),
		ClientID:   clientID,
		CSRFToken:  token,
	}
}

// jsonFailure writes the {success:false, message} body the dashboard scripts expect.
func jsonFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// formValues flattens a url-encoded, multipart or JSON body into strings.
func formValues(c *fiber.Ctx) (map[string]string, error) {
	out := map[string]string{}

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
		var raw map[string]any
		dec := json.NewDecoder(bytes.NewReader(c.Body()))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			switch t := v.(type) {
			case nil:
				continue
			case string:
				out[k] = t
			case bool:
				if t {
					out[k] = "on"
				}
			default:
				out[k] = fmt.Sprint(t)
			}
		}
		return out, nil
	}

	if form, err := c.MultipartForm(); err == nil {
		for k, v := range form.Value {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
		return out, nil
	}

	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		out[string(k)] = string(v)
	})
	return out, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
