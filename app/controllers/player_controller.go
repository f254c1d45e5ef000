package controllers

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/players"
)

// PlayerController lists and edits the economy records of a guild.
type PlayerController struct {
	lister  *players.Lister
	updater *players.Updater
}

func NewPlayerController(lister *players.Lister, updater *players.Updater) *PlayerController {
	return &PlayerController{lister: lister, updater: updater}
}

// HandlePlayers returns one page of players, optionally filtered by ?search=.
func (pc *PlayerController) HandlePlayers(c *fiber.Ctx) error {
	guildID := c.Params("id")
	claim, _, _ := claimFor(c, guildID)

	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := pc.lister.List(ctx, guildID, claim, c.QueryInt("page", 1), c.Query("search"))
	switch {
	case err == nil:
		return c.JSON(page)
	case errors.Is(err, players.ErrPermissionDenied):
		return jsonFailure(c, fiber.StatusForbidden, msgNoPermission)
	default:
		log.Errorf("[Players] listing %s: %v", guildID, err)
		return jsonFailure(c, fiber.StatusInternalServerError, "Server error")
	}
}

// HandlePlayerUpdate applies the editable fields of the JSON body.
func (pc *PlayerController) HandlePlayerUpdate(c *fiber.Ctx) error {
	guildID := c.Params("id")
	userID := c.Params("userId")
	claim, _, _ := claimFor(c, guildID)

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return jsonFailure(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := pc.updater.Update(ctx, guildID, userID, claim, payload)
	var fieldErr *players.FieldError
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"success": true, "message": "✅ Player updated successfully"})
	case errors.Is(err, players.ErrPermissionDenied):
		return jsonFailure(c, fiber.StatusForbidden, msgNoPermission)
	case errors.Is(err, players.ErrNotFound):
		return jsonFailure(c, fiber.StatusNotFound, "Player not found")
	case errors.As(err, &fieldErr):
		return jsonFailure(c, fiber.StatusBadRequest, fieldErr.Error())
	default:
		log.Errorf("[Players] updating %s/%s: %v", guildID, userID, err)
		return jsonFailure(c, fiber.StatusInternalServerError, "Error updating player")
	}
}
