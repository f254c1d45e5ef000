package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v76"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/billing"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/usercontext"
)

// CheckoutProvider creates and reads back premium checkout sessions.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, md billing.CheckoutMetadata) (string, error)
	GetSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

// WebhookHandler verifies and applies one payment provider delivery.
type WebhookHandler interface {
	Handle(ctx context.Context, payload []byte, signatureHeader string) (int, error)
}

type BillingController struct {
	checkout CheckoutProvider
	webhook  WebhookHandler
	clientID string
}

func NewBillingController(checkout CheckoutProvider, webhook WebhookHandler, clientID string) *BillingController {
	return &BillingController{checkout: checkout, webhook: webhook, clientID: clientID}
}

// HandleBuyPremium redirects to a new premium checkout for the guild.
func (bc *BillingController) HandleBuyPremium(c *fiber.Ctx) error {
	guildID := c.Params("id")
	_, guild, _ := claimFor(c, guildID)
	userCtx := usercontext.GetUserContext(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	url, err := bc.checkout.CreateSession(ctx, billing.CheckoutMetadata{
		GuildID:    guildID,
		GuildName:  firstNonEmpty(guild.Name, "Unknown Server"),
		UserID:     userCtx.DiscordID,
		UserName:   userCtx.Username,
		UserAvatar: userCtx.AvatarURL(),
	})
	if err != nil {
		log.Errorf("[Billing] creating checkout for %s: %v", guildID, err)
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return c.Redirect(url, fiber.StatusSeeOther)
}

// HandlePremiumSuccess shows the thank-you page for a paid checkout of this
// guild. Activation itself happens in the webhook.
func (bc *BillingController) HandlePremiumSuccess(c *fiber.Ctx) error {
	guildID := c.Params("id")
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := bc.checkout.GetSession(ctx, sessionID)
	if err != nil {
		log.Errorf("[Billing] checking payment %s: %v", sessionID, err)
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	if !billing.PaidFor(s, guildID) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	return c.Render("premium_success", fiber.Map{
		"Layout":  layoutFor(c, "premium", bc.clientID),
		"GuildID": guildID,
	}, "layouts/main")
}

// HandleStripeWebhook passes the raw body and signature to the webhook handler.
func (bc *BillingController) HandleStripeWebhook(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	status, err := bc.webhook.Handle(ctx, c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		log.Errorf("[Webhook] %v", err)
	}
	return c.SendStatus(status)
}
