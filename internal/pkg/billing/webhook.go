package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
)

var (
	ErrWebhookVerification = errors.New("webhook verification failed")
	ErrInvalidMetadata     = errors.New("checkout session metadata is invalid")
)

// Webhook verifies and dispatches Stripe events.
type Webhook struct {
	secret   string
	service  *Service
	validate *validator.Validate
}

func NewWebhook(secret string, service *Service) *Webhook {
	return &Webhook{secret: secret, service: service, validate: validator.New()}
}

// Handle processes one delivery and returns the HTTP status to answer with.
// Only 2xx stops Stripe from redelivering.
func (w *Webhook) Handle(ctx context.Context, payload []byte, signatureHeader string) (int, error) {
	if w.secret == "" {
		return http.StatusBadRequest, fmt.Errorf("%w: no webhook secret configured", ErrWebhookVerification)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, w.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Warnf("[Webhook] signature verification failed: %v", err)
		return http.StatusBadRequest, fmt.Errorf("%w: %v", ErrWebhookVerification, err)
	}

	var session stripe.CheckoutSession
	isCheckout := event.Type == stripe.EventTypeCheckoutSessionCompleted
	if isCheckout && event.Data != nil {
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Errorf("[Webhook] event %s: decode checkout session: %v", event.ID, err)
			return http.StatusBadRequest, fmt.Errorf("decode checkout session: %w", err)
		}
	}

	created, stored, err := w.service.RecordWebhookEvent(ctx, WebhookEventInput{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		GuildID:         session.Metadata["guildId"],
		PayloadJSON:     string(payload),
	})
	if err != nil {
		log.Errorf("[Webhook] event %s: record: %v", event.ID, err)
		return http.StatusInternalServerError, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !created && stored.Succeeded() {
		log.Infof("[Webhook] event %s already processed", event.ID)
		return http.StatusOK, nil
	}

	if !isCheckout {
		w.finish(ctx, stored.ID, nil)
		return http.StatusOK, nil
	}

	activation, err := w.activationFromSession(&session)
	if err != nil {
		log.Warnf("[Webhook] event %s: %v", event.ID, err)
		w.finish(ctx, stored.ID, err)
		return http.StatusBadRequest, err
	}

	if err := w.service.ActivatePremium(ctx, activation); err != nil {
		log.Errorf("[Webhook] event %s: %v", event.ID, err)
		w.finish(ctx, stored.ID, err)
		return http.StatusInternalServerError, err
	}

	w.finish(ctx, stored.ID, nil)
	return http.StatusOK, nil
}

func (w *Webhook) finish(ctx context.Context, id uint, processingErr error) {
	if err := w.service.MarkWebhookProcessed(ctx, id, processingErr); err != nil {
		log.Errorf("[Webhook] mark event %d processed: %v", id, err)
	}
}

func (w *Webhook) activationFromSession(s *stripe.CheckoutSession) (Activation, error) {
	md := CheckoutMetadata{
		GuildID:    s.Metadata["guildId"],
		GuildName:  s.Metadata["guildName"],
		UserID:     s.Metadata["userId"],
		UserName:   s.Metadata["userName"],
		UserAvatar: s.Metadata["userAvatar"],
	}
	if err := w.validate.Struct(md); err != nil {
		return Activation{}, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	a := Activation{
		GuildID:     md.GuildID,
		GuildName:   md.GuildName,
		UserID:      md.UserID,
		UserName:    md.UserName,
		UserAvatar:  md.UserAvatar,
		SessionID:   s.ID,
		AmountTotal: s.AmountTotal,
		Currency:    string(s.Currency),
		PurchasedAt: time.Unix(s.Created, 0).UTC(),
	}
	if s.Customer != nil {
		a.StripeCustomerID = s.Customer.ID
	}
	if s.Subscription != nil {
		a.StripeSubscriptionID = s.Subscription.ID
		if s.Subscription.CurrentPeriodEnd > 0 {
			end := time.Unix(s.Subscription.CurrentPeriodEnd, 0).UTC()
			a.CurrentPeriodEnd = &end
		}
	}
	return a, nil
}
