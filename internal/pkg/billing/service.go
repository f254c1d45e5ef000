package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
)

var (
	ErrInvalidActivation = errors.New("activation requires guild and user ids")
	ErrPersistence       = errors.New("billing persistence failed")
)

// Notifier announces completed purchases.
type Notifier interface {
	NotifyPurchase(ctx context.Context, a Activation) error
}

// Service activates premium for guilds and keeps the webhook event log.
type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

// NewService creates a billing service from an injected repository. notifier
// may be nil.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, defaults gameconfig.GuildDefaults, notifier Notifier) *Service {
	return NewService(NewRepository(db, defaults), notifier)
}

// ActivatePremium flags the guild as premium and records the user's
// subscription entry for it. Repeating it with the same activation rewrites
// the same state. Notification failures are logged and not returned.
func (s *Service) ActivatePremium(ctx context.Context, a Activation) error {
	a.GuildID = strings.TrimSpace(a.GuildID)
	a.UserID = strings.TrimSpace(a.UserID)
	if a.GuildID == "" || a.UserID == "" {
		return ErrInvalidActivation
	}

	if err := s.repo.ActivateGuild(ctx, a.GuildID); err != nil {
		return fmt.Errorf("%w: activate guild %s: %v", ErrPersistence, a.GuildID, err)
	}

	entry := &models.SubscriptionEntry{
		GuildID:              a.GuildID,
		StripeSubscriptionID: a.StripeSubscriptionID,
		StripeCustomerID:     a.StripeCustomerID,
		CreatedAt:            s.now(),
		CurrentPeriodEnd:     a.CurrentPeriodEnd,
		CancelAtPeriodEnd:    false,
		Status:               models.SubscriptionStatusActive,
	}
	if entry.StripeSubscriptionID == "" {
		entry.StripeSubscriptionID = models.UnknownStripeSubscriptionID
	}
	if entry.StripeCustomerID == "" {
		entry.StripeCustomerID = models.UnknownStripeCustomerID
	}
	if err := s.repo.UpsertSubscriptionEntry(ctx, a.UserID, entry); err != nil {
		return fmt.Errorf("%w: subscription for user %s: %v", ErrPersistence, a.UserID, err)
	}
	log.Infof("[Billing] premium activated for guild %s by user %s", a.GuildID, a.UserID)

	if s.notifier != nil {
		if err := s.notifier.NotifyPurchase(ctx, a); err != nil {
			log.Warnf("[Billing] purchase notification for guild %s failed: %v", a.GuildID, err)
		}
	}
	return nil
}

// UserSubscription returns the user's subscription aggregate.
func (s *Service) UserSubscription(ctx context.Context, userID string) (*models.UserSubscription, error) {
	return s.repo.GetUserSubscription(ctx, userID)
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		GuildID:         strings.TrimSpace(in.GuildID),
		PayloadJSON:     in.PayloadJSON,
	}
	return s.repo.CreateWebhookEventIfNotExists(ctx, event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(ctx, webhookEventID, errMsg)
}
