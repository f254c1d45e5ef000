package billing

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/models"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	ActivateGuild(ctx context.Context, guildID string) error
	UpsertSubscriptionEntry(ctx context.Context, userID string, entry *models.SubscriptionEntry) error
	GetUserSubscription(ctx context.Context, userID string) (*models.UserSubscription, error)
	CreateWebhookEventIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error
}

type gormRepository struct {
	db       *gorm.DB
	defaults gameconfig.GuildDefaults
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB, defaults gameconfig.GuildDefaults) Repository {
	return &gormRepository{db: db, defaults: defaults}
}

// ActivateGuild sets the premium flag, inserting the guild with defaults
// when it does not exist yet.
func (r *gormRepository) ActivateGuild(ctx context.Context, guildID string) error {
	g := models.NewGuild(guildID, r.defaults)
	g.VipServer = true
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vip_server", "updated_at"}),
	}).Create(g).Error
}

// UpsertSubscriptionEntry stores entry under the user's aggregate, replacing
// the entry of the same guild. The first activation's created_at is kept.
func (r *gormRepository) UpsertSubscriptionEntry(ctx context.Context, userID string, entry *models.SubscriptionEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agg := &models.UserSubscription{UserID: userID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(agg).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).First(agg).Error; err != nil {
			return err
		}

		entry.UserSubscriptionID = agg.ID
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_subscription_id"},
				{Name: "guild_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"stripe_subscription_id",
				"stripe_customer_id",
				"current_period_end",
				"cancel_at_period_end",
				"status",
				"updated_at",
			}),
		}).Create(entry).Error
	})
}

func (r *gormRepository) GetUserSubscription(ctx context.Context, userID string) (*models.UserSubscription, error) {
	var agg models.UserSubscription
	err := r.db.WithContext(ctx).
		Preload("Subscriptions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		First(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	db := r.db.WithContext(ctx)
	tx := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.BillingWebhookEvent
	if err := db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
		"attempts":         gorm.Expr("attempts + 1"),
	}
	return r.db.WithContext(ctx).Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
