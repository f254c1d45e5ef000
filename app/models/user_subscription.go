package models

import "time"

const (
	SubscriptionStatusActive     = "active"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusUnpaid     = "unpaid"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusIncomplete = "incomplete"
)

const (
	UnknownStripeSubscriptionID = "unknown_subscription_id"
	UnknownStripeCustomerID     = "unknown_customer_id"
)

// UserSubscription groups all premium subscriptions bought by one Discord user.
type UserSubscription struct {
	ID            uint                `gorm:"primaryKey" json:"-"`
	UserID        string              `gorm:"type:varchar(32);not null;uniqueIndex" json:"userId"`
	Subscriptions []SubscriptionEntry `gorm:"foreignKey:UserSubscriptionID;constraint:OnDelete:CASCADE" json:"subscriptions"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"-"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"-"`
}

// SubscriptionEntry is the premium subscription of one guild. At most one
// entry exists per (user, guild).
type SubscriptionEntry struct {
	ID                   uint       `gorm:"primaryKey" json:"-"`
	UserSubscriptionID   uint       `gorm:"not null;uniqueIndex:ux_subscription_entries_owner_guild,priority:1" json:"-"`
	GuildID              string     `gorm:"type:varchar(32);not null;uniqueIndex:ux_subscription_entries_owner_guild,priority:2;index" json:"guildId"`
	StripeSubscriptionID string     `gorm:"type:varchar(191);not null" json:"stripeSubscriptionId"`
	StripeCustomerID     string     `gorm:"type:varchar(191);not null" json:"stripeCustomerId"`
	CreatedAt            time.Time  `json:"createdAt"`
	CurrentPeriodEnd     *time.Time `gorm:"type:timestamp;default:null" json:"currentPeriodEnd"`
	CancelAtPeriodEnd    bool       `gorm:"not null" json:"cancelAtPeriodEnd"`
	Status               string     `gorm:"type:varchar(32);not null;index" json:"status"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// EntryFor returns the entry of a guild, nil if the user has none.
func (us *UserSubscription) EntryFor(guildID string) *SubscriptionEntry {
	for i := range us.Subscriptions {
		if us.Subscriptions[i].GuildID == guildID {
			return &us.Subscriptions[i]
		}
	}
	return nil
}
