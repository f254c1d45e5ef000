package billing

import "time"

// Activation is a confirmed premium purchase for one guild.
type Activation struct {
	GuildID    string
	GuildName  string
	UserID     string
	UserName   string
	UserAvatar string

	StripeSubscriptionID string
	StripeCustomerID     string
	CurrentPeriodEnd     *time.Time

	SessionID   string
	AmountTotal int64
	Currency    string
	PurchasedAt time.Time
}

// CheckoutMetadata is the metadata attached to every premium checkout
// session and read back from the completion event.
type CheckoutMetadata struct {
	GuildID    string `validate:"required,numeric"`
	GuildName  string
	UserID     string `validate:"required,numeric"`
	UserName   string
	UserAvatar string `validate:"omitempty,url"`
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	GuildID         string
	PayloadJSON     string
}
