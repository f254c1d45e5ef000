package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const (
	PremiumProductName        = "CasinoBot Premium"
	PremiumProductDescription = "Unlock premium casino features for your server."
	PremiumUnitAmount         = 399
	PremiumCurrency           = "eur"
)

var ErrCheckoutNotConfigured = errors.New("stripe is not configured")

// Checkout creates and reads Stripe checkout sessions for premium purchases.
type Checkout struct {
	api     *client.API
	baseURL string
}

// NewCheckout returns a Checkout that builds redirect URLs on baseURL. An
// empty secret key disables it.
func NewCheckout(secretKey, baseURL string) *Checkout {
	c := &Checkout{baseURL: strings.TrimRight(baseURL, "/")}
	if secretKey != "" {
		c.api = client.New(secretKey, nil)
	}
	return c
}

// SessionParams builds the subscription checkout for one guild.
func (c *Checkout) SessionParams(md CheckoutMetadata) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(PremiumCurrency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(PremiumProductName),
						Description: stripe.String(PremiumProductDescription),
					},
					UnitAmount: stripe.Int64(PremiumUnitAmount),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/servers/%s/premium-success?session_id={CHECKOUT_SESSION_ID}", c.baseURL, md.GuildID)),
		CancelURL:  stripe.String(c.baseURL + "/dashboard"),
	}
	params.AddMetadata("guildId", md.GuildID)
	params.AddMetadata("guildName", md.GuildName)
	params.AddMetadata("userId", md.UserID)
	params.AddMetadata("userName", md.UserName)
	params.AddMetadata("userAvatar", md.UserAvatar)
	return params
}

// CreateSession starts a checkout and returns the URL to redirect to.
func (c *Checkout) CreateSession(ctx context.Context, md CheckoutMetadata) (string, error) {
	if c.api == nil {
		return "", ErrCheckoutNotConfigured
	}
	params := c.SessionParams(md)
	params.Context = ctx
	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return s.URL, nil
}

// GetSession reads a checkout session back by id.
func (c *Checkout) GetSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	if c.api == nil {
		return nil, ErrCheckoutNotConfigured
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout session: %w", err)
	}
	return s, nil
}

// PaidFor reports whether the session is a paid checkout for guildID.
func PaidFor(s *stripe.CheckoutSession, guildID string) bool {
	if s == nil {
		return false
	}
	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid && s.Metadata["guildId"] == guildID
}
