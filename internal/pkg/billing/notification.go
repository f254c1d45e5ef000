package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
)

const embedColor = 0x2b2d31

// EmbedSender posts an embed to the bot's log channel.
type EmbedSender interface {
	SendEmbed(ctx context.Context, embed discord.Embed) error
}

// DiscordNotifier announces purchases in Discord.
type DiscordNotifier struct {
	sender EmbedSender
}

func NewDiscordNotifier(sender EmbedSender) *DiscordNotifier {
	return &DiscordNotifier{sender: sender}
}

func (n *DiscordNotifier) NotifyPurchase(ctx context.Context, a Activation) error {
	return n.sender.SendEmbed(ctx, PurchaseEmbed(a, time.Now()))
}

// PurchaseEmbed renders the purchase summary posted to the log channel.
func PurchaseEmbed(a Activation, now time.Time) discord.Embed {
	b := discord.NewEmbedBuilder().
		SetTitle("🛍️ PURCHASE SUCCESS").
		SetColor(embedColor).
		AddField("Server Name:", fmt.Sprintf("%s (%s)", a.GuildName, a.GuildID), false).
		AddField("User:", fmt.Sprintf("%s (%s)", a.UserName, a.UserID), false).
		AddField("Purchase:", "Premium", false).
		AddField("Quantity:", "1", true).
		AddField("Date:", a.PurchasedAt.UTC().Format(time.RFC1123), true).
		AddField("Total Price:", fmt.Sprintf("%.2f€", float64(a.AmountTotal)/100), true).
		AddField("Currency:", a.Currency, true).
		AddField("Purchase ID:", a.SessionID, false).
		SetFooter("CasinoBot", "").
		SetTimestamp(now)
	if a.UserAvatar != "" {
		b.SetThumbnail(a.UserAvatar)
	}
	return b.Build()
}
