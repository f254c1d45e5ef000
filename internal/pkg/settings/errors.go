package settings

import (
	"errors"
	"fmt"
)

// Kind classifies why a settings update was rejected.
type Kind int

const (
	PermissionDenied Kind = iota + 1
	InvalidLanguage
	InvalidField
	BetRangeInvalid
	InvalidMultiplier
	BetLevelInvalid
	BotNotInGuild
)

func (k Kind) String() string {
	switch k {
	case PermissionDenied:
		return "PermissionDenied"
	case InvalidLanguage:
		return "InvalidLanguage"
	case InvalidField:
		return "InvalidField"
	case BetRangeInvalid:
		return "BetRangeInvalid"
	case InvalidMultiplier:
		return "InvalidMultiplier"
	case BetLevelInvalid:
		return "BetLevelInvalid"
	case BotNotInGuild:
		return "BotNotInGuild"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ValidationError is a rejection that is shown to the user as is.
type ValidationError struct {
	Kind    Kind
	Field   string
	Tier    int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MessageSaved and MessageUnexpected are the user-facing outcomes that are
// not validation failures.
const (
	MessageSaved      = "✅ Settings saved successfully!"
	MessageUnexpected = "❌ An unexpected error occurred while saving."
)

var ErrPersistenceFailed = errors.New("settings persistence failed")

func permissionDenied() error {
	return &ValidationError{Kind: PermissionDenied, Message: "❌ You don't have permission to edit this server."}
}

func botNotInGuild() error {
	return &ValidationError{Kind: BotNotInGuild, Message: "❌ The bot is not in this server."}
}

func invalidLanguage() error {
	return &ValidationError{Kind: InvalidLanguage, Message: "❌ Invalid language selected."}
}

func invalidField(field string) error {
	return &ValidationError{Kind: InvalidField, Field: field, Message: fmt.Sprintf("❌ Field %q must be a positive integer.", field)}
}

func minAboveMax() error {
	return &ValidationError{Kind: BetRangeInvalid, Field: "minBet", Message: "❌ Min Bet cannot be greater than Max Bet."}
}

func minAboveTier() error {
	return &ValidationError{Kind: BetRangeInvalid, Field: "minBet", Message: "❌ Min Bet cannot be greater than any Max Bet level."}
}

func invalidMultiplier() error {
	return &ValidationError{Kind: InvalidMultiplier, Field: "initMultiplier", Message: "❌ Multiplier must be a non-negative number with up to 2 decimals."}
}

func tierNotInteger(field string, tier int) error {
	return &ValidationError{Kind: BetLevelInvalid, Field: field, Tier: tier, Message: fmt.Sprintf("❌ Field %q must be a positive integer.", field)}
}

func tierAboveMax(field string, tier int) error {
	return &ValidationError{Kind: BetLevelInvalid, Field: field, Tier: tier, Message: fmt.Sprintf("❌ Max Bet for Level %d cannot exceed Max Bet.", tier)}
}

func tierBelowPrevious(field string, tier, previous int) error {
	return &ValidationError{Kind: BetLevelInvalid, Field: field, Tier: tier, Message: fmt.Sprintf("❌ Max Bet for Level %d must be >= Level %d.", tier, previous)}
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
