package players

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/repository"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/guildaccess"
)

var (
	ErrPermissionDenied = errors.New("no permission")
	ErrNotFound         = errors.New("player not found")
	ErrPersistence      = errors.New("player persistence failed")
)

// FieldError rejects a value that cannot be stored in its column.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value for %q: %s", e.Key, e.Reason)
}

const (
	cooldownPrefix      = "last"
	battlePassNamespace = "battlePass"
)

type kind int

const (
	kindInt kind = iota
	kindDecimal
)

type column struct {
	name string
	kind kind
}

// editable maps payload keys, nested ones in parent.child form, to columns.
var editable = map[string]column{
	"balance":      {"balance", kindInt},
	"level":        {"level", kindInt},
	"experience":   {"experience", kindInt},
	"maxBet":       {"max_bet", kindInt},
	"multiplier":   {"multiplier", kindDecimal},
	"swag.balloon": {"swag_balloon", kindInt},
	"swag.mobile":  {"swag_mobile", kindInt},
	"swag.bike":    {"swag_bike", kindInt},
	"swag.car":     {"swag_car", kindInt},
	"swag.castle":  {"swag_castle", kindInt},
}

// Updater applies admin edits to player records.
type Updater struct {
	players repository.PlayerRepository
}

func NewUpdater(players repository.PlayerRepository) *Updater {
	return &Updater{players: players}
}

// Update applies payload to the player as a single partial update. Cooldown
// markers, battle pass progression, identity and unknown keys are dropped.
// Numbers have no upper bound.
func (u *Updater) Update(ctx context.Context, guildID, userID string, claim guildaccess.Claim, payload map[string]any) error {
	if !claim.CanManage() {
		return ErrPermissionDenied
	}

	if _, err := u.players.Get(ctx, guildID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		log.Errorf("[Players] load %s/%s: %v", guildID, userID, err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	fields, err := Filter(payload)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	if err := u.players.UpdateFields(ctx, guildID, userID, fields); err != nil {
		log.Errorf("[Players] update %s/%s: %v", guildID, userID, err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	log.Infof("[Players] %s/%s updated: %d field(s)", guildID, userID, len(fields))
	return nil
}

// Filter turns a raw payload into column updates according to the key policy.
func Filter(payload map[string]any) (map[string]interface{}, error) {
	flat := make(map[string]any, len(payload))
	for key, value := range payload {
		if nested, ok := value.(map[string]any); ok && !strings.Contains(key, ".") {
			for child, v := range nested {
				flat[key+"."+child] = v
			}
			continue
		}
		flat[key] = value
	}

	keys := make([]string, 0, len(flat))
	for key := range flat {
		if dropped(key) {
			continue
		}
		if _, ok := editable[key]; !ok {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		col := editable[key]
		v, err := coerce(flat[key], col.kind)
		if err != nil {
			return nil, &FieldError{Key: key, Reason: err.Error()}
		}
		fields[col.name] = v
	}
	return fields, nil
}

func dropped(key string) bool {
	root, _, _ := strings.Cut(key, ".")
	return strings.HasPrefix(root, cooldownPrefix) || root == battlePassNamespace
}

// maxIntFloat is 2^63, the first float64 that no longer fits an int64.
const maxIntFloat = float64(1 << 63)

var (
	errNotANumber = errors.New("not a number")
	errNegative   = errors.New("must not be negative")
	errOutOfRange = errors.New("out of range")
)

func coerce(value any, k kind) (interface{}, error) {
	if k == kindInt {
		switch v := value.(type) {
		case int:
			return checkInt(int64(v))
		case int64:
			return checkInt(v)
		case json.Number:
			if n, ok, err := parseExactInt(string(v)); ok || err != nil {
				return n, err
			}
		case string:
			if n, ok, err := parseExactInt(v); ok || err != nil {
				return n, err
			}
		}
	}

	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return nil, errNotANumber
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errNotANumber
		}
		f = n
	default:
		return nil, errNotANumber
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errNotANumber
	}
	if f < 0 {
		return nil, errNegative
	}
	if k == kindDecimal {
		return math.Round(f*100) / 100, nil
	}
	if f != math.Trunc(f) {
		return nil, errors.New("must be an integer")
	}
	if f >= maxIntFloat {
		return nil, errOutOfRange
	}
	return int64(f), nil
}

// parseExactInt parses decimal integer text without going through float64.
// ok is false when the text is not a plain integer, e.g. "1e3" or "2.0".
func parseExactInt(raw string) (interface{}, bool, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err == nil {
		v, err := checkInt(n)
		return v, true, err
	}
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(strings.TrimSpace(raw), "-") {
			return nil, true, errNegative
		}
		return nil, true, errOutOfRange
	}
	return nil, false, nil
}

func checkInt(n int64) (interface{}, error) {
	if n < 0 {
		return nil, errNegative
	}
	return n, nil
}
