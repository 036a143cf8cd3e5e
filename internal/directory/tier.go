// internal/directory/tier.go

package directory

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Tier is a membership level. The numeric value is its priority:
// the selector walks tiers downward and upward by value.
type Tier int

const (
	TierMember Tier = iota
	TierSilver
	TierGold
	TierVIP
	TierVIP1
	TierVIP2
	TierDiamond
	TierPlatinum
)

const (
	LowestTier  = TierMember
	HighestTier = TierPlatinum
)

var tierNames = [...]string{
	TierMember:   "member",
	TierSilver:   "silver",
	TierGold:     "gold",
	TierVIP:      "vip",
	TierVIP1:     "vip1",
	TierVIP2:     "vip2",
	TierDiamond:  "diamond",
	TierPlatinum: "platinum",
}

// Tiers lists every tier from lowest to highest
func Tiers() []Tier {
	out := make([]Tier, 0, len(tierNames))
	for t := LowestTier; t <= HighestTier; t++ {
		out = append(out, t)
	}
	return out
}

// ParseTier maps a stored tier name to a Tier.
// The second result is false for unknown names, which map to the lowest tier.
func ParseTier(s string) (Tier, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range tierNames {
		if n == name {
			return Tier(i), true
		}
	}
	return LowestTier, false
}

// Valid reports whether t is a defined tier
func (t Tier) Valid() bool {
	return t >= LowestTier && t <= HighestTier
}

// Clamp forces t into the defined range
func (t Tier) Clamp() Tier {
	if t < LowestTier {
		return LowestTier
	}
	if t > HighestTier {
		return HighestTier
	}
	return t
}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// MarshalText implements encoding.TextMarshaler
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, ok := ParseTier(string(b))
	if !ok {
		return fmt.Errorf("unknown tier %q", string(b))
	}
	*t = parsed
	return nil
}

// Scan implements the sql.Scanner interface.
// NULL and unknown names read as the lowest tier so one bad row cannot fail a pool query.
func (t *Tier) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = LowestTier
	case []byte:
		*t, _ = ParseTier(string(v))
	case string:
		*t, _ = ParseTier(v)
	default:
		return fmt.Errorf("cannot scan %T into Tier", value)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (t Tier) Value() (driver.Value, error) {
	return t.Clamp().String(), nil
}
