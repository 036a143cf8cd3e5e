// internal/directory/models.go

package directory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/imadgeboyega/kiekky-matching/internal/geo"
)

// DefaultAge is used wherever an age is needed but unknown
const DefaultAge = 25

// daysPerYear accounts for leap years when deriving age from a birth date
const daysPerYear = 365.25

// Profile is the read-only projection of a user the matching core consumes
type Profile struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name"`
	Bio         *string         `json:"bio,omitempty"`
	Images      []string        `json:"images"`
	DateOfBirth *time.Time      `json:"date_of_birth,omitempty"`
	Age         *int            `json:"-"` // precomputed age when no birth date is stored
	Location    *geo.Coordinate `json:"location,omitempty"`
	Interests   Interests       `json:"interests"`
	Lifestyle   Lifestyle       `json:"lifestyle,omitempty"`
	Tier        Tier            `json:"membership_tier"`
	Role        string          `json:"-"`
	LastActive  *time.Time      `json:"last_active,omitempty"`
	IsOnline    bool            `json:"is_online"`
	IsActive    bool            `json:"-"`
	IsBanned    bool            `json:"-"`
}

// AgeAt returns the age in whole years at now, or false when unknown
func (p *Profile) AgeAt(now time.Time) (int, bool) {
	if p == nil {
		return 0, false
	}
	if p.DateOfBirth != nil && !p.DateOfBirth.IsZero() {
		days := now.Sub(*p.DateOfBirth).Hours() / 24
		if days < 0 {
			return 0, false
		}
		return int(math.Floor(days / daysPerYear)), true
	}
	if p.Age != nil && *p.Age > 0 {
		return *p.Age, true
	}
	return 0, false
}

// AgeOrDefault returns the age at now, falling back to DefaultAge
func (p *Profile) AgeOrDefault(now time.Time) int {
	if age, ok := p.AgeAt(now); ok {
		return age
	}
	return DefaultAge
}

// InterestCategory groups interest tags, e.g. {"food", ["coffee", "ramen"]}
type InterestCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Interests is stored as a JSONB array of categories
type Interests []InterestCategory

// Flatten returns the distinct interest items across all categories
func (in Interests) Flatten() map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range in {
		for _, item := range c.Items {
			if item == "" {
				continue
			}
			set[item] = struct{}{}
		}
	}
	return set
}

// Scan implements the sql.Scanner interface for Interests
func (in *Interests) Scan(value interface{}) error {
	return scanJSON(value, in)
}

// Value implements the driver.Valuer interface for Interests
func (in Interests) Value() (driver.Value, error) {
	if in == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(in)
}

// Lifestyle holds small enumerated attributes such as smoking or drinking
type Lifestyle map[string]string

// Scan implements the sql.Scanner interface for Lifestyle
func (l *Lifestyle) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Value implements the driver.Valuer interface for Lifestyle
func (l Lifestyle) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func scanJSON(value interface{}, dst interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T as json", value)
	}
}
