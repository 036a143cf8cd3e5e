// internal/directory/directory.go

package directory

import (
	"context"
	"errors"

	"github.com/imadgeboyega/kiekky-matching/internal/geo"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

// Directory is the user directory collaborator the matching core reads from
type Directory interface {
	// GetProfile returns ErrProfileNotFound for unknown ids
	GetProfile(ctx context.Context, userID int64) (*Profile, error)

	// ListCandidatePool returns every non-banned user except excludeID and
	// users holding one of excludeRoles
	ListCandidatePool(ctx context.Context, excludeID int64, excludeRoles []string) ([]*Profile, error)

	// GetProfiles resolves a batch of ids; unknown ids are absent from the map
	GetProfiles(ctx context.Context, userIDs []int64) (map[int64]*Profile, error)

	UpdateLocation(ctx context.Context, userID int64, loc geo.Coordinate) error
}

func excluded(role string, excludeRoles []string) bool {
	for _, r := range excludeRoles {
		if r == role {
			return true
		}
	}
	return false
}
