package matching

import (
	"time"

	"github.com/imadgeboyega/kiekky-matching/internal/directory"
)

const (
	ActionLike   = "like"
	ActionUnlike = "unlike"
)

// LikeRequest is the body of POST /like
type LikeRequest struct {
	MatchID int64  `json:"matchId" validate:"required,gt=0"`
	Action  string `json:"action" validate:"required,oneof=like unlike"`
}

// LikeResponse is returned by POST /like; IsMutualLike is only set for likes
type LikeResponse struct {
	IsMutualLike *bool `json:"isMutualLike,omitempty"`
	Status       int   `json:"status"`
	LikeCount    int   `json:"likeCount"`
}

// UpdateLocationRequest is the body of PUT /update-location
type UpdateLocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

// MatchQuery carries the parsed GET /matches parameters
type MatchQuery struct {
	Page    int
	Limit   int
	Refresh bool
	Filters Filters
}

type LikedUsersResponse struct {
	LikedUsers []int64 `json:"likedUsers"`
}

// MutualProfile is the projection returned by GET /mutual-likes
type MutualProfile struct {
	ID          int64          `json:"id"`
	DisplayName string         `json:"displayName"`
	Age         *int           `json:"age"`
	Images      []string       `json:"images"`
	Tier        directory.Tier `json:"membershipTier"`
	Bio         *string        `json:"bio,omitempty"`
	LastActive  *time.Time     `json:"lastActive,omitempty"`
}

type MutualPage struct {
	MutualLikes []*MutualProfile `json:"mutualLikes"`
	Pagination  Pagination       `json:"pagination"`
}
