// internal/likes/ledger.go
// Like/unlike bookkeeping and mutual-like detection

package likes

import (
	"context"
	"errors"
	"sort"
)

var (
	ErrSelfLike     = errors.New("cannot like yourself")
	ErrAlreadyLiked = errors.New("you already liked this user")
	ErrNotLiked     = errors.New("you have not liked this user yet")
	ErrInvalidUser  = errors.New("invalid user id")
)

// LikeResult is returned by Like
type LikeResult struct {
	LikeCount int  `json:"likeCount"`
	IsMutual  bool `json:"isMutualLike"`
}

// UnlikeResult is returned by Unlike
type UnlikeResult struct {
	LikeCount int `json:"likeCount"`
}

type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Like records likerID -> likedID. The mutual flag is read after the insert,
// so of two concurrent reciprocal likes at least one reports the match.
func (l *Ledger) Like(ctx context.Context, likerID, likedID int64) (*LikeResult, error) {
	if likerID <= 0 || likedID <= 0 {
		return nil, ErrInvalidUser
	}
	if likerID == likedID {
		return nil, ErrSelfLike
	}

	created, err := l.store.Insert(ctx, likerID, likedID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyLiked
	}

	mutual, err := l.store.Exists(ctx, likedID, likerID)
	if err != nil {
		return nil, err
	}

	count, err := l.likerCount(ctx, likedID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{LikeCount: count, IsMutual: mutual}, nil
}

// Unlike removes likerID -> likedID
func (l *Ledger) Unlike(ctx context.Context, likerID, likedID int64) (*UnlikeResult, error) {
	if likerID <= 0 || likedID <= 0 {
		return nil, ErrInvalidUser
	}

	removed, err := l.store.Delete(ctx, likerID, likedID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotLiked
	}

	count, err := l.likerCount(ctx, likedID)
	if err != nil {
		return nil, err
	}
	return &UnlikeResult{LikeCount: count}, nil
}

// ListLiked returns everyone viewerID has liked
func (l *Ledger) ListLiked(ctx context.Context, viewerID int64) ([]int64, error) {
	ids, err := l.store.ListByLiker(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// ListMutual returns users who like viewerID and are liked back, ascending by id
func (l *Ledger) ListMutual(ctx context.Context, viewerID int64) ([]int64, error) {
	liked, err := l.store.ListByLiker(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(liked) == 0 {
		return []int64{}, nil
	}

	likers, err := l.store.ListByLiked(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	likedSet := make(map[int64]struct{}, len(liked))
	for _, id := range liked {
		likedSet[id] = struct{}{}
	}

	mutual := make([]int64, 0, len(likers))
	for _, id := range likers {
		if _, ok := likedSet[id]; ok {
			mutual = append(mutual, id)
		}
	}
	sort.Slice(mutual, func(i, j int) bool { return mutual[i] < mutual[j] })
	return mutual, nil
}

// IsMutual reports whether a and b like each other
func (l *Ledger) IsMutual(ctx context.Context, a, b int64) (bool, error) {
	ab, err := l.store.Exists(ctx, a, b)
	if err != nil || !ab {
		return false, err
	}
	return l.store.Exists(ctx, b, a)
}

func (l *Ledger) likerCount(ctx context.Context, likedID int64) (int, error) {
	likers, err := l.store.ListByLiked(ctx, likedID)
	if err != nil {
		return 0, err
	}
	return len(likers), nil
}
