// internal/likes/store.go
// Storage contract for the directed like relation

package likes

import "context"

// Store persists like edges (liker -> liked).
// Insert and Delete must be atomic: they are the only guard against
// two concurrent callers creating or removing the same edge.
type Store interface {
	Exists(ctx context.Context, likerID, likedID int64) (bool, error)

	// Insert creates the edge if absent and reports whether it did
	Insert(ctx context.Context, likerID, likedID int64) (bool, error)

	// Delete removes the edge if present and reports whether it did
	Delete(ctx context.Context, likerID, likedID int64) (bool, error)

	// ListByLiker returns the ids likerID has liked
	ListByLiker(ctx context.Context, likerID int64) ([]int64, error)

	// ListByLiked returns the ids that liked likedID
	ListByLiked(ctx context.Context, likedID int64) ([]int64, error)
}
