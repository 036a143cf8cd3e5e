// internal/likes/postgres.go
// PostgreSQL like store

package likes

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PostgresStore relies on the (liker_id, liked_id) primary key of user_likes
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Exists(ctx context.Context, likerID, likedID int64) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS(
            SELECT 1 FROM user_likes
            WHERE liker_id = $1 AND liked_id = $2
        )
    `
	if err := s.db.GetContext(ctx, &exists, query, likerID, likedID); err != nil {
		return false, errors.Wrap(err, "likes: exists")
	}
	return exists, nil
}

func (s *PostgresStore) Insert(ctx context.Context, likerID, likedID int64) (bool, error) {
	query := `
        INSERT INTO user_likes (liker_id, liked_id)
        VALUES ($1, $2)
        ON CONFLICT (liker_id, liked_id) DO NOTHING
    `
	res, err := s.db.ExecContext(ctx, query, likerID, likedID)
	if err != nil {
		return false, errors.Wrap(err, "likes: insert")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "likes: insert rows")
	}
	return n == 1, nil
}

func (s *PostgresStore) Delete(ctx context.Context, likerID, likedID int64) (bool, error) {
	query := `DELETE FROM user_likes WHERE liker_id = $1 AND liked_id = $2`

	res, err := s.db.ExecContext(ctx, query, likerID, likedID)
	if err != nil {
		return false, errors.Wrap(err, "likes: delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "likes: delete rows")
	}
	return n == 1, nil
}

func (s *PostgresStore) ListByLiker(ctx context.Context, likerID int64) ([]int64, error) {
	ids := []int64{}
	query := `SELECT liked_id FROM user_likes WHERE liker_id = $1 ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &ids, query, likerID); err != nil {
		return nil, errors.Wrap(err, "likes: list by liker")
	}
	return ids, nil
}

func (s *PostgresStore) ListByLiked(ctx context.Context, likedID int64) ([]int64, error) {
	ids := []int64{}
	query := `SELECT liker_id FROM user_likes WHERE liked_id = $1`
	if err := s.db.SelectContext(ctx, &ids, query, likedID); err != nil {
		return nil, errors.Wrap(err, "likes: list by liked")
	}
	return ids, nil
}
