// internal/common/database/migrations.go
// Schema for the matching service

package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// migrations are idempotent and run in order on every start when enabled.
// The users table is owned by the profile service; only the columns the
// matching core reads are ensured here.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id SERIAL PRIMARY KEY,
        username VARCHAR(100) UNIQUE NOT NULL,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    )`,

	`ALTER TABLE users
        ADD COLUMN IF NOT EXISTS display_name VARCHAR(100),
        ADD COLUMN IF NOT EXISTS bio TEXT,
        ADD COLUMN IF NOT EXISTS images TEXT[] DEFAULT '{}',
        ADD COLUMN IF NOT EXISTS date_of_birth DATE,
        ADD COLUMN IF NOT EXISTS age INTEGER,
        ADD COLUMN IF NOT EXISTS latitude DOUBLE PRECISION,
        ADD COLUMN IF NOT EXISTS longitude DOUBLE PRECISION,
        ADD COLUMN IF NOT EXISTS location_updated_at TIMESTAMP WITH TIME ZONE,
        ADD COLUMN IF NOT EXISTS interests JSONB DEFAULT '[]',
        ADD COLUMN IF NOT EXISTS lifestyle JSONB,
        ADD COLUMN IF NOT EXISTS membership_tier VARCHAR(20) DEFAULT 'member',
        ADD COLUMN IF NOT EXISTS role VARCHAR(20) DEFAULT 'user',
        ADD COLUMN IF NOT EXISTS last_active TIMESTAMP WITH TIME ZONE,
        ADD COLUMN IF NOT EXISTS is_online BOOLEAN DEFAULT FALSE,
        ADD COLUMN IF NOT EXISTS is_active BOOLEAN DEFAULT TRUE,
        ADD COLUMN IF NOT EXISTS is_banned BOOLEAN DEFAULT FALSE`,

	`CREATE TABLE IF NOT EXISTS user_likes (
        liker_id BIGINT NOT NULL,
        liked_id BIGINT NOT NULL,
        created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (liker_id, liked_id),
        CONSTRAINT user_likes_no_self CHECK (liker_id <> liked_id)
    )`,

	`CREATE INDEX IF NOT EXISTS idx_user_likes_liked ON user_likes(liked_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_membership_tier ON users(membership_tier)`,
}

// RunMigrations applies the schema
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	for i, m := range migrations {
		log.Debug().Int("step", i+1).Int("total", len(migrations)).Msg("running migration")
		if _, err := db.ExecContext(ctx, m); err != nil {
			return errors.Wrapf(err, "migration %d failed", i+1)
		}
	}
	log.Info().Int("count", len(migrations)).Msg("migrations applied")
	return nil
}
