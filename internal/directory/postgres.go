// internal/directory/postgres.go
// PostgreSQL-backed user directory

package directory

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/imadgeboyega/kiekky-matching/internal/geo"
)

const profileColumns = `
    id, username, COALESCE(display_name, '') AS display_name, bio,
    COALESCE(images, '{}') AS images, date_of_birth, age,
    latitude, longitude, interests, lifestyle, membership_tier,
    COALESCE(role, 'user') AS role, last_active, is_online,
    is_active, is_banned
`

// profileRow mirrors the users table; lat/lng stay nullable until converted
type profileRow struct {
	ID          int64           `db:"id"`
	Username    string          `db:"username"`
	DisplayName string          `db:"display_name"`
	Bio         sql.NullString  `db:"bio"`
	Images      pq.StringArray  `db:"images"`
	DateOfBirth sql.NullTime    `db:"date_of_birth"`
	Age         sql.NullInt64   `db:"age"`
	Latitude    sql.NullFloat64 `db:"latitude"`
	Longitude   sql.NullFloat64 `db:"longitude"`
	Interests   Interests       `db:"interests"`
	Lifestyle   Lifestyle       `db:"lifestyle"`
	Tier        Tier            `db:"membership_tier"`
	Role        string          `db:"role"`
	LastActive  sql.NullTime    `db:"last_active"`
	IsOnline    bool            `db:"is_online"`
	IsActive    bool            `db:"is_active"`
	IsBanned    bool            `db:"is_banned"`
}

func (r *profileRow) toProfile() *Profile {
	p := &Profile{
		ID:          r.ID,
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Images:      []string(r.Images),
		Interests:   r.Interests,
		Lifestyle:   r.Lifestyle,
		Tier:        r.Tier,
		Role:        r.Role,
		IsOnline:    r.IsOnline,
		IsActive:    r.IsActive,
		IsBanned:    r.IsBanned,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if r.Bio.Valid {
		bio := r.Bio.String
		p.Bio = &bio
	}
	if r.DateOfBirth.Valid {
		dob := r.DateOfBirth.Time
		p.DateOfBirth = &dob
	}
	if r.Age.Valid {
		age := int(r.Age.Int64)
		p.Age = &age
	}
	if r.LastActive.Valid {
		t := r.LastActive.Time
		p.LastActive = &t
	}
	p.Location = geo.NewCoordinate(nullableFloat(r.Latitude), nullableFloat(r.Longitude))
	return p
}

func nullableFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

type PostgresDirectory struct {
	db *sqlx.DB
}

func NewPostgresDirectory(db *sqlx.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`

	err := d.db.GetContext(ctx, &row, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "directory: get profile %d", userID)
	}
	return row.toProfile(), nil
}

func (d *PostgresDirectory) ListCandidatePool(ctx context.Context, excludeID int64, excludeRoles []string) ([]*Profile, error) {
	var rows []profileRow
	query := `
        SELECT ` + profileColumns + `
        FROM users
        WHERE id <> $1
          AND is_banned = FALSE
          AND NOT (COALESCE(role, 'user') = ANY($2))
        ORDER BY id
    `

	if excludeRoles == nil {
		excludeRoles = []string{}
	}
	if err := d.db.SelectContext(ctx, &rows, query, excludeID, pq.Array(excludeRoles)); err != nil {
		return nil, errors.Wrap(err, "directory: list candidate pool")
	}

	pool := make([]*Profile, 0, len(rows))
	for i := range rows {
		pool = append(pool, rows[i].toProfile())
	}
	return pool, nil
}

func (d *PostgresDirectory) GetProfiles(ctx context.Context, userIDs []int64) (map[int64]*Profile, error) {
	out := make(map[int64]*Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []profileRow
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = ANY($1)`
	if err := d.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return nil, errors.Wrap(err, "directory: get profiles")
	}

	for i := range rows {
		out[rows[i].ID] = rows[i].toProfile()
	}
	return out, nil
}

func (d *PostgresDirectory) UpdateLocation(ctx context.Context, userID int64, loc geo.Coordinate) error {
	query := `
        UPDATE users
        SET latitude = $2, longitude = $3, location_updated_at = $4
        WHERE id = $1
    `

	res, err := d.db.ExecContext(ctx, query, userID, loc.Lat, loc.Lng, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, "directory: update location %d", userID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "directory: update location rows")
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
