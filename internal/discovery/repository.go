// internal/discovery/repository.go

package discovery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository is the Postgres-backed read side of profiles, swipes and blocks
type Repository interface {
	ProfileStore
	RelationshipStore
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

type profileRow struct {
	UserID            string         `db:"user_id"`
	DisplayName       string         `db:"display_name"`
	Bio               *string        `db:"bio"`
	University        *string        `db:"university"`
	Interests         pq.StringArray `db:"interests"`
	LastActiveAt      *time.Time     `db:"last_active_at"`
	IsVisible         bool           `db:"is_visible"`
	IsProfileComplete bool           `db:"is_profile_complete"`
}

func (r profileRow) toProfile() *UserProfile {
	var interests []string
	if r.Interests != nil {
		interests = []string(r.Interests)
	}
	return &UserProfile{
		UserID:            r.UserID,
		DisplayName:       r.DisplayName,
		Bio:               r.Bio,
		University:        r.University,
		Interests:         interests,
		LastActiveAt:      r.LastActiveAt,
		IsVisible:         r.IsVisible,
		IsProfileComplete: r.IsProfileComplete,
	}
}

const profileColumns = `user_id, display_name, bio, university, interests,
        last_active_at, is_visible, is_profile_complete`

func (r *postgresRepository) GetByUserID(ctx context.Context, userID string) (*UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	var row profileRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return row.toProfile(), nil
}

func (r *postgresRepository) FindEligible(ctx context.Context, excluding ExclusionSet, limit int) ([]*UserProfile, error) {
	if limit <= 0 {
		return []*UserProfile{}, nil
	}

	query := `
        SELECT ` + profileColumns + `
        FROM profiles
        WHERE is_visible = TRUE
          AND is_profile_complete = TRUE
          AND user_id <> ALL($1::text[])
        ORDER BY last_active_at DESC NULLS LAST, user_id ASC
        LIMIT $2`

	ids := excluding.IDs()
	sort.Strings(ids)

	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids), limit); err != nil {
		return nil, fmt.Errorf("failed to find eligible profiles: %w", err)
	}

	profiles := make([]*UserProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toProfile())
	}
	return profiles, nil
}

func (r *postgresRepository) GetSwipedIDs(ctx context.Context, swiperID string) ([]string, error) {
	query := `SELECT DISTINCT swiped_id FROM swipes WHERE swiper_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, swiperID); err != nil {
		return nil, fmt.Errorf("failed to get swiped ids: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) GetBlockedByMe(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT blocked_id FROM blocks WHERE blocker_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get blocked users: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) GetBlockersOfMe(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT blocker_id FROM blocks WHERE blocked_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get blockers: %w", err)
	}
	return ids, nil
}
