package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"sklink/internal/database"
	"sklink/internal/models"

	"go.uber.org/zap"
)

type banRepository struct {
	*BaseRepository
}

// NewBanRepository creates the feed bans repository.
func NewBanRepository(db *database.Manager, logger *zap.Logger) BanRepository {
	return &banRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Ban records an active ban for the actor. An already-banned actor is left
// as-is rather than stacked with a second row.
func (r *banRepository) Ban(ctx context.Context, actor models.Actor, bannedBy int64, reason *string) error {
	banned, err := r.IsBanned(ctx, actor)
	if err != nil {
		return err
	}
	if banned {
		return nil
	}

	_, err = r.ExecContext(ctx, `
		INSERT INTO feed_bans (official_id, youth_id, banned_by, reason)
		VALUES ($1, $2, $3, $4)`,
		actor.OfficialID(), actor.YouthID(), bannedBy, reason)
	if err != nil {
		return fmt.Errorf("ban actor: %w", err)
	}
	return nil
}

func (r *banRepository) Lift(ctx context.Context, actor models.Actor) error {
	result, err := r.ExecContext(ctx, `
		UPDATE feed_bans SET lifted_at = now()
		WHERE lifted_at IS NULL
		  AND (($1::bigint IS NOT NULL AND official_id = $1) OR ($2::bigint IS NOT NULL AND youth_id = $2))`,
		actor.OfficialID(), actor.YouthID())
	if err != nil {
		return fmt.Errorf("lift ban: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *banRepository) IsBanned(ctx context.Context, actor models.Actor) (bool, error) {
	var banned bool
	err := r.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM feed_bans
			WHERE lifted_at IS NULL
			  AND (($1::bigint IS NOT NULL AND official_id = $1) OR ($2::bigint IS NOT NULL AND youth_id = $2))
		)`,
		actor.OfficialID(), actor.YouthID(),
	).Scan(&banned)
	if err != nil {
		return false, fmt.Errorf("check ban: %w", err)
	}
	return banned, nil
}

func (r *banRepository) ListActive(ctx context.Context) ([]*models.FeedBan, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, official_id, youth_id, banned_by, reason, created_at, lifted_at
		FROM feed_bans
		WHERE lifted_at IS NULL
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	defer rows.Close()

	var bans []*models.FeedBan
	for rows.Next() {
		var b models.FeedBan
		var officialID, youthID *int64
		if err := rows.Scan(&b.ID, &officialID, &youthID, &b.BannedBy, &b.Reason, &b.CreatedAt, &b.LiftedAt); err != nil {
			return nil, fmt.Errorf("scan ban: %w", err)
		}
		switch {
		case officialID != nil:
			b.Actor = models.Actor{Kind: models.ActorOfficial, ID: *officialID}
		case youthID != nil:
			b.Actor = models.Actor{Kind: models.ActorYouth, ID: *youthID}
		}
		bans = append(bans, &b)
	}
	return bans, rows.Err()
}
