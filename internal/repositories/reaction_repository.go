package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"sklink/internal/database"
	"sklink/internal/models"

	"go.uber.org/zap"
)

type reactionRepository struct {
	*BaseRepository
}

// NewReactionRepository creates the reactions repository.
func NewReactionRepository(db *database.Manager, logger *zap.Logger) ReactionRepository {
	return &reactionRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Upsert tries an UPDATE of the actor's existing reaction row first and only
// inserts when no row was touched. The whole thing runs in one transaction so
// a concurrent first reaction still ends up with a single row (the partial
// unique indexes reject the second insert).
func (r *reactionRepository) Upsert(ctx context.Context, postID int64, actor models.Actor, reactionType string) (*models.Reaction, bool, error) {
	reaction := &models.Reaction{
		PostID: postID,
		Author: actor,
		Type:   reactionType,
	}
	created := false

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			UPDATE reactions SET type = $4, updated_at = now()
			WHERE post_id = $1
			  AND (($2::bigint IS NOT NULL AND official_id = $2) OR ($3::bigint IS NOT NULL AND youth_id = $3))
			RETURNING id, created_at, updated_at`,
			postID, actor.OfficialID(), actor.YouthID(), reactionType,
		).Scan(&reaction.ID, &reaction.CreatedAt, &reaction.UpdatedAt)
		if err == nil {
			return nil
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("update reaction: %w", err)
		}

		created = true
		err = tx.QueryRowContext(ctx, `
			INSERT INTO reactions (post_id, official_id, youth_id, type)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			postID, actor.OfficialID(), actor.YouthID(), reactionType,
		).Scan(&reaction.ID, &reaction.CreatedAt, &reaction.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert reaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return reaction, created, nil
}

func (r *reactionRepository) Get(ctx context.Context, postID int64, actor models.Actor) (*models.Reaction, error) {
	reaction := &models.Reaction{PostID: postID, Author: actor}
	err := r.QueryRowContext(ctx, `
		SELECT id, type, created_at, updated_at
		FROM reactions
		WHERE post_id = $1
		  AND (($2::bigint IS NOT NULL AND official_id = $2) OR ($3::bigint IS NOT NULL AND youth_id = $3))`,
		postID, actor.OfficialID(), actor.YouthID(),
	).Scan(&reaction.ID, &reaction.Type, &reaction.CreatedAt, &reaction.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return reaction, nil
}

func (r *reactionRepository) Delete(ctx context.Context, postID int64, actor models.Actor) error {
	result, err := r.ExecContext(ctx, `
		DELETE FROM reactions
		WHERE post_id = $1
		  AND (($2::bigint IS NOT NULL AND official_id = $2) OR ($3::bigint IS NOT NULL AND youth_id = $3))`,
		postID, actor.OfficialID(), actor.YouthID())
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
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
