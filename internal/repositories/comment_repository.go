package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"sklink/internal/database"
	"sklink/internal/models"

	"go.uber.org/zap"
)

type commentRepository struct {
	*BaseRepository
}

// NewCommentRepository creates the comments repository.
func NewCommentRepository(db *database.Manager, logger *zap.Logger) CommentRepository {
	return &commentRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, parent_comment_id, official_id, youth_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		comment.PostID,
		comment.ParentCommentID,
		comment.Author.OfficialID(),
		comment.Author.YouthID(),
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

const commentSelect = `
	SELECT c.id, c.post_id, c.parent_comment_id, c.official_id, c.youth_id,
	       c.content, c.hidden, c.hidden_reason, c.created_at, c.updated_at, c.deleted_at,
	       CASE
	         WHEN c.official_id IS NOT NULL THEN o.username
	         ELSE TRIM(CONCAT(n.first_name, ' ', n.last_name))
	       END
	FROM comments c
	LEFT JOIN officials o ON o.id = c.official_id
	LEFT JOIN youth_names n ON n.youth_id = c.youth_id`

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := commentSelect + ` WHERE c.id = $1 AND c.deleted_at IS NULL`
	return scanComment(r.QueryRowContext(ctx, query, id))
}

// ListByPost returns the post's non-deleted comments flat, in creation order.
// Creation order guarantees a parent row always precedes its children, which
// is what the in-memory forest assembly relies on.
func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := commentSelect + `
	WHERE c.post_id = $1 AND c.deleted_at IS NULL
	ORDER BY c.created_at, c.id`

	rows, err := r.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.QueryRowContext(ctx, `
		UPDATE comments SET content = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`,
		comment.ID, comment.Content,
	).Scan(&comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `
		UPDATE comments SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
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

func (r *commentRepository) SetHidden(ctx context.Context, id int64, hidden bool, reason *string) error {
	result, err := r.ExecContext(ctx, `
		UPDATE comments SET hidden = $2, hidden_reason = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, hidden, reason)
	if err != nil {
		return fmt.Errorf("set comment hidden: %w", err)
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

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	var officialID, youthID *int64
	var authorName *string
	err := row.Scan(
		&c.ID, &c.PostID, &c.ParentCommentID, &officialID, &youthID,
		&c.Content, &c.Hidden, &c.HiddenReason, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
		&authorName,
	)
	if err != nil {
		return nil, err
	}
	switch {
	case officialID != nil:
		c.Author = models.Actor{Kind: models.ActorOfficial, ID: *officialID}
	case youthID != nil:
		c.Author = models.Actor{Kind: models.ActorYouth, ID: *youthID}
	}
	if authorName != nil {
		c.AuthorName = *authorName
	}
	return &c, nil
}
