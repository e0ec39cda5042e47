package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"sklink/internal/database"
	"sklink/internal/models"

	"go.uber.org/zap"
)

type postRepository struct {
	*BaseRepository
}

// NewPostRepository creates the posts repository.
func NewPostRepository(db *database.Manager, logger *zap.Logger) PostRepository {
	return &postRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO posts (official_id, title, description, media_type, media_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		post.OfficialID, post.Title, post.Description, post.MediaType, post.MediaURL,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// postSelect aggregates author name, comment count and reaction counts in a
// single query. Reaction counts come back as a JSON object keyed by type;
// the viewer's own reaction is resolved against the paired author columns.
// $1 and $2 are always the viewer's official/youth id (either may be NULL).
const postSelect = `
	SELECT p.id, p.official_id, p.title, p.description, p.media_type, p.media_url,
	       p.created_at, p.updated_at, p.deleted_at,
	       o.username,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND c.deleted_at IS NULL),
	       COALESCE((
	           SELECT json_object_agg(t.type, t.n)
	           FROM (SELECT type, COUNT(*) AS n FROM reactions WHERE post_id = p.id GROUP BY type) t
	       ), '{}'),
	       (SELECT type FROM reactions
	        WHERE post_id = p.id
	          AND (($1::bigint IS NOT NULL AND official_id = $1) OR ($2::bigint IS NOT NULL AND youth_id = $2)))
	FROM posts p
	JOIN officials o ON o.id = p.official_id`

func (r *postRepository) GetByID(ctx context.Context, id int64, viewer *models.Actor) (*models.Post, error) {
	officialID, youthID := viewerIDs(viewer)
	query := postSelect + ` WHERE p.id = $3 AND p.deleted_at IS NULL`
	return r.scanPost(r.QueryRowContext(ctx, query, officialID, youthID, id))
}

func (r *postRepository) List(ctx context.Context, viewer *models.Actor, params models.PaginationParams) ([]*models.Post, models.PaginationMeta, error) {
	total, err := r.GetTotalCount(ctx, `SELECT COUNT(*) FROM posts WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("count posts: %w", err)
	}

	officialID, youthID := viewerIDs(viewer)
	baseQuery := postSelect + ` WHERE p.deleted_at IS NULL`
	validSorts := map[string]string{
		"created_at": "p.created_at",
		"updated_at": "p.updated_at",
		"id":         "p.id",
	}
	query, pageArgs := r.BuildPaginatedQuery(baseQuery, params, validSorts, 3)
	args := append([]interface{}{officialID, youthID}, pageArgs...)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := r.scanPostRow(rows)
		if err != nil {
			return nil, models.PaginationMeta{}, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PaginationMeta{}, err
	}

	return posts, r.BuildPaginationMeta(params, total), nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.QueryRowContext(ctx, `
		UPDATE posts
		SET title = $2, description = $3, media_type = $4, media_url = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`,
		post.ID, post.Title, post.Description, post.MediaType, post.MediaURL,
	).Scan(&post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *postRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `
		UPDATE posts SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
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

func viewerIDs(viewer *models.Actor) (officialID, youthID *int64) {
	if viewer == nil {
		return nil, nil
	}
	return viewer.OfficialID(), viewer.YouthID()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postRepository) scanPost(row *sql.Row) (*models.Post, error) {
	return r.scanPostRow(row)
}

func (r *postRepository) scanPostRow(row rowScanner) (*models.Post, error) {
	var p models.Post
	var reactionJSON []byte
	err := row.Scan(
		&p.ID, &p.OfficialID, &p.Title, &p.Description, &p.MediaType, &p.MediaURL,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		&p.AuthorName, &p.CommentCount, &reactionJSON, &p.ViewerReaction,
	)
	if err != nil {
		return nil, err
	}
	if len(reactionJSON) > 0 {
		if err := json.Unmarshal(reactionJSON, &p.ReactionCounts); err != nil {
			return nil, fmt.Errorf("decode reaction counts: %w", err)
		}
	}
	return &p, nil
}
