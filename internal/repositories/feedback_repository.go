package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"sklink/internal/database"
	"sklink/internal/models"

	"go.uber.org/zap"
)

type feedbackRepository struct {
	*BaseRepository
}

// NewFeedbackRepository creates the feedback repository.
func NewFeedbackRepository(db *database.Manager, logger *zap.Logger) FeedbackRepository {
	return &feedbackRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

func (r *feedbackRepository) CreateForm(ctx context.Context, form *models.FeedbackForm) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO feedback_forms (official_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		form.OfficialID, form.Title, form.Description,
	).Scan(&form.ID, &form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create feedback form: %w", err)
	}
	return nil
}

func (r *feedbackRepository) GetForm(ctx context.Context, id int64) (*models.FeedbackForm, error) {
	var f models.FeedbackForm
	err := r.QueryRowContext(ctx, `
		SELECT f.id, f.official_id, f.title, f.description, f.created_at, f.updated_at, f.deleted_at,
		       (SELECT COUNT(*) FROM feedback_replies fr WHERE fr.form_id = f.id)
		FROM feedback_forms f
		WHERE f.id = $1 AND f.deleted_at IS NULL`, id,
	).Scan(&f.ID, &f.OfficialID, &f.Title, &f.Description, &f.CreatedAt, &f.UpdatedAt, &f.DeletedAt, &f.ReplyCount)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *feedbackRepository) ListForms(ctx context.Context, params models.PaginationParams) ([]*models.FeedbackForm, models.PaginationMeta, error) {
	total, err := r.GetTotalCount(ctx, `SELECT COUNT(*) FROM feedback_forms WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("count feedback forms: %w", err)
	}

	baseQuery := `
		SELECT f.id, f.official_id, f.title, f.description, f.created_at, f.updated_at, f.deleted_at,
		       (SELECT COUNT(*) FROM feedback_replies fr WHERE fr.form_id = f.id)
		FROM feedback_forms f
		WHERE f.deleted_at IS NULL`
	validSorts := map[string]string{
		"created_at": "f.created_at",
		"updated_at": "f.updated_at",
		"id":         "f.id",
	}
	query, args := r.BuildPaginatedQuery(baseQuery, params, validSorts, 1)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("list feedback forms: %w", err)
	}
	defer rows.Close()

	var forms []*models.FeedbackForm
	for rows.Next() {
		var f models.FeedbackForm
		if err := rows.Scan(&f.ID, &f.OfficialID, &f.Title, &f.Description, &f.CreatedAt, &f.UpdatedAt, &f.DeletedAt, &f.ReplyCount); err != nil {
			return nil, models.PaginationMeta{}, fmt.Errorf("scan feedback form: %w", err)
		}
		forms = append(forms, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PaginationMeta{}, err
	}

	return forms, r.BuildPaginationMeta(params, total), nil
}

func (r *feedbackRepository) UpdateForm(ctx context.Context, form *models.FeedbackForm) error {
	err := r.QueryRowContext(ctx, `
		UPDATE feedback_forms SET title = $2, description = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`,
		form.ID, form.Title, form.Description,
	).Scan(&form.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update feedback form: %w", err)
	}
	return nil
}

func (r *feedbackRepository) SoftDeleteForm(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `
		UPDATE feedback_forms SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete feedback form: %w", err)
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

// UpsertReply relies on the UNIQUE (form_id, youth_id) constraint: a second
// submission from the same youth updates the existing row in place.
func (r *feedbackRepository) UpsertReply(ctx context.Context, reply *models.FeedbackReply) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO feedback_replies (form_id, youth_id, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (form_id, youth_id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = now()
		RETURNING id, created_at, updated_at`,
		reply.FormID, reply.YouthID, reply.Body,
	).Scan(&reply.ID, &reply.CreatedAt, &reply.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert feedback reply: %w", err)
	}
	return nil
}

func (r *feedbackRepository) ListReplies(ctx context.Context, formID int64) ([]*models.FeedbackReply, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT fr.id, fr.form_id, fr.youth_id, fr.body, fr.created_at, fr.updated_at,
		       TRIM(CONCAT(n.first_name, ' ', n.last_name))
		FROM feedback_replies fr
		LEFT JOIN youth_names n ON n.youth_id = fr.youth_id
		WHERE fr.form_id = $1
		ORDER BY fr.created_at`, formID)
	if err != nil {
		return nil, fmt.Errorf("list feedback replies: %w", err)
	}
	defer rows.Close()

	var replies []*models.FeedbackReply
	for rows.Next() {
		var fr models.FeedbackReply
		if err := rows.Scan(&fr.ID, &fr.FormID, &fr.YouthID, &fr.Body, &fr.CreatedAt, &fr.UpdatedAt, &fr.YouthName); err != nil {
			return nil, fmt.Errorf("scan feedback reply: %w", err)
		}
		replies = append(replies, &fr)
	}
	return replies, rows.Err()
}
