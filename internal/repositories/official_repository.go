package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"sklink/internal/database"
	"sklink/internal/models"

	"go.uber.org/zap"
)

type officialRepository struct {
	*BaseRepository
}

// NewOfficialRepository creates the officials repository.
func NewOfficialRepository(db *database.Manager, logger *zap.Logger) OfficialRepository {
	return &officialRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const officialColumns = `id, username, email, password_hash, role, created_at, updated_at, deleted_at`

func (r *officialRepository) Create(ctx context.Context, official *models.Official) error {
	query := `
		INSERT INTO officials (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		official.Username,
		official.Email,
		official.PasswordHash,
		official.Role,
	).Scan(&official.ID, &official.CreatedAt, &official.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create official: %w", err)
	}
	return nil
}

func (r *officialRepository) GetByID(ctx context.Context, id int64) (*models.Official, error) {
	query := fmt.Sprintf(`SELECT %s FROM officials WHERE id = $1 AND deleted_at IS NULL`, officialColumns)
	return r.scanOfficial(r.QueryRowContext(ctx, query, id))
}

// GetByIdentifier looks up by username or email. Callers must not reveal
// which part of a credential pair failed.
func (r *officialRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Official, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM officials
		WHERE (username = $1 OR email = $1) AND deleted_at IS NULL`, officialColumns)
	return r.scanOfficial(r.QueryRowContext(ctx, query, identifier))
}

func (r *officialRepository) Update(ctx context.Context, official *models.Official) error {
	query := `
		UPDATE officials
		SET username = $2, email = $3, role = $4, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query,
		official.ID,
		official.Username,
		official.Email,
		official.Role,
	).Scan(&official.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update official: %w", err)
	}
	return nil
}

func (r *officialRepository) List(ctx context.Context, params models.PaginationParams) ([]*models.Official, models.PaginationMeta, error) {
	total, err := r.GetTotalCount(ctx, `SELECT COUNT(*) FROM officials WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("count officials: %w", err)
	}

	baseQuery := fmt.Sprintf(`SELECT %s FROM officials WHERE deleted_at IS NULL`, officialColumns)
	validSorts := map[string]string{
		"created_at": "created_at",
		"username":   "username",
		"id":         "id",
	}
	query, args := r.BuildPaginatedQuery(baseQuery, params, validSorts, 1)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("list officials: %w", err)
	}
	defer rows.Close()

	var officials []*models.Official
	for rows.Next() {
		var o models.Official
		if err := rows.Scan(&o.ID, &o.Username, &o.Email, &o.PasswordHash, &o.Role, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt); err != nil {
			return nil, models.PaginationMeta{}, fmt.Errorf("scan official: %w", err)
		}
		officials = append(officials, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PaginationMeta{}, err
	}

	return officials, r.BuildPaginationMeta(params, total), nil
}

func (r *officialRepository) scanOfficial(row *sql.Row) (*models.Official, error) {
	var o models.Official
	err := row.Scan(&o.ID, &o.Username, &o.Email, &o.PasswordHash, &o.Role, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
