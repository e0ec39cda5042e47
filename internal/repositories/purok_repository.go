package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"sklink/internal/database"
	"sklink/internal/models"

	"go.uber.org/zap"
)

type purokRepository struct {
	*BaseRepository
}

// NewPurokRepository creates the puroks repository.
func NewPurokRepository(db *database.Manager, logger *zap.Logger) PurokRepository {
	return &purokRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

func (r *purokRepository) Create(ctx context.Context, purok *models.Purok) error {
	err := r.QueryRowContext(ctx,
		`INSERT INTO puroks (name) VALUES ($1) RETURNING id`,
		purok.Name,
	).Scan(&purok.ID)
	if err != nil {
		return fmt.Errorf("create purok: %w", err)
	}
	return nil
}

// GetByID includes the count of non-deleted youths located in the purok.
func (r *purokRepository) GetByID(ctx context.Context, id int64) (*models.Purok, error) {
	var p models.Purok
	err := r.QueryRowContext(ctx, `
		SELECT p.id, p.name,
		       COUNT(y.id) FILTER (WHERE y.deleted_at IS NULL)
		FROM puroks p
		LEFT JOIN youth_locations l ON l.purok_id = p.id
		LEFT JOIN youths y ON y.id = l.youth_id
		WHERE p.id = $1
		GROUP BY p.id, p.name`, id,
	).Scan(&p.ID, &p.Name, &p.TotalResidents)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purokRepository) List(ctx context.Context) ([]*models.Purok, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT p.id, p.name,
		       COUNT(y.id) FILTER (WHERE y.deleted_at IS NULL)
		FROM puroks p
		LEFT JOIN youth_locations l ON l.purok_id = p.id
		LEFT JOIN youths y ON y.id = l.youth_id
		GROUP BY p.id, p.name
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("list puroks: %w", err)
	}
	defer rows.Close()

	var puroks []*models.Purok
	for rows.Next() {
		var p models.Purok
		if err := rows.Scan(&p.ID, &p.Name, &p.TotalResidents); err != nil {
			return nil, fmt.Errorf("scan purok: %w", err)
		}
		puroks = append(puroks, &p)
	}
	return puroks, rows.Err()
}

func (r *purokRepository) Update(ctx context.Context, purok *models.Purok) error {
	result, err := r.ExecContext(ctx,
		`UPDATE puroks SET name = $2 WHERE id = $1`,
		purok.ID, purok.Name,
	)
	if err != nil {
		return fmt.Errorf("update purok: %w", err)
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

func (r *purokRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM puroks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purok: %w", err)
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
