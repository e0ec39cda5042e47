package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"sklink/internal/database"
	"sklink/internal/models"

	"go.uber.org/zap"
)

type youthRepository struct {
	*BaseRepository
}

// NewYouthRepository creates the youths repository.
func NewYouthRepository(db *database.Manager, logger *zap.Logger) YouthRepository {
	return &youthRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const youthColumns = `id, username, email, password_hash, verified, created_at, updated_at, deleted_at`

// Register writes the youth account and every profile slice in a single
// transaction. There is deliberately no uniqueness pre-check: a duplicate
// username or email aborts the transaction with a unique-violation error
// and nothing is persisted.
func (r *youthRepository) Register(ctx context.Context, rec *RegistrationRecord) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO youths (username, email, password_hash, verified)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			rec.Youth.Username,
			rec.Youth.Email,
			rec.Youth.PasswordHash,
			rec.Youth.Verified,
		).Scan(&rec.Youth.ID, &rec.Youth.CreatedAt, &rec.Youth.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert youth: %w", err)
		}

		id := rec.Youth.ID
		if err := insertProfileSlices(ctx, tx, id, rec); err != nil {
			return err
		}

		if rec.Attachment != nil {
			err := tx.QueryRowContext(ctx, `
				INSERT INTO youth_attachments (youth_id, file_url, public_id, format, size_bytes)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, created_at`,
				id,
				rec.Attachment.FileURL,
				rec.Attachment.PublicID,
				rec.Attachment.Format,
				rec.Attachment.SizeBytes,
			).Scan(&rec.Attachment.ID, &rec.Attachment.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert attachment: %w", err)
			}
			rec.Attachment.YouthID = id
		}

		return nil
	})
}

func insertProfileSlices(ctx context.Context, tx *sql.Tx, id int64, rec *RegistrationRecord) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO youth_names (youth_id, first_name, middle_name, last_name, suffix)
		VALUES ($1, $2, $3, $4, $5)`,
		id, rec.Name.FirstName, rec.Name.MiddleName, rec.Name.LastName, rec.Name.Suffix,
	); err != nil {
		return fmt.Errorf("insert name: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO youth_locations (youth_id, region, province, municipality, barangay, purok_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, rec.Location.Region, rec.Location.Province, rec.Location.Municipality, rec.Location.Barangay, rec.Location.PurokID,
	); err != nil {
		return fmt.Errorf("insert location: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO youth_genders (youth_id, gender) VALUES ($1, $2)`,
		id, rec.Gender.Gender,
	); err != nil {
		return fmt.Errorf("insert gender: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO youth_info (youth_id, age, contact, birthday)
		VALUES ($1, $2, $3, $4)`,
		id, rec.Info.Age, rec.Info.Contact, rec.Info.Birthday,
	); err != nil {
		return fmt.Errorf("insert info: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO youth_demographics (youth_id, civil_status, age_bracket, classification, education, work_status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, rec.Demographics.CivilStatus, rec.Demographics.AgeBracket, rec.Demographics.Classification, rec.Demographics.Education, rec.Demographics.WorkStatus,
	); err != nil {
		return fmt.Errorf("insert demographics: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO youth_surveys (youth_id, registered_sk_voter, registered_national_voter, voted_last_election)
		VALUES ($1, $2, $3, $4)`,
		id, rec.Survey.RegisteredSKVoter, rec.Survey.RegisteredNationalVoter, rec.Survey.VotedLastElection,
	); err != nil {
		return fmt.Errorf("insert survey: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO youth_meeting_surveys (youth_id, attended, times_attended, reason_not_attended)
		VALUES ($1, $2, $3, $4)`,
		id, rec.MeetingSurvey.Attended, rec.MeetingSurvey.TimesAttended, rec.MeetingSurvey.ReasonNotAttended,
	); err != nil {
		return fmt.Errorf("insert meeting survey: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO youth_households (youth_id, household) VALUES ($1, $2)`,
		id, rec.Household.Household,
	); err != nil {
		return fmt.Errorf("insert household: %w", err)
	}

	return nil
}

func (r *youthRepository) GetByID(ctx context.Context, id int64) (*models.Youth, error) {
	query := fmt.Sprintf(`SELECT %s FROM youths WHERE id = $1 AND deleted_at IS NULL`, youthColumns)
	return r.scanYouth(r.QueryRowContext(ctx, query, id))
}

func (r *youthRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Youth, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM youths
		WHERE (username = $1 OR email = $1) AND deleted_at IS NULL`, youthColumns)
	return r.scanYouth(r.QueryRowContext(ctx, query, identifier))
}

// GetDetail loads the account row and every profile slice plus attachments.
// Soft-deleted youths are included so verification review can inspect them.
func (r *youthRepository) GetDetail(ctx context.Context, id int64) (*models.Youth, error) {
	query := fmt.Sprintf(`SELECT %s FROM youths WHERE id = $1`, youthColumns)
	youth, err := r.scanYouth(r.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	name := &models.YouthName{YouthID: id}
	location := &models.YouthLocation{YouthID: id}
	gender := &models.YouthGender{YouthID: id}
	info := &models.YouthInfo{YouthID: id}
	demographics := &models.YouthDemographics{YouthID: id}
	survey := &models.YouthSurvey{YouthID: id}
	meeting := &models.YouthMeetingSurvey{YouthID: id}
	household := &models.YouthHousehold{YouthID: id}

	err = r.QueryRowContext(ctx, `
		SELECT n.first_name, n.middle_name, n.last_name, n.suffix,
		       l.region, l.province, l.municipality, l.barangay, l.purok_id, p.name,
		       g.gender,
		       i.age, i.contact, i.birthday,
		       d.civil_status, d.age_bracket, d.classification, d.education, d.work_status,
		       s.registered_sk_voter, s.registered_national_voter, s.voted_last_election,
		       m.attended, m.times_attended, m.reason_not_attended,
		       h.household
		FROM youth_names n
		JOIN youth_locations l ON l.youth_id = n.youth_id
		LEFT JOIN puroks p ON p.id = l.purok_id
		JOIN youth_genders g ON g.youth_id = n.youth_id
		JOIN youth_info i ON i.youth_id = n.youth_id
		JOIN youth_demographics d ON d.youth_id = n.youth_id
		JOIN youth_surveys s ON s.youth_id = n.youth_id
		JOIN youth_meeting_surveys m ON m.youth_id = n.youth_id
		JOIN youth_households h ON h.youth_id = n.youth_id
		WHERE n.youth_id = $1`, id,
	).Scan(
		&name.FirstName, &name.MiddleName, &name.LastName, &name.Suffix,
		&location.Region, &location.Province, &location.Municipality, &location.Barangay, &location.PurokID, &location.PurokName,
		&gender.Gender,
		&info.Age, &info.Contact, &info.Birthday,
		&demographics.CivilStatus, &demographics.AgeBracket, &demographics.Classification, &demographics.Education, &demographics.WorkStatus,
		&survey.RegisteredSKVoter, &survey.RegisteredNationalVoter, &survey.VotedLastElection,
		&meeting.Attended, &meeting.TimesAttended, &meeting.ReasonNotAttended,
		&household.Household,
	)
	if err != nil {
		return nil, fmt.Errorf("load youth detail: %w", err)
	}

	youth.Name = name
	youth.Location = location
	youth.Gender = gender
	youth.Info = info
	youth.Demographics = demographics
	youth.Survey = survey
	youth.MeetingSurvey = meeting
	youth.Household = household

	rows, err := r.QueryContext(ctx, `
		SELECT id, youth_id, file_url, public_id, format, size_bytes, created_at
		FROM youth_attachments
		WHERE youth_id = $1
		ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("load attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.YouthAttachment
		if err := rows.Scan(&a.ID, &a.YouthID, &a.FileURL, &a.PublicID, &a.Format, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		youth.Attachments = append(youth.Attachments, &a)
	}
	return youth, rows.Err()
}

func (r *youthRepository) List(ctx context.Context, filter YouthListFilter, params models.PaginationParams) ([]*models.Youth, models.PaginationMeta, error) {
	where := "1=1"
	var args []interface{}
	argIndex := 1

	if filter.Deleted {
		where += " AND y.deleted_at IS NOT NULL"
	} else {
		where += " AND y.deleted_at IS NULL"
	}
	if filter.Verified != nil {
		where += fmt.Sprintf(" AND y.verified = $%d", argIndex)
		args = append(args, *filter.Verified)
		argIndex++
	}
	if filter.PurokID != nil {
		where += fmt.Sprintf(" AND l.purok_id = $%d", argIndex)
		args = append(args, *filter.PurokID)
		argIndex++
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM youths y
		LEFT JOIN youth_locations l ON l.youth_id = y.id
		WHERE %s`, where)
	total, err := r.GetTotalCount(ctx, countQuery, args...)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("count youths: %w", err)
	}

	baseQuery := fmt.Sprintf(`
		SELECT y.id, y.username, y.email, y.password_hash, y.verified,
		       y.created_at, y.updated_at, y.deleted_at,
		       n.first_name, n.middle_name, n.last_name, n.suffix
		FROM youths y
		LEFT JOIN youth_locations l ON l.youth_id = y.id
		LEFT JOIN youth_names n ON n.youth_id = y.id
		WHERE %s`, where)
	validSorts := map[string]string{
		"created_at": "y.created_at",
		"updated_at": "y.updated_at",
		"username":   "y.username",
		"id":         "y.id",
	}
	query, pageArgs := r.BuildPaginatedQuery(baseQuery, params, validSorts, argIndex)
	args = append(args, pageArgs...)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("list youths: %w", err)
	}
	defer rows.Close()

	var youths []*models.Youth
	for rows.Next() {
		var y models.Youth
		var firstName, lastName *string
		var middleName, suffix *string
		err := rows.Scan(
			&y.ID, &y.Username, &y.Email, &y.PasswordHash, &y.Verified,
			&y.CreatedAt, &y.UpdatedAt, &y.DeletedAt,
			&firstName, &middleName, &lastName, &suffix,
		)
		if err != nil {
			return nil, models.PaginationMeta{}, fmt.Errorf("scan youth: %w", err)
		}
		if firstName != nil && lastName != nil {
			y.Name = &models.YouthName{
				YouthID:    y.ID,
				FirstName:  *firstName,
				MiddleName: middleName,
				LastName:   *lastName,
				Suffix:     suffix,
			}
		}
		youths = append(youths, &y)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PaginationMeta{}, err
	}

	return youths, r.BuildPaginationMeta(params, total), nil
}

// ===============================
// STATE TRANSITIONS
// ===============================

// Verify flips an unverified, non-deleted youth to verified. The WHERE guard
// makes the call idempotent-safe: a second call matches zero rows and
// reports sql.ErrNoRows.
func (r *youthRepository) Verify(ctx context.Context, id int64) error {
	return r.guardedUpdate(ctx, `
		UPDATE youths SET verified = TRUE, updated_at = now()
		WHERE id = $1 AND verified = FALSE AND deleted_at IS NULL`, id)
}

func (r *youthRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.guardedUpdate(ctx, `
		UPDATE youths SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
}

// Restore clears the deletion mark. The verified flag is untouched so the
// youth returns in its prior verification state.
func (r *youthRepository) Restore(ctx context.Context, id int64) error {
	return r.guardedUpdate(ctx, `
		UPDATE youths SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL`, id)
}

func (r *youthRepository) guardedUpdate(ctx context.Context, query string, id int64) error {
	result, err := r.ExecContext(ctx, query, id)
	if err != nil {
		return err
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

// UpdateProfile rewrites the provided profile slices for an existing youth
// in one transaction. Nil slices are left untouched.
func (r *youthRepository) UpdateProfile(ctx context.Context, rec *RegistrationRecord) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		id := rec.Youth.ID

		if _, err := tx.ExecContext(ctx, `
			UPDATE youths SET updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id,
		); err != nil {
			return fmt.Errorf("touch youth: %w", err)
		}

		if rec.Name != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE youth_names SET first_name = $2, middle_name = $3, last_name = $4, suffix = $5
				WHERE youth_id = $1`,
				id, rec.Name.FirstName, rec.Name.MiddleName, rec.Name.LastName, rec.Name.Suffix,
			); err != nil {
				return fmt.Errorf("update name: %w", err)
			}
		}
		if rec.Location != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE youth_locations SET region = $2, province = $3, municipality = $4, barangay = $5, purok_id = $6
				WHERE youth_id = $1`,
				id, rec.Location.Region, rec.Location.Province, rec.Location.Municipality, rec.Location.Barangay, rec.Location.PurokID,
			); err != nil {
				return fmt.Errorf("update location: %w", err)
			}
		}
		if rec.Gender != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE youth_genders SET gender = $2 WHERE youth_id = $1`,
				id, rec.Gender.Gender,
			); err != nil {
				return fmt.Errorf("update gender: %w", err)
			}
		}
		if rec.Info != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE youth_info SET age = $2, contact = $3, birthday = $4 WHERE youth_id = $1`,
				id, rec.Info.Age, rec.Info.Contact, rec.Info.Birthday,
			); err != nil {
				return fmt.Errorf("update info: %w", err)
			}
		}
		if rec.Demographics != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE youth_demographics SET civil_status = $2, age_bracket = $3, classification = $4, education = $5, work_status = $6
				WHERE youth_id = $1`,
				id, rec.Demographics.CivilStatus, rec.Demographics.AgeBracket, rec.Demographics.Classification, rec.Demographics.Education, rec.Demographics.WorkStatus,
			); err != nil {
				return fmt.Errorf("update demographics: %w", err)
			}
		}
		if rec.Survey != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE youth_surveys SET registered_sk_voter = $2, registered_national_voter = $3, voted_last_election = $4
				WHERE youth_id = $1`,
				id, rec.Survey.RegisteredSKVoter, rec.Survey.RegisteredNationalVoter, rec.Survey.VotedLastElection,
			); err != nil {
				return fmt.Errorf("update survey: %w", err)
			}
		}
		if rec.MeetingSurvey != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE youth_meeting_surveys SET attended = $2, times_attended = $3, reason_not_attended = $4
				WHERE youth_id = $1`,
				id, rec.MeetingSurvey.Attended, rec.MeetingSurvey.TimesAttended, rec.MeetingSurvey.ReasonNotAttended,
			); err != nil {
				return fmt.Errorf("update meeting survey: %w", err)
			}
		}
		if rec.Household != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE youth_households SET household = $2 WHERE youth_id = $1`,
				id, rec.Household.Household,
			); err != nil {
				return fmt.Errorf("update household: %w", err)
			}
		}

		return nil
	})
}

func (r *youthRepository) AddAttachment(ctx context.Context, att *models.YouthAttachment) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO youth_attachments (youth_id, file_url, public_id, format, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		att.YouthID, att.FileURL, att.PublicID, att.Format, att.SizeBytes,
	).Scan(&att.ID, &att.CreatedAt)
	if err != nil {
		return fmt.Errorf("add attachment: %w", err)
	}
	return nil
}

// ===============================
// DASHBOARD AGGREGATES
// ===============================

func (r *youthRepository) CountByStatus(ctx context.Context) (total, verified, unverified, deleted int64, err error) {
	err = r.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE verified AND deleted_at IS NULL),
		       COUNT(*) FILTER (WHERE NOT verified AND deleted_at IS NULL),
		       COUNT(*) FILTER (WHERE deleted_at IS NOT NULL)
		FROM youths`,
	).Scan(&total, &verified, &unverified, &deleted)
	return
}

func (r *youthRepository) CountByGender(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, `
		SELECT g.gender, COUNT(*)
		FROM youth_genders g
		JOIN youths y ON y.id = g.youth_id
		WHERE y.deleted_at IS NULL
		GROUP BY g.gender`)
}

func (r *youthRepository) CountByPurok(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, `
		SELECT COALESCE(p.name, 'unassigned'), COUNT(*)
		FROM youths y
		LEFT JOIN youth_locations l ON l.youth_id = y.id
		LEFT JOIN puroks p ON p.id = l.purok_id
		WHERE y.deleted_at IS NULL
		GROUP BY p.name`)
}

func (r *youthRepository) CountBySKVoter(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, `
		SELECT s.registered_sk_voter, COUNT(*)
		FROM youth_surveys s
		JOIN youths y ON y.id = s.youth_id
		WHERE y.deleted_at IS NULL
		GROUP BY s.registered_sk_voter`)
}

// AgeDistribution buckets non-deleted youths into the reporting brackets.
func (r *youthRepository) AgeDistribution(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, `
		SELECT CASE
		         WHEN i.age BETWEEN 16 AND 17 THEN '16-17'
		         WHEN i.age BETWEEN 18 AND 21 THEN '18-21'
		         WHEN i.age BETWEEN 22 AND 24 THEN '22-24'
		         ELSE '25-30'
		       END AS bracket, COUNT(*)
		FROM youth_info i
		JOIN youths y ON y.id = i.youth_id
		WHERE y.deleted_at IS NULL
		GROUP BY bracket`)
}

func (r *youthRepository) countGrouped(ctx context.Context, query string, args ...interface{}) (map[string]int64, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

func (r *youthRepository) scanYouth(row *sql.Row) (*models.Youth, error) {
	var y models.Youth
	err := row.Scan(&y.ID, &y.Username, &y.Email, &y.PasswordHash, &y.Verified, &y.CreatedAt, &y.UpdatedAt, &y.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &y, nil
}
