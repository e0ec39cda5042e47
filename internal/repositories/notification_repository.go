package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"sklink/internal/database"
	"sklink/internal/models"

	"go.uber.org/zap"
)

type notificationRepository struct {
	*BaseRepository
}

// NewNotificationRepository creates the notifications repository.
func NewNotificationRepository(db *database.Manager, logger *zap.Logger) NotificationRepository {
	return &notificationRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO notifications (recipient_official, recipient_youth, actor_official, actor_youth, post_id, comment_id, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		n.Recipient.OfficialID(), n.Recipient.YouthID(),
		n.Actor.OfficialID(), n.Actor.YouthID(),
		n.PostID, n.CommentID, n.Type,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListByRecipient returns the inbox, unread first then newest first, with
// the acting principal's display name resolved per row.
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipient models.Actor, params models.PaginationParams) ([]*models.Notification, models.PaginationMeta, error) {
	where := `(($1::bigint IS NOT NULL AND nt.recipient_official = $1) OR ($2::bigint IS NOT NULL AND nt.recipient_youth = $2))`
	args := []interface{}{recipient.OfficialID(), recipient.YouthID()}

	total, err := r.GetTotalCount(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM notifications nt WHERE %s`, where), args...)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("count notifications: %w", err)
	}

	params.Normalize()
	query := fmt.Sprintf(`
		SELECT nt.id, nt.recipient_official, nt.recipient_youth, nt.actor_official, nt.actor_youth,
		       nt.post_id, nt.comment_id, nt.type, nt.read, nt.created_at,
		       CASE
		         WHEN nt.actor_official IS NOT NULL THEN o.username
		         ELSE TRIM(CONCAT(yn.first_name, ' ', yn.last_name))
		       END
		FROM notifications nt
		LEFT JOIN officials o ON o.id = nt.actor_official
		LEFT JOIN youth_names yn ON yn.youth_id = nt.actor_youth
		WHERE %s
		ORDER BY nt.read, nt.created_at DESC
		LIMIT $3 OFFSET $4`, where)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.PaginationMeta{}, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		var recipientOfficial, recipientYouth, actorOfficial, actorYouth *int64
		var actorName *string
		err := rows.Scan(
			&n.ID, &recipientOfficial, &recipientYouth, &actorOfficial, &actorYouth,
			&n.PostID, &n.CommentID, &n.Type, &n.Read, &n.CreatedAt, &actorName,
		)
		if err != nil {
			return nil, models.PaginationMeta{}, fmt.Errorf("scan notification: %w", err)
		}
		n.Recipient = actorFromColumns(recipientOfficial, recipientYouth)
		n.Actor = actorFromColumns(actorOfficial, actorYouth)
		if actorName != nil {
			n.ActorName = *actorName
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PaginationMeta{}, err
	}

	return notifications, r.BuildPaginationMeta(params, total), nil
}

// MarkRead only touches rows owned by the recipient, so one principal can
// never mark another's notification.
func (r *notificationRepository) MarkRead(ctx context.Context, id int64, recipient models.Actor) error {
	result, err := r.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND read = FALSE
		  AND (($2::bigint IS NOT NULL AND recipient_official = $2) OR ($3::bigint IS NOT NULL AND recipient_youth = $3))`,
		id, recipient.OfficialID(), recipient.YouthID())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
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

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipient models.Actor) error {
	_, err := r.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE read = FALSE
		  AND (($1::bigint IS NOT NULL AND recipient_official = $1) OR ($2::bigint IS NOT NULL AND recipient_youth = $2))`,
		recipient.OfficialID(), recipient.YouthID())
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipient models.Actor) (int64, error) {
	var count int64
	err := r.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE read = FALSE
		  AND (($1::bigint IS NOT NULL AND recipient_official = $1) OR ($2::bigint IS NOT NULL AND recipient_youth = $2))`,
		recipient.OfficialID(), recipient.YouthID(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func actorFromColumns(officialID, youthID *int64) models.Actor {
	switch {
	case officialID != nil:
		return models.Actor{Kind: models.ActorOfficial, ID: *officialID}
	case youthID != nil:
		return models.Actor{Kind: models.ActorYouth, ID: *youthID}
	}
	return models.Actor{}
}
