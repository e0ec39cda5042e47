package repositories

import (
	"context"

	"sklink/internal/models"
)

// OfficialRepository manages administrator accounts.
type OfficialRepository interface {
	Create(ctx context.Context, official *models.Official) error
	GetByID(ctx context.Context, id int64) (*models.Official, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Official, error)
	Update(ctx context.Context, official *models.Official) error
	List(ctx context.Context, params models.PaginationParams) ([]*models.Official, models.PaginationMeta, error)
}

// RegistrationRecord bundles everything the registration transaction writes.
type RegistrationRecord struct {
	Youth         *models.Youth
	Name          *models.YouthName
	Location      *models.YouthLocation
	Gender        *models.YouthGender
	Info          *models.YouthInfo
	Demographics  *models.YouthDemographics
	Survey        *models.YouthSurvey
	MeetingSurvey *models.YouthMeetingSurvey
	Household     *models.YouthHousehold
	Attachment    *models.YouthAttachment
}

// YouthListFilter narrows youth listings.
type YouthListFilter struct {
	Verified *bool
	Deleted  bool
	PurokID  *int64
}

// YouthRepository manages youth accounts and their profile slices.
type YouthRepository interface {
	// Register inserts the youth and every profile slice in one transaction.
	// A duplicate username or email fails the whole transaction with a
	// unique-violation error from the driver.
	Register(ctx context.Context, rec *RegistrationRecord) error

	GetByID(ctx context.Context, id int64) (*models.Youth, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Youth, error)
	// GetDetail re-joins all profile slices and attachments.
	GetDetail(ctx context.Context, id int64) (*models.Youth, error)
	List(ctx context.Context, filter YouthListFilter, params models.PaginationParams) ([]*models.Youth, models.PaginationMeta, error)

	// State transitions guarded by the current row state; each returns a
	// missing-row error when the guard does not match.
	Verify(ctx context.Context, id int64) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error

	UpdateProfile(ctx context.Context, rec *RegistrationRecord) error
	AddAttachment(ctx context.Context, att *models.YouthAttachment) error

	// Dashboard aggregates.
	CountByStatus(ctx context.Context) (total, verified, unverified, deleted int64, err error)
	CountByGender(ctx context.Context) (map[string]int64, error)
	CountByPurok(ctx context.Context) (map[string]int64, error)
	CountBySKVoter(ctx context.Context) (map[string]int64, error)
	AgeDistribution(ctx context.Context) (map[string]int64, error)
}

// PurokRepository manages puroks.
type PurokRepository interface {
	Create(ctx context.Context, purok *models.Purok) error
	GetByID(ctx context.Context, id int64) (*models.Purok, error)
	List(ctx context.Context) ([]*models.Purok, error)
	Update(ctx context.Context, purok *models.Purok) error
	Delete(ctx context.Context, id int64) error
}

// PostRepository manages feed posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID includes author name, comment count and aggregated reaction
	// counts; viewer is used to resolve the viewer's own reaction.
	GetByID(ctx context.Context, id int64, viewer *models.Actor) (*models.Post, error)
	List(ctx context.Context, viewer *models.Actor, params models.PaginationParams) ([]*models.Post, models.PaginationMeta, error)
	Update(ctx context.Context, post *models.Post) error
	SoftDelete(ctx context.Context, id int64) error
}

// CommentRepository manages comments on posts.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	// ListByPost returns non-deleted comments in creation order with author
	// display names resolved, flat. Forest assembly happens in the service.
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	SoftDelete(ctx context.Context, id int64) error
	SetHidden(ctx context.Context, id int64, hidden bool, reason *string) error
}

// ReactionRepository manages per-post reactions.
type ReactionRepository interface {
	// Upsert overwrites the actor's existing reaction row in place, or
	// inserts one when none exists. Returns the resulting row and whether a
	// new row was created.
	Upsert(ctx context.Context, postID int64, actor models.Actor, reactionType string) (*models.Reaction, bool, error)
	Get(ctx context.Context, postID int64, actor models.Actor) (*models.Reaction, error)
	Delete(ctx context.Context, postID int64, actor models.Actor) error
}

// BanRepository manages feed bans.
type BanRepository interface {
	Ban(ctx context.Context, actor models.Actor, bannedBy int64, reason *string) error
	Lift(ctx context.Context, actor models.Actor) error
	IsBanned(ctx context.Context, actor models.Actor) (bool, error)
	ListActive(ctx context.Context) ([]*models.FeedBan, error)
}

// NotificationRepository manages feed notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipient models.Actor, params models.PaginationParams) ([]*models.Notification, models.PaginationMeta, error)
	MarkRead(ctx context.Context, id int64, recipient models.Actor) error
	MarkAllRead(ctx context.Context, recipient models.Actor) error
	CountUnread(ctx context.Context, recipient models.Actor) (int64, error)
}

// FeedbackRepository manages feedback forms and replies.
type FeedbackRepository interface {
	CreateForm(ctx context.Context, form *models.FeedbackForm) error
	GetForm(ctx context.Context, id int64) (*models.FeedbackForm, error)
	ListForms(ctx context.Context, params models.PaginationParams) ([]*models.FeedbackForm, models.PaginationMeta, error)
	UpdateForm(ctx context.Context, form *models.FeedbackForm) error
	SoftDeleteForm(ctx context.Context, id int64) error

	// UpsertReply keeps at most one reply per (form, youth).
	UpsertReply(ctx context.Context, reply *models.FeedbackReply) error
	ListReplies(ctx context.Context, formID int64) ([]*models.FeedbackReply, error)
}
