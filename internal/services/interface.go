package services

import (
	"context"
	"mime/multipart"
	"time"

	"sklink/internal/models"
)

// AuthService authenticates principals and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	// IssueToken mints a session token for an already-authenticated
	// principal (used right after registration).
	IssueToken(actor models.Actor, role string) (string, time.Time, error)
}

// RegistrationService handles youth registration and profile maintenance.
type RegistrationService interface {
	// Register performs self-registration; the youth starts unverified.
	Register(ctx context.Context, req *RegisterYouthRequest) (*AuthResponse, error)
	// AdminAdd is the official-side variant; the youth is verified at once.
	AdminAdd(ctx context.Context, req *RegisterYouthRequest) (*models.Youth, error)
	UpdateProfile(ctx context.Context, req *UpdateYouthProfileRequest) error
}

// VerificationService drives the youth verification workflow.
type VerificationService interface {
	ListPending(ctx context.Context, params models.PaginationParams) ([]*models.Youth, models.PaginationMeta, error)
	GetDetail(ctx context.Context, id int64) (*models.Youth, error)
	Verify(ctx context.Context, id int64) error
	Remove(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

// YouthService serves official-side youth listings.
type YouthService interface {
	List(ctx context.Context, filter YouthListOptions, params models.PaginationParams) ([]*models.Youth, models.PaginationMeta, error)
	GetDetail(ctx context.Context, id int64) (*models.Youth, error)
}

// YouthListOptions narrows the admin listing.
type YouthListOptions struct {
	Deleted bool
	PurokID *int64
}

// FeedService covers posts, comments, reactions and moderation.
type FeedService interface {
	CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, id int64, viewer *models.Actor) (*models.Post, error)
	ListPosts(ctx context.Context, viewer *models.Actor, params models.PaginationParams) ([]*models.Post, models.PaginationMeta, error)
	UpdatePost(ctx context.Context, req *UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID, officialID int64) error

	CreateComment(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error)
	// GetCommentForest returns the post's comments as trees assembled from
	// the flat creation-ordered rows.
	GetCommentForest(ctx context.Context, postID int64) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, req *UpdateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID int64, author models.Actor) error

	HideComment(ctx context.Context, commentID int64, reason *string) error
	UnhideComment(ctx context.Context, commentID int64) error
	BanActor(ctx context.Context, req *ModerationRequest, bannedBy int64) error
	UnbanActor(ctx context.Context, actor models.Actor) error
	ListBans(ctx context.Context) ([]*models.FeedBan, error)

	React(ctx context.Context, postID int64, actor models.Actor, reactionType string) (*models.Reaction, error)
	Unreact(ctx context.Context, postID int64, actor models.Actor) error
}

// NotificationService serves the notification inbox and live stream.
type NotificationService interface {
	List(ctx context.Context, recipient models.Actor, params models.PaginationParams) ([]*models.Notification, models.PaginationMeta, error)
	MarkRead(ctx context.Context, id int64, recipient models.Actor) error
	MarkAllRead(ctx context.Context, recipient models.Actor) error
	CountUnread(ctx context.Context, recipient models.Actor) (int64, error)
	// Notify persists the notification and pushes it to connected clients.
	// Self-notification is dropped silently.
	Notify(ctx context.Context, n *models.Notification) error
	// Subscribe registers a live listener for the recipient; the returned
	// cancel func must be called when the client disconnects.
	Subscribe(recipient models.Actor) (<-chan *models.Notification, func())
}

// ProfileService serves the authenticated principal's own profile.
type ProfileService interface {
	Get(ctx context.Context, actor models.Actor) (interface{}, error)
	UpdateOfficial(ctx context.Context, official *models.Official) error
	AddYouthAttachment(ctx context.Context, youthID int64, att *models.YouthAttachment) error
}

// PurokService manages puroks.
type PurokService interface {
	Create(ctx context.Context, name string) (*models.Purok, error)
	Get(ctx context.Context, id int64) (*models.Purok, error)
	List(ctx context.Context) ([]*models.Purok, error)
	Update(ctx context.Context, id int64, name string) (*models.Purok, error)
	Delete(ctx context.Context, id int64) error
}

// DashboardService aggregates registry statistics.
type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

// FeedbackService manages feedback forms and youth replies.
type FeedbackService interface {
	CreateForm(ctx context.Context, req *FeedbackFormRequest) (*models.FeedbackForm, error)
	GetForm(ctx context.Context, id int64) (*models.FeedbackForm, error)
	ListForms(ctx context.Context, params models.PaginationParams) ([]*models.FeedbackForm, models.PaginationMeta, error)
	UpdateForm(ctx context.Context, req *FeedbackFormRequest) (*models.FeedbackForm, error)
	DeleteForm(ctx context.Context, id, officialID int64) error
	Reply(ctx context.Context, req *FeedbackReplyRequest) (*models.FeedbackReply, error)
	ListReplies(ctx context.Context, formID int64) ([]*models.FeedbackReply, error)
}

// FileService uploads and deletes externally stored files.
type FileService interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// UploadResult describes one stored file.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
}
