package services

import (
	"time"

	"sklink/internal/models"
)

// ===============================
// AUTH
// ===============================

// LoginRequest carries the credential pair. Kind selects which principal
// table the identifier is resolved against.
type LoginRequest struct {
	Identifier string           `json:"identifier" validate:"required,min=3,max=320"`
	Password   string           `json:"password" validate:"required,min=8,max=128"`
	Kind       models.ActorKind `json:"kind" validate:"required,oneof=official youth"`
}

// AuthResponse is returned on successful login or registration.
type AuthResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Kind      models.ActorKind `json:"kind"`
	Principal interface{}      `json:"principal"`
}

// ===============================
// REGISTRATION
// ===============================

// RegisterYouthRequest is the full self-registration payload. Everything is
// written in one transaction; a validation failure rejects the whole thing.
type RegisterYouthRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=8,max=128"`

	FirstName  string  `json:"first_name" validate:"required,max=100"`
	MiddleName *string `json:"middle_name,omitempty" validate:"omitempty,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	Suffix     *string `json:"suffix,omitempty" validate:"omitempty,max=20"`

	Region       string `json:"region" validate:"required,max=100"`
	Province     string `json:"province" validate:"required,max=100"`
	Municipality string `json:"municipality" validate:"required,max=100"`
	Barangay     string `json:"barangay" validate:"required,max=100"`
	PurokID      *int64 `json:"purok_id,omitempty"`

	Gender string `json:"gender" validate:"required"`

	Age      int        `json:"age" validate:"required"`
	Contact  *string    `json:"contact,omitempty" validate:"omitempty,max=50"`
	Birthday *time.Time `json:"birthday,omitempty"`

	CivilStatus    string `json:"civil_status" validate:"required,max=50"`
	AgeBracket     string `json:"age_bracket" validate:"required,max=50"`
	Classification string `json:"classification" validate:"required,max=100"`
	Education      string `json:"education" validate:"required,max=100"`
	WorkStatus     string `json:"work_status" validate:"required,max=100"`

	RegisteredSKVoter       string `json:"registered_sk_voter" validate:"required"`
	RegisteredNationalVoter string `json:"registered_national_voter" validate:"required"`
	VotedLastElection       string `json:"voted_last_election" validate:"required"`

	MeetingAttended   string  `json:"meeting_attended" validate:"required"`
	TimesAttended     *int    `json:"times_attended,omitempty"`
	ReasonNotAttended *string `json:"reason_not_attended,omitempty"`

	Household string `json:"household" validate:"required,max=500"`

	// Populated by the handler after the upload step, before the transaction.
	Attachment *models.YouthAttachment `json:"-"`
}

// UpdateYouthProfileRequest updates a subset of profile slices. Nil sections
// are left untouched.
type UpdateYouthProfileRequest struct {
	YouthID int64 `json:"-"`

	Name          *models.YouthName          `json:"name,omitempty"`
	Location      *models.YouthLocation      `json:"location,omitempty"`
	Gender        *models.YouthGender        `json:"gender,omitempty"`
	Info          *models.YouthInfo          `json:"info,omitempty"`
	Demographics  *models.YouthDemographics  `json:"demographics,omitempty"`
	Survey        *models.YouthSurvey        `json:"survey,omitempty"`
	MeetingSurvey *models.YouthMeetingSurvey `json:"meeting_survey,omitempty"`
	Household     *models.YouthHousehold     `json:"household,omitempty"`
}

// ===============================
// FEED
// ===============================

// CreatePostRequest creates a feed post. Media is uploaded before the
// database write; only the resulting URL is stored.
type CreatePostRequest struct {
	OfficialID  int64   `json:"-"`
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"required,max=10000"`
	MediaType   *string `json:"media_type,omitempty" validate:"omitempty,oneof=image video"`
	MediaURL    *string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest updates the author's own post.
type UpdatePostRequest struct {
	PostID      int64   `json:"-"`
	OfficialID  int64   `json:"-"`
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"required,max=10000"`
	MediaType   *string `json:"media_type,omitempty" validate:"omitempty,oneof=image video"`
	MediaURL    *string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// CreateCommentRequest creates a comment or reply by either principal kind.
type CreateCommentRequest struct {
	PostID          int64        `json:"post_id" validate:"required,min=1"`
	ParentCommentID *int64       `json:"parent_comment_id,omitempty"`
	Content         string       `json:"content" validate:"required,min=1,max=5000"`
	Author          models.Actor `json:"-"`
}

// UpdateCommentRequest edits the author's own comment.
type UpdateCommentRequest struct {
	CommentID int64        `json:"-"`
	Content   string       `json:"content" validate:"required,min=1,max=5000"`
	Author    models.Actor `json:"-"`
}

// ModerationRequest targets an actor for ban or unban.
type ModerationRequest struct {
	Actor  models.Actor `json:"actor" validate:"required"`
	Reason *string      `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ===============================
// DASHBOARD
// ===============================

// DashboardSummary aggregates registry counts for the officials' dashboard.
type DashboardSummary struct {
	TotalYouths      int64            `json:"total_youths"`
	Verified         int64            `json:"verified"`
	Unverified       int64            `json:"unverified"`
	Deleted          int64            `json:"deleted"`
	ByGender         map[string]int64 `json:"by_gender"`
	ByPurok          map[string]int64 `json:"by_purok"`
	BySKVoter        map[string]int64 `json:"by_sk_voter"`
	AgeDistribution  map[string]int64 `json:"age_distribution"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// ===============================
// FEEDBACK
// ===============================

// FeedbackFormRequest creates or updates a feedback form.
type FeedbackFormRequest struct {
	FormID      int64  `json:"-"`
	OfficialID  int64  `json:"-"`
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"required,max=5000"`
}

// FeedbackReplyRequest submits or re-submits a youth's reply to a form.
type FeedbackReplyRequest struct {
	FormID  int64  `json:"-"`
	YouthID int64  `json:"-"`
	Body    string `json:"body" validate:"required,min=1,max=5000"`
}
