package models

import (
	"fmt"
	"strings"
	"time"
)

// ===============================
// PRINCIPALS
// ===============================

// ActorKind distinguishes the two disjoint principal kinds.
type ActorKind string

const (
	ActorOfficial ActorKind = "official"
	ActorYouth    ActorKind = "youth"
)

// Actor identifies one principal of either kind. It is the application-layer
// form of the paired nullable author columns in the feed tables.
type Actor struct {
	Kind ActorKind `json:"kind" validate:"required,oneof=official youth"`
	ID   int64     `json:"id" validate:"required,min=1"`
}

// OfficialID returns the official column value for this actor, or nil.
func (a Actor) OfficialID() *int64 {
	if a.Kind == ActorOfficial {
		return &a.ID
	}
	return nil
}

// YouthID returns the youth column value for this actor, or nil.
func (a Actor) YouthID() *int64 {
	if a.Kind == ActorYouth {
		return &a.ID
	}
	return nil
}

// Is reports whether the actor refers to the same principal.
func (a Actor) Is(other Actor) bool {
	return a.Kind == other.Kind && a.ID == other.ID
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%d", a.Kind, a.ID)
}

// Official roles. "super" officials can manage other officials; "natural"
// officials are ordinary staff. Both satisfy a generic "official" requirement.
const (
	RoleSuperOfficial   = "super_official"
	RoleNaturalOfficial = "natural_official"
)

// Official represents an administrator account.
type Official struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username" validate:"required,min=3,max=50,alphanum"`
	Email        string     `json:"email" db:"email" validate:"required,email,max=320"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role" validate:"required,oneof=super_official natural_official"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Youth represents a registered resident principal.
type Youth struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username" validate:"required,min=3,max=50,alphanum"`
	Email        string     `json:"email" db:"email" validate:"required,email,max=320"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Verified     bool       `json:"verified" db:"verified"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// Joined profile slices (populated by the detail query)
	Name          *YouthName          `json:"name,omitempty" db:"-"`
	Location      *YouthLocation      `json:"location,omitempty" db:"-"`
	Gender        *YouthGender        `json:"gender,omitempty" db:"-"`
	Info          *YouthInfo          `json:"info,omitempty" db:"-"`
	Demographics  *YouthDemographics  `json:"demographics,omitempty" db:"-"`
	Survey        *YouthSurvey        `json:"survey,omitempty" db:"-"`
	MeetingSurvey *YouthMeetingSurvey `json:"meeting_survey,omitempty" db:"-"`
	Household     *YouthHousehold     `json:"household,omitempty" db:"-"`
	Attachments   []*YouthAttachment  `json:"attachments,omitempty" db:"-"`
}

// Actor returns the tagged-union identity of the youth.
func (y *Youth) Actor() Actor {
	return Actor{Kind: ActorYouth, ID: y.ID}
}

// Actor returns the tagged-union identity of the official.
func (o *Official) Actor() Actor {
	return Actor{Kind: ActorOfficial, ID: o.ID}
}

// ===============================
// YOUTH PROFILE SLICES
// ===============================

type YouthName struct {
	YouthID    int64   `json:"-" db:"youth_id"`
	FirstName  string  `json:"first_name" db:"first_name" validate:"required,max=100"`
	MiddleName *string `json:"middle_name,omitempty" db:"middle_name" validate:"omitempty,max=100"`
	LastName   string  `json:"last_name" db:"last_name" validate:"required,max=100"`
	Suffix     *string `json:"suffix,omitempty" db:"suffix" validate:"omitempty,max=20"`
}

// FullName renders the display form used in listings and comment authorship.
func (n *YouthName) FullName() string {
	parts := []string{n.FirstName}
	if n.MiddleName != nil && *n.MiddleName != "" {
		parts = append(parts, *n.MiddleName)
	}
	parts = append(parts, n.LastName)
	if n.Suffix != nil && *n.Suffix != "" {
		parts = append(parts, *n.Suffix)
	}
	return strings.Join(parts, " ")
}

type YouthLocation struct {
	YouthID      int64   `json:"-" db:"youth_id"`
	Region       string  `json:"region" db:"region" validate:"required,max=100"`
	Province     string  `json:"province" db:"province" validate:"required,max=100"`
	Municipality string  `json:"municipality" db:"municipality" validate:"required,max=100"`
	Barangay     string  `json:"barangay" db:"barangay" validate:"required,max=100"`
	PurokID      *int64  `json:"purok_id,omitempty" db:"purok_id"`
	PurokName    *string `json:"purok_name,omitempty" db:"-"`
}

// Gender values accepted at registration.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

type YouthGender struct {
	YouthID int64  `json:"-" db:"youth_id"`
	Gender  string `json:"gender" db:"gender" validate:"required,oneof=male female"`
}

// Age bounds for the registry, inclusive.
const (
	MinAge = 16
	MaxAge = 30
)

type YouthInfo struct {
	YouthID  int64      `json:"-" db:"youth_id"`
	Age      int        `json:"age" db:"age" validate:"required,min=16,max=30"`
	Contact  *string    `json:"contact,omitempty" db:"contact" validate:"omitempty,max=50"`
	Birthday *time.Time `json:"birthday,omitempty" db:"birthday"`
}

type YouthDemographics struct {
	YouthID        int64  `json:"-" db:"youth_id"`
	CivilStatus    string `json:"civil_status" db:"civil_status" validate:"required,max=50"`
	AgeBracket     string `json:"age_bracket" db:"age_bracket" validate:"required,max=50"`
	Classification string `json:"classification" db:"classification" validate:"required,max=100"`
	Education      string `json:"education" db:"education" validate:"required,max=100"`
	WorkStatus     string `json:"work_status" db:"work_status" validate:"required,max=100"`
}

type YouthSurvey struct {
	YouthID                 int64  `json:"-" db:"youth_id"`
	RegisteredSKVoter       string `json:"registered_sk_voter" db:"registered_sk_voter"`
	RegisteredNationalVoter string `json:"registered_national_voter" db:"registered_national_voter"`
	VotedLastElection       string `json:"voted_last_election" db:"voted_last_election"`
}

type YouthMeetingSurvey struct {
	YouthID           int64   `json:"-" db:"youth_id"`
	Attended          string  `json:"attended" db:"attended"`
	TimesAttended     *int    `json:"times_attended,omitempty" db:"times_attended"`
	ReasonNotAttended *string `json:"reason_not_attended,omitempty" db:"reason_not_attended"`
}

type YouthHousehold struct {
	YouthID   int64  `json:"-" db:"youth_id"`
	Household string `json:"household" db:"household" validate:"required,max=500"`
}

type YouthAttachment struct {
	ID        int64     `json:"id" db:"id"`
	YouthID   int64     `json:"-" db:"youth_id"`
	FileURL   string    `json:"file_url" db:"file_url"`
	PublicID  string    `json:"-" db:"public_id"`
	Format    *string   `json:"format,omitempty" db:"format"`
	SizeBytes *int64    `json:"size_bytes,omitempty" db:"size_bytes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Purok is a local sub-precinct used for address classification.
type Purok struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" validate:"required,max=100"`

	// Computed
	TotalResidents int64 `json:"total_residents" db:"-"`
}

// ===============================
// SOCIAL FEED
// ===============================

// Post is authored by exactly one official.
type Post struct {
	ID          int64      `json:"id" db:"id"`
	OfficialID  int64      `json:"official_id" db:"official_id"`
	Title       string     `json:"title" db:"title" validate:"required,min=3,max=255"`
	Description string     `json:"description" db:"description" validate:"required,max=10000"`
	MediaType   *string    `json:"media_type,omitempty" db:"media_type"`
	MediaURL    *string    `json:"media_url,omitempty" db:"media_url"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// Joined fields
	AuthorName     string           `json:"author_name" db:"-"`
	CommentCount   int64            `json:"comment_count" db:"-"`
	ReactionCounts map[string]int64 `json:"reaction_counts,omitempty" db:"-"`
	ViewerReaction *string          `json:"viewer_reaction,omitempty" db:"-"`
}

// IsOwnedBy reports whether the post belongs to the given official.
func (p *Post) IsOwnedBy(officialID int64) bool {
	return p.OfficialID == officialID
}

// Comment belongs to one post, optionally to a parent comment, and is
// authored by either principal kind.
type Comment struct {
	ID              int64      `json:"id" db:"id"`
	PostID          int64      `json:"post_id" db:"post_id"`
	ParentCommentID *int64     `json:"parent_comment_id,omitempty" db:"parent_comment_id"`
	Author          Actor      `json:"author" db:"-"`
	AuthorName      string     `json:"author_name" db:"-"`
	Content         string     `json:"content" db:"content" validate:"required,min=1,max=5000"`
	Hidden          bool       `json:"hidden" db:"hidden"`
	HiddenReason    *string    `json:"hidden_reason,omitempty" db:"hidden_reason"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// Children is assembled in memory from the flat creation-ordered rows;
	// it is never stored.
	Children []*Comment `json:"children" db:"-"`
}

// IsAuthoredBy reports whether the comment was written by the given actor.
func (c *Comment) IsAuthoredBy(actor Actor) bool {
	return c.Author.Is(actor)
}

// Reaction types form a fixed closed set.
const (
	ReactionLike  = "like"
	ReactionHeart = "heart"
	ReactionWow   = "wow"
)

// ValidReactionType reports whether t is one of the closed set.
func ValidReactionType(t string) bool {
	switch t {
	case ReactionLike, ReactionHeart, ReactionWow:
		return true
	}
	return false
}

// Reaction is one row per (post, principal); re-reacting overwrites in place.
type Reaction struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	Author    Actor     `json:"author" db:"-"`
	Type      string    `json:"type" db:"type" validate:"required,oneof=like heart wow"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FeedBan blocks an actor from commenting and reacting until lifted.
type FeedBan struct {
	ID        int64      `json:"id" db:"id"`
	Actor     Actor      `json:"actor" db:"-"`
	BannedBy  int64      `json:"banned_by" db:"banned_by"`
	Reason    *string    `json:"reason,omitempty" db:"reason"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	LiftedAt  *time.Time `json:"lifted_at,omitempty" db:"lifted_at"`
}

// Notification types.
const (
	NotificationComment  = "comment"
	NotificationReply    = "reply"
	NotificationReaction = "reaction"
)

// Notification records one feed interaction for its recipient.
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	Recipient Actor     `json:"recipient" db:"-"`
	Actor     Actor     `json:"actor" db:"-"`
	PostID    *int64    `json:"post_id,omitempty" db:"post_id"`
	CommentID *int64    `json:"comment_id,omitempty" db:"comment_id"`
	Type      string    `json:"type" db:"type"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined
	ActorName string `json:"actor_name,omitempty" db:"-"`
}

// ===============================
// FEEDBACK
// ===============================

// FeedbackForm is an official-authored free-text form.
type FeedbackForm struct {
	ID          int64      `json:"id" db:"id"`
	OfficialID  int64      `json:"official_id" db:"official_id"`
	Title       string     `json:"title" db:"title" validate:"required,min=3,max=255"`
	Description string     `json:"description" db:"description" validate:"required,max=5000"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// Computed
	ReplyCount int64 `json:"reply_count" db:"-"`
}

// FeedbackReply is at most one per (form, youth); re-submission updates.
type FeedbackReply struct {
	ID        int64     `json:"id" db:"id"`
	FormID    int64     `json:"form_id" db:"form_id"`
	YouthID   int64     `json:"youth_id" db:"youth_id"`
	Body      string    `json:"body" db:"body" validate:"required,min=1,max=5000"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined
	YouthName string `json:"youth_name,omitempty" db:"-"`
}

// ===============================
// PAGINATION
// ===============================

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Limit  int    `json:"limit" validate:"min=1,max=100"`
	Offset int    `json:"offset" validate:"min=0"`
	Sort   string `json:"sort,omitempty" validate:"omitempty,oneof=created_at updated_at username id"`
	Order  string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// Normalize clamps the params to safe defaults.
func (p *PaginationParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Sort == "" {
		p.Sort = "created_at"
	}
	if p.Order != "asc" && p.Order != "desc" {
		p.Order = "desc"
	}
}
