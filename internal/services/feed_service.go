package services

import (
	"context"
	"database/sql"
	"errors"

	"sklink/internal/models"
	"sklink/internal/repositories"
	"sklink/internal/validation"

	"go.uber.org/zap"
)

type feedService struct {
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	reactions     repositories.ReactionRepository
	bans          repositories.BanRepository
	notifications NotificationService
	logger        *zap.Logger
}

// NewFeedService creates the feed service.
func NewFeedService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	reactions repositories.ReactionRepository,
	bans repositories.BanRepository,
	notifications NotificationService,
	logger *zap.Logger,
) FeedService {
	return &feedService{
		posts:         posts,
		comments:      comments,
		reactions:     reactions,
		bans:          bans,
		notifications: notifications,
		logger:        logger,
	}
}

// ===============================
// POSTS
// ===============================

func (s *feedService) CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	post := &models.Post{
		OfficialID:  req.OfficialID,
		Title:       req.Title,
		Description: req.Description,
		MediaType:   req.MediaType,
		MediaURL:    req.MediaURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, NewInternalError(err)
	}

	s.logger.Info("post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("official_id", post.OfficialID),
	)
	return post, nil
}

func (s *feedService) GetPost(ctx context.Context, id int64, viewer *models.Actor) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, viewer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("post", nil)
		}
		return nil, NewInternalError(err)
	}
	return post, nil
}

func (s *feedService) ListPosts(ctx context.Context, viewer *models.Actor, params models.PaginationParams) ([]*models.Post, models.PaginationMeta, error) {
	posts, meta, err := s.posts.List(ctx, viewer, params)
	if err != nil {
		return nil, models.PaginationMeta{}, NewInternalError(err)
	}
	return posts, meta, nil
}

func (s *feedService) UpdatePost(ctx context.Context, req *UpdatePostRequest) (*models.Post, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	post, err := s.GetPost(ctx, req.PostID, nil)
	if err != nil {
		return nil, err
	}
	if !post.IsOwnedBy(req.OfficialID) {
		return nil, NewForbiddenError("you can only edit your own posts")
	}

	post.Title = req.Title
	post.Description = req.Description
	post.MediaType = req.MediaType
	post.MediaURL = req.MediaURL
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, NewInternalError(err)
	}
	return post, nil
}

func (s *feedService) DeletePost(ctx context.Context, postID, officialID int64) error {
	post, err := s.GetPost(ctx, postID, nil)
	if err != nil {
		return err
	}
	if !post.IsOwnedBy(officialID) {
		return NewForbiddenError("you can only delete your own posts")
	}

	if err := s.posts.SoftDelete(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("post", nil)
		}
		return NewInternalError(err)
	}
	return nil
}

// ===============================
// COMMENTS
// ===============================

func (s *feedService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}
	if err := s.requireNotBanned(ctx, req.Author); err != nil {
		return nil, err
	}

	post, err := s.GetPost(ctx, req.PostID, nil)
	if err != nil {
		return nil, err
	}

	var parent *models.Comment
	if req.ParentCommentID != nil {
		parent, err = s.comments.GetByID(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, NewNotFoundError("parent comment", nil)
			}
			return nil, NewInternalError(err)
		}
		if parent.PostID != req.PostID {
			return nil, NewValidationError("parent comment belongs to a different post", nil)
		}
	}

	comment := &models.Comment{
		PostID:          req.PostID,
		ParentCommentID: req.ParentCommentID,
		Author:          req.Author,
		Content:         req.Content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, NewInternalError(err)
	}

	s.fanOutCommentNotification(ctx, comment, post, parent)
	return comment, nil
}

// GetCommentForest loads the flat creation-ordered rows and links them into
// trees in one linear pass. Creation order guarantees a parent is seen
// before any of its children; a comment whose parent is hidden or gone
// surfaces as an orphaned root.
func (s *feedService) GetCommentForest(ctx context.Context, postID int64) ([]*models.Comment, error) {
	flat, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return AssembleCommentForest(flat), nil
}

// AssembleCommentForest links flat creation-ordered comments into trees.
// Hidden comments are dropped along with their place in the hierarchy, so
// their visible descendants become roots.
func AssembleCommentForest(flat []*models.Comment) []*models.Comment {
	byID := make(map[int64]*models.Comment, len(flat))
	roots := make([]*models.Comment, 0, len(flat))

	for _, c := range flat {
		if c.Hidden {
			continue
		}
		byID[c.ID] = c
		if c.ParentCommentID != nil {
			if parent, ok := byID[*c.ParentCommentID]; ok {
				parent.Children = append(parent.Children, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

func (s *feedService) UpdateComment(ctx context.Context, req *UpdateCommentRequest) (*models.Comment, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	comment, err := s.getComment(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}
	if !comment.IsAuthoredBy(req.Author) {
		return nil, NewForbiddenError("you can only edit your own comments")
	}

	comment.Content = req.Content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, NewInternalError(err)
	}
	return comment, nil
}

func (s *feedService) DeleteComment(ctx context.Context, commentID int64, author models.Actor) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !comment.IsAuthoredBy(author) {
		return NewForbiddenError("you can only delete your own comments")
	}

	if err := s.comments.SoftDelete(ctx, commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("comment", nil)
		}
		return NewInternalError(err)
	}
	return nil
}

// ===============================
// MODERATION
// ===============================

func (s *feedService) HideComment(ctx context.Context, commentID int64, reason *string) error {
	if err := s.comments.SetHidden(ctx, commentID, true, reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("comment", nil)
		}
		return NewInternalError(err)
	}
	s.logger.Info("comment hidden", zap.Int64("comment_id", commentID))
	return nil
}

func (s *feedService) UnhideComment(ctx context.Context, commentID int64) error {
	if err := s.comments.SetHidden(ctx, commentID, false, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("comment", nil)
		}
		return NewInternalError(err)
	}
	return nil
}

func (s *feedService) BanActor(ctx context.Context, req *ModerationRequest, bannedBy int64) error {
	if req.Actor.ID <= 0 {
		return NewValidationError("actor is required", nil)
	}
	if err := s.bans.Ban(ctx, req.Actor, bannedBy, req.Reason); err != nil {
		return NewInternalError(err)
	}
	s.logger.Info("actor banned from feed",
		zap.String("actor", req.Actor.String()),
		zap.Int64("banned_by", bannedBy),
	)
	return nil
}

func (s *feedService) UnbanActor(ctx context.Context, actor models.Actor) error {
	if err := s.bans.Lift(ctx, actor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("ban", nil)
		}
		return NewInternalError(err)
	}
	s.logger.Info("actor unbanned", zap.String("actor", actor.String()))
	return nil
}

func (s *feedService) ListBans(ctx context.Context) ([]*models.FeedBan, error) {
	bans, err := s.bans.ListActive(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return bans, nil
}

// ===============================
// REACTIONS
// ===============================

func (s *feedService) React(ctx context.Context, postID int64, actor models.Actor, reactionType string) (*models.Reaction, error) {
	if !models.ValidReactionType(reactionType) {
		return nil, NewValidationError("reaction type must be like, heart or wow", nil)
	}
	if err := s.requireNotBanned(ctx, actor); err != nil {
		return nil, err
	}

	post, err := s.GetPost(ctx, postID, nil)
	if err != nil {
		return nil, err
	}

	reaction, created, err := s.reactions.Upsert(ctx, postID, actor, reactionType)
	if err != nil {
		return nil, NewInternalError(err)
	}

	// Only a fresh reaction notifies; switching type is not a new event.
	if created {
		s.notify(ctx, &models.Notification{
			Recipient: models.Actor{Kind: models.ActorOfficial, ID: post.OfficialID},
			Actor:     actor,
			PostID:    &post.ID,
			Type:      models.NotificationReaction,
		})
	}
	return reaction, nil
}

func (s *feedService) Unreact(ctx context.Context, postID int64, actor models.Actor) error {
	if err := s.reactions.Delete(ctx, postID, actor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("reaction", nil)
		}
		return NewInternalError(err)
	}
	return nil
}

// ===============================
// HELPERS
// ===============================

func (s *feedService) getComment(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("comment", nil)
		}
		return nil, NewInternalError(err)
	}
	return comment, nil
}

func (s *feedService) requireNotBanned(ctx context.Context, actor models.Actor) error {
	banned, err := s.bans.IsBanned(ctx, actor)
	if err != nil {
		return NewInternalError(err)
	}
	if banned {
		return NewForbiddenError("you are banned from the feed")
	}
	return nil
}

// fanOutCommentNotification notifies the post author for top-level comments
// and the parent comment's author for replies. Self-notification is dropped
// by the notification service.
func (s *feedService) fanOutCommentNotification(ctx context.Context, comment *models.Comment, post *models.Post, parent *models.Comment) {
	if parent != nil {
		s.notify(ctx, &models.Notification{
			Recipient: parent.Author,
			Actor:     comment.Author,
			PostID:    &post.ID,
			CommentID: &comment.ID,
			Type:      models.NotificationReply,
		})
		return
	}
	s.notify(ctx, &models.Notification{
		Recipient: models.Actor{Kind: models.ActorOfficial, ID: post.OfficialID},
		Actor:     comment.Author,
		PostID:    &post.ID,
		CommentID: &comment.ID,
		Type:      models.NotificationComment,
	})
}

// notify never fails the triggering request.
func (s *feedService) notify(ctx context.Context, n *models.Notification) {
	if err := s.notifications.Notify(ctx, n); err != nil {
		s.logger.Warn("notification fan-out failed",
			zap.Error(err),
			zap.String("type", n.Type),
		)
	}
}
