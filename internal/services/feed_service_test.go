package services

import (
	"context"
	"testing"

	"sklink/internal/models"
	"sklink/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func comment(id int64, parent *int64, hidden bool) *models.Comment {
	return &models.Comment{ID: id, PostID: 1, ParentCommentID: parent, Hidden: hidden}
}

func ptr(v int64) *int64 { return &v }

func TestAssembleCommentForest(t *testing.T) {
	flat := []*models.Comment{
		comment(1, nil, false),
		comment(2, ptr(1), false),
		comment(3, ptr(1), false),
		comment(4, ptr(2), false),
		comment(5, nil, false),
	}

	roots := AssembleCommentForest(flat)

	require.Len(t, roots, 2)
	assert.Equal(t, int64(1), roots[0].ID)
	assert.Equal(t, int64(5), roots[1].ID)

	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, int64(2), roots[0].Children[0].ID)
	assert.Equal(t, int64(3), roots[0].Children[1].ID)

	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, int64(4), roots[0].Children[0].Children[0].ID)
}

func TestAssembleCommentForestHiddenParentOrphansChildren(t *testing.T) {
	flat := []*models.Comment{
		comment(1, nil, false),
		comment(2, ptr(1), true),
		comment(3, ptr(2), false),
	}

	roots := AssembleCommentForest(flat)

	// The hidden comment is gone and its reply surfaces as a root.
	require.Len(t, roots, 2)
	assert.Equal(t, int64(1), roots[0].ID)
	assert.Empty(t, roots[0].Children)
	assert.Equal(t, int64(3), roots[1].ID)
}

func TestAssembleCommentForestEmpty(t *testing.T) {
	assert.Empty(t, AssembleCommentForest(nil))
}

// ===============================
// MOCKS
// ===============================

type postRepoMock struct {
	repositories.PostRepository
	post *models.Post
}

func (m *postRepoMock) GetByID(ctx context.Context, id int64, viewer *models.Actor) (*models.Post, error) {
	return m.post, nil
}

type reactionRepoMock struct {
	repositories.ReactionRepository
	created bool
	calls   int
}

func (m *reactionRepoMock) Upsert(ctx context.Context, postID int64, actor models.Actor, reactionType string) (*models.Reaction, bool, error) {
	m.calls++
	return &models.Reaction{PostID: postID, Author: actor, Type: reactionType}, m.created, nil
}

type banRepoMock struct {
	repositories.BanRepository
	banned bool
}

func (m *banRepoMock) IsBanned(ctx context.Context, actor models.Actor) (bool, error) {
	return m.banned, nil
}

type notifierMock struct {
	NotificationService
	sent []*models.Notification
}

func (m *notifierMock) Notify(ctx context.Context, n *models.Notification) error {
	m.sent = append(m.sent, n)
	return nil
}

func newFeedFixture(created bool) (*feedService, *reactionRepoMock, *notifierMock) {
	reactions := &reactionRepoMock{created: created}
	notifier := &notifierMock{}
	svc := &feedService{
		posts:         &postRepoMock{post: &models.Post{ID: 7, OfficialID: 3}},
		reactions:     reactions,
		bans:          &banRepoMock{},
		notifications: notifier,
		logger:        zap.NewNop(),
	}
	return svc, reactions, notifier
}

func TestReactNewReactionNotifiesPostAuthor(t *testing.T) {
	svc, _, notifier := newFeedFixture(true)
	actor := models.Actor{Kind: models.ActorYouth, ID: 42}

	reaction, err := svc.React(context.Background(), 7, actor, models.ReactionHeart)

	require.NoError(t, err)
	assert.Equal(t, models.ReactionHeart, reaction.Type)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotificationReaction, notifier.sent[0].Type)
	assert.Equal(t, models.Actor{Kind: models.ActorOfficial, ID: 3}, notifier.sent[0].Recipient)
	assert.Equal(t, actor, notifier.sent[0].Actor)
}

func TestReactTypeSwitchDoesNotNotify(t *testing.T) {
	svc, reactions, notifier := newFeedFixture(false)
	actor := models.Actor{Kind: models.ActorYouth, ID: 42}

	_, err := svc.React(context.Background(), 7, actor, models.ReactionWow)

	require.NoError(t, err)
	assert.Equal(t, 1, reactions.calls)
	assert.Empty(t, notifier.sent)
}

func TestReactRejectsUnknownType(t *testing.T) {
	svc, reactions, _ := newFeedFixture(true)

	_, err := svc.React(context.Background(), 7, models.Actor{Kind: models.ActorYouth, ID: 42}, "angry")

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Zero(t, reactions.calls)
}

func TestReactBannedActorForbidden(t *testing.T) {
	svc, _, _ := newFeedFixture(true)
	svc.bans = &banRepoMock{banned: true}

	_, err := svc.React(context.Background(), 7, models.Actor{Kind: models.ActorYouth, ID: 42}, models.ReactionLike)

	require.Error(t, err)
	assert.True(t, IsErrorType(err, "FORBIDDEN"))
}
