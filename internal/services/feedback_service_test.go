package services

import (
	"context"
	"database/sql"
	"testing"

	"sklink/internal/models"
	"sklink/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type feedbackRepoMock struct {
	repositories.FeedbackRepository
	form     *models.FeedbackForm
	upserted []*models.FeedbackReply
}

func (m *feedbackRepoMock) GetForm(ctx context.Context, id int64) (*models.FeedbackForm, error) {
	if m.form == nil {
		return nil, sql.ErrNoRows
	}
	return m.form, nil
}

func (m *feedbackRepoMock) UpsertReply(ctx context.Context, reply *models.FeedbackReply) error {
	m.upserted = append(m.upserted, reply)
	return nil
}

func TestReplyUpserts(t *testing.T) {
	repo := &feedbackRepoMock{form: &models.FeedbackForm{ID: 4, OfficialID: 1}}
	svc := NewFeedbackService(repo, zap.NewNop())

	first, err := svc.Reply(context.Background(), &FeedbackReplyRequest{FormID: 4, YouthID: 9, Body: "first answer"})
	require.NoError(t, err)
	second, err := svc.Reply(context.Background(), &FeedbackReplyRequest{FormID: 4, YouthID: 9, Body: "revised answer"})
	require.NoError(t, err)

	assert.Equal(t, "first answer", first.Body)
	assert.Equal(t, "revised answer", second.Body)
	assert.Len(t, repo.upserted, 2)
}

func TestReplyToMissingForm(t *testing.T) {
	svc := NewFeedbackService(&feedbackRepoMock{}, zap.NewNop())

	_, err := svc.Reply(context.Background(), &FeedbackReplyRequest{FormID: 4, YouthID: 9, Body: "hello"})

	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestUpdateFormOwnershipEnforced(t *testing.T) {
	repo := &feedbackRepoMock{form: &models.FeedbackForm{ID: 4, OfficialID: 1, Title: "Old", Description: "Old desc"}}
	svc := NewFeedbackService(repo, zap.NewNop())

	_, err := svc.UpdateForm(context.Background(), &FeedbackFormRequest{
		FormID:      4,
		OfficialID:  2,
		Title:       "New title",
		Description: "New description",
	})

	require.Error(t, err)
	assert.True(t, IsErrorType(err, "FORBIDDEN"))
}
