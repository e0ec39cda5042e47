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

type notificationRepoMock struct {
	repositories.NotificationRepository
	created []*models.Notification
}

func (m *notificationRepoMock) Create(ctx context.Context, n *models.Notification) error {
	m.created = append(m.created, n)
	return nil
}

func TestNotifyDropsSelfNotification(t *testing.T) {
	repo := &notificationRepoMock{}
	svc := NewNotificationService(repo, zap.NewNop())

	self := models.Actor{Kind: models.ActorYouth, ID: 8}
	err := svc.Notify(context.Background(), &models.Notification{
		Recipient: self,
		Actor:     self,
		Type:      models.NotificationComment,
	})

	require.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestNotifyPersistsAndPushesToSubscriber(t *testing.T) {
	repo := &notificationRepoMock{}
	svc := NewNotificationService(repo, zap.NewNop())

	recipient := models.Actor{Kind: models.ActorOfficial, ID: 1}
	ch, cancel := svc.Subscribe(recipient)
	defer cancel()

	n := &models.Notification{
		Recipient: recipient,
		Actor:     models.Actor{Kind: models.ActorYouth, ID: 2},
		Type:      models.NotificationReaction,
	}
	require.NoError(t, svc.Notify(context.Background(), n))

	require.Len(t, repo.created, 1)
	select {
	case got := <-ch:
		assert.Equal(t, n, got)
	default:
		t.Fatal("expected a pushed notification")
	}
}

func TestNotifySkipsOtherRecipients(t *testing.T) {
	svc := NewNotificationService(&notificationRepoMock{}, zap.NewNop())

	ch, cancel := svc.Subscribe(models.Actor{Kind: models.ActorOfficial, ID: 1})
	defer cancel()

	require.NoError(t, svc.Notify(context.Background(), &models.Notification{
		Recipient: models.Actor{Kind: models.ActorOfficial, ID: 99},
		Actor:     models.Actor{Kind: models.ActorYouth, ID: 2},
		Type:      models.NotificationComment,
	}))

	select {
	case <-ch:
		t.Fatal("notification pushed to the wrong recipient")
	default:
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	svc := NewNotificationService(&notificationRepoMock{}, zap.NewNop())

	ch, cancel := svc.Subscribe(models.Actor{Kind: models.ActorYouth, ID: 3})
	cancel()

	_, open := <-ch
	assert.False(t, open)
}

func TestBroadcastDropsWhenSubscriberIsFull(t *testing.T) {
	repo := &notificationRepoMock{}
	svc := NewNotificationService(repo, zap.NewNop())

	recipient := models.Actor{Kind: models.ActorYouth, ID: 6}
	ch, cancel := svc.Subscribe(recipient)
	defer cancel()

	actor := models.Actor{Kind: models.ActorOfficial, ID: 1}
	for i := 0; i < 20; i++ {
		require.NoError(t, svc.Notify(context.Background(), &models.Notification{
			Recipient: recipient,
			Actor:     actor,
			Type:      models.NotificationComment,
		}))
	}

	// Everything is persisted even though the channel only buffered some.
	assert.Len(t, repo.created, 20)
	assert.Len(t, ch, 16)
}
