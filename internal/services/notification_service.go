package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"sklink/internal/models"
	"sklink/internal/repositories"

	"go.uber.org/zap"
)

type notificationService struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger

	mu          sync.RWMutex
	subscribers map[string]map[chan *models.Notification]struct{}
}

// NewNotificationService creates the notification service with its live
// subscriber registry.
func NewNotificationService(repo repositories.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		logger:      logger,
		subscribers: make(map[string]map[chan *models.Notification]struct{}),
	}
}

// Notify persists the notification and pushes it to any connected clients.
// A notification targeting its own actor is dropped silently.
func (s *notificationService) Notify(ctx context.Context, n *models.Notification) error {
	if n.Recipient.Is(n.Actor) {
		return nil
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.broadcast(n)
	return nil
}

func (s *notificationService) List(ctx context.Context, recipient models.Actor, params models.PaginationParams) ([]*models.Notification, models.PaginationMeta, error) {
	notifications, meta, err := s.repo.ListByRecipient(ctx, recipient, params)
	if err != nil {
		return nil, models.PaginationMeta{}, NewInternalError(err)
	}
	return notifications, meta, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id int64, recipient models.Actor) error {
	if err := s.repo.MarkRead(ctx, id, recipient); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("notification", nil)
		}
		return NewInternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipient models.Actor) error {
	if err := s.repo.MarkAllRead(ctx, recipient); err != nil {
		return NewInternalError(err)
	}
	return nil
}

func (s *notificationService) CountUnread(ctx context.Context, recipient models.Actor) (int64, error) {
	count, err := s.repo.CountUnread(ctx, recipient)
	if err != nil {
		return 0, NewInternalError(err)
	}
	return count, nil
}

// Subscribe registers a live listener. The channel is buffered; a slow
// consumer loses pushes rather than blocking the writer.
func (s *notificationService) Subscribe(recipient models.Actor) (<-chan *models.Notification, func()) {
	ch := make(chan *models.Notification, 16)
	key := recipient.String()

	s.mu.Lock()
	if s.subscribers[key] == nil {
		s.subscribers[key] = make(map[chan *models.Notification]struct{})
	}
	s.subscribers[key][ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subscribers[key], ch)
		if len(s.subscribers[key]) == 0 {
			delete(s.subscribers, key)
		}
		s.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

func (s *notificationService) broadcast(n *models.Notification) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers[n.Recipient.String()] {
		select {
		case ch <- n:
		default:
			s.logger.Debug("dropping notification push, subscriber is slow",
				zap.String("recipient", n.Recipient.String()),
			)
		}
	}
}
