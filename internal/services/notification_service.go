package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
)

// NotificationService reads the in-app notification rows that the event
// service mirrors.
type NotificationService interface {
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id uint, userID string) error
}

type notificationService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		logger: logger,
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.repo.Notification().GetByRecipient(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, userID string) error {
	if err := s.repo.Notification().MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
