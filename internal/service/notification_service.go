package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	// Broadcast fans one notification out to every member. Used for voting
	// phase changes and winner announcements.
	Broadcast(ctx context.Context, actorID uuid.UUID, entityID uuid.UUID, entitySlug, entityType, notifType, message string) error
	GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkAsRead(id uuid.UUID) error
	MarkAllAsRead(userID uuid.UUID) error
	UnreadCount(userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	userRepo    repository.UserRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *model.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.UserID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	return nil
}

func (s *notificationService) Broadcast(ctx context.Context, actorID uuid.UUID, entityID uuid.UUID, entitySlug, entityType, notifType, message string) error {
	ids, err := s.userRepo.FindAllIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		userID, err := uuid.Parse(id)
		if err != nil || userID == actorID {
			continue
		}

		notification := &model.Notification{
			UserID:     userID,
			ActorID:    actorID,
			EntityID:   entityID,
			EntitySlug: entitySlug,
			EntityType: entityType,
			Type:       notifType,
			Message:    message,
		}
		if err := s.CreateNotification(ctx, notification); err != nil {
			log.Printf("failed to deliver broadcast notification to %s: %v", id, err)
		}
	}

	return nil
}

func (s *notificationService) GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.GetByUserID(userID, limit, offset)
}

func (s *notificationService) MarkAsRead(id uuid.UUID) error {
	return s.repo.MarkAsRead(id)
}

func (s *notificationService) MarkAllAsRead(userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(userID)
}

func (s *notificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(userID)
}
