package service

import (
	"context"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/google/uuid"
)

type FollowService interface {
	Follow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error
	Unfollow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error
}

type followService struct {
	followRepo          repository.FollowRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, notificationService NotificationService) FollowService {
	return &followService{
		followRepo:          followRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *followService) Follow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error {
	followee, err := s.userRepo.FindByUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}
	if followee.ID == followerID {
		return apperror.New(0, "you cannot follow yourself", apperror.ErrBadRequest)
	}

	follow := &model.Follow{FollowerID: followerID, FolloweeID: followee.ID}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return err
	}

	go func() {
		notification := &model.Notification{
			UserID:     followee.ID,
			ActorID:    followerID,
			EntityID:   followerID,
			EntityType: "user",
			Type:       "follow",
			Message:    "You have a new follower",
		}
		_ = s.notificationService.CreateNotification(context.Background(), notification)
	}()

	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error {
	followee, err := s.userRepo.FindByUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, followerID, followee.ID)
}
