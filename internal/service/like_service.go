package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type LikeService interface {
	LikePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error
	UnlikePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error
	GetPostLikes(ctx context.Context, postID uuid.UUID) (int64, error)
	CheckUserLikedPost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) (bool, error)
}

type likeService struct {
	likeRepo            repository.LikeRepository
	postRepo            repository.PostRepository
	notificationService NotificationService
	redisClient         *redis.Client
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository, notificationService NotificationService, redisClient *redis.Client) LikeService {
	return &likeService{
		likeRepo:            likeRepo,
		postRepo:            postRepo,
		notificationService: notificationService,
		redisClient:         redisClient,
	}
}

func likeCountKey(postID uuid.UUID) string {
	return fmt.Sprintf("post_likes:%s", postID.String())
}

func (s *likeService) LikePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Deleted {
		return apperror.New(0, "post has been deleted", apperror.ErrNotFound)
	}

	// The unique index rejects a second like from the same user.
	like := &model.Like{UserID: userID, PostID: postID}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return err
	}

	s.invalidateCount(ctx, postID)

	if post.UserID != userID {
		go func() {
			notification := &model.Notification{
				UserID:     post.UserID,
				ActorID:    userID,
				EntityID:   postID,
				EntityType: "post",
				Type:       "like",
				Message:    "Someone liked your post",
			}
			_ = s.notificationService.CreateNotification(context.Background(), notification)
		}()
	}

	return nil
}

func (s *likeService) UnlikePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	if err := s.likeRepo.Delete(ctx, userID, postID); err != nil {
		return err
	}
	s.invalidateCount(ctx, postID)
	return nil
}

// GetPostLikes serves the counter from Redis when possible and falls back to
// the database, refreshing the cache.
func (s *likeService) GetPostLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, likeCountKey(postID)).Result(); err == nil {
			if count, perr := strconv.ParseInt(cached, 10, 64); perr == nil {
				return count, nil
			}
		}
	}

	count, err := s.likeRepo.CountByPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	if s.redisClient != nil {
		s.redisClient.Set(ctx, likeCountKey(postID), count, 10*time.Minute)
	}

	return count, nil
}

func (s *likeService) CheckUserLikedPost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, postID)
}

func (s *likeService) invalidateCount(ctx context.Context, postID uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, likeCountKey(postID))
	}
}
