package repository

import (
	"context"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(ctx context.Context, follow *model.Follow) error
	Delete(ctx context.Context, followerID, followeeID uuid.UUID) error
	FindFolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
	FindFollowers(ctx context.Context, followeeID uuid.UUID, offset, limit int) ([]model.Follow, int64, error)
	CountFollowers(ctx context.Context, followeeID uuid.UUID) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *model.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) FindFolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

func (r *followRepository) FindFollowers(ctx context.Context, followeeID uuid.UUID, offset, limit int) ([]model.Follow, int64, error) {
	var follows []model.Follow
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("followee_id = ?", followeeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Follower").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&follows).Error; err != nil {
		return nil, 0, err
	}

	return follows, total, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, followeeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("followee_id = ?", followeeID).
		Count(&count).Error
	return count, err
}
