package repository

import (
	"context"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubclubRepository interface {
	Create(ctx context.Context, subclub *model.Subclub) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Subclub, error)
	FindBySlug(ctx context.Context, slug string) (*model.Subclub, error)
	FindAll(ctx context.Context, offset, limit int) ([]model.Subclub, int64, error)
	Update(ctx context.Context, subclub *model.Subclub) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type subclubRepository struct {
	db *gorm.DB
}

func NewSubclubRepository(db *gorm.DB) SubclubRepository {
	return &subclubRepository{db: db}
}

func (r *subclubRepository) Create(ctx context.Context, subclub *model.Subclub) error {
	if err := r.db.WithContext(ctx).Create(subclub).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *subclubRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Subclub, error) {
	var subclub model.Subclub
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&subclub).Error; err != nil {
		return nil, translateError(err)
	}
	return &subclub, nil
}

func (r *subclubRepository) FindBySlug(ctx context.Context, slug string) (*model.Subclub, error) {
	var subclub model.Subclub
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("slug = ?", slug).
		First(&subclub).Error; err != nil {
		return nil, translateError(err)
	}
	return &subclub, nil
}

func (r *subclubRepository) FindAll(ctx context.Context, offset, limit int) ([]model.Subclub, int64, error) {
	var subclubs []model.Subclub
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Subclub{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Owner").
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&subclubs).Error; err != nil {
		return nil, 0, err
	}

	return subclubs, total, nil
}

func (r *subclubRepository) Update(ctx context.Context, subclub *model.Subclub) error {
	if err := r.db.WithContext(ctx).Save(subclub).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *subclubRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Subclub{}, "id = ?", id).Error
}
