package repository

import (
	"context"
	"errors"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"gorm.io/gorm"
)

type TagRepository interface {
	FindOrCreate(ctx context.Context, name, slug string) (*model.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*model.Tag, error)
	FindAll(ctx context.Context) ([]model.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindOrCreate(ctx context.Context, name, slug string) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = model.Tag{Name: name, Slug: slug}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		// Concurrent creation of the same tag: fetch the winner.
		if errors.Is(translateError(err), apperror.ErrDuplicate) {
			if ferr := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; ferr == nil {
				return &tag, nil
			}
		}
		return nil, translateError(err)
	}
	return &tag, nil
}

func (r *tagRepository) FindBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, translateError(err)
	}
	return &tag, nil
}

func (r *tagRepository) FindAll(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}
