package repository

import (
	"context"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	// FindAllByScope returns every post and reply in a scope: one subclub, or
	// the global feed when subclubID is nil. The comment tree is built over
	// this flat set.
	FindAllByScope(ctx context.Context, subclubID *uuid.UUID) ([]*model.Post, error)
	// FindRoots pages through top-level posts of a scope, newest first.
	FindRoots(ctx context.Context, subclubID *uuid.UUID, offset, limit int) ([]*model.Post, int64, error)
	FindRootsByAuthors(ctx context.Context, authorIDs []uuid.UUID, offset, limit int) ([]*model.Post, int64, error)
	FindRootsByTag(ctx context.Context, tagSlug string, offset, limit int) ([]*model.Post, int64, error)
	FindTrending(ctx context.Context, limit int) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	// Tombstone clears content and author visibility while keeping the row,
	// so descendant replies stay attached.
	Tombstone(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ReplaceTags(ctx context.Context, post *model.Post, tags []model.Tag) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Profile").
		Preload("Tags").
		Preload("Subclub").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

func (r *postRepository) FindAllByScope(ctx context.Context, subclubID *uuid.UUID) ([]*model.Post, error) {
	var posts []*model.Post

	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags")
	if subclubID != nil {
		query = query.Where("subclub_id = ?", *subclubID)
	} else {
		query = query.Where("subclub_id IS NULL")
	}

	err := query.Order("created_at ASC").Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindRoots(ctx context.Context, subclubID *uuid.UUID, offset, limit int) ([]*model.Post, int64, error) {
	query := r.db.WithContext(ctx).Where("parent_id IS NULL")
	if subclubID != nil {
		query = query.Where("subclub_id = ?", *subclubID)
	} else {
		query = query.Where("subclub_id IS NULL")
	}
	return r.pageRoots(query, offset, limit)
}

func (r *postRepository) FindRootsByAuthors(ctx context.Context, authorIDs []uuid.UUID, offset, limit int) ([]*model.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Where("parent_id IS NULL AND user_id IN ?", authorIDs)
	return r.pageRoots(query, offset, limit)
}

func (r *postRepository) FindRootsByTag(ctx context.Context, tagSlug string, offset, limit int) ([]*model.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("posts.parent_id IS NULL AND tags.slug = ?", tagSlug)
	return r.pageRoots(query, offset, limit)
}

func (r *postRepository) pageRoots(query *gorm.DB, offset, limit int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	if err := query.Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Preload("Tags").
		Preload("Subclub").
		Order("posts.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepository) FindTrending(ctx context.Context, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Subclub").
		Where("parent_id IS NULL AND deleted = ?", false).
		Where("created_at > ?", time.Now().AddDate(0, 0, -7)).
		Order("views DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *postRepository) Tombstone(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted": true,
			"content": "",
			"title":   nil,
		}).Error
}

func (r *postRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *postRepository) ReplaceTags(ctx context.Context, post *model.Post, tags []model.Tag) error {
	return r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags)
}
