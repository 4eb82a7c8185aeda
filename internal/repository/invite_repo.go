package repository

import (
	"context"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteRepository interface {
	Create(ctx context.Context, invite *model.Invite) error
	FindByCode(ctx context.Context, code string) (*model.Invite, error)
	MarkUsed(ctx context.Context, inviteID uuid.UUID, usedBy uuid.UUID) error
	FindByInviter(ctx context.Context, inviterID uuid.UUID) ([]model.Invite, error)
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	if err := r.db.WithContext(ctx).Create(invite).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *inviteRepository) FindByCode(ctx context.Context, code string) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&invite).Error; err != nil {
		return nil, translateError(err)
	}
	return &invite, nil
}

func (r *inviteRepository) MarkUsed(ctx context.Context, inviteID uuid.UUID, usedBy uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("id = ? AND used_by_id IS NULL", inviteID).
		Update("used_by_id", usedBy).Error
}

func (r *inviteRepository) FindByInviter(ctx context.Context, inviterID uuid.UUID) ([]model.Invite, error) {
	var invites []model.Invite
	err := r.db.WithContext(ctx).
		Where("invited_by_id = ?", inviterID).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}
