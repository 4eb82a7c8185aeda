package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/google/uuid"
)

type InviteService interface {
	CreateInvite(ctx context.Context, userID uuid.UUID) (*dto.InviteResponse, error)
	ListMyInvites(ctx context.Context, userID uuid.UUID) ([]dto.InviteResponse, error)
}

type inviteService struct {
	inviteRepo repository.InviteRepository
	userRepo   repository.UserRepository
	lifetime   time.Duration
}

func NewInviteService(inviteRepo repository.InviteRepository, userRepo repository.UserRepository, lifetime time.Duration) InviteService {
	return &inviteService{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		lifetime:   lifetime,
	}
}

// CreateInvite issues a single-use code. Only verified members and admins can
// invite new readers.
func (s *inviteService) CreateInvite(ctx context.Context, userID uuid.UUID) (*dto.InviteResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if !user.Verified && user.Role.Name != "admin" {
		return nil, apperror.New(0, "only verified members can send invites", apperror.ErrForbidden)
	}

	code, err := randomCode()
	if err != nil {
		return nil, err
	}

	invite := &model.Invite{
		Code:        code,
		InvitedByID: userID,
		ExpiresAt:   time.Now().Add(s.lifetime),
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}

	return mapInvite(invite), nil
}

func (s *inviteService) ListMyInvites(ctx context.Context, userID uuid.UUID) ([]dto.InviteResponse, error) {
	invites, err := s.inviteRepo.FindByInviter(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.InviteResponse, 0, len(invites))
	for i := range invites {
		responses = append(responses, *mapInvite(&invites[i]))
	}
	return responses, nil
}

func mapInvite(invite *model.Invite) *dto.InviteResponse {
	resp := &dto.InviteResponse{
		Code:      invite.Code,
		ExpiresAt: invite.ExpiresAt.Format("2006-01-02 15:04:05"),
		CreatedAt: invite.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if invite.UsedByID != nil {
		usedBy := invite.UsedByID.String()
		resp.UsedBy = &usedBy
	}
	return resp
}

func randomCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
