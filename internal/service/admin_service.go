package service

import (
	"context"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
)

type AdminService interface {
	ListUsers(ctx context.Context, page, limit int) (*dto.PaginatedUserResponse, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserSummaryResponse, error)
	DeleteUser(ctx context.Context, userID string) error
}

type adminService struct {
	userRepo repository.UserRepository
}

func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func (s *adminService) ListUsers(ctx context.Context, page, limit int) (*dto.PaginatedUserResponse, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}

	users, total, err := s.userRepo.FindAll(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.UserSummaryResponse, 0, len(users))
	for i := range users {
		u := users[i]
		data = append(data, dto.UserSummaryResponse{
			ID:        u.ID.String(),
			Username:  u.Username,
			Email:     u.Email,
			Role:      u.Role.Name,
			Verified:  u.Verified,
			CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &dto.PaginatedUserResponse{
		Data: data,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

// UpdateUser handles verification and role changes from the moderation panel.
func (s *adminService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserSummaryResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Verified != nil {
		user.Verified = *req.Verified
	}
	if req.Role != nil {
		role, err := s.userRepo.FindRoleByName(ctx, *req.Role)
		if err != nil {
			return nil, apperror.New(0, "unknown role", apperror.ErrBadRequest)
		}
		user.RoleID = &role.ID
		user.Role = *role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.UserSummaryResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role.Name,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
