package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	inviteRepo  repository.InviteRepository
	jwtSecret   string
	jwtLifetime time.Duration
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, inviteRepo repository.InviteRepository, jwtSecret string, jwtLifetime time.Duration) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		inviteRepo:  inviteRepo,
		jwtSecret:   jwtSecret,
		jwtLifetime: jwtLifetime,
	}
}

// Register creates an account gated on a valid invite code. The invite must
// be unused and unexpired; it is consumed in the same transaction as the
// user row.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	invite, err := s.inviteRepo.FindByCode(ctx, req.InviteCode)
	if err != nil {
		return nil, apperror.New(0, "invalid invite code", apperror.ErrForbidden)
	}
	if invite.UsedByID != nil {
		return nil, apperror.New(0, "invite code already used", apperror.ErrForbidden)
	}
	if time.Now().After(invite.ExpiresAt) {
		return nil, apperror.New(0, "invite code expired", apperror.ErrForbidden)
	}

	memberRole, err := s.userRepo.FindRoleByName(ctx, "member")
	if err != nil {
		return nil, fmt.Errorf("member role not seeded: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		RoleID:       &memberRole.ID,
		InvitedByID:  &invite.InvitedByID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile := model.Profile{UserID: user.ID, FullName: req.FullName}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Invite{}).
			Where("id = ? AND used_by_id IS NULL", invite.ID).
			Update("used_by_id", user.ID)
		if res.Error != nil {
			return res.Error
		}
		// Someone else consumed the code between the check and now.
		if res.RowsAffected == 0 {
			return apperror.ErrDuplicate
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrDuplicate
		}
		return nil, err
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:    token,
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     memberRole.Name,
		Verified: user.Verified,
	}, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:    token,
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role.Name,
		Verified: user.Verified,
	}, nil
}

func (s *authService) signToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
