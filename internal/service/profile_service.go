package service

import (
	"context"
	"io"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/storage"
	"github.com/google/uuid"
)

type ProfileService interface {
	GetByUsername(ctx context.Context, username string) (*dto.ProfileResponse, error)
	GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (string, error)
}

type profileService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	fileStorage storage.ImageStorage
}

func NewProfileService(userRepo repository.UserRepository, followRepo repository.FollowRepository, fileStorage storage.ImageStorage) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		fileStorage: fileStorage,
	}
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.mapProfile(ctx, user), nil
}

func (s *profileService) GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	return s.mapProfile(ctx, user), nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	if user.Profile == nil {
		user.Profile = &model.Profile{UserID: user.ID}
	}
	if req.FullName != "" {
		user.Profile.FullName = req.FullName
	}
	if req.Bio != nil {
		user.Profile.Bio = req.Bio
	}
	if req.FavoriteAuthor != nil {
		user.Profile.FavoriteAuthor = req.FavoriteAuthor
	}
	if req.CurrentlyReading != nil {
		user.Profile.CurrentlyReading = req.CurrentlyReading
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.mapProfile(ctx, user), nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return "", err
	}

	url, err := s.fileStorage.UploadImage(ctx, r, "avatars", fileName)
	if err != nil {
		return "", err
	}

	// Best-effort cleanup of the previous avatar
	if user.AvatarURL != nil {
		_ = s.fileStorage.DeleteImage(ctx, *user.AvatarURL)
	}

	user.AvatarURL = &url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	return url, nil
}

func (s *profileService) mapProfile(ctx context.Context, user *model.User) *dto.ProfileResponse {
	followers, _ := s.followRepo.CountFollowers(ctx, user.ID)

	resp := &dto.ProfileResponse{
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Verified:  user.Verified,
		Followers: followers,
		JoinedAt:  user.CreatedAt.Format("2006-01-02"),
	}
	if user.Profile != nil {
		resp.FullName = user.Profile.FullName
		resp.Bio = user.Profile.Bio
		resp.FavoriteAuthor = user.Profile.FavoriteAuthor
		resp.CurrentlyReading = user.Profile.CurrentlyReading
	}
	return resp
}
