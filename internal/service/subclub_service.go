package service

import (
	"context"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/google/uuid"
)

type SubclubService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateSubclubRequest) (*dto.SubclubResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.SubclubResponse, error)
	List(ctx context.Context, page, limit int) (*dto.PaginatedSubclubResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, slug string) error
}

type subclubService struct {
	subclubRepo repository.SubclubRepository
	userRepo    repository.UserRepository
}

func NewSubclubService(subclubRepo repository.SubclubRepository, userRepo repository.UserRepository) SubclubService {
	return &subclubService{
		subclubRepo: subclubRepo,
		userRepo:    userRepo,
	}
}

// Create opens a new subclub. Only verified members get to grow the club map.
func (s *subclubService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateSubclubRequest) (*dto.SubclubResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if !user.Verified && user.Role.Name != "admin" {
		return nil, apperror.New(0, "only verified members can create subclubs", apperror.ErrForbidden)
	}

	subclub := &model.Subclub{
		Name:        req.Name,
		Slug:        Slugify(req.Name),
		Description: req.Description,
		OwnerID:     userID,
	}
	if subclub.Slug == "" {
		return nil, apperror.New(0, "subclub name must contain letters or digits", apperror.ErrInvalidInput)
	}

	if err := s.subclubRepo.Create(ctx, subclub); err != nil {
		return nil, err
	}

	subclub.Owner = *user
	return mapSubclub(subclub), nil
}

func (s *subclubService) GetBySlug(ctx context.Context, slug string) (*dto.SubclubResponse, error) {
	subclub, err := s.subclubRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return mapSubclub(subclub), nil
}

func (s *subclubService) List(ctx context.Context, page, limit int) (*dto.PaginatedSubclubResponse, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}

	subclubs, total, err := s.subclubRepo.FindAll(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.SubclubResponse, 0, len(subclubs))
	for i := range subclubs {
		data = append(data, *mapSubclub(&subclubs[i]))
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &dto.PaginatedSubclubResponse{
		Data: data,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *subclubService) Delete(ctx context.Context, userID uuid.UUID, slug string) error {
	subclub, err := s.subclubRepo.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return apperror.ErrUnauthorized
	}

	if subclub.OwnerID != userID && user.Role.Name != "admin" {
		return apperror.New(0, "only the owner or an admin can delete a subclub", apperror.ErrForbidden)
	}

	return s.subclubRepo.Delete(ctx, subclub.ID)
}

func mapSubclub(subclub *model.Subclub) *dto.SubclubResponse {
	owner := dto.AuthorResponse{Username: "Unknown"}
	if subclub.Owner.Username != "" {
		owner.Username = subclub.Owner.Username
		owner.AvatarURL = subclub.Owner.AvatarURL
	}

	return &dto.SubclubResponse{
		ID:          subclub.ID,
		Name:        subclub.Name,
		Slug:        subclub.Slug,
		Description: subclub.Description,
		Owner:       owner,
		CreatedAt:   subclub.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
