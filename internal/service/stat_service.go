package service

import (
	"context"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
)

type StatService interface {
	TotalMembers(ctx context.Context) (int64, error)
	TrendingThreads(ctx context.Context, limit int) ([]dto.PostResponse, error)
}

type statService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	likeService LikeService
}

func NewStatService(userRepo repository.UserRepository, postRepo repository.PostRepository, likeService LikeService) StatService {
	return &statService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		likeService: likeService,
	}
}

func (s *statService) TotalMembers(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

func (s *statService) TrendingThreads(ctx context.Context, limit int) ([]dto.PostResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	posts, err := s.postRepo.FindTrending(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		author := dto.AuthorResponse{Username: "Unknown"}
		if post.User.Username != "" {
			author.Username = post.User.Username
			author.AvatarURL = post.User.AvatarURL
		}

		var subclubSlug string
		if post.Subclub != nil {
			subclubSlug = post.Subclub.Slug
		}

		likesCount, _ := s.likeService.GetPostLikes(ctx, post.ID)

		responses = append(responses, dto.PostResponse{
			ID:          post.ID,
			SubclubSlug: subclubSlug,
			Title:       post.Title,
			Content:     post.Content,
			Author:      author,
			Views:       post.Views,
			LikesCount:  likesCount,
			CreatedAt:   post.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return responses, nil
}
