package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error)
	// GetThread loads the discussion rooted at rootID: the root post plus
	// every reply reachable from it, nested, with the depth-cap rendering
	// directives attached.
	GetThread(ctx context.Context, rootID uuid.UUID) (*dto.PostResponse, error)
	ListThreads(ctx context.Context, filter dto.PostFilter) (*dto.PaginatedPostResponse, error)
	FollowedFeed(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.PaginatedPostResponse, error)
	UpdatePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error
}

type postService struct {
	postRepo            repository.PostRepository
	subclubRepo         repository.SubclubRepository
	userRepo            repository.UserRepository
	tagRepo             repository.TagRepository
	followRepo          repository.FollowRepository
	likeService         LikeService
	searchService       SearchService
	notificationService NotificationService
	redisClient         *redis.Client
	rateLimitGlobal     time.Duration
	rateLimitPost       time.Duration
}

func NewPostService(
	postRepo repository.PostRepository,
	subclubRepo repository.SubclubRepository,
	userRepo repository.UserRepository,
	tagRepo repository.TagRepository,
	followRepo repository.FollowRepository,
	likeService LikeService,
	searchService SearchService,
	notificationService NotificationService,
	redisClient *redis.Client,
	rateLimitGlobal, rateLimitPost time.Duration,
) PostService {
	return &postService{
		postRepo:            postRepo,
		subclubRepo:         subclubRepo,
		userRepo:            userRepo,
		tagRepo:             tagRepo,
		followRepo:          followRepo,
		likeService:         likeService,
		searchService:       searchService,
		notificationService: notificationService,
		redisClient:         redisClient,
		rateLimitGlobal:     rateLimitGlobal,
		rateLimitPost:       rateLimitPost,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	// Global cooldown
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "global", s.rateLimitGlobal)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "global")
		return nil, apperror.New(0, fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()), apperror.ErrRateLimitExceeded)
	}

	// Post-specific cooldown
	allowed, err = CheckAndSetRateLimit(ctx, s.redisClient, userID, "post", s.rateLimitPost)
	if err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, userID, "global")
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		_ = ClearRateLimit(ctx, s.redisClient, userID, "global")
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "post")
		return nil, apperror.New(0, fmt.Sprintf("you can only post every %.0f seconds. Please wait %.0f seconds", s.rateLimitPost.Seconds(), ttl.Seconds()), apperror.ErrRateLimitExceeded)
	}

	// Roll the cooldowns back when creation fails
	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ClearRateLimit(ctx, s.redisClient, userID, "global")
			_ = ClearRateLimit(ctx, s.redisClient, userID, "post")
		}
	}()

	var subclubID *uuid.UUID
	var subclubSlug string
	if req.SubclubSlug != "" {
		subclub, err := s.subclubRepo.FindBySlug(ctx, req.SubclubSlug)
		if err != nil {
			return nil, apperror.New(0, "subclub not found", apperror.ErrNotFound)
		}
		subclubID = &subclub.ID
		subclubSlug = subclub.Slug
	}

	var parentID *uuid.UUID
	var parent *model.Post
	if req.ParentID != "" {
		pid, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, apperror.New(0, "invalid parent id", apperror.ErrBadRequest)
		}
		parent, err = s.postRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apperror.New(0, "parent post not found", apperror.ErrNotFound)
		}
		// Replies inherit scope from the parent; a reply cannot cross into
		// another subclub.
		if !sameScope(parent.SubclubID, subclubID) && req.SubclubSlug != "" {
			return nil, apperror.New(0, "reply must stay in the parent's subclub", apperror.ErrBadRequest)
		}
		subclubID = parent.SubclubID
		if parent.Subclub != nil {
			subclubSlug = parent.Subclub.Slug
		}
		parentID = &pid
	}

	post := &model.Post{
		SubclubID: subclubID,
		ParentID:  parentID,
		UserID:    userID,
		Content:   req.Content,
	}
	if parentID == nil && req.Title != "" {
		title := req.Title
		post.Title = &title
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if len(req.Tags) > 0 && parentID == nil {
		tags, err := s.resolveTags(ctx, req.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	// Load author for the response
	if user, err := s.userRepo.FindByID(ctx, userID.String()); err == nil {
		post.User = *user
	}

	// Everything succeeded, don't roll back the rate limits.
	creationFailed = false

	if s.searchService != nil && parentID == nil {
		go s.searchService.IndexPost(post)
	}

	go func() {
		if parent == nil || parent.UserID == userID {
			return
		}

		message := "Someone replied to your post"
		if parent.Title != nil {
			message = fmt.Sprintf("Someone replied to your post '%s'", *parent.Title)
		}

		notification := &model.Notification{
			UserID:     parent.UserID,
			ActorID:    userID,
			EntityID:   post.ID,
			EntitySlug: subclubSlug,
			EntityType: "post",
			Type:       "reply",
			Message:    message,
		}
		_ = s.notificationService.CreateNotification(context.Background(), notification)
	}()

	return s.mapToResponse(post, 0), nil
}

func (s *postService) GetThread(ctx context.Context, rootID uuid.UUID) (*dto.PostResponse, error) {
	root, err := s.postRepo.FindByID(ctx, rootID)
	if err != nil {
		return nil, err
	}

	allPosts, err := s.postRepo.FindAllByScope(ctx, root.SubclubID)
	if err != nil {
		return nil, err
	}

	tree, err := BuildTree(rootID, allPosts)
	if err != nil {
		return nil, err
	}

	_ = s.postRepo.IncrementViews(ctx, rootID)

	resp := s.mapTree(tree)
	return resp, nil
}

func (s *postService) ListThreads(ctx context.Context, filter dto.PostFilter) (*dto.PaginatedPostResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	offset := (filter.Page - 1) * filter.Limit

	var roots []*model.Post
	var total int64
	var err error

	switch {
	case filter.Tag != "":
		roots, total, err = s.postRepo.FindRootsByTag(ctx, filter.Tag, offset, filter.Limit)
	case filter.Subclub != "":
		subclub, serr := s.subclubRepo.FindBySlug(ctx, filter.Subclub)
		if serr != nil {
			return nil, apperror.New(0, "subclub not found", apperror.ErrNotFound)
		}
		roots, total, err = s.postRepo.FindRoots(ctx, &subclub.ID, offset, filter.Limit)
	default:
		roots, total, err = s.postRepo.FindRoots(ctx, nil, offset, filter.Limit)
	}
	if err != nil {
		return nil, err
	}

	return s.paginate(roots, total, filter.Page, filter.Limit), nil
}

func (s *postService) FollowedFeed(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.PaginatedPostResponse, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}

	followeeIDs, err := s.followRepo.FindFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) == 0 {
		return &dto.PaginatedPostResponse{
			Data: []dto.PostResponse{},
			Meta: dto.PaginationMeta{CurrentPage: page, Limit: limit},
		}, nil
	}

	roots, total, err := s.postRepo.FindRootsByAuthors(ctx, followeeIDs, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return s.paginate(roots, total, page, limit), nil
}

func (s *postService) UpdatePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		return nil, apperror.New(0, "you can only update your own post", apperror.ErrForbidden)
	}
	if post.Deleted {
		return nil, apperror.New(0, "post has been deleted", apperror.ErrNotFound)
	}

	post.Content = req.Content
	if post.ParentID == nil && req.Title != "" {
		title := req.Title
		post.Title = &title
	}
	post.Edited = true
	now := time.Now()
	post.EditedAt = &now

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if len(req.Tags) > 0 && post.ParentID == nil {
		tags, err := s.resolveTags(ctx, req.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if s.searchService != nil && post.ParentID == nil {
		go s.searchService.IndexPost(post)
	}

	return s.mapToResponse(post, 0), nil
}

// DeletePost tombstones the post: the row stays so descendant replies remain
// attached, but content, title and the deleted flag are cleared/set.
func (s *postService) DeletePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return apperror.ErrUnauthorized
	}

	if post.UserID != userID && user.Role.Name != "admin" {
		return apperror.New(0, "you can only delete your own post unless you are an admin", apperror.ErrForbidden)
	}

	if err := s.postRepo.Tombstone(ctx, postID); err != nil {
		return err
	}

	if s.searchService != nil && post.ParentID == nil {
		go s.searchService.DeletePost(post.ID.String())
	}

	return nil
}

func (s *postService) resolveTags(ctx context.Context, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		tag, err := s.tagRepo.FindOrCreate(ctx, strings.TrimSpace(name), slug)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (s *postService) paginate(roots []*model.Post, total int64, page, limit int) *dto.PaginatedPostResponse {
	data := make([]dto.PostResponse, 0, len(roots))
	for _, root := range roots {
		data = append(data, *s.mapToResponse(root, 0))
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &dto.PaginatedPostResponse{
		Data: data,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       limit,
		},
	}
}

func (s *postService) mapTree(node *TreeNode) *dto.PostResponse {
	resp := s.mapToResponse(node.Post, node.Depth)
	for _, child := range node.Children {
		resp.Replies = append(resp.Replies, *s.mapTree(child))
	}
	return resp
}

func (s *postService) mapToResponse(post *model.Post, depth int) *dto.PostResponse {
	author := dto.AuthorResponse{Username: "Unknown"}
	if !post.Deleted && post.User.Username != "" {
		author.Username = post.User.Username
		author.AvatarURL = post.User.AvatarURL
	}
	if post.Deleted {
		author.Username = "[removed]"
	}

	var tags []string
	for _, tag := range post.Tags {
		tags = append(tags, tag.Name)
	}

	var subclubSlug string
	if post.Subclub != nil {
		subclubSlug = post.Subclub.Slug
	}

	likesCount, _ := s.likeService.GetPostLikes(context.Background(), post.ID)

	directive := RenderDirectiveFor(depth)
	mode := "indented"
	if directive.Mode == RenderFlattened {
		mode = "flattened"
	}

	return &dto.PostResponse{
		ID:             post.ID,
		SubclubSlug:    subclubSlug,
		ParentID:       post.ParentID,
		Title:          post.Title,
		Content:        post.Content,
		Author:         author,
		Tags:           tags,
		Edited:         post.Edited,
		Deleted:        post.Deleted,
		Views:          post.Views,
		LikesCount:     likesCount,
		Depth:          depth,
		RenderMode:     mode,
		IndentLevel:    directive.IndentLevel,
		CanReplyInline: CanReplyInline(depth),
		CreatedAt:      post.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      post.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func sameScope(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
