package service

import (
	"html"
	"log"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

type SearchService interface {
	IndexPost(post *model.Post) error
	IndexNomination(nomination *model.Nomination) error
	DeletePost(id string) error
	DeleteNomination(id string) error
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	postFilterable := []any{"subclub_slug", "tags"}
	if _, err := s.client.Index("posts").UpdateFilterableAttributes(&postFilterable); err != nil {
		log.Printf("failed to update posts filterable attributes: %v", err)
	}

	bookFilterable := []any{"target_month_slug"}
	if _, err := s.client.Index("books").UpdateFilterableAttributes(&bookFilterable); err != nil {
		log.Printf("failed to update books filterable attributes: %v", err)
	}
}

type postDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	SubclubSlug string   `json:"subclub_slug"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"created_at"`
}

type bookDocument struct {
	ID              string `json:"id"`
	BookTitle       string `json:"book_title"`
	BookAuthor      string `json:"book_author"`
	TargetMonthSlug string `json:"target_month_slug"`
}

// IndexPost pushes a top-level post into the posts index. Content is run
// through the strict sanitizer first so markup never reaches search results.
func (s *searchService) IndexPost(post *model.Post) error {
	doc := postDocument{
		ID:        post.ID.String(),
		Content:   s.clean(post.Content),
		Author:    post.User.Username,
		CreatedAt: post.CreatedAt.Unix(),
	}
	if post.Title != nil {
		doc.Title = s.clean(*post.Title)
	}
	if post.Subclub != nil {
		doc.SubclubSlug = post.Subclub.Slug
	}
	for _, tag := range post.Tags {
		doc.Tags = append(doc.Tags, tag.Slug)
	}

	_, err := s.client.Index("posts").AddDocuments([]postDocument{doc}, nil)
	if err != nil {
		log.Printf("failed to index post %s: %v", doc.ID, err)
	}
	return err
}

func (s *searchService) IndexNomination(nomination *model.Nomination) error {
	doc := bookDocument{
		ID:              nomination.ID.String(),
		BookTitle:       s.clean(nomination.BookTitle),
		BookAuthor:      s.clean(nomination.BookAuthor),
		TargetMonthSlug: MonthSlug(nomination.TargetMonth),
	}

	_, err := s.client.Index("books").AddDocuments([]bookDocument{doc}, nil)
	if err != nil {
		log.Printf("failed to index nomination %s: %v", doc.ID, err)
	}
	return err
}

func (s *searchService) DeletePost(id string) error {
	_, err := s.client.Index("posts").DeleteDocument(id)
	return err
}

func (s *searchService) DeleteNomination(id string) error {
	_, err := s.client.Index("books").DeleteDocument(id)
	return err
}

func (s *searchService) clean(raw string) string {
	return html.UnescapeString(s.sanitizer.Sanitize(raw))
}
