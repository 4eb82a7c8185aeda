package dto

import "github.com/google/uuid"

type CreateSubclubRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

type SubclubResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Owner       AuthorResponse `json:"owner"`
	CreatedAt   string         `json:"created_at"`
}

type PaginatedSubclubResponse struct {
	Data []SubclubResponse `json:"data"`
	Meta PaginationMeta    `json:"meta"`
}
