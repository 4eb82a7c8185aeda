package dto

import (
	"github.com/google/uuid"
)

type CreatePostRequest struct {
	SubclubSlug string   `json:"subclub_slug"`
	ParentID    string   `json:"parent_id"`
	Title       string   `json:"title" binding:"max=255"`
	Content     string   `json:"content" binding:"required"`
	Tags        []string `json:"tags" binding:"max=5"`
}

type UpdatePostRequest struct {
	Title   string   `json:"title" binding:"max=255"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"max=5"`
}

// PostResponse is one node of the rendered thread. Replies nest under their
// parent; RenderMode and IndentLevel carry the depth-cap contract so the
// client never indents past the flatten threshold.
type PostResponse struct {
	ID             uuid.UUID      `json:"id"`
	SubclubSlug    string         `json:"subclub_slug,omitempty"`
	ParentID       *uuid.UUID     `json:"parent_id,omitempty"`
	Title          *string        `json:"title,omitempty"`
	Content        string         `json:"content"`
	Author         AuthorResponse `json:"author"`
	Tags           []string       `json:"tags,omitempty"`
	Edited         bool           `json:"edited"`
	Deleted        bool           `json:"deleted"`
	Views          int            `json:"views"`
	LikesCount     int64          `json:"likes_count"`
	Depth          int            `json:"depth"`
	RenderMode     string         `json:"render_mode"` // "indented" or "flattened"
	IndentLevel    int            `json:"indent_level"`
	CanReplyInline bool           `json:"can_reply_inline"`
	Replies        []PostResponse `json:"replies,omitempty"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

type PaginatedPostResponse struct {
	Data []PostResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}
