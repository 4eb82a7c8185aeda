package dto

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type AuthorResponse struct {
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

type PostFilter struct {
	Subclub string `form:"subclub"`
	Tag     string `form:"tag"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}
