package dto

type UpdateUserRequest struct {
	Role     *string `json:"role" binding:"omitempty,oneof=admin member"`
	Verified *bool   `json:"verified"`
}

type UserSummaryResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

type PaginatedUserResponse struct {
	Data []UserSummaryResponse `json:"data"`
	Meta PaginationMeta        `json:"meta"`
}

type InviteResponse struct {
	Code      string  `json:"code"`
	UsedBy    *string `json:"used_by,omitempty"`
	ExpiresAt string  `json:"expires_at"`
	CreatedAt string  `json:"created_at"`
}
