package dto

type UpdateProfileRequest struct {
	FullName         string  `json:"full_name" binding:"max=100"`
	Bio              *string `json:"bio" binding:"omitempty,max=2000"`
	FavoriteAuthor   *string `json:"favorite_author" binding:"omitempty,max=100"`
	CurrentlyReading *string `json:"currently_reading" binding:"omitempty,max=255"`
}

type ProfileResponse struct {
	Username         string  `json:"username"`
	FullName         string  `json:"full_name"`
	Bio              *string `json:"bio,omitempty"`
	FavoriteAuthor   *string `json:"favorite_author,omitempty"`
	CurrentlyReading *string `json:"currently_reading,omitempty"`
	AvatarURL        *string `json:"avatar_url,omitempty"`
	Verified         bool    `json:"verified"`
	Followers        int64   `json:"followers"`
	JoinedAt         string  `json:"joined_at"`
}
