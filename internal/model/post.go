package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is either a top-level discussion post (ParentID nil, Title set) or a
// nested reply. Replies always stay in the same scope as their parent.
type Post struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SubclubID *uuid.UUID `gorm:"type:uuid;index" json:"subclub_id,omitempty"`
	Subclub   *Subclub   `gorm:"foreignKey:SubclubID;constraint:OnDelete:CASCADE" json:"subclub,omitempty"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent    *Post      `gorm:"foreignKey:ParentID" json:"parent,omitempty"` // nested replies
	UserID    uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	User      User       `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Title     *string    `gorm:"size:255" json:"title,omitempty"` // top-level posts only
	Content   string     `gorm:"type:text;not null" json:"content"`
	Edited    bool       `gorm:"default:false" json:"edited"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	Deleted   bool       `gorm:"default:false" json:"deleted"` // tombstone, keeps replies attached
	Views     int        `gorm:"default:0" json:"views"`
	Tags      []Tag      `gorm:"many2many:post_tags;" json:"tags,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// Like is one user's like on one post, unique per pair.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post" json:"post_id"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE" json:"post,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
