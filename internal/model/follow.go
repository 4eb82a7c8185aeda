package model

import (
	"time"

	"github.com/google/uuid"
)

// Follow links a follower to the member they follow, unique per pair.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"follower,omitempty"`
	FolloweeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair" json:"followee_id"`
	Followee   User      `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE" json:"followee,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
