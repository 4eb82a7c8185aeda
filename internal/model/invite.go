package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invite is a single-use invitation code. Registration is gated on an
// unused, unexpired code.
type Invite struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	InvitedByID uuid.UUID  `gorm:"type:uuid;not null" json:"invited_by_id"`
	InvitedBy   User       `gorm:"foreignKey:InvitedByID;constraint:OnDelete:CASCADE" json:"invited_by,omitempty"`
	UsedByID    *uuid.UUID `gorm:"type:uuid" json:"used_by_id,omitempty"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (i *Invite) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}
