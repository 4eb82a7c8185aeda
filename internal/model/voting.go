package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Nomination is a candidate book for a given target month. BookKey is the
// normalized book identity; the composite unique index keeps one nomination
// per book per month.
type Nomination struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TargetMonth time.Time `gorm:"not null;uniqueIndex:idx_nominations_month_book" json:"target_month"`
	BookTitle   string    `gorm:"size:255;not null" json:"book_title"`
	BookAuthor  string    `gorm:"size:255;not null" json:"book_author"`
	BookKey     string    `gorm:"size:255;not null;uniqueIndex:idx_nominations_month_book" json:"-"`
	ISBN        *string   `gorm:"size:20" json:"isbn,omitempty"`
	CoverURL    *string   `gorm:"type:text" json:"cover_url,omitempty"`
	NominatedBy uuid.UUID `gorm:"type:uuid;not null" json:"nominated_by"`
	Nominator   User      `gorm:"foreignKey:NominatedBy;constraint:OnDelete:CASCADE" json:"nominator,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Nomination) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}

// Vote is one member's vote in one month's poll, unique per (user, month).
type Vote struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	NominationID uuid.UUID  `gorm:"type:uuid;not null" json:"nomination_id"`
	Nomination   Nomination `gorm:"constraint:OnDelete:CASCADE" json:"nomination,omitempty"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_month" json:"user_id"`
	TargetMonth  time.Time  `gorm:"not null;uniqueIndex:idx_votes_user_month" json:"target_month"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}

// VotingOverride pins the cycle to a phase for one target month. Closing the
// cycle deletes the row instead of storing a 'closed' status; a row that is
// present always carries an open phase.
type VotingOverride struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TargetMonth time.Time `gorm:"not null;uniqueIndex" json:"target_month"`
	Status      string    `gorm:"size:20;not null" json:"status"` // 'nomination' or 'voting'
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BookOfTheMonth is the finalized winner for one month, keyed by slug
// ("marco-2026"), at most one per slug.
type BookOfTheMonth struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"size:60;uniqueIndex;not null" json:"slug"`
	MonthDate   time.Time `gorm:"not null" json:"month_date"`
	BookTitle   string    `gorm:"size:255;not null" json:"book_title"`
	BookAuthor  string    `gorm:"size:255;not null" json:"book_author"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CoverURL    *string   `gorm:"type:text" json:"cover_url,omitempty"`
	WinnerVotes int       `gorm:"default:0" json:"winner_votes"`
	SelectedAt  time.Time `gorm:"autoCreateTime" json:"selected_at"`
}

func (b *BookOfTheMonth) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID, err = uuid.NewV7()
	}
	return
}
