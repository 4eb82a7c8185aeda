package dto

import "github.com/google/uuid"

type NominateRequest struct {
	BookTitle  string `json:"book_title" binding:"required,max=255"`
	BookAuthor string `json:"book_author" binding:"required,max=255"`
	ISBN       string `json:"isbn" binding:"max=20"`
	CoverURL   string `json:"cover_url" binding:"max=2048"`
}

type VoteRequest struct {
	NominationID string `json:"nomination_id" binding:"required,uuid"`
}

type SetOverrideRequest struct {
	TargetMonth string `json:"target_month" binding:"required"` // "2026-03"
	Status      string `json:"status" binding:"required,oneof=nomination voting closed"`
}

type PickWinnerRequest struct {
	NominationID string `json:"nomination_id" binding:"required,uuid"`
	Description  string `json:"description" binding:"max=4000"`
}

type NominationResponse struct {
	ID          uuid.UUID `json:"id"`
	BookTitle   string    `json:"book_title"`
	BookAuthor  string    `json:"book_author"`
	ISBN        *string   `json:"isbn,omitempty"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	NominatedBy string    `json:"nominated_by"`
	Votes       int64     `json:"votes"`
	CreatedAt   string    `json:"created_at"`
}

type PhaseResponse struct {
	Status          string `json:"status"`
	TargetMonth     string `json:"target_month,omitempty"`
	TargetMonthSlug string `json:"target_month_slug,omitempty"`
	Overridden      bool   `json:"overridden"`
}

type BookOfTheMonthResponse struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	MonthDate   string    `json:"month_date"`
	BookTitle   string    `json:"book_title"`
	BookAuthor  string    `json:"book_author"`
	Description *string   `json:"description,omitempty"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	WinnerVotes int       `json:"winner_votes"`
	SelectedAt  string    `json:"selected_at"`
}
