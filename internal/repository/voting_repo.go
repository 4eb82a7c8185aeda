package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VotingRepository interface {
	CreateNomination(ctx context.Context, nomination *model.Nomination) error
	FindNominationByID(ctx context.Context, id uuid.UUID) (*model.Nomination, error)
	FindNominationsByMonth(ctx context.Context, targetMonth time.Time) ([]model.Nomination, error)

	CreateVote(ctx context.Context, vote *model.Vote) error
	CountVotesByNomination(ctx context.Context, nominationID uuid.UUID) (int64, error)
	TallyVotesByMonth(ctx context.Context, targetMonth time.Time) (map[uuid.UUID]int64, error)

	// FindActiveOverride returns the most recently updated override row, or
	// nil when none exists. Closing the cycle deletes the row, so presence
	// always means an open phase.
	FindActiveOverride(ctx context.Context) (*model.VotingOverride, error)
	UpsertOverride(ctx context.Context, targetMonth time.Time, status string) error
	DeleteOverride(ctx context.Context, targetMonth time.Time) error

	UpsertBookOfTheMonth(ctx context.Context, book *model.BookOfTheMonth) error
	FindBookBySlug(ctx context.Context, slug string) (*model.BookOfTheMonth, error)
	FindAllBooks(ctx context.Context) ([]model.BookOfTheMonth, error)
}

type votingRepository struct {
	db *gorm.DB
}

func NewVotingRepository(db *gorm.DB) VotingRepository {
	return &votingRepository{db: db}
}

func (r *votingRepository) CreateNomination(ctx context.Context, nomination *model.Nomination) error {
	if err := r.db.WithContext(ctx).Create(nomination).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *votingRepository) FindNominationByID(ctx context.Context, id uuid.UUID) (*model.Nomination, error) {
	var nomination model.Nomination
	if err := r.db.WithContext(ctx).
		Preload("Nominator").
		Where("id = ?", id).
		First(&nomination).Error; err != nil {
		return nil, translateError(err)
	}
	return &nomination, nil
}

func (r *votingRepository) FindNominationsByMonth(ctx context.Context, targetMonth time.Time) ([]model.Nomination, error) {
	var nominations []model.Nomination
	err := r.db.WithContext(ctx).
		Preload("Nominator").
		Where("target_month = ?", targetMonth).
		Order("created_at ASC").
		Find(&nominations).Error
	return nominations, err
}

func (r *votingRepository) CreateVote(ctx context.Context, vote *model.Vote) error {
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *votingRepository) CountVotesByNomination(ctx context.Context, nominationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Where("nomination_id = ?", nominationID).
		Count(&count).Error
	return count, err
}

func (r *votingRepository) TallyVotesByMonth(ctx context.Context, targetMonth time.Time) (map[uuid.UUID]int64, error) {
	type row struct {
		NominationID uuid.UUID
		Total        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Select("nomination_id, count(*) as total").
		Where("target_month = ?", targetMonth).
		Group("nomination_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	tally := make(map[uuid.UUID]int64, len(rows))
	for _, rw := range rows {
		tally[rw.NominationID] = rw.Total
	}
	return tally, nil
}

func (r *votingRepository) FindActiveOverride(ctx context.Context) (*model.VotingOverride, error) {
	var override model.VotingOverride
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *votingRepository) UpsertOverride(ctx context.Context, targetMonth time.Time, status string) error {
	override := model.VotingOverride{
		TargetMonth: targetMonth,
		Status:      status,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "target_month"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(&override).Error
}

func (r *votingRepository) DeleteOverride(ctx context.Context, targetMonth time.Time) error {
	return r.db.WithContext(ctx).
		Where("target_month = ?", targetMonth).
		Delete(&model.VotingOverride{}).Error
}

func (r *votingRepository) UpsertBookOfTheMonth(ctx context.Context, book *model.BookOfTheMonth) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"book_title", "book_author", "description", "cover_url", "winner_votes"}),
		}).
		Create(book).Error
}

func (r *votingRepository) FindBookBySlug(ctx context.Context, slug string) (*model.BookOfTheMonth, error) {
	var book model.BookOfTheMonth
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&book).Error; err != nil {
		return nil, translateError(err)
	}
	return &book, nil
}

func (r *votingRepository) FindAllBooks(ctx context.Context) ([]model.BookOfTheMonth, error) {
	var books []model.BookOfTheMonth
	err := r.db.WithContext(ctx).Order("month_date DESC").Find(&books).Error
	return books, err
}
