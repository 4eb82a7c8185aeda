package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/google/uuid"
)

type VotingService interface {
	CurrentPhase(ctx context.Context) (*dto.PhaseResponse, error)
	Nominate(ctx context.Context, userID uuid.UUID, req dto.NominateRequest) (*dto.NominationResponse, error)
	ListNominations(ctx context.Context) ([]dto.NominationResponse, error)
	Vote(ctx context.Context, userID uuid.UUID, req dto.VoteRequest) error
	PickWinner(ctx context.Context, adminID uuid.UUID, req dto.PickWinnerRequest) (*dto.BookOfTheMonthResponse, error)
	SetOverride(ctx context.Context, req dto.SetOverrideRequest) error
	GetBookBySlug(ctx context.Context, slug string) (*dto.BookOfTheMonthResponse, error)
	ListBooks(ctx context.Context) ([]dto.BookOfTheMonthResponse, error)
}

type votingService struct {
	votingRepo          repository.VotingRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
	searchService       SearchService
	now                 func() time.Time
}

func NewVotingService(votingRepo repository.VotingRepository, userRepo repository.UserRepository, notificationService NotificationService, searchService SearchService) VotingService {
	return &votingService{
		votingRepo:          votingRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		searchService:       searchService,
		now:                 time.Now,
	}
}

func (s *votingService) resolve(ctx context.Context) (PhaseInfo, error) {
	override, err := s.votingRepo.FindActiveOverride(ctx)
	if err != nil {
		return PhaseInfo{}, err
	}
	return ResolvePhase(s.now(), override), nil
}

func (s *votingService) CurrentPhase(ctx context.Context) (*dto.PhaseResponse, error) {
	override, err := s.votingRepo.FindActiveOverride(ctx)
	if err != nil {
		return nil, err
	}

	phase := ResolvePhase(s.now(), override)

	resp := &dto.PhaseResponse{
		Status:     string(phase.Status),
		Overridden: override != nil && override.Status != string(PhaseClosed),
	}
	if phase.TargetMonth != nil {
		resp.TargetMonth = phase.TargetMonth.Format("2006-01-02")
		resp.TargetMonthSlug = phase.TargetMonthSlug
	}
	return resp, nil
}

// Nominate submits a candidate book for the month under nomination. Only
// verified members may nominate, and each book can be nominated once per
// month (the composite unique index is the arbiter).
func (s *votingService) Nominate(ctx context.Context, userID uuid.UUID, req dto.NominateRequest) (*dto.NominationResponse, error) {
	phase, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if phase.Status != PhaseNomination || phase.TargetMonth == nil {
		return nil, apperror.New(0, "nominations are not open right now", apperror.ErrPhaseClosed)
	}

	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if !user.Verified && user.Role.Name != "admin" {
		return nil, apperror.New(0, "only verified members can nominate books", apperror.ErrForbidden)
	}

	nomination := &model.Nomination{
		TargetMonth: *phase.TargetMonth,
		BookTitle:   req.BookTitle,
		BookAuthor:  req.BookAuthor,
		BookKey:     BookKey(req.BookTitle, req.BookAuthor),
		NominatedBy: userID,
	}
	if req.ISBN != "" {
		isbn := req.ISBN
		nomination.ISBN = &isbn
	}
	if req.CoverURL != "" {
		cover := req.CoverURL
		nomination.CoverURL = &cover
	}

	if err := s.votingRepo.CreateNomination(ctx, nomination); err != nil {
		return nil, err
	}

	if s.searchService != nil {
		go s.searchService.IndexNomination(nomination)
	}

	nomination.Nominator = *user
	return s.mapNomination(ctx, nomination), nil
}

func (s *votingService) ListNominations(ctx context.Context) ([]dto.NominationResponse, error) {
	phase, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if phase.TargetMonth == nil {
		return []dto.NominationResponse{}, nil
	}

	nominations, err := s.votingRepo.FindNominationsByMonth(ctx, *phase.TargetMonth)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NominationResponse, 0, len(nominations))
	for i := range nominations {
		responses = append(responses, *s.mapNomination(ctx, &nominations[i]))
	}
	return responses, nil
}

// Vote records one member's vote for the current target month. The unique
// index on (user, month) rejects a second vote with ErrDuplicate.
func (s *votingService) Vote(ctx context.Context, userID uuid.UUID, req dto.VoteRequest) error {
	phase, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	if phase.Status == PhaseClosed || phase.TargetMonth == nil {
		return apperror.New(0, "voting is not open right now", apperror.ErrPhaseClosed)
	}

	nominationID, err := uuid.Parse(req.NominationID)
	if err != nil {
		return apperror.New(0, "invalid nomination id", apperror.ErrBadRequest)
	}

	nomination, err := s.votingRepo.FindNominationByID(ctx, nominationID)
	if err != nil {
		return err
	}
	if !nomination.TargetMonth.Equal(*phase.TargetMonth) {
		return apperror.New(0, "nomination belongs to a different month", apperror.ErrBadRequest)
	}

	vote := &model.Vote{
		NominationID: nominationID,
		UserID:       userID,
		TargetMonth:  *phase.TargetMonth,
	}
	return s.votingRepo.CreateVote(ctx, vote)
}

// PickWinner finalizes the month: tallies the nomination's votes and upserts
// the book-of-the-month record keyed by the month slug, so re-picking the
// same month is idempotent.
func (s *votingService) PickWinner(ctx context.Context, adminID uuid.UUID, req dto.PickWinnerRequest) (*dto.BookOfTheMonthResponse, error) {
	nominationID, err := uuid.Parse(req.NominationID)
	if err != nil {
		return nil, apperror.New(0, "invalid nomination id", apperror.ErrBadRequest)
	}

	nomination, err := s.votingRepo.FindNominationByID(ctx, nominationID)
	if err != nil {
		return nil, err
	}

	tally, err := s.votingRepo.TallyVotesByMonth(ctx, nomination.TargetMonth)
	if err != nil {
		return nil, err
	}

	book := &model.BookOfTheMonth{
		Slug:        MonthSlug(nomination.TargetMonth),
		MonthDate:   nomination.TargetMonth,
		BookTitle:   nomination.BookTitle,
		BookAuthor:  nomination.BookAuthor,
		CoverURL:    nomination.CoverURL,
		WinnerVotes: int(tally[nominationID]),
	}
	if req.Description != "" {
		desc := req.Description
		book.Description = &desc
	}

	if err := s.votingRepo.UpsertBookOfTheMonth(ctx, book); err != nil {
		return nil, err
	}

	go func() {
		message := fmt.Sprintf("The book of the month is '%s' by %s", book.BookTitle, book.BookAuthor)
		_ = s.notificationService.Broadcast(context.Background(), adminID, book.ID, book.Slug, "book_of_the_month", "winner", message)
	}()

	return mapBook(book), nil
}

// SetOverride pins the cycle to a phase. Setting 'closed' deletes the
// override row so resolution falls back to the calendar rule; storing a
// literal closed row would poison future resolutions.
func (s *votingService) SetOverride(ctx context.Context, req dto.SetOverrideRequest) error {
	month, err := time.Parse("2006-01", req.TargetMonth)
	if err != nil {
		return apperror.New(0, "target_month must look like 2026-03", apperror.ErrBadRequest)
	}
	month = time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)

	if req.Status == string(PhaseClosed) {
		return s.votingRepo.DeleteOverride(ctx, month)
	}
	return s.votingRepo.UpsertOverride(ctx, month, req.Status)
}

func (s *votingService) GetBookBySlug(ctx context.Context, slug string) (*dto.BookOfTheMonthResponse, error) {
	book, err := s.votingRepo.FindBookBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return mapBook(book), nil
}

func (s *votingService) ListBooks(ctx context.Context) ([]dto.BookOfTheMonthResponse, error) {
	books, err := s.votingRepo.FindAllBooks(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BookOfTheMonthResponse, 0, len(books))
	for i := range books {
		responses = append(responses, *mapBook(&books[i]))
	}
	return responses, nil
}

func (s *votingService) mapNomination(ctx context.Context, nomination *model.Nomination) *dto.NominationResponse {
	votes, err := s.votingRepo.CountVotesByNomination(ctx, nomination.ID)
	if err != nil {
		log.Printf("failed to count votes for nomination %s: %v", nomination.ID, err)
	}

	nominatedBy := "Unknown"
	if nomination.Nominator.Username != "" {
		nominatedBy = nomination.Nominator.Username
	}

	return &dto.NominationResponse{
		ID:          nomination.ID,
		BookTitle:   nomination.BookTitle,
		BookAuthor:  nomination.BookAuthor,
		ISBN:        nomination.ISBN,
		CoverURL:    nomination.CoverURL,
		NominatedBy: nominatedBy,
		Votes:       votes,
		CreatedAt:   nomination.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func mapBook(book *model.BookOfTheMonth) *dto.BookOfTheMonthResponse {
	return &dto.BookOfTheMonthResponse{
		ID:          book.ID,
		Slug:        book.Slug,
		MonthDate:   book.MonthDate.Format("2006-01-02"),
		BookTitle:   book.BookTitle,
		BookAuthor:  book.BookAuthor,
		Description: book.Description,
		CoverURL:    book.CoverURL,
		WinnerVotes: book.WinnerVotes,
		SelectedAt:  book.SelectedAt.Format("2006-01-02 15:04:05"),
	}
}

// BookKey normalizes a book identity so the same title/author pair cannot be
// nominated twice for one month regardless of casing or accents.
func BookKey(title, author string) string {
	return Slugify(title) + "|" + Slugify(author)
}
