package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVotingRepo struct {
	mu          sync.Mutex
	nominations map[uuid.UUID]*model.Nomination
	votes       []*model.Vote
	override    *model.VotingOverride
	books       map[string]*model.BookOfTheMonth
}

func newFakeVotingRepo() *fakeVotingRepo {
	return &fakeVotingRepo{
		nominations: map[uuid.UUID]*model.Nomination{},
		books:       map[string]*model.BookOfTheMonth{},
	}
}

func (r *fakeVotingRepo) CreateNomination(ctx context.Context, nomination *model.Nomination) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.nominations {
		if existing.TargetMonth.Equal(nomination.TargetMonth) && existing.BookKey == nomination.BookKey {
			return apperror.ErrDuplicate
		}
	}
	if nomination.ID == uuid.Nil {
		nomination.ID = uuid.New()
	}
	nomination.CreatedAt = time.Now()
	r.nominations[nomination.ID] = nomination
	return nil
}

func (r *fakeVotingRepo) FindNominationByID(ctx context.Context, id uuid.UUID) (*model.Nomination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	nomination, ok := r.nominations[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return nomination, nil
}

func (r *fakeVotingRepo) FindNominationsByMonth(ctx context.Context, targetMonth time.Time) ([]model.Nomination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Nomination
	for _, n := range r.nominations {
		if n.TargetMonth.Equal(targetMonth) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeVotingRepo) CreateVote(ctx context.Context, vote *model.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.votes {
		if existing.UserID == vote.UserID && existing.TargetMonth.Equal(vote.TargetMonth) {
			return apperror.ErrDuplicate
		}
	}
	r.votes = append(r.votes, vote)
	return nil
}

func (r *fakeVotingRepo) CountVotesByNomination(ctx context.Context, nominationID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, v := range r.votes {
		if v.NominationID == nominationID {
			count++
		}
	}
	return count, nil
}

func (r *fakeVotingRepo) TallyVotesByMonth(ctx context.Context, targetMonth time.Time) (map[uuid.UUID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tally := map[uuid.UUID]int64{}
	for _, v := range r.votes {
		if v.TargetMonth.Equal(targetMonth) {
			tally[v.NominationID]++
		}
	}
	return tally, nil
}

func (r *fakeVotingRepo) FindActiveOverride(ctx context.Context) (*model.VotingOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.override, nil
}

func (r *fakeVotingRepo) UpsertOverride(ctx context.Context, targetMonth time.Time, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = &model.VotingOverride{TargetMonth: targetMonth, Status: status}
	return nil
}

func (r *fakeVotingRepo) DeleteOverride(ctx context.Context, targetMonth time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = nil
	return nil
}

func (r *fakeVotingRepo) UpsertBookOfTheMonth(ctx context.Context, book *model.BookOfTheMonth) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.books[book.Slug]; ok {
		book.ID = existing.ID
	} else if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	book.SelectedAt = time.Now()
	r.books[book.Slug] = book
	return nil
}

func (r *fakeVotingRepo) FindBookBySlug(ctx context.Context, slug string) (*model.BookOfTheMonth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[slug]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return book, nil
}

func (r *fakeVotingRepo) FindAllBooks(ctx context.Context) ([]model.BookOfTheMonth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.BookOfTheMonth, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, apperror.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, apperror.ErrNotFound
}

func (r *fakeUserRepo) FindAll(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) FindAllIDs(ctx context.Context) ([]string, error) { return nil, nil }

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) { return int64(len(r.users)), nil }

func (r *fakeUserRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return &model.Role{Name: name}, nil
}

type fakeNotificationService struct {
	mu         sync.Mutex
	broadcasts []string
}

func (s *fakeNotificationService) CreateNotification(ctx context.Context, notification *model.Notification) error {
	return nil
}

func (s *fakeNotificationService) Broadcast(ctx context.Context, actorID uuid.UUID, entityID uuid.UUID, entitySlug, entityType, notifType, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcasts = append(s.broadcasts, notifType)
	return nil
}

func (s *fakeNotificationService) GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return nil, nil
}

func (s *fakeNotificationService) MarkAsRead(id uuid.UUID) error { return nil }

func (s *fakeNotificationService) MarkAllAsRead(userID uuid.UUID) error { return nil }

func (s *fakeNotificationService) UnreadCount(userID uuid.UUID) (int64, error) { return 0, nil }

func newTestVotingService(repo repository.VotingRepository, users *fakeUserRepo, now time.Time) *votingService {
	svc := NewVotingService(repo, users, &fakeNotificationService{}, nil).(*votingService)
	svc.now = func() time.Time { return now }
	return svc
}

func verifiedUser() *model.User {
	return &model.User{
		ID:       uuid.New(),
		Username: "leitor",
		Verified: true,
		Role:     model.Role{Name: "member"},
	}
}

func TestNominateDuringNominationPhase(t *testing.T) {
	repo := newFakeVotingRepo()
	user := verifiedUser()
	users := &fakeUserRepo{users: map[string]*model.User{user.ID.String(): user}}

	svc := newTestVotingService(repo, users, date(2026, time.January, 27))

	resp, err := svc.Nominate(context.Background(), user.ID, dto.NominateRequest{
		BookTitle:  "Grande Sertão: Veredas",
		BookAuthor: "João Guimarães Rosa",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grande Sertão: Veredas", resp.BookTitle)
	assert.Equal(t, "leitor", resp.NominatedBy)

	// Same book again for the same month is rejected.
	_, err = svc.Nominate(context.Background(), user.ID, dto.NominateRequest{
		BookTitle:  "grande sertao: veredas",
		BookAuthor: "joão guimarães rosa",
	})
	assert.ErrorIs(t, err, apperror.ErrDuplicate)
}

func TestNominateOutsideNominationPhase(t *testing.T) {
	repo := newFakeVotingRepo()
	user := verifiedUser()
	users := &fakeUserRepo{users: map[string]*model.User{user.ID.String(): user}}

	for _, day := range []int{15, 30} {
		svc := newTestVotingService(repo, users, date(2026, time.January, day))
		_, err := svc.Nominate(context.Background(), user.ID, dto.NominateRequest{
			BookTitle:  "Dom Casmurro",
			BookAuthor: "Machado de Assis",
		})
		assert.ErrorIs(t, err, apperror.ErrPhaseClosed, "day %d", day)
	}
}

func TestNominateRequiresVerifiedMember(t *testing.T) {
	repo := newFakeVotingRepo()
	user := verifiedUser()
	user.Verified = false
	users := &fakeUserRepo{users: map[string]*model.User{user.ID.String(): user}}

	svc := newTestVotingService(repo, users, date(2026, time.January, 27))

	_, err := svc.Nominate(context.Background(), user.ID, dto.NominateRequest{
		BookTitle:  "Vidas Secas",
		BookAuthor: "Graciliano Ramos",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestVoteOncePerMonth(t *testing.T) {
	repo := newFakeVotingRepo()
	user := verifiedUser()
	users := &fakeUserRepo{users: map[string]*model.User{user.ID.String(): user}}

	// Nominate on day 27, vote on day 30 of the same cycle.
	nominator := newTestVotingService(repo, users, date(2026, time.January, 27))
	first, err := nominator.Nominate(context.Background(), user.ID, dto.NominateRequest{
		BookTitle:  "A Hora da Estrela",
		BookAuthor: "Clarice Lispector",
	})
	require.NoError(t, err)
	second, err := nominator.Nominate(context.Background(), user.ID, dto.NominateRequest{
		BookTitle:  "Memórias Póstumas de Brás Cubas",
		BookAuthor: "Machado de Assis",
	})
	require.NoError(t, err)

	voter := newTestVotingService(repo, users, date(2026, time.January, 30))

	err = voter.Vote(context.Background(), user.ID, dto.VoteRequest{NominationID: first.ID.String()})
	require.NoError(t, err)

	// Second vote, even for a different book, hits the (user, month) index.
	err = voter.Vote(context.Background(), user.ID, dto.VoteRequest{NominationID: second.ID.String()})
	assert.ErrorIs(t, err, apperror.ErrDuplicate)
}

func TestVoteRejectedWhenClosed(t *testing.T) {
	repo := newFakeVotingRepo()
	user := verifiedUser()
	users := &fakeUserRepo{users: map[string]*model.User{user.ID.String(): user}}

	svc := newTestVotingService(repo, users, date(2026, time.January, 15))

	err := svc.Vote(context.Background(), user.ID, dto.VoteRequest{NominationID: uuid.NewString()})
	assert.ErrorIs(t, err, apperror.ErrPhaseClosed)
}

func TestVoteRejectsStaleNomination(t *testing.T) {
	repo := newFakeVotingRepo()
	user := verifiedUser()
	users := &fakeUserRepo{users: map[string]*model.User{user.ID.String(): user}}

	// Nomination from the January cycle (targeting February).
	nominator := newTestVotingService(repo, users, date(2026, time.January, 27))
	old, err := nominator.Nominate(context.Background(), user.ID, dto.NominateRequest{
		BookTitle:  "O Cortiço",
		BookAuthor: "Aluísio Azevedo",
	})
	require.NoError(t, err)

	// Voting a month later targets March, so the old nomination is invalid.
	voter := newTestVotingService(repo, users, date(2026, time.February, 28))
	err = voter.Vote(context.Background(), user.ID, dto.VoteRequest{NominationID: old.ID.String()})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestPickWinnerIsIdempotent(t *testing.T) {
	repo := newFakeVotingRepo()
	admin := verifiedUser()
	admin.Role = model.Role{Name: "admin"}
	users := &fakeUserRepo{users: map[string]*model.User{admin.ID.String(): admin}}

	nominator := newTestVotingService(repo, users, date(2026, time.February, 27))
	nomination, err := nominator.Nominate(context.Background(), admin.ID, dto.NominateRequest{
		BookTitle:  "Quincas Borba",
		BookAuthor: "Machado de Assis",
	})
	require.NoError(t, err)

	svc := newTestVotingService(repo, users, date(2026, time.March, 5))

	first, err := svc.PickWinner(context.Background(), admin.ID, dto.PickWinnerRequest{
		NominationID: nomination.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "marco-2026", first.Slug)

	// Re-picking the same month replaces the record, never duplicates it.
	second, err := svc.PickWinner(context.Background(), admin.ID, dto.PickWinnerRequest{
		NominationID: nomination.ID.String(),
		Description:  "Runner-up swap after a recount.",
	})
	require.NoError(t, err)
	assert.Equal(t, first.Slug, second.Slug)

	books, err := svc.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestPickWinnerReportsVoteTally(t *testing.T) {
	repo := newFakeVotingRepo()
	admin := verifiedUser()
	admin.Role = model.Role{Name: "admin"}
	users := &fakeUserRepo{users: map[string]*model.User{admin.ID.String(): admin}}

	nominator := newTestVotingService(repo, users, date(2026, time.February, 27))
	winner, err := nominator.Nominate(context.Background(), admin.ID, dto.NominateRequest{
		BookTitle:  "Iracema",
		BookAuthor: "José de Alencar",
	})
	require.NoError(t, err)
	runnerUp, err := nominator.Nominate(context.Background(), admin.ID, dto.NominateRequest{
		BookTitle:  "Senhora",
		BookAuthor: "José de Alencar",
	})
	require.NoError(t, err)

	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, nominationID := range []uuid.UUID{winner.ID, winner.ID, runnerUp.ID} {
		err := repo.CreateVote(context.Background(), &model.Vote{
			NominationID: nominationID,
			UserID:       uuid.New(),
			TargetMonth:  march,
		})
		require.NoError(t, err)
	}

	svc := newTestVotingService(repo, users, date(2026, time.March, 5))
	book, err := svc.PickWinner(context.Background(), admin.ID, dto.PickWinnerRequest{
		NominationID: winner.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, book.WinnerVotes)
}

type failingCountRepo struct {
	*fakeVotingRepo
}

func (r *failingCountRepo) CountVotesByNomination(ctx context.Context, nominationID uuid.UUID) (int64, error) {
	return 0, errors.New("count unavailable")
}

func TestNominationListSurvivesCountFailure(t *testing.T) {
	repo := &failingCountRepo{newFakeVotingRepo()}
	user := verifiedUser()
	users := &fakeUserRepo{users: map[string]*model.User{user.ID.String(): user}}

	svc := newTestVotingService(repo, users, date(2026, time.January, 27))

	_, err := svc.Nominate(context.Background(), user.ID, dto.NominateRequest{
		BookTitle:  "Macunaíma",
		BookAuthor: "Mário de Andrade",
	})
	require.NoError(t, err)

	// A broken vote counter degrades to zero, it never fails the listing.
	nominations, err := svc.ListNominations(context.Background())
	require.NoError(t, err)
	require.Len(t, nominations, 1)
	assert.EqualValues(t, 0, nominations[0].Votes)
}

func TestSetOverridePinsAndReleasesThePhase(t *testing.T) {
	repo := newFakeVotingRepo()
	user := verifiedUser()
	users := &fakeUserRepo{users: map[string]*model.User{user.ID.String(): user}}

	// Mid-month is normally closed.
	svc := newTestVotingService(repo, users, date(2026, time.January, 15))

	err := svc.SetOverride(context.Background(), dto.SetOverrideRequest{
		TargetMonth: "2026-03",
		Status:      "voting",
	})
	require.NoError(t, err)

	phase, err := svc.CurrentPhase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "voting", phase.Status)
	assert.Equal(t, "marco-2026", phase.TargetMonthSlug)
	assert.True(t, phase.Overridden)

	// 'closed' removes the row and the calendar takes over again.
	err = svc.SetOverride(context.Background(), dto.SetOverrideRequest{
		TargetMonth: "2026-03",
		Status:      "closed",
	})
	require.NoError(t, err)

	phase, err = svc.CurrentPhase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "closed", phase.Status)
	assert.False(t, phase.Overridden)
	assert.Empty(t, phase.TargetMonthSlug)
}

func TestSetOverrideRejectsBadMonth(t *testing.T) {
	repo := newFakeVotingRepo()
	svc := newTestVotingService(repo, &fakeUserRepo{}, date(2026, time.January, 15))

	err := svc.SetOverride(context.Background(), dto.SetOverrideRequest{
		TargetMonth: "March 2026",
		Status:      "voting",
	})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestBookKeyNormalizesAccentsAndCase(t *testing.T) {
	assert.Equal(t,
		BookKey("Grande Sertão: Veredas", "João Guimarães Rosa"),
		BookKey("GRANDE SERTAO: VEREDAS", "joao guimaraes rosa"),
	)
	assert.NotEqual(t,
		BookKey("Dom Casmurro", "Machado de Assis"),
		BookKey("Dom Casmurro", "Outro Autor"),
	)
}
