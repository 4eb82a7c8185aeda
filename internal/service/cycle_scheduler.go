package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

const lastPhaseKey = "voting_cycle:last_phase"

// CycleScheduler watches the monthly voting cycle and announces phase
// transitions to every member. It runs shortly after midnight so the
// day-of-month rules have already flipped.
type CycleScheduler struct {
	cron                *cron.Cron
	votingRepo          repository.VotingRepository
	notificationService NotificationService
	redisClient         *redis.Client
}

func NewCycleScheduler(votingRepo repository.VotingRepository, notificationService NotificationService, redisClient *redis.Client) *CycleScheduler {
	return &CycleScheduler{
		cron:                cron.New(),
		votingRepo:          votingRepo,
		notificationService: notificationService,
		redisClient:         redisClient,
	}
}

func (s *CycleScheduler) Start() {
	_, err := s.cron.AddFunc("10 0 * * *", func() {
		if err := s.Tick(context.Background()); err != nil {
			log.Printf("voting cycle tick failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("failed to schedule voting cycle job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("voting cycle scheduler started")
}

func (s *CycleScheduler) Stop() {
	s.cron.Stop()
}

// Tick resolves the current phase and, when it differs from the last phase
// seen, broadcasts the change. Redis remembers the last announced phase so
// restarts don't re-announce.
func (s *CycleScheduler) Tick(ctx context.Context) error {
	override, err := s.votingRepo.FindActiveOverride(ctx)
	if err != nil {
		return err
	}

	phase := ResolvePhase(time.Now(), override)

	current := string(phase.Status)
	if phase.TargetMonthSlug != "" {
		current = current + ":" + phase.TargetMonthSlug
	}

	if s.redisClient != nil {
		last, err := s.redisClient.Get(ctx, lastPhaseKey).Result()
		if err == nil && last == current {
			return nil
		}
		s.redisClient.Set(ctx, lastPhaseKey, current, 0)
	}

	var message string
	switch phase.Status {
	case PhaseNomination:
		message = fmt.Sprintf("Nominations for %s are open! Suggest the next book.", phase.TargetMonthSlug)
	case PhaseVoting:
		message = fmt.Sprintf("Voting for %s is open! Pick your favorite nomination.", phase.TargetMonthSlug)
	default:
		// Closing is quiet; the winner announcement covers it.
		return nil
	}

	return s.notificationService.Broadcast(ctx, uuid.Nil, uuid.Nil, phase.TargetMonthSlug, "voting_cycle", "phase_change", message)
}
