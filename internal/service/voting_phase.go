package service

import (
	"fmt"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
)

// PhaseStatus is the state of the monthly book poll.
type PhaseStatus string

const (
	PhaseNomination PhaseStatus = "nomination"
	PhaseVoting     PhaseStatus = "voting"
	PhaseClosed     PhaseStatus = "closed"
)

// PhaseInfo is the resolved cycle state. TargetMonth is nil when the cycle is
// closed and no month is being targeted.
type PhaseInfo struct {
	Status          PhaseStatus `json:"status"`
	TargetMonth     *time.Time  `json:"target_month,omitempty"`
	TargetMonthSlug string      `json:"target_month_slug,omitempty"`
}

// Fixed month-name table so slugs never depend on the runtime locale.
var monthSlugs = [...]string{
	"janeiro", "fevereiro", "marco", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthSlug derives the canonical slug for a target month, e.g. "marco-2026".
func MonthSlug(t time.Time) string {
	return fmt.Sprintf("%s-%d", monthSlugs[int(t.Month())-1], t.Year())
}

// ResolvePhase computes the poll phase from the clock and an optional admin
// override. A stored override always wins; closing the cycle is done by
// deleting the override row, so a row carrying 'closed' is treated as absent.
//
// Automatic rule: days 26-28 open nominations for the next month, days 29-31
// open voting for the next month, day 1 keeps voting open for the month that
// just started. Any other day the cycle is closed with no target month.
func ResolvePhase(now time.Time, override *model.VotingOverride) PhaseInfo {
	if override != nil && override.Status != string(PhaseClosed) {
		target := firstOfMonth(override.TargetMonth)
		return PhaseInfo{
			Status:          PhaseStatus(override.Status),
			TargetMonth:     &target,
			TargetMonthSlug: MonthSlug(target),
		}
	}

	day := now.Day()

	var status PhaseStatus
	switch {
	case day >= 26 && day <= 28:
		status = PhaseNomination
	case day >= 29 || day == 1:
		status = PhaseVoting
	default:
		status = PhaseClosed
	}

	var target *time.Time
	switch {
	case day >= 26:
		t := firstOfMonth(now).AddDate(0, 1, 0)
		target = &t
	case day == 1:
		t := firstOfMonth(now)
		target = &t
	}

	// Without a target month there is nothing to nominate or vote on.
	if target == nil {
		return PhaseInfo{Status: PhaseClosed}
	}

	return PhaseInfo{
		Status:          status,
		TargetMonth:     target,
		TargetMonthSlug: MonthSlug(*target),
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
