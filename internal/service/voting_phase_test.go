package service

import (
	"testing"
	"time"

	"github.com/Dev-MJBS/capelo-club-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestResolvePhaseCalendarRule(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantStatus PhaseStatus
		wantSlug   string
	}{
		{"first of month keeps voting open for that month", date(2026, time.January, 1), PhaseVoting, "janeiro-2026"},
		{"mid month is closed", date(2026, time.January, 15), PhaseClosed, ""},
		{"day 26 opens nominations for next month", date(2026, time.January, 26), PhaseNomination, "fevereiro-2026"},
		{"day 28 still nominating", date(2026, time.January, 28), PhaseNomination, "fevereiro-2026"},
		{"day 29 switches to voting for next month", date(2026, time.January, 29), PhaseVoting, "fevereiro-2026"},
		{"day 31 still voting", date(2026, time.January, 31), PhaseVoting, "fevereiro-2026"},
		{"day 2 is closed again", date(2026, time.February, 2), PhaseClosed, ""},
		{"december rolls into january", date(2026, time.December, 27), PhaseNomination, "janeiro-2027"},
		{"february short month, day 28 nominates for march", date(2026, time.February, 28), PhaseNomination, "marco-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase := ResolvePhase(tt.now, nil)
			assert.Equal(t, tt.wantStatus, phase.Status)
			if tt.wantSlug == "" {
				assert.Nil(t, phase.TargetMonth)
				assert.Empty(t, phase.TargetMonthSlug)
			} else {
				require.NotNil(t, phase.TargetMonth)
				assert.Equal(t, tt.wantSlug, phase.TargetMonthSlug)
				assert.Equal(t, 1, phase.TargetMonth.Day())
			}
		})
	}
}

func TestResolvePhaseOverrideWins(t *testing.T) {
	// Mid-month, normally closed.
	now := date(2026, time.January, 15)

	override := &model.VotingOverride{
		Status:      string(PhaseVoting),
		TargetMonth: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	phase := ResolvePhase(now, override)
	assert.Equal(t, PhaseVoting, phase.Status)
	require.NotNil(t, phase.TargetMonth)
	assert.Equal(t, "marco-2026", phase.TargetMonthSlug)
}

func TestResolvePhaseOverrideNormalizesTargetMonth(t *testing.T) {
	override := &model.VotingOverride{
		Status:      string(PhaseNomination),
		TargetMonth: time.Date(2026, time.March, 17, 9, 45, 0, 0, time.UTC),
	}

	phase := ResolvePhase(date(2026, time.January, 5), override)
	require.NotNil(t, phase.TargetMonth)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), *phase.TargetMonth)
}

func TestResolvePhaseStoredClosedOverrideIsIgnored(t *testing.T) {
	// A row carrying 'closed' must not pin the cycle; the calendar decides.
	override := &model.VotingOverride{
		Status:      string(PhaseClosed),
		TargetMonth: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	phase := ResolvePhase(date(2026, time.January, 27), override)
	assert.Equal(t, PhaseNomination, phase.Status)
	assert.Equal(t, "fevereiro-2026", phase.TargetMonthSlug)
}

func TestMonthSlug(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "janeiro-2026"},
		{time.February, "fevereiro-2026"},
		{time.March, "marco-2026"},
		{time.April, "abril-2026"},
		{time.May, "maio-2026"},
		{time.June, "junho-2026"},
		{time.July, "julho-2026"},
		{time.August, "agosto-2026"},
		{time.September, "setembro-2026"},
		{time.October, "outubro-2026"},
		{time.November, "novembro-2026"},
		{time.December, "dezembro-2026"},
	}

	for _, tt := range tests {
		got := MonthSlug(time.Date(2026, tt.month, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, tt.want, got)
	}
}
