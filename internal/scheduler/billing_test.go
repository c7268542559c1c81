package scheduler

import (
	"encoding/json"
	"testing"

	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBillingSchedule_FireRatedHundredThousand(t *testing.T) {
	cat := testCatalog(t)
	sched, err := GenerateBillingSchedule(cat, testContract(t, 10_000_000), matchesFor(t, cat, "Fire-rated glazing"), DefaultDurations())
	require.NoError(t, err)

	require.Len(t, sched.Timelines, 1)
	tl := sched.Timelines[0]
	assert.Equal(t, 10, tl.LeadTimeWeeks, "longest selected vendor lead time")
	assert.Equal(t, 3, tl.InstallWeeks)
	assert.Equal(t, "2025-01-27", tl.SubmittalsComplete.String())
	assert.Equal(t, "2025-04-07", tl.MaterialsPurchased.String())
	assert.Equal(t, "2025-04-21", tl.MaterialsStored.String())
	assert.Equal(t, "2025-05-12", tl.InstallationComplete.String())
	assert.Equal(t, "2025-07-07", tl.FinalRetention.String())
	assert.Equal(t, "2025-07-07", sched.RetentionDate.String())

	require.Len(t, sched.Rows, 4)
	expect := []struct {
		period     string
		amount     domain.Cents
		cumulative domain.Cents
	}{
		{"2025-01", 1_140_000, 1_140_000},
		{"2025-04", 5_225_000, 6_365_000},
		{"2025-05", 3_135_000, 9_500_000},
		{"2025-07", 500_000, 10_000_000},
	}
	for i, e := range expect {
		assert.Equal(t, e.period, sched.Rows[i].Period)
		assert.Equal(t, e.amount, sched.Rows[i].Amount, "row %s", e.period)
		assert.Equal(t, e.cumulative, sched.Rows[i].Cumulative, "row %s", e.period)
	}
	assert.Equal(t, "April 2025", sched.Rows[1].Month)
	assert.Equal(t, []string{"Materials Purchased", "Materials Stored"}, sched.Rows[1].Triggers)

	last := sched.Rows[len(sched.Rows)-1]
	assert.Equal(t, []string{"Final Retention"}, last.Triggers)
	assert.Equal(t, domain.Cents(500_000), last.Amount, "final milestone carries the $5,000 retention")
	assert.Equal(t, domain.Cents(10_000_000), sched.Total())
}

func TestGenerateBillingSchedule_ZeroContractIsEmpty(t *testing.T) {
	cat := testCatalog(t)
	sched, err := GenerateBillingSchedule(cat, testContract(t, 0), matchesFor(t, cat, "Storefront"), DefaultDurations())
	require.NoError(t, err)
	assert.Empty(t, sched.Rows)
	assert.Empty(t, sched.Events)
	assert.Equal(t, domain.Cents(0), sched.Total())
}

func TestGenerateBillingSchedule_LeadTimeDrivesPurchaseDate(t *testing.T) {
	cat := testCatalog(t)
	matches := matchesFor(t, cat, "Fire-rated glazing", "Entrance doors")
	matches[0] = valued(matches[0], 5_000_000)
	matches[1] = valued(matches[1], 5_000_000)

	sched, err := GenerateBillingSchedule(cat, testContract(t, 10_000_000), matches, DefaultDurations())
	require.NoError(t, err)
	require.Len(t, sched.Timelines, 2)

	fire, doors := sched.Timelines[0], sched.Timelines[1]
	assert.Equal(t, fire.Value, doors.Value)
	assert.Equal(t, fire.SubmittalsComplete, doors.SubmittalsComplete)
	assert.NotEqual(t, fire.LeadTimeWeeks, doors.LeadTimeWeeks)
	assert.NotEqual(t, fire.MaterialsPurchased, doors.MaterialsPurchased)
}

func TestGenerateBillingSchedule_RetentionAfterLatestInstall(t *testing.T) {
	cat := testCatalog(t)
	sched, err := GenerateBillingSchedule(cat, testContract(t, 50_000_000), matchesFor(t, cat, "Mirrors", "Curtain wall"), DefaultDurations())
	require.NoError(t, err)

	var latest domain.Date
	for _, tl := range sched.Timelines {
		latest = domain.MaxDate(latest, tl.InstallationComplete)
	}
	assert.Equal(t, latest.AddWeeks(8), sched.RetentionDate)

	var retentionEvents int
	for _, e := range sched.Events {
		if e.Stage == domain.StageFinalRetention {
			retentionEvents++
			assert.Empty(t, e.Scope, "retention is billed at project level")
		}
	}
	assert.Equal(t, 1, retentionEvents)
}

func TestGenerateBillingSchedule_Deterministic(t *testing.T) {
	cat := testCatalog(t)
	c := testContract(t, 98_765_432)
	matches := matchesFor(t, cat, "Storefront", "Curtain wall", "Metal panels")

	a, err := GenerateBillingSchedule(cat, c, matches, DefaultDurations())
	require.NoError(t, err)
	b, err := GenerateBillingSchedule(cat, c, matches, DefaultDurations())
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestGenerateBillingSchedule_PropagatesInvalidInput(t *testing.T) {
	cat := testCatalog(t)
	matches := matchesFor(t, cat, "Storefront")
	matches[0] = valued(matches[0], 20_000_000)
	_, err := GenerateBillingSchedule(cat, testContract(t, 10_000_000), matches, DefaultDurations())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInstallWeeks_SizedAndClamped(t *testing.T) {
	def := domain.ScopeDefinition{InstallWeeks: domain.WeekRange{Min: 2, Max: 6}}
	step := DefaultDurations().InstallStep
	assert.Equal(t, 2, InstallWeeks(def, 5_000_000, step))
	assert.Equal(t, 3, InstallWeeks(def, 10_000_000, step))
	assert.Equal(t, 6, InstallWeeks(def, 900_000_000, step))
	assert.Equal(t, 2, InstallWeeks(def, 900_000_000, 0), "no step keeps the minimum")
}

func TestRollUpMonthly_GroupsByCalendarMonth(t *testing.T) {
	events := []Event{
		{Stage: domain.StageSubmittalsComplete, Date: mustDate(t, "2025-02-03"), Amount: 100},
		{Stage: domain.StageSubmittalsComplete, Date: mustDate(t, "2025-02-24"), Amount: 200},
		{Stage: domain.StageMaterialsPurchased, Date: mustDate(t, "2025-02-28"), Amount: 300},
		{Stage: domain.StageInstallationComplete, Date: mustDate(t, "2026-02-02"), Amount: 400},
	}
	rows := RollUpMonthly(events)
	require.Len(t, rows, 2, "same month in a different year is a separate row")
	assert.Equal(t, domain.Cents(600), rows[0].Amount)
	assert.Equal(t, []string{"Submittals Complete", "Materials Purchased"}, rows[0].Triggers)
	assert.Len(t, rows[0].Events, 3)
	assert.Equal(t, "2026-02", rows[1].Period)
	assert.Equal(t, domain.Cents(1000), rows[1].Cumulative)
}
