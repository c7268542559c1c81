package scheduler

import (
	"fmt"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/scope"
)

// Durations holds the project-wide schedule constants. Per-category
// submittal, storage and installation bands come from the catalog.
type Durations struct {
	// RetentionReleaseWeeks is the delay from the last installation to
	// final retention billing.
	RetentionReleaseWeeks int `yaml:"retention_release_weeks" json:"retention_release_weeks"`
	// InstallStep adds one installation week per step of scope value above
	// the category minimum.
	InstallStep domain.Cents `yaml:"install_step" json:"install_step"`
}

// DefaultDurations returns an 8 week retention release and one extra
// installation week per $100,000.
func DefaultDurations() Durations {
	return Durations{RetentionReleaseWeeks: 8, InstallStep: 10_000_000}
}

// Event is one billable milestone.
type Event struct {
	Scope       domain.ScopeCategory  `json:"scope,omitempty"`
	Stage       domain.MilestoneStage `json:"stage"`
	Date        domain.Date           `json:"date"`
	Amount      domain.Cents          `json:"amount"`
	Description string                `json:"description"`
}

// MonthlyRow aggregates every event falling in one calendar month.
type MonthlyRow struct {
	Period     string       `json:"period"`
	Month      string       `json:"month"`
	Amount     domain.Cents `json:"amount"`
	Cumulative domain.Cents `json:"cumulative"`
	Triggers   []string     `json:"triggers"`
	Events     []Event      `json:"events"`
}

// ScopeTimeline records the computed milestone dates for a scope.
type ScopeTimeline struct {
	Scope                domain.ScopeCategory `json:"scope"`
	Value                domain.Cents         `json:"value"`
	LeadTimeWeeks        int                  `json:"lead_time_weeks"`
	InstallWeeks         int                  `json:"install_weeks"`
	SubmittalsComplete   domain.Date          `json:"submittals_complete"`
	MaterialsPurchased   domain.Date          `json:"materials_purchased"`
	MaterialsStored      domain.Date          `json:"materials_stored"`
	InstallationComplete domain.Date          `json:"installation_complete"`
	FinalRetention       domain.Date          `json:"final_retention"`
}

// Schedule is the billing forecast.
type Schedule struct {
	Project       string          `json:"project"`
	ContractValue domain.Cents    `json:"contract_value"`
	StartDate     domain.Date     `json:"start_date"`
	RetentionDate domain.Date     `json:"retention_date"`
	Timelines     []ScopeTimeline `json:"timelines"`
	Events        []Event         `json:"events"`
	Rows          []MonthlyRow    `json:"rows"`
}

// Total is the final cumulative amount.
func (s Schedule) Total() domain.Cents {
	if len(s.Rows) == 0 {
		return 0
	}
	return s.Rows[len(s.Rows)-1].Cumulative
}

// GenerateBillingSchedule projects each scope through its billing stages
// and rolls the milestone amounts up by calendar month. The output depends
// only on its inputs.
func GenerateBillingSchedule(cat *catalog.Catalog, c contract.Contract, matches []scope.Match, d Durations) (Schedule, error) {
	split, err := SplitContract(cat, c, matches)
	if err != nil {
		return Schedule{}, err
	}
	return BuildSchedule(c, split, d)
}

// BuildSchedule computes the schedule from an existing split.
func BuildSchedule(c contract.Contract, split Split, d Durations) (Schedule, error) {
	sched := Schedule{
		Project:       c.Name,
		ContractValue: c.Value,
		StartDate:     c.StartDate,
	}
	if len(split.Scopes) == 0 {
		return sched, nil
	}

	timelines := make([]*Timeline, len(split.Scopes))
	var events []Event
	var lastInstall domain.Date
	for i, sc := range split.Scopes {
		tl, st, err := projectScope(sc, c.StartDate, d)
		if err != nil {
			return Schedule{}, err
		}
		timelines[i] = tl
		sched.Timelines = append(sched.Timelines, st)
		if i == 0 || st.InstallationComplete.After(lastInstall) {
			lastInstall = st.InstallationComplete
		}

		label := sc.Definition.Category.Label()
		events = append(events,
			Event{sc.Match.Category, domain.StageSubmittalsComplete, st.SubmittalsComplete, sc.GeneralConditions, label + " general conditions"},
			Event{sc.Match.Category, domain.StageMaterialsPurchased, st.MaterialsPurchased, sc.MaterialsPurchased, label + " materials purchased"},
			Event{sc.Match.Category, domain.StageMaterialsStored, st.MaterialsStored, sc.MaterialsStored, label + " materials stored"},
			Event{sc.Match.Category, domain.StageInstallationComplete, st.InstallationComplete, sc.Labor, label + " installation labor"},
		)
	}

	sched.RetentionDate = lastInstall.AddWeeks(d.RetentionReleaseWeeks)
	for i, tl := range timelines {
		if err := tl.Advance(domain.StageFinalRetention, sched.RetentionDate); err != nil {
			return Schedule{}, err
		}
		sched.Timelines[i].FinalRetention = sched.RetentionDate
	}
	events = append(events, Event{
		Stage:       domain.StageFinalRetention,
		Date:        sched.RetentionDate,
		Amount:      split.Retention,
		Description: "Final retention release",
	})

	for _, e := range events {
		if e.Amount != 0 {
			sched.Events = append(sched.Events, e)
		}
	}
	CanonicalSort(sched.Events)
	sched.Rows = RollUpMonthly(sched.Events)

	if got := sched.Total(); got != split.Total() {
		return Schedule{}, fmt.Errorf("billing schedule totals %s, want %s", got, split.Total())
	}
	return sched, nil
}

func projectScope(sc ScopeSplit, start domain.Date, d Durations) (*Timeline, ScopeTimeline, error) {
	def := sc.Definition
	tl := NewTimeline(sc.Match.Category, start)
	st := ScopeTimeline{
		Scope:         sc.Match.Category,
		Value:         sc.Value,
		LeadTimeWeeks: sc.Match.LeadTimeWeeks(def.LeadTime.Max),
		InstallWeeks:  InstallWeeks(def, sc.Value, d.InstallStep),
	}

	steps := []struct {
		stage domain.MilestoneStage
		weeks int
		dst   *domain.Date
	}{
		{domain.StageSubmittalsComplete, def.SubmittalWeeks, &st.SubmittalsComplete},
		{domain.StageMaterialsPurchased, st.LeadTimeWeeks, &st.MaterialsPurchased},
		{domain.StageMaterialsStored, def.StorageWeeks, &st.MaterialsStored},
		{domain.StageInstallationComplete, st.InstallWeeks, &st.InstallationComplete},
	}
	for _, step := range steps {
		on := tl.Current().AddWeeks(step.weeks)
		if err := tl.Advance(step.stage, on); err != nil {
			return nil, ScopeTimeline{}, err
		}
		*step.dst = on
	}
	return tl, st, nil
}

// InstallWeeks sizes installation: the category minimum plus one week per
// step of scope value, clamped to the category maximum.
func InstallWeeks(def domain.ScopeDefinition, value, step domain.Cents) int {
	extra := 0
	if step > 0 {
		extra = int(value / step)
	}
	return clamp(def.InstallWeeks.Min+extra, def.InstallWeeks.Min, def.InstallWeeks.Max)
}

// RollUpMonthly groups canonically sorted events by calendar month with a
// running cumulative total.
func RollUpMonthly(events []Event) []MonthlyRow {
	var rows []MonthlyRow
	var cumulative domain.Cents
	for _, e := range events {
		period := e.Date.Period()
		if len(rows) == 0 || rows[len(rows)-1].Period != period {
			rows = append(rows, MonthlyRow{Period: period, Month: e.Date.MonthLabel()})
		}
		row := &rows[len(rows)-1]
		row.Amount += e.Amount
		cumulative += e.Amount
		row.Cumulative = cumulative
		row.Events = append(row.Events, e)
		if label := e.Stage.Label(); !containsString(row.Triggers, label) {
			row.Triggers = append(row.Triggers, label)
		}
	}
	return rows
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
