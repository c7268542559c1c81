package scheduler

import (
	"fmt"

	"github.com/alexanderramin/glazingpm/internal/domain"
)

// Timeline tracks one scope through the billing stages. Stages advance one
// at a time and dates never move backwards.
type Timeline struct {
	Scope domain.ScopeCategory
	Stage domain.MilestoneStage
	Start domain.Date
	dates map[domain.MilestoneStage]domain.Date
}

// NewTimeline starts a scope at NotStarted on the project start date.
func NewTimeline(scope domain.ScopeCategory, start domain.Date) *Timeline {
	return &Timeline{
		Scope: scope,
		Stage: domain.StageNotStarted,
		Start: start,
		dates: map[domain.MilestoneStage]domain.Date{domain.StageNotStarted: start},
	}
}

// Advance moves the timeline to the next stage on the given date.
func (t *Timeline) Advance(to domain.MilestoneStage, on domain.Date) error {
	next, ok := t.Stage.Next()
	if !ok {
		return fmt.Errorf("%s: %s is terminal", t.Scope, t.Stage)
	}
	if to != next {
		return fmt.Errorf("%s: cannot move from %s to %s", t.Scope, t.Stage, to)
	}
	if on.Before(t.Current()) {
		return fmt.Errorf("%s: %s on %s is before %s on %s", t.Scope, to, on, t.Stage, t.Current())
	}
	t.dates[to] = on
	t.Stage = to
	return nil
}

// Current is the date the timeline reached its current stage.
func (t *Timeline) Current() domain.Date {
	return t.dates[t.Stage]
}

// DateOf returns when the stage was reached.
func (t *Timeline) DateOf(stage domain.MilestoneStage) (domain.Date, bool) {
	d, ok := t.dates[stage]
	return d, ok
}
