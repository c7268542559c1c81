package scheduler

import "sort"

// CanonicalSort orders billing events deterministically:
// 1. Date: earliest first
// 2. Stage: lifecycle order
// 3. Scope: canonical category order (project-level events first)
// 4. Description: lexical ascending
func CanonicalSort(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]

		// 1. Date
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.Before(b.Date)
		}

		// 2. Stage
		if a.Stage.Order() != b.Stage.Order() {
			return a.Stage.Order() < b.Stage.Order()
		}

		// 3. Scope
		if a.Scope.Order() != b.Scope.Order() {
			return a.Scope.Order() < b.Scope.Order()
		}

		// 4. Description
		return a.Description < b.Description
	})
}
