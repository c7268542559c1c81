package domain

import "fmt"

type WarningCode string

const (
	WarnUnmatchedScopeCategory  WarningCode = "UNMATCHED_SCOPE_CATEGORY"
	WarnUnmatchedVendorCategory WarningCode = "UNMATCHED_VENDOR_CATEGORY"
	WarnUnclassifiedCost        WarningCode = "UNCLASSIFIED_COST_CATEGORY"
	WarnScopeValuesRescaled     WarningCode = "SCOPE_VALUES_RESCALED"
	WarnNoScopeDetected         WarningCode = "NO_SCOPE_DETECTED"
)

// Warning is a non-fatal finding surfaced with the generated documents.
type Warning struct {
	Code     WarningCode      `json:"code"`
	Scope    ScopeCategory    `json:"scope,omitempty"`
	Material MaterialCategory `json:"material,omitempty"`
	Message  string           `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}
