package domain

import "strings"

// SubmittalCategory classifies a submittal log item.
type SubmittalCategory string

const (
	SubmittalProductData     SubmittalCategory = "PRODUCT_DATA"
	SubmittalShopDrawings    SubmittalCategory = "SHOP_DRAWINGS"
	SubmittalSamples         SubmittalCategory = "SAMPLES"
	SubmittalMockUps         SubmittalCategory = "MOCK_UPS"
	SubmittalCertifications  SubmittalCategory = "CERTIFICATIONS"
	SubmittalWarranties      SubmittalCategory = "WARRANTIES"
	SubmittalTestReports     SubmittalCategory = "TEST_REPORTS"
	SubmittalMaintenanceData SubmittalCategory = "MAINTENANCE_DATA"
	SubmittalOther           SubmittalCategory = "OTHER"
)

var submittalOrder = []SubmittalCategory{
	SubmittalProductData,
	SubmittalShopDrawings,
	SubmittalSamples,
	SubmittalMockUps,
	SubmittalCertifications,
	SubmittalWarranties,
	SubmittalTestReports,
	SubmittalMaintenanceData,
	SubmittalOther,
}

// AllSubmittalCategories returns the categories in log summary order.
func AllSubmittalCategories() []SubmittalCategory {
	out := make([]SubmittalCategory, len(submittalOrder))
	copy(out, submittalOrder)
	return out
}

func (s SubmittalCategory) Valid() bool {
	for _, c := range submittalOrder {
		if c == s {
			return true
		}
	}
	return false
}

func (s SubmittalCategory) Label() string {
	switch s {
	case SubmittalProductData:
		return "Product Data"
	case SubmittalShopDrawings:
		return "Shop Drawings"
	case SubmittalSamples:
		return "Samples"
	case SubmittalMockUps:
		return "Mock-Ups"
	case SubmittalCertifications:
		return "Certifications"
	case SubmittalWarranties:
		return "Warranties"
	case SubmittalTestReports:
		return "Test Reports"
	case SubmittalMaintenanceData:
		return "Maintenance Data"
	case SubmittalOther:
		return "Other"
	}
	return string(s)
}

// ParseSubmittalCategory accepts the constant, its lower-case form
// ("shop_drawings") or the label. Anything else is SubmittalOther.
func ParseSubmittalCategory(s string) SubmittalCategory {
	key := strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_").Replace(strings.TrimSpace(s)))
	for _, c := range submittalOrder {
		if string(c) == key || strings.EqualFold(c.Label(), strings.TrimSpace(s)) {
			return c
		}
	}
	return SubmittalOther
}

// SubmittalRequirement is a document owed to the architect before release
// for fabrication. An empty SpecSection means the scope's own section.
type SubmittalRequirement struct {
	Category    SubmittalCategory `yaml:"category" json:"category"`
	Description string            `yaml:"description" json:"description"`
	SpecSection string            `yaml:"spec_section" json:"spec_section,omitempty"`
	Scopes      []ScopeCategory   `yaml:"scopes" json:"scopes,omitempty"`
	Optional    bool              `yaml:"optional" json:"optional,omitempty"`
	Notes       string            `yaml:"notes" json:"notes,omitempty"`
}

// AppliesTo reports whether the requirement lists scope.
func (r SubmittalRequirement) AppliesTo(scope ScopeCategory) bool {
	for _, s := range r.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
