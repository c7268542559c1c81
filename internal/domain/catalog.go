package domain

// Vendor is a qualified supplier for one or more material categories.
type Vendor struct {
	Name          string             `yaml:"name" json:"name"`
	Materials     []MaterialCategory `yaml:"materials" json:"materials"`
	Contact       string             `yaml:"contact" json:"contact,omitempty"`
	Email         string             `yaml:"email" json:"email,omitempty"`
	Phone         string             `yaml:"phone" json:"phone,omitempty"`
	Location      string             `yaml:"location" json:"location,omitempty"`
	LeadTimeWeeks int                `yaml:"lead_time_weeks" json:"lead_time_weeks"`
	Rating        int                `yaml:"rating" json:"rating"`
	Notes         string             `yaml:"notes" json:"notes,omitempty"`
}

// Supplies reports whether the vendor carries the material category.
func (v Vendor) Supplies(m MaterialCategory) bool {
	for _, x := range v.Materials {
		if x == m {
			return true
		}
	}
	return false
}

// CostCode is an internal budget line code.
type CostCode struct {
	Code        string       `yaml:"code" json:"code"`
	Description string       `yaml:"description" json:"description"`
	Category    CostCategory `yaml:"category" json:"category"`
	Unit        Unit         `yaml:"unit" json:"unit"`
	UnitRate    Cents        `yaml:"unit_rate" json:"unit_rate"`
}

// WeekRange is an inclusive duration band in weeks.
type WeekRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// MaterialDefinition ties a material category to the cost codes that
// budget it.
type MaterialDefinition struct {
	Category  MaterialCategory `yaml:"category" json:"category"`
	CostCodes []string         `yaml:"cost_codes" json:"cost_codes"`
}

// ScopeDefinition is the static description of one scope category.
type ScopeDefinition struct {
	Category          ScopeCategory      `yaml:"category" json:"category"`
	Keywords          []string           `yaml:"keywords" json:"keywords"`
	SpecSections      []string           `yaml:"spec_sections" json:"spec_sections"`
	LeadTime          WeekRange          `yaml:"lead_time_weeks" json:"lead_time_weeks"`
	RequiredMaterials []MaterialCategory `yaml:"materials" json:"materials"`
	CostCodes         []string           `yaml:"cost_codes" json:"cost_codes"`
	SubmittalWeeks    int                `yaml:"submittal_weeks" json:"submittal_weeks"`
	StorageWeeks      int                `yaml:"storage_weeks" json:"storage_weeks"`
	InstallWeeks      WeekRange          `yaml:"install_weeks" json:"install_weeks"`
	TypicalValue      Cents              `yaml:"typical_value" json:"typical_value"`
}

// HasCostCode reports whether code is budgeted for this scope.
func (d ScopeDefinition) HasCostCode(code string) bool {
	for _, c := range d.CostCodes {
		if c == code {
			return true
		}
	}
	return false
}

// PrimarySpecSection returns the first listed CSI section, if any.
func (d ScopeDefinition) PrimarySpecSection() string {
	if len(d.SpecSections) == 0 {
		return ""
	}
	return d.SpecSections[0]
}
