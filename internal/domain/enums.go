package domain

import "fmt"

// ScopeCategory is a recognized glazing scope type.
type ScopeCategory string

const (
	ScopeStorefront      ScopeCategory = "STOREFRONT"
	ScopeCurtainWall     ScopeCategory = "CURTAIN_WALL"
	ScopeFireRated       ScopeCategory = "FIRE_RATED"
	ScopeInteriorGlazing ScopeCategory = "INTERIOR_GLAZING"
	ScopeMirrors         ScopeCategory = "MIRRORS"
	ScopeEntranceDoors   ScopeCategory = "ENTRANCE_DOORS"
	ScopeSpecialtyGlass  ScopeCategory = "SPECIALTY_GLASS"
	ScopeMetalPanels     ScopeCategory = "METAL_PANELS"
	ScopeGlassRailing    ScopeCategory = "GLASS_RAILING"
	ScopeMonolithicGlass ScopeCategory = "MONOLITHIC_GLASS"
	// ScopeUnclassified groups a contract whose signals matched nothing.
	ScopeUnclassified    ScopeCategory = "UNCLASSIFIED"
)

var scopeOrder = []ScopeCategory{
	ScopeStorefront,
	ScopeCurtainWall,
	ScopeFireRated,
	ScopeInteriorGlazing,
	ScopeMirrors,
	ScopeEntranceDoors,
	ScopeSpecialtyGlass,
	ScopeMetalPanels,
	ScopeGlassRailing,
	ScopeMonolithicGlass,
	ScopeUnclassified,
}

// AllScopeCategories returns the categories in canonical order.
func AllScopeCategories() []ScopeCategory {
	out := make([]ScopeCategory, len(scopeOrder))
	copy(out, scopeOrder)
	return out
}

// Order is the canonical position, or -1 for an unknown category.
func (s ScopeCategory) Order() int {
	for i, c := range scopeOrder {
		if c == s {
			return i
		}
	}
	return -1
}

func (s ScopeCategory) Valid() bool { return s.Order() >= 0 }

func (s ScopeCategory) Label() string {
	switch s {
	case ScopeStorefront:
		return "Storefront"
	case ScopeCurtainWall:
		return "Curtain Wall"
	case ScopeFireRated:
		return "Fire-Rated Glazing"
	case ScopeInteriorGlazing:
		return "Interior Glazing"
	case ScopeMirrors:
		return "Mirrors"
	case ScopeEntranceDoors:
		return "Entrance Doors"
	case ScopeSpecialtyGlass:
		return "Specialty Glass"
	case ScopeMetalPanels:
		return "Metal Panels"
	case ScopeGlassRailing:
		return "Glass Railing"
	case ScopeMonolithicGlass:
		return "Monolithic Glass"
	case ScopeUnclassified:
		return "Unclassified Glazing"
	}
	return string(s)
}

// ParseScopeCategory accepts the constant ("FIRE_RATED") or label form.
func ParseScopeCategory(s string) (ScopeCategory, error) {
	for _, c := range scopeOrder {
		if string(c) == s || c.Label() == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown scope category %q", s)
}

// MaterialCategory is a vendor capability tag.
type MaterialCategory string

const (
	MaterialAluminumFraming    MaterialCategory = "ALUMINUM_FRAMING"
	MaterialGlassMonolithic    MaterialCategory = "GLASS_MONOLITHIC"
	MaterialGlassIGU           MaterialCategory = "GLASS_IGU"
	MaterialGlassFireRated     MaterialCategory = "GLASS_FIRE_RATED"
	MaterialGlassSpecialty     MaterialCategory = "GLASS_SPECIALTY"
	MaterialDoorHardware       MaterialCategory = "DOOR_HARDWARE"
	MaterialAllGlassHardware   MaterialCategory = "ALL_GLASS_HARDWARE"
	MaterialSealants           MaterialCategory = "SEALANTS"
	MaterialMetalPanels        MaterialCategory = "METAL_PANELS"
	MaterialPaintFinishing     MaterialCategory = "PAINT_FINISHING"
	MaterialGlazingAccessories MaterialCategory = "GLAZING_ACCESSORIES"
)

var materialOrder = []MaterialCategory{
	MaterialAluminumFraming,
	MaterialGlassMonolithic,
	MaterialGlassIGU,
	MaterialGlassFireRated,
	MaterialGlassSpecialty,
	MaterialDoorHardware,
	MaterialAllGlassHardware,
	MaterialSealants,
	MaterialMetalPanels,
	MaterialPaintFinishing,
	MaterialGlazingAccessories,
}

// AllMaterialCategories returns the material categories in canonical order.
func AllMaterialCategories() []MaterialCategory {
	out := make([]MaterialCategory, len(materialOrder))
	copy(out, materialOrder)
	return out
}

func (m MaterialCategory) Valid() bool {
	for _, c := range materialOrder {
		if c == m {
			return true
		}
	}
	return false
}

func (m MaterialCategory) Label() string {
	switch m {
	case MaterialAluminumFraming:
		return "Aluminum Framing"
	case MaterialGlassMonolithic:
		return "Glass Monolithic"
	case MaterialGlassIGU:
		return "Glass IGU"
	case MaterialGlassFireRated:
		return "Glass Fire-Rated"
	case MaterialGlassSpecialty:
		return "Glass Specialty"
	case MaterialDoorHardware:
		return "Door Hardware"
	case MaterialAllGlassHardware:
		return "All-Glass Hardware"
	case MaterialSealants:
		return "Sealants"
	case MaterialMetalPanels:
		return "Metal Panels"
	case MaterialPaintFinishing:
		return "Paint Finishing"
	case MaterialGlazingAccessories:
		return "Glazing Accessories"
	}
	return string(m)
}

// CostCategory is the cost category the material is budgeted under.
func (m MaterialCategory) CostCategory() CostCategory {
	switch m {
	case MaterialAluminumFraming, MaterialMetalPanels, MaterialPaintFinishing:
		return CostMetal
	case MaterialGlassMonolithic, MaterialGlassIGU, MaterialGlassFireRated, MaterialGlassSpecialty:
		return CostGlass
	case MaterialDoorHardware, MaterialAllGlassHardware:
		return CostHardware
	case MaterialSealants:
		return CostSealant
	case MaterialGlazingAccessories:
		return CostAccessory
	}
	return CostAccessory
}

// CostCategory groups cost codes in the budget.
type CostCategory string

const (
	CostLabor     CostCategory = "LABOR"
	CostGlass     CostCategory = "GLASS"
	CostMetal     CostCategory = "METAL"
	CostHardware  CostCategory = "HARDWARE"
	CostSealant   CostCategory = "SEALANT"
	CostAccessory CostCategory = "ACCESSORY"
	CostIndirect  CostCategory = "INDIRECT"
)

var costOrder = []CostCategory{CostLabor, CostGlass, CostMetal, CostHardware, CostSealant, CostAccessory, CostIndirect}

// AllCostCategories returns the cost categories in canonical order.
func AllCostCategories() []CostCategory {
	out := make([]CostCategory, len(costOrder))
	copy(out, costOrder)
	return out
}

func (c CostCategory) Valid() bool {
	for _, v := range costOrder {
		if v == c {
			return true
		}
	}
	return false
}

func (c CostCategory) Label() string {
	switch c {
	case CostLabor:
		return "Labor"
	case CostGlass:
		return "Glass"
	case CostMetal:
		return "Metal"
	case CostHardware:
		return "Hardware"
	case CostSealant:
		return "Sealant"
	case CostAccessory:
		return "Accessory"
	case CostIndirect:
		return "Indirect"
	}
	return string(c)
}

// BillingCategory maps the cost category onto the SOV band it is billed in.
func (c CostCategory) BillingCategory() BillingCategory {
	switch c {
	case CostLabor:
		return BillingLabor
	case CostIndirect:
		return BillingGeneralConditions
	case CostGlass, CostMetal, CostHardware, CostSealant, CostAccessory:
		return BillingMaterials
	}
	return BillingMaterials
}

// BillingCategory is one of the four SOV bands.
type BillingCategory string

const (
	BillingGeneralConditions BillingCategory = "GENERAL_CONDITIONS"
	BillingMaterials         BillingCategory = "MATERIALS"
	BillingLabor             BillingCategory = "LABOR"
	BillingRetention         BillingCategory = "RETENTION"
)

var billingOrder = []BillingCategory{BillingGeneralConditions, BillingMaterials, BillingLabor, BillingRetention}

// AllBillingCategories returns the bands in SOV order.
func AllBillingCategories() []BillingCategory {
	out := make([]BillingCategory, len(billingOrder))
	copy(out, billingOrder)
	return out
}

func (b BillingCategory) Label() string {
	switch b {
	case BillingGeneralConditions:
		return "General Conditions"
	case BillingMaterials:
		return "Materials"
	case BillingLabor:
		return "Labor"
	case BillingRetention:
		return "Retention"
	}
	return string(b)
}

// Trigger names the milestone(s) that bill this band.
func (b BillingCategory) Trigger() string {
	switch b {
	case BillingGeneralConditions:
		return StageSubmittalsComplete.Label()
	case BillingMaterials:
		return StageMaterialsPurchased.Label() + " / " + StageMaterialsStored.Label()
	case BillingLabor:
		return StageInstallationComplete.Label()
	case BillingRetention:
		return StageFinalRetention.Label()
	}
	return ""
}

// MilestoneStage is a state in a scope's billing lifecycle. Stages only
// move forward.
type MilestoneStage string

const (
	StageNotStarted           MilestoneStage = "NOT_STARTED"
	StageSubmittalsComplete   MilestoneStage = "SUBMITTALS_COMPLETE"
	StageMaterialsPurchased   MilestoneStage = "MATERIALS_PURCHASED"
	StageMaterialsStored      MilestoneStage = "MATERIALS_STORED"
	StageInstallationComplete MilestoneStage = "INSTALLATION_COMPLETE"
	StageFinalRetention       MilestoneStage = "FINAL_RETENTION"
)

var stageOrder = []MilestoneStage{
	StageNotStarted,
	StageSubmittalsComplete,
	StageMaterialsPurchased,
	StageMaterialsStored,
	StageInstallationComplete,
	StageFinalRetention,
}

func (m MilestoneStage) Order() int {
	for i, s := range stageOrder {
		if s == m {
			return i
		}
	}
	return -1
}

// Next returns the following stage; FinalRetention is terminal.
func (m MilestoneStage) Next() (MilestoneStage, bool) {
	i := m.Order()
	if i < 0 || i == len(stageOrder)-1 {
		return m, false
	}
	return stageOrder[i+1], true
}

func (m MilestoneStage) Terminal() bool { return m == StageFinalRetention }

func (m MilestoneStage) Label() string {
	switch m {
	case StageNotStarted:
		return "Not Started"
	case StageSubmittalsComplete:
		return "Submittals Complete"
	case StageMaterialsPurchased:
		return "Materials Purchased"
	case StageMaterialsStored:
		return "Materials Stored"
	case StageInstallationComplete:
		return "Installation Complete"
	case StageFinalRetention:
		return "Final Retention"
	}
	return string(m)
}

// Unit is a cost code's unit of measure.
type Unit string

const (
	UnitHour    Unit = "hour"
	UnitSqft    Unit = "sqft"
	UnitLinft   Unit = "linft"
	UnitEach    Unit = "each"
	UnitSet     Unit = "set"
	UnitDay     Unit = "day"
	UnitLumpSum Unit = "lbsum"
)

// ValidUnits is the canonical set of accepted unit strings.
var ValidUnits = map[Unit]bool{
	UnitHour: true, UnitSqft: true, UnitLinft: true, UnitEach: true,
	UnitSet: true, UnitDay: true, UnitLumpSum: true,
}
