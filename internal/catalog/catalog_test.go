package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Default()
	require.NoError(t, err)
	return cat
}

func TestDefault_LoadsEveryTable(t *testing.T) {
	cat := mustDefault(t)

	assert.NotEmpty(t, cat.Vendors())
	assert.NotEmpty(t, cat.CostCodes())
	assert.Len(t, cat.Scopes(), len(domain.AllScopeCategories())-1, "unclassified fallback is not listed")

	_, ok := cat.Scope(domain.ScopeUnclassified)
	assert.True(t, ok, "fallback scope must still be resolvable")
}

func TestDefault_IsSharedInstance(t *testing.T) {
	a := mustDefault(t)
	b := mustDefault(t)
	assert.Same(t, a, b)
}

func TestDefault_EveryMaterialHasAVendor(t *testing.T) {
	cat := mustDefault(t)
	for _, m := range domain.AllMaterialCategories() {
		assert.NotEmpty(t, cat.VendorsFor(m), "material %s has no vendor", m)
	}
}

func TestDefault_EveryRequiredMaterialHasCodes(t *testing.T) {
	cat := mustDefault(t)
	for _, s := range cat.Scopes() {
		for _, m := range s.RequiredMaterials {
			assert.NotEmpty(t, cat.MaterialCodes(s.Category, m), "scope %s material %s", s.Category, m)
		}
		assert.NotEmpty(t, cat.ScopeCodes(s.Category, domain.CostLabor), "scope %s needs labor", s.Category)
		assert.NotEmpty(t, cat.ScopeCodes(s.Category, domain.CostIndirect), "scope %s needs indirect", s.Category)
	}
}

func TestVendorsFor_RankedByRatingThenLeadTimeThenName(t *testing.T) {
	cat := mustDefault(t)

	igu := cat.VendorsFor(domain.MaterialGlassIGU)
	require.Len(t, igu, 3)
	assert.Equal(t, "Vitrum", igu[0].Name)
	assert.Equal(t, "Oldcastle BuildingEnvelope", igu[1].Name)
	assert.Equal(t, "Hartung", igu[2].Name)

	hw := cat.VendorsFor(domain.MaterialDoorHardware)
	require.Len(t, hw, 3)
	assert.Equal(t, "CRL (CR Laurence)", hw[0].Name)
	assert.Equal(t, "Mayflower", hw[1].Name)
	assert.Equal(t, "IML", hw[2].Name)
}

func TestMaterialCodes_IntersectsScopeCodes(t *testing.T) {
	cat := mustDefault(t)

	mirrors := cat.MaterialCodes(domain.ScopeMirrors, domain.MaterialGlassMonolithic)
	require.Len(t, mirrors, 1)
	assert.Equal(t, "M-MIR-001", mirrors[0].Code)

	hw := cat.MaterialCodes(domain.ScopeStorefront, domain.MaterialDoorHardware)
	codes := make([]string, len(hw))
	for i, c := range hw {
		codes[i] = c.Code
	}
	assert.Equal(t, []string{"H-HNG-001", "H-LAT-001", "H-ACC-001"}, codes)

	assert.Empty(t, cat.MaterialCodes(domain.ScopeMirrors, domain.MaterialMetalPanels))
}

func TestScopeCodes_ByCostCategory(t *testing.T) {
	cat := mustDefault(t)
	labor := cat.ScopeCodes(domain.ScopeFireRated, domain.CostLabor)
	require.Len(t, labor, 2)
	assert.Equal(t, "L-GLZ-001", labor[0].Code)
	assert.Equal(t, "L-DOR-001", labor[1].Code)
}

func TestCostCode_Lookup(t *testing.T) {
	cat := mustDefault(t)
	cc, ok := cat.CostCode("M-FIR-001")
	require.True(t, ok)
	assert.Equal(t, domain.CostGlass, cc.Category)
	assert.Equal(t, domain.UnitSqft, cc.Unit)
	assert.Equal(t, domain.Cents(16500), cc.UnitRate)

	_, ok = cat.CostCode("X-NOPE")
	assert.False(t, ok)
}

func TestScope_KeywordsAndSectionsNormalized(t *testing.T) {
	cat := mustDefault(t)
	s, ok := cat.Scope(domain.ScopeStorefront)
	require.True(t, ok)
	assert.Contains(t, s.Keywords, "storefront")
	assert.Equal(t, "084113", s.PrimarySpecSection())
}

func TestAccessors_ReturnCopies(t *testing.T) {
	cat := mustDefault(t)

	vendors := cat.Vendors()
	vendors[0].Name = "mutated"
	vendors[0].Materials[0] = domain.MaterialMetalPanels
	assert.NotEqual(t, "mutated", cat.Vendors()[0].Name)
	assert.NotEqual(t, domain.MaterialMetalPanels, cat.Vendors()[0].Materials[0])

	s, _ := cat.Scope(domain.ScopeCurtainWall)
	s.Keywords[0] = "mutated"
	again, _ := cat.Scope(domain.ScopeCurtainWall)
	assert.NotEqual(t, "mutated", again.Keywords[0])
}

func TestNormalizeSpecSection(t *testing.T) {
	assert.Equal(t, "084113", NormalizeSpecSection("08 41 13"))
	assert.Equal(t, "084113", NormalizeSpecSection("08-41-13"))
	assert.Equal(t, "084113", NormalizeSpecSection("084113"))
	assert.Equal(t, "", NormalizeSpecSection("Section"))
}

func TestNormalizePhrase(t *testing.T) {
	assert.Equal(t, "curtain wall", NormalizePhrase("  Curtain   WALL "))
}

func TestLoadFS_RejectsInvalidTables(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte(`
cost_codes:
  - {code: X-1, description: A, category: GLASS, unit: sqft, unit_rate: "1.00"}
  - {code: X-1, description: B, category: GLASS, unit: sqft, unit_rate: "1.00"}
  - {code: X-2, description: C, category: WOOD, unit: furlong, unit_rate: "-1.00"}
vendors:
  - {name: Acme, materials: [GLASS_IGU], lead_time_weeks: -1, rating: 9}
`)},
	}
	_, err := LoadFS(fsys)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "cost code X-1 is defined twice")
	assert.Contains(t, msg, `unknown category "WOOD"`)
	assert.Contains(t, msg, `unknown unit "furlong"`)
	assert.Contains(t, msg, "unit rate must not be negative")
	assert.Contains(t, msg, "rating 9 must be between 1 and 5")
	assert.Contains(t, msg, "lead time must not be negative")
	assert.Contains(t, msg, "scope STOREFRONT is not defined")
	assert.Contains(t, msg, "material GLASS_IGU is not defined")
}

func TestLoadFS_NoFiles(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog files")
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, err := LoadDir(t.TempDir() + "/missing")
	require.Error(t, err)
}

func TestDefault_EveryScopeHasSubmittals(t *testing.T) {
	cat := mustDefault(t)
	for _, s := range domain.AllScopeCategories() {
		reqs := cat.SubmittalsFor(s)
		require.NotEmpty(t, reqs, "scope %s", s)
		var drawings bool
		for _, r := range reqs {
			assert.True(t, r.AppliesTo(s))
			drawings = drawings || r.Category == domain.SubmittalShopDrawings
		}
		assert.True(t, drawings, "scope %s needs shop drawings", s)
	}
}

func TestSubmittalsFor_FileOrderAndCopies(t *testing.T) {
	cat := mustDefault(t)

	reqs := cat.SubmittalsFor(domain.ScopeFireRated)
	require.NotEmpty(t, reqs)
	assert.Equal(t, domain.SubmittalProductData, reqs[0].Category)
	assert.Equal(t, "079200", reqs[0].SpecSection)

	reqs[0].Scopes[0] = domain.ScopeMirrors
	assert.NotEqual(t, domain.ScopeMirrors, cat.SubmittalsFor(domain.ScopeFireRated)[0].Scopes[0])
	assert.Len(t, cat.Submittals(), 16)
}

func TestLoadFS_RejectsInvalidSubmittals(t *testing.T) {
	fsys := fstest.MapFS{
		"submittals.yaml": &fstest.MapFile{Data: []byte(`
submittals:
  - {category: PRODUCT_DATA, description: "", scopes: [STOREFRONT]}
  - {category: LEED, description: Credits, scopes: [STOREFRONT]}
  - {category: SAMPLES, description: Glass, spec_section: "08 80", scopes: [STOREFRONT]}
  - {category: SAMPLES, description: Frames, scopes: []}
  - {category: SAMPLES, description: Doors, scopes: [REVOLVING_DOORS]}
`)},
	}
	_, err := LoadFS(fsys)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "submittals[0]: description is required")
	assert.Contains(t, msg, `submittals[1]: unknown category "LEED"`)
	assert.Contains(t, msg, `submittals[2]: spec section "08 80" is not a six-digit CSI code`)
	assert.Contains(t, msg, "submittals[3]: at least one scope is required")
	assert.Contains(t, msg, `submittals[4]: unknown scope "REVOLVING_DOORS"`)
}
