package scope

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

// catalogWithVendors loads the built-in tables with vendors.yaml replaced.
func catalogWithVendors(t *testing.T, vendorsYAML string) *catalog.Catalog {
	t.Helper()
	fsys := fstest.MapFS{"vendors.yaml": &fstest.MapFile{Data: []byte(vendorsYAML)}}
	for _, name := range []string{"cost_codes.yaml", "materials.yaml", "scopes.yaml"} {
		data, err := os.ReadFile(filepath.Join("..", "catalog", "data", name))
		require.NoError(t, err)
		fsys[name] = &fstest.MapFile{Data: data}
	}
	cat, err := catalog.LoadFS(fsys)
	require.NoError(t, err)
	return cat
}

func value(c domain.Cents) *domain.Cents { return &c }

func TestMatchScopes_FireRatedByKeywordAndSection(t *testing.T) {
	cat := defaultCatalog(t)
	res := MatchScopes(cat, []contract.ScopeSignal{{
		Description:  "Fire-rated glazing at stair enclosures",
		SpecSections: []string{"08 88 13"},
		Quantities:   map[domain.Unit]float64{domain.UnitSqft: 240},
	}})

	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	assert.Equal(t, domain.ScopeFireRated, m.Category)
	assert.Equal(t, "Fire-Rated Glazing", m.Name)
	assert.Equal(t, []string{"fire-rated"}, m.Keywords)
	assert.Equal(t, []string{"088813"}, m.SpecSections)
	assert.Equal(t, []int{0}, m.Signals)
	assert.Equal(t, 240.0, m.Quantities[domain.UnitSqft])
	assert.Empty(t, res.Warnings)

	require.Len(t, m.Materials, 2)
	assert.Equal(t, domain.MaterialGlassFireRated, m.Materials[0].Material)
	assert.Equal(t, []string{"Allegiant (TGP)"}, m.VendorNames(domain.MaterialGlassFireRated))
	assert.Equal(t, []string{"CRL (CR Laurence)", "Mayflower"}, m.VendorNames(domain.MaterialDoorHardware))
	assert.Equal(t, 10, m.LeadTimeWeeks(99))
}

func TestMatchScopes_CaseInsensitiveSubstring(t *testing.T) {
	cat := defaultCatalog(t)
	res := MatchScopes(cat, []contract.ScopeSignal{{Keywords: []string{"  ALUMINUM   STOREFRONT system "}}})
	require.Len(t, res.Matches, 1)
	assert.Equal(t, domain.ScopeStorefront, res.Matches[0].Category)
}

func TestMatchScopes_SpecSectionRequiresExactCode(t *testing.T) {
	cat := defaultCatalog(t)
	res := MatchScopes(cat, []contract.ScopeSignal{{SpecSections: []string{"08411"}}})
	assert.Empty(t, res.Matches)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, domain.WarnUnmatchedScopeCategory, res.Warnings[0].Code)
	assert.Contains(t, res.Warnings[0].Message, "sections 08411")
}

func TestMatchScopes_UnmatchedSignalIsWarningNotError(t *testing.T) {
	cat := defaultCatalog(t)
	res := MatchScopes(cat, []contract.ScopeSignal{
		{Description: "Skylights and translucent roof panels"},
		{Description: "Curtain wall at north elevation"},
	})
	require.Len(t, res.Matches, 1)
	assert.Equal(t, domain.ScopeCurtainWall, res.Matches[0].Category)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, domain.WarnUnmatchedScopeCategory, res.Warnings[0].Code)
	assert.Contains(t, res.Warnings[0].Message, "Skylights")
}

func TestMatchScopes_SharedSignalAttachesValueToPrimary(t *testing.T) {
	cat := defaultCatalog(t)
	res := MatchScopes(cat, []contract.ScopeSignal{{
		Description: "Interior storefront with borrowed lite frames",
		Value:       value(4500000),
		Quantities:  map[domain.Unit]float64{domain.UnitLinft: 300},
	}})

	require.Equal(t, []domain.ScopeCategory{domain.ScopeStorefront, domain.ScopeInteriorGlazing}, res.Categories())
	storefront, interior := res.Matches[0], res.Matches[1]
	assert.Nil(t, storefront.Value)
	assert.Empty(t, storefront.Quantities)
	require.NotNil(t, interior.Value)
	assert.Equal(t, domain.Cents(4500000), *interior.Value)
	assert.Equal(t, 300.0, interior.Quantities[domain.UnitLinft])
}

func TestMatchScopes_ValuesAndQuantitiesAccumulate(t *testing.T) {
	cat := defaultCatalog(t)
	res := MatchScopes(cat, []contract.ScopeSignal{
		{Description: "Mirrors at restrooms", Value: value(100000), Quantities: map[domain.Unit]float64{domain.UnitSqft: 40}},
		{Description: "Mirror at fitness room", Value: value(50000), Quantities: map[domain.Unit]float64{domain.UnitSqft: 60}},
	})
	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	assert.Equal(t, []int{0, 1}, m.Signals)
	assert.Equal(t, domain.Cents(150000), *m.Value)
	assert.Equal(t, 100.0, m.Quantities[domain.UnitSqft])
}

func TestMatchScopes_CanonicalOrder(t *testing.T) {
	cat := defaultCatalog(t)
	res := MatchScopes(cat, []contract.ScopeSignal{
		{Description: "Glass railing at mezzanine"},
		{Description: "Metal panel soffits"},
		{Description: "Curtain wall"},
		{Description: "Storefront"},
	})
	assert.Equal(t, []domain.ScopeCategory{
		domain.ScopeStorefront,
		domain.ScopeCurtainWall,
		domain.ScopeMetalPanels,
		domain.ScopeGlassRailing,
	}, res.Categories())
}

func TestMatchScopes_AtMostTwoVendorsAndCoverage(t *testing.T) {
	cat := defaultCatalog(t)
	var signals []contract.ScopeSignal
	for _, def := range cat.Scopes() {
		signals = append(signals, contract.ScopeSignal{Keywords: def.Keywords[:1]})
	}
	res := MatchScopes(cat, signals)
	assert.Len(t, res.Matches, len(cat.Scopes()))
	for _, m := range res.Matches {
		for _, mm := range m.Materials {
			assert.LessOrEqual(t, len(mm.Vendors), MaxVendorsPerMaterial)
			assert.True(t, mm.Sourced(), "%s/%s should name a vendor", m.Category, mm.Material)
		}
	}
	for _, w := range res.Warnings {
		assert.NotEqual(t, domain.WarnUnmatchedVendorCategory, w.Code)
	}
}

func TestMatchScopes_MissingVendorFlagsManualSourcing(t *testing.T) {
	cat := catalogWithVendors(t, `
vendors:
  - {name: Only Hardware, materials: [DOOR_HARDWARE], lead_time_weeks: 3, rating: 4}
`)
	res := MatchScopes(cat, []contract.ScopeSignal{{Description: "fire rated glazing"}})
	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	assert.False(t, m.Materials[0].Sourced())
	assert.True(t, m.Materials[1].Sourced())
	assert.Equal(t, 3, m.LeadTimeWeeks(12))

	require.Len(t, res.Warnings, 1)
	w := res.Warnings[0]
	assert.Equal(t, domain.WarnUnmatchedVendorCategory, w.Code)
	assert.Equal(t, domain.MaterialGlassFireRated, w.Material)
	assert.True(t, strings.HasSuffix(w.Message, "needs manual sourcing"))
}

func TestMatchScopes_LeadTimeFallsBackWithoutVendors(t *testing.T) {
	m := Match{Materials: []MaterialMatch{{Material: domain.MaterialGlassIGU}}}
	assert.Equal(t, 12, m.LeadTimeWeeks(12))
}

func TestMatchScopes_Deterministic(t *testing.T) {
	cat := defaultCatalog(t)
	signals := []contract.ScopeSignal{
		{Description: "Storefront and entrance doors", Quantities: map[domain.Unit]float64{domain.UnitEach: 4, domain.UnitSqft: 900}},
		{Description: "Curtain wall", SpecSections: []string{"08 44 13"}},
	}
	assert.Equal(t, MatchScopes(cat, signals), MatchScopes(cat, signals))
}

func TestMatchScopes_Empty(t *testing.T) {
	res := MatchScopes(defaultCatalog(t), nil)
	assert.Empty(t, res.Matches)
	assert.Empty(t, res.Warnings)
}

func TestRFQPackages_SkipsUnsourced(t *testing.T) {
	res := Result{Matches: []Match{{
		Category: domain.ScopeMirrors,
		Materials: []MaterialMatch{
			{Material: domain.MaterialGlassMonolithic, Vendors: []VendorRef{{Name: "Tacoma Glass"}}},
			{Material: domain.MaterialSealants},
		},
	}}}
	pkgs := res.RFQPackages()
	require.Len(t, pkgs, 1)
	assert.Equal(t, domain.MaterialGlassMonolithic, pkgs[0].Material)
}

func TestFallback(t *testing.T) {
	m, warns := Fallback(defaultCatalog(t))
	assert.True(t, m.Fallback)
	assert.Equal(t, domain.ScopeUnclassified, m.Category)
	require.NotEmpty(t, warns)
	assert.Equal(t, domain.WarnNoScopeDetected, warns[0].Code)
}
