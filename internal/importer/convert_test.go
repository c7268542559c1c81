package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnalysis = `{
  "project_info": {
    "project_name": "Pearl District Lofts",
    "location": "Portland, OR",
    "general_contractor": "Hoffman Construction",
    "contract_number": "C-2291"
  },
  "financial_details": {
    "contract_value": "$610,000.00",
    "payment_terms": "Monthly progress billing, net 30",
    "retention_percent": 10
  },
  "scope_of_work": {
    "spec_sections": ["08 41 13", "08 44 13", "08 88 13"],
    "items": [
      {"description": "Aluminum storefront at retail level", "spec_sections": ["08 41 13"], "quantities": {"SF": 1200, "ea": 2}, "value": 150000},
      {"description": "Unitized curtain wall", "quantities": {"sq ft": 4200}}
    ]
  },
  "schedule": {
    "start_date": "2025-03-03",
    "substantial_completion": "2025-11-14"
  },
  "key_requirements": ["Shop drawings within 3 weeks of award"],
  "risk_factors": ["Tight curtain wall sequence"]
}`

func TestParseAnalysis_Sample(t *testing.T) {
	a, err := ParseAnalysis([]byte(sampleAnalysis))
	require.NoError(t, err)
	assert.Equal(t, "Pearl District Lofts", a.ProjectInfo.ProjectName)
	require.NotNil(t, a.FinancialDetails.ContractValue)
	assert.Equal(t, domain.Cents(61_000_000), *a.FinancialDetails.ContractValue)
	require.Len(t, a.ScopeOfWork.Items, 2)
	assert.Equal(t, domain.Cents(15_000_000), *a.ScopeOfWork.Items[0].Value)
	assert.Empty(t, ValidateAnalysis(a))
}

func TestParseAnalysis_Malformed(t *testing.T) {
	_, err := ParseAnalysis([]byte(`{"project_info": [}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing contract analysis")
}

func TestLoadAnalysis_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "P001_contract_analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleAnalysis), 0o644))

	a, err := LoadAnalysis(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", a.Schedule.StartDate)

	_, err = LoadAnalysis(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestConvert_Sample(t *testing.T) {
	a, err := ParseAnalysis([]byte(sampleAnalysis))
	require.NoError(t, err)

	in, err := Convert(a)
	require.NoError(t, err)

	assert.Equal(t, "Pearl District Lofts", in.Name)
	assert.Equal(t, "Hoffman Construction", in.Client)
	assert.Equal(t, "Portland, OR", in.Location)
	assert.Equal(t, domain.Cents(61_000_000), *in.ContractValue)
	assert.Equal(t, "2025-03-03", in.StartDate.String())
	require.NotNil(t, in.Bands)
	assert.Equal(t, domain.BasisPoints(1000), in.Bands.Retention)
	assert.Equal(t, contract.DefaultBands().Materials, in.Bands.Materials)

	require.Len(t, in.Signals, 3)
	assert.Equal(t, map[domain.Unit]float64{domain.UnitSqft: 1200, domain.UnitEach: 2}, in.Signals[0].Quantities)
	assert.Equal(t, map[domain.Unit]float64{domain.UnitSqft: 4200}, in.Signals[1].Quantities)
	assert.Nil(t, in.Signals[1].Value)

	// 08 41 13 is already on the storefront item.
	assert.Equal(t, "Contract specification sections", in.Signals[2].Description)
	assert.Equal(t, []string{"08 44 13", "08 88 13"}, in.Signals[2].SpecSections)

	c, err := in.Resolve(contract.DefaultBands())
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(61_000_000), c.Value)
}

func TestConvert_FeedsScopeMatcher(t *testing.T) {
	a, err := ParseAnalysis([]byte(sampleAnalysis))
	require.NoError(t, err)
	in, err := Convert(a)
	require.NoError(t, err)

	cat, err := catalog.Default()
	require.NoError(t, err)
	res := scope.MatchScopes(cat, in.Signals)
	assert.Equal(t, []domain.ScopeCategory{
		domain.ScopeStorefront,
		domain.ScopeCurtainWall,
		domain.ScopeFireRated,
	}, res.Categories())
}

func TestConvert_NoRetentionKeepsDefaultBands(t *testing.T) {
	in, err := Convert(validMinimalAnalysis())
	require.NoError(t, err)
	assert.Nil(t, in.Bands)
	assert.Equal(t, "", in.Client)
	require.Len(t, in.Signals, 1)
	assert.Nil(t, in.Signals[0].Quantities)
}

func TestConvert_ClientPreferredOverGeneralContractor(t *testing.T) {
	a := validMinimalAnalysis()
	a.ProjectInfo.Client = "Owner LLC"
	a.ProjectInfo.GeneralContractor = "Builder Inc"
	in, err := Convert(a)
	require.NoError(t, err)
	assert.Equal(t, "Owner LLC", in.Client)
}

func TestConvert_BadStartDate(t *testing.T) {
	a := validMinimalAnalysis()
	a.Schedule.StartDate = "next week"
	_, err := Convert(a)
	assert.Error(t, err)
}
