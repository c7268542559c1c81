package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/glazingpm/internal/budget"
	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/scope"
	"github.com/alexanderramin/glazingpm/internal/sov"
	"github.com/alexanderramin/glazingpm/internal/submittal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput(t *testing.T) contract.ProjectInput {
	t.Helper()
	value := domain.Cents(40_000_000)
	start, err := domain.ParseDate("2025-01-06")
	require.NoError(t, err)
	bands := contract.DefaultBands()
	return contract.ProjectInput{
		Name:          "Harbor View Medical Office",
		Client:        "Harbor Health",
		Location:      "Tacoma, WA",
		ContractValue: &value,
		StartDate:     &start,
		Bands:         &bands,
		Signals: []contract.ScopeSignal{
			{Description: "Aluminum storefront", Quantities: map[domain.Unit]float64{domain.UnitSqft: 1200}},
			{Description: "Curtain wall"},
		},
	}
}

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	c, err := testInput(t).Resolve(contract.DefaultBands())
	require.NoError(t, err)

	result := scope.MatchScopes(cat, c.Signals)
	split, err := scheduler.SplitContract(cat, c, result.Matches)
	require.NoError(t, err)
	b, err := budget.Build(cat, c, split)
	require.NoError(t, err)
	sched, err := scheduler.BuildSchedule(c, split, scheduler.DefaultDurations())
	require.NoError(t, err)
	doc, err := sov.Build(c, split, b)
	require.NoError(t, err)

	bundle := &Bundle{
		ShortID:     "P007",
		Version:     1,
		GeneratedAt: time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
		Contract:    c,
		Scopes:      result,
		Budget:      b,
		Billing:     sched,
		SOV:         doc,
		Submittals:  submittal.Build(cat, result.Matches, sched, nil),
		Warnings:    doc.Warnings,
	}
	bundle.Drafts, err = RenderDrafts(bundle)
	require.NoError(t, err)
	return bundle
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSOVCSV(t *testing.T) {
	b := testBundle(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSOVCSV(&buf, b.SOV))

	records := readCSV(t, buf.String())
	assert.Equal(t, []string{"Item #", "Description", "Spec Section", "Category", "Scheduled Value", "Percent", "Billing Trigger"}, records[0])
	rows := b.SOV.Rows()
	assert.Equal(t, "1.1", records[1][0])
	assert.Equal(t, rows[0].Description, records[1][1])

	last := records[len(records)-1]
	assert.Equal(t, []string{"Total", "", "", "", "400000.00"}, last)
	assert.Equal(t, []string{"SUMMARY"}, records[len(rows)+1])
}

func TestWriteBudgetCSV(t *testing.T) {
	b := testBundle(t)
	var buf bytes.Buffer
	require.NoError(t, WriteBudgetCSV(&buf, b.Budget))

	records := readCSV(t, buf.String())
	assert.Equal(t, "Cost Code", records[0][1])
	require.Greater(t, len(records), len(b.Budget.Lines))
	assert.Equal(t, b.Budget.Lines[0].Code, records[1][1])
	last := records[len(records)-1]
	assert.Equal(t, "GRAND TOTAL:", last[5])
	assert.Equal(t, "400000.00", last[6])
}

func TestWriteBillingCSV(t *testing.T) {
	b := testBundle(t)
	var buf bytes.Buffer
	require.NoError(t, WriteBillingCSV(&buf, b.Billing))

	records := readCSV(t, buf.String())
	events := records[1 : len(b.Billing.Events)+1]
	assert.Equal(t, "400000.00", events[len(events)-1][5])
	assert.Equal(t, "Project", events[len(events)-1][2])
	assert.Equal(t, "Final Retention", events[len(events)-1][3])

	monthly := records[len(records)-len(b.Billing.Rows):]
	assert.Equal(t, "400000.00", monthly[len(monthly)-1][2])
}

func TestRenderDrafts(t *testing.T) {
	b := testBundle(t)
	rfqs := b.Scopes.RFQPackages()
	require.NotEmpty(t, rfqs)
	require.Len(t, b.Drafts, 2+len(rfqs))

	kickoff := b.Drafts[0]
	assert.Equal(t, DraftKickoff, kickoff.Kind)
	assert.Equal(t, "P007_internal_kickoff.txt", kickoff.FileName)
	assert.Equal(t, "New Project Kickoff - Harbor View Medical Office", kickoff.Subject)
	assert.Contains(t, kickoff.Body, "Contract Value: $400,000.00")
	assert.Contains(t, kickoff.Body, "Client: Harbor Health")
	assert.Contains(t, kickoff.Body, "Start Date: 2025-01-06")

	submission := b.Drafts[1]
	assert.Equal(t, DraftSOVSubmission, submission.Kind)
	assert.Contains(t, submission.Body, "Dear Harbor Health,")
	assert.Contains(t, submission.Body, "Final Retention (5.00%)")
	assert.Contains(t, submission.Body, "Attachment: P007_SOV.csv")
	assert.Contains(t, submission.Body, "Contract Start: 2025-01-06")

	for _, d := range b.Drafts {
		assert.NotContains(t, d.Body, "2025-01-02", "drafts carry no generation time: %s", d.FileName)
	}

	rfq := b.Drafts[2]
	assert.Equal(t, DraftVendorRFQ, rfq.Kind)
	assert.Contains(t, rfq.Body, rfqs[0].Vendors[0].Name)
	assert.Contains(t, rfq.Subject, rfqs[0].Material.Label())
	assert.Contains(t, rfq.Body, "Materials Needed By:")

	for _, d := range b.Drafts {
		assert.NotContains(t, d.Body, "<no value>", d.FileName)
	}
}

func TestRenderDrafts_UnregisteredProject(t *testing.T) {
	b := testBundle(t)
	b.ShortID = ""
	b.Contract.Client = ""
	drafts, err := RenderDrafts(b)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT_internal_kickoff.txt", drafts[0].FileName)
	assert.Contains(t, drafts[0].Body, "Client: [CLIENT NAME]")
}

func TestWriteReport(t *testing.T) {
	b := testBundle(t)
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, b))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Harbor View Medical Office"))
	assert.Contains(t, out, "| Project | P007 (v1) |")
	assert.Contains(t, out, "## Schedule of Values")
	assert.Contains(t, out, "**$400,000.00**")
	assert.Contains(t, out, "| Storefront |")
	assert.Contains(t, out, "## Submittals")
	assert.Contains(t, out, "P007_submittals.csv")
	assert.Contains(t, out, "| Shop Drawings |")
	assert.NotContains(t, out, "<no value>")
}

func TestFromOutputSet(t *testing.T) {
	b := testBundle(t)
	marshal := func(v any) json.RawMessage {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return data
	}
	o := &domain.OutputSet{
		Version:    3,
		Input:      marshal(testInput(t)),
		Matches:    marshal(b.Scopes.Matches),
		Budget:     marshal(b.Budget),
		Billing:    marshal(b.Billing),
		SOV:        marshal(b.SOV),
		Submittals: marshal(b.Submittals),
		Drafts:     marshal(b.Drafts),
		Warnings:   marshal(b.Warnings),
		CreatedAt:  b.GeneratedAt,
	}

	got, err := FromOutputSet(&domain.Project{ShortID: "P007"}, o)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
	assert.Equal(t, b.Contract.Value, got.Contract.Value)
	assert.Equal(t, b.SOV.Rows(), got.SOV.Rows())
	assert.Equal(t, b.Budget.Totals, got.Budget.Totals)
	assert.Equal(t, b.Billing.Total(), got.Billing.Total())
	assert.Len(t, got.Drafts, len(b.Drafts))
	assert.Equal(t, b.Scopes.RFQPackages(), got.Scopes.RFQPackages())
	assert.Equal(t, string(marshal(b.Submittals)), string(marshal(got.Submittals)))

	var want, have bytes.Buffer
	require.NoError(t, WriteSOVCSV(&want, b.SOV))
	require.NoError(t, WriteSOVCSV(&have, got.SOV))
	assert.Equal(t, want.String(), have.String())
}

func TestFromOutputSet_BadInput(t *testing.T) {
	_, err := FromOutputSet(&domain.Project{}, &domain.OutputSet{Input: json.RawMessage(`{"name": "x"}`)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWrite_Kinds(t *testing.T) {
	b := testBundle(t)
	for _, kind := range Kinds() {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, kind, b), kind)
		assert.NotEmpty(t, buf.String(), kind)
	}
	assert.Equal(t, "text/csv; charset=utf-8", KindSOVCSV.ContentType())
	assert.Equal(t, "application/json", KindJSON.ContentType())
	assert.Equal(t, "P007_report.md", KindReport.FileName(b))

	err := Write(&bytes.Buffer{}, Kind("sov.xlsx"), b)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestWriteJSON(t *testing.T) {
	b := testBundle(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, b))
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	for _, key := range []string{"project_number", "contract", "scopes", "budget", "billing", "sov", "submittals", "warnings"} {
		assert.Contains(t, decoded, key)
	}
}

func TestWriteSubmittalsCSV(t *testing.T) {
	b := testBundle(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSubmittalsCSV(&buf, b.Submittals))

	records := readCSV(t, buf.String())
	assert.Equal(t, []string{"Item No.", "Scope", "Spec Section", "Description", "Category", "Required", "Status", "Due Date", "Submitted", "Approved", "Notes"}, records[0])

	entries := b.Submittals.Entries
	require.NotEmpty(t, entries)
	first := records[1]
	assert.Equal(t, "GL-001", first[0])
	assert.Equal(t, entries[0].ScopeLabel(), first[1])
	assert.Equal(t, entries[0].Description, first[3])
	assert.Equal(t, "Yes", first[5])
	assert.Equal(t, "Not Started", first[6])
	assert.Equal(t, entries[0].Due.String(), first[7])
	assert.Equal(t, "", first[8])

	assert.Equal(t, []string{"SUMMARY BY CATEGORY"}, records[len(entries)+1])
	assert.Equal(t, []string{"Total", strconv.Itoa(len(entries))}, records[len(records)-1])
}
