package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func previewBundle(t *testing.T) *export.Bundle {
	t.Helper()
	app := testApp(t)
	value := domain.Cents(61_000_000)
	start, err := domain.ParseDate("2025-03-03")
	require.NoError(t, err)
	b, err := app.Generation.Preview(context.Background(), contract.ProjectInput{
		Name:          "Harbor View Medical Office",
		ContractValue: &value,
		StartDate:     &start,
		Signals: []contract.ScopeSignal{
			{Description: "Aluminum storefront"},
			{Description: "Unitized curtain wall"},
		},
	})
	require.NoError(t, err)
	return b
}

func TestReviewModel_RendersEveryKind(t *testing.T) {
	m, err := newReviewModel(previewBundle(t), export.KindSOVCSV)
	require.NoError(t, err)
	for _, k := range export.Kinds() {
		assert.NotEmpty(t, m.pages[k], k)
	}
	assert.Equal(t, export.KindSOVCSV, m.Active())
	assert.Contains(t, m.title, "DRAFT")
}

func TestReviewModel_UnknownKind(t *testing.T) {
	_, err := newReviewModel(previewBundle(t), export.Kind("notes.pdf"))
	assert.ErrorIs(t, err, export.ErrUnknownKind)
}

func TestReviewModel_LoadingBeforeSize(t *testing.T) {
	m, err := newReviewModel(previewBundle(t), export.KindReport)
	require.NoError(t, err)
	d := teatest.New(t, m)
	assert.Equal(t, "Loading...", d.View())
}

func TestReviewModel_TabsCycle(t *testing.T) {
	m, err := newReviewModel(previewBundle(t), export.KindReport)
	require.NoError(t, err)
	d := teatest.New(t, m, teatest.WithSize(100, 30))

	view := d.View()
	assert.Contains(t, view, string(export.KindReport))
	assert.Contains(t, view, "q quit")

	d.Press("tab")
	assert.Equal(t, export.KindJSON, m.Active())
	assert.Contains(t, d.View(), "project_number")

	d.Press("tab")
	d.Press("tab")
	assert.Equal(t, export.KindSubmittals, m.Active())
	assert.Contains(t, d.View(), "GL-001")

	d.Press("tab")
	assert.Equal(t, export.KindSOVCSV, m.Active(), "tab wraps around")

	d.Press("shift+tab")
	assert.Equal(t, export.KindSubmittals, m.Active())

	d.Press("h")
	assert.Equal(t, export.KindDrafts, m.Active())
}

func TestReviewModel_ScrollsAndQuits(t *testing.T) {
	m, err := newReviewModel(previewBundle(t), export.KindJSON)
	require.NoError(t, err)
	d := teatest.New(t, m, teatest.WithSize(80, 10))

	require.Greater(t, strings.Count(m.pages[export.KindJSON], "\n"), 10)
	assert.Equal(t, 0, m.viewport.YOffset)
	d.Press("down")
	assert.Equal(t, 1, m.viewport.YOffset)

	d.Press("tab")
	assert.Equal(t, 0, m.viewport.YOffset, "switching tabs returns to the top")

	d.Press("q")
	assert.True(t, d.Quitting)
}
