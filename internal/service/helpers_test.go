package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/db"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/repository"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/testutil"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	return r.events[len(r.events)-1]
}

type testEnv struct {
	db       *sql.DB
	projects *repository.SQLiteProjectRepo
	outputs  *repository.SQLiteOutputSetRepo
	pipeline *Pipeline
	observer *recordingObserver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	cat, err := catalog.Default()
	require.NoError(t, err)
	return &testEnv{
		db:       database,
		projects: repository.NewSQLiteProjectRepo(database),
		outputs:  repository.NewSQLiteOutputSetRepo(database),
		pipeline: NewPipeline(cat, contract.DefaultBands(), scheduler.DefaultDurations(), nil),
		observer: &recordingObserver{},
	}
}

func (e *testEnv) projectService() ProjectService {
	return NewProjectService(e.projects, testutil.NewTestUoW(e.db), e.observer)
}

func (e *testEnv) generationService(uow db.UnitOfWork) GenerationService {
	if uow == nil {
		uow = testutil.NewTestUoW(e.db)
	}
	return NewGenerationService(e.pipeline, e.projects, e.outputs, uow, e.observer)
}

func (e *testEnv) importService(uow db.UnitOfWork) ImportService {
	if uow == nil {
		uow = testutil.NewTestUoW(e.db)
	}
	return NewImportService(e.pipeline, uow, e.observer)
}

func cents(c domain.Cents) *domain.Cents { return &c }

func date(t *testing.T, s string) *domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func harborView(t *testing.T) contract.ProjectInput {
	return contract.ProjectInput{
		Name:          "Harbor View Medical Office",
		Client:        "Andersen Construction",
		Location:      "Portland, OR",
		ContractValue: cents(61_000_000),
		StartDate:     date(t, "2025-03-03"),
		Signals: []contract.ScopeSignal{
			{Description: "Aluminum storefront at retail level", SpecSections: []string{"08 41 13"}},
			{Description: "Unitized curtain wall"},
		},
	}
}
