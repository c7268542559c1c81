package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/glazingpm/internal/db"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/importer"
)

type importService struct {
	pipeline *Pipeline
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(pipeline *Pipeline, uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{pipeline: pipeline, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	a, err := importer.LoadAnalysis(path)
	if err != nil {
		return nil, fmt.Errorf("loading contract analysis: %w", err)
	}
	return s.ImportAnalysis(ctx, a, SourceImport)
}

func (s *importService) ImportAnalysis(ctx context.Context, a *importer.Analysis, source string) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": a.ProjectInfo.ProjectName, "source": source}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import.analysis",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateAnalysis(a); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	in, err := importer.Convert(a)
	if err != nil {
		return nil, fmt.Errorf("converting contract analysis: %w", err)
	}

	bundle, stored, err := s.pipeline.Run(ctx, in, "")
	if err != nil {
		return nil, err
	}

	p := &domain.Project{
		Name:          bundle.Contract.Name,
		Client:        bundle.Contract.Client,
		Location:      bundle.Contract.Location,
		ContractValue: bundle.Contract.Value,
		StartDate:     bundle.Contract.StartDate.Time,
	}
	var o *domain.OutputSet
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := createProject(ctx, tx, p); err != nil {
			return err
		}
		// Drafts name files after the short ID, known only now.
		bundle.ShortID = p.ShortID
		var err error
		if bundle.Drafts, err = export.RenderDrafts(bundle); err != nil {
			return err
		}
		o, err = storeOutputSet(ctx, tx, p, bundle, stored, source)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields["short_id"] = p.ShortID
	fields["warnings"] = len(bundle.Warnings)
	fields["warning_codes"] = warningCodes(bundle.Warnings)
	return &ImportResult{
		Project:    p,
		Input:      stored,
		Generation: &GenerationResult{Bundle: bundle, OutputSet: o},
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}
