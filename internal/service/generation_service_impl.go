package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/db"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/repository"
	"github.com/google/uuid"
)

type generationService struct {
	pipeline *Pipeline
	projects repository.ProjectRepo
	outputs  repository.OutputSetRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewGenerationService(
	pipeline *Pipeline,
	projects repository.ProjectRepo,
	outputs repository.OutputSetRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) GenerationService {
	return &generationService{
		pipeline: pipeline,
		projects: projects,
		outputs:  outputs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *generationService) Preview(ctx context.Context, in contract.ProjectInput) (bundle *export.Bundle, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": in.Name}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generation.preview",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	bundle, _, err = s.pipeline.Run(ctx, in, "")
	if err != nil {
		return nil, err
	}
	fields["warnings"] = len(bundle.Warnings)
	fields["warning_codes"] = warningCodes(bundle.Warnings)
	return bundle, nil
}

func (s *generationService) Generate(ctx context.Context, projectRef string, in contract.ProjectInput, source string) (result *GenerationResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectRef, "source": source}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generation.generate",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	var p *domain.Project
	p, err = resolveProject(ctx, s.projects, projectRef)
	if err != nil {
		return nil, err
	}

	bundle, stored, err := s.pipeline.Run(ctx, withProjectDefaults(in, p), p.ShortID)
	if err != nil {
		return nil, err
	}

	var o *domain.OutputSet
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if syncProject(p, bundle.Contract) {
			if err := repository.NewSQLiteProjectRepo(tx).Update(ctx, p); err != nil {
				return fmt.Errorf("updating project: %w", err)
			}
		}
		var err error
		o, err = storeOutputSet(ctx, tx, p, bundle, stored, source)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields["version"] = o.Version
	fields["warnings"] = len(bundle.Warnings)
	fields["warning_codes"] = warningCodes(bundle.Warnings)
	return &GenerationResult{Bundle: bundle, OutputSet: o}, nil
}

func (s *generationService) Latest(ctx context.Context, projectRef string) (*GenerationResult, error) {
	p, err := resolveProject(ctx, s.projects, projectRef)
	if err != nil {
		return nil, err
	}
	o, err := s.outputs.Latest(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return loadResult(p, o)
}

func (s *generationService) Version(ctx context.Context, projectRef string, version int) (*GenerationResult, error) {
	p, err := resolveProject(ctx, s.projects, projectRef)
	if err != nil {
		return nil, err
	}
	o, err := s.outputs.GetVersion(ctx, p.ID, version)
	if err != nil {
		return nil, err
	}
	return loadResult(p, o)
}

func (s *generationService) History(ctx context.Context, projectRef string) ([]*domain.OutputSet, error) {
	p, err := resolveProject(ctx, s.projects, projectRef)
	if err != nil {
		return nil, err
	}
	return s.outputs.ListByProject(ctx, p.ID)
}

func loadResult(p *domain.Project, o *domain.OutputSet) (*GenerationResult, error) {
	bundle, err := export.FromOutputSet(p, o)
	if err != nil {
		return nil, err
	}
	return &GenerationResult{Bundle: bundle, OutputSet: o}, nil
}

// withProjectDefaults fills contract fields the input leaves out from the
// registered project.
func withProjectDefaults(in contract.ProjectInput, p *domain.Project) contract.ProjectInput {
	in.Name = domain.CoalesceStr(in.Name, p.Name)
	in.Client = domain.CoalesceStr(in.Client, p.Client)
	in.Location = domain.CoalesceStr(in.Location, p.Location)
	if in.ContractValue == nil {
		v := p.ContractValue
		in.ContractValue = &v
	}
	if in.StartDate == nil && !p.StartDate.IsZero() {
		d := domain.NewDate(p.StartDate)
		in.StartDate = &d
	}
	return in
}

// syncProject copies the generated contract's header onto p and reports
// whether anything changed.
func syncProject(p *domain.Project, c contract.Contract) bool {
	changed := p.Name != c.Name ||
		p.Client != c.Client ||
		p.Location != c.Location ||
		p.ContractValue != c.Value ||
		!p.StartDate.Equal(c.StartDate.Time)
	if !changed {
		return false
	}
	p.Name = c.Name
	p.Client = c.Client
	p.Location = c.Location
	p.ContractValue = c.Value
	p.StartDate = c.StartDate.Time
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return true
}

// storeOutputSet writes the bundle as the project's next version using tx.
func storeOutputSet(ctx context.Context, tx db.DBTX, p *domain.Project, bundle *export.Bundle, in contract.ProjectInput, source string) (*domain.OutputSet, error) {
	outputs := repository.NewSQLiteOutputSetRepo(tx)
	version, err := outputs.NextVersion(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	o := &domain.OutputSet{
		ID:            uuid.New().String(),
		ProjectID:     p.ID,
		Version:       version,
		ContractValue: bundle.Contract.Value,
		Source:        source,
		CreatedAt:     bundle.GeneratedAt,
	}
	for _, part := range []struct {
		name string
		dst  *json.RawMessage
		v    any
	}{
		{"input", &o.Input, in},
		{"matches", &o.Matches, nonNilSlice(bundle.Scopes.Matches)},
		{"budget", &o.Budget, bundle.Budget},
		{"billing", &o.Billing, bundle.Billing},
		{"sov", &o.SOV, bundle.SOV},
		{"submittals", &o.Submittals, bundle.Submittals},
		{"drafts", &o.Drafts, nonNilSlice(bundle.Drafts)},
		{"warnings", &o.Warnings, nonNilSlice(bundle.Warnings)},
	} {
		data, err := json.Marshal(part.v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", part.name, err)
		}
		*part.dst = data
	}

	if err := outputs.Create(ctx, o); err != nil {
		return nil, err
	}
	bundle.Version = version
	return o, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
