package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/glazingpm/internal/db"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/repository"
	"github.com/google/uuid"
)

var shortRefPattern = regexp.MustCompile(`^[Pp]([0-9]+)$`)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": p.Name}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "project.create",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err = validateProject(p); err != nil {
		return err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return createProject(ctx, tx, p)
	})
	fields["short_id"] = p.ShortID
	return err
}

// createProject assigns identity and timestamps and inserts p using tx.
func createProject(ctx context.Context, tx db.DBTX, p *domain.Project) error {
	if p.ShortID == "" {
		seq, err := repository.NewSQLiteProjectSequenceRepo(tx).NextProjectSeq(ctx)
		if err != nil {
			return err
		}
		p.ShortID = domain.FormatShortID(seq)
	} else {
		p.ShortID = strings.ToUpper(p.ShortID)
	}
	if err := p.ValidateShortID(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, p); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

func validateProject(p *domain.Project) error {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		verr.Add("name", "is required")
	}
	if p.ContractValue < 0 {
		verr.Add("contract_value", "must not be negative")
	}
	return verr.OrNil()
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return s.projects.GetByShortID(ctx, shortID)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	return resolveProject(ctx, s.projects, ref)
}

// resolveProject looks ref up as a short ID when it looks like one ("P3",
// "p003") and as a full ID otherwise.
func resolveProject(ctx context.Context, projects repository.ProjectRepo, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if m := shortRefPattern.FindStringSubmatch(ref); m != nil {
		seq, err := strconv.Atoi(m[1])
		if err == nil {
			return projects.GetByShortID(ctx, domain.FormatShortID(seq))
		}
	}
	return projects.GetByID(ctx, ref)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := validateProject(p); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}
