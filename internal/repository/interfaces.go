package repository

import (
	"context"

	"github.com/alexanderramin/glazingpm/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// ProjectSequenceRepo hands out registry numbers for P### short IDs.
type ProjectSequenceRepo interface {
	NextProjectSeq(ctx context.Context) (int, error)
}

// OutputSetRepo stores immutable generation runs. There is no Update.
type OutputSetRepo interface {
	NextVersion(ctx context.Context, projectID string) (int, error)
	Create(ctx context.Context, o *domain.OutputSet) error
	Latest(ctx context.Context, projectID string) (*domain.OutputSet, error)
	GetVersion(ctx context.Context, projectID string, version int) (*domain.OutputSet, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.OutputSet, error)
}
