package service

import (
	"context"

	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/importer"
)

type ProjectService interface {
	// Create registers the project, allocating the next P### short ID when
	// ShortID is empty.
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	// Resolve accepts a short ID ("P003", "p3") or a full ID.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// Source records what produced an output set.
const (
	SourceCLI     = "cli"
	SourceAPI     = "api"
	SourceExtract = "extract"
	SourceImport  = "import"
)

// GenerationResult is a generated bundle and, when persisted, its stored
// output set.
type GenerationResult struct {
	Bundle    *export.Bundle
	OutputSet *domain.OutputSet
}

type GenerationService interface {
	// Preview runs the pipeline without a project or persistence.
	Preview(ctx context.Context, in contract.ProjectInput) (*export.Bundle, error)
	// Generate runs the pipeline for a registered project and stores the
	// result as the project's next output set version. Missing contract
	// fields are taken from the project.
	Generate(ctx context.Context, projectRef string, in contract.ProjectInput, source string) (*GenerationResult, error)
	Latest(ctx context.Context, projectRef string) (*GenerationResult, error)
	Version(ctx context.Context, projectRef string, version int) (*GenerationResult, error)
	History(ctx context.Context, projectRef string) ([]*domain.OutputSet, error)
}

// ImportResult holds the outcome of a contract analysis import.
type ImportResult struct {
	Project    *domain.Project
	Input      contract.ProjectInput
	Generation *GenerationResult
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	// ImportAnalysis registers a project from the analysis and generates its
	// first output set, all in one transaction.
	ImportAnalysis(ctx context.Context, a *importer.Analysis, source string) (*ImportResult, error)
}
