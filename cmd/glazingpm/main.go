package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/cli"
	"github.com/alexanderramin/glazingpm/internal/config"
	"github.com/alexanderramin/glazingpm/internal/db"
	"github.com/alexanderramin/glazingpm/internal/intelligence"
	"github.com/alexanderramin/glazingpm/internal/llm"
	"github.com/alexanderramin/glazingpm/internal/logging"
	"github.com/alexanderramin/glazingpm/internal/metrics"
	"github.com/alexanderramin/glazingpm/internal/repository"
	"github.com/alexanderramin/glazingpm/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

// submittalPasses is how many times the model reads the specifications for
// submittal requirements.
const submittalPasses = 2

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath picks --config out of the arguments before cobra parses them.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("glazingpm", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func run() error {
	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Init(cfg.Log)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Reference tables
	var cat *catalog.Catalog
	if cfg.CatalogDir != "" {
		cat, err = catalog.LoadDir(cfg.CatalogDir)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	outputRepo := repository.NewSQLiteOutputSetRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	reg := metrics.New()
	observer := service.MultiUseCaseObserver(
		service.NewLogUseCaseObserver(logger),
		service.NewMetricsUseCaseObserver(reg),
	)

	app := &cli.App{
		Catalog: cat,
		Server:  cfg.Server,
		Metrics: reg,
		Logger:  logger,
	}

	// Scope summaries, contract extraction and submittal analysis use the LLM
	// only when enabled; summaries fall back to deterministic text otherwise.
	var summaries intelligence.SummaryService
	llmCfg := llm.LoadConfig()
	if llmCfg.Enabled {
		llmClient := llm.NewAnthropicClient(llmCfg, llmObserver(llmCfg, logger, reg))
		summaries = intelligence.NewSummaryService(llmClient)
		app.Extractor = intelligence.NewContractExtractor(llmClient)
		app.Submittals = intelligence.NewSubmittalAnalyzer(llmClient, submittalPasses)
		logger.Debug("llm enabled", "model", llmCfg.Model, "endpoint", llmCfg.Endpoint)
	}

	pipeline := service.NewPipeline(cat, cfg.Bands, cfg.Durations, summaries)
	app.Projects = service.NewProjectService(projectRepo, uow, observer)
	app.Generation = service.NewGenerationService(pipeline, projectRepo, outputRepo, uow, observer)
	app.Import = service.NewImportService(pipeline, uow, observer)

	// Detect interactive terminal for forms and the review viewer.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

func llmObserver(cfg llm.LLMConfig, logger *slog.Logger, reg *metrics.Registry) llm.Observer {
	counter := llm.NewCounterObserver(reg)
	if !cfg.LogCalls {
		return counter
	}
	return llm.MultiObserver(llm.NewLogObserver(logger), counter)
}
