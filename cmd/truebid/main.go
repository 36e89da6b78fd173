package main

import (
	"fmt"
	"os"

	"github.com/CityFriends/truebid-calculator-sub000/internal/cli"
	"github.com/CityFriends/truebid-calculator-sub000/internal/config"
	"github.com/CityFriends/truebid-calculator-sub000/internal/db"
	"github.com/CityFriends/truebid-calculator-sub000/internal/intelligence"
	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
	"github.com/CityFriends/truebid-calculator-sub000/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	proposalRepo := repository.NewSQLiteProposalRepo(database)
	roleRepo := repository.NewSQLiteRoleRepo(database)
	reqRepo := repository.NewSQLiteRequirementRepo(database)
	elementRepo := repository.NewSQLiteWBSElementRepo(database)
	seqRepo := repository.NewSQLiteWBSSequenceRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Metrics go to a private registry, dumped on exit when a metrics file
	// is configured.
	registry := prometheus.NewRegistry()
	promObserver, err := llm.NewPromObserver(registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	useCaseMetrics, err := service.NewPromUseCaseObserver(registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	useCaseObservers := service.MultiUseCaseObserver{useCaseMetrics}
	if cfg.LogUseCases {
		useCaseObservers = append(useCaseObservers, service.NewLogUseCaseObserver(os.Stderr))
	}
	var useCaseObserver service.UseCaseObserver = useCaseObservers
	if cfg.MetricsFile != "" {
		defer func() {
			if werr := prometheus.WriteToTextfile(cfg.MetricsFile, registry); werr != nil && err == nil {
				err = fmt.Errorf("writing metrics: %w", werr)
			}
		}()
	}

	// Without a credential every batch runs on the offline estimator.
	llmCfg := cfg.LLMConfig()
	var llmClient llm.LLMClient
	if llmCfg.HasCredential() {
		observers := llm.MultiObserver{promObserver}
		if llmCfg.LogCalls {
			observers = append(observers, llm.NewLogObserver(os.Stderr))
		}
		if llmClient, err = llm.NewClient(llmCfg, observers); err != nil {
			return fmt.Errorf("configuring %s client: %w", llmCfg.Provider, err)
		}
	}

	proposals := service.NewProposalService(proposalRepo)
	app := &cli.App{
		Proposals:    proposals,
		Roster:       service.NewRosterService(roleRepo),
		Requirements: service.NewRequirementService(reqRepo),
		Import:       service.NewImportService(proposals, uow, useCaseObserver),
		WBS:          service.NewWBSService(elementRepo, roleRepo, reqRepo, uow, useCaseObserver),
		Generation: service.NewGenerationService(proposalRepo, roleRepo, reqRepo, elementRepo, seqRepo,
			intelligence.NewEstimateService(llmClient), uow, useCaseObserver),
		Rollup: service.NewRollupService(proposalRepo, roleRepo, elementRepo, cfg.SummaryOptions()),
	}

	// Spinners and forms only on a terminal.
	app.IsInteractive = func() bool {
		return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
			isatty.IsTerminal(os.Stdout.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
