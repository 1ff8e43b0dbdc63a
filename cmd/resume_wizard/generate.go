package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/resume-wizard/internal/config"
	"github.com/jonathan/resume-wizard/internal/db"
	"github.com/jonathan/resume-wizard/internal/draft"
	"github.com/jonathan/resume-wizard/internal/generator"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/pipeline"
	"github.com/jonathan/resume-wizard/internal/sections"
	"github.com/jonathan/resume-wizard/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Generate resume sections for a draft from wizard input",
	Long: `Normalizes raw wizard answers into structured section payloads, validates them and persists the results under the draft identified by --user and --request.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerateCmd,
}

var (
	genConfigPath  string
	genInput       string
	genUserID      string
	genRequestID   string
	genSection     string
	genMode        string
	genForce       bool
	genVerbose     bool
	genDatabaseURL string
)

func init() {
	// Config file flag (processed first)
	generateCommand.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCommand.Flags().StringVarP(&genInput, "input", "i", "", "Path to wizard input JSON file")
	generateCommand.Flags().StringVarP(&genUserID, "user", "u", "", "User UUID owning the draft")
	generateCommand.Flags().StringVarP(&genRequestID, "request", "r", "", "Request id scoping the draft")
	generateCommand.Flags().StringVarP(&genSection, "section", "s", "", "Single section type to generate (empty = all)")
	generateCommand.Flags().StringVarP(&genMode, "mode", "m", "", "Generation mode: default, shorter, longer, formal or creative")
	generateCommand.Flags().BoolVar(&genForce, "force", false, "Force full regeneration of all sections")
	generateCommand.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	// Database URL can be passed as a flag, or read from env var DATABASE_URL
	generateCommand.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(generateCommand)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if genVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", genConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	cli := config.Config{Force: cfg.Force, Verbose: cfg.Verbose}
	if cmd.Flags().Changed("input") {
		cli.Input = genInput
	}
	if cmd.Flags().Changed("user") {
		cli.UserID = genUserID
	}
	if cmd.Flags().Changed("request") {
		cli.RequestID = genRequestID
	}
	if cmd.Flags().Changed("section") {
		cli.Section = genSection
	}
	if cmd.Flags().Changed("mode") {
		cli.Mode = genMode
	}
	if cmd.Flags().Changed("force") {
		cli.Force = genForce
	}
	if cmd.Flags().Changed("verbose") {
		cli.Verbose = genVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cli.DatabaseURL = genDatabaseURL
	}
	cfg = cli.MergeWithDefaults(cfg)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	// Step 3: Validate required fields after merging
	if cfg.Input == "" {
		return fmt.Errorf("wizard input file is required (use --input or config file)")
	}
	if cfg.RequestID == "" {
		return fmt.Errorf("request id is required (use --request or config file)")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (use --db-url or DATABASE_URL env var)")
	}
	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", cfg.UserID, err)
	}

	mode := types.GenerationMode(cfg.Mode)
	if cfg.Mode == "" {
		mode = types.ModeDefault
	}
	if !mode.Valid() {
		return fmt.Errorf("invalid mode %q", cfg.Mode)
	}

	input, err := loadWizardInput(cfg.Input)
	if err != nil {
		return err
	}

	// Step 4: Connect and assemble the pipeline
	logger := zap.NewNop()
	if cfg.Verbose {
		logCfg := zap.NewDevelopmentConfig()
		logger, err = logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	drafts := draft.NewManager(database, logger)
	repo := sections.NewRepository(database)
	orchestrator := pipeline.New(drafts, repo, generator.NewLocal(), logger)

	params := pipeline.GenerateParams{
		UserID:    userID,
		RequestID: cfg.RequestID,
		Input:     input,
		Mode:      mode,
	}

	printer := observability.NewPrinter(os.Stdout)

	// Step 5: Run
	if cfg.Section != "" {
		sectionType := types.SectionType(cfg.Section)
		if !sectionType.Valid() {
			return fmt.Errorf("invalid section type %q", cfg.Section)
		}

		effective, err := orchestrator.GenerateSection(ctx, params, sectionType)
		if err != nil {
			return fmt.Errorf("failed to generate section %s: %w", sectionType, err)
		}
		printer.PrintSections(map[types.SectionType]json.RawMessage{sectionType: effective})
		return nil
	}

	var result map[types.SectionType]json.RawMessage
	if cfg.Force {
		result, err = orchestrator.RegenerateAllWithOverrides(ctx, params)
		if err == nil {
			err = orchestrator.SetDirty(ctx, userID, cfg.RequestID, false)
		}
	} else {
		result, err = orchestrator.GenerateAll(ctx, params)
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	d, err := orchestrator.Draft(ctx, userID, cfg.RequestID)
	if err != nil {
		return fmt.Errorf("failed to load draft: %w", err)
	}

	printer.PrintDraft(d)
	printer.PrintSections(result)
	return nil
}

func loadWizardInput(path string) (*types.WizardInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wizard input %s: %w", path, err)
	}

	var input types.WizardInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse wizard input JSON: %w", err)
	}

	return &input, nil
}
