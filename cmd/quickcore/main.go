package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickcore/internal/config"
	"quickcore/internal/extractor"
	"quickcore/internal/helpers"
	"quickcore/internal/logger"
	"quickcore/internal/models"
	"quickcore/internal/repositories"
	"quickcore/internal/services"
	"quickcore/internal/session"
	"quickcore/internal/tui"
	"quickcore/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	outputDir  string
	noSave     bool
	listenAddr string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "quickcore",
		Short: "QuickCore - turn a PDF into a focused study plan",
		Long: `QuickCore extracts the text of a PDF (lecture notes, a syllabus, a chapter)
and asks a language model to organize it into prioritized study topics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")

	var planCmd = &cobra.Command{
		Use:   "plan <file.pdf>",
		Short: "Create a study plan from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}
	planCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to output.dir from the config)")
	planCmd.Flags().BoolVar(&noSave, "no-save", false, "Print the plan without writing files")
	rootCmd.AddCommand(planCmd)

	var showCmd = &cobra.Command{
		Use:   "show <plan.json>",
		Short: "Display a previously saved study plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	rootCmd.AddCommand(showCmd)

	var tuiCmd = &cobra.Command{
		Use:   "tui [dir]",
		Short: "Pick a PDF and read the plan in the terminal UI",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}
	rootCmd.AddCommand(tuiCmd)

	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload page and the JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (defaults to server.addr from the config)")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		helpers.PrintError("Error: %v", err)
		os.Exit(1)
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	inputFile := args[0]
	if !helpers.FileExists(inputFile) {
		return fmt.Errorf("file not found: %s", inputFile)
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newMachine, generator, err := buildMachineFactory(cfg, log)
	if err != nil {
		return err
	}

	helpers.PrintTitle("Creating Study Plan")
	helpers.PrintInfo("Input file: %s", inputFile)
	helpers.PrintInfo("Generator: %s (%s)", generator.Provider(), generator.Model())

	doc, err := extractor.ReadDocument(inputFile)
	if err != nil {
		return err
	}

	machine := newMachine()
	machine.SetObserver(func(snap session.Snapshot) {
		if snap.Loading {
			helpers.PrintProgress(1, 2, snap.LoaderMessage())
		}
	})

	snap, err := machine.Submit(ctx, doc)
	if err != nil {
		return err
	}
	if snap.State() == session.StateError {
		return fmt.Errorf("%s", snap.Error)
	}
	helpers.PrintProgress(2, 2, "Study plan ready")

	services.DisplayStudyPlan(snap.Plan, snap.FileName)

	if noSave || !cfg.Output.Save {
		return nil
	}

	saved := &models.SavedPlan{
		Plan:        *snap.Plan,
		SourceFile:  snap.FileName,
		GeneratedAt: time.Now(),
		Provider:    generator.Provider(),
		Model:       generator.Model(),
	}
	jsonPath, mdPath, err := services.SaveStudyPlan(saved, cfg.Output.Dir)
	if err != nil {
		return err
	}

	helpers.PrintSuccess("Study plan saved to %s", jsonPath)
	helpers.PrintSuccess("Summary saved to %s", mdPath)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	saved, err := services.LoadStudyPlan(args[0])
	if err != nil {
		return fmt.Errorf("failed to load study plan: %w", err)
	}

	services.DisplayStudyPlan(&saved.Plan, saved.SourceFile)
	if saved.Provider != "" {
		helpers.PrintSubtle("Generated by %s (%s) on %s", saved.Provider, saved.Model, saved.GeneratedAt.Format(time.RFC1123))
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !helpers.IsTerminal() {
		return fmt.Errorf("the terminal UI needs an interactive terminal; use `quickcore plan` instead")
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// stderr belongs to the alt screen; only log when a file is configured
	log := zap.NewNop()
	if cfg.Log.OutputPath != "" && cfg.Log.OutputPath != "stderr" && cfg.Log.OutputPath != "stdout" {
		if log, err = newLogger(cfg.Log); err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck
	}

	newMachine, _, err := buildMachineFactory(cfg, log)
	if err != nil {
		return err
	}

	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(tui.New(ctx, newMachine(), startDir), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if listenAddr != "" {
		cfg.Server.Addr = listenAddr
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	newMachine, generator, err := buildMachineFactory(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("QuickCore server configured",
		zap.String("addr", cfg.Server.Addr),
		zap.String("provider", generator.Provider()),
		zap.String("model", generator.Model()),
		zap.Bool("metrics", cfg.Server.Metrics),
	)

	return web.NewServer(ctx, cfg.Server, newMachine, log).Run(ctx)
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:      cfg.Level,
		Encoding:   cfg.Encoding,
		OutputPath: cfg.OutputPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// buildMachineFactory wires extractor, completer and generator once and returns a
// factory for fresh state machines sharing them.
func buildMachineFactory(cfg *config.Config, log *zap.Logger) (web.MachineFactory, *services.AIService, error) {
	pdfExtractor := extractor.NewPDFExtractor(log, cfg.Extraction.PageSeparator)

	completer, err := repositories.NewCompleter(cfg.Generator, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create generator client: %w", err)
	}

	var tokenizer services.Tokenizer
	if cfg.Generator.MaxInputTokens > 0 {
		tiktoken, err := services.NewTiktokenTokenizer(services.DefaultEncoding)
		if err != nil {
			log.Warn("Tokenizer unavailable, input will not be truncated", zap.Error(err))
			helpers.PrintWarning("Token budget disabled: %v", err)
		} else {
			tokenizer = tiktoken
		}
	}

	generator := services.NewAIService(completer, services.GenerationOptions{
		MaxTokens:      cfg.Generator.MaxTokens,
		Temperature:    cfg.Generator.Temperature,
		MaxInputTokens: cfg.Generator.MaxInputTokens,
	}, tokenizer, log)

	return func() *session.Machine {
		return session.NewMachine(pdfExtractor, generator, log)
	}, generator, nil
}
