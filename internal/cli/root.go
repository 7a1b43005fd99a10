package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/glossary/internal/control"
	"github.com/vietddude/glossary/internal/core/config"
	"github.com/vietddude/glossary/internal/glossary/pipeline"
)

var (
	cfgPath    string
	isDebug    bool
	rootFolder string
	title      string
	markdown   string
)

var rootCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Build a lore glossary from a Drive folder",
	Long: `Glossary walks a Drive folder tree, summarizes every Google Doc it finds
with Gemini, and writes the summaries into a new Google Doc.`,
	Run: runGlossary,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&rootFolder, "folder", "", "root folder name (overrides config)")
	rootCmd.Flags().StringVar(&title, "title", "", "output document title (overrides config)")
	rootCmd.Flags().StringVar(&markdown, "markdown", "", "also write the glossary as Markdown to this path")
}

// loadConfig reads .env and the config file, then installs the logger.
func loadConfig() *config.AppConfig {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logging
	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})
	return cfg
}

func controlConfig(cfg *config.AppConfig) control.Config {
	return control.Config{
		Port:       cfg.Server.Port,
		Glossary:   cfg.Glossary,
		Google:     cfg.Google,
		Generation: cfg.Generation,
		Retry:      cfg.Retry,
		Redis:      cfg.Redis,
		Database:   cfg.Database,
		History:    cfg.History,
	}
}

func runGlossary(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := control.NewApp(ctx, controlConfig(cfg))
	if err != nil {
		slog.Error("Failed to initialize glossary", "error", err)
		os.Exit(1)
	}

	if err := app.Start(ctx); err != nil {
		slog.Error("Failed to start glossary", "error", err)
		os.Exit(1)
	}

	run, runErr := app.Run(ctx, pipeline.Config{RootFolder: rootFolder, Title: title})
	if runErr == nil && markdown != "" {
		runErr = writeMarkdown(ctx, app, run.DocumentID, markdown)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	if runErr != nil {
		slog.Error("Glossary run failed", "error", runErr)
		os.Exit(1)
	}
	slog.Info("Glossary written", "run_id", run.ID, "document_id", run.DocumentID, "items", run.ItemCount)
}
