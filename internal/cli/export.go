package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vietddude/glossary/internal/control"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export DOCUMENT_ID",
	Short: "Export a glossary document as Markdown",
	Args:  cobra.ExactArgs(1),
	Run:   runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Exporting never generates text, so skip the model client.
	ccfg := controlConfig(cfg)
	ccfg.Generation.Mock = true
	ccfg.Port = 0

	app, err := control.NewApp(ctx, ccfg)
	if err != nil {
		slog.Error("Failed to initialize glossary", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	if exportOut == "" {
		text, err := app.ExportMarkdown(ctx, args[0])
		if err != nil {
			slog.Error("Export failed", "error", err)
			os.Exit(1)
		}
		fmt.Print(text)
		return
	}

	if err := writeMarkdown(ctx, app, args[0], exportOut); err != nil {
		slog.Error("Export failed", "error", err)
		os.Exit(1)
	}
}

func writeMarkdown(ctx context.Context, app *control.App, documentID, path string) error {
	text, err := app.ExportMarkdown(ctx, documentID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	slog.Info("Markdown written", "path", path)
	return nil
}
