// Package main provides the namesmith CLI.
// Uses Cobra for command parsing: Cobra is the standard Go CLI framework
// (used by kubectl, docker, hugo, and many others).
//
// Run with: go run ./cmd/cli generate --industry "coffee shop" --preferences "earthy, minimal"
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/app"
	"github.com/fleveque/namesmith/internal/config"
	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/service"
	"github.com/fleveque/namesmith/internal/storage"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// rootCmd creates the root command. Cobra builds a tree of commands:
// namesmith generate --industry bakery
// namesmith stats
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "namesmith",
		Short: "Generate business names with matching logos",
	}

	root.AddCommand(generateCmd())
	root.AddCommand(statsCmd())
	return root
}

func generateCmd() *cobra.Command {
	var (
		input  model.UserInput
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one batch and write the logos to disk",
		// RunE returns an error (vs Run which doesn't). Cobra prints the error automatically.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), input, outDir)
		},
	}

	cmd.Flags().StringVar(&input.Industry, "industry", "", "Industry or kind of business (required)")
	cmd.Flags().StringVar(&input.Preferences, "preferences", "", "Style preferences, e.g. colors or mood")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: storage.export_dir)")
	_ = cmd.MarkFlagRequired("industry")
	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, input model.UserInput, outDir string) error {
	if err := input.Validate(); err != nil {
		return err
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if outDir == "" {
		outDir = cfg.Storage.ExportDir
	}

	fs, err := storage.NewFileSystem(outDir)
	if err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	// Ctrl+C cancels the batch; a timeout bounds it like the server does.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Batch.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Batch.Timeout)
		defer cancel()
	}

	start := time.Now()
	results, err := a.Orchestrator.Run(ctx, input)
	if err != nil {
		return fmt.Errorf("%s: %w", service.UserMessage(err), err)
	}

	return writeResults(out, fs, results, time.Since(start))
}

// writeResults exports each result and prints one summary line per file.
// A result that cannot be written is reported and skipped so the rest of the
// batch still lands on disk; the command then fails once everything is done.
func writeResults(out io.Writer, fs *storage.FileSystem, results []model.GeneratedResult, took time.Duration) error {
	failed, unwritten := 0, 0
	for i, r := range results {
		fmt.Fprintf(out, "%d. %s: %s\n", i+1, r.Name, r.Description)
		if r.Failed() {
			failed++
			continue
		}

		overwriting := map[string]bool{}
		for _, ext := range []string{"png", "svg"} {
			overwriting[ext] = fs.Exists(r.Name, ext)
		}

		files, err := fs.Export(r)
		for _, f := range files {
			note := ""
			if overwriting[filepath.Ext(f.Path)[1:]] {
				note = " (replaced)"
			}
			fmt.Fprintf(out, "   %s  %s%s\n", f.Path, humanize.Bytes(uint64(f.Bytes)), note)
		}
		if err != nil {
			unwritten++
			fmt.Fprintf(out, "   not saved: %v\n", err)
		}
	}

	fmt.Fprintf(out, "\n%d ideas, %d without logos, in %s\n",
		len(results), failed, took.Round(time.Second))
	if unwritten > 0 {
		return fmt.Errorf("%d of %d results could not be saved", unwritten, len(results))
	}
	return nil
}

func statsCmd() *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print model call statistics from the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), cmd.OutOrStdout(), recent)
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 10, "Number of recent calls to list")
	return cmd
}

func runStats(ctx context.Context, out io.Writer, recent int) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Stats only reads the audit log, so no API key is needed.
	db, err := app.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	calls := storage.NewCallRepository(db)
	stats, err := calls.Stats(ctx)
	if err != nil {
		return err
	}
	printStats(out, stats)

	if recent <= 0 {
		return nil
	}
	list, err := calls.Recent(ctx, recent)
	if err != nil {
		return err
	}
	printRecent(out, list)
	return nil
}

func printStats(out io.Writer, stats *storage.CallStats) {
	fmt.Fprintf(out, "model calls: %s (%s failed)\n", humanize.Comma(stats.Total), humanize.Comma(stats.Failed))
	for _, kind := range model.AllCallKinds {
		fmt.Fprintf(out, "  %-6s %s\n", kind, humanize.Comma(stats.ByKind[kind]))
	}
	avg := time.Duration(stats.AvgMs * float64(time.Millisecond))
	fmt.Fprintf(out, "average duration: %s\n", avg.Round(time.Millisecond))
}

func printRecent(out io.Writer, calls []model.ModelCall) {
	if len(calls) == 0 {
		return
	}
	fmt.Fprintln(out, "\nrecent:")
	for _, c := range calls {
		status := "ok"
		if !c.Success {
			status = "failed"
		}
		fmt.Fprintf(out, "  %-14s %-6s %-9s %-28s %s\n",
			humanize.Time(c.CreatedAt), c.Kind, c.Provider, c.Model, status)
	}
}

// setup loads config and builds the CLI logger.
func setup() (*config.Config, *zap.Logger, error) {
	configPath := os.Getenv("NAMESMITH_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	// Set up logger (always use development mode for CLI)
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}
