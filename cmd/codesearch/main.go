// Command codesearch ingests one or more git revisions and answers
// interactive regular-expression queries against their content.
//
// Logging:
//   - Base logger is created here with output format and level
//   - Logger is passed to all components via dependency injection
//   - No global slog configuration (no slog.SetDefault)
//   - Components scope loggers with their own attributes
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"codesearch/internal/ingest"
	"codesearch/internal/logging"
	"codesearch/internal/repl"
	"codesearch/internal/searchfile"
	"codesearch/internal/stats"
	"codesearch/internal/vcs"
)

func main() {
	var (
		repoPath string
		maxHits  int
		exclude  []string
		logJSON  bool
	)

	logger := logging.Discard()

	rootCmd := &cobra.Command{
		Use:   "codesearch <revision> [<revision> ...]",
		Short: "Interactive regular-expression search over git revisions",
		Args:  cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var handler slog.Handler
			opts := &slog.HandlerOptions{Level: slog.LevelDebug}
			if logJSON {
				handler = slog.NewJSONHandler(os.Stderr, opts)
			} else {
				handler = slog.NewTextHandler(os.Stderr, opts)
			}
			logger = slog.New(logging.NewLevelFilterHandler(handler, slog.LevelInfo))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, logger, repoPath, maxHits, exclude, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "path to the git repository to search")
	rootCmd.PersistentFlags().IntVar(&maxHits, "max-hits", 10, "maximum distinct matched lines reported per query")
	rootCmd.PersistentFlags().StringArrayVar(&exclude, "exclude", nil, "glob pattern of paths to skip during ingestion (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit structured JSON logs instead of text")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, logger *slog.Logger, repoPath string, maxHits int, exclude []string, revisions []string) error {
	out := cmd.OutOrStdout()

	repo, err := vcs.Open(repoPath)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	reg := searchfile.NewRegistry()
	ig := ingest.New(logger)

	for _, revision := range revisions {
		start := time.Now()
		fmt.Fprintf(out, "Walking %s...", revision)

		commit, err := repo.Resolve(revision)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", revision, err)
		}

		err = repo.Walk(commit, exclude, func(b vcs.Blob) error {
			f := reg.Add(revision, b.Path, b.Content)
			return ig.Ingest(f, b.Data)
		})
		if err != nil {
			return fmt.Errorf("walk %s: %w", revision, err)
		}

		elapsed := time.Since(start)
		fmt.Fprintf(out, " done in %d.%06ds\n",
			int64(elapsed/time.Second), int64((elapsed%time.Second)/time.Microsecond))
		logger.Info("revision ingested", "component", "ingest", "revision", revision,
			"elapsed", elapsed)
	}

	stats.Report(out, ig.Stats())

	session := repl.New(ig.Allocator(), maxHits, cmd.InOrStdin(), out)
	return session.Run()
}
