package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jlf119/codefacts"
	"github.com/jlf119/codefacts/internal/store"
)

var (
	flagIndexDB      string
	flagIndexBaseSHA string
	flagIndexWorkers int
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Extract facts and persist them to a SQLite database",
	Long:  "Runs the same extraction pipeline as extract, but writes the facts into a SQLite database for ad-hoc querying with the query subcommand. Re-running replaces each file's facts atomically.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&flagIndexDB, "db", "", "database path (default: .codefacts/facts.db under the target)")
	indexCmd.Flags().StringVar(&flagIndexBaseSHA, "base-sha", "HEAD~1", "revision to diff against for the changeset")
	indexCmd.Flags().IntVar(&flagIndexWorkers, "workers", codefacts.DefaultWorkers, "worker pool width")
}

func runIndex(cmd *cobra.Command, args []string) error {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	dbPath := flagIndexDB
	if dbPath == "" {
		dbPath = filepath.Join(targetDir, ".codefacts", "facts.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	engine, err := buildEngine(flagIndexWorkers, nil)
	if err != nil {
		return err
	}

	res, err := engine.Extract(cmd.Context(), targetDir, flagIndexBaseSHA)
	if err != nil {
		return fmt.Errorf("extracting: %w", err)
	}

	// Group facts back into their per-file atomic units for storage.
	byFile := make(map[string][]codefacts.Fact)
	for _, f := range res.Full {
		byFile[f.File] = append(byFile[f.File], f)
	}
	files := make([]string, 0, len(byFile))
	for path := range byFile {
		files = append(files, path)
	}
	sort.Strings(files)

	for _, path := range files {
		facts := byFile[path]
		if err := s.ReplaceFileFacts(path, facts[0].Lang, facts); err != nil {
			return fmt.Errorf("storing %s: %w", path, err)
		}
	}

	slog.Info("indexed facts",
		slog.Int("files", len(files)),
		slog.Int("facts", len(res.Full)),
		slog.String("db", dbPath))
	fmt.Fprintf(os.Stderr, "Indexed %d facts from %d files into %s\n", len(res.Full), len(files), dbPath)
	return nil
}
