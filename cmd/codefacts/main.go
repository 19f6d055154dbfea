package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "Interrupted")
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

var rootCmd = &cobra.Command{
	Use:           "codefacts",
	Short:         "Deterministic structural fact extraction for source trees",
	Long:          "codefacts runs tree-sitter queries over a multi-language source tree and emits a content-addressed fact set plus a delta subset limited to files changed since a base revision.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(flagVerbose)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML file overriding the language tables (extensions, branching kinds)")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase logging verbosity (repeatable)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
}

// configureLogging installs a slog text handler on stderr. The default level
// is Warn; each -v steps it down one level (Info, then Debug).
func configureLogging(verbose int) {
	level := slog.LevelWarn - slog.Level(4*verbose)
	if level < slog.LevelDebug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveTargetDir returns the absolute path of the directory to extract.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", dir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}
	return dir, nil
}
