package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jlf119/codefacts/internal/store"
)

var (
	flagQueryDB     string
	flagQueryKind   string
	flagQueryLang   string
	flagQueryFile   string
	flagQueryFormat string
	flagQuerySum    bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query facts from an indexed database",
	Long:  "Reads facts previously written by the index subcommand, filtered by kind, language, or file prefix, as JSON or an aligned text table.",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagQueryFormat)
	},
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&flagQueryDB, "db", "", "database path written by index")
	queryCmd.Flags().StringVar(&flagQueryKind, "kind", "", "filter by fact kind (symbol, import, call, ...)")
	queryCmd.Flags().StringVar(&flagQueryLang, "lang", "", "filter by language")
	queryCmd.Flags().StringVar(&flagQueryFile, "file", "", "filter by file path prefix")
	queryCmd.Flags().StringVar(&flagQueryFormat, "format", "json", "output format: json|text")
	queryCmd.Flags().BoolVar(&flagQuerySum, "summary", false, "print per-kind counts instead of facts")
	queryCmd.MarkFlagRequired("db")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(flagQueryDB); err != nil {
		return fmt.Errorf("database not found: %s", flagQueryDB)
	}
	s, err := store.NewStore(flagQueryDB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	if flagQuerySum {
		counts, err := s.CountsByKind()
		if err != nil {
			return fmt.Errorf("summarizing: %w", err)
		}
		if flagQueryFormat == "text" {
			formatKindCountsText(os.Stdout, counts)
			return nil
		}
		return printJSON(os.Stdout, counts)
	}

	facts, err := s.Facts(store.Filter{
		Kind:       flagQueryKind,
		Lang:       flagQueryLang,
		FilePrefix: flagQueryFile,
	})
	if err != nil {
		return fmt.Errorf("querying: %w", err)
	}

	if flagQueryFormat == "text" {
		formatFactsText(os.Stdout, facts)
		return nil
	}
	return printJSON(os.Stdout, facts)
}
