package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jlf119/codefacts"
	"github.com/jlf119/codefacts/internal/store"
)

// validateFormat checks the --format flag value.
func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid format %q (expected json or text)", format)
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatFactsText formats facts as aligned columns. The NAME column shows
// whichever primary text the kind carries.
func formatFactsText(w io.Writer, facts []codefacts.Fact) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tLANG\tNAME\tFILE\tLINES")
	for _, f := range facts {
		kind := f.Kind
		if kind == "" {
			kind = "(fallback)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d-%d\n",
			f.ID, kind, f.Lang, primaryText(f), f.File, f.LineStart, f.LineEnd)
	}
	tw.Flush()
}

// primaryText picks the display name for a fact based on its kind.
func primaryText(f codefacts.Fact) string {
	switch {
	case f.Imports != "":
		return f.Imports
	case f.Decorator != "":
		return f.Decorator
	case f.Callee != "":
		return f.Callee
	case f.Annotation != "":
		return f.Annotation
	case f.Doc != "":
		return truncate(f.Doc, 40)
	default:
		return f.Symbol
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// formatKindCountsText formats the per-kind summary as aligned columns.
func formatKindCountsText(w io.Writer, counts []store.KindCount) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tCOUNT")
	for _, kc := range counts {
		kind := kc.Kind
		if kind == "" {
			kind = "(fallback)"
		}
		fmt.Fprintf(tw, "%s\t%d\n", kind, kc.Count)
	}
	tw.Flush()
}
