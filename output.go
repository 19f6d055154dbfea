package codefacts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFacts serializes a fact collection to path. The collection is assumed
// already sorted by ID (Extract guarantees it); keys within each object are
// emitted in sorted order by construction of the Fact struct, so repeated
// runs over unchanged content produce byte-identical files.
//
// jsonl selects one JSON object per line; otherwise a single indented JSON
// array is written. Missing parent directories are created.
func WriteFacts(facts []Fact, path string, jsonl bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if jsonl {
		for _, fact := range facts {
			line, err := json.Marshal(fact)
			if err != nil {
				return fmt.Errorf("marshal fact %s: %w", fact.ID, err)
			}
			w.Write(line)
			w.WriteByte('\n')
		}
	} else {
		// An empty collection still serializes as a valid (empty) array.
		out := facts
		if out == nil {
			out = []Fact{}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal facts: %w", err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
