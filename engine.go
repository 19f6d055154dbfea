package codefacts

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jlf119/codefacts/internal/lang"
)

// DefaultWorkers is the worker pool width when none is configured.
const DefaultWorkers = 4

// Engine orchestrates the fact pipeline: file discovery, language resolution,
// per-file query evaluation, normalization, and full/delta partitioning.
//
// The language Registry is constructed once in New and handed to workers by
// reference; there is no other shared mutable state during a run.
type Engine struct {
	registry  *lang.Registry
	languages map[string]bool // nil means all languages
	workers   int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the worker pool width. Values below 1 fall back to the
// default.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// WithLanguages restricts which languages the Engine will process. Files in
// other recognized languages are skipped entirely (no fallback fact).
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[string]bool, len(languages))
		for _, l := range languages {
			e.languages[l] = true
		}
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine. Registry options (extension overrides, extra
// branching kinds, typically from a YAML config) are applied to the language
// registry, whose query tables are validated here — an invalid pattern is a
// construction error, not a per-file surprise later.
func New(regOpts []lang.Option, opts ...Option) (*Engine, error) {
	registry, err := lang.NewRegistry(regOpts...)
	if err != nil {
		return nil, fmt.Errorf("codefacts: build language registry: %w", err)
	}
	e := &Engine{
		registry: registry,
		workers:  DefaultWorkers,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Registry exposes the language registry, mainly for tests and callers that
// want to probe extension support.
func (e *Engine) Registry() *lang.Registry {
	return e.registry
}

// Extract runs the full pipeline over the tree rooted at root: discover
// candidate files, extract facts per file on a bounded worker pool, then
// partition into the full set and the delta set (facts from files changed
// since baseSHA). Both returned sets are sorted by ascending fact ID, which
// makes the output independent of worker completion order.
//
// Per-file failures degrade to a single fallback fact and never abort the
// run. Extract returns an error only for configuration-level problems or
// context cancellation.
func (e *Engine) Extract(ctx context.Context, root, baseSHA string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("codefacts: resolve root %q: %w", root, err)
	}
	// git rev-parse --show-toplevel reports the physical repository path, so
	// the changeset holds physical paths; resolve symlinks here or delta
	// membership silently misses when root is reached through a link.
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	paths, err := e.discover(absRoot)
	if err != nil {
		return nil, fmt.Errorf("codefacts: discover: %w", err)
	}
	e.logger.Debug("discovered source files", slog.Int("count", len(paths)))

	changed := ResolveChangeset(absRoot, baseSHA, e.logger)

	perFile, stats, err := e.extractAll(ctx, absRoot, paths)
	if err != nil {
		return nil, err
	}

	result := &Result{Stats: stats}
	for _, ff := range perFile {
		result.Full = append(result.Full, ff.facts...)
		if changed[ff.absPath] {
			result.Delta = append(result.Delta, ff.facts...)
		}
	}
	sortByID(result.Full)
	sortByID(result.Delta)
	return result, nil
}

// discover walks root and returns candidate files, relative to root with
// slash separators. Directories and symlinks are excluded, as is any path
// containing a hidden (dot-prefixed) segment. Only supported extensions pass.
// No ordering is guaranteed; determinism is restored by the final sort.
func (e *Engine) discover(absRoot string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == absRoot {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if _, ok := e.registry.LanguageForFile(p); !ok {
			return nil
		}
		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// extractFile produces the atomic fact list for one file. Every failure path
// lands on the fallback fact; skipped is true only when the language filter
// excludes the file (no facts at all, not even a fallback).
func (e *Engine) extractFile(ctx context.Context, absRoot, relPath string) (facts []Fact, fellBack bool, language string, skipped bool) {
	absPath := filepath.Join(absRoot, filepath.FromSlash(relPath))

	language, ok := e.registry.LanguageForFile(relPath)
	if !ok {
		// Discovery only yields recognized extensions; treat a miss as a
		// degraded file rather than dropping it.
		return []Fact{fallbackFact(relPath, absPath, "")}, true, "", false
	}
	if e.languages != nil && !e.languages[language] {
		return nil, false, language, true
	}

	handle, ok := e.registry.Resolve(language)
	if !ok {
		e.logger.Info("language unsupported, emitting fallback fact",
			slog.String("file", relPath), slog.String("lang", language))
		return []Fact{fallbackFact(relPath, absPath, language)}, true, language, false
	}

	src, err := os.ReadFile(absPath)
	if err != nil {
		e.logger.Info("file unreadable, emitting fallback fact",
			slog.String("file", relPath), slog.String("error", err.Error()))
		return []Fact{fallbackFact(relPath, absPath, language)}, true, language, false
	}

	facts, err = collectFacts(ctx, handle, relPath, src)
	if err != nil {
		e.logger.Info("extraction failed, emitting fallback fact",
			slog.String("file", relPath), slog.String("error", err.Error()))
		return []Fact{fallbackFact(relPath, absPath, language)}, true, language, false
	}
	return facts, false, language, false
}

// sortByID orders facts by ascending ID, the output contract for both sets.
func sortByID(facts []Fact) {
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].ID != facts[j].ID {
			return facts[i].ID < facts[j].ID
		}
		// Duplicate IDs are legal (e.g. the same import twice in one file);
		// break ties on secondary fields so output stays byte-stable.
		if facts[i].File != facts[j].File {
			return facts[i].File < facts[j].File
		}
		return facts[i].LineStart < facts[j].LineStart
	})
}
