// Package lang owns the per-language configuration the extraction pipeline
// runs on: the extension map, tree-sitter grammar handles, the fact-kind
// query tables, and the branching-node sets used for cyclomatic complexity.
//
// All of it is assembled once by NewRegistry and immutable afterwards. Query
// patterns are compiled against their grammar during construction, so a bad
// pattern fails the process at startup instead of surfacing per file.
package lang

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	tsx "github.com/smacker/go-tree-sitter/typescript/tsx"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// defaultExtensions maps file extensions to canonical language names.
var defaultExtensions = map[string]string{
	".py":  "python",
	".js":  "javascript",
	".jsx": "javascript",
	".ts":  "typescript",
	".tsx": "tsx",
	".go":  "go",
}

// grammarCtors maps language names to tree-sitter grammar constructors.
// Kept as constructors rather than instances so the Registry controls when
// (and whether) each grammar is initialized.
var grammarCtors = map[string]func() *sitter.Language{
	"python":     python.GetLanguage,
	"javascript": javascript.GetLanguage,
	"typescript": ts.GetLanguage,
	"tsx":        tsx.GetLanguage,
	"go":         golang.GetLanguage,
}

// Handle bundles everything extraction needs for one language: the
// initialized grammar, the fact-kind query table, and the branching set.
// Handles are created once per language and shared across workers; all
// fields are read-only after construction.
type Handle struct {
	Name      string
	Grammar   *sitter.Language
	Queries   map[string]string
	Branching map[string]bool
}

// Registry resolves file extensions to language Handles. Grammar handles are
// memoized per language; construction is assumed expensive and reuse across
// files is mandatory for throughput. The Registry is safe for concurrent use.
type Registry struct {
	extensions map[string]string
	branching  map[string]map[string]bool

	mu      sync.Mutex
	handles map[string]*Handle
}

// Option configures a Registry.
type Option func(*Registry)

// WithExtensions adds or overrides extension-to-language mappings. An entry
// mapping an extension to a language with no available grammar is legal: files
// with that extension resolve as unsupported and fall back downstream.
func WithExtensions(exts map[string]string) Option {
	return func(r *Registry) {
		for ext, lang := range exts {
			r.extensions[strings.ToLower(ext)] = lang
		}
	}
}

// WithBranching adds node kinds to a language's branching set.
func WithBranching(language string, kinds ...string) Option {
	return func(r *Registry) {
		set := r.branching[language]
		if set == nil {
			set = make(map[string]bool)
			r.branching[language] = set
		}
		for _, k := range kinds {
			set[k] = true
		}
	}
}

// NewRegistry builds the language registry and validates every built-in query
// pattern against its grammar. A pattern that fails to compile is a
// configuration defect, reported here rather than per file at runtime.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{
		extensions: make(map[string]string, len(defaultExtensions)),
		branching:  make(map[string]map[string]bool, len(branchingKinds)),
		handles:    make(map[string]*Handle),
	}
	for ext, lang := range defaultExtensions {
		r.extensions[ext] = lang
	}
	for lang, kinds := range branchingKinds {
		set := make(map[string]bool, len(kinds))
		for _, k := range kinds {
			set[k] = true
		}
		r.branching[lang] = set
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validateQueries(); err != nil {
		return nil, err
	}
	return r, nil
}

// validateQueries compiles every query for every language that has a grammar.
func (r *Registry) validateQueries() error {
	for lang, queries := range factQueries {
		ctor, ok := grammarCtors[lang]
		if !ok {
			return fmt.Errorf("lang: queries defined for %q but no grammar registered", lang)
		}
		grammar := ctor()
		for kind, pattern := range queries {
			q, err := sitter.NewQuery([]byte(pattern), grammar)
			if err != nil {
				return fmt.Errorf("lang: invalid %s/%s query: %w", lang, kind, err)
			}
			q.Close()
		}
	}
	return nil
}

// LanguageForFile returns the canonical language name for a file path based
// on its extension. Returns ("", false) if the extension is not recognized.
func (r *Registry) LanguageForFile(path string) (string, bool) {
	lang, ok := r.extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Resolve returns the Handle for a language name. Returns (nil, false) when
// the language has no grammar or no query table — the caller is expected to
// degrade to the generic fallback fact, never to abort.
func (r *Registry) Resolve(language string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[language]; ok {
		return h, h != nil
	}

	ctor, ok := grammarCtors[language]
	queries := factQueries[language]
	if !ok || queries == nil {
		// Negative result is memoized too, so repeated lookups for an
		// unsupported language stay cheap.
		r.handles[language] = nil
		return nil, false
	}

	h := &Handle{
		Name:      language,
		Grammar:   ctor(),
		Queries:   queries,
		Branching: r.branching[language],
	}
	r.handles[language] = h
	return h, true
}
