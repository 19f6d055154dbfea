package codefacts

import (
	"context"
	"crypto/sha1"
	"fmt"
	"os"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jlf119/codefacts/internal/lang"
)

// factID builds the deterministic fact identifier: "CU-" plus the first ten
// hex digits of the SHA-1 of a pipe-delimited canonical string. The canonical
// string composition per kind is the external identity contract — downstream
// tooling de-duplicates facts across runs by this ID, so the parts must never
// change:
//
//	symbol      symbol|{qualified}|{file}
//	import      import|{module}|{imported}
//	decorator   decorator|{module}|{decorator}
//	call        call|{caller_module}|{callee}
//	annotation  annotation|{module}|{annotation}
//	docstring   docstring|{module}|{doc}
//	test_case   test_case|{qualified}|{file}
//	(fallback)  file|{file}
//
// Truncating to ten hex digits accepts a bounded collision probability in
// exchange for short IDs; distinct canonical strings colliding is treated as
// negligible at the fact counts this tool sees.
func factID(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return "CU-" + fmt.Sprintf("%x", sum)[:10]
}

// moduleName derives the qualified module name from a slash-separated
// relative file path: suffix stripped, separators replaced with dots. A
// package index file ("__init__.py") collapses to its directory's name.
func moduleName(relPath, language string) string {
	p := relPath
	if language == "python" && path.Base(p) == "__init__.py" {
		p = path.Dir(p)
		if p == "." {
			p = ""
		}
	} else {
		p = strings.TrimSuffix(p, path.Ext(p))
	}
	return strings.ReplaceAll(p, "/", ".")
}

// collectFacts parses one file and evaluates every fact-kind query for its
// language against the tree, producing normalized facts. The returned slice
// is the file's atomic unit: the caller includes all of it or none of it.
func collectFacts(ctx context.Context, h *lang.Handle, relPath string, src []byte) ([]Fact, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(h.Grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()

	module := moduleName(relPath, h.Name)

	var facts []Fact
	for _, kind := range lang.Kinds {
		pattern, ok := h.Queries[kind]
		if !ok {
			continue
		}
		captures, err := runQuery(pattern, h.Grammar, root, src)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", kind, err)
		}
		for _, node := range captures {
			text := strings.Trim(node.Content(src), "\"'")
			facts = append(facts, assembleFact(kind, h, relPath, module, text, node))
		}
	}
	return facts, nil
}

// runQuery evaluates a query pattern and returns every captured node, with
// #match? predicates applied against the source.
func runQuery(pattern string, grammar *sitter.Language, root *sitter.Node, src []byte) ([]*sitter.Node, error) {
	q, err := sitter.NewQuery([]byte(pattern), grammar)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, root)

	var nodes []*sitter.Node
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, src)
		for _, c := range match.Captures {
			nodes = append(nodes, c.Node)
		}
	}
	return nodes, nil
}

// assembleFact builds the canonical Fact for one capture. Symbol and
// test_case facts qualify the captured name with the module; decorator, call,
// annotation and docstring facts are qualified by module only, which
// under-qualifies occurrences inside nested scopes — known, and kept, because
// consumers key on these exact IDs.
func assembleFact(kind string, h *lang.Handle, relPath, module, text string, node *sitter.Node) Fact {
	f := Fact{
		Kind:      kind,
		Lang:      h.Name,
		File:      relPath,
		LineStart: int(node.StartPoint().Row) + 1,
		LineEnd:   int(node.EndPoint().Row) + 1,
	}

	switch kind {
	case lang.KindSymbol:
		qualified := module
		if text != "" {
			qualified = module + "." + text
		}
		f.ID = factID(kind, qualified, relPath)
		f.Symbol = qualified
		f.Signature = "()"
		// The capture is the name node; complexity is computed over the
		// enclosing definition, its parent.
		def := node.Parent()
		if def == nil {
			def = node
		}
		f.Complexity = lang.Cyclomatic(def, h.Branching)
	case lang.KindImport:
		f.ID = factID(kind, module, text)
		f.Module = module
		f.Imports = text
	case lang.KindDecorator:
		f.ID = factID(kind, module, text)
		f.Symbol = module
		f.Decorator = text
	case lang.KindCall:
		f.ID = factID(kind, module, text)
		f.CallerModule = module
		f.Callee = text
	case lang.KindAnnotation:
		f.ID = factID(kind, module, text)
		f.Symbol = module
		f.Annotation = text
	case lang.KindDocstring:
		f.ID = factID(kind, module, text)
		f.Symbol = module
		f.Doc = text
	case lang.KindTestCase:
		qualified := module
		if text != "" {
			qualified = module + "." + text
		}
		f.ID = factID(kind, qualified, relPath)
		f.Symbol = qualified
	}
	return f
}

// fallbackFact emits the single generic fact for a file that could not be
// analyzed: unsupported language, unreadable content, or any extraction
// failure. A malformed or unrecognized file must never abort the run, so this
// is the terminal degradation for every per-file error path.
func fallbackFact(relPath, absPath, language string) Fact {
	lineCount := 1
	if content, err := os.ReadFile(absPath); err == nil {
		// A trailing newline terminates the last line rather than opening a
		// new one; an empty file still spans one line.
		if s := strings.TrimSuffix(string(content), "\n"); s != "" {
			lineCount = strings.Count(s, "\n") + 1
		}
	}
	base := path.Base(relPath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return Fact{
		ID:        factID("file", relPath),
		Lang:      language,
		File:      relPath,
		Symbol:    stem,
		LineStart: 1,
		LineEnd:   lineCount,
	}
}
