// Package codefacts extracts structural facts from a multi-language source
// tree by running tree-sitter queries against each file, emitting a
// deterministic, content-addressed fact set plus a delta subset limited to
// files changed since a base revision.
//
// # Pipeline
//
//  1. Discover: walk the root directory, keeping files with supported
//     extensions and skipping hidden path segments and symlinks.
//  2. Extract: for each file, on a bounded worker pool, resolve the language,
//     evaluate the per-kind query table against the parsed tree, compute
//     cyclomatic complexity for symbols, and normalize captures into Facts
//     with deterministic CU- identifiers.
//  3. Partition: the full set holds every fact; the delta set holds facts
//     from files changed since the base revision (git name-only diff).
//     Both are sorted by ascending fact ID for reproducible output.
//
// # Fact kinds
//
// symbol, import, decorator, call, annotation, docstring, and test_case,
// plus a kind-less generic fallback fact emitted once per file whenever a
// language is unsupported or extraction fails. Per-file failures never abort
// a run; degradation to the fallback fact is the core robustness guarantee.
//
// # Usage
//
//	e, err := codefacts.New(nil, codefacts.WithWorkers(8))
//	if err != nil { ... }
//
//	res, err := e.Extract(ctx, ".", "HEAD~1")
//	if err != nil { ... }
//
//	err = codefacts.WriteFacts(res.Full, "out/full.json", false)
//	err = codefacts.WriteFacts(res.Delta, "out/delta.json", false)
//
// Language tables live in the internal/lang registry: extension map, grammar
// handles (memoized per language), query definitions, and the branching-node
// sets complexity is counted over. A YAML config can extend the extension map
// and branching sets; see lang.LoadConfig.
package codefacts
