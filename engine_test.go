package codefacts

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlf119/codefacts/internal/lang"
)

// writeTree materializes a map of relative path → content under a temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	return root
}

func newTestEngine(t *testing.T, regOpts []lang.Option, opts ...Option) *Engine {
	t.Helper()
	e, err := New(regOpts, opts...)
	require.NoError(t, err)
	return e
}

func TestNew_Defaults(t *testing.T) {
	e := newTestEngine(t, nil)
	assert.Equal(t, DefaultWorkers, e.workers)
	assert.Nil(t, e.languages)
	assert.NotNil(t, e.Registry())
}

func TestWithWorkers_RejectsNonPositive(t *testing.T) {
	e := newTestEngine(t, nil, WithWorkers(0))
	assert.Equal(t, DefaultWorkers, e.workers)

	e = newTestEngine(t, nil, WithWorkers(2))
	assert.Equal(t, 2, e.workers)
}

func TestDiscover_Filters(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pkg/mod.py":          "def f(): pass\n",
		"main.go":             "package main\n",
		"README.md":           "docs\n",
		".hidden/secret.py":   "def g(): pass\n",
		"pkg/.hidden.py":      "def h(): pass\n",
		"node/deep/tool.ts":   "function f() {}\n",
		"pkg/sub/__init__.py": "",
		"binary.bin":          "\x00\x01",
	})
	// A symlinked source file must be excluded from discovery. Best effort:
	// platforms without symlink support simply have nothing extra to skip.
	_ = os.Symlink(filepath.Join(root, "main.go"), filepath.Join(root, "link.go"))

	e := newTestEngine(t, nil)
	paths, err := e.discover(root)
	require.NoError(t, err)
	sort.Strings(paths)

	assert.Equal(t, []string{
		"main.go",
		"node/deep/tool.ts",
		"pkg/mod.py",
		"pkg/sub/__init__.py",
	}, paths)
}

func TestExtract_FullSetSortedByID(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def f(): pass\ndef g(): pass\n",
		"b.go": "package b\n\nfunc B() {}\n",
		"c.js": "function c() {}\n",
	})

	e := newTestEngine(t, nil)
	res, err := e.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)
	require.NotEmpty(t, res.Full)

	for i := 1; i < len(res.Full); i++ {
		assert.LessOrEqual(t, res.Full[i-1].ID, res.Full[i].ID, "full set must be non-decreasing by id")
	}
}

func TestExtract_Deterministic(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pkg/mod.py":      "import os\n\ndef test_foo(): pass\n",
		"pkg/__init__.py": "",
		"cmd/main.go":     "package main\n\nfunc main() { run() }\n",
	})

	e := newTestEngine(t, nil)
	first, err := e.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)

	assert.Equal(t, first.Full, second.Full)
	assert.Equal(t, first.Delta, second.Delta)
}

func TestExtract_DeterministicAcrossWorkerWidths(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def a(): pass\n",
		"b.py": "def b(): pass\n",
		"c.py": "def c(): pass\n",
		"d.go": "package d\n\nfunc D() {}\n",
	})

	wide := newTestEngine(t, nil, WithWorkers(8))
	narrow := newTestEngine(t, nil, WithWorkers(1))

	wideRes, err := wide.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)
	narrowRes, err := narrow.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)

	assert.Equal(t, wideRes.Full, narrowRes.Full)
}

func TestExtract_DeltaEmptyOutsideGitRepo(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def a(): pass\n",
	})

	e := newTestEngine(t, nil)
	res, err := e.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)

	assert.NotEmpty(t, res.Full)
	assert.Empty(t, res.Delta)
}

func TestExtract_LanguageFilterSkipsFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def a(): pass\n",
		"b.go": "package b\n\nfunc B() {}\n",
	})

	e := newTestEngine(t, nil, WithLanguages("go"))
	res, err := e.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)

	for _, f := range res.Full {
		assert.Equal(t, "go", f.Lang)
	}
	_, hasPython := res.Stats["python"]
	assert.False(t, hasPython, "filtered languages produce no facts and no stats")
}

func TestExtract_UnsupportedLanguageFallsBack(t *testing.T) {
	root := writeTree(t, map[string]string{
		"model.xyz": "whatever\ncontent\n",
		"a.py":      "def a(): pass\n",
	})

	regOpts := []lang.Option{lang.WithExtensions(map[string]string{".xyz": "kotlin"})}
	e := newTestEngine(t, regOpts)
	res, err := e.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)

	var fallbacks []Fact
	for _, f := range res.Full {
		if f.Kind == "" {
			fallbacks = append(fallbacks, f)
		}
	}
	require.Len(t, fallbacks, 1, "exactly one generic fact per degraded file")
	fb := fallbacks[0]
	assert.Equal(t, "model.xyz", fb.File)
	assert.Equal(t, "model", fb.Symbol)
	assert.Equal(t, 1, fb.LineStart)
	assert.Equal(t, 2, fb.LineEnd)

	require.NotNil(t, res.Stats["kotlin"])
	assert.Equal(t, 1, res.Stats["kotlin"].Fallbacks)
}

func TestExtract_CorruptedContentStillYieldsFacts(t *testing.T) {
	// Tree-sitter recovers from malformed input with error nodes, so even
	// garbage with a recognized extension must not abort the run.
	root := writeTree(t, map[string]string{
		"broken.py": ")(*&^%$ def\x00:::\n",
		"ok.py":     "def ok(): pass\n",
	})

	e := newTestEngine(t, nil)
	res, err := e.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)

	var okSeen bool
	for _, f := range res.Full {
		if f.Symbol == "ok.ok" {
			okSeen = true
		}
	}
	assert.True(t, okSeen)
	require.NotNil(t, res.Stats["python"])
	assert.Equal(t, 2, res.Stats["python"].Files)
}

func TestExtract_CancelledContext(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def a(): pass\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, nil)
	_, err := e.Extract(ctx, root, "HEAD~1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestExtract_Stats(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def a(): pass\n",
		"b.py": "def b(): pass\n",
		"c.go": "package c\n\nfunc C() {}\n",
	})

	e := newTestEngine(t, nil)
	res, err := e.Extract(context.Background(), root, "HEAD~1")
	require.NoError(t, err)

	require.NotNil(t, res.Stats["python"])
	assert.Equal(t, 2, res.Stats["python"].Files)
	require.NotNil(t, res.Stats["go"])
	assert.Equal(t, 1, res.Stats["go"].Files)

	total := 0
	for _, st := range res.Stats {
		total += st.Facts
	}
	assert.Equal(t, len(res.Full), total)
}
