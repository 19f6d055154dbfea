package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	r, err := NewRegistry(opts...)
	require.NoError(t, err)
	return r
}

func TestNewRegistry_ValidatesBuiltinQueries(t *testing.T) {
	// Every built-in pattern must compile against its grammar; a failure
	// here means a query table references a node kind the grammar lacks.
	_, err := NewRegistry()
	require.NoError(t, err)
}

func TestLanguageForFile(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		path string
		lang string
		ok   bool
	}{
		{"pkg/mod.py", "python", true},
		{"src/app.js", "javascript", true},
		{"src/app.jsx", "javascript", true},
		{"src/app.ts", "typescript", true},
		{"src/app.tsx", "tsx", true},
		{"main.go", "go", true},
		{"UPPER.GO", "go", true},
		{"readme.md", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		lang, ok := r.LanguageForFile(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.lang, lang, tt.path)
	}
}

func TestResolve_MemoizesHandles(t *testing.T) {
	r := newTestRegistry(t)

	h1, ok := r.Resolve("python")
	require.True(t, ok)
	require.NotNil(t, h1)

	h2, ok := r.Resolve("python")
	require.True(t, ok)
	assert.Same(t, h1, h2, "repeated resolution must reuse the handle")
}

func TestResolve_UnknownLanguageIsUnsupported(t *testing.T) {
	r := newTestRegistry(t)

	h, ok := r.Resolve("kotlin")
	assert.False(t, ok)
	assert.Nil(t, h)

	// Negative results are memoized too.
	h, ok = r.Resolve("kotlin")
	assert.False(t, ok)
	assert.Nil(t, h)
}

func TestResolve_HandleCarriesQueriesAndBranching(t *testing.T) {
	r := newTestRegistry(t)

	h, ok := r.Resolve("go")
	require.True(t, ok)
	assert.Equal(t, "go", h.Name)
	assert.NotNil(t, h.Grammar)
	assert.Contains(t, h.Queries, KindSymbol)
	assert.Contains(t, h.Queries, KindTestCase)
	assert.True(t, h.Branching["if_statement"])
	assert.True(t, h.Branching["select_statement"])
}

func TestWithExtensions_OverridesAndExtends(t *testing.T) {
	r := newTestRegistry(t, WithExtensions(map[string]string{
		".mjs": "javascript",
		".xyz": "kotlin",
	}))

	lang, ok := r.LanguageForFile("mod.mjs")
	require.True(t, ok)
	assert.Equal(t, "javascript", lang)

	// Recognized extension mapped to a language with no grammar: the
	// extension resolves, the language does not.
	lang, ok = r.LanguageForFile("mod.xyz")
	require.True(t, ok)
	assert.Equal(t, "kotlin", lang)
	h, ok := r.Resolve("kotlin")
	assert.False(t, ok)
	assert.Nil(t, h)
}

func TestWithBranching_WidensSet(t *testing.T) {
	r := newTestRegistry(t, WithBranching("go", "go_statement"))

	h, ok := r.Resolve("go")
	require.True(t, ok)
	assert.True(t, h.Branching["go_statement"])
	assert.True(t, h.Branching["if_statement"], "built-in kinds remain")
}
