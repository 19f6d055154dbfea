package lang

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"
)

// parseTest parses src for a language and returns the tree root.
func parseTest(t *testing.T, r *Registry, language, src string) *sitter.Node {
	t.Helper()
	h, ok := r.Resolve(language)
	require.True(t, ok)

	parser := sitter.NewParser()
	t.Cleanup(parser.Close)
	parser.SetLanguage(h.Grammar)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree.RootNode()
}

func TestCyclomatic_FloorIsOne(t *testing.T) {
	r := newTestRegistry(t)
	root := parseTest(t, r, "python", "def f():\n    pass\n")

	h, _ := r.Resolve("python")
	require.GreaterOrEqual(t, Cyclomatic(root, h.Branching), 1)
	require.Equal(t, 1, Cyclomatic(nil, h.Branching))
}

func TestCyclomatic_CountsBranchingNodes(t *testing.T) {
	r := newTestRegistry(t)
	src := `def f(x):
    if x:
        for i in range(x):
            pass
    while x:
        pass
`
	root := parseTest(t, r, "python", src)
	h, _ := r.Resolve("python")

	// 1 base + if + for + while.
	require.Equal(t, 4, Cyclomatic(root, h.Branching))
}

func TestCyclomatic_DescendsIntoNestedFunctions(t *testing.T) {
	r := newTestRegistry(t)
	src := `def outer(x):
    def inner(y):
        if y:
            pass
    if x:
        pass
`
	root := parseTest(t, r, "python", src)
	h, _ := r.Resolve("python")

	// The nested function's branch counts toward the enclosing score:
	// 1 base + inner if + outer if. Descent across symbol boundaries is
	// part of the complexity contract.
	require.Equal(t, 3, Cyclomatic(root, h.Branching))
}

func TestCyclomatic_GoSwitchKinds(t *testing.T) {
	r := newTestRegistry(t)
	src := `package p

func f(v any) int {
	switch x := v.(type) {
	case int:
		_ = x
	}
	switch {
	case true:
	}
	select {}
	return 0
}
`
	root := parseTest(t, r, "go", src)
	h, _ := r.Resolve("go")

	// 1 base + type switch + expression switch + select.
	require.Equal(t, 4, Cyclomatic(root, h.Branching))
}
