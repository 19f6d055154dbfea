package lang

import sitter "github.com/smacker/go-tree-sitter"

// Cyclomatic computes McCabe-style complexity for the subtree rooted at node:
// 1 for the base path, plus 1 for every descendant whose kind is in the
// branching set. The walk is purely syntactic and deliberately does not stop
// at nested function or class boundaries — a nested function's branches count
// toward the enclosing symbol's score. Changing that would silently change
// every emitted complexity value, so it stays.
func Cyclomatic(node *sitter.Node, branching map[string]bool) int {
	score := 1
	if node == nil {
		return score
	}
	stack := []*sitter.Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if branching[n.Type()] {
			score++
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			stack = append(stack, n.Child(i))
		}
	}
	return score
}
