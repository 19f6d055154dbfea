package lang

// branchingKinds lists, per language, the syntax-node kinds that count as a
// decision point for cyclomatic complexity. Static configuration; membership
// is the whole contract — a kind absent here contributes nothing.
var branchingKinds = map[string][]string{
	"python": {
		"if_statement",
		"for_statement",
		"while_statement",
		"try_statement",
		"with_statement",
		"match_statement",
	},
	"javascript": {
		"if_statement",
		"for_statement",
		"while_statement",
		"do_statement",
		"switch_statement",
	},
	"typescript": {
		"if_statement",
		"for_statement",
		"while_statement",
		"do_statement",
		"switch_statement",
	},
	"tsx": {
		"if_statement",
		"for_statement",
		"while_statement",
		"do_statement",
		"switch_statement",
	},
	"go": {
		"if_statement",
		"for_statement",
		"expression_switch_statement",
		"type_switch_statement",
		"select_statement",
	},
}
