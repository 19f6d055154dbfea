package lang

// Fact kinds produced by the query tables. The empty kind is reserved for the
// generic per-file fallback fact.
const (
	KindSymbol     = "symbol"
	KindImport     = "import"
	KindDecorator  = "decorator"
	KindCall       = "call"
	KindAnnotation = "annotation"
	KindDocstring  = "docstring"
	KindTestCase   = "test_case"
)

// Kinds lists all fact kinds in a stable order.
var Kinds = []string{
	KindSymbol,
	KindImport,
	KindDecorator,
	KindCall,
	KindAnnotation,
	KindDocstring,
	KindTestCase,
}

// factQueries maps language → fact kind → tree-sitter query pattern. Each
// pattern designates exactly one capture, whose text becomes the fact's
// primary span. Test-naming conventions are expressed as #match? predicates
// over the captured identifier, not hard-coded at call sites.
var factQueries = map[string]map[string]string{
	"python": {
		KindSymbol: `
			(function_definition name: (identifier) @sym.name)
			(class_definition name: (identifier) @sym.name)
		`,
		KindImport: `
			(import_statement name: (dotted_name) @import.module)
			(import_from_statement module_name: (dotted_name) @import.module)
		`,
		KindDecorator: `
			(decorator (identifier) @decorator.name)
		`,
		KindCall: `
			(call function: (identifier) @call.name)
		`,
		KindAnnotation: `
			(type (identifier) @type.name)
		`,
		KindDocstring: `
			(expression_statement (string) @doc.string)
		`,
		KindTestCase: `
			(function_definition name: (identifier) @test.name (#match? @test.name "^test_"))
		`,
	},
	"javascript": {
		KindSymbol: `
			(function_declaration name: (identifier) @sym.name)
			(class_declaration name: (identifier) @sym.name)
		`,
		KindImport: `
			(import_statement source: (string) @import.module)
		`,
		KindDecorator: `
			(decorator (identifier) @decorator.name)
		`,
		KindCall: `
			(call_expression function: (identifier) @call.name)
		`,
		KindDocstring: `
			(comment) @doc.string
		`,
		KindTestCase: `
			(call_expression function: (identifier) @test.name (#match? @test.name "^(it|test)$"))
		`,
	},
	"typescript": {
		KindSymbol: `
			(function_declaration name: (identifier) @sym.name)
			(class_declaration name: (type_identifier) @sym.name)
		`,
		KindImport: `
			(import_statement source: (string) @import.module)
		`,
		KindDecorator: `
			(decorator (identifier) @decorator.name)
		`,
		KindCall: `
			(call_expression function: (identifier) @call.name)
		`,
		KindAnnotation: `
			(type_annotation (predefined_type) @type.name)
		`,
		KindDocstring: `
			(comment) @doc.string
		`,
		KindTestCase: `
			(call_expression function: (identifier) @test.name (#match? @test.name "^(it|test)$"))
		`,
	},
	"tsx": {
		KindSymbol: `
			(function_declaration name: (identifier) @sym.name)
			(class_declaration name: (type_identifier) @sym.name)
		`,
		KindImport: `
			(import_statement source: (string) @import.module)
		`,
		KindDecorator: `
			(decorator (identifier) @decorator.name)
		`,
		KindCall: `
			(call_expression function: (identifier) @call.name)
		`,
		KindAnnotation: `
			(type_annotation (predefined_type) @type.name)
		`,
		KindDocstring: `
			(comment) @doc.string
		`,
		KindTestCase: `
			(call_expression function: (identifier) @test.name (#match? @test.name "^(it|test)$"))
		`,
	},
	"go": {
		KindSymbol: `
			(function_declaration name: (identifier) @sym.name)
			(method_declaration name: (field_identifier) @sym.name)
			(type_spec name: (type_identifier) @sym.name)
		`,
		KindImport: `
			(import_spec path: (interpreted_string_literal) @import.module)
		`,
		KindCall: `
			(call_expression function: (identifier) @call.name)
		`,
		KindAnnotation: `
			(type_spec name: (type_identifier) @type.name)
		`,
		KindDocstring: `
			(comment) @doc.string
		`,
		KindTestCase: `
			(function_declaration name: (identifier) @test.name (#match? @test.name "^Test"))
		`,
	},
}
