package codefacts

// Fact is the unit of output: one structural element found by syntax
// analysis, or the generic per-file fallback when analysis was impossible.
//
// Field order is alphabetical by JSON key. encoding/json emits keys in struct
// order, so this ordering is what makes serialized facts byte-stable — do not
// reorder fields.
type Fact struct {
	Annotation   string `json:"annotation,omitempty"`
	Callee       string `json:"callee,omitempty"`
	CallerModule string `json:"caller_module,omitempty"`
	Complexity   int    `json:"complexity,omitempty"`
	Decorator    string `json:"decorator,omitempty"`
	Doc          string `json:"doc,omitempty"`
	File         string `json:"file"`
	ID           string `json:"id"`
	Imports      string `json:"imports,omitempty"`
	Kind         string `json:"kind,omitempty"`
	Lang         string `json:"lang,omitempty"`
	LineEnd      int    `json:"line_end"`
	LineStart    int    `json:"line_start"`
	Module       string `json:"module,omitempty"`
	Signature    string `json:"signature,omitempty"`
	Symbol       string `json:"symbol,omitempty"`
}

// LangStat accumulates per-language counters for the run summary.
type LangStat struct {
	Files     int
	Facts     int
	Fallbacks int
}

// Result is the outcome of one extraction run. Full holds every fact; Delta
// holds the facts whose originating file is in the changeset. Delta is a
// subset of Full by construction. Both are sorted by ascending fact ID.
type Result struct {
	Full  []Fact
	Delta []Fact
	Stats map[string]*LangStat
}
