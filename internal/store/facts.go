package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jlf119/codefacts"
)

// ReplaceFileFacts replaces all persisted facts for one file in a single
// transaction: delete the old file row (cascading to its facts), insert the
// new row, insert the facts. The per-file unit stays atomic in the store just
// as it is in extraction.
func (s *Store) ReplaceFileFacts(path, language string, facts []codefacts.Fact) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete file %s: %w", path, err)
	}

	res, err := tx.Exec(
		`INSERT INTO files (path, language, fact_count, last_indexed) VALUES (?, ?, ?, ?)`,
		path, language, len(facts), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert file %s: %w", path, err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("file id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO facts (
			file_id, fact_id, kind, lang, file, line_start, line_end,
			symbol, signature, complexity, module, imports, decorator,
			callee, caller_module, annotation, doc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range facts {
		var complexity any
		if f.Complexity > 0 {
			complexity = f.Complexity
		}
		if _, err := stmt.Exec(
			fileID, f.ID, f.Kind, f.Lang, f.File, f.LineStart, f.LineEnd,
			f.Symbol, f.Signature, complexity, f.Module, f.Imports, f.Decorator,
			f.Callee, f.CallerModule, f.Annotation, f.Doc,
		); err != nil {
			return fmt.Errorf("insert fact %s: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// Filter narrows a fact query. Zero-value fields match everything.
type Filter struct {
	Kind       string
	Lang       string
	FilePrefix string
}

// Facts returns persisted facts matching the filter, ordered by fact ID.
func (s *Store) Facts(filter Filter) ([]codefacts.Fact, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Lang != "" {
		conds = append(conds, "lang = ?")
		args = append(args, filter.Lang)
	}
	if filter.FilePrefix != "" {
		conds = append(conds, "file LIKE ?")
		args = append(args, filter.FilePrefix+"%")
	}

	query := `
		SELECT fact_id, kind, lang, file, line_start, line_end,
		       symbol, signature, complexity, module, imports, decorator,
		       callee, caller_module, annotation, doc
		FROM facts`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY fact_id, file, line_start"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var facts []codefacts.Fact
	for rows.Next() {
		var (
			f          codefacts.Fact
			lang       sql.NullString
			symbol     sql.NullString
			signature  sql.NullString
			complexity sql.NullInt64
			module     sql.NullString
			imports    sql.NullString
			decorator  sql.NullString
			callee     sql.NullString
			callerMod  sql.NullString
			annotation sql.NullString
			doc        sql.NullString
		)
		if err := rows.Scan(
			&f.ID, &f.Kind, &lang, &f.File, &f.LineStart, &f.LineEnd,
			&symbol, &signature, &complexity, &module, &imports, &decorator,
			&callee, &callerMod, &annotation, &doc,
		); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		f.Lang = lang.String
		f.Symbol = symbol.String
		f.Signature = signature.String
		f.Complexity = int(complexity.Int64)
		f.Module = module.String
		f.Imports = imports.String
		f.Decorator = decorator.String
		f.Callee = callee.String
		f.CallerModule = callerMod.String
		f.Annotation = annotation.String
		f.Doc = doc.String
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// KindCount is one row of the per-kind summary.
type KindCount struct {
	Kind  string
	Count int
}

// CountsByKind returns fact counts grouped by kind, ordered by kind.
func (s *Store) CountsByKind() ([]KindCount, error) {
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM facts GROUP BY kind ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count by kind: %w", err)
	}
	defer rows.Close()

	var counts []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts = append(counts, kc)
	}
	return counts, rows.Err()
}

// FileCount returns the number of indexed files.
func (s *Store) FileCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return n, nil
}
