package codefacts

import (
	"context"
	"path/filepath"
	"sync"
)

// fileFacts is the atomic per-file result: either the facts the queries
// produced, or the single fallback fact. Files skipped by the language filter
// produce no fileFacts at all.
type fileFacts struct {
	relPath string
	absPath string
	facts   []Fact
}

// extractAll fans the discovered files out over a bounded worker pool.
// Each worker accumulates results locally; accumulators are merged after the
// pool drains, so the only cross-worker contention is the work channel.
// Facts are never mutated after creation.
//
// Cancellation stops dispatch: workers drain quickly once the context is
// done, and the partial results are discarded by the caller returning the
// context error. Nothing has been written to disk at that point.
func (e *Engine) extractAll(ctx context.Context, absRoot string, paths []string) ([]fileFacts, map[string]*LangStat, error) {
	workers := e.workers
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}
	if workers < 1 {
		workers = 1
	}

	workCh := make(chan string)
	type workerOut struct {
		files []fileFacts
		stats map[string]*LangStat
	}
	outs := make([]workerOut, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := workerOut{stats: make(map[string]*LangStat)}
			for relPath := range workCh {
				facts, fellBack, language, skipped := e.extractFile(ctx, absRoot, relPath)
				if skipped {
					continue
				}
				local.files = append(local.files, fileFacts{
					relPath: relPath,
					absPath: filepath.Join(absRoot, filepath.FromSlash(relPath)),
					facts:   facts,
				})
				st := local.stats[language]
				if st == nil {
					st = &LangStat{}
					local.stats[language] = st
				}
				st.Files++
				st.Facts += len(facts)
				if fellBack {
					st.Fallbacks++
				}
			}
			outs[w] = local
		}(w)
	}

dispatch:
	for _, p := range paths {
		select {
		case <-ctx.Done():
			break dispatch
		case workCh <- p:
		}
	}
	close(workCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var files []fileFacts
	stats := make(map[string]*LangStat)
	for _, out := range outs {
		files = append(files, out.files...)
		for language, st := range out.stats {
			agg := stats[language]
			if agg == nil {
				agg = &LangStat{}
				stats[language] = agg
			}
			agg.Files += st.Files
			agg.Facts += st.Facts
			agg.Fallbacks += st.Fallbacks
		}
	}
	return files, stats, nil
}
