// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"runtime"
	"sync"

	"github.com/pdiddy/citetrack/pkg/types"
)

// MatchBatch classifies every candidate in the batch and returns one
// MatchResult per candidate, in input order. Candidates are independent,
// so the batch fans out across workers that only read the shared index
// and each write a distinct slot of the result slice; batch order cannot
// affect any individual result.
func (m *Matcher) MatchBatch(candidates []types.CandidateRecord) []types.MatchResult {
	results := make([]types.MatchResult, len(candidates))
	if len(candidates) == 0 {
		return results
	}

	workers := m.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	if workers == 1 {
		for i, c := range candidates {
			results[i] = m.Match(i, c)
		}
		return results
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = m.Match(i, candidates[i])
			}
		}()
	}

	for i := range candidates {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return results
}
