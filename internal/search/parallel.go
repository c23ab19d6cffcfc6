package search

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corvidchess/engine/internal/board"
)

// ParallelSearcher is the spec.md S4.5 coordinator: a pool of Searchers
// sharing one TranspositionTable, searching the same position
// concurrently (Lazy-SMP style -- no work division, just independent
// searches racing through a shared cache) and reconciling their root
// results into one move.
type ParallelSearcher struct {
	tt        *TranspositionTable
	searchers []*Searcher

	// searchID is bumped at the start of every timed search. A deadline
	// timer captures the id it was armed with and only calls Stop if
	// the id is still current, so a stale timer from an already-finished
	// search can never cut off a fresh one.
	searchID uint64
}

// NewParallelSearcher allocates a ttSizeMB-sized shared transposition
// table and a single-thread pool; call SetThreads to grow it.
func NewParallelSearcher(ttSizeMB int) *ParallelSearcher {
	ps := &ParallelSearcher{tt: NewTranspositionTable(ttSizeMB)}
	ps.SetThreads(1)
	return ps
}

// SetThreads resizes the searcher pool to n, clamped to [1, GOMAXPROCS].
func (ps *ParallelSearcher) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	if max := runtime.GOMAXPROCS(0); n > max {
		n = max
	}
	ps.searchers = make([]*Searcher, n)
	for i := range ps.searchers {
		ps.searchers[i] = NewSearcher(i, ps.tt)
	}
}

// Threads returns the current pool size.
func (ps *ParallelSearcher) Threads() int {
	return len(ps.searchers)
}

// Stop requests cooperative cancellation of every searcher in the pool.
// It is idempotent and safe to call from any goroutine, including a
// deadline timer's callback.
func (ps *ParallelSearcher) Stop() {
	for _, s := range ps.searchers {
		s.Stop()
	}
}

// TT returns the shared transposition table, for callers that want to
// report hash-full or hit-rate statistics.
func (ps *ParallelSearcher) TT() *TranspositionTable {
	return ps.tt
}

func (ps *ParallelSearcher) runAll(b *board.BoardState, history []uint64, run func(*Searcher) Result) []Result {
	n := len(ps.searchers)
	results := make([]Result, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i, s := range ps.searchers {
		i, s := i, s
		go func() {
			defer wg.Done()
			// Each thread passes a distinct seed; Searcher.Init does not
			// use it, so every thread orders moves the same way.
			seed := int64(uint64(i)*0x9E3779B97F4A7C15 + 1)
			s.Init(seed, b, history)
			results[i] = run(s)
		}()
	}
	wg.Wait()
	return results
}

// TimeBoundSearch runs every searcher in the pool against b until
// deadline, per spec.md S4.5.1, then reconciles their root results.
func (ps *ParallelSearcher) TimeBoundSearch(b *board.BoardState, history []uint64, deadline time.Time, maxDepth int) Result {
	id := atomic.AddUint64(&ps.searchID, 1)
	timer := time.AfterFunc(time.Until(deadline), func() {
		if atomic.LoadUint64(&ps.searchID) == id {
			ps.Stop()
		}
	})
	defer timer.Stop()

	ps.tt.NewSearch()
	results := ps.runAll(b, history, func(s *Searcher) Result {
		return s.Search(0, maxDepth)
	})
	return reconcile(results)
}

// DepthBoundSearch runs every searcher to a fixed depth and reconciles
// their results, per spec.md S4.5.3.
func (ps *ParallelSearcher) DepthBoundSearch(b *board.BoardState, history []uint64, depth int) Result {
	atomic.AddUint64(&ps.searchID, 1)
	ps.tt.NewSearch()
	results := ps.runAll(b, history, func(s *Searcher) Result {
		return s.DepthBoundSearch(depth)
	})
	return reconcile(results)
}

// NodeBoundSearch runs every searcher until nodeLimit nodes have been
// visited (each searcher polling its own node counter) and reconciles
// their results, per spec.md S4.5.3. With a single-thread pool this
// short-circuits to that one searcher's result directly, since
// reconciliation across one vote is a no-op.
func (ps *ParallelSearcher) NodeBoundSearch(b *board.BoardState, history []uint64, nodeLimit uint64, maxDepth int) Result {
	atomic.AddUint64(&ps.searchID, 1)
	if len(ps.searchers) == 1 {
		s := ps.searchers[0]
		s.Init(1, b, history)
		return s.Search(nodeLimit, maxDepth)
	}
	ps.tt.NewSearch()
	results := ps.runAll(b, history, func(s *Searcher) Result {
		return s.Search(nodeLimit, maxDepth)
	})
	return reconcile(results)
}

func moveFromToIndex(m board.Move) int {
	return int(m.From())*64 + int(m.To())
}

// reconcile implements spec.md S4.5.2's vote map: every thread's score
// is rebased against the worst score any thread reported for its own
// root move, weighted by the depth that thread reached, and summed per
// distinct from/to move. The move with the largest accumulated vote
// wins; ties go to whichever move was encountered first. Nodes are
// summed across every thread regardless of which move it preferred.
func reconcile(results []Result) Result {
	if len(results) == 0 {
		return Result{}
	}
	if len(results) == 1 {
		return results[0]
	}

	worst := results[0].Score
	for _, r := range results[1:] {
		if r.Score < worst {
			worst = r.Score
		}
	}

	voteMap := make(map[int]int, len(results))
	moveByIdx := make(map[int]board.Move, len(results))
	order := make([]int, 0, len(results))
	var totalNodes uint64

	for _, r := range results {
		totalNodes += r.Nodes
		if r.Move == board.NoMove {
			continue
		}
		idx := moveFromToIndex(r.Move)
		if _, seen := voteMap[idx]; !seen {
			order = append(order, idx)
			moveByIdx[idx] = r.Move
		}
		voteMap[idx] += (r.Score - worst) * r.Depth
	}

	bestIdx := -1
	for _, idx := range order {
		if bestIdx == -1 || voteMap[idx] > voteMap[bestIdx] {
			bestIdx = idx
		}
	}

	out := Result{Nodes: totalNodes}
	if bestIdx == -1 {
		return out
	}
	out.Move = moveByIdx[bestIdx]

	// Report the score/depth from whichever thread that reached the
	// winning move at the greatest depth, breaking ties by score.
	for _, r := range results {
		if r.Move != out.Move {
			continue
		}
		if r.Depth > out.Depth || (r.Depth == out.Depth && r.Score > out.Score) {
			out.Depth = r.Depth
			out.Score = r.Score
		}
	}
	return out
}
