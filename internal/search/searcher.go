package search

import (
	"sync/atomic"

	"github.com/corvidchess/engine/internal/board"
	"github.com/corvidchess/engine/internal/movegen"
	"github.com/corvidchess/engine/internal/nnue"
)

// Result is what one search call returns: spec.md's Searcher contract
// (init/search/depthBoundSearch/stop) treats this as the only channel
// between a Searcher and its caller.
type Result struct {
	Move  board.Move
	Depth int
	Score int
	Nodes uint64
}

// pvTable mirrors the teacher's triangular PV array: pvTable.moves[ply]
// holds the principal variation from ply to the end of the search,
// length pvTable.length[ply] long.
type pvTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

func (pv *pvTable) bestMove() board.Move {
	if pv.length[0] == 0 {
		return board.NoMove
	}
	return pv.moves[0][0]
}

func (pv *pvTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for j := ply + 1; j < pv.length[ply+1]; j++ {
		pv.moves[ply][j] = pv.moves[ply+1][j]
	}
	pv.length[ply] = pv.length[ply+1]
}

// Searcher is a single alpha-beta search thread. It owns one position,
// one NNUE evaluator, and one move orderer, and shares one
// TranspositionTable with every other Searcher in its ParallelSearcher's
// pool. It implements exactly the four operations spec.md S6 gives the
// parallel layer to treat it as an opaque worker:
// init, search, depthBoundSearch, stop.
type Searcher struct {
	id int

	b    *board.BoardState
	eval *nnue.Evaluator
	tt   *TranspositionTable
	ord  *MoveOrderer

	history []uint64 // position hashes seen on the path to the current node, for repetition detection

	nodes uint64
	stop  atomic.Bool
	pv    pvTable
}

// NewSearcher returns a Searcher sharing tt with its siblings.
func NewSearcher(id int, tt *TranspositionTable) *Searcher {
	return &Searcher{
		id:  id,
		tt:  tt,
		ord: NewMoveOrderer(),
	}
}

// Init (spec.md S6's init(seed, board)) clones board so the Searcher
// owns an independent copy, rebuilds the NNUE accumulator for it from
// scratch, and primes the repetition history with priorHashes (the
// game's move history up to and including board itself).
func (s *Searcher) Init(seed int64, b *board.BoardState, priorHashes []uint64) {
	s.b = b.Clone()
	if s.eval == nil {
		s.eval, _ = nnue.NewEvaluator("")
	}
	s.eval.Reset(s.b)
	s.ord.Clear()
	s.nodes = 0
	s.stop.Store(false)
	s.history = append(s.history[:0], priorHashes...)
}

// Stop requests cooperative cancellation. It is safe to call from any
// goroutine; the search only ever polls it, it is never forced.
func (s *Searcher) Stop() {
	s.stop.Store(true)
}

// Nodes returns the number of nodes visited by the most recent search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// DepthBoundSearch runs a fixed-depth alpha-beta search from the
// current position and returns its result. Depth 0 falls straight into
// quiescence.
func (s *Searcher) DepthBoundSearch(depth int) Result {
	score := s.negamax(depth, 0, -Infinity, Infinity)
	return Result{Move: s.pv.bestMove(), Depth: depth, Score: score, Nodes: s.nodes}
}

// Search (spec.md S6's search(nodeLimit?, maxDepth?)) runs iterative
// deepening from depth 1 up to maxDepth, stopping early if nodeLimit is
// reached or Stop is called. maxDepth <= 0 means "no depth limit", in
// which case it searches until MaxPly-1. nodeLimit <= 0 means
// "no node limit".
func (s *Searcher) Search(nodeLimit uint64, maxDepth int) Result {
	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = MaxPly - 1
	}

	var best Result
	for depth := 1; depth <= maxDepth; depth++ {
		if s.stop.Load() {
			break
		}
		r := s.DepthBoundSearch(depth)
		if s.stop.Load() && depth > 1 {
			// The last iteration was cut off mid-search; its root move
			// may never have been assigned, so the prior depth's result
			// is the last trustworthy one.
			break
		}
		if r.Move != board.NoMove {
			best = r
		}
		if nodeLimit > 0 && s.nodes >= nodeLimit {
			break
		}
		if abs(r.Score) >= MateScore-MaxPly {
			break
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// applyMove runs the two-phase apply with NNUE accumulator maintenance
// and pushes s.b's new hash onto the repetition history. It returns
// whether the move was legal; on an illegal move the caller must still
// call unapplyMove to restore state.
func (s *Searcher) applyMove(m board.Move) (legal bool, undo board.BoardState) {
	undo = *s.b
	us := board.White
	if !s.b.WhiteToMove {
		us = board.Black
	}
	pre := board.Snapshot(s.b)
	s.eval.Push()
	if us == board.White {
		legal = board.PartialApplyWhite(s.b, m)
		board.FinishApplyWhite(s.b, s.eval, m, pre)
	} else {
		legal = board.PartialApplyBlack(s.b, m)
		board.FinishApplyBlack(s.b, s.eval, m, pre)
	}
	if legal {
		s.history = append(s.history, s.b.Hash)
	}
	return legal, undo
}

func (s *Searcher) unapplyMove(undo board.BoardState, wasLegal bool) {
	*s.b = undo
	s.eval.Pop()
	if wasLegal {
		s.history = s.history[:len(s.history)-1]
	}
}

// isDraw reports a forced draw by the fifty-move rule, insufficient
// material, or a repetition within the searched line, per spec.md S6.
func (s *Searcher) isDraw() bool {
	if s.b.HalfMoveClock >= 100 {
		return true
	}
	if s.b.InsufficientMaterial() {
		return true
	}
	reps := 0
	for i := len(s.history) - 2; i >= 0 && i >= len(s.history)-s.b.HalfMoveClock-1; i -= 2 {
		if s.history[i] == s.b.Hash {
			reps++
			if reps >= 1 {
				return true
			}
		}
	}
	return false
}

func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	s.pv.length[ply] = ply

	if s.nodes&4095 == 0 && s.stop.Load() {
		return 0
	}
	s.nodes++

	if ply > 0 && s.isDraw() {
		return 0
	}
	if ply >= MaxPly-1 {
		return s.eval.Evaluate(s.b)
	}

	var ttMove board.Move
	origAlpha := alpha
	if entry, found := s.tt.Probe(s.b.Hash); found {
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth {
			score := AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.b.InCheck
	moves := movegen.Generate(s.b, false)
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.ord.ScoreMoves(moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		legal, undo := s.applyMove(m)
		if !legal {
			s.unapplyMove(undo, legal)
			continue
		}

		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.unapplyMove(undo, legal)

		if s.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				flag = TTExact
				s.pv.update(ply, m)
			}
		}

		if alpha >= beta {
			if !m.IsCapture() {
				s.ord.UpdateKillers(m, ply)
				s.ord.UpdateHistory(m, depth)
			}
			break
		}
	}

	if bestScore <= origAlpha {
		flag = TTUpperBound
	} else if bestScore >= beta {
		flag = TTLowerBound
	}
	s.tt.Store(s.b.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	return bestScore
}

func (s *Searcher) quiescence(ply, alpha, beta int) int {
	if s.nodes&4095 == 0 && s.stop.Load() {
		return 0
	}
	s.nodes++

	standPat := s.eval.Evaluate(s.b)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if ply >= MaxPly-1 {
		return standPat
	}

	queenValue := board.PieceValue[board.Queen]
	if standPat+queenValue < alpha {
		return alpha
	}

	moves := movegen.Generate(s.b, true)
	scores := s.ord.ScoreMoves(moves, ply, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		if !s.b.InCheck {
			captureValue := m.CapturedPiece().Value()
			if m.IsEnPassant() {
				captureValue = board.PieceValue[board.Pawn]
			}
			if m.IsPromotion() {
				captureValue += board.PieceValue[board.Queen] - board.PieceValue[board.Pawn]
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
		}

		legal, undo := s.applyMove(m)
		if !legal {
			s.unapplyMove(undo, legal)
			continue
		}

		score := -s.quiescence(ply+1, -beta, -alpha)
		s.unapplyMove(undo, legal)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
