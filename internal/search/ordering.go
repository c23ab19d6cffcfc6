package search

import "github.com/corvidchess/engine/internal/board"

// Move ordering priorities, loosely in the teacher's internal/engine's
// scale (TT move first, then every capture by MVV-LVA, then killers,
// then everything else by history).
const (
	ttMoveScore    = 20_000_000
	captureBase    = 10_000_000
	killerScore1   = 9_000_000
	killerScore2   = 8_900_000
	historyCeiling = 8_000_000
)

// mvvLva scores a capture by victim value first, attacker value second
// (most valuable victim, least valuable attacker), the standard
// ordering heuristic for trying good captures before bad ones.
var mvvLva = [6][6]int{}

func init() {
	for victim := 0; victim < 6; victim++ {
		for attacker := 0; attacker < 6; attacker++ {
			mvvLva[victim][attacker] = board.PieceValue[victim]*10 - board.PieceValue[attacker]
		}
	}
}

// MoveOrderer scores and orders moves for one searcher. It is
// deliberately narrower than the teacher's internal/engine.MoveOrderer:
// it keeps TT-move priority, MVV-LVA for captures, and two killer slots
// per ply, and drops counter-move history and capture history -- extra
// heuristics spec.md's search never calls for and that would need their
// own tuning to pay for their complexity.
type MoveOrderer struct {
	killers [MaxPly][2]board.Move
	history [64][64]int
}

// NewMoveOrderer returns an empty orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets killers and halves the history table, called at the
// start of each new search so stale heuristics decay rather than
// persisting forever.
func (o *MoveOrderer) Clear() {
	for ply := range o.killers {
		o.killers[ply][0] = board.NoMove
		o.killers[ply][1] = board.NoMove
	}
	for from := range o.history {
		for to := range o.history[from] {
			o.history[from][to] /= 2
		}
	}
}

// ScoreMoves assigns a sort key to each move in ml, in the same order
// as ml itself (index i of the returned slice scores ml.Get(i)).
func (o *MoveOrderer) ScoreMoves(ml *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		scores[i] = o.scoreMove(ml.Get(i), ply, ttMove)
	}
	return scores
}

func (o *MoveOrderer) scoreMove(m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return ttMoveScore
	}
	if m.IsCapture() {
		victim := m.CapturedPiece().Type()
		if m.IsEnPassant() {
			victim = board.Pawn
		}
		attacker := m.MovedPiece().Type()
		return captureBase + mvvLva[victim][attacker]
	}
	if m == o.killers[ply][0] {
		return killerScore1
	}
	if m == o.killers[ply][1] {
		return killerScore2
	}
	h := o.history[m.From()][m.To()]
	if h > historyCeiling {
		h = historyCeiling
	}
	return h
}

// UpdateKillers records m as a new killer for ply after it caused a
// beta cutoff, bumping the previous first killer down to second.
func (o *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if o.killers[ply][0] == m {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = m
}

// UpdateHistory rewards a quiet move that caused a beta cutoff, scaled
// by depth squared so deeper cutoffs count for more.
func (o *MoveOrderer) UpdateHistory(m board.Move, depth int) {
	o.history[m.From()][m.To()] += depth * depth
}

// PickMove selects the highest-scoring move among ml[i:], swaps it into
// position i in both ml and scores, and leaves the rest untouched --
// a selection sort driven one step at a time so the search can stop
// early without having sorted moves it never looked at.
func PickMove(ml *board.MoveList, scores []int, i int) {
	best := i
	for j := i + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != i {
		ml.Swap(i, best)
		scores[i], scores[best] = scores[best], scores[i]
	}
}
