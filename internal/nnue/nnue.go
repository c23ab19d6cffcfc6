package nnue

import "github.com/corvidchess/engine/internal/board"

// MaxPly bounds the accumulator stack. It is larger than the search
// package's ply limit (128), so a search never fills it.
const MaxPly = 256

// Evaluator is the NNUE static evaluator: per spec.md §3.3, each
// BoardState exclusively owns one Evaluator. It implements
// board.AccumulatorUpdater, so board.FinishApply{White,Black} can push
// incremental feature deltas straight into the current accumulator.
type Evaluator struct {
	net   *Network
	stack [MaxPly]Accumulator
	top   int
}

// NewEvaluator loads weights from weightsFile, or -- if weightsFile is
// empty -- initializes a deterministic random network for testing.
func NewEvaluator(weightsFile string) (*Evaluator, error) {
	net := NewNetwork()
	if weightsFile != "" {
		if err := net.LoadWeights(weightsFile); err != nil {
			return nil, err
		}
	} else {
		net.InitRandom(12345)
	}
	return &Evaluator{net: net}, nil
}

func (e *Evaluator) current() *Accumulator {
	return &e.stack[e.top]
}

// Push saves the current accumulator state for the next ply; call
// before applying a move.
func (e *Evaluator) Push() {
	if e.top+1 < MaxPly {
		e.stack[e.top+1] = e.stack[e.top]
		e.top++
	}
}

// Pop restores the previous ply's accumulator state; call after
// unapplying a move.
func (e *Evaluator) Pop() {
	if e.top > 0 {
		e.top--
	}
}

// Reset rebuilds the accumulator stack from scratch for a new board,
// used at the start of a game or after loading a FEN.
func (e *Evaluator) Reset(b *board.BoardState) {
	e.top = 0
	acc := e.current()
	*acc = Accumulator{
		WhiteMirrored: b.WhiteKingSquare.IsMirroredFile(),
		BlackMirrored: b.BlackKingSquare.IsMirroredFile(),
	}
	acc.FillFromBoard(e.net, b)
}

// Evaluate reconciles any pending mirror refresh and returns the
// network's centipawn-like score, positive for the side to move.
func (e *Evaluator) Evaluate(b *board.BoardState) int {
	acc := e.current()
	acc.reconcileMirror(e.net, b)
	return e.net.forward(acc, b.WhiteToMove, b.PieceCount)
}

// ApplyQuiet implements board.AccumulatorUpdater.
func (e *Evaluator) ApplyQuiet(removedPiece board.Piece, removedSq board.Square, addedPiece board.Piece, addedSq board.Square) {
	acc := e.current()
	wRem, bRem := FeatureIndices(removedPiece, removedSq, acc.WhiteMirrored, acc.BlackMirrored)
	wAdd, bAdd := FeatureIndices(addedPiece, addedSq, acc.WhiteMirrored, acc.BlackMirrored)
	acc.subWhite(e.net, wRem)
	acc.addWhite(e.net, wAdd)
	acc.subBlack(e.net, bRem)
	acc.addBlack(e.net, bAdd)
}

// ApplyCapture implements board.AccumulatorUpdater.
func (e *Evaluator) ApplyCapture(removedPiece board.Piece, removedSq board.Square, addedPiece board.Piece, addedSq board.Square, capturedPiece board.Piece, capturedSq board.Square) {
	e.ApplyQuiet(removedPiece, removedSq, addedPiece, addedSq)
	acc := e.current()
	wCap, bCap := FeatureIndices(capturedPiece, capturedSq, acc.WhiteMirrored, acc.BlackMirrored)
	acc.subWhite(e.net, wCap)
	acc.subBlack(e.net, bCap)
}

// ApplyCastle implements board.AccumulatorUpdater.
func (e *Evaluator) ApplyCastle(king board.Piece, kingFrom, kingTo board.Square, rook board.Piece, rookFrom, rookTo board.Square) {
	acc := e.current()
	wKingSub, bKingSub := FeatureIndices(king, kingFrom, acc.WhiteMirrored, acc.BlackMirrored)
	wKingAdd, bKingAdd := FeatureIndices(king, kingTo, acc.WhiteMirrored, acc.BlackMirrored)
	wRookSub, bRookSub := FeatureIndices(rook, rookFrom, acc.WhiteMirrored, acc.BlackMirrored)
	wRookAdd, bRookAdd := FeatureIndices(rook, rookTo, acc.WhiteMirrored, acc.BlackMirrored)

	acc.subWhite(e.net, wKingSub)
	acc.addWhite(e.net, wKingAdd)
	acc.subWhite(e.net, wRookSub)
	acc.addWhite(e.net, wRookAdd)

	acc.subBlack(e.net, bKingSub)
	acc.addBlack(e.net, bKingAdd)
	acc.subBlack(e.net, bRookSub)
	acc.addBlack(e.net, bRookAdd)
}

var _ board.AccumulatorUpdater = (*Evaluator)(nil)
