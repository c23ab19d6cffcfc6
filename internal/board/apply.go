package board

import "github.com/corvidchess/engine/internal/zobrist"

// AccumulatorUpdater receives the NNUE accumulator delta descriptors
// FinishApply emits. internal/nnue's Evaluator implements this; callers
// that don't need incremental NNUE maintenance (move generation's
// legality probe, perft) pass nil and FinishApply skips the calls.
type AccumulatorUpdater interface {
	// ApplyQuiet removes removedPiece from removedSq and adds addedPiece
	// at addedSq. For a plain quiet move removedPiece == addedPiece; for
	// a non-capture promotion removedPiece is the pawn and addedPiece is
	// the promoted piece.
	ApplyQuiet(removedPiece Piece, removedSq Square, addedPiece Piece, addedSq Square)
	// ApplyCapture is ApplyQuiet plus the removal of capturedPiece from
	// capturedSq (capturedSq differs from addedSq only for en-passant).
	ApplyCapture(removedPiece Piece, removedSq Square, addedPiece Piece, addedSq Square, capturedPiece Piece, capturedSq Square)
	// ApplyCastle moves both the king and the rook in one descriptor.
	ApplyCastle(king Piece, kingFrom, kingTo Square, rook Piece, rookFrom, rookTo Square)
}

// ApplySnapshot captures the two fields PartialApply mutates in place
// that FinishApply needs to compute the Zobrist differential: the
// en-passant file and castle rights as they stood *before* the move.
type ApplySnapshot struct {
	EnPassantFile uint8
	CastleRights  CastlingRights
}

// Snapshot records b's pre-move en-passant file and castle rights. Call
// this before PartialApply{White,Black} and pass the result to
// FinishApply{White,Black}.
func Snapshot(b *BoardState) ApplySnapshot {
	return ApplySnapshot{EnPassantFile: b.EnPassantFile, CastleRights: b.CastleRights}
}

// PartialApplyWhite mutates b's bitboards for a move made by white and
// reports whether white's king is safe afterward (pseudo-legal ->
// legal filter). It does not touch any hash or the NNUE accumulators.
func PartialApplyWhite(b *BoardState, m Move) bool {
	return partialApply(b, m, White)
}

// PartialApplyBlack is PartialApplyWhite for black.
func PartialApplyBlack(b *BoardState, m Move) bool {
	return partialApply(b, m, Black)
}

func partialApply(b *BoardState, m Move, us Color) bool {
	them := us.Other()
	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	captured := m.CapturedPiece()

	b.EnPassantFile = 8

	switch {
	case m.IsCastle():
		kingSide := to.File() == 6
		rank := from.Rank()
		var rookFrom, rookTo Square
		if kingSide {
			rookFrom, rookTo = NewSquare(7, rank), NewSquare(5, rank)
		} else {
			rookFrom, rookTo = NewSquare(0, rank), NewSquare(3, rank)
		}
		b.movePiece(from, to)
		b.movePiece(rookFrom, rookTo)

	case m.IsEnPassant():
		capSq := NewSquare(to.File(), from.Rank())
		b.removePiece(capSq)
		b.movePiece(from, to)

	case m.IsPromotion():
		promo := m.PromotionPiece()
		if captured != NoPiece {
			b.removePiece(to)
		}
		b.removePiece(from)
		b.setPiece(promo, to)

	case m.IsDoublePush():
		b.movePiece(from, to)
		b.EnPassantFile = uint8(from.File())

	default: // quiet or plain capture
		if captured != NoPiece {
			b.removePiece(to)
		}
		b.movePiece(from, to)
	}

	b.updateCastleRightsForMove(from, to, moved)

	b.WhiteToMove = !b.WhiteToMove
	if us == Black {
		b.TurnCount++
	}
	if m.IsReset() {
		b.HalfMoveClock = 0
	} else {
		b.HalfMoveClock++
	}
	b.PieceCount = b.AllPieces.PopCount()

	legal := !b.IsSquareAttacked(b.KingSquare(us), them)
	b.UpdateInCheck()
	return legal
}

// updateCastleRightsForMove drops castle rights implied by a king
// leaving its square or a rook leaving or arriving on its home square
// (covers both "rook moves" and "rook is captured").
func (b *BoardState) updateCastleRightsForMove(from, to Square, moved Piece) {
	if moved.Type() == King {
		if moved.Color() == White {
			b.CastleRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			b.CastleRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	clearRookRight := func(sq Square) {
		switch sq {
		case A1:
			b.CastleRights &^= WhiteQueenSideCastle
		case H1:
			b.CastleRights &^= WhiteKingSideCastle
		case A8:
			b.CastleRights &^= BlackQueenSideCastle
		case H8:
			b.CastleRights &^= BlackKingSideCastle
		}
	}
	clearRookRight(from)
	clearRookRight(to)
}

// xorPieceHash XORs one piece-square key into the position hash and
// into whichever of pawnHash/whiteMaterialHash/blackMaterialHash that
// piece's type and color route to, mirroring RecomputeHashes.
func (b *BoardState) xorPieceHash(p Piece, sq Square) {
	key := zobrist.Pieces[p][sq]
	b.Hash ^= key
	switch {
	case p.Type() == Pawn:
		b.PawnHash ^= key
	case p.Color() == White:
		b.WhiteMaterialHash ^= key
	default:
		b.BlackMaterialHash ^= key
	}
}

// FinishApplyWhite updates b's hashes for a move already applied by
// PartialApplyWhite and, if acc is non-nil, emits the matching NNUE
// accumulator delta descriptor. pre must be the ApplySnapshot taken
// before the PartialApply call.
func FinishApplyWhite(b *BoardState, acc AccumulatorUpdater, m Move, pre ApplySnapshot) {
	finishApply(b, acc, m, pre, White)
}

// FinishApplyBlack is FinishApplyWhite for black.
func FinishApplyBlack(b *BoardState, acc AccumulatorUpdater, m Move, pre ApplySnapshot) {
	finishApply(b, acc, m, pre, Black)
}

func finishApply(b *BoardState, acc AccumulatorUpdater, m Move, pre ApplySnapshot, us Color) {
	them := us.Other()
	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	captured := m.CapturedPiece()

	b.Hash ^= zobrist.DeltaEnpassant[int(pre.EnPassantFile)*9+int(b.EnPassantFile)]
	b.Hash ^= zobrist.DeltaCastleRights[pre.CastleRights^b.CastleRights]
	b.Hash ^= zobrist.SideToMove

	switch {
	case m.IsCastle():
		kingSide := to.File() == 6
		var rookFrom, rookTo Square
		if us == White {
			if kingSide {
				rookFrom, rookTo = H1, F1
			} else {
				rookFrom, rookTo = A1, D1
			}
		} else {
			if kingSide {
				rookFrom, rookTo = H8, F8
			} else {
				rookFrom, rookTo = A8, D8
			}
		}
		// The four piece-square XORs below (king from/to, rook from/to)
		// are exactly what RecomputeHashes produces for this position,
		// since it only ever walks piece-square keys; XORing in
		// zobrist's combined castle key on top of them, as earlier code
		// here did, would add an extra term RecomputeHashes has no way
		// to reproduce and break the incremental/recompute equivalence.
		rook := NewPiece(Rook, us)
		b.xorPieceHash(moved, from)
		b.xorPieceHash(moved, to)
		b.xorPieceHash(rook, rookFrom)
		b.xorPieceHash(rook, rookTo)
		if acc != nil {
			acc.ApplyCastle(moved, from, to, rook, rookFrom, rookTo)
		}

	case m.IsEnPassant():
		capSq := NewSquare(to.File(), from.Rank())
		capturedPawn := NewPiece(Pawn, them)
		b.xorPieceHash(moved, from)
		b.xorPieceHash(moved, to)
		b.xorPieceHash(capturedPawn, capSq)
		if acc != nil {
			acc.ApplyCapture(moved, from, moved, to, capturedPawn, capSq)
		}

	case m.IsPromotion():
		promo := m.PromotionPiece()
		b.xorPieceHash(moved, from)
		b.xorPieceHash(promo, to)
		if captured != NoPiece {
			b.xorPieceHash(captured, to)
			if acc != nil {
				acc.ApplyCapture(moved, from, promo, to, captured, to)
			}
		} else if acc != nil {
			acc.ApplyQuiet(moved, from, promo, to)
		}

	default: // quiet, double push, or plain capture
		b.xorPieceHash(moved, from)
		b.xorPieceHash(moved, to)
		if captured != NoPiece {
			b.xorPieceHash(captured, to)
			if acc != nil {
				acc.ApplyCapture(moved, from, moved, to, captured, to)
			}
		} else if acc != nil {
			acc.ApplyQuiet(moved, from, moved, to)
		}
	}
}

// NullMoveUndo is the state ApplyNullMove displaces, to be restored by
// UndoNullMove. The caller (the search) owns this round trip.
type NullMoveUndo struct {
	Hash          uint64
	EnPassantFile uint8
	HalfMoveClock int
	InCheck       bool
}

// ApplyNullMove flips the side to move without moving a piece: used by
// null-move pruning in the search. It must be paired with UndoNullMove.
func ApplyNullMove(b *BoardState) NullMoveUndo {
	undo := NullMoveUndo{
		Hash:          b.Hash,
		EnPassantFile: b.EnPassantFile,
		HalfMoveClock: b.HalfMoveClock,
		InCheck:       b.InCheck,
	}
	if b.EnPassantFile < 8 {
		b.Hash ^= zobrist.EnPassantFile[b.EnPassantFile]
	}
	b.EnPassantFile = 8
	b.WhiteToMove = !b.WhiteToMove
	b.Hash ^= zobrist.SideToMove
	b.HalfMoveClock = 0
	b.InCheck = false
	return undo
}

// UndoNullMove reverses ApplyNullMove.
func UndoNullMove(b *BoardState, undo NullMoveUndo) {
	b.WhiteToMove = !b.WhiteToMove
	b.Hash = undo.Hash
	b.EnPassantFile = undo.EnPassantFile
	b.HalfMoveClock = undo.HalfMoveClock
	b.InCheck = undo.InCheck
}

// ApplyMove runs a full partialApply+finishApply (without NNUE
// maintenance) and returns whether the move was legal, plus a snapshot
// of b exactly as it stood before the call -- pass it to UnapplyMove to
// restore. Used by move generation's legality filter and by tests that
// want a plain make/unmake round trip.
func ApplyMove(b *BoardState, m Move) (legal bool, undo BoardState) {
	undo = *b
	us := White
	if !b.WhiteToMove {
		us = Black
	}
	pre := Snapshot(b)
	if us == White {
		legal = PartialApplyWhite(b, m)
		FinishApplyWhite(b, nil, m, pre)
	} else {
		legal = PartialApplyBlack(b, m)
		FinishApplyBlack(b, nil, m, pre)
	}
	return legal, undo
}

// UnapplyMove restores a BoardState snapshot captured by ApplyMove.
func UnapplyMove(b *BoardState, undo BoardState) {
	*b = undo
}
