// Package movegen supplements the core engine's specification with a
// concrete move generator: spec.md treats "generate(board, legalMoves,
// onlyCaptures)" as a pure-function external collaborator, but a
// runnable GameState needs a real one, so this package provides it
// over board.BoardState, sharing the legality probe PartialApply uses.
package movegen

import "github.com/corvidchess/engine/internal/board"

// Generate appends pseudo-legal moves for the side to move, then
// filters out any that leave the mover's own king in check -- the same
// legality probe board.PartialApply performs, run here via a full
// apply/unapply round trip per candidate move.
func Generate(b *board.BoardState, onlyCaptures bool) *board.MoveList {
	pseudo := board.NewMoveList()
	generateAllMoves(b, pseudo, onlyCaptures)
	return filterLegal(b, pseudo)
}

func filterLegal(b *board.BoardState, pseudo *board.MoveList) *board.MoveList {
	legal := board.NewMoveList()
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		ok, undo := board.ApplyMove(b, m)
		board.UnapplyMove(b, undo)
		if ok {
			legal.Add(m)
		}
	}
	return legal
}

// HasLegalMove reports whether the side to move has at least one legal
// move, without materializing the full list.
func HasLegalMove(b *board.BoardState) bool {
	pseudo := board.NewMoveList()
	generateAllMoves(b, pseudo, false)
	for i := 0; i < pseudo.Len(); i++ {
		ok, undo := board.ApplyMove(b, pseudo.Get(i))
		board.UnapplyMove(b, undo)
		if ok {
			return true
		}
	}
	return false
}

func generateAllMoves(b *board.BoardState, ml *board.MoveList, onlyCaptures bool) {
	us := board.White
	if !b.WhiteToMove {
		us = board.Black
	}
	them := us.Other()
	occupied := b.AllPieces
	own := b.WhitePieces
	enemies := b.BlackPieces
	if us == board.Black {
		own, enemies = b.BlackPieces, b.WhitePieces
	}

	generatePawnMoves(b, ml, us, enemies, occupied, onlyCaptures)

	addSliderMoves := func(from board.Square, attacks board.Bitboard, pt board.PieceType) {
		moved := board.NewPiece(pt, us)
		for attacks != 0 {
			to := attacks.PopLSB()
			captured := b.PieceAt(to)
			ml.Add(board.NewMove(from, to, moved, captured, board.MoveQuiet))
		}
	}

	knights := b.Occupancy[board.NewPiece(board.Knight, us)]
	for knights != 0 {
		from := knights.PopLSB()
		attacks := board.KnightAttacks(from) & ^own
		if onlyCaptures {
			attacks &= enemies
		}
		addSliderMoves(from, attacks, board.Knight)
	}

	bishops := b.Occupancy[board.NewPiece(board.Bishop, us)]
	for bishops != 0 {
		from := bishops.PopLSB()
		attacks := board.BishopAttacks(from, occupied) & ^own
		if onlyCaptures {
			attacks &= enemies
		}
		addSliderMoves(from, attacks, board.Bishop)
	}

	rooks := b.Occupancy[board.NewPiece(board.Rook, us)]
	for rooks != 0 {
		from := rooks.PopLSB()
		attacks := board.RookAttacks(from, occupied) & ^own
		if onlyCaptures {
			attacks &= enemies
		}
		addSliderMoves(from, attacks, board.Rook)
	}

	queens := b.Occupancy[board.NewPiece(board.Queen, us)]
	for queens != 0 {
		from := queens.PopLSB()
		attacks := board.QueenAttacks(from, occupied) & ^own
		if onlyCaptures {
			attacks &= enemies
		}
		addSliderMoves(from, attacks, board.Queen)
	}

	kingFrom := b.KingSquare(us)
	kingAttacks := board.KingAttacks(kingFrom) & ^own
	if onlyCaptures {
		kingAttacks &= enemies
	}
	addSliderMoves(kingFrom, kingAttacks, board.King)

	if !onlyCaptures {
		generateCastles(b, ml, us, them)
	}
}

func generatePawnMoves(b *board.BoardState, ml *board.MoveList, us board.Color, enemies, occupied board.Bitboard, onlyCaptures bool) {
	pawns := b.Occupancy[board.NewPiece(board.Pawn, us)]
	empty := ^occupied
	movedPawn := board.NewPiece(board.Pawn, us)

	var push1, push2, attackL, attackR board.Bitboard
	var promotionRank board.Bitboard
	var pushDir int

	if us == board.White {
		push1 = pawns.North() & empty
		push2 = (push1 & board.Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = board.Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & board.Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = board.Rank1
		pushDir = -8
	}

	addPromotions := func(from, to board.Square, captured board.Piece) {
		ml.Add(board.NewMove(from, to, movedPawn, captured, board.MovePromoQueen))
		ml.Add(board.NewMove(from, to, movedPawn, captured, board.MovePromoRook))
		ml.Add(board.NewMove(from, to, movedPawn, captured, board.MovePromoBishop))
		ml.Add(board.NewMove(from, to, movedPawn, captured, board.MovePromoKnight))
	}

	if !onlyCaptures {
		nonPromo := push1 & ^promotionRank
		for nonPromo != 0 {
			to := nonPromo.PopLSB()
			from := board.Square(int(to) - pushDir)
			ml.Add(board.NewMove(from, to, movedPawn, board.NoPiece, board.MoveQuiet))
		}
		for push2 != 0 {
			to := push2.PopLSB()
			from := board.Square(int(to) - 2*pushDir)
			ml.Add(board.NewMove(from, to, movedPawn, board.NoPiece, board.MoveDoublePush))
		}
	}

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		from := board.Square(int(to) - pushDir)
		addPromotions(from, to, board.NoPiece)
	}

	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		from := board.Square(int(to) - pushDir + 1)
		ml.Add(board.NewMove(from, to, movedPawn, b.PieceAt(to), board.MoveQuiet))
	}
	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		from := board.Square(int(to) - pushDir - 1)
		ml.Add(board.NewMove(from, to, movedPawn, b.PieceAt(to), board.MoveQuiet))
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		from := board.Square(int(to) - pushDir + 1)
		addPromotions(from, to, b.PieceAt(to))
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		from := board.Square(int(to) - pushDir - 1)
		addPromotions(from, to, b.PieceAt(to))
	}

	epSquare := b.EnPassantSquare()
	if epSquare != board.NoSquare {
		epBB := board.SquareBB(epSquare)
		var epAttackers board.Bitboard
		if us == board.White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(board.NewMove(from, epSquare, movedPawn, board.NoPiece, board.MoveEnPassant))
		}
	}
}

func generateCastles(b *board.BoardState, ml *board.MoveList, us, them board.Color) {
	rank := 0
	if us == board.Black {
		rank = 7
	}
	e := board.NewSquare(4, rank)
	f := board.NewSquare(5, rank)
	g := board.NewSquare(6, rank)
	d := board.NewSquare(3, rank)
	c := board.NewSquare(2, rank)
	bFile := board.NewSquare(1, rank)
	king := board.NewPiece(board.King, us)

	kingSideRight, queenSideRight := board.WhiteKingSideCastle, board.WhiteQueenSideCastle
	if us == board.Black {
		kingSideRight, queenSideRight = board.BlackKingSideCastle, board.BlackQueenSideCastle
	}

	if b.CastleRights&kingSideRight != 0 &&
		b.AllPieces&(board.SquareBB(f)|board.SquareBB(g)) == 0 &&
		!b.IsSquareAttacked(e, them) && !b.IsSquareAttacked(f, them) && !b.IsSquareAttacked(g, them) {
		ml.Add(board.NewMove(e, g, king, board.NoPiece, board.MoveCastle))
	}

	if b.CastleRights&queenSideRight != 0 &&
		b.AllPieces&(board.SquareBB(d)|board.SquareBB(c)|board.SquareBB(bFile)) == 0 &&
		!b.IsSquareAttacked(e, them) && !b.IsSquareAttacked(d, them) && !b.IsSquareAttacked(c, them) {
		ml.Add(board.NewMove(e, c, king, board.NoPiece, board.MoveCastle))
	}
}
