package board

import (
	"fmt"

	"github.com/corvidchess/engine/internal/zobrist"
)

// CastlingRights represents the available castling options as a 4-bit
// flag set (WK|WQ|BK|BQ), matching the FEN castling field bit for bit.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side still holds the right to
// castle in the given direction (says nothing about legality this ply).
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// numPieceCodes sizes the occupancy table: codes 1..12 plus the unused
// 0 ("none") sentinel slot.
const numPieceCodes = 13

// BoardState is a complete chess position: one bitboard per piece code,
// derived occupancies, side to move, castling rights, en-passant file,
// clocks, king squares, and the four incrementally maintained Zobrist
// hashes (position, pawn, white material, black material).
//
// Invariant (spec.md S8 #1): AllPieces == WhitePieces | BlackPieces,
// WhitePieces & BlackPieces == 0, and the union of the 12 per-piece
// bitboards in Occupancy equals AllPieces.
type BoardState struct {
	// Occupancy is indexed by Piece code (1..12); index 0 is unused.
	Occupancy [numPieceCodes]Bitboard

	WhitePieces Bitboard
	BlackPieces Bitboard
	AllPieces   Bitboard

	WhiteKingSquare Square
	BlackKingSquare Square

	CastleRights CastlingRights

	// EnPassantFile is 0..7 if an en-passant capture is available this
	// ply, 8 ("none") otherwise.
	EnPassantFile uint8

	WhiteToMove bool
	InCheck     bool

	HalfMoveClock int // plies since the last capture or pawn move
	TurnCount     int // full-move counter, per FEN convention

	PieceCount int

	Hash              uint64
	PawnHash          uint64
	WhiteMaterialHash uint64
	BlackMaterialHash uint64
}

// NewBoardState returns the standard starting position.
func NewBoardState() *BoardState {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic("board: start FEN failed to parse: " + err.Error())
	}
	return b
}

// Clone returns an independent copy. BoardState holds no pointers or
// slices, so a value copy already is a deep copy.
func (b *BoardState) Clone() *BoardState {
	c := *b
	return &c
}

// EnPassantSquare returns the en-passant target square, or NoSquare if
// EnPassantFile is 8 ("none"). The target sits on rank 3 after a white
// double push (black to move next) or rank 6 after a black double push.
func (b *BoardState) EnPassantSquare() Square {
	if b.EnPassantFile >= 8 {
		return NoSquare
	}
	rank := 2
	if b.WhiteToMove {
		rank = 5
	}
	return NewSquare(int(b.EnPassantFile), rank)
}

// PieceAt returns the piece occupying sq, or NoPiece if empty.
func (b *BoardState) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if b.AllPieces&bb == 0 {
		return NoPiece
	}
	for pc := Piece(1); pc < numPieceCodes; pc++ {
		if b.Occupancy[pc]&bb != 0 {
			return pc
		}
	}
	return NoPiece
}

// IsEmpty returns true if the square has no piece on it.
func (b *BoardState) IsEmpty(sq Square) bool {
	return b.AllPieces&SquareBB(sq) == 0
}

// KingSquare returns the king square for color c.
func (b *BoardState) KingSquare(c Color) Square {
	if c == White {
		return b.WhiteKingSquare
	}
	return b.BlackKingSquare
}

// setPiece places a piece on a square (does not update any hash).
func (b *BoardState) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	bb := SquareBB(sq)
	b.Occupancy[piece] |= bb
	if piece.Color() == White {
		b.WhitePieces |= bb
	} else {
		b.BlackPieces |= bb
	}
	b.AllPieces |= bb
	if piece.Type() == King {
		if piece.Color() == White {
			b.WhiteKingSquare = sq
		} else {
			b.BlackKingSquare = sq
		}
	}
}

// removePiece removes and returns whatever piece sits on sq (does not
// update any hash); returns NoPiece if the square was already empty.
func (b *BoardState) removePiece(sq Square) Piece {
	piece := b.PieceAt(sq)
	if piece == NoPiece {
		return NoPiece
	}
	bb := SquareBB(sq)
	b.Occupancy[piece] &^= bb
	if piece.Color() == White {
		b.WhitePieces &^= bb
	} else {
		b.BlackPieces &^= bb
	}
	b.AllPieces &^= bb
	return piece
}

// movePiece relocates whatever piece sits on from to to (does not
// update any hash, and does not touch whatever previously sat on to --
// callers must removePiece(to) first if it was a capture).
func (b *BoardState) movePiece(from, to Square) Piece {
	piece := b.PieceAt(from)
	if piece == NoPiece {
		return NoPiece
	}
	moveBB := SquareBB(from) | SquareBB(to)
	b.Occupancy[piece] ^= moveBB
	if piece.Color() == White {
		b.WhitePieces ^= moveBB
		if piece.Type() == King {
			b.WhiteKingSquare = to
		}
	} else {
		b.BlackPieces ^= moveBB
		if piece.Type() == King {
			b.BlackKingSquare = to
		}
	}
	b.AllPieces ^= moveBB
	return piece
}

// Material returns the material balance in centipawns, positive favors
// white, excluding kings.
func (b *BoardState) Material() int {
	score := 0
	for pt := Pawn; pt < King; pt++ {
		score += b.Occupancy[NewPiece(pt, White)].PopCount() * PieceValue[pt]
		score -= b.Occupancy[NewPiece(pt, Black)].PopCount() * PieceValue[pt]
	}
	return score
}

// HasNonPawnMaterial reports whether the side to move has any piece
// other than pawns and king. Used by null-move pruning in the search,
// where zugzwang risk is high with only pawns and king left.
func (b *BoardState) HasNonPawnMaterial() bool {
	c := White
	if !b.WhiteToMove {
		c = Black
	}
	for pt := Knight; pt <= Queen; pt++ {
		if b.Occupancy[NewPiece(pt, c)] != 0 {
			return true
		}
	}
	return false
}

// String returns a human-readable board diagram, for debugging.
func (b *BoardState) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			p := b.PieceAt(NewSquare(file, rank))
			if p == NoPiece {
				s += ". "
			} else {
				s += p.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	side := "black"
	if b.WhiteToMove {
		side = "white"
	}
	s += fmt.Sprintf("Side to move: %s\n", side)
	s += fmt.Sprintf("Castling: %s\n", b.CastleRights)
	s += fmt.Sprintf("Half-move clock: %d\n", b.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", b.TurnCount)
	s += fmt.Sprintf("Hash: %016x\n", b.Hash)
	return s
}

// recomputeDerived rebuilds WhitePieces/BlackPieces/AllPieces/PieceCount
// and the king squares from Occupancy. Used after bulk piece placement
// (FEN parsing), where per-move incremental maintenance doesn't apply.
func (b *BoardState) recomputeDerived() {
	b.WhitePieces = 0
	b.BlackPieces = 0
	for pt := Pawn; pt <= King; pt++ {
		b.WhitePieces |= b.Occupancy[NewPiece(pt, White)]
		b.BlackPieces |= b.Occupancy[NewPiece(pt, Black)]
	}
	b.AllPieces = b.WhitePieces | b.BlackPieces
	b.PieceCount = b.AllPieces.PopCount()
	b.WhiteKingSquare = b.Occupancy[WhiteKing].LSB()
	b.BlackKingSquare = b.Occupancy[BlackKing].LSB()
}

// RecomputeHashes rebuilds Hash/PawnHash/WhiteMaterialHash/BlackMaterialHash
// from scratch by walking every piece. Exported so tests can check the
// "recompute equals incremental" invariant (spec.md S8 #3) directly.
func (b *BoardState) RecomputeHashes() {
	var hash, pawnHash, whiteMat, blackMat uint64

	for pc := Piece(1); pc < numPieceCodes; pc++ {
		bb := b.Occupancy[pc]
		for bb != 0 {
			sq := bb.PopLSB()
			hash ^= zobrist.Pieces[pc][sq]
			if pc.Type() == Pawn {
				pawnHash ^= zobrist.Pieces[pc][sq]
			} else if pc.Color() == White {
				whiteMat ^= zobrist.Pieces[pc][sq]
			} else {
				blackMat ^= zobrist.Pieces[pc][sq]
			}
		}
	}

	if b.EnPassantFile < 8 {
		hash ^= zobrist.EnPassantFile[b.EnPassantFile]
	}
	hash ^= zobrist.DeltaCastleRights[b.CastleRights]
	if !b.WhiteToMove {
		hash ^= zobrist.SideToMove
	}

	b.Hash = hash
	b.PawnHash = pawnHash
	b.WhiteMaterialHash = whiteMat
	b.BlackMaterialHash = blackMat
}
