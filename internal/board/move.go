package board

import "fmt"

// Move encodes a chess move in 32 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-15: moved piece (Piece code, 1..12)
// bits 16-19: captured piece (Piece code, 0 if none)
// bits 20-23: move type
// bits 24-31: reserved
type Move uint32

// Move types.
const (
	MoveQuiet      uint32 = 0
	MoveDoublePush uint32 = 1
	MoveCastle     uint32 = 2
	MoveEnPassant  uint32 = 3
	// 4..7: promotion to knight/bishop/rook/queen respectively.
	MovePromoKnight uint32 = 4
	MovePromoBishop uint32 = 5
	MovePromoRook   uint32 = 6
	MovePromoQueen  uint32 = 7
)

// NoMove is the sentinel "null move" on the wire.
const NoMove Move = 0

const (
	shiftFrom    = 0
	shiftTo      = 6
	shiftMoved   = 12
	shiftCapture = 16
	shiftType    = 20

	maskSquare = 0x3F
	maskPiece  = 0xF
	maskType   = 0xF
)

// NewMove packs a move's fields into its wire encoding.
func NewMove(from, to Square, moved, captured Piece, moveType uint32) Move {
	return Move(uint32(from)&maskSquare<<shiftFrom |
		uint32(to)&maskSquare<<shiftTo |
		uint32(moved)&maskPiece<<shiftMoved |
		uint32(captured)&maskPiece<<shiftCapture |
		moveType&maskType<<shiftType)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(uint32(m) >> shiftFrom & maskSquare)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(uint32(m) >> shiftTo & maskSquare)
}

// MovedPiece returns the piece that moved.
func (m Move) MovedPiece() Piece {
	return Piece(uint32(m) >> shiftMoved & maskPiece)
}

// CapturedPiece returns the captured piece, or NoPiece if this move is
// not a capture.
func (m Move) CapturedPiece() Piece {
	return Piece(uint32(m) >> shiftCapture & maskPiece)
}

// Type returns the move type (MoveQuiet, MoveDoublePush, MoveCastle,
// MoveEnPassant, or a MovePromo* value).
func (m Move) Type() uint32 {
	return uint32(m) >> shiftType & maskType
}

// IsPromotion reports whether this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Type() >= MovePromoKnight
}

// PromotionPiece returns the resulting piece of a promotion move.
// pawn + 2*moveType - 6, which yields the correct white/black
// knight..queen piece code by construction: since Piece codes interleave
// color as (2*type + 1|2), adding 2*moveType walks the type index by one
// per promotion flag while preserving the pawn's color bit.
func (m Move) PromotionPiece() Piece {
	pawn := m.MovedPiece()
	return Piece(int(pawn) + 2*int(m.Type()) - 6)
}

// IsCastle reports whether this move is a castle.
func (m Move) IsCastle() bool {
	return m.Type() == MoveCastle
}

// IsEnPassant reports whether this move is an en-passant capture.
func (m Move) IsEnPassant() bool {
	return m.Type() == MoveEnPassant
}

// IsDoublePush reports whether this move is a pawn double push.
func (m Move) IsDoublePush() bool {
	return m.Type() == MoveDoublePush
}

// IsCapture reports whether this move captures a piece (en-passant
// counts as a capture even though the destination square is empty).
func (m Move) IsCapture() bool {
	return m.CapturedPiece() != NoPiece || m.IsEnPassant()
}

// IsReset reports whether this move resets the half-move clock: any
// pawn move or any capture.
func (m Move) IsReset() bool {
	return m.MovedPiece().Type() == Pawn || m.IsCapture()
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		promoChars := map[PieceType]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}
		s += string(promoChars[m.PromotionPiece().Type()])
	}
	return s
}

// MoveList is a fixed-size list of moves to avoid per-search allocation.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// ParseMove resolves a UCI move string (e.g. "e2e4", "e7e8q") against a
// board to recover the full encoding (moved/captured piece, move type).
func ParseMove(b *BoardState, s string) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	moved := b.PieceAt(from)
	if moved == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	captured := b.PieceAt(to)

	if len(s) == 5 {
		var moveType uint32
		switch s[4] {
		case 'n':
			moveType = MovePromoKnight
		case 'b':
			moveType = MovePromoBishop
		case 'r':
			moveType = MovePromoRook
		case 'q':
			moveType = MovePromoQueen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewMove(from, to, moved, captured, moveType), nil
	}

	pt := moved.Type()
	if pt == King && abs(int(to)-int(from)) == 2 {
		return NewMove(from, to, moved, NoPiece, MoveCastle), nil
	}
	if pt == Pawn && to == b.EnPassantSquare() && captured == NoPiece {
		return NewMove(from, to, moved, NoPiece, MoveEnPassant), nil
	}
	if pt == Pawn && abs(to.Rank()-from.Rank()) == 2 {
		return NewMove(from, to, moved, NoPiece, MoveDoublePush), nil
	}
	return NewMove(from, to, moved, captured, MoveQuiet), nil
}
