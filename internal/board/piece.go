package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the type of a chess piece, 0..5 (pawn..king).
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// PieceValue returns the material value of the piece type in centipawns.
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Piece packs color and type into a single 1..12 code, with color in the
// low bit and type in the upper bits: consecutive codes alternate
// black/white for the same type (1=black pawn, 2=white pawn, 3=black
// knight, 4=white knight, ...). 0 is the sentinel "none". This lets
// WhiteIndicator/Type be computed with the bit tricks the spec names
// instead of a lookup table, and keeps piece codes directly usable as
// Zobrist/NNUE table indices.
type Piece uint8

const (
	NoPiece Piece = 0

	BlackPawn Piece = 1
	WhitePawn Piece = 2

	BlackKnight Piece = 3
	WhiteKnight Piece = 4

	BlackBishop Piece = 5
	WhiteBishop Piece = 6

	BlackRook Piece = 7
	WhiteRook Piece = 8

	BlackQueen Piece = 9
	WhiteQueen Piece = 10

	BlackKing Piece = 11
	WhiteKing Piece = 12
)

// NewPiece builds a Piece code from a type index (0..5) and color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	// White codes are even (2,4,..,12), black codes are odd (1,3,..,11).
	if c == White {
		return Piece(2*int(pt) + 2)
	}
	return Piece(2*int(pt) + 1)
}

// WhiteIndicator returns 1 if p is a white piece, 0 if black.
// (piece+1)&1, exactly as the spec's bit trick is stated; for NoPiece
// it yields 1, so callers check for NoPiece first.
func (p Piece) WhiteIndicator() int {
	return int(p+1) & 1
}

// Type returns the PieceType of the piece (0..5), or NoPieceType for the
// sentinel. (piece>>1) - whiteIndicator, as the spec's bit trick states.
func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoPieceType
	}
	return PieceType(int(p>>1) - p.WhiteIndicator())
}

// Color returns the Color of the piece, or NoColor for the sentinel.
func (p Piece) Color() Color {
	if p == NoPiece {
		return NoColor
	}
	if p.WhiteIndicator() == 1 {
		return White
	}
	return Black
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p == NoPiece {
		return " "
	}
	chars := "PNBRQK"
	c := chars[p.Type()]
	if p.Color() == Black {
		return string(c + 'a' - 'A')
	}
	return string(c)
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}
