// Package zobrist holds the static 64-bit keying tables used to maintain
// BoardState's incremental position, pawn, and material hashes.
//
// All tables are built once at process start from a fixed-seed PRNG so
// hashes are reproducible across runs and machines.
package zobrist

// Piece is indexed the same way board.Piece is: 1..12, 0 unused.
const (
	numPieceCodes = 13 // codes 0..12, 0 is the sentinel "none"
	numSquares    = 64
)

var (
	// Pieces holds one key per (piece-code, square). Pieces[0][*] is
	// never consulted (piece code 0 is the "none" sentinel).
	Pieces [numPieceCodes][numSquares]uint64

	// EnPassantFile holds one key per file (0..7).
	EnPassantFile [8]uint64

	// DeltaEnpassant[oldFile*9+newFile] XORs in one step the effect of
	// turning off oldFile's key and turning on newFile's key. Either side
	// may be 8 ("none"), which maps to a zero contribution.
	DeltaEnpassant [9 * 9]uint64

	// DeltaCastleRights is indexed by (oldRights XOR newRights), the
	// differential of the 4-bit castling rights mask.
	DeltaCastleRights [16]uint64

	// WhiteKingSideCastle / WhiteQueenSideCastle / BlackKingSideCastle /
	// BlackQueenSideCastle are per-color, per-side castle identifiers.
	// board.finishApply does not XOR these into the position hash
	// directly -- the king's and rook's individual piece-square keys
	// already account for a castle's full hash differential, and
	// XORing in an independent key on top would desync the incremental
	// hash from a from-scratch recompute, which only ever walks
	// piece-square keys. Kept for callers that want a cheap "was this
	// delta a castle" tag distinct from the piece-square keys.
	WhiteKingSideCastle  uint64
	WhiteQueenSideCastle uint64
	BlackKingSideCastle  uint64
	BlackQueenSideCastle uint64

	// SideToMove is XORed in whenever the side to move changes.
	SideToMove uint64
)

// prng is a xorshift64* generator, ported from the teacher's
// board/zobrist.go. Using a fixed seed keeps hashes reproducible across
// builds, which the incremental/full-recompute equivalence tests rely on.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func init() {
	rng := newPRNG(0x9E3779B97F4A7C15)

	for piece := 1; piece < numPieceCodes; piece++ {
		for sq := 0; sq < numSquares; sq++ {
			Pieces[piece][sq] = rng.next()
		}
	}

	for file := 0; file < 8; file++ {
		EnPassantFile[file] = rng.next()
	}

	// DeltaEnpassant[old*9+new] = key(old) ^ key(new), where key(8) == 0
	// ("no en-passant file" contributes nothing).
	keyOrZero := func(file int) uint64 {
		if file < 0 || file > 7 {
			return 0
		}
		return EnPassantFile[file]
	}
	for oldFile := 0; oldFile < 9; oldFile++ {
		for newFile := 0; newFile < 9; newFile++ {
			DeltaEnpassant[oldFile*9+newFile] = keyOrZero(oldFile) ^ keyOrZero(newFile)
		}
	}

	// Four independent per-right keys, combined by XOR so that
	// DeltaCastleRights[oldRights^newRights] toggles exactly the bits
	// that actually changed, no matter what path the rights took to get
	// there (Stockfish's castling-key construction).
	var rightKey [4]uint64
	for i := range rightKey {
		rightKey[i] = rng.next()
	}
	for mask := 0; mask < 16; mask++ {
		var key uint64
		for bit := 0; bit < 4; bit++ {
			if mask&(1<<bit) != 0 {
				key ^= rightKey[bit]
			}
		}
		DeltaCastleRights[mask] = key
	}

	WhiteKingSideCastle = rng.next()
	WhiteQueenSideCastle = rng.next()
	BlackKingSideCastle = rng.next()
	BlackQueenSideCastle = rng.next()

	SideToMove = rng.next()
}
