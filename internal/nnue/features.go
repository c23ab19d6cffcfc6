package nnue

import "github.com/corvidchess/engine/internal/board"

// FeatureIndices computes the white- and black-perspective feature
// indices for a piece standing on sq, given each perspective's current
// mirror state (spec.md §4.4).
//
// The white-perspective accumulator sees squares verbatim, mirrored
// file-wise (square.Mirror, i.e. file^7) when whiteMirrored. The
// black-perspective accumulator sees squares vertically flipped
// (square.FlipRank, square^0x38) and, when blackMirrored, additionally
// file-mirrored -- the combined form spec.md's open question prefers
// over the equivalent single square^0x3F. The mover's color bit flips
// between the two perspectives, since each side sees itself as "white".
func FeatureIndices(piece board.Piece, sq board.Square, whiteMirrored, blackMirrored bool) (whiteIdx, blackIdx int) {
	typeOffset := int(piece.Type())

	whiteSq := sq
	if whiteMirrored {
		whiteSq = whiteSq.Mirror()
	}
	whiteColor := 0
	if piece.Color() == board.Black {
		whiteColor = 1
	}
	whiteIdx = whiteColor*ColorStride + typeOffset*PieceStride + int(whiteSq)

	blackSq := sq.FlipRank()
	if blackMirrored {
		blackSq = blackSq.Mirror()
	}
	blackColor := 0
	if piece.Color() == board.White {
		blackColor = 1
	}
	blackIdx = blackColor*ColorStride + typeOffset*PieceStride + int(blackSq)

	return whiteIdx, blackIdx
}
