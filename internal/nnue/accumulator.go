package nnue

import "github.com/corvidchess/engine/internal/board"

// Accumulator holds both perspectives' partial sums of first-layer
// activations (spec.md §3.3), plus the lazy mirror-refresh bookkeeping:
// *Mirrored is the state the accumulator was last built with, should*Mirrored
// is what the current king position calls for. Evaluate reconciles them.
type Accumulator struct {
	White [L1]int16
	Black [L1]int16

	WhiteMirrored       bool
	BlackMirrored       bool
	ShouldWhiteMirrored bool
	ShouldBlackMirrored bool
}

func (a *Accumulator) addWhite(net *Network, idx int) {
	w := &net.FeatureWeights[idx]
	for i := range a.White {
		a.White[i] += w[i]
	}
}

func (a *Accumulator) subWhite(net *Network, idx int) {
	w := &net.FeatureWeights[idx]
	for i := range a.White {
		a.White[i] -= w[i]
	}
}

func (a *Accumulator) addBlack(net *Network, idx int) {
	w := &net.FeatureWeights[idx]
	for i := range a.Black {
		a.Black[i] += w[i]
	}
}

func (a *Accumulator) subBlack(net *Network, idx int) {
	w := &net.FeatureWeights[idx]
	for i := range a.Black {
		a.Black[i] -= w[i]
	}
}

// FillFromBoard rebuilds both accumulators from scratch: reset to
// featureBias and add one feature per piece on the board. This is
// spec.md's fillAccumulators, used for initial setup and whenever both
// perspectives need a refresh simultaneously.
func (a *Accumulator) FillFromBoard(net *Network, b *board.BoardState) {
	a.White = net.FeatureBias
	a.Black = net.FeatureBias
	for pc := board.Piece(1); pc < 13; pc++ {
		bb := b.Occupancy[pc]
		for bb != 0 {
			sq := bb.PopLSB()
			wi, bi := FeatureIndices(pc, sq, a.WhiteMirrored, a.BlackMirrored)
			a.addWhite(net, wi)
			a.addBlack(net, bi)
		}
	}
}

// MirrorWhite rebuilds only the white-perspective accumulator under
// the current ShouldWhiteMirrored state -- spec.md's "when the king
// moves between mirrored and non-mirrored sides of the board, the
// entire accumulator for that perspective must be rebuilt from scratch".
func (a *Accumulator) MirrorWhite(net *Network, b *board.BoardState) {
	a.WhiteMirrored = a.ShouldWhiteMirrored
	a.White = net.FeatureBias
	for pc := board.Piece(1); pc < 13; pc++ {
		bb := b.Occupancy[pc]
		for bb != 0 {
			sq := bb.PopLSB()
			wi, _ := FeatureIndices(pc, sq, a.WhiteMirrored, a.BlackMirrored)
			a.addWhite(net, wi)
		}
	}
}

// MirrorBlack is MirrorWhite for the black perspective.
func (a *Accumulator) MirrorBlack(net *Network, b *board.BoardState) {
	a.BlackMirrored = a.ShouldBlackMirrored
	a.Black = net.FeatureBias
	for pc := board.Piece(1); pc < 13; pc++ {
		bb := b.Occupancy[pc]
		for bb != 0 {
			sq := bb.PopLSB()
			_, bi := FeatureIndices(pc, sq, a.WhiteMirrored, a.BlackMirrored)
			a.addBlack(net, bi)
		}
	}
}

// reconcileMirror brings *Mirrored in line with should*Mirrored,
// rebuilding whichever perspective (or both) fell out of sync since
// the last reconciliation. Evaluate calls this before every forward pass.
func (a *Accumulator) reconcileMirror(net *Network, b *board.BoardState) {
	a.ShouldWhiteMirrored = b.WhiteKingSquare.IsMirroredFile()
	a.ShouldBlackMirrored = b.BlackKingSquare.IsMirroredFile()
	if a.WhiteMirrored != a.ShouldWhiteMirrored {
		a.MirrorWhite(net, b)
	}
	if a.BlackMirrored != a.ShouldBlackMirrored {
		a.MirrorBlack(net, b)
	}
}
