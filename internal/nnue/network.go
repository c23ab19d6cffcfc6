// Package nnue implements the NNUE (Efficiently Updatable Neural
// Network) static evaluator: two perspective accumulators maintained
// incrementally from board.AccumulatorUpdater deltas, with lazy
// horizontal-mirror refresh and a bucketed forward pass.
package nnue

// Feature space dimensions, per spec.md §4.4: a feature index is
// colorOffset*ColorStride + typeOffset*PieceStride + squareOffset.
// This is a King-independent 768-feature space -- a deliberate
// simplification of the teacher's king-relative HalfKAv2_hm feature
// set (sfnnue/nnue_architecture.go), since spec.md's feature formula
// has no king-bucket term of its own.
const (
	PieceStride = 64
	ColorStride = 6 * PieceStride // 384
	NumFeatures = 2 * ColorStride // 768

	// L1 is the accumulator width per perspective.
	L1 = 1024

	// NumBuckets is the number of output buckets, selected by piece count.
	NumBuckets = 8

	// CReluMax is the clamp ceiling for the clamped-ReLU activation.
	CReluMax = 255

	// Scale and Q are the forward pass's final scaling constants.
	Scale = 400
	Q     = CReluMax * 64 // 16320
)

// OutputBucket returns the output bucket for a position with the given
// piece count, per spec.md's bucket = (pieceCount-2) / ceil(32/B).
func OutputBucket(pieceCount int) int {
	perBucket := (32 + NumBuckets - 1) / NumBuckets
	b := (pieceCount - 2) / perBucket
	if b < 0 {
		b = 0
	}
	if b >= NumBuckets {
		b = NumBuckets - 1
	}
	return b
}

// Network holds the quantized weight tables: one feature-weight row
// per active feature plus a shared bias for the accumulator, and one
// output-weight pair (us, them) plus a bias per output bucket.
type Network struct {
	FeatureBias    [L1]int16
	FeatureWeights [NumFeatures][L1]int16

	// OutputWeights[bucket][0] scores the side-to-move accumulator,
	// OutputWeights[bucket][1] scores the opponent's.
	OutputWeights [NumBuckets][2][L1]int16
	OutputBias    [NumBuckets]int32
}

// NewNetwork returns a network with zero weights; call LoadWeights or
// InitRandom before use.
func NewNetwork() *Network {
	return &Network{}
}

func clampCRelu(x int16) int32 {
	if x < 0 {
		return 0
	}
	if x > CReluMax {
		return CReluMax
	}
	return int32(x)
}

// forward runs the bucketed forward pass described in spec.md §4.4,
// returning a centipawn-like score positive for the side to move.
func (n *Network) forward(acc *Accumulator, whiteToMove bool, pieceCount int) int {
	bucket := OutputBucket(pieceCount)

	var us, them *[L1]int16
	if whiteToMove {
		us, them = &acc.White, &acc.Black
	} else {
		us, them = &acc.Black, &acc.White
	}

	ow := &n.OutputWeights[bucket]
	var sum int64
	for i := 0; i < L1; i++ {
		u := clampCRelu(us[i])
		t := clampCRelu(them[i])
		sum += int64(u)*int64(ow[0][i]) + int64(t)*int64(ow[1][i])
	}
	sum += int64(n.OutputBias[bucket])

	return int(sum * Scale / Q)
}

// InitRandom fills the network with small deterministic values, for
// tests and positions where no trained weight file is available.
func (n *Network) InitRandom(seed int64) {
	state := uint64(seed)
	next := func() int16 {
		state = state*6364136223846793005 + 1442695040888963407
		return int16((state>>48)&0xFF) - 128
	}

	for i := range n.FeatureBias {
		n.FeatureBias[i] = next() >> 4
	}
	for f := 0; f < NumFeatures; f++ {
		for i := 0; i < L1; i++ {
			n.FeatureWeights[f][i] = next() >> 5
		}
	}
	for b := 0; b < NumBuckets; b++ {
		for i := 0; i < L1; i++ {
			n.OutputWeights[b][0][i] = next() >> 6
			n.OutputWeights[b][1][i] = next() >> 6
		}
		n.OutputBias[b] = int32(next()) * 4
	}
}
