package nnue

import (
	"testing"

	"github.com/corvidchess/engine/internal/board"
	"github.com/corvidchess/engine/internal/movegen"
)

// TestFeatureIndicesBijection checks spec.md S8 invariant #6:
// featureIndices is a bijection between (piece, square) and a pair in
// [0, 768) for each perspective, for any fixed pair of mirror flags.
func TestFeatureIndicesBijection(t *testing.T) {
	for _, whiteMirrored := range []bool{false, true} {
		for _, blackMirrored := range []bool{false, true} {
			seenWhite := make(map[int]bool)
			seenBlack := make(map[int]bool)
			for pc := board.Piece(1); pc < 13; pc++ {
				for sq := board.A1; sq <= board.H8; sq++ {
					wi, bi := FeatureIndices(pc, sq, whiteMirrored, blackMirrored)
					if wi < 0 || wi >= NumFeatures {
						t.Fatalf("white index %d out of range for piece %v sq %v", wi, pc, sq)
					}
					if bi < 0 || bi >= NumFeatures {
						t.Fatalf("black index %d out of range for piece %v sq %v", bi, pc, sq)
					}
					if seenWhite[wi] {
						t.Fatalf("white index %d collides for piece %v sq %v", wi, pc, sq)
					}
					if seenBlack[bi] {
						t.Fatalf("black index %d collides for piece %v sq %v", bi, pc, sq)
					}
					seenWhite[wi] = true
					seenBlack[bi] = true
				}
			}
		}
	}
}

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := NewEvaluator("")
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return e
}

// TestIncrementalMatchesFullRebuild checks spec.md S8 invariant #5:
// NNUE evaluate computed incrementally after a sequence of applies
// equals the value from rebuilding both accumulators from scratch.
func TestIncrementalMatchesFullRebuild(t *testing.T) {
	b := board.NewBoardState()
	e := newTestEvaluator(t)
	e.Reset(b)

	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5a4", "g8f6"}
	for _, uci := range moves {
		m, err := board.ParseMove(b, uci)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", uci, err)
		}

		e.Push()
		pre := board.Snapshot(b)
		us := board.White
		if !b.WhiteToMove {
			us = board.Black
		}
		var legal bool
		if us == board.White {
			legal = board.PartialApplyWhite(b, m)
			board.FinishApplyWhite(b, e, m, pre)
		} else {
			legal = board.PartialApplyBlack(b, m)
			board.FinishApplyBlack(b, e, m, pre)
		}
		if !legal {
			t.Fatalf("move %q reported illegal", uci)
		}

		incremental := e.Evaluate(b)

		rebuilt := newTestEvaluator(t)
		rebuilt.Reset(b)
		fromScratch := rebuilt.Evaluate(b)

		if incremental != fromScratch {
			t.Errorf("after %q: incremental eval %d != rebuilt eval %d", uci, incremental, fromScratch)
		}
	}
}

// TestMirrorRefreshTriggersOnKingCross verifies that crossing the
// mirror boundary (file 4 -> file 3) changes the accumulator's mirror
// state and still matches a from-scratch rebuild.
func TestMirrorRefreshTriggersOnKingCross(t *testing.T) {
	b, err := board.ParseFEN("4k3/8/8/8/8/8/4P3/4K2R w K - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	e := newTestEvaluator(t)
	e.Reset(b)

	if !e.current().WhiteMirrored {
		t.Fatalf("king on e1 (file 4) should already be mirrored at reset")
	}

	moves := movegen.Generate(b, false)
	var kingMove board.Move
	found := false
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.MovedPiece() == board.WhiteKing && m.To() == board.D1 {
			kingMove, found = m, true
			break
		}
	}
	if !found {
		t.Fatal("expected Ke1-d1 to be generated")
	}

	e.Push()
	pre := board.Snapshot(b)
	if !board.PartialApplyWhite(b, kingMove) {
		t.Fatal("Ke1-d1 reported illegal")
	}
	board.FinishApplyWhite(b, e, kingMove, pre)

	got := e.Evaluate(b)
	if e.current().WhiteMirrored {
		t.Errorf("expected white perspective to un-mirror after king reaches d1 (file 3)")
	}

	rebuilt := newTestEvaluator(t)
	rebuilt.Reset(b)
	want := rebuilt.Evaluate(b)
	if got != want {
		t.Errorf("post-mirror eval %d != rebuilt eval %d", got, want)
	}
}

func TestOutputBucketRange(t *testing.T) {
	for pieceCount := 2; pieceCount <= 32; pieceCount++ {
		b := OutputBucket(pieceCount)
		if b < 0 || b >= NumBuckets {
			t.Errorf("OutputBucket(%d) = %d, out of [0,%d)", pieceCount, b, NumBuckets)
		}
	}
}
