package search

import "testing"

func TestTranspositionProbeStoreRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0xDEADBEEFCAFEBABE)

	if _, found := tt.Probe(hash); found {
		t.Fatal("expected miss on empty table")
	}

	tt.Store(hash, 8, 123, TTExact, 0)
	entry, found := tt.Probe(hash)
	if !found {
		t.Fatal("expected hit after store")
	}
	if entry.Score != 123 || entry.Depth != 8 || entry.Flag != TTExact {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestTranspositionKeyMismatchIsMiss(t *testing.T) {
	tt := NewTranspositionTable(1)
	// Flip a bit above the index's low bits but still within the key's
	// low 32 bits, so hash2 lands in the same bucket as hash1 yet reads
	// back as a genuine cache miss rather than a false hit.
	hash1 := uint64(0x1111111100000001)
	hash2 := hash1 ^ (1 << 20)
	tt.Store(hash1, 4, 10, TTExact, 0)
	if _, found := tt.Probe(hash2); found {
		t.Fatal("expected miss on key mismatch")
	}
}

func TestAdjustScoreToFromTTSymmetry(t *testing.T) {
	cases := []struct{ score, ply int }{
		{MateScore - 1, 3},
		{-MateScore + 1, 5},
		{100, 10},
		{-50, 0},
	}
	for _, c := range cases {
		stored := AdjustScoreToTT(c.score, c.ply)
		got := AdjustScoreFromTT(stored, c.ply)
		if got != c.score {
			t.Errorf("score %d ply %d: round trip gave %d", c.score, c.ply, got)
		}
	}
}

func TestNewSearchAgesOutStaleEntries(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(42)
	tt.Store(hash, 2, 5, TTExact, 0)
	tt.NewSearch()
	tt.Store(hash, 1, 9, TTExact, 0) // shallower depth, but a fresh generation
	entry, found := tt.Probe(hash)
	if !found || entry.Depth != 1 || entry.Score != 9 {
		t.Fatalf("expected fresh-generation store to win, got %+v", entry)
	}
}
