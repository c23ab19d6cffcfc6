package board

import "testing"

func applyUCI(t *testing.T, b *BoardState, uci string) bool {
	t.Helper()
	m, err := ParseMove(b, uci)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", uci, err)
	}
	legal, _ := ApplyMove(b, m)
	return legal
}

func TestOccupancyInvariant(t *testing.T) {
	b := NewBoardState()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		if !applyUCI(t, b, uci) {
			t.Fatalf("move %q reported illegal", uci)
		}
		if b.AllPieces != b.WhitePieces|b.BlackPieces {
			t.Fatalf("allPieces != whitePieces|blackPieces after %q", uci)
		}
		if b.WhitePieces&b.BlackPieces != 0 {
			t.Fatalf("whitePieces and blackPieces overlap after %q", uci)
		}
		var union Bitboard
		for pc := Piece(1); pc < numPieceCodes; pc++ {
			union |= b.Occupancy[pc]
		}
		if union != b.AllPieces {
			t.Fatalf("union of piece bitboards != allPieces after %q", uci)
		}
	}
}

func TestApplyUnapplyRoundTrip(t *testing.T) {
	b := NewBoardState()
	before := *b

	m, err := ParseMove(b, "g1f3")
	if err != nil {
		t.Fatal(err)
	}
	_, undo := ApplyMove(b, m)
	UnapplyMove(b, undo)

	if *b != before {
		t.Fatalf("round trip did not restore state: got %+v, want %+v", *b, before)
	}
}

func TestHashRecomputeMatchesIncremental(t *testing.T) {
	b := NewBoardState()
	moves := []string{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4"}
	for _, uci := range moves {
		if !applyUCI(t, b, uci) {
			t.Fatalf("move %q reported illegal", uci)
		}
		incremental := b.Hash
		incPawn, incWhiteMat, incBlackMat := b.PawnHash, b.WhiteMaterialHash, b.BlackMaterialHash
		b.RecomputeHashes()
		if b.Hash != incremental {
			t.Errorf("after %q: incremental hash %x != recomputed %x", uci, incremental, b.Hash)
		}
		if b.PawnHash != incPawn || b.WhiteMaterialHash != incWhiteMat || b.BlackMaterialHash != incBlackMat {
			t.Errorf("after %q: incremental sub-hashes diverged from recomputed", uci)
		}
	}
}

func TestCastleUpdatesRightsAndSquares(t *testing.T) {
	b, err := ParseFEN("r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")
	if err != nil {
		t.Fatal(err)
	}
	if !applyUCI(t, b, "e1g1") {
		t.Fatal("O-O reported illegal")
	}
	if b.WhiteKingSquare != G1 {
		t.Errorf("king square = %v, want g1", b.WhiteKingSquare)
	}
	if b.PieceAt(F1) != WhiteRook {
		t.Errorf("expected rook on f1 after O-O")
	}
	if b.CastleRights&(WhiteKingSideCastle|WhiteQueenSideCastle) != 0 {
		t.Errorf("white castle rights not cleared: %v", b.CastleRights)
	}

	// S5/invariant #3: the incrementally maintained hash after a castle
	// must equal a from-scratch recomputation over the resulting
	// position -- a prior version of finishApply additionally XORed in
	// zobrist's combined castle key on top of the king/rook piece-square
	// keys, which desynced the two.
	incremental := b.Hash
	b.RecomputeHashes()
	if b.Hash != incremental {
		t.Errorf("after O-O: incremental hash %x != recomputed %x", incremental, b.Hash)
	}
}

func TestCastleHashMatchesRecomputeQueenSideBlack(t *testing.T) {
	b, err := ParseFEN("r3kbnr/pppqpppp/2n5/3p4/3P4/2N5/PPPQPPPP/R3KBNR b KQkq - 6 5")
	if err != nil {
		t.Fatal(err)
	}
	if !applyUCI(t, b, "e8c8") {
		t.Fatal("O-O-O reported illegal")
	}
	incremental := b.Hash
	b.RecomputeHashes()
	if b.Hash != incremental {
		t.Errorf("after O-O-O: incremental hash %x != recomputed %x", incremental, b.Hash)
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	b := NewBoardState()
	before := *b

	u1 := ApplyNullMove(b)
	u2 := ApplyNullMove(b)
	UndoNullMove(b, u2)
	UndoNullMove(b, u1)

	if b.Hash != before.Hash {
		t.Errorf("hash not restored after double null move: got %x, want %x", b.Hash, before.Hash)
	}
	if b.EnPassantFile != before.EnPassantFile {
		t.Errorf("en passant file not restored: got %d, want %d", b.EnPassantFile, before.EnPassantFile)
	}
	if b.WhiteToMove != before.WhiteToMove {
		t.Errorf("side to move not restored")
	}
}

func TestEnPassantFileAfterDoublePush(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1")
	if err != nil {
		t.Fatal(err)
	}
	if !applyUCI(t, b, "e7e5") {
		t.Fatal("e7e5 reported illegal")
	}
	if b.EnPassantFile != 4 {
		t.Fatalf("enPassantFile = %d, want 4", b.EnPassantFile)
	}
}
