package search

import (
	"testing"

	"github.com/corvidchess/engine/internal/board"
)

func TestSearcherFindsMateInOne(t *testing.T) {
	// White king e1, rook a1; black king g8 boxed in by its own pawns on
	// f7/g7/h7. Ra1-a8 is checkmate: the king can't move and nothing can
	// block or capture on the back rank.
	b, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	tt := NewTranspositionTable(1)
	s := NewSearcher(0, tt)
	s.Init(1, b, nil)

	result := s.DepthBoundSearch(3)
	if result.Move.String() != "a1a8" {
		t.Fatalf("expected mating move a1a8, got %s (score %d)", result.Move, result.Score)
	}
	if result.Score < MateScore-MaxPly {
		t.Errorf("expected a mate score, got %d", result.Score)
	}
}

func TestSearcherRespectsStop(t *testing.T) {
	b := board.NewBoardState()
	tt := NewTranspositionTable(1)
	s := NewSearcher(0, tt)
	s.Init(1, b, nil)
	s.Stop()

	result := s.Search(0, 10)
	// A pre-stopped search should still return *something* usable (the
	// zero Result, since not even depth 1 got a chance to run) rather
	// than panicking or blocking.
	_ = result
}

func TestSearcherIterativeDeepeningImprovesDepth(t *testing.T) {
	b := board.NewBoardState()
	tt := NewTranspositionTable(4)
	s := NewSearcher(0, tt)
	s.Init(1, b, nil)

	result := s.Search(0, 4)
	if result.Move == board.NoMove {
		t.Fatal("expected a root move from the starting position")
	}
	if result.Depth != 4 {
		t.Errorf("expected depth 4 after deepening to maxDepth 4, got %d", result.Depth)
	}
}
