// Package game wraps board.BoardState with move history, repetition
// tracking, and terminal-position classification: spec.md S3.5's
// GameState, which the teacher has no direct equivalent of (its
// game-over detection lives inline in Position/Searcher -- see
// checkmate_test.go's IsCheckmate/IsStalemate pair and
// position.go's material helpers, generalized here into one type).
package game

import (
	"fmt"

	"github.com/corvidchess/engine/internal/board"
	"github.com/corvidchess/engine/internal/movegen"
)

// MaxHistory bounds the position-hash ring per spec.md S3.5 ("bounded
// at 800"). Applying past this many plies is a usage error the caller
// must avoid, per spec.md S7 -- GameState does not silently wrap.
const MaxHistory = 800

// Result classifies how a finished game ended, per spec.md S6's
// WinDrawLoose contract.
type Result int

const (
	// Ongoing means the game has not reached a terminal position.
	Ongoing Result = iota
	// Draw covers stalemate, the fifty-move rule, and insufficient
	// material.
	Draw
	// BlackWins means white (to move) has no legal moves while in check.
	BlackWins
	// WhiteWins means black (to move) has no legal moves while in check.
	WhiteWins
)

// GameState drives one game: the current position, the moves applied
// to reach it, the legal moves available from it, and a bounded ring
// of position hashes for repetition detection.
type GameState struct {
	board *board.BoardState

	moves   []board.Move
	history [MaxHistory]uint64

	legalMoves *board.MoveList
}

// NewGame starts a GameState from the standard opening position.
func NewGame() (*GameState, error) {
	return NewGameFromFEN(board.StartFEN)
}

// NewGameFromFEN starts a GameState from an arbitrary FEN string.
func NewGameFromFEN(fen string) (*GameState, error) {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	g := &GameState{board: b}
	g.history[0] = b.Hash
	g.legalMoves = movegen.Generate(g.board, false)
	return g, nil
}

// Board returns the current position. The caller must not mutate it
// directly; go through Apply.
func (g *GameState) Board() *board.BoardState {
	return g.board
}

// Moves returns the moves applied so far, in order.
func (g *GameState) Moves() []board.Move {
	return g.moves
}

// LegalMoves returns the legal moves available from the current
// position, computed once per Apply call.
func (g *GameState) LegalMoves() *board.MoveList {
	return g.legalMoves
}

// Ply returns the number of moves applied so far.
func (g *GameState) Ply() int {
	return len(g.moves)
}

// Apply applies m if it is present in LegalMoves, recomputes the legal
// move list for the resulting position, and records the new hash in
// the repetition ring. Per spec.md S7, an illegal move returns false
// without mutating g. Exceeding MaxHistory plies is a usage error the
// caller must not trigger; Apply panics rather than silently wrap.
func (g *GameState) Apply(m board.Move) bool {
	if !g.legalMoves.Contains(m) {
		return false
	}
	if len(g.moves) >= MaxHistory-1 {
		panic("game: history exceeds MaxHistory")
	}

	legal, undo := board.ApplyMove(g.board, m)
	if !legal {
		// legalMoves was already filtered, so this should not happen;
		// guard against a stale list anyway.
		board.UnapplyMove(g.board, undo)
		return false
	}

	g.moves = append(g.moves, m)
	g.history[len(g.moves)] = g.board.Hash
	g.legalMoves = movegen.Generate(g.board, false)
	return true
}

// HashHistory returns the position hashes seen so far, oldest first,
// suitable for seeding a Searcher's repetition-detection window.
func (g *GameState) HashHistory() []uint64 {
	return g.history[:len(g.moves)+1]
}

// repetitionCount counts how many prior positions in the searchable
// window (bounded by the half-move clock, since any irreversible move
// resets it) share the current hash.
func (g *GameState) repetitionCount() int {
	n := len(g.moves)
	count := 0
	for i := n - 2; i >= 0 && i >= n-g.board.HalfMoveClock; i -= 2 {
		if g.history[i] == g.board.Hash {
			count++
		}
	}
	return count
}

// IsThreefoldRepetition reports whether the current position has
// occurred at least three times (including the present occurrence).
func (g *GameState) IsThreefoldRepetition() bool {
	return g.repetitionCount() >= 2
}

// GameOver reports whether the current position is terminal per
// spec.md S6: no legal moves, the fifty-move rule, insufficient
// material, or threefold repetition.
func (g *GameState) GameOver() bool {
	return g.legalMoves.Len() == 0 ||
		g.board.HalfMoveClock >= 100 ||
		g.board.InsufficientMaterial() ||
		g.IsThreefoldRepetition()
}

// WinDrawLoose classifies a terminal position per spec.md S6's literal
// contract: 0 on any stalemate or drawn ending, 1 if black wins, 2 if
// white wins -- these are wire values, not Result's own (Ongoing-
// shifted) numbering. Calling it on a non-terminal position is a usage
// error; callers should check GameOver first.
func (g *GameState) WinDrawLoose() int {
	if g.legalMoves.Len() == 0 && g.board.InCheck {
		if g.board.WhiteToMove {
			return 1 // black wins
		}
		return 2 // white wins
	}
	return 0 // draw
}

// Outcome is WinDrawLoose reinterpreted as a Result, or Ongoing if the
// position is not terminal.
func (g *GameState) Outcome() Result {
	if !g.GameOver() {
		return Ongoing
	}
	switch g.WinDrawLoose() {
	case 1:
		return BlackWins
	case 2:
		return WhiteWins
	default:
		return Draw
	}
}
