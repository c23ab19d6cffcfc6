// Package search implements the engine's alpha-beta search: a
// single-thread Searcher with the four-call contract the coordinator
// drives, a shared lock-free transposition table, and a ParallelSearcher
// that fans a position out across a pool of Searchers and reconciles
// their results with a vote map.
package search

import (
	"sync/atomic"

	"github.com/corvidchess/engine/internal/board"
)

// Score bounds. MateScore minus the ply at which a mate is found gives
// mate-distance scores that still compare correctly against ordinary
// evaluations.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// TTFlag records whether a stored score is exact or a bound, because
// alpha-beta cutoffs only ever prove one side of the true value.
type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLowerBound
	TTUpperBound
)

// TTEntry is one transposition table slot. Key is the low 32 bits of
// the position hash, not the full 64. The slot index is taken from the
// lowest bits of that same range, so the upper 32 bits of the hash are
// never compared: two hashes that differ only there read as a hit.
type TTEntry struct {
	Key      uint32
	BestMove board.Move
	Score    int16
	Depth    int8
	Flag     TTFlag
	Age      uint8
}

// TranspositionTable is a flat, power-of-two-sized array shared by every
// Searcher in a ParallelSearcher's pool. Per spec.md S5, probes and
// stores are unsynchronized: concurrent writers can race on the same
// slot, but every entry is self-describing (Key), so a torn write is
// caught as an ordinary cache miss rather than trusted as a hit.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64
	age     uint8

	// probes/hits are hit-rate telemetry, not entry data: unlike the
	// entries themselves they carry no self-describing key to catch a
	// torn read, so every pool goroutine updates them through atomic
	// ops rather than relying on §5's "torn writes are fine" tolerance.
	probes atomic.Uint64
	hits   atomic.Uint64
}

// NewTranspositionTable allocates a table sized to approximately sizeMB
// megabytes, rounded down to a power of two entry count.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	entrySize := uint64(16) // bytes, packed TTEntry
	count := uint64(sizeMB) * 1024 * 1024 / entrySize
	count = roundDownToPowerOf2(count)
	if count == 0 {
		count = 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, count),
		mask:    count - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	p := uint64(1)
	for p*2 <= n {
		p *= 2
	}
	return p
}

func (tt *TranspositionTable) index(hash uint64) uint64 {
	return hash & tt.mask
}

// Probe looks up hash and reports whether the stored key matches (a
// hit). A hash mismatch on the occupying slot is an ordinary cache
// miss, not an error: the caller searches the position as if the table
// were empty there.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes.Add(1)
	e := tt.entries[tt.index(hash)]
	if e.Key != uint32(hash) {
		return TTEntry{}, false
	}
	tt.hits.Add(1)
	return e, true
}

// Store writes an entry for hash, replacing the occupying slot if it
// holds a different key, belongs to an older search generation, or was
// searched to a depth no greater than this one.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	idx := tt.index(hash)
	existing := &tt.entries[idx]
	if existing.Age != tt.age || int(existing.Depth) <= depth || existing.Key != uint32(hash) {
		*existing = TTEntry{
			Key:      uint32(hash),
			BestMove: bestMove,
			Score:    int16(score),
			Depth:    int8(depth),
			Flag:     flag,
			Age:      tt.age,
		}
	}
}

// NewSearch bumps the table's generation counter, so Store's
// replacement strategy prefers fresh entries over the previous search's
// leftovers without clearing the table.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear zeroes every entry and resets hit-rate counters.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.probes.Store(0)
	tt.hits.Store(0)
}

// Size returns the number of entry slots.
func (tt *TranspositionTable) Size() int {
	return len(tt.entries)
}

// HashFull estimates table occupancy in permille (0..1000), sampling
// the first 1000 slots the way UCI's "hashfull" info field does.
func (tt *TranspositionTable) HashFull() int {
	sample := 1000
	if sample > len(tt.entries) {
		sample = len(tt.entries)
	}
	used := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].Age == tt.age && tt.entries[i].Key != 0 {
			used++
		}
	}
	if sample == 0 {
		return 0
	}
	return used * 1000 / sample
}

// HitRate returns the fraction of probes that found a matching entry.
func (tt *TranspositionTable) HitRate() float64 {
	probes := tt.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(probes)
}

// AdjustScoreFromTT converts a mate score stored relative to the
// position where it was found into one relative to ply, the position
// where it's being read back.
func AdjustScoreFromTT(score, ply int) int {
	if score >= MateScore-MaxPly {
		return score - ply
	}
	if score <= -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT is AdjustScoreFromTT's inverse, applied before storing
// a mate score so it reads back correctly regardless of which ply it's
// probed from.
func AdjustScoreToTT(score, ply int) int {
	if score >= MateScore-MaxPly {
		return score + ply
	}
	if score <= -MateScore+MaxPly {
		return score - ply
	}
	return score
}
