// Package session holds the client-side interaction state: the latest
// authoritative snapshot plus the transient selection. It performs no I/O;
// every mutation goes through its methods so the exclusivity invariants hold.
package session

import (
	"github.com/okamura27/annan-client/internal/notation"
	"github.com/okamura27/annan-client/pkg/annandto"
)

// Reserve identifies a selected hand piece.
type Reserve struct {
	Color annandto.Color
	Kind  string
}

// PendingPromotion is a source/destination pair awaiting the binary
// promote-or-not decision. It exists only between ambiguity detection and
// dialog resolution.
type PendingPromotion struct {
	Src notation.Square
	Dst notation.Square
}

// Session is the single owned state value shared by the move builder, the
// orchestrator, and the projector. At most one of selected square / selected
// reserve is active at any time.
type Session struct {
	snap     *annandto.Snapshot
	square   *notation.Square
	reserve  *Reserve
	pending  *PendingPromotion
	thinking bool
}

func New() *Session { return &Session{} }

// Current returns the latest snapshot, nil before the first fetch.
func (s *Session) Current() *annandto.Snapshot { return s.snap }

// ReplaceSnapshot swaps in a new authoritative snapshot wholesale.
func (s *Session) ReplaceSnapshot(snap *annandto.Snapshot) { s.snap = snap }

func (s *Session) SelectedSquare() *notation.Square    { return s.square }
func (s *Session) SelectedReserve() *Reserve           { return s.reserve }
func (s *Session) PendingPromotion() *PendingPromotion { return s.pending }

// SetSelectedSquare selects a board square, dropping any reserve selection.
func (s *Session) SetSelectedSquare(sq *notation.Square) {
	s.square = sq
	if sq != nil {
		s.reserve = nil
	}
}

// SetSelectedReserve selects a hand piece, dropping any square selection.
func (s *Session) SetSelectedReserve(r *Reserve) {
	s.reserve = r
	if r != nil {
		s.square = nil
	}
}

func (s *Session) SetPendingPromotion(p *PendingPromotion) { s.pending = p }

// ClearSelection drops square, reserve, and pending promotion together.
func (s *Session) ClearSelection() {
	s.square = nil
	s.reserve = nil
	s.pending = nil
}

func (s *Session) Thinking() bool     { return s.thinking }
func (s *Session) SetThinking(v bool) { s.thinking = v }
