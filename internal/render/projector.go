// Package render projects the session state into a display description. The
// projection is a pure function of snapshot + selection and is re-derived on
// every repaint; nothing here accumulates state.
package render

import (
	"github.com/okamura27/annan-client/internal/moveplan"
	"github.com/okamura27/annan-client/internal/msgcat"
	"github.com/okamura27/annan-client/internal/notation"
	"github.com/okamura27/annan-client/internal/session"
	"github.com/okamura27/annan-client/pkg/annandto"
)

// Cell describes one board square.
type Cell struct {
	Piece       *annandto.Piece
	Effect      *annandto.AnnanEffect
	Selected    bool
	LegalTarget bool
}

// ReserveEntry describes one hand-piece row.
type ReserveEntry struct {
	Kind      string
	Kanji     string
	Count     int
	Selected  bool
	Clickable bool
}

// Status describes the header line.
type Status struct {
	TurnText        string
	ResultText      string
	Thinking        bool
	InCheck         bool
	Ply             int
	PromotionPrompt string
	LogTail         []string
}

// View is the full display description: 81 cells, two reserves, one status.
type View struct {
	Board        [9][9]Cell // [rank][col], col 0 = file 9, matching the wire
	BlackReserve []ReserveEntry
	WhiteReserve []ReserveEntry
	Status       Status
}

const logTailLen = 5

type Projector struct {
	cat *msgcat.Catalog
}

func NewProjector(cat *msgcat.Catalog) *Projector {
	return &Projector{cat: cat}
}

// Project derives the view for the current snapshot and selection.
func (p *Projector) Project(sess *session.Session) View {
	var v View
	snap := sess.Current()
	if snap == nil {
		return v
	}

	selected := sess.SelectedSquare()
	for rank := 0; rank < 9; rank++ {
		for col := 0; col < 9; col++ {
			file := 9 - col
			sq := notation.Square{File: file, Rank: rank}
			cell := Cell{
				Piece:  snap.PieceAt(file, rank),
				Effect: snap.EffectAt(file, rank),
			}
			if selected != nil && *selected == sq {
				cell.Selected = true
			}
			cell.LegalTarget = moveplan.TargetLegal(snap, sess, sq)
			v.Board[rank][col] = cell
		}
	}

	v.BlackReserve = p.reserve(snap, sess, annandto.Black)
	v.WhiteReserve = p.reserve(snap, sess, annandto.White)
	v.Status = p.status(snap, sess)
	return v
}

func (p *Projector) reserve(snap *annandto.Snapshot, sess *session.Session, color annandto.Color) []ReserveEntry {
	hand := snap.Hand(color)
	sel := sess.SelectedReserve()
	entries := make([]ReserveEntry, 0, len(notation.HandOrder))
	for _, kind := range notation.HandOrder {
		count := hand[kind]
		if count <= 0 {
			continue
		}
		e := ReserveEntry{
			Kind:      kind,
			Kanji:     notation.Kanji(kind),
			Count:     count,
			Clickable: color == snap.Turn && !snap.Result.Terminal(),
		}
		if sel != nil && sel.Color == color && sel.Kind == kind {
			e.Selected = true
		}
		entries = append(entries, e)
	}
	return entries
}

func (p *Projector) status(snap *annandto.Snapshot, sess *session.Session) Status {
	st := Status{
		Thinking: sess.Thinking(),
		InCheck:  snap.InCheck,
		Ply:      snap.Ply,
	}
	switch snap.Result {
	case annandto.ResultBlackWin:
		st.ResultText = p.cat.Get("result.black_win")
	case annandto.ResultWhiteWin:
		st.ResultText = p.cat.Get("result.white_win")
	case annandto.ResultDraw:
		st.ResultText = p.cat.Get("result.draw")
	default:
		if st.Thinking {
			st.TurnText = p.cat.Get("status.thinking")
		} else if snap.Turn == annandto.Black {
			st.TurnText = p.cat.Get("status.turn_black")
		} else {
			st.TurnText = p.cat.Get("status.turn_white")
		}
	}
	if sess.PendingPromotion() != nil {
		st.PromotionPrompt = p.cat.Get("prompt.promotion")
	}
	if n := len(snap.Log); n > 0 {
		tail := n - logTailLen
		if tail < 0 {
			tail = 0
		}
		st.LogTail = snap.Log[tail:]
	}
	return st
}
