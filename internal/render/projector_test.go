package render

import (
	"strings"
	"testing"

	"github.com/okamura27/annan-client/internal/msgcat"
	"github.com/okamura27/annan-client/internal/notation"
	"github.com/okamura27/annan-client/internal/session"
	"github.com/okamura27/annan-client/pkg/annandto"
)

func testProjector(t *testing.T) *Projector {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return NewProjector(cat)
}

func emptyBoard() [][]*annandto.Piece {
	b := make([][]*annandto.Piece, 9)
	for i := range b {
		b[i] = make([]*annandto.Piece, 9)
	}
	return b
}

func baseSnap() *annandto.Snapshot {
	return &annandto.Snapshot{
		Board:      emptyBoard(),
		Turn:       annandto.Black,
		Result:     annandto.ResultOngoing,
		BlackHand:  map[string]int{},
		WhiteHand:  map[string]int{},
		LegalMoves: []string{},
	}
}

func TestProjectSelectionAndTargets(t *testing.T) {
	snap := baseSnap()
	snap.Board[6][9-7] = &annandto.Piece{Type: "FU", Kanji: "歩", Color: annandto.Black}
	snap.LegalMoves = []string{"7g7f"}

	sess := session.New()
	sess.ReplaceSnapshot(snap)
	src := notation.Square{File: 7, Rank: 6}
	sess.SetSelectedSquare(&src)

	v := testProjector(t).Project(sess)
	if !v.Board[6][9-7].Selected {
		t.Fatalf("source cell must carry the selected flag")
	}
	if !v.Board[5][9-7].LegalTarget {
		t.Fatalf("7f must be flagged as a legal target")
	}
	if v.Board[4][9-7].LegalTarget {
		t.Fatalf("7e must not be flagged")
	}
}

func TestProjectReserveOrderAndClickable(t *testing.T) {
	snap := baseSnap()
	snap.BlackHand = map[string]int{"FU": 2, "HI": 1, "KI": 1}
	snap.WhiteHand = map[string]int{"KA": 1}

	sess := session.New()
	sess.ReplaceSnapshot(snap)
	v := testProjector(t).Project(sess)

	if len(v.BlackReserve) != 3 {
		t.Fatalf("expected 3 black reserve entries, got %d", len(v.BlackReserve))
	}
	// fixed priority: rook before gold before pawn
	if v.BlackReserve[0].Kind != notation.KindHI || v.BlackReserve[1].Kind != notation.KindKI || v.BlackReserve[2].Kind != notation.KindFU {
		t.Fatalf("reserve order wrong: %+v", v.BlackReserve)
	}
	if v.BlackReserve[2].Count != 2 {
		t.Fatalf("pawn count wrong: %+v", v.BlackReserve[2])
	}
	for _, e := range v.BlackReserve {
		if !e.Clickable {
			t.Fatalf("black entries must be clickable on black's turn: %+v", e)
		}
	}
	if len(v.WhiteReserve) != 1 || v.WhiteReserve[0].Clickable {
		t.Fatalf("white entries must not be clickable on black's turn: %+v", v.WhiteReserve)
	}
}

func TestProjectStatus(t *testing.T) {
	p := testProjector(t)

	snap := baseSnap()
	snap.InCheck = true
	snap.Ply = 21
	snap.Log = []string{"a", "b", "c", "d", "e", "f", "g"}
	sess := session.New()
	sess.ReplaceSnapshot(snap)

	v := p.Project(sess)
	if v.Status.TurnText != "▲先手番" || !v.Status.InCheck || v.Status.Ply != 21 {
		t.Fatalf("status wrong: %+v", v.Status)
	}
	if len(v.Status.LogTail) != 5 || v.Status.LogTail[4] != "g" {
		t.Fatalf("log tail wrong: %v", v.Status.LogTail)
	}

	sess.SetThinking(true)
	if got := p.Project(sess).Status.TurnText; got != "AI思考中..." {
		t.Fatalf("thinking text wrong: %q", got)
	}
	sess.SetThinking(false)

	snap.Result = annandto.ResultWhiteWin
	v = p.Project(sess)
	if v.Status.ResultText != "後手の勝ち" || v.Status.TurnText != "" {
		t.Fatalf("terminal status wrong: %+v", v.Status)
	}
}

func TestProjectIsStateless(t *testing.T) {
	p := testProjector(t)
	snap := baseSnap()
	sess := session.New()
	sess.ReplaceSnapshot(snap)
	a := p.Project(sess)
	b := p.Project(sess)
	if a.Status.TurnText != b.Status.TurnText || a.Status.Ply != b.Status.Ply || a.Board != b.Board {
		t.Fatalf("projection must be re-derivable: %+v vs %+v", a.Status, b.Status)
	}
}

func TestFormatBoard(t *testing.T) {
	snap := baseSnap()
	snap.Board[6][9-7] = &annandto.Piece{Type: "FU", Kanji: "歩", Color: annandto.Black}
	snap.BlackHand = map[string]int{"KI": 1}
	sess := session.New()
	sess.ReplaceSnapshot(snap)

	out := Format(testProjector(t).Project(sess))
	if !strings.Contains(out, "▲歩") {
		t.Fatalf("board text missing piece:\n%s", out)
	}
	if !strings.Contains(out, "▲持駒 金") {
		t.Fatalf("reserve line missing:\n%s", out)
	}
	if !strings.Contains(out, "▲先手番") {
		t.Fatalf("status line missing:\n%s", out)
	}
}

func TestFormatShowsAnnanEffect(t *testing.T) {
	snap := baseSnap()
	snap.Board[6][9-7] = &annandto.Piece{Type: "FU", Kanji: "歩", Color: annandto.Black}
	ai := make([][]*annandto.AnnanEffect, 9)
	for i := range ai {
		ai[i] = make([]*annandto.AnnanEffect, 9)
	}
	ai[6][9-7] = &annandto.AnnanEffect{EffectiveType: "KY", EffectiveKanji: "香"}
	snap.AnnanInfo = ai
	sess := session.New()
	sess.ReplaceSnapshot(snap)

	out := Format(testProjector(t).Project(sess))
	if !strings.Contains(out, "▲香") {
		t.Fatalf("expected effective glyph in output:\n%s", out)
	}
}
