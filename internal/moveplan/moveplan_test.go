package moveplan

import (
	"testing"

	"github.com/okamura27/annan-client/internal/notation"
	"github.com/okamura27/annan-client/internal/session"
	"github.com/okamura27/annan-client/pkg/annandto"
)

func snapWith(moves ...string) *annandto.Snapshot {
	return &annandto.Snapshot{
		Turn:       annandto.Black,
		Result:     annandto.ResultOngoing,
		LegalMoves: moves,
	}
}

func sq(t *testing.T, tok string) notation.Square {
	t.Helper()
	s, err := notation.ParseSquare(tok)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", tok, err)
	}
	return s
}

func TestTargetLegalFromSquarePrefix(t *testing.T) {
	snap := snapWith("7g7f", "2b1a+", "P*5e")
	if !TargetLegalFromSquare(snap, sq(t, "7g"), sq(t, "7f")) {
		t.Fatalf("expected 7g7f to highlight")
	}
	// promoting-only geometric move still highlights via prefix
	if !TargetLegalFromSquare(snap, sq(t, "2b"), sq(t, "1a")) {
		t.Fatalf("expected 2b1a to highlight from promoting variant")
	}
	if TargetLegalFromSquare(snap, sq(t, "7g"), sq(t, "7e")) {
		t.Fatalf("7g7e is not legal, must not highlight")
	}
}

func TestTargetLegalFromReserveExact(t *testing.T) {
	snap := snapWith("7g7f", "P*5e")
	if !TargetLegalFromReserve(snap, notation.KindFU, sq(t, "5e")) {
		t.Fatalf("expected P*5e to highlight")
	}
	if TargetLegalFromReserve(snap, notation.KindFU, sq(t, "5d")) {
		t.Fatalf("P*5d is not legal, must not highlight")
	}
	if TargetLegalFromReserve(snap, notation.KindKI, sq(t, "5e")) {
		t.Fatalf("G*5e is not legal, must not highlight")
	}
}

func TestTargetLegalUsesSelection(t *testing.T) {
	snap := snapWith("7g7f", "P*5e")
	sess := session.New()
	if TargetLegal(snap, sess, sq(t, "7f")) {
		t.Fatalf("no selection, nothing should highlight")
	}
	src := sq(t, "7g")
	sess.SetSelectedSquare(&src)
	if !TargetLegal(snap, sess, sq(t, "7f")) {
		t.Fatalf("square selection should highlight 7f")
	}
	sess.SetSelectedReserve(&session.Reserve{Color: annandto.Black, Kind: notation.KindFU})
	if !TargetLegal(snap, sess, sq(t, "5e")) {
		t.Fatalf("reserve selection should highlight 5e")
	}
	if TargetLegal(snap, sess, sq(t, "7f")) {
		t.Fatalf("reserve selection must not reuse the square highlight")
	}
}

func TestPlanBoardMove(t *testing.T) {
	snap := snapWith("7g7f", "2b1a", "2b1a+", "8h2b+")

	p := PlanBoardMove(snap, sq(t, "7g"), sq(t, "7f"))
	if p.Action != Submit || p.Move != "7g7f" {
		t.Fatalf("expected submit 7g7f, got %+v", p)
	}

	p = PlanBoardMove(snap, sq(t, "2b"), sq(t, "1a"))
	if p.Action != AskPromotion {
		t.Fatalf("expected promotion choice, got %+v", p)
	}
	if p.Pending.Src != sq(t, "2b") || p.Pending.Dst != sq(t, "1a") {
		t.Fatalf("pending pair mismatch: %+v", p.Pending)
	}

	// forced promotion: only the promoting token is legal
	p = PlanBoardMove(snap, sq(t, "8h"), sq(t, "2b"))
	if p.Action != Submit || p.Move != "8h2b+" {
		t.Fatalf("expected submit 8h2b+, got %+v", p)
	}

	p = PlanBoardMove(snap, sq(t, "1a"), sq(t, "1b"))
	if p.Action != None {
		t.Fatalf("expected no-op for illegal pair, got %+v", p)
	}
}

func TestPlanDrop(t *testing.T) {
	snap := snapWith("P*5e")
	p := PlanDrop(snap, notation.KindFU, sq(t, "5e"))
	if p.Action != Submit || p.Move != "P*5e" {
		t.Fatalf("expected submit P*5e, got %+v", p)
	}
	if p := PlanDrop(snap, notation.KindFU, sq(t, "5d")); p.Action != None {
		t.Fatalf("expected no-op for illegal drop, got %+v", p)
	}
}

func TestResolvePromotion(t *testing.T) {
	pending := session.PendingPromotion{Src: sq(t, "2b"), Dst: sq(t, "1a")}
	if got := ResolvePromotion(pending, true); got != "2b1a+" {
		t.Fatalf("promote: got %q", got)
	}
	if got := ResolvePromotion(pending, false); got != "2b1a" {
		t.Fatalf("decline: got %q", got)
	}
}

func TestHighlightMatchesLegalList(t *testing.T) {
	// Property from the legality contract: for a fixed source, a destination
	// highlights iff some legal token has the <src><dst> prefix.
	snap := snapWith("7g7f", "7g7e", "2b1a+", "P*5e")
	src := sq(t, "7g")
	for rank := 0; rank < 9; rank++ {
		for file := 1; file <= 9; file++ {
			dst := notation.Square{File: file, Rank: rank}
			want := false
			prefix := notation.BoardMove(src, dst)
			for _, m := range snap.LegalMoves {
				if len(m) >= 4 && m[:4] == prefix {
					want = true
				}
			}
			if got := TargetLegalFromSquare(snap, src, dst); got != want {
				t.Fatalf("highlight mismatch at %s: got %v want %v", dst.Token(), got, want)
			}
		}
	}
}
