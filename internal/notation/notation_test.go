package notation

import "testing"

func TestSquareToken(t *testing.T) {
	cases := []struct {
		sq   Square
		want string
	}{
		{Square{File: 7, Rank: 6}, "7g"},
		{Square{File: 1, Rank: 0}, "1a"},
		{Square{File: 9, Rank: 8}, "9i"},
	}
	for _, c := range cases {
		if got := c.sq.Token(); got != c.want {
			t.Fatalf("Token(%+v) = %q, want %q", c.sq, got, c.want)
		}
		back, err := ParseSquare(c.want)
		if err != nil || back != c.sq {
			t.Fatalf("ParseSquare(%q) = %+v, %v", c.want, back, err)
		}
	}
}

func TestParseSquareRejectsBadTokens(t *testing.T) {
	for _, tok := range []string{"", "7", "7g7f", "0a", "1j", "ag"} {
		if _, err := ParseSquare(tok); err == nil {
			t.Fatalf("ParseSquare(%q) should fail", tok)
		}
	}
}

func TestBoardMoveAndPromote(t *testing.T) {
	src := Square{File: 2, Rank: 1}
	dst := Square{File: 1, Rank: 0}
	if got := BoardMove(src, dst); got != "2b1a" {
		t.Fatalf("BoardMove = %q", got)
	}
	if got := Promote(BoardMove(src, dst)); got != "2b1a+" {
		t.Fatalf("Promote = %q", got)
	}
}

func TestDropMoveLetters(t *testing.T) {
	dst := Square{File: 5, Rank: 4}
	cases := map[string]string{
		KindFU: "P*5e", KindKY: "L*5e", KindKE: "N*5e", KindGI: "S*5e",
		KindKI: "G*5e", KindKA: "B*5e", KindHI: "R*5e", KindOU: "K*5e",
	}
	for kind, want := range cases {
		got, err := DropMove(kind, dst)
		if err != nil || got != want {
			t.Fatalf("DropMove(%s) = %q, %v; want %q", kind, got, err, want)
		}
	}
	if _, err := DropMove("TO", dst); err == nil {
		t.Fatalf("promoted kinds cannot be dropped")
	}
}

func TestKanji(t *testing.T) {
	if Kanji(KindFU) != "歩" || Kanji("RY") != "龍" {
		t.Fatalf("glyph table wrong")
	}
	if Kanji("XX") != "?" {
		t.Fatalf("unknown kind should map to ?")
	}
}
