package notation

import (
	"fmt"
	"strings"
)

// Square addresses a board cell: File 1..9, Rank 0..8 where rank 0 is the
// farthest rank ("a") from Black's point of view.
type Square struct {
	File int
	Rank int
}

func (s Square) Valid() bool {
	return s.File >= 1 && s.File <= 9 && s.Rank >= 0 && s.Rank <= 8
}

// Token encodes the square as the server expects it: file digit + rank letter,
// e.g. {7, 6} → "7g".
func (s Square) Token() string {
	return fmt.Sprintf("%d%c", s.File, 'a'+rune(s.Rank))
}

// ParseSquare decodes a two-character square token.
func ParseSquare(tok string) (Square, error) {
	tok = strings.TrimSpace(tok)
	if len(tok) != 2 {
		return Square{}, fmt.Errorf("bad square token %q", tok)
	}
	sq := Square{File: int(tok[0] - '0'), Rank: int(tok[1] - 'a')}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("square %q out of range", tok)
	}
	return sq, nil
}

// BoardMove builds the non-promoting token for a board-to-board move.
func BoardMove(src, dst Square) string {
	return src.Token() + dst.Token()
}

// Promote appends the promotion marker to a board move token.
func Promote(move string) string {
	return move + "+"
}

// Base piece kinds, in the server's spelling.
const (
	KindFU = "FU"
	KindKY = "KY"
	KindKE = "KE"
	KindGI = "GI"
	KindKI = "KI"
	KindKA = "KA"
	KindHI = "HI"
	KindOU = "OU"
)

var dropLetters = map[string]byte{
	KindFU: 'P',
	KindKY: 'L',
	KindKE: 'N',
	KindGI: 'S',
	KindKI: 'G',
	KindKA: 'B',
	KindHI: 'R',
	KindOU: 'K',
}

// HandOrder is the fixed display priority for reserve pieces.
var HandOrder = []string{KindHI, KindKA, KindKI, KindGI, KindKE, KindKY, KindFU}

var kindKanji = map[string]string{
	KindFU: "歩", KindKY: "香", KindKE: "桂", KindGI: "銀",
	KindKI: "金", KindKA: "角", KindHI: "飛", KindOU: "玉",
	"TO": "と", "NY": "杏", "NK": "圭", "NG": "全",
	"UM": "馬", "RY": "龍",
}

// Kanji returns the display glyph for a piece kind, or "?" when unknown.
// Board pieces carry their glyph on the wire; this covers hand pieces, which
// come as bare kind counts.
func Kanji(kind string) string {
	if k, ok := kindKanji[kind]; ok {
		return k
	}
	return "?"
}

// KindForLetter maps a drop letter back to its piece kind, e.g. 'P' → FU.
func KindForLetter(letter byte) (string, bool) {
	for kind, l := range dropLetters {
		if l == letter {
			return kind, true
		}
	}
	return "", false
}

// DropMove builds the reserve-drop token for a base piece kind, e.g. "P*5e".
func DropMove(kind string, dst Square) (string, error) {
	letter, ok := dropLetters[kind]
	if !ok {
		return "", fmt.Errorf("kind %q cannot be dropped", kind)
	}
	return string(letter) + "*" + dst.Token(), nil
}
