package render

import (
	"fmt"
	"strings"

	"github.com/okamura27/annan-client/pkg/annandto"
)

// Format renders a view as a fixed-width text board for the CLI.
// Files run 9..1 left to right, ranks a..i top to bottom, matching KIF
// orientation. Selected squares use [ ], legal targets use ( ).
func Format(v View) string {
	var b strings.Builder

	if v.Status.ResultText != "" {
		b.WriteString(v.Status.ResultText)
	} else {
		b.WriteString(v.Status.TurnText)
	}
	if v.Status.InCheck && v.Status.ResultText == "" {
		b.WriteString("  王手")
	}
	fmt.Fprintf(&b, "  (%d手)\n", v.Status.Ply)

	b.WriteString(reserveLine("△", v.WhiteReserve))
	b.WriteString("   ９ ８ ７ ６ ５ ４ ３ ２ １\n")
	b.WriteString("  +---------------------------+\n")
	for rank := 0; rank < 9; rank++ {
		fmt.Fprintf(&b, " %c|", 'a'+rune(rank))
		for col := 0; col < 9; col++ {
			b.WriteString(cellText(v.Board[rank][col]))
		}
		b.WriteString("|\n")
	}
	b.WriteString("  +---------------------------+\n")
	b.WriteString(reserveLine("▲", v.BlackReserve))

	if v.Status.PromotionPrompt != "" {
		b.WriteString(v.Status.PromotionPrompt)
		b.WriteString("\n")
	}
	for _, line := range v.Status.LogTail {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func cellText(c Cell) string {
	body := " ・"
	if c.Piece != nil {
		mark := "▲"
		if c.Piece.Color == annandto.White {
			mark = "△"
		}
		glyph := c.Piece.Kanji
		if c.Effect != nil {
			// Annan effect: show the effective movement glyph
			glyph = c.Effect.EffectiveKanji
		}
		body = mark + glyph
	}
	switch {
	case c.Selected:
		return "[" + body + "]"
	case c.LegalTarget:
		return "(" + body + ")"
	default:
		return " " + body + " "
	}
}

func reserveLine(mark string, entries []ReserveEntry) string {
	if len(entries) == 0 {
		return mark + "持駒 なし\n"
	}
	var b strings.Builder
	b.WriteString(mark)
	b.WriteString("持駒")
	for _, e := range entries {
		b.WriteString(" ")
		if e.Selected {
			b.WriteString("[")
		}
		b.WriteString(e.Kanji)
		if e.Count > 1 {
			fmt.Fprintf(&b, "x%d", e.Count)
		}
		if e.Selected {
			b.WriteString("]")
		}
	}
	b.WriteString("\n")
	return b.String()
}
