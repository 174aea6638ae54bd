// Package moveplan turns a selection plus a destination into move tokens,
// gated by the snapshot's legal-move list. The list is exhaustive and
// authoritative; nothing here re-derives legality.
package moveplan

import (
	"strings"

	"github.com/okamura27/annan-client/internal/notation"
	"github.com/okamura27/annan-client/internal/session"
	"github.com/okamura27/annan-client/pkg/annandto"
)

// Action is the outcome of planning a committed destination.
type Action int

const (
	// None: the destination matches no legal move. Defensive; consistent
	// highlight queries keep the UI from offering it in the first place.
	None Action = iota
	// Submit: exactly one token applies, send it.
	Submit
	// AskPromotion: both plain and promoting tokens are legal; the user must
	// decide before anything is sent.
	AskPromotion
)

// Plan is the decision for one committed destination.
type Plan struct {
	Action  Action
	Move    string
	Pending session.PendingPromotion
}

func hasMove(snap *annandto.Snapshot, tok string) bool {
	if snap == nil {
		return false
	}
	for _, m := range snap.LegalMoves {
		if m == tok {
			return true
		}
	}
	return false
}

func hasPrefix(snap *annandto.Snapshot, prefix string) bool {
	if snap == nil {
		return false
	}
	for _, m := range snap.LegalMoves {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// TargetLegalFromSquare reports whether dst is a legal destination for the
// piece on src, covering both the promoting and non-promoting variants.
func TargetLegalFromSquare(snap *annandto.Snapshot, src, dst notation.Square) bool {
	return hasPrefix(snap, notation.BoardMove(src, dst))
}

// TargetLegalFromReserve reports whether dropping kind on dst is legal.
// Drops match exactly; they never promote.
func TargetLegalFromReserve(snap *annandto.Snapshot, kind string, dst notation.Square) bool {
	tok, err := notation.DropMove(kind, dst)
	if err != nil {
		return false
	}
	return hasMove(snap, tok)
}

// TargetLegal answers the highlight query for whatever is selected in sess.
func TargetLegal(snap *annandto.Snapshot, sess *session.Session, dst notation.Square) bool {
	if sess == nil {
		return false
	}
	if src := sess.SelectedSquare(); src != nil {
		return TargetLegalFromSquare(snap, *src, dst)
	}
	if r := sess.SelectedReserve(); r != nil {
		return TargetLegalFromReserve(snap, r.Kind, dst)
	}
	return false
}

// PlanBoardMove decides what to do for a committed board-to-board move.
func PlanBoardMove(snap *annandto.Snapshot, src, dst notation.Square) Plan {
	plain := notation.BoardMove(src, dst)
	promoted := notation.Promote(plain)
	plainOK := hasMove(snap, plain)
	promotedOK := hasMove(snap, promoted)
	switch {
	case plainOK && promotedOK:
		return Plan{Action: AskPromotion, Pending: session.PendingPromotion{Src: src, Dst: dst}}
	case plainOK:
		return Plan{Action: Submit, Move: plain}
	case promotedOK:
		return Plan{Action: Submit, Move: promoted}
	default:
		return Plan{Action: None}
	}
}

// PlanDrop decides what to do for a committed reserve drop.
func PlanDrop(snap *annandto.Snapshot, kind string, dst notation.Square) Plan {
	tok, err := notation.DropMove(kind, dst)
	if err != nil || !hasMove(snap, tok) {
		return Plan{Action: None}
	}
	return Plan{Action: Submit, Move: tok}
}

// ResolvePromotion builds the final token for a pending promotion decision.
func ResolvePromotion(p session.PendingPromotion, promote bool) string {
	tok := notation.BoardMove(p.Src, p.Dst)
	if promote {
		tok = notation.Promote(tok)
	}
	return tok
}
