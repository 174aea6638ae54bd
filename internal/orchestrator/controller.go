// Package orchestrator drives the interaction state machine: it owns the only
// code path that mutates the session, serializes every mutating request, and
// runs automated (engine) turns after each snapshot replacement.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/okamura27/annan-client/internal/annanapi"
	"github.com/okamura27/annan-client/internal/gamerecord"
	"github.com/okamura27/annan-client/internal/kifstore"
	"github.com/okamura27/annan-client/internal/moveplan"
	"github.com/okamura27/annan-client/internal/notation"
	"github.com/okamura27/annan-client/internal/obslog"
	"github.com/okamura27/annan-client/internal/session"
	"github.com/okamura27/annan-client/pkg/annandto"
)

// API is the slice of the Annan server contract the controller needs.
// *annanapi.Client satisfies it; tests plug in a fake.
type API interface {
	State(ctx context.Context) (*annandto.Snapshot, error)
	Move(ctx context.Context, move string) (*annandto.Snapshot, error)
	Undo(ctx context.Context) (*annandto.Snapshot, error)
	Resign(ctx context.Context) (*annandto.Snapshot, error)
	Reset(ctx context.Context) (*annandto.Snapshot, error)
	AIMove(ctx context.Context) (*annandto.Snapshot, error)
	SetConfig(ctx context.Context, aiMode string) (*annandto.ConfigResponse, error)
}

// ErrorSink receives failures that the user must see (transport errors,
// automated-move failures). The controller never retries on its own.
type ErrorSink func(err error)

type Controller struct {
	api     API
	sess    *session.Session
	errSink ErrorSink

	// busy serializes human-driven mutating requests; aiPending is the
	// reentrancy guard for the automated-turn loop. Both are plain bools:
	// all input arrives on one logical flow.
	busy      bool
	aiPending bool

	kif      *kifstore.Store
	records  *gamerecord.Repository
	archived bool
}

func New(api API, sess *session.Session, sink ErrorSink) *Controller {
	if sink == nil {
		sink = func(error) {}
	}
	return &Controller{api: api, sess: sess, errSink: sink}
}

// AttachKifStore wires the redis archive for finished games.
func (c *Controller) AttachKifStore(s *kifstore.Store) {
	if c != nil {
		c.kif = s
	}
}

// AttachRepository wires the database repository for finished games.
func (c *Controller) AttachRepository(r *gamerecord.Repository) {
	if c != nil {
		c.records = r
	}
}

// Session exposes the owned state for projection.
func (c *Controller) Session() *session.Session { return c.sess }

// Busy reports whether a mutating request is outstanding.
func (c *Controller) Busy() bool { return c.busy || c.aiPending }

// Refresh fetches the authoritative snapshot and re-evaluates the turn.
func (c *Controller) Refresh(ctx context.Context) error {
	snap, err := c.api.State(ctx)
	if err != nil {
		c.surface(fmt.Errorf("state fetch: %w", err))
		return err
	}
	c.applySnapshot(ctx, snap)
	return nil
}

// inputBlocked covers the global ignore rules: nothing selected or submitted
// before the first snapshot, while a request is in flight, or while the engine
// is thinking.
func (c *Controller) inputBlocked() bool {
	return c.sess.Current() == nil || c.busy || c.aiPending || c.sess.Thinking()
}

// ClickSquare handles one board click. Ordering per the interaction machine:
// commit to a highlighted destination first, otherwise (re)select an own
// piece, otherwise clear.
func (c *Controller) ClickSquare(ctx context.Context, sq notation.Square) error {
	if c.inputBlocked() || !sq.Valid() {
		return nil
	}
	snap := c.sess.Current()
	if snap.Result.Terminal() {
		return nil
	}
	// the promotion dialog owns the input until resolved
	if c.sess.PendingPromotion() != nil {
		return nil
	}

	if r := c.sess.SelectedReserve(); r != nil {
		if plan := moveplan.PlanDrop(snap, r.Kind, sq); plan.Action == moveplan.Submit {
			return c.submit(ctx, plan.Move)
		}
	} else if src := c.sess.SelectedSquare(); src != nil {
		if *src == sq {
			c.sess.ClearSelection()
			return nil
		}
		plan := moveplan.PlanBoardMove(snap, *src, sq)
		switch plan.Action {
		case moveplan.Submit:
			return c.submit(ctx, plan.Move)
		case moveplan.AskPromotion:
			pending := plan.Pending
			c.sess.SetPendingPromotion(&pending)
			return nil
		}
	}

	// not a commit: start or drop the selection
	if p := snap.PieceAt(sq.File, sq.Rank); p != nil && p.Color == snap.Turn {
		s := sq
		c.sess.SetSelectedSquare(&s)
	} else {
		c.sess.ClearSelection()
	}
	return nil
}

// ClickReserve toggles a hand-piece selection. Reserve entries are clickable
// only on the owning side's turn and with at least one piece in hand.
func (c *Controller) ClickReserve(ctx context.Context, color annandto.Color, kind string) error {
	if c.inputBlocked() {
		return nil
	}
	snap := c.sess.Current()
	if snap.Result.Terminal() || c.sess.PendingPromotion() != nil {
		return nil
	}
	if color != snap.Turn || snap.Hand(color)[kind] <= 0 {
		return nil
	}
	if r := c.sess.SelectedReserve(); r != nil && r.Color == color && r.Kind == kind {
		c.sess.ClearSelection()
		return nil
	}
	c.sess.SetSelectedReserve(&session.Reserve{Color: color, Kind: kind})
	return nil
}

// ResolvePromotion answers the pending promotion dialog. The pending pair is
// cleared before submission so a failed request cannot leave it stale.
func (c *Controller) ResolvePromotion(ctx context.Context, promote bool) error {
	pending := c.sess.PendingPromotion()
	if pending == nil || c.busy || c.aiPending {
		return nil
	}
	move := moveplan.ResolvePromotion(*pending, promote)
	c.sess.SetPendingPromotion(nil)
	return c.submit(ctx, move)
}

// Undo retracts the last move. Allowed after a terminal result.
func (c *Controller) Undo(ctx context.Context) error {
	return c.run(ctx, "undo", c.api.Undo)
}

// Resign concedes the game for the side to move.
func (c *Controller) Resign(ctx context.Context) error {
	snap := c.sess.Current()
	if snap == nil || snap.Result.Terminal() {
		return nil
	}
	return c.run(ctx, "resign", c.api.Resign)
}

// Reset reinitializes the game to the starting position.
func (c *Controller) Reset(ctx context.Context) error {
	return c.run(ctx, "reset", c.api.Reset)
}

// SetAIMode switches the automated side ("black", "white", "none") and then
// refreshes the snapshot, which may immediately start an automated turn.
func (c *Controller) SetAIMode(ctx context.Context, mode string) error {
	if c.busy || c.aiPending {
		return nil
	}
	c.busy = true
	resp, err := c.api.SetConfig(ctx, mode)
	c.busy = false
	if err != nil {
		c.surface(fmt.Errorf("config change: %w", err))
		return err
	}
	obslog.L().Info("ai_mode_set",
		zap.String("mode", mode),
		zap.Any("ai_color", resp.AIColor),
	)
	c.sess.ClearSelection()
	return c.Refresh(ctx)
}

// run executes one no-body mutating request under the busy guard.
func (c *Controller) run(ctx context.Context, name string, call func(context.Context) (*annandto.Snapshot, error)) error {
	if c.sess.Current() == nil || c.busy || c.aiPending {
		return nil
	}
	c.busy = true
	snap, err := call(ctx)
	c.busy = false
	c.sess.ClearSelection()
	if err != nil {
		c.surface(fmt.Errorf("%s: %w", name, err))
		return err
	}
	obslog.L().Info("session_update", zap.String("op", name), zap.Int("ply", snap.Ply))
	c.applySnapshot(ctx, snap)
	return nil
}

// submit sends one move token. Selection is cleared whether or not the server
// accepts; an illegal-move rejection means the local legal-move view was out
// of sync, so the snapshot is refetched instead of surfacing the error.
func (c *Controller) submit(ctx context.Context, move string) error {
	if c.busy || c.aiPending {
		return nil
	}
	c.busy = true
	snap, err := c.api.Move(ctx, move)
	c.busy = false
	c.sess.ClearSelection()
	if err != nil {
		if ae, ok := annanapi.AsAPIError(err); ok {
			obslog.L().Warn("move_rejected",
				zap.String("move", move),
				zap.Int("status", ae.Status),
				zap.String("server_error", ae.Message),
			)
			if fresh, ferr := c.api.State(ctx); ferr == nil {
				c.applySnapshot(ctx, fresh)
			}
			return nil
		}
		c.surface(fmt.Errorf("move %s: %w", move, err))
		return err
	}
	obslog.L().Info("move_applied", zap.String("move", move), zap.Int("ply", snap.Ply))
	c.applySnapshot(ctx, snap)
	return nil
}

// applySnapshot installs a new snapshot, archives a terminal game once, and
// re-evaluates the automated turn.
func (c *Controller) applySnapshot(ctx context.Context, snap *annandto.Snapshot) {
	c.sess.ReplaceSnapshot(snap)
	c.maybeArchive(ctx)
	c.evaluateAutomated(ctx)
}

// evaluateAutomated runs engine turns as an explicit loop, one request per
// iteration, so AI-vs-AI configurations terminate visibly instead of through
// recursion. aiPending prevents a second request while one is outstanding, no
// matter how many times evaluation is triggered in between.
func (c *Controller) evaluateAutomated(ctx context.Context) {
	for {
		snap := c.sess.Current()
		if snap == nil || snap.Result.Terminal() {
			return
		}
		ai, ok := snap.AutomatedSide()
		if !ok || ai != snap.Turn {
			return
		}
		if c.aiPending {
			return
		}
		c.aiPending = true
		c.sess.ClearSelection()
		c.sess.SetThinking(true)
		obslog.L().Info("ai_turn_start", zap.String("side", string(ai)), zap.Int("ply", snap.Ply))

		next, err := c.api.AIMove(ctx)

		c.sess.SetThinking(false)
		c.aiPending = false
		if err != nil {
			c.surface(fmt.Errorf("automated move: %w", err))
			return
		}
		c.sess.ReplaceSnapshot(next)
		c.maybeArchive(ctx)
		obslog.L().Info("ai_turn_done", zap.Int("ply", next.Ply), zap.String("result", string(next.Result)))
	}
}

// maybeArchive saves a finished game exactly once per game to the attached
// stores. The flag rearms as soon as an ongoing snapshot arrives (undo/reset).
func (c *Controller) maybeArchive(ctx context.Context) {
	snap := c.sess.Current()
	if snap == nil {
		return
	}
	if !snap.Result.Terminal() {
		c.archived = false
		return
	}
	if c.archived {
		return
	}
	c.archived = true
	if c.kif == nil && c.records == nil {
		return
	}
	id := uuid.NewString()
	if c.kif != nil {
		if err := c.kif.SaveFinal(ctx, id, snap); err != nil {
			obslog.L().Error("kif_archive_error", zap.String("game_id", id), zap.Error(err))
		}
	}
	if c.records != nil {
		if err := c.records.SaveResult(ctx, id, snap); err != nil {
			obslog.L().Error("game_record_error", zap.String("game_id", id), zap.Error(err))
		}
	}
}

func (c *Controller) surface(err error) {
	obslog.L().Error("request_error", zap.Error(err))
	c.errSink(err)
}
