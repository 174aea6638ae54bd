// annan-cli is a terminal front-end for the Annan shogi API server. It reads
// click commands from stdin, drives the interaction state machine, and redraws
// the projected board after every event.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/okamura27/annan-client/internal/annanapi"
	appcfg "github.com/okamura27/annan-client/internal/config"
	"github.com/okamura27/annan-client/internal/gamerecord"
	"github.com/okamura27/annan-client/internal/kifstore"
	"github.com/okamura27/annan-client/internal/msgcat"
	"github.com/okamura27/annan-client/internal/notation"
	"github.com/okamura27/annan-client/internal/obslog"
	"github.com/okamura27/annan-client/internal/orchestrator"
	"github.com/okamura27/annan-client/internal/render"
	"github.com/okamura27/annan-client/internal/session"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}

	cat, err := msgcat.New(cfg.MsgcatDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	client := annanapi.NewClient(cfg.BaseURL,
		annanapi.WithTimeout(cfg.RequestTimeout),
		annanapi.WithThinkTimeout(cfg.ThinkTimeout),
	)

	sess := session.New()
	ctrl := orchestrator.New(client, sess, func(err error) {
		msg, rerr := cat.Render("error.request_failed", map[string]any{"Reason": err.Error()})
		if rerr != nil {
			msg = err.Error()
		}
		fmt.Fprintln(os.Stderr, msg)
	})

	var kif *kifstore.Store
	if cfg.RedisURL != "" {
		kif, err = kifstore.New(cfg.RedisURL)
		if err != nil {
			log.Fatalf("kif store init error: %v", err)
		}
		ctrl.AttachKifStore(kif)
		defer kif.Close()
	}
	if cfg.DatabaseURL != "" {
		repo, err := gamerecord.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("game record init error: %v", err)
		}
		ctrl.AttachRepository(repo)
		defer repo.Close()
	}

	ctx := context.Background()
	if cfg.AIMode != "" {
		if err := ctrl.SetAIMode(ctx, cfg.AIMode); err != nil {
			os.Exit(1)
		}
	} else if err := ctrl.Refresh(ctx); err != nil {
		os.Exit(1)
	}

	projector := render.NewProjector(cat)
	redraw := func() {
		fmt.Print(render.Format(projector.Project(sess)))
	}
	redraw()
	printHelp()

	// One command per line; stdin is the event queue, so requests are
	// naturally serialized the way the orchestrator expects.
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}
		if !dispatch(ctx, ctrl, kif, line) {
			return
		}
		redraw()
		fmt.Print("> ")
	}
}

// dispatch runs one command; returns false to quit.
func dispatch(ctx context.Context, ctrl *orchestrator.Controller, kif *kifstore.Store, line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	switch cmd {
	case "q", "quit", "exit":
		return false
	case "y", "yes":
		_ = ctrl.ResolvePromotion(ctx, true)
	case "n", "no":
		_ = ctrl.ResolvePromotion(ctx, false)
	case "undo":
		_ = ctrl.Undo(ctx)
	case "resign":
		_ = ctrl.Resign(ctx)
	case "reset", "new":
		_ = ctrl.Reset(ctx)
	case "ai":
		if len(fields) == 2 {
			mode := strings.ToLower(fields[1])
			if mode == "black" || mode == "white" || mode == "none" {
				_ = ctrl.SetAIMode(ctx, mode)
			} else {
				fmt.Println("usage: ai black|white|none")
			}
		} else {
			fmt.Println("usage: ai black|white|none")
		}
	case "kif":
		if snap := ctrl.Session().Current(); snap != nil {
			fmt.Println(snap.Kif)
		}
	case "recent":
		printRecent(ctx, kif)
	case "help", "?":
		printHelp()
	default:
		clickCommand(ctx, ctrl, line)
	}
	return true
}

// clickCommand treats the input as a board or reserve click: "7g" clicks a
// square, "*P" selects the pawn in the side-to-move's hand.
func clickCommand(ctx context.Context, ctrl *orchestrator.Controller, line string) {
	snap := ctrl.Session().Current()
	if snap == nil {
		return
	}
	if strings.HasPrefix(line, "*") && len(line) == 2 {
		letter := strings.ToUpper(line[1:])[0]
		if kind, ok := notation.KindForLetter(letter); ok {
			_ = ctrl.ClickReserve(ctx, snap.Turn, kind)
			return
		}
		fmt.Println("unknown piece letter")
		return
	}
	sq, err := notation.ParseSquare(strings.ToLower(line))
	if err != nil {
		fmt.Println("unknown command; try `help`")
		return
	}
	_ = ctrl.ClickSquare(ctx, sq)
}

func printRecent(ctx context.Context, kif *kifstore.Store) {
	if kif == nil {
		fmt.Println("no kif store configured (set REDIS_URL)")
		return
	}
	ids, err := kif.Recent(ctx, 10)
	if err != nil {
		fmt.Printf("recent: %v\n", err)
		return
	}
	for _, id := range ids {
		rec, err := kif.Get(ctx, id)
		if err != nil || rec == nil {
			continue
		}
		fmt.Printf("%s  %s  %d手\n", rec.ID, rec.Result, rec.Ply)
	}
}

func printHelp() {
	fmt.Println(`commands:
  7g          click square (file 1-9, rank a-i)
  *P          select a hand piece (P L N S G B R)
  y / n       answer the promotion prompt
  undo resign reset
  ai black|white|none
  kif recent help quit`)
}
