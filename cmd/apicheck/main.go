// apicheck probes an Annan shogi API server and prints a one-line summary.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/okamura27/annan-client/internal/annanapi"
)

func main() {
	baseURL := os.Getenv("ANNAN_BASE_URL")
	if baseURL == "" {
		log.Fatal("ANNAN_BASE_URL is required")
	}

	client := annanapi.NewClient(baseURL, annanapi.WithTimeout(8*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := client.State(ctx)
	if err != nil {
		log.Fatalf("/api/state error: %v", err)
	}

	aiColor := "none"
	if c, ok := snap.AutomatedSide(); ok {
		aiColor = string(c)
	}
	log.Printf("/api/state ok: turn=%s ply=%d result=%s legal_moves=%d in_check=%v ai_enabled=%v ai_color=%s",
		snap.Turn, snap.Ply, snap.Result, len(snap.LegalMoves), snap.InCheck, snap.AIEnabled, aiColor)
}
