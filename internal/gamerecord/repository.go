// Package gamerecord persists final game results to Postgres.
package gamerecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/okamura27/annan-client/pkg/annandto"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult upserts the final state of a finished game.
func (r *Repository) SaveResult(ctx context.Context, id string, snap *annandto.Snapshot) error {
	if r == nil || r.db == nil || snap == nil {
		return nil
	}
	if !snap.Result.Terminal() {
		return nil
	}
	logRaw, _ := json.Marshal(snap.Log)

	q := `INSERT INTO annan_games (
	    game_id, result, ply, move_log, kif, ai_color, ended_at
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7
	  ) ON CONFLICT (game_id) DO UPDATE SET
	    result=EXCLUDED.result,
	    ply=EXCLUDED.ply,
	    move_log=EXCLUDED.move_log,
	    kif=EXCLUDED.kif,
	    ai_color=EXCLUDED.ai_color,
	    ended_at=EXCLUDED.ended_at`

	var aiColor sql.NullString
	if snap.AIColor != nil {
		aiColor = sql.NullString{String: string(*snap.AIColor), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		strings.TrimSpace(id),
		string(snap.Result), snap.Ply,
		string(logRaw), snap.Kif,
		aiColor, time.Now(),
	)
	return err
}
