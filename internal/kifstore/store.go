// Package kifstore archives finished games in redis: the KIF text, the final
// result, and the move log, keyed by game id with a rolling recent index.
package kifstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/okamura27/annan-client/internal/obslog"
	"github.com/okamura27/annan-client/pkg/annandto"
)

const (
	ttlGame     = 30 * 24 * time.Hour
	recentLimit = 50
)

// Record is one archived game.
type Record struct {
	ID      string          `json:"id"`
	Result  annandto.Result `json:"result"`
	Ply     int             `json:"ply"`
	Kif     string          `json:"kif"`
	Log     []string        `json:"log"`
	SavedAt time.Time       `json:"saved_at"`
}

type Store struct {
	rdb *redis.Client
}

// New connects to redis at redisURL (redis:// or rediss://).
func New(redisURL string) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for kif store")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func gameKey(id string) string { return "annan:game:" + strings.TrimSpace(id) }

const recentKey = "annan:recent"

// SaveFinal archives the finished game under id.
func (s *Store) SaveFinal(ctx context.Context, id string, snap *annandto.Snapshot) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("kif store not initialized")
	}
	if snap == nil || !snap.Result.Terminal() {
		return fmt.Errorf("game not finished")
	}
	rec := Record{
		ID:      strings.TrimSpace(id),
		Result:  snap.Result,
		Ply:     snap.Ply,
		Kif:     snap.Kif,
		Log:     snap.Log,
		SavedAt: time.Now(),
	}
	raw, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, gameKey(rec.ID), raw, ttlGame)
	pipe.LPush(ctx, recentKey, rec.ID)
	pipe.LTrim(ctx, recentKey, 0, recentLimit-1)
	pipe.Expire(ctx, recentKey, ttlGame)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	obslog.L().Info("kif_archive",
		zap.String("game_id", rec.ID),
		zap.String("result", string(rec.Result)),
		zap.Int("ply", rec.Ply),
	)
	return nil
}

// Get loads an archived game, nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	raw, err := s.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Recent lists the most recently archived game ids, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]string, error) {
	if n <= 0 || n > recentLimit {
		n = recentLimit
	}
	return s.rdb.LRange(ctx, recentKey, 0, int64(n-1)).Result()
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
