package store

import (
	"context"
	"embed"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Minimal write helpers
------------------------------*/

// InsertOutcome appends one resolved decision for offline training.
func (db *DB) InsertOutcome(ctx context.Context, o game.Outcome) error {
	_, err := db.Exec(ctx, `
        INSERT INTO outcomes(round, phase, action, confidence, boldness, success, trust_change)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, o.Round, o.Phase, o.Action, o.Confidence, o.Boldness, o.Success, o.TrustChange)
	return err
}

// InsertDecisionLog records one served decision for auditing.
func (db *DB) InsertDecisionLog(ctx context.Context, round int, phase, difficulty string, d game.Decision) error {
	_, err := db.Exec(ctx, `
        INSERT INTO decision_logs(round, phase, difficulty, action, confidence, reasoning, predicted_outcome)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, round, phase, difficulty, string(d.Action), d.Confidence, d.Reasoning, d.PredictedOutcome)
	return err
}

// LoadOutcomes returns the newest recorded outcomes, most recent first.
func (db *DB) LoadOutcomes(ctx context.Context, limit int) ([]game.Outcome, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := db.Query(ctx, `
        SELECT round, phase, action, confidence, boldness, success, trust_change
          FROM outcomes
         ORDER BY created_at DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []game.Outcome
	for rows.Next() {
		var o game.Outcome
		if err := rows.Scan(&o.Round, &o.Phase, &o.Action, &o.Confidence, &o.Boldness, &o.Success, &o.TrustChange); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Recorder adapts the pool to the engine's outcome sink. Writes are
// best-effort; failures are logged, never surfaced to the decision path.
type Recorder struct{ db *DB }

func NewRecorder(db *DB) *Recorder { return &Recorder{db: db} }

func (r *Recorder) RecordOutcome(o game.Outcome) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.db.InsertOutcome(ctx, o); err != nil {
		log.Printf("store: record outcome: %v", err)
	}
}
