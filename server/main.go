package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/NilmarAxe/strategic-mind-games/server/config"
	"github.com/NilmarAxe/strategic-mind-games/server/engine"
	"github.com/NilmarAxe/strategic-mind-games/server/game"
	"github.com/NilmarAxe/strategic-mind-games/server/model"
	"github.com/NilmarAxe/strategic-mind-games/server/store"
	"github.com/NilmarAxe/strategic-mind-games/server/trainer"
)

//
// ===== bootstrap =====
//

func mustEnv(keys ...string) {
	for _, k := range keys {
		if os.Getenv(k) == "" {
			log.Fatalf("Missing required env var %s. Put it in .env (dev) or set it on the host (prod).", k)
		}
	}
}
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// AI_SEED pins engine randomness for reproducible runs; otherwise a crypto
// seed is drawn.
func engineSeed() int64 {
	if s := os.Getenv("AI_SEED"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		return int64(binary.LittleEndian.Uint64(b[:]))
	}
	return time.Now().UnixNano()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	_ = godotenv.Load()

	var migrate, train bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--train":
			train = true
		}
	}

	cfg := config.Load(getenv("AI_CONFIG", "config/ai_config.yaml"))
	if err := cfg.Validate(); err != nil {
		log.Printf("config warning: %v", err)
	}

	// optional DB
	var db *store.DB
	if dsn := getenv("DATABASE_URL", ""); dsn == "" {
		log.Println("no DATABASE_URL, outcomes will not be persisted")
	} else {
		p, err := store.Open(dsn)
		if err != nil {
			log.Printf("DB disabled (open failed): %v", err)
		} else {
			db = p
			defer db.Close(context.Background())
			if asBool(os.Getenv("AUTO_MIGRATE")) {
				if err := store.Migrate(context.Background(), db); err != nil {
					log.Printf("migrate failed (continuing without DB): %v", err)
					db = nil
				}
			}
		}
	}

	if migrate {
		mustEnv("DATABASE_URL")
		if db == nil {
			log.Fatal("migrate requested but DB unavailable")
		}
		if err := store.Migrate(context.Background(), db); err != nil {
			log.Fatal(err)
		}
		log.Println("migrated")
		return
	}

	if train {
		runTraining(cfg, db)
		return
	}

	// predictor: remote service > trained artifacts > heuristic
	var predictor model.Predictor
	if url := getenv("PREDICTOR_URL", ""); url != "" {
		log.Printf("using remote predictor at %s", url)
		predictor = model.NewRemotePredictor(url)
	} else if trained, err := model.Load(cfg.AI.ModelPath, cfg.AI.ScalerPath); err != nil {
		log.Printf("no trained model (%v), using heuristic predictor", err)
		predictor = model.Heuristic{}
	} else {
		predictor = trained
	}

	eng := engine.New(cfg, predictor, engineSeed())
	if db != nil {
		eng.SetOutcomeSink(store.NewRecorder(db))
	}

	port := getenv("PORT", "5000")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      Router(eng, db),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("Strategic Mind AI Engine listening on http://localhost:%s (Ctrl+C to stop)", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func runTraining(cfg config.Config, db *store.DB) {
	var recorded []game.Outcome
	if db != nil {
		rows, err := db.LoadOutcomes(context.Background(), atoiDef(os.Getenv("TRAIN_RECORDED_LIMIT"), 5000))
		if err != nil {
			log.Printf("loading recorded outcomes: %v", err)
		} else {
			recorded = rows
		}
	}

	outDir := getenv("MODEL_DIR", filepath.Dir(cfg.AI.ModelPath))
	samples := atoiDef(os.Getenv("TRAIN_SAMPLES"), 15000)
	pipeline := trainer.NewPipeline(outDir, samples, engineSeed())
	if _, _, err := pipeline.Run(recorded); err != nil {
		log.Fatal(err)
	}
}
