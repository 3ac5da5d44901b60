// Package main runs the trust-scan HTTP service: an analysis endpoint
// backed by the engine, plus health and Prometheus metrics endpoints.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"solana-trust-scan/internal/config"
	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/engine"
	"solana-trust-scan/internal/metadata"
	"solana-trust-scan/internal/observability"
	"solana-trust-scan/internal/rpcpool"
	"solana-trust-scan/internal/storage"
	"solana-trust-scan/internal/storage/memory"
	"solana-trust-scan/internal/storage/migrations"
	pgstore "solana-trust-scan/internal/storage/postgres"
)

func main() {
	// Load .env if present; flags below default to the environment.
	_ = godotenv.Load()

	rpcEndpoints := flag.String("rpc-endpoints", os.Getenv("SOLANA_RPC_ENDPOINTS"), "Comma-separated Solana RPC HTTP endpoints")
	wsEndpoints := flag.String("ws-endpoints", os.Getenv("SOLANA_WS_ENDPOINTS"), "Comma-separated Solana WebSocket endpoints (optional, index-aligned with RPC endpoints)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string for the metadata cache (optional)")
	listenAddr := flag.String("listen-addr", ":8080", "HTTP listen address")
	requestTimeout := flag.Duration("request-timeout", 60*time.Second, "Overall timeout for one analysis request")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if *rpcEndpoints == "" {
		logger.Fatal("--rpc-endpoints is required")
	}

	cfg := config.New(splitList(*rpcEndpoints))
	cfg.WSEndpoints = splitList(*wsEndpoints)
	for _, p := range splitList(os.Getenv("TRUSTED_PROGRAMS")) {
		cfg.TrustedPrograms[p] = struct{}{}
	}
	for _, a := range splitList(os.Getenv("SCAM_ADDRESSES")) {
		cfg.KnownScamAddresses[a] = struct{}{}
	}

	pool, err := rpcpool.New(rpcpool.Options{
		Endpoints: cfg.RPCEndpoints,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatalf("create endpoint pool: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.WSEndpoints) == len(cfg.RPCEndpoints) && len(cfg.WSEndpoints) > 0 {
		watcher := rpcpool.NewSlotWatcher(rpcpool.WatcherOptions{
			Pool:      pool,
			Endpoints: cfg.WSEndpoints,
			Logger:    logger,
		})
		watcher.Start(ctx)
		defer watcher.Stop()
		logger.Printf("slot watcher started for %d endpoints", len(cfg.WSEndpoints))
	}

	cache, closeCache := buildCache(ctx, *postgresDSN, logger)
	defer closeCache()

	eng := engine.New(engine.Options{
		Config:    cfg,
		Pool:      pool,
		Waterfall: metadata.NewWaterfall(metadata.DefaultResolvers(), logger),
		Cache:     cache,
		Logger:    logger,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", analyzeHandler(eng, *requestTimeout, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", observability.Handler())

	server := &http.Server{
		Addr:    *listenAddr,
		Handler: mux,
	}

	go func() {
		logger.Printf("listening on %s", *listenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Println("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}

// buildCache connects the postgres cache when a DSN is configured and
// falls back to the in-memory cache otherwise.
func buildCache(ctx context.Context, dsn string, logger *log.Logger) (storage.MetadataCacheStore, func()) {
	if dsn == "" {
		return memory.NewMetadataCacheStore(), func() {}
	}

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		logger.Printf("postgres cache unavailable, using memory cache: %v", err)
		return memory.NewMetadataCacheStore(), func() {}
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Printf("postgres migrations failed, using memory cache: %v", err)
		pool.Close()
		return memory.NewMetadataCacheStore(), func() {}
	}

	logger.Println("postgres metadata cache enabled")
	return pgstore.NewMetadataCacheStore(pool), pool.Close
}

// analyzeRequest is the /analyze request body.
type analyzeRequest struct {
	Identifier string `json:"identifier"`
	Kind       string `json:"kind,omitempty"` // optional hint
}

type errorResponse struct {
	Error string `json:"error"`
}

func analyzeHandler(eng *engine.Engine, timeout time.Duration, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}

		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		result, err := eng.Analyze(ctx, req.Identifier, domain.SubjectKind(req.Kind))
		if err != nil {
			switch {
			case errors.Is(err, engine.ErrInvalidIdentifier):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			case errors.Is(err, engine.ErrSubjectNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			default:
				logger.Printf("analyze %s: %v", req.Identifier, err)
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream providers unavailable"})
			}
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
