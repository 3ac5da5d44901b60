// Package main runs a single analysis from the command line and prints
// the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"solana-trust-scan/internal/config"
	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/engine"
	"solana-trust-scan/internal/metadata"
	"solana-trust-scan/internal/rpcpool"
)

func main() {
	_ = godotenv.Load()

	rpcEndpoints := flag.String("rpc-endpoints", os.Getenv("SOLANA_RPC_ENDPOINTS"), "Comma-separated Solana RPC HTTP endpoints")
	kind := flag.String("kind", "", "Optional subject kind hint (wallet, program, tokenMint, tokenAccount, transaction)")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall analysis timeout")
	pretty := flag.Bool("pretty", true, "Indent JSON output")

	flag.Parse()

	logger := log.New(os.Stderr, "[analyze] ", log.LstdFlags)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: analyze [flags] <address-or-signature>")
		os.Exit(2)
	}
	identifier := flag.Arg(0)

	if *rpcEndpoints == "" {
		logger.Fatal("--rpc-endpoints is required")
	}

	cfg := config.New(splitList(*rpcEndpoints))

	pool, err := rpcpool.New(rpcpool.Options{
		Endpoints: cfg.RPCEndpoints,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatalf("create endpoint pool: %v", err)
	}

	eng := engine.New(engine.Options{
		Config:    cfg,
		Pool:      pool,
		Waterfall: metadata.NewWaterfall(metadata.DefaultResolvers(), logger),
		Logger:    logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := eng.Analyze(ctx, identifier, domain.SubjectKind(*kind))
	if err != nil {
		logger.Fatalf("analyze %s: %v", identifier, err)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		logger.Fatalf("encode result: %v", err)
	}
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
