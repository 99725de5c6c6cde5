package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FinSight/internal/analyst"
	"FinSight/internal/config"
	"FinSight/internal/llm"
	"FinSight/internal/market"
	"FinSight/internal/recorder"
	"FinSight/internal/resolver"
	"FinSight/internal/scheduler"
	"FinSight/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FinSight starting...")

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Ticker table: missing or malformed yields an empty resolver, never fatal.
	res := resolver.LoadFile(cfg.Tickers.TableFile)

	// Providers
	yahoo := market.NewYahooFetcher(cfg.Proxy)
	polygon := market.NewPolygonFetcher(cfg.Providers.PolygonAPIKey, cfg.Proxy)
	gateway := market.NewGateway(yahoo, polygon, cfg.Providers.BenchmarkSymbol)

	// Completion client
	completer := llm.NewClient(
		cfg.Completion.APIKey,
		cfg.Completion.Model,
		cfg.Completion.MaxTokens,
		cfg.Completion.Temperature,
	)
	log.Printf("[INFO] completion model: %s", cfg.Completion.Model)

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Retention scheduler
	sched := scheduler.NewScheduler(rec, cfg.Database.RetentionDays)
	if err := sched.Register(cfg.Database.RetentionCron); err != nil {
		log.Fatalf("[FATAL] register retention task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Service and HTTP server
	svc := analyst.NewService(res, gateway, completer, rec)
	srv := server.NewServer(svc, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	log.Println("[INFO] FinSight is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("[FATAL] http server: %v", err)
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] FinSight stopped")
}
