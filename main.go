package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weathersnap/api"
	"weathersnap/cache"
	"weathersnap/collector"
	"weathersnap/datasource"
	"weathersnap/logging"
	"weathersnap/tracing"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	configFile := flag.String("config", "", "Path to an optional configuration file")
	port := flag.Int("port", 0, "Port to run the server on (overrides WEATHER_PORT)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	config, err := datasource.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		config.Port = *port
	}

	if err := logging.Init(config.Debug || *debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()
	log := logging.L()

	if envErr != nil {
		log.Debugw("no .env file loaded", "error", envErr)
	}

	shutdownTracing, err := tracing.Setup(config.ZipkinURL)
	if err != nil {
		log.Fatalw("failed to set up tracing", "error", err)
	}

	client := datasource.NewOpenWeatherMapClient(config.APIKey)
	client.SetBaseURL(config.BaseURL)

	var source datasource.PayloadSource = client
	if config.RateLimit > 0 {
		source = datasource.NewRateLimitedSource(client, config.RateLimit, config.RateLimit, config.RateBurst)
		log.Infow("applied rate limiting", "rps", config.RateLimit, "burst", config.RateBurst)
	}
	if config.CacheTTL > 0 {
		source = cache.NewCachedSource(source, config.CacheTTL)
	}

	store := api.NewSnapshotStore()

	dc := collector.NewDataCollector(source, store, config.Cities)
	dc.SetInterval(config.RefreshInterval)
	dc.SetFetchTimeout(config.FetchTimeout)

	server := api.NewServer(store, config.Port, api.Defaults{
		Units:    config.Units,
		Days:     config.ForecastDays,
		Location: time.Local,
	})
	server.RegisterSource(source)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stopCollector := dc.Start(ctx)
	log.Infow("collecting weather", "cities", config.Cities, "interval", config.RefreshInterval, "source", source.Name())

	// Drop cities nobody has asked about for two days
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if pruned := store.Prune(48 * time.Hour); pruned > 0 {
					log.Infow("pruned stale reports", "count", pruned)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("server shutdown", "error", err)
	}
	stopCollector()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warnw("tracing shutdown", "error", err)
	}

	log.Info("shutdown complete")
}
