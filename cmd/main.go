package main

import (
	"campus-live/contract"
	"campus-live/infrastructure/httpapi"
	"campus-live/infrastructure/ws"
	"campus-live/internal"
	"campus-live/moderation"
	"campus-live/observability"
	"campus-live/runtime"
	"campus-live/runtime/workers"
	"campus-live/services"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the servers and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Optional chat moderation
	var filter contract.IChatFilter
	if config.CensoredWordsPath != "" {
		replacement, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return err
		}
		words, err := moderation.LoadWords(config.CensoredWordsPath)
		if err != nil {
			return fmt.Errorf("censored words loading failed: %w", err)
		}
		moderator, err := moderation.NewModerator(words, replacement)
		if err != nil {
			return fmt.Errorf("moderator build failed: %w", err)
		}
		log.Info(fmt.Sprintf("%d censored words loaded", len(words)))
		filter = moderator
	}

	// 3. Coordinator core, one explicitly constructed instance per process
	stats := observability.NewStats(log)
	registry := runtime.NewRegistry(log, stats)
	rooms := runtime.NewRoomTable()
	router := runtime.NewRouter(log, registry, rooms, filter, stats)
	coordinator := runtime.NewCoordinator(log, registry, rooms, router, stats)
	broadcastService := services.NewBroadcastService(router)

	// 4. Transport & ingress
	mux := http.NewServeMux()
	wsHandler := ws.NewHandler(log, coordinator, ws.Options{
		PingInterval:   config.PingInterval,
		PongWait:       config.PongWait,
		WriteWait:      config.WriteWait,
		MaxMessageSize: config.MaxMessageSize,
		SendBuffer:     config.ConnectionBufferSize,
	}, stats)
	wsHandler.RegisterRoutes(mux)
	httpapi.NewPublishHandler(log, broadcastService).RegisterRoutes(mux)

	debugMux := internal.NewDebugMux(
		func() []internal.RoomRow {
			snapshot := rooms.Rooms()
			out := make([]internal.RoomRow, 0, len(snapshot))
			for roomID, count := range snapshot {
				out = append(out, internal.RoomRow{Room: string(roomID), Count: count})
			}
			return out
		},
		func() map[string]any {
			latest := stats.GetLatest()
			return map[string]any{
				"connections": latest.Connections,
				"disconnects": latest.Disconnects,
				"joins":       latest.Joins,
				"leaves":      latest.Leaves,
				"broadcasts":  latest.Broadcasts,
				"deliveries":  latest.Deliveries,
				"dropped":     latest.Dropped,
				"malformed":   latest.Malformed,
				"rss_mb":      latest.RSSMb,
				"cpu_percent": fmt.Sprintf("%.1f", latest.CPUPercent),
				"sampled_at":  latest.SampledAt,
			}
		},
	)

	// 5. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewHTTPServerWorker(log, "coordinator", &http.Server{
			Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
			Handler: mux,
		}),
		workers.NewHTTPServerWorker(log, "debug", &http.Server{
			Addr:    fmt.Sprintf("%s:%d", config.Host, config.DebugPort),
			Handler: debugMux,
		}),
		workers.NewStatsWorker(log, stats, config.StatsInterval),
	)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting campus-live coordinator",
		"address", fmt.Sprintf("%s:%d", config.Host, config.Port),
		"debug", fmt.Sprintf("%s:%d", config.Host, config.DebugPort))
	sup.Run(ctx)

	log.Info("Program stopped cleanly")
	return nil
}
