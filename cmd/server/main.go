package main

import (
	"car-maneuver-service/internal/adapters/animation"
	"car-maneuver-service/internal/adapters/cache"
	"car-maneuver-service/internal/adapters/repositories"
	"car-maneuver-service/internal/api"
	"car-maneuver-service/internal/config"
	"car-maneuver-service/internal/domain"
	"car-maneuver-service/internal/platform/db"
	"car-maneuver-service/internal/ports"
	"car-maneuver-service/internal/services"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, animator) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres is optional: without DATABASE_URL maneuvers are kept in memory.
	var repo ports.ManeuverRepository = repositories.NewMemoryManeuverRepository()
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewPostgresManeuverRepository(conn)
		log.Println("maneuver log: postgres")
	}

	// Redis is optional: without REDIS_URL the car restarts at its initial spot.
	var store ports.VehicleStateStore = cache.NewMemoryVehicleStore()
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()

		store = cache.NewRedisVehicleStore(client, cfg.RedisKey)
		log.Printf("vehicle state: redis key=%s", cfg.RedisKey)
	}

	driver, err := services.NewDriver(
		ctx,
		domain.InitialState(cfg.CanvasWidth, cfg.CanvasHeight),
		animation.NewTimedAnimator(cfg.AnimationTimeScale),
		store,
		repo,
		services.WithMaxSteps(cfg.MaxManeuverSteps),
	)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(driver, repo, cfg.MaxManeuverSteps)

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Abort the maneuver in flight (if any) and record it.
	driver.Close()
}
