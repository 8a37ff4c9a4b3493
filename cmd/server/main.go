package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/drawspace/drawspace-backend/config"
	"github.com/drawspace/drawspace-backend/internal/board/repository"
	"github.com/drawspace/drawspace-backend/internal/bootstrap"
	"github.com/drawspace/drawspace-backend/internal/discovery"
	"github.com/drawspace/drawspace-backend/internal/room"
)

const serviceName = "drawspace-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	// In-memory by default; Redis when configured. Boards are not durable
	// across restarts either way, the store is room-registry bookkeeping.
	var store repository.BoardStore = repository.NewMemoryStore()
	if cfg.Redis.Enabled {
		client, err := bootstrap.OpenRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("failed to open redis: %v", err)
		}
		defer client.Close()
		store = repository.NewRedisStore(client)
		log.Printf("using redis board store at %s", cfg.Redis.Addr)
	}

	hub := room.NewHub()
	registry := room.NewRegistry(store, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := room.NewSweeper(registry)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("failed to start sweeper: %v", err)
	}

	if cfg.Discovery.Enabled {
		port, _ := strconv.Atoi(cfg.Server.Port)
		mdnsServer, err := discovery.Advertise(cfg.Discovery.ServiceName, port)
		if err != nil {
			log.Printf("mDNS advertisement failed: %v", err)
		} else {
			defer mdnsServer.Shutdown()
			log.Printf("advertising %s on the local network", cfg.Discovery.ServiceName)
		}
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Store:       store,
		Registry:    registry,
	})

	httpServer := &http.Server{Addr: ":" + cfg.Server.Port, Handler: router}
	go func() {
		log.Printf("%s listening on :%s", serviceName, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server listen failed: %v", err)
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-exit
	log.Printf("signal caught: %v, shutting down", sig)

	cancel()
	sweeper.Stop(context.Background())
	hub.CloseAll()
	_ = httpServer.Close()
}
