package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/service"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/rest"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, logger, conf)
}

// Run - wires the room engine to its transports and serves until ctx is done
// or a server fails.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	hub := websocket.NewHub(logger)
	coordinator := usecase.NewCoordinator(logger, repository.NewRoomRegistry(), hub, usecase.Options{
		CodeSource:       usecase.CodeSource(conf.Rooms.CodeSource),
		GenerateAttempts: conf.Rooms.GenerateAttempts,
	})

	group, ctx := errgroup.WithContext(ctx)

	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		mirror := service.NewRoomMirror(logger, repository.NewRoomRepository(redisStorage.Connection, conf.Redis.TTL))
		coordinator.SetObserver(mirror)

		group.Go(func() error {
			mirror.Run(ctx)
			return nil
		})
	}

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if err := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, coordinator)); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, hub, coordinator, conf.WebSocket)
		if err := wsServer.Start(ctx, conf.SocketPort); err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}
		return nil
	})

	err := group.Wait()
	log.Info("Application stopped", "error", err)

	return err
}
