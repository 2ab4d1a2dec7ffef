package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/server"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/telemetry"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/rest"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	shutdownTracer, err := telemetry.InitTracer(ctx, conf.Telemetry.OTLPEndpoint, conf.Telemetry.ServiceName)
	if err != nil {
		return fmt.Errorf("could not init tracer: %w", err)
	}

	defer func() {
		if err = shutdownTracer(context.WithoutCancel(ctx)); err != nil {
			log.Error("could not shutdown tracer", "error", err)
		}
	}()

	sessionRepo, closeStorage, err := initSessionRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	gameUseCase := usecase.NewGameManager(logger, sessionRepo)

	group, groupCtx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Serve(groupCtx, conf.HTTPPort, rest.NewRouter(logger, conf.CORS.AllowedOrigins, gameUseCase)); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}

		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase, conf.CORS.AllowedOrigins)
		if wsErr := server.Serve(groupCtx, conf.SocketPort, wsServer.Handler()); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}

		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func initSessionRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.SessionRepository, func(), error) {
	if conf.Storage != config.StorageRedis {
		log.Info("Using in-memory session storage")

		return repository.NewMemorySessionRepository(conf.SessionTTL), func() {}, nil
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewSessionRepository(redisStorage, conf.SessionTTL), closeStorage, nil
}
