package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/tic-tac-toe/backend/internal/config"
	"github.com/iamasit07/tic-tac-toe/backend/internal/repository/postgres"
	"github.com/iamasit07/tic-tac-toe/backend/internal/repository/redis"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/cleanup"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/results"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/room"
	transporthttp "github.com/iamasit07/tic-tac-toe/backend/internal/transport/http"
	"github.com/iamasit07/tic-tac-toe/backend/internal/transport/websocket"
	"github.com/iamasit07/tic-tac-toe/backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := openDatabase(ctx, cfg, log)
	if db != nil {
		defer db.Close()
	}
	rdb := openRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	var (
		sinks   []results.Sink
		source  results.Summarizer
		archive *postgres.ResultRepo
	)
	if db != nil {
		archive = postgres.NewResultRepo(db)
		sinks = append(sinks, archive)
		source = archive
	}
	if rdb != nil {
		tally := redis.NewTally(rdb)
		sinks = append(sinks, tally)
		source = tally
	}
	resultService := results.NewService(cfg.ResultQueueSize, source, log, sinks...)

	connManager := websocket.NewConnectionManager(log)
	gameRoom := room.New(cfg.RoomID, connManager, resultService, log, room.Options{
		AutoJoin:        cfg.AutoJoin,
		InboxSize:       cfg.RoomInboxSize,
		ChatMaxLength:   cfg.ChatMaxLength,
		ChatMaxMessages: cfg.ChatMaxMessages,
	})
	wsHandler := websocket.NewHandler(connManager, gameRoom, log, websocket.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		SendBuffer:     cfg.WSSendBuffer,
		PingInterval:   cfg.WSPingInterval,
		ReadTimeout:    cfg.WSReadTimeout,
		WriteTimeout:   cfg.WSWriteTimeout,
	})

	resultsHandler := transporthttp.NewResultsHandler(resultService, nil)
	if archive != nil {
		resultsHandler.Archive = archive
	}

	gin.SetMode(gin.ReleaseMode)
	router := transporthttp.NewRouter(transporthttp.RouterDeps{
		AllowedOrigins: cfg.AllowedOrigins,
		WebSocket:      wsHandler.HandleWebSocket,
		Room:           transporthttp.NewRoomHandler(gameRoom),
		Results:        resultsHandler,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return gameRoom.Run(gctx) })
	g.Go(func() error { return resultService.Run(gctx) })
	if archive != nil {
		worker := cleanup.NewWorker(archive, cfg.ResultRetention(), cfg.CleanupInterval, log)
		g.Go(func() error { return worker.Run(gctx) })
	}

	g.Go(func() error {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("room_id", gameRoom.ID()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("server is shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

// openDatabase returns nil when no database is configured or reachable; the
// server then keeps results in memory only.
func openDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) *sql.DB {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, results archive disabled")
		return nil
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Warn("could not connect to postgres, results archive disabled", zap.Error(err))
		return nil
	}
	log.Info("database connected")
	return db
}

func openRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *goredis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	client, err := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Warn("could not connect to redis, falling back", zap.Error(err))
		return nil
	}
	log.Info("redis connected")
	return client
}
