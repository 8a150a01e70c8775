package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/pharmainspect"
	"github.com/poiesic/pharmainspect/api"
	"github.com/poiesic/pharmainspect/notify"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", c.String("addr"))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return serve(ctx, listener, c.String("db"), c.String("backup-dir"), c.Int("notify-workers"), c.Duration("shutdown-timeout"))
}

// serve runs the API on listener until ctx is cancelled.
func serve(ctx context.Context, listener net.Listener, dbPath, backupDir string, workers int, shutdownTimeout time.Duration) error {
	logger := slog.Default()
	gin.SetMode(gin.ReleaseMode)

	db, err := pharmainspect.NewDatabase(dbPath, pharmainspect.WithLogger(logger))
	if err != nil {
		listener.Close()
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	dispatcher, err := db.NewDispatcher(notify.WithPoolSize(workers), notify.WithLogger(logger))
	if err != nil {
		listener.Close()
		return fmt.Errorf("failed to create notification dispatcher: %w", err)
	}
	defer dispatcher.Release()

	opts := []api.Option{api.WithLogger(logger), api.WithNotifier(dispatcher)}
	if backupDir != "" {
		backups, err := db.NewBackupManager(backupDir)
		if err != nil {
			listener.Close()
			return fmt.Errorf("failed to create backup manager: %w", err)
		}
		opts = append(opts, api.WithBackups(backups))
	}

	server, err := db.NewServer(opts...)
	if err != nil {
		listener.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	httpServer := &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving records API", "addr", listener.Addr().String(), "db", dbPath)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	dispatcher.Wait()
	return err
}
