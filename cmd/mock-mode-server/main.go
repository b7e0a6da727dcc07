// Command mock-mode-server is a development stand-in for the mode server.
// It keeps the current mode in memory, pushes it to every client that joins,
// and broadcasts accepted change requests.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m0rjc/ModeBinder/internal/config"
	"github.com/m0rjc/ModeBinder/internal/logging"
	"github.com/m0rjc/ModeBinder/internal/server"
	"github.com/m0rjc/ModeBinder/internal/websocket"
	"github.com/spf13/pflag"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logging
	closeLog, err := logging.InitLogger(os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	slog.Info("starting mock mode server")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	initialMode := pflag.StringP("mode", "m", "", "mode to report before any client changes it (unset when empty)")
	pflag.IntVarP(&cfg.Port, "port", "P", cfg.Port, "listen port")
	pflag.StringVar(&cfg.Host, "host", cfg.Host, "listen host")
	pflag.StringVar(&cfg.SocketPath, "path", cfg.SocketPath, "Socket.IO path")
	pflag.StringVar(&cfg.AllowedOrigin, "origin", cfg.AllowedOrigin, "allowed browser Origin (any when empty)")
	pflag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "address for /metrics and /health (disabled when empty)")
	pflag.Parse()

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	hub := websocket.NewHub()
	if *initialMode != "" {
		hub.SetMode(*initialMode)
	}

	sockets := websocket.NewSocketServer(hub, websocket.HandlerOptions{AllowedOrigin: cfg.AllowedOrigin})
	srv := server.NewServer(cfg, sockets)
	servers := []*http.Server{srv}

	if cfg.MetricsAddr != "" {
		metricsSrv := server.NewMetricsServer(cfg.MetricsAddr, nil)
		servers = append(servers, metricsSrv)
		go func() {
			slog.Info("metrics server listening", "address", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server error", "error", err)
				os.Exit(1)
			}
		}()
	}

	// Start main server in a goroutine
	go func() {
		slog.Info("server listening", "address", srv.Addr, "socket_path", cfg.SocketPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("received shutdown signal, shutting down gracefully")

	// Websocket connections are hijacked, so Shutdown does not wait for them
	sockets.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errChan := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *http.Server) {
			if err := s.Shutdown(ctx); err != nil {
				errChan <- fmt.Errorf("shutdown %s: %w", s.Addr, err)
			} else {
				errChan <- nil
			}
		}(s)
	}

	for range servers {
		if err := <-errChan; err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}

	slog.Info("mock mode server stopped")
}
