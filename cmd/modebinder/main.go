package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/m0rjc/ModeBinder/internal/binder"
	"github.com/m0rjc/ModeBinder/internal/config"
	"github.com/m0rjc/ModeBinder/internal/console"
	"github.com/m0rjc/ModeBinder/internal/display"
	"github.com/m0rjc/ModeBinder/internal/logging"
	"github.com/m0rjc/ModeBinder/internal/metrics"
	"github.com/m0rjc/ModeBinder/internal/server"
	"github.com/m0rjc/ModeBinder/internal/socketio"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var connected atomic.Bool

func setConnected(v bool) {
	connected.Store(v)
	if v {
		metrics.ChannelConnected.Set(1)
	} else {
		metrics.ChannelConnected.Set(0)
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	stdinFd := int(os.Stdin.Fd())
	raw := term.IsTerminal(stdinFd)

	var stdout, stderr io.Writer = os.Stdout, os.Stderr
	if raw {
		stdout, stderr = console.CRLF(os.Stdout), console.CRLF(os.Stderr)
	}

	// .env feeds LOG_* as well as the channel settings, so it is read first
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Initialize structured logging; stdout belongs to the display
	closeLog, err := logging.InitLogger(stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	pflag.StringVarP(&cfg.PageURL, "page", "p", cfg.PageURL, "URL of the page whose host and port serve the mode channel")
	pflag.StringVar(&cfg.SocketPath, "path", cfg.SocketPath, "Socket.IO path on the server")
	pflag.StringVar(&cfg.InitialMode, "initial", cfg.InitialMode, "mode text shown before the server reports one")
	pflag.BoolVar(&cfg.NormalizeCase, "normalize", cfg.NormalizeCase, "toggle case-insensitively (\"instruction\" counts as Instruction)")
	pflag.IntVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "handshake timeout in seconds")
	pflag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "address for /metrics and /health (disabled when empty)")
	pflag.Parse()

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	serverURL, err := socketio.ServerFromPage(cfg.PageURL)
	if err != nil {
		slog.Error("failed to derive channel server", "error", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsAddr != "" {
		metricsSrv := server.NewMetricsServer(cfg.MetricsAddr, connected.Load)
		go func() {
			slog.Info("metrics server listening", "address", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			metricsSrv.Shutdown(shutdownCtx) //nolint:errcheck
		}()
	}

	d := display.New(cfg.InitialMode, cfg.NormalizeCase, display.NewTerminalRenderer(stdout, cfg.NormalizeCase))

	client := socketio.NewClient(serverURL, socketio.Options{
		Path:             cfg.SocketPath,
		HandshakeTimeout: cfg.DialTimeoutDuration(),
	})
	// Bound before connecting so the mode pushed on join is not missed
	b := binder.New(client, d)

	if err := client.Connect(ctx); err != nil {
		slog.Error("failed to open mode channel", "server", serverURL.Redacted(), "path", cfg.SocketPath, "error", err)
		return 1
	}
	defer client.Close()
	setConnected(true)

	if raw {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			slog.Error("failed to put terminal into raw mode", "error", err)
			return 1
		}
		defer term.Restore(stdinFd, oldState) //nolint:errcheck
		fmt.Fprintln(stdout, "Press space or Enter to change mode, q to quit.")
	} else {
		fmt.Fprintln(stdout, "Enter an empty line to change mode, q to quit.")
	}

	go func() {
		err := client.Run(ctx)
		setConnected(false)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("mode channel closed", "error", err)
		}
		cancel()
	}()

	b.Run(ctx, console.Clicks(ctx, os.Stdin, raw))
	slog.Info("mode binder stopped")
	return 0
}
