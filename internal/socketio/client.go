package socketio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const defaultHandshakeTimeout = 10 * time.Second

// Reason reported by the client library when the socket is closed locally.
const reasonClientDisconnect = "io client disconnect"

var (
	ErrClosed       = errors.New("socketio: channel closed")
	ErrHandshake    = errors.New("socketio: handshake failed")
	ErrDisconnected = errors.New("socketio: disconnected")
)

// Handler receives the arguments of an inbound event as decoded JSON values:
// string, float64, bool, nil, map[string]any or []any.
type Handler func(args ...any)

type Options struct {
	// Path is the Engine.IO path on the server; defaults to DefaultPath.
	Path string
	// Namespace defaults to "/".
	Namespace string
	// Header is sent with the websocket upgrade request.
	Header http.Header
	// HandshakeTimeout bounds the transport open and namespace connect.
	HandshakeTimeout time.Duration
}

// Client is one persistent Socket.IO channel over the websocket transport.
// It never reconnects: once the server goes away Run returns and the caller
// decides what to do.
type Client struct {
	server    *url.URL
	namespace string
	timeout   time.Duration

	manager *socket.Manager
	socket  *socket.Socket

	connected chan struct{}
	failed    chan error

	mu       sync.Mutex
	reason   string
	gone     chan struct{}
	goneOnce sync.Once

	closed    chan struct{}
	closeOnce sync.Once
}

// NewClient prepares a channel to server without connecting. Register
// handlers with On before calling Connect so no early event is missed.
func NewClient(server *url.URL, opts Options) *Client {
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = defaultHandshakeTimeout
	}

	managerOpts := socket.DefaultManagerOptions()
	managerOpts.SetPath(normalizePath(opts.Path))
	managerOpts.SetTransports(types.NewSet(socket.WebSocket))
	managerOpts.SetReconnection(false)
	managerOpts.SetAutoConnect(false)
	managerOpts.SetTimeout(opts.HandshakeTimeout)
	if opts.Header != nil {
		managerOpts.SetExtraHeaders(opts.Header)
	}

	manager := socket.NewManager(server.String(), managerOpts)

	c := &Client{
		server:    server,
		namespace: opts.Namespace,
		timeout:   opts.HandshakeTimeout,
		manager:   manager,
		socket:    manager.Socket(opts.Namespace, nil),
		connected: make(chan struct{}, 1),
		failed:    make(chan error, 1),
		gone:      make(chan struct{}),
		closed:    make(chan struct{}),
	}

	c.socket.On("connect", func(...any) {
		select {
		case c.connected <- struct{}{}:
		default:
		}
	})
	c.socket.On("connect_error", func(errs ...any) {
		select {
		case c.failed <- connectError(errs):
		default:
		}
	})
	c.socket.On("disconnect", func(args ...any) {
		reason := "unknown"
		if len(args) > 0 {
			if s, ok := args[0].(string); ok {
				reason = s
			}
		}
		c.goneOnce.Do(func() {
			c.mu.Lock()
			c.reason = reason
			c.mu.Unlock()
			close(c.gone)
		})
	})
	return c
}

// Dial creates a client and connects it. Handlers registered afterwards may
// miss events the server sends straight after the connect.
func Dial(ctx context.Context, server *url.URL, opts Options) (*Client, error) {
	c := NewClient(server, opts)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Connect opens the transport and joins the namespace. It returns once the
// server has acknowledged the namespace connect.
func (c *Client) Connect(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.socket.Connect()

	select {
	case <-c.connected:
	case err := <-c.failed:
		c.Close()
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	case <-c.gone:
		c.Close()
		return fmt.Errorf("%w: %s", ErrHandshake, c.disconnectReason())
	case <-ctx.Done():
		c.Close()
		return fmt.Errorf("%w: %v", ErrHandshake, ctx.Err())
	}

	slog.Info("socketio.client.connected",
		"component", "socketio",
		"event", "client.connected",
		"server", c.server.Redacted(),
		"sid", c.SID(),
		"namespace", c.namespace,
	)
	return nil
}

func connectError(errs []any) error {
	if len(errs) == 0 {
		return errors.New("connect error")
	}
	if err, ok := errs[0].(error); ok {
		return err
	}
	return fmt.Errorf("%v", errs[0])
}

// SID is the namespace session id assigned by the server.
func (c *Client) SID() string {
	return c.socket.Id()
}

// On registers h for inbound events called name.
func (c *Client) On(name string, h Handler) {
	c.socket.On(types.EventName(name), func(args ...any) { h(args...) }) //nolint:errcheck
}

// Emit sends one outbound event. There is no acknowledgement and no retry.
func (c *Client) Emit(name string, args ...any) error {
	select {
	case <-c.closed:
		return ErrClosed
	case <-c.gone:
		return ErrClosed
	default:
	}
	return c.socket.Emit(name, args...)
}

// Run blocks until the server goes away, the heartbeat lapses, ctx is
// cancelled or Close is called. It returns nil for a local close.
func (c *Client) Run(ctx context.Context) error {
	defer c.Close()

	select {
	case <-ctx.Done():
		return nil
	case <-c.closed:
		return nil
	case <-c.gone:
		reason := c.disconnectReason()
		if reason == reasonClientDisconnect {
			return nil
		}
		slog.Warn("socketio.client.disconnected",
			"component", "socketio",
			"event", "client.disconnected",
			"reason", reason,
		)
		return fmt.Errorf("%w: %s", ErrDisconnected, reason)
	}
}

func (c *Client) disconnectReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Close leaves the namespace and closes the transport. Safe to call multiple
// times.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.socket.Disconnect()
	})
}
