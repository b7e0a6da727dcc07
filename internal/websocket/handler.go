package websocket

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	defaultPingInterval = 25 * time.Second
	defaultPingTimeout  = 20 * time.Second
	// maxPayload bounds one inbound message; it is both advertised in the
	// handshake and enforced by the engine.
	maxPayload = 4096
)

var errOriginNotAllowed = errors.New("origin not allowed")

// HandlerOptions tunes the Engine.IO session offered to clients.
type HandlerOptions struct {
	// AllowedOrigin restricts browser clients. Empty allows any origin.
	AllowedOrigin string
	PingInterval  time.Duration
	PingTimeout   time.Duration
}

// SocketServer serves the Socket.IO endpoint and feeds the hub: sockets that
// join the default namespace are registered, and their change requests are
// applied to the hub.
type SocketServer struct {
	hub     *Hub
	io      *socket.Server
	handler http.Handler
}

func NewSocketServer(hub *Hub, opts HandlerOptions) *SocketServer {
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaultPingInterval
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = defaultPingTimeout
	}

	serverOpts := socket.DefaultServerOptions()
	serverOpts.SetServeClient(false)
	serverOpts.SetPingInterval(opts.PingInterval)
	serverOpts.SetPingTimeout(opts.PingTimeout)
	serverOpts.SetMaxHttpBufferSize(maxPayload)
	if opts.AllowedOrigin != "" {
		allowed := strings.TrimSuffix(opts.AllowedOrigin, "/")
		serverOpts.SetAllowRequest(func(ctx *types.HttpContext) error {
			origin := ctx.Request().Header.Get("Origin")
			if origin == "" || strings.TrimSuffix(origin, "/") == allowed {
				return nil
			}
			slog.Warn("websocket.handler.origin_rejected",
				"component", "websocket",
				"event", "handler.origin_rejected",
				"origin", origin,
			)
			return errOriginNotAllowed
		})
	}

	s := &SocketServer{
		hub: hub,
		io:  socket.NewServer(nil, serverOpts),
	}
	s.handler = s.io.ServeHandler(nil)

	s.io.On("connection", func(clients ...any) {
		if len(clients) == 0 {
			return
		}
		if client, ok := clients[0].(*socket.Socket); ok {
			s.onConnection(client)
		}
	})
	return s
}

// Hub returns the hub the server reports to.
func (s *SocketServer) Hub() *Hub {
	return s.hub
}

func (s *SocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close disconnects every client.
func (s *SocketServer) Close() {
	s.io.Close(nil)
}

func (s *SocketServer) onConnection(client *socket.Socket) {
	id := string(client.Id())

	slog.Info("websocket.handler.connected",
		"component", "websocket",
		"event", "handler.connected",
		"sid", id,
	)

	onChange := func(name string) func(...any) {
		return func(args ...any) {
			mode, err := requestedMode(args)
			if err != nil {
				slog.Warn("websocket.socket.bad_change_request",
					"component", "websocket",
					"event", "socket.decode_error",
					"sid", id,
					"name", name,
					"error", err,
				)
				return
			}
			slog.Info("websocket.socket.change_requested",
				"component", "websocket",
				"event", "socket.change_mode",
				"sid", id,
				"mode", mode,
			)
			s.hub.SetMode(mode)
		}
	}
	client.On(EventChangeMode, onChange(EventChangeMode))
	client.On(EventSetMode, onChange(EventSetMode))
	client.On("disconnect", func(reason ...any) {
		slog.Info("websocket.handler.disconnected",
			"component", "websocket",
			"event", "handler.disconnected",
			"sid", id,
			"reason", reason,
		)
		s.hub.Leave(id, client)
	})

	if client.Disconnected() {
		return
	}
	s.hub.Join(id, client)
}
