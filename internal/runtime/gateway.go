// Package runtime provides the Gateway struct and lifecycle management for
// the game catalog gateway.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tjfontaine/gamefo-gateway/internal/api/rawg"
	"github.com/tjfontaine/gamefo-gateway/internal/frontdoor/catalog"
	"github.com/tjfontaine/gamefo-gateway/internal/pkg/config"
	"github.com/tjfontaine/gamefo-gateway/internal/pkg/safehttp"
	"github.com/tjfontaine/gamefo-gateway/internal/server"
)

// Gateway wires configuration, the RAWG client and the catalog front door
// into an HTTP server. It can be embedded in a larger application or run
// standalone from cmd/gateway.
type Gateway struct {
	// Dependencies (injected via options)
	config     *config.Config
	logger     *slog.Logger
	httpClient *http.Client
	upstream   catalog.Client

	// Internal state
	server     *server.Server
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
}

// New creates a Gateway. A configuration is required (WithConfig or
// WithConfigFile); everything else has a default.
func New(opts ...Option) (*Gateway, error) {
	gw := &Gateway{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(gw); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if gw.config == nil {
		return nil, errors.New("config required (use WithConfig or WithConfigFile)")
	}
	if err := gw.config.Validate(); err != nil {
		return nil, err
	}

	if gw.upstream == nil {
		if gw.httpClient == nil {
			gw.httpClient = newUpstreamHTTPClient(gw.config.Upstream)
		}
		gw.upstream = rawg.NewClient(gw.config.Upstream.APIKey,
			rawg.WithBaseURL(gw.config.Upstream.BaseURL),
			rawg.WithHTTPClient(gw.httpClient),
			rawg.WithLogger(gw.logger),
		)
	}

	gw.server = server.New(server.Options{
		Port:           gw.config.Server.Port,
		RequestTimeout: gw.config.Server.RequestTimeout,
		AllowedOrigins: gw.config.CORS.AllowedOrigins,
		Metrics:        gw.config.Server.Metrics,
		ServiceName:    gw.config.Telemetry.ServiceName,
	}, gw.logger)

	handler := catalog.NewHandler(gw.upstream, catalog.StatusPolicy(gw.config.Server.ErrorStatus), gw.logger)
	handler.RegisterRoutes(gw.server.Router)

	return gw, nil
}

// newUpstreamHTTPClient builds the outbound client: traced, bounded by the
// upstream timeout, and refusing private addresses unless configured otherwise.
func newUpstreamHTTPClient(cfg config.UpstreamConfig) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(safehttp.NewTransport(cfg.BlockPrivateNetworks)),
		Timeout:   cfg.Timeout,
	}
}

// Handler returns the fully wired router.
func (g *Gateway) Handler() http.Handler {
	return g.server.Router
}

// Start binds the configured port and serves in the background. Bind errors
// are returned directly.
func (g *Gateway) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.httpServer != nil {
		return errors.New("gateway already started")
	}

	hs := g.server.HTTPServer(g.config.Server.RequestTimeout)
	hs.BaseContext = func(net.Listener) context.Context { return ctx }

	ln, err := net.Listen("tcp", hs.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", hs.Addr, err)
	}
	g.httpServer = hs
	g.listener = ln

	go func() {
		g.logger.Info("HTTP server listening", slog.String("addr", ln.Addr().String()))
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	g.logger.Info("gateway started",
		slog.Int("port", g.config.Server.Port),
		slog.String("upstream", g.config.Upstream.BaseURL),
		slog.String("error_status", g.config.Server.ErrorStatus))

	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (g *Gateway) Addr() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.listener == nil {
		return ""
	}
	return g.listener.Addr().String()
}

// Shutdown gracefully stops the HTTP server.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.logger.Info("shutting down gateway")

	if g.httpServer != nil {
		if err := g.httpServer.Shutdown(ctx); err != nil {
			g.logger.Error("failed to shutdown server", slog.String("error", err.Error()))
			return err
		}
		g.httpServer = nil
		g.listener = nil
	}

	if g.httpClient != nil {
		g.httpClient.CloseIdleConnections()
	}

	g.logger.Info("gateway shutdown complete")
	return nil
}
