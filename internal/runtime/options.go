package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tjfontaine/gamefo-gateway/internal/frontdoor/catalog"
	"github.com/tjfontaine/gamefo-gateway/internal/pkg/config"
)

// Option is a functional option for configuring a Gateway.
type Option func(*Gateway) error

// WithConfig uses an already loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(g *Gateway) error {
		if cfg == nil {
			return errors.New("nil config")
		}
		g.config = cfg
		return nil
	}
}

// WithConfigFile loads configuration from path, layered with defaults and
// GAMEFO_ environment variables.
func WithConfigFile(path string) Option {
	return func(g *Gateway) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		g.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) error {
		g.logger = logger
		return nil
	}
}

// WithHTTPClient sets the client used for outbound RAWG calls. The default
// client is traced and blocks private networks per configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) error {
		g.httpClient = client
		return nil
	}
}

// WithCatalogClient replaces the RAWG client entirely.
// For advanced use cases such as serving from a cache or a fixture.
func WithCatalogClient(client catalog.Client) Option {
	return func(g *Gateway) error {
		g.upstream = client
		return nil
	}
}
