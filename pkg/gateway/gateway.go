// Package gateway provides the public API for embedding the game catalog
// gateway. This is the stable API for external consumers.
package gateway

import (
	"github.com/tjfontaine/gamefo-gateway/internal/identity"
	"github.com/tjfontaine/gamefo-gateway/internal/runtime"
)

// Gateway serves the catalog API.
// See internal/runtime.Gateway for full documentation.
type Gateway = runtime.Gateway

// Option is a functional option for configuring a Gateway.
type Option = runtime.Option

// New creates a new Gateway with the given options.
// Example:
//
//	gw, err := gateway.New(
//	    gateway.WithConfigFile("config.yaml"),
//	    gateway.WithLogger(logger),
//	)
var New = runtime.New

// Configuration options
var (
	WithConfig     = runtime.WithConfig
	WithConfigFile = runtime.WithConfigFile
	WithLogger     = runtime.WithLogger

	// Advanced options
	WithHTTPClient    = runtime.WithHTTPClient
	WithCatalogClient = runtime.WithCatalogClient
)

// Session identity
type (
	User          = identity.User
	IdentityStore = identity.Store
)

var (
	NewIdentityStore    = identity.New
	WithIdentityChange  = identity.WithOnChange
	ContextWithIdentity = identity.WithStore
	IdentityFromContext = identity.FromContext
)
