// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/extract"
	"github.com/claimlens/claimlens/internal/home"
	"github.com/claimlens/claimlens/internal/queue"
	"github.com/claimlens/claimlens/internal/registry"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Registry   *registry.Store
	Processor  *queue.Processor
	Extract    *extract.Client
	ConfigMgr  *config.Manager
	Home       *home.Dir
	Logger     *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// RegistryFrom extracts the document registry from context.
func RegistryFrom(ctx context.Context) *registry.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// ProcessorFrom extracts the processing queue from context.
func ProcessorFrom(ctx context.Context) *queue.Processor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Processor
	}
	return nil
}

// ExtractFrom extracts the extraction backend client from context.
func ExtractFrom(ctx context.Context) *extract.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Extract
	}
	return nil
}

// ConfigMgrFrom extracts the config manager from context.
func ConfigMgrFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigMgr
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
