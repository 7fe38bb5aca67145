// Package server provides the MCP server implementation for the Mapbox
// integration.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mapgrid/mapmcp/pkg/config"
	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mapgrid/mapmcp/pkg/tempstore"
	"github.com/mapgrid/mapmcp/pkg/tools"
	"github.com/mapgrid/mapmcp/pkg/tools/prompts"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName is the name of the MCP server
	ServerName = "mapmcp-server"

	// ServerVersion is the version of the MCP server
	ServerVersion = "0.2.0"

	// sweepInterval is how often the resource store evicts expired entries.
	sweepInterval = 5 * time.Minute
)

// Server encapsulates the MCP server with Mapbox tools, prompts and the
// temporary resource store.
type Server struct {
	srv    *server.MCPServer
	store  *tempstore.Store
	logger *slog.Logger

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	doneCh       chan struct{}
}

// NewServer creates a new Mapbox MCP server with all tools, prompts and the
// temporary resource surface registered. The config must already be
// validated.
func NewServer(cfg *config.Config) (*Server, error) {
	logger := slog.Default()
	logger.Info("initializing Mapbox MCP server",
		"name", ServerName,
		"version", ServerVersion)

	srv := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)

	client := mapbox.NewClient(cfg, logger)

	store := tempstore.New(cfg.Resources.TTL())
	store.StartSweeper(sweepInterval)

	registry := tools.NewRegistry(logger, client, store, cfg.Resources.ThresholdBytes)
	registry.RegisterTools(srv)

	prompts.RegisterGeospatialPrompts(srv)

	s := &Server{
		srv:        srv,
		store:      store,
		logger:     logger,
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	s.registerResources()

	return s, nil
}

// Store exposes the temporary resource store.
func (s *Server) Store() *tempstore.Store { return s.store }

// Run starts the MCP server using stdin/stdout for communication and blocks
// until the transport closes.
func (s *Server) Run() error {
	defer s.Shutdown()
	return server.ServeStdio(s.srv)
}

// RunWithContext starts the MCP server and blocks until the transport
// closes, the context is canceled, or Shutdown is called. Cancellation and
// shutdown are graceful and return nil.
func (s *Server) RunWithContext(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(s.srv)
	}()

	select {
	case err := <-errCh:
		s.Shutdown()
		return err
	case <-ctx.Done():
		s.Shutdown()
		return nil
	case <-s.shutdownCh:
		return nil
	}
}

// Shutdown stops the resource store sweeper and signals any RunWithContext
// caller to return. Safe to call multiple times.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.logger.Info("shutting down")
		s.store.Stop()
		close(s.shutdownCh)
		close(s.doneCh)
	})
}

// WaitForShutdown blocks until Shutdown has completed.
func (s *Server) WaitForShutdown() {
	<-s.doneCh
}
