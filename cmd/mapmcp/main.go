package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mapgrid/mapmcp/pkg/config"
	"github.com/mapgrid/mapmcp/pkg/server"
	"github.com/mapgrid/mapmcp/pkg/telemetry"
	"github.com/mapgrid/mapmcp/pkg/version"
)

var (
	showVersion    bool
	debug          bool
	trace          bool
	generateConfig string
	mergeConfig    bool
)

func init() {
	flag.BoolVar(&showVersion, "version", false, "Display version information")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&trace, "trace", false, "Emit request trace spans to stderr")
	flag.StringVar(&generateConfig, "generate-config", "", "Generate a client config file at the specified path")
	flag.BoolVar(&mergeConfig, "merge-config", false, "Only merge into an existing config file, do not create one")
}

func main() {
	flag.Parse()

	// A local .env is optional; absence is not an error.
	godotenv.Load()

	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	// Logs go to stderr; stdout carries the MCP protocol.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if showVersion {
		fmt.Println(version.String())
		return
	}

	if generateConfig != "" {
		if err := generateClientConfig(generateConfig, mergeConfig); err != nil {
			logger.Error("failed to generate config", "error", err)
			os.Exit(1)
		}
		logger.Info("generated client config", "path", generateConfig)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if trace {
		shutdown, err := telemetry.InitTracer(server.ServerName, logger)
		if err != nil {
			logger.Error("failed to initialize tracing", "error", err)
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	logger.Info("starting Mapbox MCP server",
		"version", version.BuildVersion,
		"log_level", logLevel.String())

	srv, err := server.NewServer(cfg)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	logger.Info("server initialized, waiting for requests")
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// validateConfigPath rejects paths that would let a config write escape the
// intended location.
func validateConfigPath(outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("config path is empty")
	}
	if filepath.Ext(outputPath) != ".json" {
		return fmt.Errorf("config path must end in .json, got %q", outputPath)
	}
	if strings.Contains(outputPath, "..") {
		return fmt.Errorf("config path must not contain %q: %q", "..", outputPath)
	}
	return nil
}

// generateClientConfig creates or updates an MCP client config file. With
// mergeOnly set, the file must already exist; its unrelated keys are
// preserved either way.
func generateClientConfig(outputPath string, mergeOnly bool) error {
	if err := validateConfigPath(outputPath); err != nil {
		return err
	}

	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0]
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath
	}

	cfg := make(map[string]interface{})

	data, err := os.ReadFile(outputPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			slog.Default().Warn("existing config is not valid JSON, starting fresh", "error", err)
			cfg = make(map[string]interface{})
		}
	case os.IsNotExist(err):
		if mergeOnly {
			return fmt.Errorf("config file %q does not exist, cannot merge", outputPath)
		}
	default:
		return fmt.Errorf("failed to read existing config: %w", err)
	}

	cfg["claude"] = map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"mapbox": map[string]interface{}{
				"command": absExecPath,
				"args":    []string{},
				"env": map[string]string{
					"MAPBOX_ACCESS_TOKEN": "<your access token>",
				},
			},
		},
	}
	cfg["server"] = map[string]interface{}{
		"name":    server.ServerName,
		"version": server.ServerVersion,
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	out = append(out, '\n')

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// The config may hold a token, keep it private.
	if err := os.WriteFile(outputPath, out, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
