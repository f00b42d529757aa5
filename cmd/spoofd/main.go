// EcoCare Spoof Core - IoT device spoofing daemon
//
// This is the main entry point for the spoof core. It loads a roster of
// simulated devices from CSV, connects to the EcoCare server over the
// configured channel transport (websocket or MQTT) and keeps the local
// device registry synchronised with the server for the lifetime of the
// process.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecocare/spoof-core/internal/channel"
	"github.com/ecocare/spoof-core/internal/channel/mqtt"
	"github.com/ecocare/spoof-core/internal/channel/websocket"
	"github.com/ecocare/spoof-core/internal/controller"
	"github.com/ecocare/spoof-core/internal/device"
	"github.com/ecocare/spoof-core/internal/infrastructure/config"
	"github.com/ecocare/spoof-core/internal/infrastructure/logging"
	"github.com/ecocare/spoof-core/internal/roster"
	"github.com/ecocare/spoof-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting EcoCare spoof core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Initialise device registry and load the roster
	registry := device.NewRegistry()
	registry.SetLogger(log)

	if err := loadRoster(registry, cfg.Roster.Path, log); err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}
	log.Info("device registry initialised", "devices", registry.Count())

	// Build the channel transport
	ch, err := newChannel(cfg, log)
	if err != nil {
		return fmt.Errorf("building channel: %w", err)
	}
	log.Info("channel transport selected", "transport", cfg.Channel.Transport)

	// Connect to InfluxDB telemetry (optional)
	var recorder *telemetry.Client
	if cfg.Telemetry.Enabled {
		recorder, err = telemetry.Connect(cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := recorder.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		recorder.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.Telemetry.URL,
			"bucket", cfg.Telemetry.Bucket,
		)
	} else {
		log.Info("telemetry disabled")
	}

	// Wire the sync controller
	ctrl := controller.New(registry, ch)
	ctrl.SetLogger(log)
	if recorder != nil {
		ctrl.SetRecorder(recorder)
	}

	// Connect and announce the roster. A failed initial connection is not
	// fatal: the registry remains usable locally and the operator can
	// restart once the server is reachable.
	if err := ctrl.Connect(ctx); err != nil {
		log.Warn("initial server connection failed, running offline", "error", err)
	} else {
		log.Info("connected to server")
	}
	defer func() {
		log.Info("disconnecting from server")
		if closeErr := ctrl.Disconnect(); closeErr != nil {
			log.Error("error disconnecting", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("EcoCare spoof core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SPOOF_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SPOOF_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadRoster reads the CSV roster and seeds the registry. Duplicate
// addresses within the file are logged and skipped; the first row wins.
func loadRoster(registry *device.Registry, path string, log *logging.Logger) error {
	devices, err := roster.Load(path)
	if err != nil {
		return err
	}

	for _, d := range devices {
		if addErr := registry.Add(d); addErr != nil {
			if errors.Is(addErr, device.ErrDeviceExists) {
				log.Warn("duplicate roster address skipped", "address", d.Address)
				continue
			}
			return addErr
		}
	}

	log.Info("roster loaded", "path", path, "devices", len(devices))
	return nil
}

// newChannel builds the configured channel transport.
func newChannel(cfg *config.Config, log *logging.Logger) (channel.Channel, error) {
	switch cfg.Channel.Transport {
	case config.TransportWebSocket:
		client := websocket.New(cfg.Channel.WebSocket)
		client.SetLogger(log)
		client.SetOnDisconnect(func(err error) {
			log.Warn("websocket connection lost", "error", err)
		})
		return client, nil

	case config.TransportMQTT:
		client := mqtt.New(cfg.Channel.MQTT)
		client.SetLogger(log)
		client.SetOnDisconnect(func(err error) {
			log.Warn("MQTT connection lost", "error", err)
		})
		return client, nil

	default:
		return nil, fmt.Errorf("unknown channel transport %q", cfg.Channel.Transport)
	}
}
