package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
roster:
  path: "testdata/devices.csv"
channel:
  transport: websocket
  websocket:
    url: "http://spoof.example:5000"
logging:
  level: debug
  format: text
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Roster.Path != "testdata/devices.csv" {
		t.Errorf("Roster.Path = %q, want %q", cfg.Roster.Path, "testdata/devices.csv")
	}
	if cfg.Channel.WebSocket.URL != "http://spoof.example:5000" {
		t.Errorf("Channel.WebSocket.URL = %q", cfg.Channel.WebSocket.URL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Defaults survive partial files.
	if cfg.Channel.WebSocket.HandshakeTimeout != 10 {
		t.Errorf("HandshakeTimeout = %d, want default 10", cfg.Channel.WebSocket.HandshakeTimeout)
	}
}

func TestLoad_MQTTTransport(t *testing.T) {
	content := `
channel:
  transport: mqtt
  mqtt:
    broker:
      host: broker.example
      port: 8883
      tls: true
    qos: 2
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Channel.Transport != TransportMQTT {
		t.Errorf("Transport = %q, want mqtt", cfg.Channel.Transport)
	}
	if cfg.Channel.MQTT.Broker.Host != "broker.example" || cfg.Channel.MQTT.QoS != 2 {
		t.Errorf("MQTT config not applied: %+v", cfg.Channel.MQTT)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidTransport(t *testing.T) {
	content := `
channel:
  transport: carrier-pigeon
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("Load() expected error for unknown transport, got nil")
	}
}

func TestLoad_TelemetryRequiresURL(t *testing.T) {
	content := `
telemetry:
  enabled: true
  bucket: spoof
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("Load() expected error for telemetry without url, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SPOOF_ROSTER_PATH", "/srv/devices.csv")
	t.Setenv("SPOOF_CHANNEL_WS_URL", "http://override.example:5000")

	content := `
roster:
  path: "ignored.csv"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Roster.Path != "/srv/devices.csv" {
		t.Errorf("env override not applied: Roster.Path = %q", cfg.Roster.Path)
	}
	if cfg.Channel.WebSocket.URL != "http://override.example:5000" {
		t.Errorf("env override not applied: WebSocket.URL = %q", cfg.Channel.WebSocket.URL)
	}
}
