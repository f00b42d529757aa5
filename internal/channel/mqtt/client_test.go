package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ecocare/spoof-core/internal/channel"
	"github.com/ecocare/spoof-core/internal/infrastructure/config"
)

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "spoofd-test",
			TLS:      false,
		},
		QoS:         1,
		TopicPrefix: "ecocare",
	}
}

func TestEmitWhileDisconnected(t *testing.T) {
	client := New(testConfig())

	err := client.Emit(channel.EventDeviceUpdate, map[string]string{"ipAddress": "10.0.0.1"})
	if !errors.Is(err, channel.ErrNotConnected) {
		t.Errorf("Emit() error = %v, want ErrNotConnected", err)
	}
}

func TestEmitEmptyEvent(t *testing.T) {
	client := New(testConfig())

	err := client.Emit("", nil)
	if !errors.Is(err, channel.ErrInvalidEvent) {
		t.Errorf("Emit() error = %v, want ErrInvalidEvent", err)
	}
}

func TestDisconnectWhileDisconnected(t *testing.T) {
	client := New(testConfig())

	if err := client.Disconnect(); err != nil {
		t.Errorf("Disconnect() on disconnected client error = %v, want nil", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true, want false")
	}
}

func TestOnRegistersHandler(t *testing.T) {
	client := New(testConfig())

	client.On(channel.EventConnectedDevices, func(payload json.RawMessage) {})

	client.handlerMu.RLock()
	defer client.handlerMu.RUnlock()
	if _, ok := client.handlers[channel.EventConnectedDevices]; !ok {
		t.Error("handler not registered")
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "spoof"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://127.0.0.1:1883" {
		t.Errorf("broker URL = %q, want tcp://127.0.0.1:1883", got)
	}
	if opts.ClientID != "spoofd-test" {
		t.Errorf("client ID = %q, want spoofd-test", opts.ClientID)
	}
	if opts.Username != "spoof" || opts.Password != "secret" {
		t.Error("auth credentials not applied")
	}
	if opts.WillTopic != "ecocare/status/spoofd-test" {
		t.Errorf("will topic = %q, want ecocare/status/spoofd-test", opts.WillTopic)
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLS config not set")
	}
}

func TestBuildClientOptionsGeneratesClientID(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = ""

	opts := buildClientOptions(cfg)

	if !strings.HasPrefix(opts.ClientID, "spoofd-") {
		t.Errorf("generated client ID = %q, want spoofd- prefix", opts.ClientID)
	}
	if opts.ClientID == "spoofd-" {
		t.Error("generated client ID has no unique suffix")
	}
}
