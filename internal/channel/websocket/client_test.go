package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/ecocare/spoof-core/internal/channel"
	"github.com/ecocare/spoof-core/internal/infrastructure/config"
)

// testServer is a minimal websocket peer that records received envelopes
// and can push envelopes to the client.
type testServer struct {
	*httptest.Server
	received chan envelope
	conns    chan *gorilla.Conn
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		received: make(chan envelope, 16),
		conns:    make(chan *gorilla.Conn, 1),
	}
	upgrader := gorilla.Upgrader{}

	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		ts.conns <- conn
		for {
			var env envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			ts.received <- env
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testConfig(url string) config.WebSocketConfig {
	return config.WebSocketConfig{
		URL:              url,
		HandshakeTimeout: 5,
		WriteTimeout:     5,
		MaxMessageSize:   1 << 20,
	}
}

func TestClient_ConnectAndEmit(t *testing.T) {
	ts := newTestServer(t)
	c := New(testConfig(ts.URL))

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Disconnect()

	if !c.IsConnected() {
		t.Fatal("IsConnected() = false after Connect")
	}

	if err := c.Emit(channel.EventDeviceUpdate, map[string]any{"ipAddress": "10.0.0.5"}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	select {
	case env := <-ts.received:
		if env.Event != channel.EventDeviceUpdate {
			t.Errorf("event = %q, want %q", env.Event, channel.EventDeviceUpdate)
		}
		var payload map[string]any
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if payload["ipAddress"] != "10.0.0.5" {
			t.Errorf("payload = %v", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive the emitted event")
	}
}

func TestClient_EmitWhileDisconnected(t *testing.T) {
	c := New(testConfig("http://127.0.0.1:5000"))

	err := c.Emit(channel.EventDeviceUpdate, nil)
	if !errors.Is(err, channel.ErrNotConnected) {
		t.Errorf("Emit() error = %v, want ErrNotConnected", err)
	}
}

func TestClient_ConnectFailure(t *testing.T) {
	// Nothing is listening here; the dial must fail and leave the client
	// disconnected and retryable.
	c := New(testConfig("http://127.0.0.1:1"))

	err := c.Connect(context.Background())
	if !errors.Is(err, channel.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after failed Connect")
	}
}

func TestClient_InboundDispatch(t *testing.T) {
	ts := newTestServer(t)
	c := New(testConfig(ts.URL))

	got := make(chan json.RawMessage, 1)
	c.On(channel.EventServerDeviceUpdate, func(payload json.RawMessage) {
		got <- payload
	})

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Disconnect()

	conn := <-ts.conns
	push := envelope{
		Event: channel.EventServerDeviceUpdate,
		Data:  json.RawMessage(`{"ipAddress":"10.0.0.5","status":"On"}`),
	}
	if err := conn.WriteJSON(push); err != nil {
		t.Fatalf("server write failed: %v", err)
	}

	select {
	case payload := <-got:
		var update struct {
			Address string `json:"ipAddress"`
		}
		if err := json.Unmarshal(payload, &update); err != nil {
			t.Fatalf("unmarshalling payload: %v", err)
		}
		if update.Address != "10.0.0.5" {
			t.Errorf("address = %q, want 10.0.0.5", update.Address)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked for inbound event")
	}
}

func TestClient_DisconnectIdempotent(t *testing.T) {
	ts := newTestServer(t)
	c := New(testConfig(ts.URL))

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := c.Disconnect(); err != nil {
		t.Errorf("first Disconnect() error = %v", err)
	}
	if err := c.Disconnect(); err != nil {
		t.Errorf("second Disconnect() error = %v", err)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after Disconnect")
	}
}

func TestClient_TransportLossCallback(t *testing.T) {
	ts := newTestServer(t)
	c := New(testConfig(ts.URL))

	lost := make(chan error, 1)
	c.SetOnDisconnect(func(err error) {
		lost <- err
	})

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	conn := <-ts.conns
	conn.Close()

	select {
	case <-lost:
		if c.IsConnected() {
			t.Error("IsConnected() = true after transport loss")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect callback was not invoked")
	}
}

func TestToWebsocketURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "http://127.0.0.1:5000", want: "ws://127.0.0.1:5000"},
		{in: "https://spoof.example", want: "wss://spoof.example"},
		{in: "ws://spoof.example/ws", want: "ws://spoof.example/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := toWebsocketURL(tt.in)
			if err != nil {
				t.Fatalf("toWebsocketURL(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("toWebsocketURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
