package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the EcoCare spoof core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Roster    RosterConfig    `yaml:"roster"`
	Channel   ChannelConfig   `yaml:"channel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Transport names accepted by channel.transport.
const (
	TransportWebSocket = "websocket"
	TransportMQTT      = "mqtt"
)

// RosterConfig contains settings for the bulk device load at startup.
type RosterConfig struct {
	// Path is the CSV file of locally simulated, initially unconnected devices.
	Path string `yaml:"path"`
}

// ChannelConfig selects and configures the event channel transport.
type ChannelConfig struct {
	Transport string          `yaml:"transport"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
}

// WebSocketConfig contains websocket channel settings.
type WebSocketConfig struct {
	// URL of the EcoCare server. http/https schemes are rewritten to ws/wss.
	URL              string `yaml:"url"`
	HandshakeTimeout int    `yaml:"handshake_timeout"`
	WriteTimeout     int    `yaml:"write_timeout"`
	MaxMessageSize   int64  `yaml:"max_message_size"`
}

// MQTTConfig contains MQTT channel settings.
type MQTTConfig struct {
	Broker      MQTTBrokerConfig `yaml:"broker"`
	Auth        MQTTAuthConfig   `yaml:"auth"`
	QoS         int              `yaml:"qos"`
	TopicPrefix string           `yaml:"topic_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TelemetryConfig contains InfluxDB activity recording settings.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SPOOF_SECTION_KEY
// For example: SPOOF_ROSTER_PATH, SPOOF_CHANNEL_WS_URL
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Roster: RosterConfig{
			Path: "unconnected_iot_devices.csv",
		},
		Channel: ChannelConfig{
			Transport: TransportWebSocket,
			WebSocket: WebSocketConfig{
				URL:              "http://127.0.0.1:5000",
				HandshakeTimeout: 10,
				WriteTimeout:     5,
				MaxMessageSize:   1 << 20,
			},
			MQTT: MQTTConfig{
				Broker: MQTTBrokerConfig{
					Host: "localhost",
					Port: 1883,
				},
				QoS:         1,
				TopicPrefix: "ecocare",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SPOOF_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Roster
	if v := os.Getenv("SPOOF_ROSTER_PATH"); v != "" {
		cfg.Roster.Path = v
	}

	// Channel
	if v := os.Getenv("SPOOF_CHANNEL_TRANSPORT"); v != "" {
		cfg.Channel.Transport = v
	}
	if v := os.Getenv("SPOOF_CHANNEL_WS_URL"); v != "" {
		cfg.Channel.WebSocket.URL = v
	}
	if v := os.Getenv("SPOOF_CHANNEL_MQTT_HOST"); v != "" {
		cfg.Channel.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SPOOF_CHANNEL_MQTT_USERNAME"); v != "" {
		cfg.Channel.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SPOOF_CHANNEL_MQTT_PASSWORD"); v != "" {
		cfg.Channel.MQTT.Auth.Password = v
	}

	// Telemetry
	if v := os.Getenv("SPOOF_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Roster.Path == "" {
		errs = append(errs, "roster.path is required")
	}

	switch c.Channel.Transport {
	case TransportWebSocket:
		if c.Channel.WebSocket.URL == "" {
			errs = append(errs, "channel.websocket.url is required")
		}
	case TransportMQTT:
		if c.Channel.MQTT.Broker.Host == "" {
			errs = append(errs, "channel.mqtt.broker.host is required")
		}
		if port := c.Channel.MQTT.Broker.Port; port < 1 || port > 65535 {
			errs = append(errs, "channel.mqtt.broker.port must be between 1 and 65535")
		}
	default:
		errs = append(errs, fmt.Sprintf("channel.transport must be %q or %q", TransportWebSocket, TransportMQTT))
	}

	if c.Channel.MQTT.QoS < 0 || c.Channel.MQTT.QoS > 2 {
		errs = append(errs, "channel.mqtt.qos must be 0, 1, or 2")
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.URL == "" {
			errs = append(errs, "telemetry.url is required when telemetry is enabled")
		}
		if c.Telemetry.Bucket == "" {
			errs = append(errs, "telemetry.bucket is required when telemetry is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetHandshakeTimeout returns the websocket handshake timeout as a Duration.
func (c *WebSocketConfig) GetHandshakeTimeout() time.Duration {
	return time.Duration(c.HandshakeTimeout) * time.Second
}

// GetWriteTimeout returns the websocket write timeout as a Duration.
func (c *WebSocketConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}
