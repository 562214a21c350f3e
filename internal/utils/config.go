package utils

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/benmeehan/location-store/pkg/file"
	"github.com/benmeehan/location-store/pkg/kv"
	"github.com/rs/zerolog"
)

// Config represents the structure of the configuration file.
type Config struct {
	Server struct {
		IP              string        `yaml:"ip"`               // Address to bind
		Port            int           `yaml:"port"`             // Port to listen on
		PublicDir       string        `yaml:"public_dir"`       // Directory served at "/" when present
		ReadTimeout     time.Duration `yaml:"read_timeout"`     // Maximum duration for reading a request
		WriteTimeout    time.Duration `yaml:"write_timeout"`    // Maximum duration before timing out writes of the response
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // Grace period for in-flight requests on shutdown
	} `yaml:"server"`

	Storage struct {
		Driver  string `yaml:"driver"`   // "bolt" or "memory"
		DataDir string `yaml:"data_dir"` // Directory holding the database file
		Table   string `yaml:"table"`    // Name of the locations table
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"` // zerolog level name
	} `yaml:"logging"`

	Events struct {
		Enabled        bool          `yaml:"enabled"`         // Publish record events over MQTT
		Broker         string        `yaml:"broker"`          // MQTT broker address
		ClientID       string        `yaml:"client_id"`       // MQTT client ID prefix
		CACertificate  string        `yaml:"ca_certificate"`  // Optional path to the CA certificate
		Topic          string        `yaml:"topic"`           // Topic prefix for record events
		QOS            int           `yaml:"qos"`             // MQTT QoS level for record events
		PublishTimeout time.Duration `yaml:"publish_timeout"` // Time to wait for a publish acknowledgement
	} `yaml:"events"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	var config Config
	config.Server.IP = "0.0.0.0"
	config.Server.Port = 3000
	config.Server.PublicDir = "public"
	config.Server.ReadTimeout = 10 * time.Second
	config.Server.WriteTimeout = 10 * time.Second
	config.Server.ShutdownTimeout = 15 * time.Second
	config.Storage.Driver = kv.DriverBolt
	config.Storage.DataDir = "db"
	config.Storage.Table = "locations"
	config.Logging.Level = zerolog.InfoLevel.String()
	config.Events.ClientID = "location-store"
	config.Events.Topic = "locations/events"
	config.Events.QOS = 1
	config.Events.PublishTimeout = 2 * time.Second
	return &config
}

// LoadConfig loads the YAML configuration from the specified file on top of the defaults.
// A missing file is not an error.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	config := DefaultConfig()

	exists, err := fileClient.IsFileExists(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", filename, err)
	}
	if !exists {
		return config, nil
	}

	if err := fileClient.ReadYamlFile(filename, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return config, nil
}

// ApplyEnv overrides configuration values from environment variables.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if ip, ok := lookup("IP"); ok && ip != "" {
		c.Server.IP = ip
	}
	if port, ok := lookup("PORT"); ok && port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	if dir, ok := lookup("DATA_DIR"); ok && dir != "" {
		c.Storage.DataDir = dir
	}
	if dir, ok := lookup("PUBLIC_DIR"); ok && dir != "" {
		c.Server.PublicDir = dir
	}
	if level, ok := lookup("LOG_LEVEL"); ok && level != "" {
		c.Logging.Level = level
	}
	return nil
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Storage.Driver != kv.DriverBolt && c.Storage.Driver != kv.DriverMemory {
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == kv.DriverBolt && c.Storage.DataDir == "" {
		return fmt.Errorf("storage data_dir is required for the %s driver", kv.DriverBolt)
	}
	if c.Storage.Table == "" {
		return fmt.Errorf("storage table name is required")
	}
	if kv.IsReservedTable(c.Storage.Table) {
		return fmt.Errorf("storage table name %q is reserved", c.Storage.Table)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	if c.Events.Enabled {
		if c.Events.Broker == "" {
			return fmt.Errorf("events broker is required when events are enabled")
		}
		if c.Events.QOS < 0 || c.Events.QOS > 2 {
			return fmt.Errorf("events qos %d out of range", c.Events.QOS)
		}
	}
	return nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.IP, strconv.Itoa(c.Server.Port))
}

// Load reads the configuration file, applies environment overrides and validates the result.
func Load(filename string, fileClient file.FileOperations) (*Config, error) {
	config, err := LoadConfig(filename, fileClient)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
