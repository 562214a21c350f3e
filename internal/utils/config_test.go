package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benmeehan/location-store/pkg/file"
	"github.com/benmeehan/location-store/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"), file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", config.Server.IP)
	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "bolt", config.Storage.Driver)
	assert.Equal(t, "locations", config.Storage.Table)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8081
  shutdown_timeout: 3s
storage:
  driver: memory
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	config, err := LoadConfig(path, file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, 8081, config.Server.Port)
	assert.Equal(t, 3*time.Second, config.Server.ShutdownTimeout)
	assert.Equal(t, "0.0.0.0", config.Server.IP)
	assert.Equal(t, "memory", config.Storage.Driver)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfig_ReadError(t *testing.T) {
	mockFileClient := new(mocks.FileOperations)
	mockFileClient.On("IsFileExists", "config.yaml").Return(true, nil)
	mockFileClient.On("ReadYamlFile", "config.yaml", mock.Anything).Return(errors.New("bad yaml"))

	_, err := LoadConfig("config.yaml", mockFileClient)
	assert.Error(t, err)
	mockFileClient.AssertExpectations(t)
}

func TestConfig_ApplyEnv(t *testing.T) {
	config := DefaultConfig()
	err := config.ApplyEnv(envMap(map[string]string{
		"IP":        "127.0.0.1",
		"PORT":      "9000",
		"DATA_DIR":  "/var/lib/locations",
		"LOG_LEVEL": "warn",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", config.Addr())
	assert.Equal(t, "/var/lib/locations", config.Storage.DataDir)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, "public", config.Server.PublicDir)

	err = config.ApplyEnv(envMap(map[string]string{"PORT": "http"}))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(c *Config){
		"port":       func(c *Config) { c.Server.Port = 0 },
		"driver":     func(c *Config) { c.Storage.Driver = "sled" },
		"data dir":   func(c *Config) { c.Storage.DataDir = "" },
		"table":      func(c *Config) { c.Storage.Table = "" },
		"meta table": func(c *Config) { c.Storage.Table = "meta" },
		"log level":  func(c *Config) { c.Logging.Level = "loud" },
		"broker":     func(c *Config) { c.Events.Enabled = true },
		"events qos": func(c *Config) { c.Events.Enabled = true; c.Events.Broker = "tcp://b:1883"; c.Events.QOS = 3 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}
