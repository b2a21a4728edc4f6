package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"scoringd/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Persistence: structures.Persistence{
			FilePath:     "/tmp/scoringd.dat",
			SaveInterval: 30 * time.Second,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Store: structures.StoreConfig{
			Backend: "memory",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownBackend(t *testing.T) {
	c := validConfig()
	c.Store.Backend = "mongo"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_RedisNeedsURL(t *testing.T) {
	c := validConfig()
	c.Store.Backend = "redis"
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Store.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_PostgresNeedsDSN(t *testing.T) {
	c := validConfig()
	c.Store.Backend = "postgres"
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Store.PostgresDSN = "postgres://scoringd@localhost/scoringd?sslmode=disable"
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_NegativeLimits(t *testing.T) {
	c := validConfig()
	c.Analytics.MaxSubjects = -1
	assert.Error(t, NewCnfValidator(c).Validate())

	c = validConfig()
	c.Forecast.Horizon = -2
	assert.Error(t, NewCnfValidator(c).Validate())
}
