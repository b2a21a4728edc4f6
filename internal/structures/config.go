package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Enabled      bool          `yaml:"enabled"`
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type AnalyticsConfig struct {
	GrowthWindow           time.Duration `yaml:"growthWindow"`
	MaxSubjects            int           `yaml:"maxSubjects"`
	MaxSnapshotsPerSubject int           `yaml:"maxSnapshotsPerSubject"`
	Retention              time.Duration `yaml:"retention"`
	PruneInterval          time.Duration `yaml:"pruneInterval"`
}

type ContentConfig struct {
	SentimentThreshold float64 `yaml:"sentimentThreshold"`
}

type ForecastConfig struct {
	Horizon        int     `yaml:"horizon"`
	TrendThreshold float64 `yaml:"trendThreshold"`
	RidgeAlpha     float64 `yaml:"ridgeAlpha"`
}

type StoreConfig struct {
	Backend     string `yaml:"backend" validate:"in:memory,redis,postgres"`
	RedisURL    string `yaml:"redisURL"`
	RedisPrefix string `yaml:"redisPrefix"`
	PostgresDSN string `yaml:"postgresDSN"`
}

// InMemory reports whether history lives in process memory. Only then is the
// snapshot file the source of truth across restarts.
func (s StoreConfig) InMemory() bool {
	return s.Backend == "" || s.Backend == "memory"
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Analytics   AnalyticsConfig `yaml:"analytics"`
	Content     ContentConfig   `yaml:"content"`
	Forecast    ForecastConfig  `yaml:"forecast"`
	Store       StoreConfig     `yaml:"store"`
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

func (r Route) Pattern() string {
	return r.Method + " " + r.Url
}
