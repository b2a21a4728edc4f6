package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"scoringd/internal/structures"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.redisPrefix", "scoringd")
	v.SetDefault("analytics.growthWindow", 30*24*time.Hour)
	v.SetDefault("analytics.maxSubjects", 100000)
	v.SetDefault("analytics.maxSnapshotsPerSubject", 1000)
	v.SetDefault("analytics.pruneInterval", time.Hour)
	v.SetDefault("content.sentimentThreshold", 0.1)
	v.SetDefault("forecast.horizon", 4)
	v.SetDefault("forecast.trendThreshold", 10.0)
	v.SetDefault("forecast.ridgeAlpha", 1e-3)
	v.SetDefault("cache.ttl", 5)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config
	v := viper.New()

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setDefaults(v)

	_ = v.BindEnv("logger.level", "SCORINGD_LOG_LEVEL")
	_ = v.BindEnv("store.backend", "SCORINGD_STORE_BACKEND")
	_ = v.BindEnv("store.redisURL", "SCORINGD_REDIS_URL")
	_ = v.BindEnv("store.postgresDSN", "SCORINGD_POSTGRES_DSN")
	_ = v.BindEnv("persistence.saveInterval", "SCORINGD_SAVE_INTERVAL")
	_ = v.BindEnv("cache.enabled", "SCORINGD_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "SCORINGD_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "EngagementScoringDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
