package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"scoringd/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	switch cv.conf.Store.Backend {
	case "redis":
		if cv.conf.Store.RedisURL == "" {
			return fmt.Errorf("store.redisURL is required for the redis backend")
		}
	case "postgres":
		if cv.conf.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgresDSN is required for the postgres backend")
		}
	}
	if cv.conf.Analytics.MaxSubjects < 0 || cv.conf.Analytics.MaxSnapshotsPerSubject < 0 {
		return fmt.Errorf("analytics limits must not be negative")
	}
	if cv.conf.Forecast.Horizon < 0 {
		return fmt.Errorf("forecast.horizon must not be negative")
	}
	return nil
}
