package config

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/logging"
)

// Config holds the project config values
type Config struct {
	URL          string `env:"DB_URI" env-default:"mongodb://127.0.0.1:27017"`
	DatabaseName string `env:"DB_NAME" env-default:"incident-reports"`
	BaseURL      string `env:"BASE_URL"`
	Port         string `env:"PORT" env-default:"8080"`
	Env          string `env:"APP_ENV" env-default:"local"`

	JWTSecret string `env:"JWT_SECRET"`
	RedisURL  string `env:"REDIS_URL"`

	SendgridAPIKey string `env:"SENDGRID_API_KEY"`
	NotifyEmail    string `env:"INCIDENT_NOTIFY_EMAIL"`
	NotifyFrom     string `env:"INCIDENT_NOTIFY_FROM" env-default:"no-reply@incident-reports.local"`

	CaseNumberTimezone   string        `env:"CASE_NUMBER_TZ" env-default:"Local"`
	CategorySyncSchedule string        `env:"CATEGORY_SYNC_SCHEDULE" env-default:"0 3 * * *"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
	QueryTimeout         time.Duration `env:"QUERY_TIMEOUT" env-default:"10s"`
}

// New reads the config from the environment and installs the global zap logger
func New() (*Config, error) {
	var conf Config
	if err := cleanenv.ReadEnv(&conf); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	//setup zap logger and replace default logger
	logger, err := logging.New(conf.Env)
	if err != nil {
		return nil, err
	}
	_ = zap.ReplaceGlobals(logger)

	return &conf, nil
}

// Location resolves CaseNumberTimezone, falling back to the local zone
func (c *Config) Location() *time.Location {
	if c.CaseNumberTimezone == "" || c.CaseNumberTimezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.CaseNumberTimezone)
	if err != nil {
		zap.S().Warnw("unknown case number timezone, using local time",
			"timezone", c.CaseNumberTimezone,
			"error", err)
		return time.Local
	}
	return loc
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "error", err)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}
