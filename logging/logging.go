package logging

import "go.uber.org/zap"

// New creates a zap logger for the given environment: "production" logs JSON
// at info level, "development" logs to the console at debug level and
// anything else gets the example logger used for local runs and tests.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	default:
		return zap.NewExample(), nil
	}
}
