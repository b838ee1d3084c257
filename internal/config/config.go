package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
)

// Config holds all run settings, populated from environment variables. With
// nothing set, the tool reads fcc-forum-pageviews.csv and writes the charts
// to the working directory.
type Config struct {
	InputPath string `env:"INPUT_PATH" validate:"required"`
	OutputDir string `env:"OUTPUT_DIR" validate:"required"`

	// Percentile band kept by the outlier filter.
	LowerQuantile float64 `env:"LOWER_QUANTILE" validate:"gte=0,lt=1"`
	UpperQuantile float64 `env:"UPPER_QUANTILE" validate:"gt=0,lte=1,gtfield=LowerQuantile"`

	LogLevel  string `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=json text"`

	// HTTPAddr enables the chart server when non-empty.
	HTTPAddr        string `env:"HTTP_ADDR"`
	ShutdownTimeout time.Duration

	// MetricsTextfile, when set, receives the run metrics in Prometheus text format.
	MetricsTextfile string `env:"METRICS_TEXTFILE"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	lower, err := parseQuantile("LOWER_QUANTILE", "0.025")
	if err != nil {
		return nil, err
	}
	upper, err := parseQuantile("UPPER_QUANTILE", "0.975")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:       sharedcfg.EnvOrDefault("INPUT_PATH", "fcc-forum-pageviews.csv"),
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		LowerQuantile:   lower,
		UpperQuantile:   upper,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ""),
		ShutdownTimeout: shutdownTimeout,
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseQuantile(key, fallback string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, fallback), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be a number", key)
	}
	return v, nil
}

var validate = newValidator()

// newValidator reports fields by their environment variable name so errors
// point at what the operator has to change.
func newValidator() func(*Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})

	return func(cfg *Config) error {
		err := v.Struct(cfg)
		if err == nil {
			return nil
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		errs := make([]error, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
		return errors.Join(errs...)
	}
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "oneof":
		return fmt.Errorf("invalid %s: must be one of [%s]", fe.Field(), fe.Param())
	case "gtfield":
		return fmt.Errorf("invalid %s: must be greater than LOWER_QUANTILE", fe.Field())
	default:
		return fmt.Errorf("invalid %s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
}
