package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
)

// Config is the explicit configuration handed to every component.
type Config struct {
	Paths    Paths         `yaml:"paths"`
	Training Training      `yaml:"training"`
	Server   Server        `yaml:"server"`
	Log      logger.Config `yaml:"log"`
}

// Paths lists every file the pipeline reads or writes.
type Paths struct {
	Source       string `yaml:"source"`
	Raw          string `yaml:"raw"`
	Train        string `yaml:"train"`
	Test         string `yaml:"test"`
	Preprocessor string `yaml:"preprocessor"`
	Model        string `yaml:"model"`
	Report       string `yaml:"report"`
	Metrics      string `yaml:"metrics"` // training metrics textfile
}

type Training struct {
	Seed       int64   `yaml:"seed"`
	TestRatio  float64 `yaml:"test_ratio"`
	Folds      int     `yaml:"folds"`
	Iterations int     `yaml:"iterations"`
	MinScore   float64 `yaml:"min_score"`
	Workers    int     `yaml:"workers"`
}

type Server struct {
	Port           int      `yaml:"port"`
	RateLimit      float64  `yaml:"rate_limit"`
	Burst          int      `yaml:"burst"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

const artifactsDir = "artifacts"

// Default returns the layout the training and serving binaries use when no
// file is supplied.
func Default() Config {
	return Config{
		Paths: DefaultPaths(artifactsDir),
		Training: Training{
			Seed:       42,
			TestRatio:  0.2,
			Folds:      3,
			Iterations: 100,
			MinScore:   0.6,
			Workers:    4,
		},
		Server: Server{
			Port:           8000,
			RateLimit:      20,
			Burst:          40,
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Log: logger.Config{Level: "info", Format: "json"},
	}
}

// DefaultPaths places every artifact under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Source:       filepath.Join("notebook", "data", "Zomato_5k.csv"),
		Raw:          filepath.Join(dir, "data.csv"),
		Train:        filepath.Join(dir, "train.csv"),
		Test:         filepath.Join(dir, "test.csv"),
		Preprocessor: filepath.Join(dir, "preprocessor.gob"),
		Model:        filepath.Join(dir, "model.gob"),
		Report:       filepath.Join(dir, "report.json"),
		Metrics:      filepath.Join(dir, "training.prom"),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) loadFromEnv() error {
	if dir := os.Getenv("RATING_ARTIFACTS_DIR"); dir != "" {
		source := c.Paths.Source
		c.Paths = DefaultPaths(dir)
		c.Paths.Source = source
	}

	if src := os.Getenv("RATING_SOURCE_DATA"); src != "" {
		c.Paths.Source = src
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}

	if level := os.Getenv("RATING_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if origins := os.Getenv("RATING_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	return nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error

	p := c.Paths
	for name, v := range map[string]string{
		"paths.source":       p.Source,
		"paths.raw":          p.Raw,
		"paths.train":        p.Train,
		"paths.test":         p.Test,
		"paths.preprocessor": p.Preprocessor,
		"paths.model":        p.Model,
	} {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}
	if p.Raw != "" && (p.Raw == p.Train || p.Raw == p.Test || p.Train == p.Test) {
		errs = append(errs, errors.New("raw, train and test paths must be distinct"))
	}

	t := c.Training
	if t.TestRatio <= 0 || t.TestRatio >= 1 {
		errs = append(errs, fmt.Errorf("training.test_ratio must be in (0, 1), got %v", t.TestRatio))
	}
	if t.Folds < 2 {
		errs = append(errs, fmt.Errorf("training.folds must be at least 2, got %d", t.Folds))
	}
	if t.Iterations < 1 {
		errs = append(errs, fmt.Errorf("training.iterations must be positive, got %d", t.Iterations))
	}
	if t.Workers < 1 {
		errs = append(errs, fmt.Errorf("training.workers must be positive, got %d", t.Workers))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port number: %d", c.Server.Port))
	}

	return errors.Join(errs...)
}
