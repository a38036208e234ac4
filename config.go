package ski

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables shared by the CLI and sessions.
type Config struct {
	// LevelHeight is the vertical distance between a node and its children.
	LevelHeight float64 `yaml:"levelHeight" toml:"levelHeight"`
	// Spacing is the minimum horizontal gap between sibling subtrees.
	Spacing float64 `yaml:"spacing" toml:"spacing"`
	// MaxSteps bounds Normalize; zero or less means unbounded.
	MaxSteps int `yaml:"maxSteps" toml:"maxSteps"`
	// Strategy is "outermost" or "innermost".
	Strategy string `yaml:"strategy" toml:"strategy"`
}

func DefaultConfig() Config {
	return Config{
		LevelHeight: 100,
		Spacing:     100,
		MaxSteps:    1000,
		Strategy:    Outermost.String(),
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file on top of the
// defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	default:
		return cfg, errors.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var result error
	if c.LevelHeight <= 0 {
		result = multierror.Append(result, errors.Errorf("levelHeight must be positive, got %v", c.LevelHeight))
	}
	if c.Spacing <= 0 {
		result = multierror.Append(result, errors.Errorf("spacing must be positive, got %v", c.Spacing))
	}
	if _, err := ParseStrategy(c.Strategy); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

// Reducer returns a reducer over the SKI rules using the configured strategy.
func (c Config) Reducer() (*Reducer, error) {
	s, err := ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	r := NewReducer()
	r.Strategy = s
	return r, nil
}
