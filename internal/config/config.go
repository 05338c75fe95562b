package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/tagclean/internal/model"
)

// Config holds all runtime configuration for a tagclean run.
type Config struct {
	DSN         string   `env:"TAGCLEAN_DB_URL" validate:"required"`
	LogFormat   string   `env:"TAGCLEAN_LOG_FORMAT" env-default:"text" validate:"oneof=text json"`
	LogLevel    string   `env:"TAGCLEAN_LOG_LEVEL" env-default:"info"`
	Parallelism int      `env:"TAGCLEAN_PARALLELISM" env-default:"2" validate:"min=1,max=16"`
	Classes     []string // subset of model.AllClasses names to process
	DryRun      bool

	FilePath   string // load: Parquet input
	Table      string // load: target tag table
	ReportPath string // audit: JSON report output, stdout when empty
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Classes     []string `yaml:"classes"`
	Parallelism int      `yaml:"parallelism"`
}

var validate = validator.New()

// LoadEnv fills DSN, logging and parallelism settings from the environment,
// applying defaults for anything unset.
func (c *Config) LoadEnv() error {
	if err := cleanenv.ReadEnv(c); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Classes = yc.Classes
	if yc.Parallelism > 0 {
		c.Parallelism = yc.Parallelism
	}
	return c.validateClasses()
}

// validateClasses checks that every entry in Classes is a registered class.
// If Classes is empty, it defaults to every registered class.
func (c *Config) validateClasses() error {
	if len(c.Classes) == 0 {
		c.Classes = model.ClassNames()
		return nil
	}
	for _, name := range c.Classes {
		if _, ok := model.ClassByName(name); !ok {
			return fmt.Errorf("unknown class %q in config", name)
		}
	}
	return nil
}

// SelectedClasses resolves Classes against the registry.
func (c *Config) SelectedClasses() ([]model.Class, error) {
	if err := c.validateClasses(); err != nil {
		return nil, err
	}
	out := make([]model.Class, 0, len(c.Classes))
	for _, name := range c.Classes {
		cls, _ := model.ClassByName(name)
		out = append(out, cls)
	}
	return out, nil
}

// Validate checks the fields every database command needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.validateClasses()
}

// ValidateLoad additionally checks the bulk load input.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if _, ok := model.ParentColumn(c.Table); !ok {
		return fmt.Errorf("--table must be %s or %s, got %q", model.NodeTags, model.WayTags, c.Table)
	}
	return nil
}
