package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if _, err := c.ConvertOptions(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Batch.Workers <= 0 {
		return errors.New("batch.workers must be positive")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.MaxCharsPerLine < 1 || c.Output.MaxCharsPerLine > 32 {
		return fmt.Errorf("output.max_chars_per_line must be between 1 and 32, got %d", c.Output.MaxCharsPerLine)
	}
	if strings.ContainsAny(c.Output.Extension, `/\`) {
		return fmt.Errorf("output.extension %q must not contain path separators", c.Output.Extension)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
