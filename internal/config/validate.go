package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.Script == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/sweeper/config.toml"
		}
		return fmt.Errorf("engine.script is required. Edit %s (create with 'sweeper config init')", defaultPath)
	}
	for _, code := range c.Engine.SoftExitCodes {
		if code == 0 {
			return errors.New("engine.soft_exit_codes must not contain 0; status 0 is always success")
		}
		if code < 0 || code > 255 {
			return fmt.Errorf("engine.soft_exit_codes contains %d; exit statuses are 0-255", code)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.IncomingDir == c.Paths.QuarantineDir {
		return errors.New("paths.incoming_dir and paths.quarantine_dir must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
