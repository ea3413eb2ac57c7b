package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateWebhooks(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path must be set for the sqlite backend")
		}
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return errors.New("store.redis_url must be set for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("store.backend must be one of %s, %s, %s (got %q)",
			BackendSQLite, BackendRedis, BackendMemory, c.Store.Backend)
	}
	return nil
}

func (c *Config) validateWebhooks() error {
	if c.Webhooks.TimeoutSeconds < 0 {
		return errors.New("webhooks.timeout_seconds must be positive")
	}
	if c.Webhooks.DefaultURL != "" {
		if err := validateURL(c.Webhooks.DefaultURL); err != nil {
			return fmt.Errorf("webhooks.default_url: %w", err)
		}
	}
	for event, u := range c.Webhooks.URLs {
		if err := validateURL(u); err != nil {
			return fmt.Errorf("webhooks.urls.%s: %w", event, err)
		}
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
