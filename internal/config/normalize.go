package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeWebhooks()
	return nil
}

func (c *Config) normalizeStore() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = BackendSQLite
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = defaultStorePath
	}
	var err error
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	c.Store.RedisURL = strings.TrimSpace(c.Store.RedisURL)
	c.Store.RedisPrefix = strings.TrimSpace(c.Store.RedisPrefix)
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = defaultRedisPrefix
	}
	return nil
}

func (c *Config) normalizeWebhooks() {
	c.Webhooks.DefaultURL = strings.TrimSpace(c.Webhooks.DefaultURL)
	if c.Webhooks.TimeoutSeconds == 0 {
		c.Webhooks.TimeoutSeconds = defaultWebhookTimeout
	}
	urls := make(map[string]string, len(c.Webhooks.URLs))
	for event, url := range c.Webhooks.URLs {
		event = strings.TrimSpace(event)
		url = strings.TrimSpace(url)
		if event != "" && url != "" {
			urls[event] = url
		}
	}
	c.Webhooks.URLs = urls
}
