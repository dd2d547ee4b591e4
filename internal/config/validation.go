package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if err := c.Trader.validate(); err != nil {
		return err
	}
	if err := c.Monitor.validate(); err != nil {
		return err
	}
	if err := c.State.validate(); err != nil {
		return err
	}
	return nil
}

func (t *TraderConfig) validate() error {
	url := strings.TrimSpace(t.URL)
	if url == "" {
		return fmt.Errorf("trader.url is required (or set TRADER_URL)")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("trader.url must be an http(s) URL, got %q", url)
	}
	return nil
}

func (m *MonitorConfig) validate() error {
	if m.SizeTol < 0 {
		return fmt.Errorf("monitor.size_tol must be >= 0")
	}
	if m.SizeTolRel < 0 {
		return fmt.Errorf("monitor.size_tol_rel must be >= 0")
	}
	if m.HeartbeatHours < 0 {
		return fmt.Errorf("monitor.heartbeat_hours must be >= 0")
	}
	return nil
}

func (s *StateConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "file", "sqlite":
	default:
		return fmt.Errorf("state.backend must be file or sqlite, got %q", s.Backend)
	}
	if strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("state.path cannot be empty")
	}
	return nil
}
