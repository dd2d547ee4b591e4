package config

import "strings"

const (
	defaultAppEnv      = "dev"
	defaultAppLogLevel = "info"

	defaultTraderUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome Safari"
	defaultTraderNavTO     = 120
	defaultTraderSettleMs  = 2500

	defaultHeartbeatHours = 4

	defaultStateBackend = "file"
	defaultStatePath    = "last_positions.json"
)

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Trader.applyDefaults(keys)
	c.Monitor.applyDefaults(keys)
	c.State.applyDefaults(keys)
	c.Notify.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
	)
}

func (t *TraderConfig) applyDefaults(keys keySet) {
	if t == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("trader.user_agent", &t.UserAgent, defaultTraderUserAgent),
		boolFieldDefault("trader.headless", &t.Headless, true),
		fieldDefault{
			key:   "trader.nav_timeout_seconds",
			need:  func() bool { return t.NavTimeoutSeconds <= 0 },
			apply: func() { t.NavTimeoutSeconds = defaultTraderNavTO },
		},
		fieldDefault{
			key:   "trader.settle_delay_ms",
			need:  func() bool { return t.SettleDelayMs <= 0 },
			apply: func() { t.SettleDelayMs = defaultTraderSettleMs },
		},
	)
}

func (m *MonitorConfig) applyDefaults(keys keySet) {
	if m == nil {
		return
	}
	applyFieldDefaults(keys,
		boolFieldDefault("monitor.guard_empty", &m.GuardEmpty, true),
		fieldDefault{
			key:   "monitor.heartbeat_hours",
			need:  func() bool { return m.HeartbeatHours == 0 },
			apply: func() { m.HeartbeatHours = defaultHeartbeatHours },
		},
	)
}

func (s *StateConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("state.backend", &s.Backend, defaultStateBackend),
		stringFieldDefault("state.path", &s.Path, defaultStatePath),
	)
}

func (n *NotifyConfig) applyDefaults(keys keySet) {
	if n == nil {
		return
	}
	applyFieldDefaults(keys,
		boolFieldDefault("notify.telegram.enabled", &n.Telegram.Enabled, true),
	)
}

type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && !*target
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
