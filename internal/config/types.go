package config

import "strings"

// Config is the root configuration carrier, built once at process start
// and threaded explicitly into the pipeline.
type Config struct {
	App     AppConfig     `toml:"app"`
	Trader  TraderConfig  `toml:"trader"`
	Monitor MonitorConfig `toml:"monitor"`
	State   StateConfig   `toml:"state"`
	Notify  NotifyConfig  `toml:"notify"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
	HTTPAddr string `toml:"http_addr"`
}

// TraderConfig describes the dashboard page to scrape and how to drive
// the headless browser against it.
type TraderConfig struct {
	URL               string `toml:"url"`
	UserAgent         string `toml:"user_agent"`
	ChromePath        string `toml:"chrome_path"`
	Headless          bool   `toml:"headless"`
	NavTimeoutSeconds int    `toml:"nav_timeout_seconds"`
	SettleDelayMs     int    `toml:"settle_delay_ms"`
	TrackOrders       bool   `toml:"track_orders"`
}

// MonitorConfig holds diff tolerances and report cadence.
// SizeTol is an absolute coin-size delta, SizeTolRel a fraction; a resize
// is significant when either configured threshold is exceeded.
type MonitorConfig struct {
	SizeTol        float64 `toml:"size_tol"`
	SizeTolRel     float64 `toml:"size_tol_rel"`
	HeartbeatHours float64 `toml:"heartbeat_hours"`
	GuardEmpty     bool    `toml:"guard_empty"`
	WatchInterval  string  `toml:"watch_interval"`
}

type StateConfig struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`
	RunLogPath string `toml:"runlog_path"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `toml:"enabled"`
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
}

// Configured reports whether the transport can actually deliver.
func (t TelegramConfig) Configured() bool {
	return t.Enabled && strings.TrimSpace(t.BotToken) != "" && strings.TrimSpace(t.ChatID) != ""
}

type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	_, ok := k[strings.ToLower(strings.TrimSpace(path))]
	return ok
}
