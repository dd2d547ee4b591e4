package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads the yaml config at path (if it exists), overlays the
// environment bindings, applies defaults and validates. A missing config
// file is not an error: the original deployment of this monitor was
// driven entirely by environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	bindEnvs(v)

	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	setKeys := make(keySet)
	collectSettingsKeys(v.AllSettings(), setKeys)
	cfg.applyDefaults(setKeys)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindEnvs wires the environment variables the legacy scraper used, so a
// bare-env deployment keeps working without a config file.
func bindEnvs(v *viper.Viper) {
	v.BindEnv("trader.url", "TRADER_URL")
	v.BindEnv("trader.chrome_path", "CHROME_PATH", "PUPPETEER_EXECUTABLE_PATH")
	v.BindEnv("notify.telegram.bot_token", "TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("notify.telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("monitor.size_tol", "SIZE_TOL")
	v.BindEnv("monitor.size_tol_rel", "SIZE_TOL_REL")
	v.BindEnv("monitor.heartbeat_hours", "HEARTBEAT_HOURS")
	v.BindEnv("state.path", "STATE_FILE")
}

func collectSettingsKeys(settings map[string]any, dest keySet) {
	if dest == nil || len(settings) == 0 {
		return
	}
	flattenConfigKeys("", settings, dest)
}

func flattenConfigKeys(prefix string, node any, dest keySet) {
	switch val := node.(type) {
	case map[string]any:
		for k, v := range val {
			next := strings.ToLower(strings.TrimSpace(k))
			if next == "" {
				continue
			}
			if prefix != "" {
				next = prefix + "." + next
			}
			flattenConfigKeys(next, v, dest)
		}
	case map[interface{}]interface{}:
		for k, v := range val {
			keyStr, ok := k.(string)
			if !ok {
				continue
			}
			next := strings.ToLower(strings.TrimSpace(keyStr))
			if next == "" {
				continue
			}
			if prefix != "" {
				next = prefix + "." + next
			}
			flattenConfigKeys(next, v, dest)
		}
	case []any:
		if prefix != "" {
			dest.mark(prefix)
		}
		for _, item := range val {
			flattenConfigKeys(prefix, item, dest)
		}
	default:
		if prefix != "" {
			dest.mark(prefix)
		}
	}
}
