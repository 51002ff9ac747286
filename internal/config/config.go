package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"spadewatch/internal/notify"
)

const (
	EnvPrefix = "spadewatch"

	DefaultURL        = "http://services.buildandshoot.com/serverlist.json"
	DefaultServerName = "aloha.pk tower of babel"
)

type Config struct {
	URL        string
	ServerName string
	Interval   time.Duration
	Timeout    time.Duration
	Favorites  []string

	Notifier      string
	AppName       string
	Title         string
	FavoriteTitle string
	Icon          string
	FavoriteIcon  string

	LogLevel string

	StatusAddr      string
	StatusRateLimit float64
	StatusBurst     int

	Once bool
}

// Flags returns the config flags. Bind them into viper with Bind.
func Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("config", pflag.ContinueOnError)
	flags.String("url", DefaultURL, "the server list endpoint")
	flags.String("server", DefaultServerName, "exact name of the server to watch")
	flags.Duration("interval", 60*time.Second, "time between polls")
	flags.Duration("timeout", 10*time.Second, "timeout for loading the server list")
	flags.StringSlice("favorites", nil, "favorite map names")
	flags.String("notifier", notify.BackendBeeep, "notification backend ("+strings.Join(notify.Backends, ", ")+")")
	flags.String("app-name", "spadewatch", "application name shown with notifications")
	flags.String("title", "OpenSpades: New Map!", "notification title for a new map")
	flags.String("favorite-title", "OpenSpades: New Map is your favorite!!!", "notification title for a favorite map")
	flags.String("icon", "terminal", "notification icon for a new map")
	flags.String("favorite-icon", "emblem-favorite", "notification icon for a favorite map")
	flags.String("log-level", "info", "the log level to run at")
	flags.String("status-addr", "", "address for the status/metrics endpoint, disabled when empty")
	flags.Float64("status-rate-limit", 5, "requests per second allowed per status client")
	flags.Int("status-burst", 10, "request burst allowed per status client")
	flags.Bool("once", false, "poll a single time and exit")
	return flags
}

// Bind wires flags and SPADEWATCH_* environment variables into v.
func Bind(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v.BindPFlags(flags)
}

// ReadFile merges a config file into v. Any format viper understands works.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to load config file %s", path)
	}
	return nil
}

func Read(v *viper.Viper) (*Config, error) {
	c := &Config{
		URL:             v.GetString("url"),
		ServerName:      v.GetString("server"),
		Interval:        v.GetDuration("interval"),
		Timeout:         v.GetDuration("timeout"),
		Favorites:       stringSlice(v, "favorites"),
		Notifier:        strings.ToLower(v.GetString("notifier")),
		AppName:         v.GetString("app-name"),
		Title:           v.GetString("title"),
		FavoriteTitle:   v.GetString("favorite-title"),
		Icon:            v.GetString("icon"),
		FavoriteIcon:    v.GetString("favorite-icon"),
		LogLevel:        v.GetString("log-level"),
		StatusAddr:      v.GetString("status-addr"),
		StatusRateLimit: v.GetFloat64("status-rate-limit"),
		StatusBurst:     v.GetInt("status-burst"),
		Once:            v.GetBool("once"),
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return c, nil
}

// stringSlice reads a list setting. Lists from the environment arrive as one
// comma-separated string; viper would split those on whitespace instead.
func stringSlice(v *viper.Viper, key string) []string {
	raw, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key)
	}

	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.Errorf("url is required")
	}
	if c.ServerName == "" {
		return errors.Errorf("server is required")
	}
	if c.Interval <= 0 {
		return errors.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	known := false
	for _, b := range notify.Backends {
		if c.Notifier == b {
			known = true
			break
		}
	}
	if !known {
		return errors.Errorf("notifier must be one of %s, got %q", strings.Join(notify.Backends, ", "), c.Notifier)
	}

	if c.StatusAddr != "" {
		if c.StatusRateLimit <= 0 {
			return errors.Errorf("status-rate-limit must be positive when status-addr is set")
		}
		if c.StatusBurst <= 0 {
			return errors.Errorf("status-burst must be positive when status-addr is set")
		}
	}

	return nil
}

// Fields is the configuration as log fields.
func (c *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("url", c.URL),
		zap.String("server", c.ServerName),
		zap.Duration("interval", c.Interval),
		zap.Duration("timeout", c.Timeout),
		zap.Strings("favorites", c.Favorites),
		zap.String("notifier", c.Notifier),
		zap.String("logLevel", c.LogLevel),
		zap.String("statusAddr", c.StatusAddr),
		zap.Bool("once", c.Once),
	}
}
