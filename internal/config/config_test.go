package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, args ...string) (*Config, error) {
	v := viper.New()
	flags := Flags()
	require.NoError(t, Bind(v, flags))
	require.NoError(t, flags.Parse(args))
	return Read(v)
}

func TestRead_Defaults(t *testing.T) {
	c, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, DefaultURL, c.URL)
	assert.Equal(t, DefaultServerName, c.ServerName)
	assert.Equal(t, 60*time.Second, c.Interval)
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.Empty(t, c.Favorites)
	assert.Equal(t, "beeep", c.Notifier)
	assert.Equal(t, "OpenSpades: New Map!", c.Title)
	assert.Equal(t, "emblem-favorite", c.FavoriteIcon)
	assert.Equal(t, "", c.StatusAddr)
	assert.False(t, c.Once)
}

func TestRead_Flags(t *testing.T) {
	c, err := load(t,
		"--server", "aloha.pk arena",
		"--interval", "2m",
		"--favorites", "babel,hallway",
		"--notifier", "Notify-Send",
		"--once",
	)
	require.NoError(t, err)

	assert.Equal(t, "aloha.pk arena", c.ServerName)
	assert.Equal(t, 2*time.Minute, c.Interval)
	assert.Equal(t, []string{"babel", "hallway"}, c.Favorites)
	assert.Equal(t, "notify-send", c.Notifier)
	assert.True(t, c.Once)
}

func TestRead_Env(t *testing.T) {
	t.Setenv("SPADEWATCH_SERVER", "env server")
	t.Setenv("SPADEWATCH_STATUS_ADDR", "127.0.0.1:9191")
	t.Setenv("SPADEWATCH_LOG_LEVEL", "debug")

	c, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, "env server", c.ServerName)
	assert.Equal(t, "127.0.0.1:9191", c.StatusAddr)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestRead_EnvFavorites(t *testing.T) {
	tests := map[string]struct {
		env  string
		want []string
	}{
		"comma separated":   {env: "babel,hallway", want: []string{"babel", "hallway"}},
		"names with spaces": {env: "tower of babel, hallway ", want: []string{"tower of babel", "hallway"}},
		"single name":       {env: "tower of babel", want: []string{"tower of babel"}},
		"empty items":       {env: "babel,,", want: []string{"babel"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SPADEWATCH_FAVORITES", tt.env)

			c, err := load(t)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Favorites)
		})
	}
}

func TestRead_FavoritesFlagOverridesEnv(t *testing.T) {
	t.Setenv("SPADEWATCH_FAVORITES", "babel")

	c, err := load(t, "--favorites", "tower of babel,hallway")
	require.NoError(t, err)
	assert.Equal(t, []string{"tower of babel", "hallway"}, c.Favorites)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spadewatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server: aloha.pk tower of babel
interval: 30s
favorites:
  - babel
  - nightmare
notifier: none
`), 0o644))

	v := viper.New()
	flags := Flags()
	require.NoError(t, Bind(v, flags))
	require.NoError(t, flags.Parse(nil))
	require.NoError(t, ReadFile(v, path))

	c, err := Read(v)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, c.Interval)
	assert.Equal(t, []string{"babel", "nightmare"}, c.Favorites)
	assert.Equal(t, "none", c.Notifier)

	require.Error(t, ReadFile(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")))
	require.NoError(t, ReadFile(viper.New(), ""))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			URL:             DefaultURL,
			ServerName:      DefaultServerName,
			Interval:        time.Minute,
			Timeout:         10 * time.Second,
			Notifier:        "beeep",
			StatusRateLimit: 5,
			StatusBurst:     10,
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"no url":           func(c *Config) { c.URL = "" },
		"no server":        func(c *Config) { c.ServerName = "" },
		"zero interval":    func(c *Config) { c.Interval = 0 },
		"negative timeout": func(c *Config) { c.Timeout = -time.Second },
		"unknown notifier": func(c *Config) { c.Notifier = "growl" },
		"zero rate limit": func(c *Config) {
			c.StatusAddr = ":9191"
			c.StatusRateLimit = 0
		},
		"zero burst": func(c *Config) {
			c.StatusAddr = ":9191"
			c.StatusBurst = 0
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			require.Error(t, c.Validate())
		})
	}

	c := valid()
	c.StatusRateLimit = 0
	require.NoError(t, c.Validate(), "rate limit only matters with a status address")
}

func TestRead_Invalid(t *testing.T) {
	_, err := load(t, "--interval", "0s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
