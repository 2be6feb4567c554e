package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "clinocontour/internal/errors"
	"clinocontour/internal/render"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "10", cfg.Render.Resolution)
	assert.Equal(t, "jet", cfg.Render.Colormap)
	assert.Equal(t, render.DefaultTitle, cfg.Render.Title)
	assert.Equal(t, int64(10<<20), cfg.Render.MaxUploadBytes)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
	require.NoError(t, cfg.Validate())

	defaults, err := cfg.Render.Defaults()
	require.NoError(t, err)
	assert.Equal(t, render.DefaultConfig(), defaults)
}

func TestLoad_DefaultsWithoutFileOrEnv(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
render:
  resolution: Double
  colormap: Diverge
  title: Borehole BH-7
logging:
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout, "unset fields keep their defaults")
	assert.Equal(t, "text", cfg.Logging.Format)

	defaults, err := cfg.Render.Defaults()
	require.NoError(t, err)
	assert.Equal(t, render.Config{Resolution: render.ResolutionDouble, Colormap: render.CoolWarm, Title: "Borehole BH-7"}, defaults)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\nrender:\n  colormap: gray_r\n")
	t.Setenv("CLINO_SERVER_PORT", "7070")
	t.Setenv("CLINO_RENDER_RESOLUTION", "100")
	t.Setenv("CLINO_SECURITY_RATE_LIMIT_RPS", "2.5")
	t.Setenv("CLINO_SECURITY_ALLOWED_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("CLINO_WEBSOCKET_PING_PERIOD", "2m30s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "100", cfg.Render.Resolution)
	assert.Equal(t, "gray_r", cfg.Render.Colormap)
	assert.Equal(t, 2.5, cfg.Security.RateLimit.RPS)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 150*time.Second, cfg.WebSocket.PingPeriod)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "explicit file missing",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.yaml")
			},
		},
		{
			name: "invalid yaml",
			setup: func(t *testing.T) string {
				return writeConfig(t, "server: [port")
			},
		},
		{
			name: "unknown colormap",
			setup: func(t *testing.T) string {
				return writeConfig(t, "render:\n  colormap: viridis\n")
			},
		},
		{
			name: "bad env value",
			setup: func(t *testing.T) string {
				t.Setenv("CLINO_SERVER_PORT", "eighty")
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.setup(t))
			assert.ErrorIs(t, err, apperrors.ErrConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"no read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"rate limit without burst", func(c *Config) { c.Security.RateLimit.Burst = 0 }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"log output", func(c *Config) { c.Logging.Output = "syslog" }},
		{"file output without path", func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" }},
		{"resolution", func(c *Config) { c.Render.Resolution = "12" }},
		{"upload limit", func(c *Config) { c.Render.MaxUploadBytes = 0 }},
		{"trace exporter", func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }},
		{"metric exporter", func(c *Config) { c.Telemetry.MetricExporter = "statsd" }},
		{"sample ratio", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfig)
		})
	}

	t.Run("rate limit disabled ignores rps", func(t *testing.T) {
		cfg := Default()
		cfg.Security.RateLimit = RateLimitConfig{Enabled: false}
		assert.NoError(t, cfg.Validate())
	})
}

func TestServerConfig_Address(t *testing.T) {
	assert.Equal(t, ":8080", Default().Server.Address())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Address())
}

func TestConfigSearchPaths(t *testing.T) {
	paths := ConfigSearchPaths()

	require.GreaterOrEqual(t, len(paths), 2)
	assert.Equal(t, ConfigFileName, paths[0])
	assert.Equal(t, filepath.Join("configs", ConfigFileName), paths[1])
}
