package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken         string         `yaml:"discord_token"`
	DatabasePath         string         `yaml:"database_path"`
	LogLevel             string         `yaml:"log_level"`
	MessageCacheSize     int            `yaml:"message_cache_size"`
	MessageRetentionDays int            `yaml:"message_retention_days"`
	Health               HealthConfig   `yaml:"health"`
	Antispam             AntispamConfig `yaml:"antispam"`
	BanStats             BanStatsConfig `yaml:"banstats"`
	Tags                 TagsConfig     `yaml:"tags"`
	Activity             ActivityConfig `yaml:"activity"`
	Purge                PurgeConfig    `yaml:"purge"`
	Images               ImagesConfig   `yaml:"images"`
	EmbedColors          EmbedColors    `yaml:"embed_colors"`
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

type AntispamConfig struct {
	WindowSeconds int     `yaml:"window_seconds"`
	Similarity    float64 `yaml:"similarity"`
	Threshold     int     `yaml:"threshold"`
	MuteDays      int     `yaml:"mute_days"`
	DecayEnabled  bool    `yaml:"decay_enabled"`
	DecayMinutes  int     `yaml:"decay_minutes"`
}

type BanStatsConfig struct {
	MatchToleranceSeconds int `yaml:"match_tolerance_seconds"`
}

type TagsConfig struct {
	MaxContentLength int `yaml:"max_content_length"`
	PageSize         int `yaml:"page_size"`
	PreviewLength    int `yaml:"preview_length"`
}

type ActivityConfig struct {
	WindowHours    int `yaml:"window_hours"`
	RefreshMinutes int `yaml:"refresh_minutes"`
}

type PurgeConfig struct {
	LogsDir    string `yaml:"logs_dir"`
	URLPrepend string `yaml:"url_prepend"`
}

type ImagesConfig struct {
	DefaultURL string `yaml:"default_url"`
}

type EmbedColors struct {
	Ban   int `yaml:"ban"`
	Kick  int `yaml:"kick"`
	Unban int `yaml:"unban"`
	Mute  int `yaml:"mute"`
	Info  int `yaml:"info"`
	Error int `yaml:"error"`
}

func DefaultConfig() Config {
	return Config{
		DatabasePath:         "warden.db",
		LogLevel:             "info",
		MessageCacheSize:     4096,
		MessageRetentionDays: 30,
		Health:               HealthConfig{Enabled: false, Addr: ":8080", Metrics: true},
		Antispam: AntispamConfig{
			WindowSeconds: 5,
			Similarity:    0.9,
			Threshold:     3,
			MuteDays:      28,
			DecayEnabled:  false,
			DecayMinutes:  60,
		},
		BanStats: BanStatsConfig{MatchToleranceSeconds: 20},
		Tags:     TagsConfig{MaxContentLength: 2000, PageSize: 25, PreviewLength: 20},
		Activity: ActivityConfig{WindowHours: 24, RefreshMinutes: 10},
		Purge:    PurgeConfig{LogsDir: "purge_logs"},
		EmbedColors: EmbedColors{
			Ban:   0xED4245,
			Kick:  0xFEE75C,
			Unban: 0x57F287,
			Mute:  0xE67E22,
			Info:  0x3498DB,
			Error: 0x992D22,
		},
	}
}

func Load() (Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}

	normalize(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("BOT_TOKEN", cfg.DiscordToken)
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.DatabasePath = envString("DATABASE_PATH", cfg.DatabasePath)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.MessageCacheSize = envInt("MESSAGE_CACHE_SIZE", cfg.MessageCacheSize)
	cfg.MessageRetentionDays = envInt("MESSAGE_RETENTION_DAYS", cfg.MessageRetentionDays)
	cfg.Health.Enabled = envBool("HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("HEALTH_ADDR", cfg.Health.Addr)
	cfg.Health.Metrics = envBool("METRICS_ENABLED", cfg.Health.Metrics)
	cfg.Antispam.WindowSeconds = envInt("ANTISPAM_WINDOW_SECONDS", cfg.Antispam.WindowSeconds)
	cfg.Antispam.Similarity = envFloat("ANTISPAM_SIMILARITY", cfg.Antispam.Similarity)
	cfg.Antispam.Threshold = envInt("ANTISPAM_THRESHOLD", cfg.Antispam.Threshold)
	cfg.Antispam.MuteDays = envInt("ANTISPAM_MUTE_DAYS", cfg.Antispam.MuteDays)
	cfg.Antispam.DecayEnabled = envBool("ANTISPAM_DECAY_ENABLED", cfg.Antispam.DecayEnabled)
	cfg.Antispam.DecayMinutes = envInt("ANTISPAM_DECAY_MINUTES", cfg.Antispam.DecayMinutes)
	cfg.BanStats.MatchToleranceSeconds = envInt("BANSTATS_MATCH_TOLERANCE_SECONDS", cfg.BanStats.MatchToleranceSeconds)
	cfg.Tags.MaxContentLength = envInt("TAGS_MAX_CONTENT_LENGTH", cfg.Tags.MaxContentLength)
	cfg.Activity.WindowHours = envInt("ACTIVITY_WINDOW_HOURS", cfg.Activity.WindowHours)
	cfg.Activity.RefreshMinutes = envInt("ACTIVITY_REFRESH_MINUTES", cfg.Activity.RefreshMinutes)
	cfg.Purge.LogsDir = envString("PURGE_LOGS_LOCATION", cfg.Purge.LogsDir)
	cfg.Purge.URLPrepend = envString("PURGE_LOGS_URL_PREPEND", cfg.Purge.URLPrepend)
	cfg.Images.DefaultURL = envString("DEFAULT_IMAGE_URL", cfg.Images.DefaultURL)
}

// normalize replaces values that would make the engines misbehave with the defaults.
func normalize(cfg *Config) {
	defaults := DefaultConfig()
	if cfg.Antispam.WindowSeconds <= 0 {
		cfg.Antispam.WindowSeconds = defaults.Antispam.WindowSeconds
	}
	if cfg.Antispam.Similarity <= 0 || cfg.Antispam.Similarity > 1 {
		cfg.Antispam.Similarity = defaults.Antispam.Similarity
	}
	if cfg.Antispam.Threshold <= 0 {
		cfg.Antispam.Threshold = defaults.Antispam.Threshold
	}
	if cfg.Antispam.MuteDays <= 0 || cfg.Antispam.MuteDays > 28 {
		cfg.Antispam.MuteDays = defaults.Antispam.MuteDays
	}
	if cfg.Antispam.DecayMinutes <= 0 {
		cfg.Antispam.DecayMinutes = defaults.Antispam.DecayMinutes
	}
	if cfg.BanStats.MatchToleranceSeconds < 0 {
		cfg.BanStats.MatchToleranceSeconds = defaults.BanStats.MatchToleranceSeconds
	}
	if cfg.Tags.MaxContentLength <= 0 {
		cfg.Tags.MaxContentLength = defaults.Tags.MaxContentLength
	}
	if cfg.Tags.PageSize <= 0 || cfg.Tags.PageSize > 25 {
		cfg.Tags.PageSize = defaults.Tags.PageSize
	}
	if cfg.Tags.PreviewLength <= 0 {
		cfg.Tags.PreviewLength = defaults.Tags.PreviewLength
	}
	if cfg.Activity.WindowHours <= 0 {
		cfg.Activity.WindowHours = defaults.Activity.WindowHours
	}
	if cfg.Activity.RefreshMinutes <= 0 {
		cfg.Activity.RefreshMinutes = defaults.Activity.RefreshMinutes
	}
	if cfg.MessageCacheSize <= 0 {
		cfg.MessageCacheSize = defaults.MessageCacheSize
	}
	if cfg.MessageRetentionDays <= 0 {
		cfg.MessageRetentionDays = defaults.MessageRetentionDays
	}
	if cfg.Purge.LogsDir == "" {
		cfg.Purge.LogsDir = defaults.Purge.LogsDir
	}
}

func (c Config) MessageRetention() time.Duration {
	return time.Duration(c.MessageRetentionDays) * 24 * time.Hour
}

func (c AntispamConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

func (c AntispamConfig) MuteDuration() time.Duration {
	return time.Duration(c.MuteDays) * 24 * time.Hour
}

func (c AntispamConfig) DecayAfter() time.Duration {
	return time.Duration(c.DecayMinutes) * time.Minute
}

func (c BanStatsConfig) MatchTolerance() time.Duration {
	return time.Duration(c.MatchToleranceSeconds) * time.Second
}

func (c ActivityConfig) Window() time.Duration {
	return time.Duration(c.WindowHours) * time.Hour
}

func (c ActivityConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMinutes) * time.Minute
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}
