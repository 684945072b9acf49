package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Relay     RelayConfig
	AI        AIConfig
	Analytics AnalyticsConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志，由命令行参数设置
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	// postgres | mysql | sqlite
	Driver    string
	DSN       string `mapstructure:"dsn"`
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	// 启用后每个请求在事务内写入 request.jwt.claims，供行级安全策略使用
	ForwardClaims bool   `mapstructure:"forward_claims"`
	AnonKey       string `mapstructure:"anon_key"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Issuer         string        `mapstructure:"issuer"`
	StoreJWTSecret string        `mapstructure:"store_jwt_secret"`
	StoreTokenTTL  time.Duration `mapstructure:"store_token_ttl_minutes"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type RelayConfig struct {
	// redis | local
	Driver  string `mapstructure:"driver"`
	Channel string `mapstructure:"channel"`
	Event   string `mapstructure:"event"`
	AppID   string `mapstructure:"app_id"`
	Key     string `mapstructure:"key"`
	Secret  string `mapstructure:"secret"`
	Cluster string `mapstructure:"cluster"`
}

type AIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	EnhanceModel string        `mapstructure:"enhance_model"`
	Timeout      time.Duration `mapstructure:"timeout_seconds"`
}

type AnalyticsConfig struct {
	DefaultLearningStyle string  `mapstructure:"default_learning_style"`
	OptimalDailyEvents   float64 `mapstructure:"optimal_daily_events"`
	RecentEventLimit     int     `mapstructure:"recent_event_limit"`
	StrongThreshold      float64 `mapstructure:"strong_threshold"`
	Timezone             string  `mapstructure:"timezone"`
	// recency | static
	Scorer string `mapstructure:"scorer"`
}

// Location returns the zone used to bucket attention by hour.
func (a AnalyticsConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)

	v.SetDefault("auth.store_token_ttl_minutes", 5)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("relay.driver", "redis")
	v.SetDefault("relay.channel", "chat")
	v.SetDefault("relay.event", "new-message")

	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-4")
	v.SetDefault("ai.enhance_model", "gpt-3.5-turbo")
	v.SetDefault("ai.timeout_seconds", 60)

	v.SetDefault("analytics.default_learning_style", "Visual-Kinesthetic")
	v.SetDefault("analytics.optimal_daily_events", 5)
	v.SetDefault("analytics.recent_event_limit", 50)
	v.SetDefault("analytics.strong_threshold", 0.75)
	v.SetDefault("analytics.timezone", "UTC")
	v.SetDefault("analytics.scorer", "recency")

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func bindEnv(v *viper.Viper) {
	// Database
	v.BindEnv("database.dsn", "DATABASE_URL", "SUPABASE_DB_URL")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.anon_key", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY")

	// Auth
	v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET", "CLERK_JWT_KEY")
	v.BindEnv("auth.issuer", "AUTH_ISSUER")
	v.BindEnv("auth.store_jwt_secret", "SUPABASE_JWT_SECRET")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Relay
	v.BindEnv("relay.app_id", "PUSHER_APP_ID")
	v.BindEnv("relay.key", "PUSHER_KEY", "NEXT_PUBLIC_PUSHER_KEY")
	v.BindEnv("relay.secret", "PUSHER_SECRET")
	v.BindEnv("relay.cluster", "PUSHER_CLUSTER", "NEXT_PUBLIC_PUSHER_CLUSTER")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	// AI
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.api_key", "OPENAI_API_KEY", "AI_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")
}

func LoadConfig(path string) (*Config, error) {
	// .env 可选
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("TUTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Auth.StoreTokenTTL = cfg.Auth.StoreTokenTTL * time.Minute
	cfg.AI.Timeout = cfg.AI.Timeout * time.Second
	// 未单独配置时与会话令牌共用密钥
	if cfg.Auth.StoreJWTSecret == "" {
		cfg.Auth.StoreJWTSecret = cfg.Auth.JWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 启动时校验必需配置
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Server.Mode == "release" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Auth.JWTSecret))
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
		}
	case "mysql":
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("database.host or database.dsn is required for mysql")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Relay.Driver {
	case "redis", "local":
	default:
		return fmt.Errorf("unsupported relay driver %q", c.Relay.Driver)
	}

	if c.Analytics.Timezone != "" {
		if _, err := time.LoadLocation(c.Analytics.Timezone); err != nil {
			return fmt.Errorf("invalid analytics.timezone: %w", err)
		}
	}
	if c.Analytics.StrongThreshold <= 0 || c.Analytics.StrongThreshold > 1 {
		return fmt.Errorf("analytics.strong_threshold must be in (0, 1]")
	}
	if c.Analytics.RecentEventLimit <= 0 {
		return fmt.Errorf("analytics.recent_event_limit must be positive")
	}
	if c.Analytics.OptimalDailyEvents <= 0 {
		return fmt.Errorf("analytics.optimal_daily_events must be positive")
	}
	return nil
}
