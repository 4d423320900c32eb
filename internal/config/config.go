package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Auth          AuthConfig          `toml:"auth"`
	RateLimit     RateLimitConfig     `toml:"ratelimit"`
	Redis         RedisConfig         `toml:"redis"`
	Google        GoogleConfig        `toml:"google"`
	Notifications NotificationsConfig `toml:"notifications"`
	Sweeper       SweeperConfig       `toml:"sweeper"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"` // json | console
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	WebhookSecret string `toml:"webhook_secret"`
	// Время жизни state в OAuth-редиректе, минуты
	OAuthStateTTL int `toml:"oauth_state_ttl"`
}

// RateLimitConfig ограничение публичного создания бронирований (по IP).
// X-Forwarded-For учитывается, только если соединение пришло от trusted_proxies.
// Интервалы в секундах.
type RateLimitConfig struct {
	Enabled           bool     `toml:"enabled"`
	RequestsPerMinute int      `toml:"requests_per_minute"`
	Burst             int      `toml:"burst"`
	TrustedProxies    []string `toml:"trusted_proxies"` // CIDR или IP
	IdleTTL           int      `toml:"idle_ttl"`
	CleanupInterval   int      `toml:"cleanup_interval"`
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	Queue      string `toml:"queue"`
	DeadLetter string `toml:"dead_letter"`
}

type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
	CalendarID   string `toml:"calendar_id"`
	Timezone     string `toml:"timezone"`
	// Куда перенаправить агента после подключения аккаунта
	SuccessURL string `toml:"success_url"`
}

type NotificationsConfig struct {
	Workers     int `toml:"workers"`
	QueueSize   int `toml:"queue_size"`
	MaxAttempts int `toml:"max_attempts"`
	BaseDelay   int `toml:"base_delay"` // секунды
	MaxDelay    int `toml:"max_delay"`  // секунды
	SendTimeout int `toml:"send_timeout"`
	// Ссылки в письмах
	QuestionnaireURL string `toml:"questionnaire_url"`
	DashboardURL     string `toml:"dashboard_url"`
}

// SweeperConfig периодическая повторная постановка неотправленных уведомлений
type SweeperConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"`
	// Бронирования моложе этого возраста не трогаем, минуты
	MinAge int `toml:"min_age"`
	// Более старые бронирования больше не досылаем, часы
	MaxAge int `toml:"max_age"`
}

// Load читает .env (если есть), подставляет ${VAR} в TOML и валидирует результат
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse разбирает содержимое TOML-файла
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if _, err := toml.Decode(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Logs.Format == "" {
		c.Logs.Format = "json"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "openhouse-service"
	}

	if c.Auth.OAuthStateTTL == 0 {
		c.Auth.OAuthStateTTL = 10
	}

	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 5
	}
	if c.RateLimit.IdleTTL == 0 {
		c.RateLimit.IdleTTL = 600
	}
	if c.RateLimit.CleanupInterval == 0 {
		c.RateLimit.CleanupInterval = 60
	}

	if c.Redis.Queue == "" {
		c.Redis.Queue = "openhouse:notifications"
	}
	if c.Redis.DeadLetter == "" {
		c.Redis.DeadLetter = c.Redis.Queue + ":dead"
	}

	if c.Google.CalendarID == "" {
		c.Google.CalendarID = "primary"
	}
	if c.Google.Timezone == "" {
		c.Google.Timezone = "Europe/Rome"
	}

	if c.Notifications.Workers == 0 {
		c.Notifications.Workers = 2
	}
	if c.Notifications.QueueSize == 0 {
		c.Notifications.QueueSize = 256
	}
	if c.Notifications.MaxAttempts == 0 {
		c.Notifications.MaxAttempts = 5
	}
	if c.Notifications.BaseDelay == 0 {
		c.Notifications.BaseDelay = 2
	}
	if c.Notifications.MaxDelay == 0 {
		c.Notifications.MaxDelay = 300
	}
	if c.Notifications.SendTimeout == 0 {
		c.Notifications.SendTimeout = 30
	}
	if c.Notifications.QuestionnaireURL == "" {
		c.Notifications.QuestionnaireURL = "https://forms.gle/Gdhg4nyebiofTBE27"
	}

	if c.Sweeper.Schedule == "" {
		c.Sweeper.Schedule = "*/10 * * * *"
	}
	if c.Sweeper.MinAge == 0 {
		c.Sweeper.MinAge = 15
	}
	if c.Sweeper.MaxAge == 0 {
		c.Sweeper.MaxAge = 72
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string

	if c.Database.Host == "" {
		problems = append(problems, "database.host is required")
	}
	if c.Database.DBName == "" {
		problems = append(problems, "database.dbname is required")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		problems = append(problems, "auth.jwt_secret is required")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	for _, proxy := range c.RateLimit.TrustedProxies {
		if !isCIDROrIP(proxy) {
			problems = append(problems, fmt.Sprintf("ratelimit.trusted_proxies: %q is not an IP or CIDR", proxy))
		}
	}
	if c.Notifications.Workers < 0 || c.Notifications.MaxAttempts < 1 {
		problems = append(problems, "notifications.workers must be >= 0 and max_attempts >= 1")
	}
	if c.Notifications.BaseDelay > c.Notifications.MaxDelay {
		problems = append(problems, "notifications.base_delay must not exceed max_delay")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// GoogleEnabled возвращает true, если заданы OAuth-креды Google
func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != "" && c.Google.RedirectURL != ""
}

func isCIDROrIP(s string) bool {
	if _, _, err := net.ParseCIDR(s); err == nil {
		return true
	}
	return net.ParseIP(s) != nil
}
