package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	RateLimit   RateLimitConfig
	Mail        MailConfig
	Queue       QueueConfig
	Scheduler   SchedulerConfig
	Reservation ReservationConfig
	Log         LogConfig
}

type ServerConfig struct {
	Addr         string
	Mode         string // gin mode: debug, release, test
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// MigrateOnStart 啟動時執行 goose migrations
	MigrateOnStart bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// EventCacheTTL 單一活動快取的存活時間
	EventCacheTTL time.Duration
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// RateLimitConfig 限制 /auth 路由的每個 IP 請求頻率
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// MailConfig 為空 Host 時使用只寫 log 的 mailer
type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type QueueConfig struct {
	Driver        string // memory | redis
	BufferSize    int
	ConsumerID    string
	RetryDelay    time.Duration // memory: 重回隊列延遲；redis: XAUTOCLAIM 最小閒置時間
	MaxRetryCount int
}

type SchedulerConfig struct {
	Interval time.Duration
}

type ReservationConfig struct {
	// ApprovalRequired 為 true 時新預約為 PENDING，否則直接 CONFIRMED
	ApprovalRequired bool
}

type LogConfig struct {
	Level string
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Server:      GetServerConfig(),
		Database:    GetDatabaseConfig(),
		Redis:       GetRedisConfig(),
		JWT:         GetJWTConfig(),
		RateLimit:   GetRateLimitConfig(),
		Mail:        GetMailConfig(),
		Queue:       GetQueueConfig(),
		Scheduler:   GetSchedulerConfig(),
		Reservation: GetReservationConfig(),
		Log:         LogConfig{Level: getEnv("LOG_LEVEL", "info")},
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:          "localhost",
		Port:          "6380", // 測試 Redis 用 6380 port
		Password:      "",
		DB:            1,
		EventCacheTTL: time.Minute,
	}

	return &Config{
		Server: ServerConfig{
			Addr:         ":0",
			Mode:         "test",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		JWT: JWTConfig{
			Secret:   "test-secret",
			Issuer:   "booknest-test",
			TokenTTL: time.Hour,
		},
		RateLimit:   RateLimitConfig{RequestsPerMinute: 600, Burst: 100},
		Queue:       QueueConfig{Driver: "memory", BufferSize: 100, RetryDelay: 10 * time.Millisecond, MaxRetryCount: 3},
		Scheduler:   SchedulerConfig{Interval: time.Second},
		Reservation: ReservationConfig{ApprovalRequired: false},
		Log:         LogConfig{Level: "error"},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         getEnv("SERVER_ADDR", ":8080"),
		Mode:         getEnv("GIN_MODE", "release"),
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:           getEnv("DB_HOST", "localhost"),
		Port:           getEnv("DB_PORT", "5432"),
		User:           getEnv("DB_USER", "postgres"),
		Password:       getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "booknest"),
		SSLMode:        getEnv("DB_SSL_MODE", "disable"),
		MigrateOnStart: getEnvBool("DB_MIGRATE_ON_START", true),
	}
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Host:          getEnv("REDIS_HOST", "localhost"),
		Port:          getEnv("REDIS_PORT", "6379"),
		Password:      getEnv("REDIS_PASSWORD", ""),
		DB:            getEnvInt("REDIS_DB", 0),
		EventCacheTTL: getEnvDuration("EVENT_CACHE_TTL", 5*time.Minute),
	}
}

func GetJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:   getEnv("JWT_SECRET", "change-me"),
		Issuer:   getEnv("JWT_ISSUER", "booknest"),
		TokenTTL: getEnvDuration("JWT_TTL", 24*time.Hour),
	}
}

func GetRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: getEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", 30),
		Burst:             getEnvInt("AUTH_RATE_LIMIT_BURST", 10),
	}
}

func GetMailConfig() MailConfig {
	return MailConfig{
		Host:      getEnv("SMTP_HOST", ""),
		Port:      getEnvInt("SMTP_PORT", 2525),
		Username:  getEnv("SMTP_USERNAME", ""),
		Password:  getEnv("SMTP_PASSWORD", ""),
		FromEmail: getEnv("FROM_EMAIL", "noreply@booknest.com"),
		FromName:  getEnv("FROM_NAME", "BookNest"),
	}
}

func GetQueueConfig() QueueConfig {
	return QueueConfig{
		Driver:        getEnv("QUEUE_DRIVER", "redis"),
		BufferSize:    getEnvInt("QUEUE_BUFFER_SIZE", 1000),
		ConsumerID:    getEnv("QUEUE_CONSUMER_ID", ""),
		RetryDelay:    getEnvDuration("QUEUE_RETRY_DELAY", 5*time.Second),
		MaxRetryCount: getEnvInt("QUEUE_MAX_RETRY", 5),
	}
}

func GetSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval: getEnvDuration("SCHEDULER_INTERVAL", time.Minute),
	}
}

func GetReservationConfig() ReservationConfig {
	return ReservationConfig{
		ApprovalRequired: getEnvBool("RESERVATION_APPROVAL_REQUIRED", false),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		panic(err)
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		panic(err)
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}
