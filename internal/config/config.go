package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string

	// Cache TTLs for the read-heavy endpoints.
	LotListCacheTTL     time.Duration
	ReservationCacheTTL time.Duration
	DashboardCacheTTL   time.Duration

	// CSV export.
	ExportDir       string
	ExportExpiry    time.Duration
	ExportWorkers   int
	ExportQueueSize int

	// SMTP delivery for reminder/report mails.
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailFrom   string
	MailEnable bool

	// Cron expressions for the scheduled jobs.
	ReminderSchedule string
	ReportSchedule   string
	CleanupSchedule  string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/parking?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:  getEnv("JWT_SECRET", "change-me"),

		LotListCacheTTL:     getEnvDuration("LOT_LIST_CACHE_TTL", 5*time.Minute),
		ReservationCacheTTL: getEnvDuration("RESERVATION_CACHE_TTL", 2*time.Minute),
		DashboardCacheTTL:   getEnvDuration("DASHBOARD_CACHE_TTL", 5*time.Minute),

		ExportDir:       getEnv("EXPORT_DIR", "exports"),
		ExportExpiry:    getEnvDuration("EXPORT_EXPIRY", 24*time.Hour),
		ExportWorkers:   getEnvInt("EXPORT_WORKERS", 2),
		ExportQueueSize: getEnvInt("EXPORT_QUEUE_SIZE", 64),

		SMTPHost:   getEnv("SMTP_HOST", "localhost"),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASSWORD"),
		MailFrom:   getEnv("MAIL_FROM", "noreply@parking.local"),
		MailEnable: getEnv("MAIL_ENABLED", "false") == "true",

		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 18 * * *"),
		ReportSchedule:   getEnv("REPORT_SCHEDULE", "0 8 1 * *"),
		CleanupSchedule:  getEnv("EXPORT_CLEANUP_SCHEDULE", "0 2 * * *"),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
