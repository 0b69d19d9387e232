package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort  string `envconfig:"APP_PORT" default:"8080"`
	DB        DBConfig
	JWT       JWTConfig
	GRPC      GRPCConfig
	Kafka     KafkaConfig
	NBP       NBPConfig
	Rates     RatesConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type DBConfig struct {
	Host           string `envconfig:"POSTGRES_HOST"     required:"true"`
	Port           string `envconfig:"POSTGRES_PORT"     required:"true"`
	User           string `envconfig:"POSTGRES_USER"     required:"true"`
	Password       string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	DBName         string `envconfig:"POSTGRES_DB"       required:"true"`
	SSLMode        string `envconfig:"POSTGRES_SSLMODE"  default:"disable"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH"   default:"migrations"`
}

type JWTConfig struct {
	Secret     string        `envconfig:"JWT_SECRET" required:"true"`
	Expiration time.Duration `envconfig:"JWT_EXPIRATION" default:"168h"`
}

type GRPCConfig struct {
	HealthPort     string        `envconfig:"GRPC_HEALTH_PORT" default:"50051"`
	HealthInterval time.Duration `envconfig:"GRPC_HEALTH_INTERVAL" default:"10s"`
	Timeout        time.Duration `envconfig:"GRPC_TIMEOUT" default:"5s"`
}

type KafkaConfig struct {
	Brokers   []string        `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic     string          `envconfig:"KAFKA_TOPIC" default:"trade-events"`
	Enabled   bool            `envconfig:"KAFKA_ENABLED" default:"true"`
	Threshold decimal.Decimal `envconfig:"TRADE_EVENT_THRESHOLD" default:"30000"`
}

type NBPConfig struct {
	Enabled      bool          `envconfig:"NBP_ENABLED" default:"true"`
	BaseURL      string        `envconfig:"NBP_BASE_URL" default:"https://api.nbp.pl/api"`
	Interval     time.Duration `envconfig:"NBP_INTERVAL" default:"1h"`
	BackfillDays int           `envconfig:"NBP_BACKFILL_DAYS" default:"30"`
}

type RatesConfig struct {
	CacheTTL time.Duration `envconfig:"RATES_CACHE_TTL" default:"1m"`
	// YYYY-MM-DD; empty means the newest stored quote date
	RetentionDate string `envconfig:"RATES_RETENTION_DATE"`
	// RetentionDate parsed by NewConfig
	KeepDate *time.Time `ignored:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

type RateLimitConfig struct {
	// ulule/limiter formatted rate, e.g. 5-M is five requests per minute
	Auth string `envconfig:"RATE_LIMIT" default:"5-M"`
}

type LogConfig struct {
	File  string `envconfig:"LOG_FILE" default:"logs/app.log"`
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

func NewConfig() (*Config, error) {
	envFile := "config.env"

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("warning: could not load %s, using process environment only: %v", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	keep, err := cfg.Rates.retention()
	if err != nil {
		return nil, err
	}
	cfg.Rates.KeepDate = keep

	return &cfg, nil
}

func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (d *DBConfig) MigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// retention returns the pinned reference day for rate cleanup, or nil.
func (r *RatesConfig) retention() (*time.Time, error) {
	if r.RetentionDate == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", r.RetentionDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("RATES_RETENTION_DATE: %w", err)
	}
	return &t, nil
}
