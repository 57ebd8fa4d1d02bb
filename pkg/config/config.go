package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port     int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
		User     string `env:"POSTGRES_USER"`
		Pass     string `env:"POSTGRES_PASS"`
		Name     string `env:"POSTGRES_NAME"`
		SslMode  string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
		MaxConns int32  `env:"POSTGRES_MAX_CONNS" env-default:"8"`
	}
	Redis struct {
		Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" env-default:"0"`
	}
	Session struct {
		Store        string        `env:"SESSION_STORE" env-default:"memory" env-description:"memory or redis"`
		PollInterval time.Duration `env:"SESSION_POLL_INTERVAL" env-default:"2s"`
		Debounce     time.Duration `env:"SESSION_DEBOUNCE" env-default:"1500ms"`
	}
	Collector struct {
		MaxPosts         int           `env:"COLLECTOR_MAX_POSTS" env-default:"500"`
		SightingCapacity int           `env:"COLLECTOR_SIGHTING_CAPACITY" env-default:"50"`
		Retention        time.Duration `env:"COLLECTOR_RETENTION" env-default:"2160h"`
		CaptureTimeout   time.Duration `env:"COLLECTOR_CAPTURE_TIMEOUT" env-default:"90s"`
	}
	Enrichment struct {
		Workers    int           `env:"ENRICHMENT_WORKERS" env-default:"4"`
		RunTimeout time.Duration `env:"ENRICHMENT_RUN_TIMEOUT" env-default:"5m"`
	}
	LLM struct {
		Provider string        `env:"LLM_PROVIDER" env-default:"openai" env-description:"openai or gemini"`
		Timeout  time.Duration `env:"LLM_TIMEOUT" env-default:"120s"`
	}
	Feishu struct {
		BaseURL    string        `env:"FEISHU_BASE_URL" env-default:"https://open.feishu.cn/open-apis"`
		BatchSize  int           `env:"FEISHU_BATCH_SIZE" env-default:"50"`
		BatchDelay time.Duration `env:"FEISHU_BATCH_DELAY" env-default:"200ms"`
	}
	Telegram struct {
		Enabled bool   `env:"TELEGRAM_ENABLED" env-default:"false"`
		User    int64  `env:"TELEGRAM_USER"`
		Token   string `env:"TELEGRAM_TOKEN"`
	}
	Browser struct {
		Headless bool          `env:"BROWSER_HEADLESS" env-default:"true"`
		Timeout  time.Duration `env:"BROWSER_TIMEOUT" env-default:"60s"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		// .env is optional; real environment variables win.
		_ = godotenv.Load()

		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the postgres connection string for database/sql users (goose).
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.Name, c.Postgres.SslMode)
}
