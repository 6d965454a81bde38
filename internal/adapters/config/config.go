package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"aura/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	NewsAPI       NewsAPIConfig
	Inference     InferenceConfig
	OpenAI        OpenAIConfig
	Telegram      TelegramConfig
	ErrorTracking ErrorTrackingConfig
	Pipeline      PipelineConfig
	Risk          RiskConfig
	Signals       SignalsConfig
	Metrics       MetricsConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"aura"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NewsAPIConfig struct {
	APIKey     string        `envconfig:"NEWS_API_KEY" required:"true"`
	BaseURL    string        `envconfig:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2"`
	PageSize   int           `envconfig:"NEWS_API_PAGE_SIZE" default:"15"`
	Language   string        `envconfig:"NEWS_API_LANGUAGE" default:"en"`
	Timeout    time.Duration `envconfig:"NEWS_API_TIMEOUT" default:"30s"`
	RatePerMin int           `envconfig:"NEWS_API_RATE_PER_MIN" default:"60"`
}

type InferenceConfig struct {
	APIKey          string        `envconfig:"INFERENCE_API_KEY"`
	BaseURL         string        `envconfig:"INFERENCE_BASE_URL" default:"https://api-inference.huggingface.co"`
	SentimentModel  string        `envconfig:"SENTIMENT_MODEL" default:"distilbert-base-uncased-finetuned-sst-2-english"`
	ClassifierModel string        `envconfig:"CLASSIFIER_MODEL" default:"valhalla/distilbart-mnli-12-1"`
	Timeout         time.Duration `envconfig:"INFERENCE_TIMEOUT" default:"30s"`
	MaxTextLength   int           `envconfig:"INFERENCE_MAX_TEXT_LENGTH" default:"512"`
}

type OpenAIConfig struct {
	APIKey  string        `envconfig:"OPENAI_API_KEY"`
	Model   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`
}

type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
	Enabled  bool   `envconfig:"TELEGRAM_ALERTS_ENABLED" default:"true"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// PipelineConfig drives the ingestion cycle.
type PipelineConfig struct {
	Interval         time.Duration     `envconfig:"PIPELINE_INTERVAL" default:"10m"`
	Enabled          bool              `envconfig:"PIPELINE_ENABLED" default:"true"`
	FetchConcurrency int               `envconfig:"PIPELINE_FETCH_CONCURRENCY" default:"3"`
	Countries        map[string]string `envconfig:"PIPELINE_COUNTRIES" default:"us:United States,kr:South Korea,fr:France,es:Spain,it:Italy,gr:Greece"`
	Categories       []string          `envconfig:"PIPELINE_CATEGORIES" default:"Artificial Intelligence,Cybersecurity,Hardware & Chips,Crypto & Fintech,Electric Vehicles,Software Development,Cloud Computing,Mobile Technology"`
}

// RiskConfig holds the sentiment-to-risk thresholds and the composite
// risk scoring weights. All values are overridable via environment.
type RiskConfig struct {
	CriticalThreshold float64 `envconfig:"RISK_CRITICAL_THRESHOLD" default:"-0.7"`
	WarningThreshold  float64 `envconfig:"RISK_WARNING_THRESHOLD" default:"-0.4"`
	PositiveThreshold float64 `envconfig:"RISK_POSITIVE_THRESHOLD" default:"0.5"`

	SentimentWeight  float64  `envconfig:"RISK_SENTIMENT_WEIGHT" default:"0.4"`
	FrequencyWeight  float64  `envconfig:"RISK_FREQUENCY_WEIGHT" default:"0.3"`
	VolatilityWeight float64  `envconfig:"RISK_VOLATILITY_WEIGHT" default:"0.2"`
	KeywordWeight    float64  `envconfig:"RISK_KEYWORD_WEIGHT" default:"0.1"`
	CriticalKeywords []string `envconfig:"RISK_CRITICAL_KEYWORDS" default:"breach,hack,exploit,vulnerability,crash,fail,risk,threat,danger,critical,emergency,urgent,crisis,disaster,attack,malware,ransomware"`
}

type SignalsConfig struct {
	AnomalyThreshold float64       `envconfig:"SIGNALS_ANOMALY_THRESHOLD" default:"2.0"`
	TrendLookback    time.Duration `envconfig:"SIGNALS_TREND_LOOKBACK" default:"720h"`
	CacheTTL         time.Duration `envconfig:"SIGNALS_CACHE_TTL" default:"5m"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
	Port    int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
