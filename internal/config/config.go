// Package config предоставляет структуры и функции для парсинга и загрузки конфига.
// Значения читаются из YAML-файла по пути CONFIG_PATH, секреты внешних API
// переопределяются переменными окружения.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string        `yaml:"env" env:"APP_ENV" env-default:"local"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string        `yaml:"migrations_path" env-default:"./migrations"`
	GRPCHealthAddress       string        `yaml:"grpc_health_address" env-default:":50051"`
	UpstreamTimeout         time.Duration `yaml:"upstream_timeout" env-default:"30s"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	RateLimit               `yaml:"rate_limit"`
	RabbitMQ                RabbitMQ    `yaml:"rabbitmq"`
	OpenAI                  OpenAI      `yaml:"openai"`
	ElevenLabs              ElevenLabs  `yaml:"elevenlabs"`
	Stripe                  Stripe      `yaml:"stripe"`
	Supabase                Supabase    `yaml:"supabase"`
	DemoAccount             DemoAccount `yaml:"demo_account"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"60s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"120s"`
}

// RedisConnection структура для настройки подключения к redis,
// в котором хранятся гостевые сессии
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	SessionTTL   time.Duration `yaml:"session_ttl" env-default:"720h"`
}

// RateLimit ограничение частоты запросов к платным прокси (ИИ, синтез речи)
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"2"`
	Burst int     `yaml:"burst" env-default:"5"`
}

// RabbitMQ структура для настройки публикации уведомлений
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	MaxRetries int           `yaml:"max_retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// OpenAI настройки чата стратегического коуча
type OpenAI struct {
	APIKey  string `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" env-default:"https://api.openai.com/v1/"`
	Model   string `yaml:"model" env-default:"gpt-4o-mini"`
}

// ElevenLabs настройки синтеза речи
type ElevenLabs struct {
	APIKey       string `yaml:"api_key" env:"ELEVENLABS_API_KEY"`
	BaseURL      string `yaml:"base_url" env-default:"https://api.elevenlabs.io"`
	DefaultModel string `yaml:"default_model" env-default:"eleven_multilingual_v2"`
}

// Stripe настройки управления подписками
type Stripe struct {
	SecretKey string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	BaseURL   string `yaml:"base_url" env-default:"https://api.stripe.com"`
}

// Supabase настройки провайдера идентичности
type Supabase struct {
	URL            string `yaml:"url" env:"SUPABASE_URL"`
	ServiceRoleKey string `yaml:"service_role_key" env:"SUPABASE_SERVICE_ROLE_KEY"`
	JWTSecret      string `yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
}

// DemoAccount фиксированная пара учётных данных для ревьюеров
type DemoAccount struct {
	Email    string `yaml:"email" env:"DEMO_ACCOUNT_EMAIL" env-default:"demo@executive-coach.app"`
	Password string `yaml:"password" env:"DEMO_ACCOUNT_PASSWORD" env-default:"ExecCoachDemo2024!"`
}

// Load читает конфиг по пути path.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH; завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func mask(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "<set>"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  SessionTTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Upstreams:\n"+
			"  OpenAI: %s (%s)\n"+
			"  ElevenLabs: %s\n"+
			"  Stripe: %s\n"+
			"  Supabase: %s service=%s jwt=%s\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.AddressRedis,
		c.DB,
		c.SessionTTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.OpenAI.APIKey), c.OpenAI.Model,
		mask(c.ElevenLabs.APIKey),
		mask(c.Stripe.SecretKey),
		c.Supabase.URL, mask(c.Supabase.ServiceRoleKey), mask(c.Supabase.JWTSecret),
	)
}
