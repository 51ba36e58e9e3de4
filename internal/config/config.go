// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	RabbitConnectionString  string `yaml:"rabbit_connection_string" env:"RABBIT_CONNECTION_STRING"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PaymentProvider         `yaml:"payment_provider"`
	Plans                   []Plan `yaml:"plans"`
	NotificationsPageSize   int    `yaml:"notifications_page_size" env-default:"50"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для проверки jwt-токенов внешнего сервиса аутентификации
type JWTToken struct {
	JWTSecretKey string `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
}

// PaymentProvider структура для настройки клиента платёжного провайдера
// и обработки его webhook-событий.
type PaymentProvider struct {
	APIURL             string `yaml:"api_url" env-default:"https://api.payments.example.com/v1"`
	SecretKey          string `yaml:"secret_key" env:"PAYMENT_SECRET_KEY"`
	WebhookSecret      string `yaml:"webhook_secret" env:"PAYMENT_WEBHOOK_SECRET"`
	DestinationAccount string `yaml:"destination_account" env:"PAYMENT_DESTINATION_ACCOUNT"`
	PlatformFeePercent int64  `yaml:"platform_fee_percent" env-default:"10"`
	SuccessURL         string `yaml:"success_url"`
	CancelURL          string `yaml:"cancel_url"`
}

// Plan связывает идентификатор цены платёжного провайдера с тарифом.
type Plan struct {
	PriceID string `yaml:"price_id"`
	Name    string `yaml:"name"`
}

// MustLoad функция для загрузки конфига, при ошибке завершает процесс
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

// PlanByPriceID возвращает название тарифа по идентификатору цены.
func (c *Config) PlanByPriceID(priceID string) (string, bool) {
	for _, p := range c.Plans {
		if p.PriceID == priceID {
			return p.Name, true
		}
	}
	return "", false
}
