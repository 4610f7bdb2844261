package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr      string
	RedisAddr       string
	RabbitURL       string
	InsightAPIKey   string
	InsightModel    string
	InsightDebounce time.Duration
	PaymentDelay    time.Duration
	OTLPEndpoint    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	model := os.Getenv("INSIGHT_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	debounce, _ := time.ParseDuration(os.Getenv("INSIGHT_DEBOUNCE"))
	if debounce == 0 {
		debounce = 800 * time.Millisecond
	}

	paymentDelay, _ := time.ParseDuration(os.Getenv("PAYMENT_DELAY"))
	if paymentDelay == 0 {
		paymentDelay = time.Second
	}

	return &Config{
		ListenAddr:      listenAddr,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RabbitURL:       os.Getenv("RABBIT_URL"),
		InsightAPIKey:   os.Getenv("INSIGHT_API_KEY"),
		InsightModel:    model,
		InsightDebounce: debounce,
		PaymentDelay:    paymentDelay,
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}
