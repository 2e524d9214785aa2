package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Postgres Postgres
	Redis    Redis
	Wheel    Wheel
	Market   Market
	TON      TON
	Rates    Rates
	Bot      Bot
	Asynq    Asynq
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"gift-wheel"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
	Debug   bool   `env:"APP_DEBUG" envDefault:"false"`
}

type HTTP struct {
	ListenAddress        string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	MetricsListenAddress string        `env:"HTTP_METRICS_LISTEN_ADDRESS" envDefault:":9090"`
	ProbeListenAddress   string        `env:"HTTP_PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadHeaderTimeout    time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	config.TON.Mnemonic = correctNewlines(config.TON.Mnemonic)

	return config, nil
}

// correctNewlines снимает кавычки и раскрывает \n, которые оставляют
// некоторые .env-файлы.
func correctNewlines(s string) string {
	return strings.NewReplacer(`"`, "", `\n`, "\n").Replace(s)
}
