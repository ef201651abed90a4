package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress    string
	DataDir       string
	DatabaseURI   string
	RedisAddress  string
	KafkaBrokers  []string
	EventsTopic   string
	PublicBaseURL string
	Timezone      string
	StrictStorage bool
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
// Переменные из файла .env не перекрывают уже заданные в окружении.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	var brokers string

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DataDir, "data", "./data", "каталог с коллекциями JSON")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.StringVar(&cfg.RedisAddress, "redis", "", "адрес Redis для хранения коллекций")
	flag.StringVar(&brokers, "k", "", "брокеры Kafka через запятую")
	flag.StringVar(&cfg.EventsTopic, "topic", "domeda.orders", "топик Kafka для событий заказов")
	flag.StringVar(&cfg.PublicBaseURL, "b", "http://localhost:8080", "публичный адрес сайта для ссылок в QR-кодах")
	flag.StringVar(&cfg.Timezone, "tz", "Local", "часовой пояс для окон доступности и дат")
	flag.BoolVar(&cfg.StrictStorage, "strict", false, "считать повреждённые коллекции ошибкой")
	flag.Parse()

	if env := os.Getenv("RUN_ADDRESS"); env != "" {
		cfg.RunAddress = env
	}
	if env := os.Getenv("DATA_DIR"); env != "" {
		cfg.DataDir = env
	}
	if env := os.Getenv("DATABASE_URI"); env != "" {
		cfg.DatabaseURI = env
	}
	if env := os.Getenv("REDIS_ADDRESS"); env != "" {
		cfg.RedisAddress = env
	}
	if env := os.Getenv("KAFKA_BROKERS"); env != "" {
		brokers = env
	}
	if env := os.Getenv("ORDER_EVENTS_TOPIC"); env != "" {
		cfg.EventsTopic = env
	}
	if env := os.Getenv("PUBLIC_BASE_URL"); env != "" {
		cfg.PublicBaseURL = env
	}
	if env := os.Getenv("TIMEZONE"); env != "" {
		cfg.Timezone = env
	}
	if env := os.Getenv("STRICT_STORAGE"); env != "" {
		if strict, err := strconv.ParseBool(env); err == nil {
			cfg.StrictStorage = strict
		}
	}

	cfg.KafkaBrokers = splitList(brokers)
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	return cfg
}

// Location возвращает часовой пояс сервиса.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
