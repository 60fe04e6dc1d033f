package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/shopping-list/internal/locale"
	"github.com/DRSN-tech/shopping-list/pkg/e"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

type Config struct {
	App   *AppCfg
	Http  *HTTPConfig
	Redis *RedisCfg // nil, если уведомления через Redis выключены
	Kafka *KafkaCfg // nil, если уведомления через Kafka выключены
}

type AppCfg struct {
	Locale          string        // Язык текстов по умолчанию
	LogLevel        string        // Уровень логирования
	NotifyTimeout   time.Duration // Таймаут публикации одного события
	NotifyQueueSize int           // Сколько событий ждут доставки, прежде чем новые начнут отбрасываться
	ShutdownTimeout time.Duration // Время на graceful shutdown
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type KafkaCfg struct {
	Topic        string
	Brokers      []string
	MaxRetries   int
	RetryBase    time.Duration
	RetryMax     time.Duration
	WriteTimeout time.Duration
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	Channel     string // Канал PUBLISH для событий списка
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Переменные из .env подхватываются, если файл есть; окружение имеет приоритет.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("Error loading .env file (but continuing): %v", err)
		}
	} else {
		log.Infof("Loaded configuration from .env file")
	}

	app, err := loadAppCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		App:   app,
		Http:  http,
		Redis: redis,
		Kafka: kafka,
	}, nil
}

func loadAppCfg(log logger.Logger) (*AppCfg, error) {
	const (
		defaultLogLevel        = "info"
		defaultNotifyTimeout   = 2 * time.Second
		defaultNotifyQueueSize = 256
		defaultShutdownTimeout = 10 * time.Second
	)

	lang := getEnvOrDefault("APP_LOCALE", locale.Default)
	if !locale.Supported(lang) {
		err := fmt.Errorf("APP_LOCALE %q is not supported", lang)
		log.Errorf(err, "invalid APP_LOCALE")
		return nil, err
	}

	notifyTimeout, err := parseDurationEnv("NOTIFY_TIMEOUT", defaultNotifyTimeout)
	if err != nil {
		log.Errorf(err, "invalid NOTIFY_TIMEOUT")
		return nil, err
	}

	queueSize, err := parseIntEnv("NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize)
	if err != nil || queueSize <= 0 {
		log.Errorf(e.ErrIncorrectEnvVariable, "invalid NOTIFY_QUEUE_SIZE")
		return nil, e.Wrap("NOTIFY_QUEUE_SIZE", e.ErrIncorrectEnvVariable)
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		log.Errorf(err, "invalid SHUTDOWN_TIMEOUT")
		return nil, err
	}

	return &AppCfg{
		Locale:          lang,
		LogLevel:        getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		NotifyTimeout:   notifyTimeout,
		NotifyQueueSize: queueSize,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic        = "shopping-list.events"
		defaultMaxRetries   = 3
		defaultRetryBase    = 200 * time.Millisecond
		defaultRetryMax     = 2 * time.Second
		defaultWriteTimeout = 5 * time.Second
	)

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, nil
	}

	var brokers []string
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, e.Wrap("KAFKA_BROKERS", e.ErrIncorrectEnvVariable)
	}

	maxRetries, err := parseIntEnv("KAFKA_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("KAFKA_MAX_RETRIES", err)
	}

	retryBase, err := parseDurationEnv("KAFKA_RETRY_BASE", defaultRetryBase)
	if err != nil {
		return nil, e.Wrap("KAFKA_RETRY_BASE", err)
	}

	retryMax, err := parseDurationEnv("KAFKA_RETRY_MAX", defaultRetryMax)
	if err != nil {
		return nil, e.Wrap("KAFKA_RETRY_MAX", err)
	}

	writeTimeout, err := parseDurationEnv("KAFKA_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		return nil, e.Wrap("KAFKA_WRITE_TIMEOUT", err)
	}

	return &KafkaCfg{
		Brokers:      brokers,
		Topic:        getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		MaxRetries:   maxRetries,
		RetryBase:    retryBase,
		RetryMax:     retryMax,
		WriteTimeout: writeTimeout,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultDB           = 0
		defaultChannel      = "shopping-list:events"
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
	)

	addr := getEnv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	dbStr := getEnvOrDefault("REDIS_DB_ID", strconv.Itoa(defaultDB))
	db, err := strconv.Atoi(dbStr)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("REDIS_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid REDIS_MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("REDIS_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("REDIS_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_WRITE_TIMEOUT")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		Channel:     getEnvOrDefault("REDIS_CHANNEL", defaultChannel),
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
