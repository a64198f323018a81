package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/biztime/backend/internal/billing/controller"
	gorm "github.com/biztime/backend/internal/billing/db"
	"github.com/biztime/backend/internal/billing/events"
	"github.com/biztime/backend/internal/billing/handlers"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	HTTPPort     int      `yaml:"HTTP_PORT"`
	DBHost       string   `yaml:"DB_HOST"`
	DBPort       int      `yaml:"DB_PORT"`
	DBUser       string   `yaml:"DB_USER"`
	DBPassword   string   `yaml:"DB_PASSWORD"`
	DBName       string   `yaml:"DB_NAME"`
	DBSSLMode    string   `yaml:"DB_SSLMODE"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	KafkaGroupID string   `yaml:"KAFKA_GROUP_ID"`
	Topic        string   `yaml:"TOPIC"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := initDatabase(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		log.Fatal("failed to initialize Kafka producer", err)
	}
	defer producer.Close()

	companySvc := controller.NewCompanyService(repo, producer, logger)
	invoiceSvc := controller.NewInvoiceService(repo, producer, logger)

	// Create handlers
	companyHandler := handlers.NewCompanyHandler(companySvc, logger)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceSvc, logger)

	// Create server
	server := handlers.NewServer(cfg.HTTPPort, logger)
	server.RegisterRoutes(companyHandler, invoiceHandler)

	// Optional audit consumer, enabled when a consumer group is configured.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.KafkaGroupID != "" {
		consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.Topic, logger)
		consumer.RegisterHandler(func(_ context.Context, event events.Event) error {
			logger.Info("billing event received", zap.String("event_type", string(event.Type)))
			return nil
		})
		consumer.Start(ctx)
		defer consumer.Close()
	}

	// Start server
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration. Use real config tooling (e.g. Viper) in production.
func loadConfig() (*Config, error) {
	configPath := filepath.Join("internal", "billing", "config", "config.yaml")
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// initDatabase connects to the database, retrying with exponential
// backoff so the service survives the store coming up after it.
func initDatabase(cfg *Config) (*gorm.Repository, error) {
	dbConf := &gorm.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}

	var repo *gorm.Repository
	err := backoff.Retry(func() error {
		var err error
		repo, err = gorm.NewRepository(dbConf)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	return repo, err
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
