package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/benmeehan/location-store/internal/handlers"
	"github.com/benmeehan/location-store/internal/service_registry"
	"github.com/benmeehan/location-store/internal/services"
	"github.com/benmeehan/location-store/internal/utils"
	"github.com/benmeehan/location-store/pkg/events"
	"github.com/benmeehan/location-store/pkg/file"
	"github.com/benmeehan/location-store/pkg/identity"
	"github.com/benmeehan/location-store/pkg/kv"
	"github.com/benmeehan/location-store/pkg/mqtt"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Set up structured logging with JSON output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	fileClient := file.NewFileService()

	// Load configuration from file and environment
	config, err := utils.Load(*configPath, fileClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, _ := zerolog.ParseLevel(config.Logging.Level)
	logger = logger.Level(level)

	// Open the record store
	if config.Storage.Driver == kv.DriverBolt {
		if err := fileClient.EnsureDir(config.Storage.DataDir); err != nil {
			logger.Fatal().Err(err).Msg("Failed to prepare data directory")
		}
	}
	store, err := kv.Open(kv.Options{
		Driver:  config.Storage.Driver,
		DataDir: config.Storage.DataDir,
		Table:   config.Storage.Table,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open record store")
	}
	logger.Info().
		Str("driver", config.Storage.Driver).
		Str("data_dir", config.Storage.DataDir).
		Str("table", config.Storage.Table).
		Msg("Record store opened")

	// Record events are optional
	var publisher events.Publisher = events.NopPublisher{}
	var mqttService *mqtt.MqttService
	if config.Events.Enabled {
		mqttService = mqtt.NewMqttService(fileClient)
		publisher = events.NewMQTTPublisher(mqttService, config.Events.Topic, config.Events.QOS,
			config.Events.PublishTimeout, logger)
	}

	locationService := services.NewLocationService(store, identity.NewUUIDGenerator(), publisher, logger)

	publicDir := ""
	if ok, err := fileClient.IsDirExists(config.Server.PublicDir); err == nil && ok {
		publicDir = config.Server.PublicDir
	} else {
		logger.Info().Str("public_dir", config.Server.PublicDir).Msg("Public directory not found, static files disabled")
	}
	router := handlers.NewRouter(handlers.NewLocationHandler(locationService), publicDir, logger)

	serviceRegistry := service_registry.NewServiceRegistry(mqttService, router, logger)
	if err := serviceRegistry.RegisterServices(config); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register services")
	}

	if err := serviceRegistry.StartServices(); err != nil {
		_ = store.Close()
		logger.Fatal().Err(err).Msg("Failed to start services")
	}
	logger.Info().Str("addr", config.Addr()).Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	logger.Info().Msg("Shutting down gracefully...")
	if err := serviceRegistry.StopServices(); err != nil {
		logger.Error().Err(err).Msg("Failed to stop services cleanly")
	}
	if err := store.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close record store")
	}
}
