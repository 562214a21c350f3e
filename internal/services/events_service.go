package services

import (
	"errors"

	"github.com/benmeehan/location-store/pkg/mqtt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventsService owns the MQTT connection used to publish record events.
type EventsService struct {
	broker        string
	clientID      string
	caCertificate string
	mqttService   *mqtt.MqttService
	logger        zerolog.Logger

	running bool
}

// NewEventsService creates a new EventsService. The client ID gets a random suffix so that
// several instances can share a broker.
func NewEventsService(broker, clientID, caCertificate string, mqttService *mqtt.MqttService, logger zerolog.Logger) *EventsService {
	return &EventsService{
		broker:        broker,
		clientID:      clientID + "-" + uuid.New().String(),
		caCertificate: caCertificate,
		mqttService:   mqttService,
		logger:        logger,
	}
}

// Start connects to the broker.
func (e *EventsService) Start() error {
	if e.running {
		e.logger.Warn().Msg("EventsService is already running")
		return errors.New("events service is already running")
	}

	if err := e.mqttService.Initialize(e.broker, e.clientID, e.caCertificate); err != nil {
		e.logger.Error().Err(err).Str("broker", e.broker).Msg("Failed to connect to MQTT broker")
		return err
	}

	e.running = true
	e.logger.Info().
		Str("broker", e.broker).
		Str("client_id", e.clientID).
		Msg("EventsService started")
	return nil
}

// Stop disconnects from the broker.
func (e *EventsService) Stop() error {
	if !e.running {
		e.logger.Warn().Msg("EventsService is not running")
		return errors.New("events service is not running")
	}

	e.mqttService.Disconnect(250)
	e.running = false
	e.logger.Info().Msg("EventsService stopped")
	return nil
}
