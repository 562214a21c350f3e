package services

import (
	"context"
	"errors"
	"time"

	"github.com/benmeehan/location-store/internal/models"
	"github.com/benmeehan/location-store/pkg/errs"
	"github.com/benmeehan/location-store/pkg/events"
	"github.com/benmeehan/location-store/pkg/identity"
	"github.com/benmeehan/location-store/pkg/kv"
	"github.com/rs/zerolog"
)

// LocationService implements the record lifecycle on top of a kv.Store.
// It keeps no record state of its own; the store holds the only copy of every record.
type LocationService struct {
	store     kv.Store
	generator identity.Generator
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewLocationService creates a new LocationService. A nil publisher disables record events.
func NewLocationService(store kv.Store, generator identity.Generator, publisher events.Publisher, logger zerolog.Logger) *LocationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &LocationService{
		store:     store,
		generator: generator,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new record for the location and returns it, secret included.
// This is the only time the secret leaves the service.
func (l *LocationService) Create(ctx context.Context, location models.Location) (models.StoredRecord, error) {
	id, err := l.generator.NewID()
	if err != nil {
		return models.StoredRecord{}, err
	}
	secret, err := l.generator.NewSecret()
	if err != nil {
		return models.StoredRecord{}, err
	}

	record := models.StoredRecord{
		ID:       id,
		Secret:   secret.String(),
		Location: location,
	}

	data, err := models.EncodeRecord(record)
	if err != nil {
		return models.StoredRecord{}, err
	}

	if err := l.store.Put(ctx, id, data); err != nil {
		l.logger.Error().Err(err).Str("record_id", id).Msg("Failed to store new location")
		return models.StoredRecord{}, err
	}

	l.logger.Info().Str("record_id", id).Msg("Location created")
	l.publish(events.KindCreated, id)
	return record, nil
}

// Update replaces the location of an existing record when input carries the record's secret.
// It fails with errs.ErrNotFound for an unknown ID and errs.ErrUnauthorized for a wrong secret,
// in which case nothing is written. The check and the write share one store transaction.
func (l *LocationService) Update(ctx context.Context, input models.StoredRecord) (models.StoredRecord, error) {
	err := l.store.Modify(ctx, input.ID, func(current []byte) ([]byte, error) {
		stored, err := models.DecodeRecordForKey(input.ID, current)
		if err != nil {
			return nil, err
		}

		if !identity.Secret(stored.Secret).Equal(identity.Secret(input.Secret)) {
			return nil, errs.ErrUnauthorized
		}

		return models.EncodeRecord(input)
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrUnauthorized):
			l.logger.Warn().Err(err).Str("record_id", input.ID).Msg("Location update rejected")
		default:
			l.logger.Error().Err(err).Str("record_id", input.ID).Msg("Failed to update location")
		}
		return models.StoredRecord{}, err
	}

	l.logger.Info().Str("record_id", input.ID).Msg("Location updated")
	l.publish(events.KindUpdated, input.ID)
	return input, nil
}

// List returns the current location of every record keyed by record ID. Secrets are not included.
func (l *LocationService) List(ctx context.Context) (models.LocationList, error) {
	locations := make(models.LocationList)

	err := l.store.Scan(ctx, func(key string, value []byte) error {
		record, err := models.DecodeRecordForKey(key, value)
		if err != nil {
			return err
		}
		locations[record.ID] = record.Location
		return nil
	})
	if err != nil {
		l.logger.Error().Err(err).Msg("Failed to list locations")
		return nil, err
	}

	return locations, nil
}

// publish emits a record event. Delivery failures are logged and never fail the request.
func (l *LocationService) publish(kind events.Kind, id string) {
	event := events.RecordEvent{Kind: kind, ID: id, Timestamp: l.now().UTC()}
	if err := l.publisher.Publish(event); err != nil {
		l.logger.Warn().Err(err).Str("record_id", id).Str("event", string(kind)).Msg("Failed to publish record event")
	}
}
