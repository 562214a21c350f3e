package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/benmeehan/location-store/internal/models"
	"github.com/benmeehan/location-store/pkg/errs"
	"github.com/rs/zerolog/hlog"
)

const maxBodyBytes = 1 << 20

// LocationService is the record lifecycle the handlers expose.
type LocationService interface {
	Create(ctx context.Context, location models.Location) (models.StoredRecord, error)
	Update(ctx context.Context, record models.StoredRecord) (models.StoredRecord, error)
	List(ctx context.Context) (models.LocationList, error)
}

// LocationHandler translates HTTP requests into LocationService calls.
type LocationHandler struct {
	service LocationService
}

// locationRequest mirrors models.Location with every field required.
type locationRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
	Date      *uint64  `json:"date"`
}

type updateRequest struct {
	ID       *string          `json:"id"`
	Secret   *string          `json:"secret"`
	Location *locationRequest `json:"location"`
}

// errMissingField marks a syntactically valid body that lacks a required field.
var errMissingField = errors.New("missing field")

func (r *locationRequest) toModel() (models.Location, error) {
	switch {
	case r == nil:
		return models.Location{}, fmt.Errorf("%w: location", errMissingField)
	case r.Latitude == nil:
		return models.Location{}, fmt.Errorf("%w: lat", errMissingField)
	case r.Longitude == nil:
		return models.Location{}, fmt.Errorf("%w: lon", errMissingField)
	case r.Date == nil:
		return models.Location{}, fmt.Errorf("%w: date", errMissingField)
	}
	return models.Location{Latitude: *r.Latitude, Longitude: *r.Longitude, Date: *r.Date}, nil
}

func (r *updateRequest) toModel() (models.StoredRecord, error) {
	if r.ID == nil {
		return models.StoredRecord{}, fmt.Errorf("%w: id", errMissingField)
	}
	if r.Secret == nil {
		return models.StoredRecord{}, fmt.Errorf("%w: secret", errMissingField)
	}
	location, err := r.Location.toModel()
	if err != nil {
		return models.StoredRecord{}, err
	}
	return models.StoredRecord{ID: *r.ID, Secret: *r.Secret, Location: location}, nil
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(service LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// HandleAddLocation creates a record. The response is the only place the secret is returned.
func (h *LocationHandler) HandleAddLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	location, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	record, err := h.service.Create(r.Context(), location)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// HandleUpdateLocation replaces the location of a record whose secret matches.
func (h *LocationHandler) HandleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	record, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), record)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleGetLocations returns every record's location keyed by record ID.
func (h *LocationHandler) HandleGetLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, locations)
}

// HandleHealth reports that the process is serving requests.
func (h *LocationHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("Rejected request body")
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	// The body must hold exactly one JSON value.
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		hlog.FromRequest(r).Debug().Err(err).Msg("Rejected trailing data after request body")
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// writeServiceError maps service failures to status codes.
// NotFound and Unauthorized stay distinct, so a caller can learn whether an ID exists.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, "location not found")
	case errors.Is(err, errs.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid secret")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request canceled")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
