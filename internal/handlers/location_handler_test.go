package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benmeehan/location-store/internal/handlers"
	"github.com/benmeehan/location-store/internal/models"
	"github.com/benmeehan/location-store/internal/services"
	"github.com/benmeehan/location-store/pkg/errs"
	"github.com/benmeehan/location-store/pkg/identity"
	"github.com/benmeehan/location-store/pkg/kv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockLocationService is a mock implementation of the handlers.LocationService interface.
type mockLocationService struct {
	mock.Mock
}

func (m *mockLocationService) Create(ctx context.Context, location models.Location) (models.StoredRecord, error) {
	args := m.Called(ctx, location)
	return args.Get(0).(models.StoredRecord), args.Error(1)
}

func (m *mockLocationService) Update(ctx context.Context, record models.StoredRecord) (models.StoredRecord, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(models.StoredRecord), args.Error(1)
}

func (m *mockLocationService) List(ctx context.Context) (models.LocationList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.LocationList), args.Error(1)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := services.NewLocationService(kv.NewMemoryStore(), identity.NewUUIDGenerator(), nil, zerolog.Nop())
	srv := httptest.NewServer(handlers.NewRouter(handlers.NewLocationHandler(svc), "testdata/public", zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

// TestRouter_Scenario runs create, list, update and list again over HTTP.
func TestRouter_Scenario(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + handlers.APIPrefix

	resp, body := doJSON(t, http.MethodPost, api+"/add-location", `{"lat":10.0,"lon":20.0,"date":100}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var created models.StoredRecord
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Secret)
	assert.Equal(t, models.Location{Latitude: 10.0, Longitude: 20.0, Date: 100}, created.Location)

	resp, body = doJSON(t, http.MethodGet, api+"/get-locations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, map[string]map[string]interface{}{
		created.ID: {"lat": 10.0, "lon": 20.0, "date": 100.0},
	}, list)
	assert.NotContains(t, string(body), created.Secret)

	update := `{"id":"` + created.ID + `","secret":"` + created.Secret + `","location":{"lat":11.0,"lon":20.0,"date":200}}`
	resp, body = doJSON(t, http.MethodPut, api+"/update-location", update)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.StoredRecord
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, models.Location{Latitude: 11.0, Longitude: 20.0, Date: 200}, updated.Location)

	resp, body = doJSON(t, http.MethodGet, api+"/get-locations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, map[string]interface{}{"lat": 11.0, "lon": 20.0, "date": 200.0}, list[created.ID])
}

func TestRouter_UpdateFailures(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + handlers.APIPrefix

	_, body := doJSON(t, http.MethodPost, api+"/add-location", `{"lat":1,"lon":2,"date":3}`)
	var created models.StoredRecord
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ := doJSON(t, http.MethodPut, api+"/update-location",
		`{"id":"`+created.ID+`","secret":"wrong","location":{"lat":9,"lon":9,"date":9}}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, api+"/update-location",
		`{"id":"unknown","secret":"`+created.Secret+`","location":{"lat":9,"lon":9,"date":9}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = doJSON(t, http.MethodGet, api+"/get-locations", "")
	var list map[string]models.Location
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, models.Location{Latitude: 1, Longitude: 2, Date: 3}, list[created.ID])
}

func TestRouter_BadRequests(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + handlers.APIPrefix

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed json", http.MethodPost, "/add-location", `{"lat":`, http.StatusBadRequest},
		{"wrong type", http.MethodPost, "/add-location", `{"lat":"north","lon":1,"date":1}`, http.StatusBadRequest},
		{"negative date", http.MethodPost, "/add-location", `{"lat":1,"lon":1,"date":-1}`, http.StatusBadRequest},
		{"trailing garbage", http.MethodPost, "/add-location", `{"lat":1,"lon":1,"date":1} {"garbage"`, http.StatusBadRequest},
		{"two values", http.MethodPut, "/update-location", `{"id":"x","secret":"y","location":{"lat":1,"lon":1,"date":1}}{}`, http.StatusBadRequest},
		{"missing date", http.MethodPost, "/add-location", `{"lat":1,"lon":1}`, http.StatusUnprocessableEntity},
		{"missing secret", http.MethodPut, "/update-location", `{"id":"x","location":{"lat":1,"lon":1,"date":1}}`, http.StatusUnprocessableEntity},
		{"missing location", http.MethodPut, "/update-location", `{"id":"x","secret":"y"}`, http.StatusUnprocessableEntity},
		{"wrong method", http.MethodGet, "/add-location", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/delete-location", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, tc.method, api+tc.path, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)

			var payload map[string]string
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.NotEmpty(t, payload["error"])
		})
	}

	// Rejected bodies never reach the store.
	resp, body := doJSON(t, http.MethodGet, api+"/get-locations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{}`, string(body))
}

func TestRouter_ServesPublicDir(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<title>locations</title>")

	resp, _ = doJSON(t, http.MethodGet, srv.URL+handlers.APIPrefix+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Request-Id"))
}

func TestHandlers_StoreFailureIs500(t *testing.T) {
	svc := new(mockLocationService)
	storeErr := errs.Store("scan", errors.New("corrupt page"))
	svc.On("List", mock.Anything).Return(nil, storeErr)
	svc.On("Create", mock.Anything, mock.Anything).Return(models.StoredRecord{}, storeErr)

	router := handlers.NewRouter(handlers.NewLocationHandler(svc), "", zerolog.Nop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, handlers.APIPrefix+"/get-locations", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "corrupt page")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, handlers.APIPrefix+"/add-location",
		strings.NewReader(`{"lat":1,"lon":1,"date":1}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	svc.AssertExpectations(t)
}

func TestHandlers_ErrorMapping(t *testing.T) {
	cases := map[error]int{
		errs.ErrNotFound:     http.StatusNotFound,
		errs.ErrUnauthorized: http.StatusUnauthorized,
		errs.ErrDecode:       http.StatusInternalServerError,
		context.Canceled:     http.StatusServiceUnavailable,
	}

	for err, status := range cases {
		svc := new(mockLocationService)
		svc.On("Update", mock.Anything, mock.Anything).Return(models.StoredRecord{}, err)
		router := handlers.NewRouter(handlers.NewLocationHandler(svc), "", zerolog.Nop())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, handlers.APIPrefix+"/update-location",
			strings.NewReader(`{"id":"a","secret":"b","location":{"lat":1,"lon":1,"date":1}}`)))
		assert.Equal(t, status, rec.Code, err.Error())
	}
}
