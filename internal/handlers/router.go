package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// APIPrefix is the path prefix of every API route.
const APIPrefix = "/api/v1"

// NewRouter wires the API routes and, when publicDir is set, a static file server for every
// path outside the API. Requests are access-logged through logger.
func NewRouter(h *LocationHandler, publicDir string, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	api := r.PathPrefix(APIPrefix).Subrouter()
	api.HandleFunc("/add-location", h.HandleAddLocation).Methods(http.MethodPost)
	api.HandleFunc("/update-location", h.HandleUpdateLocation).Methods(http.MethodPut)
	api.HandleFunc("/get-locations", h.HandleGetLocations).Methods(http.MethodGet)
	api.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)

	if publicDir != "" {
		r.PathPrefix("/").
			MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
				return !strings.HasPrefix(req.URL.Path, APIPrefix+"/")
			}).
			Handler(http.FileServer(http.Dir(publicDir)))
	}

	return withLogging(r, logger)
}

func withLogging(next http.Handler, logger zerolog.Logger) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	})(next)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	h = hlog.RequestIDHandler("request_id", "Request-Id")(h)
	return hlog.NewHandler(logger)(h)
}
