package services

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// HTTPService runs an http.Server as a startable, stoppable service.
type HTTPService struct {
	addr            string
	handler         http.Handler
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	logger          zerolog.Logger

	server   *http.Server
	listener net.Listener
	wg       sync.WaitGroup
}

// NewHTTPService creates a new HTTPService listening on addr.
func NewHTTPService(addr string, handler http.Handler, readTimeout, writeTimeout, shutdownTimeout time.Duration,
	logger zerolog.Logger) *HTTPService {
	return &HTTPService{
		addr:            addr,
		handler:         handler,
		readTimeout:     readTimeout,
		writeTimeout:    writeTimeout,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Start binds the listen address and serves requests in a separate goroutine.
// Bind failures are returned synchronously.
func (h *HTTPService) Start() error {
	if h.server != nil {
		h.logger.Warn().Msg("HTTPService is already running")
		return errors.New("http service is already running")
	}

	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return err
	}

	h.listener = listener
	h.server = &http.Server{
		Handler:           h.handler,
		ReadTimeout:       h.readTimeout,
		ReadHeaderTimeout: h.readTimeout,
		WriteTimeout:      h.writeTimeout,
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error().Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}()

	h.logger.Info().Str("addr", listener.Addr().String()).Msg("HTTPService started")
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (h *HTTPService) Addr() string {
	if h.listener != nil {
		return h.listener.Addr().String()
	}
	return h.addr
}

// Stop gracefully shuts the server down, waiting up to the shutdown timeout for in-flight requests.
func (h *HTTPService) Stop() error {
	if h.server == nil {
		h.logger.Warn().Msg("HTTPService is not running")
		return errors.New("http service is not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	err := h.server.Shutdown(ctx)
	h.wg.Wait()

	h.server = nil
	h.listener = nil

	if err != nil {
		h.logger.Error().Err(err).Msg("HTTPService shutdown incomplete")
		return err
	}
	h.logger.Info().Msg("HTTPService stopped")
	return nil
}
