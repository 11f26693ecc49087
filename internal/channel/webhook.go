// Package channel exposes the HTTP surface: the Telegram webhook endpoint,
// a health check and the metrics endpoint.
package channel

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"linguabot/internal/domain"
	"linguabot/internal/logging"
	"linguabot/internal/metrics"
	"linguabot/internal/telegram"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	maxBodyBytes = 1 << 20
	secretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// EventHandler processes one classified event. The dispatcher implements it.
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event) error
}

type WebhookConfig struct {
	Path string // default /api/webhook
	// Secret, when set, must match the secret token header on every POST.
	Secret         string
	ProcessTimeout time.Duration
	Handler        EventHandler
	Logger         *slog.Logger
}

// Webhook serves Telegram updates. Every POST is acknowledged with
// {"ok":true} regardless of the processing outcome so Telegram never redelivers.
type Webhook struct {
	path           string
	secret         string
	processTimeout time.Duration
	handler        EventHandler
	logger         *slog.Logger
}

func NewWebhook(cfg WebhookConfig) *Webhook {
	if cfg.Path == "" {
		cfg.Path = "/api/webhook"
	}
	if cfg.ProcessTimeout <= 0 {
		cfg.ProcessTimeout = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Webhook{
		path:           cfg.Path,
		secret:         cfg.Secret,
		processTimeout: cfg.ProcessTimeout,
		handler:        cfg.Handler,
		logger:         cfg.Logger,
	}
}

// Routes builds the router with the webhook, /healthz and /metrics.
func (w *Webhook) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(w.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.HandleFunc(w.path, w.handleWebhook)
	r.Get("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", metrics.Collector.Handler())
	return r
}

// Serve runs the HTTP server on addr until ctx is cancelled, then shuts it down.
func (w *Webhook) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           w.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Handlers run the whole pipeline before answering.
		WriteTimeout: w.processTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	w.logger.Info("webhook server starting", "addr", addr, "path", w.path)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		w.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("webhook server: %w", err)
	}
}

func (w *Webhook) handleWebhook(rw http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(rw, http.StatusOK, map[string]string{"message": "Hello"})
	case http.MethodPost:
		w.handleUpdate(rw, r)
	default:
		writeJSON(rw, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	}
}

func (w *Webhook) handleUpdate(rw http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), w.logger)

	if w.secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(secretHeader)), []byte(w.secret)) != 1 {
		logger.Warn("webhook secret mismatch")
		writeJSON(rw, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	defer writeJSON(rw, http.StatusOK, map[string]bool{"ok": true})

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		logger.Warn("read update body", "err", err)
		return
	}
	if len(body) > maxBodyBytes {
		logger.Warn("update body too large, ignored", "limit", maxBodyBytes)
		return
	}

	ev, ok, err := telegram.Decode(body)
	if err != nil {
		logger.Warn("malformed update, ignored", "err", err)
		return
	}
	if !ok {
		logger.Debug("update without message, ignored")
		return
	}

	// Telegram may drop the connection while a slow pipeline runs; the
	// work still finishes, bounded by processTimeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), w.processTimeout)
	defer cancel()

	metrics.InflightRequests.Inc()
	defer metrics.InflightRequests.Dec()
	start := time.Now()

	if err := w.handler.Handle(ctx, ev); err != nil {
		logger.Error("update processing failed", "update_id", ev.UpdateID, "err", err)
	}
	metrics.RequestLatency.Observe(time.Since(start).Seconds())
}

// requestLogger stores a request-scoped logger carrying the chi request id
// and logs one line per request.
func (w *Webhook) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := w.logger.With("request_id", chimiddleware.GetReqID(r.Context()))
		ww := chimiddleware.NewWrapResponseWriter(rw, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), logger)))

		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
