// Package httpserver exposes the service's small HTTP surface: the
// on-demand batch trigger, the postpone link target, and a health probe.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pebble_scheduler/internal/app"
	idb "pebble_scheduler/internal/infra/database"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// triggerAck is the fixed acknowledgement every trigger call gets,
// regardless of how the detached run turns out.
const triggerAck = "delivery run triggered\n"

const runTimeout = 10 * time.Minute

// DeliveryRunner triggers one batch run.
type DeliveryRunner interface {
	ProcessScheduledDeliveries(ctx context.Context, now time.Time) error
}

// Postponer reschedules an item from a reminder link.
type Postponer interface {
	Postpone(ctx context.Context, itemID, code string, now time.Time) (int64, error)
}

type Server struct {
	httpServer *http.Server
	delivery   DeliveryRunner
	postpone   Postponer
	logger     *logrus.Logger
}

func New(addr string, delivery DeliveryRunner, postpone Postponer, logger *logrus.Logger) *Server {
	s := &Server{
		delivery: delivery,
		postpone: postpone,
		logger:   logger,
	}

	router := chi.NewRouter()
	router.Get("/health", s.handleHealth)
	router.Post("/jobs/deliveries", s.handleTriggerDeliveries)
	router.Get("/postpone", s.handlePostpone)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// handleTriggerDeliveries starts a batch run detached from the request. The
// caller always gets the same acknowledgement; the outcome only shows up in
// the logs and in the store.
func (s *Server) handleTriggerDeliveries(w http.ResponseWriter, _ *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if err := s.delivery.ProcessScheduledDeliveries(ctx, time.Now()); err != nil {
			s.logger.WithError(err).Error("On-demand delivery run failed")
		}
	}()

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(triggerAck))
}

func (s *Server) handlePostpone(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("item")
	code := r.URL.Query().Get("code")
	if itemID == "" || code == "" {
		http.Error(w, "missing item or code", http.StatusBadRequest)
		return
	}

	newSendDate, err := s.postpone.Postpone(r.Context(), itemID, code, time.Now())
	switch {
	case err == nil:
		fmt.Fprintf(w, "Your message is now scheduled for %s.\n", time.UnixMilli(newSendDate).Format("Mon Jan 02 2006"))
	case errors.Is(err, idb.ErrItemNotFound):
		http.Error(w, "unknown item", http.StatusNotFound)
	case errors.Is(err, app.ErrInvalidPostponeCode):
		http.Error(w, "invalid postpone code", http.StatusForbidden)
	case errors.Is(err, app.ErrItemInactive):
		http.Error(w, "message already delivered", http.StatusGone)
	default:
		s.logger.WithError(err).WithField("item_id", itemID).Error("Postpone failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
