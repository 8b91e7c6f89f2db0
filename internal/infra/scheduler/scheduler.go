package scheduler

import (
	"context"
	"time"

	"pebble_scheduler/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds a single batch run so a stalled send cannot wedge the
// cron engine.
const runTimeout = 10 * time.Minute

type DeliveryScheduler struct {
	cronEngine      *cron.Cron
	deliveryService app.DeliveryService
	logger          *logrus.Logger
	cronSpecDaily   string
}

func NewDeliveryScheduler(
	deliveryService app.DeliveryService,
	logger *logrus.Logger,
	cronSpecDaily string, // e.g., "0 8 * * *" (8:00 AM daily)
) *DeliveryScheduler {
	return &DeliveryScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		deliveryService: deliveryService,
		logger:          logger,
		cronSpecDaily:   cronSpecDaily,
	}
}

func (s *DeliveryScheduler) Start() {
	s.logger.Info("Starting delivery scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecDaily, func() {
		s.logger.Info("Cron job triggered for daily delivery run")
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if err := s.deliveryService.ProcessScheduledDeliveries(ctx, time.Now()); err != nil {
			s.logger.WithError(err).Error("Scheduled delivery run failed")
		}
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add daily delivery cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Delivery scheduler started (spec %q)", s.cronSpecDaily)
}

func (s *DeliveryScheduler) Stop() {
	s.logger.Info("Stopping delivery scheduler...")
	ctx := s.cronEngine.Stop() // Stops new jobs, waits for running ones.
	<-ctx.Done()
	s.logger.Info("Delivery scheduler gracefully stopped")
}
