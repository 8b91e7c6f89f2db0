// internal/app/delivery_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pebble_scheduler/internal/domain/item"
	domainMail "pebble_scheduler/internal/domain/mail"
	"pebble_scheduler/internal/domain/user"
	idb "pebble_scheduler/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// DefaultReminderLeadDays is how far ahead of the send date the advance
// notice goes out.
const DefaultReminderLeadDays = 10

// DeliveryService runs the scheduled-delivery batch.
type DeliveryService interface {
	// ProcessScheduledDeliveries executes one batch run for the given
	// reference time: items due that day are delivered and deactivated,
	// items due in the reminder window get a postpone notice. Only a failure
	// to fetch the candidates fails the run; per-item failures are isolated
	// and logged.
	ProcessScheduledDeliveries(ctx context.Context, now time.Time) error
}

// DeliveryServiceImpl implements the DeliveryService interface.
type DeliveryServiceImpl struct {
	itemRepo         item.Repository
	userRepo         user.Repository
	mailer           domainMail.Mailer
	logger           *logrus.Logger
	fromAddress      string
	postponeBaseURL  string
	reminderLeadDays int
}

func NewDeliveryServiceImpl(
	ir item.Repository,
	ur user.Repository,
	mailer domainMail.Mailer,
	logger *logrus.Logger,
	fromAddress string,
	postponeBaseURL string,
	reminderLeadDays int,
) *DeliveryServiceImpl {
	if reminderLeadDays <= 0 {
		reminderLeadDays = DefaultReminderLeadDays
	}
	return &DeliveryServiceImpl{
		itemRepo:         ir,
		userRepo:         ur,
		mailer:           mailer,
		logger:           logger,
		fromAddress:      fromAddress,
		postponeBaseURL:  postponeBaseURL,
		reminderLeadDays: reminderLeadDays,
	}
}

func (s *DeliveryServiceImpl) ProcessScheduledDeliveries(ctx context.Context, now time.Time) error {
	todayWindow := item.DayWindowOf(now)
	reminderWindow := item.DayWindowOf(now.AddDate(0, 0, s.reminderLeadDays))

	s.logger.WithFields(logrus.Fields{
		"today_start":    todayWindow.Start,
		"today_end":      todayWindow.End,
		"reminder_start": reminderWindow.Start,
		"reminder_end":   reminderWindow.End,
	}).Info("Starting scheduled delivery run")

	candidates, err := s.itemRepo.ListActiveInWindows(ctx, todayWindow, reminderWindow)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch delivery candidates; aborting run")
		return fmt.Errorf("fetch delivery candidates: %w", err)
	}
	if len(candidates) == 0 {
		s.logger.Info("No items due for delivery or reminder")
		return nil
	}
	s.logger.Infof("Found %d candidate items", len(candidates))

	// Items are independent units of work: process them concurrently and
	// never let one failure abort a sibling.
	var failed atomic.Int64
	var wg sync.WaitGroup
	for _, it := range candidates {
		wg.Add(1)
		go func(it *item.Item) {
			defer wg.Done()
			if err := s.processItem(ctx, it, todayWindow, reminderWindow, now); err != nil {
				failed.Add(1)
				s.logger.WithError(err).WithField("item_id", it.ID).Error("Item processing failed")
			}
		}(it)
	}
	wg.Wait()

	if n := failed.Load(); n > 0 {
		s.logger.Warnf("Delivery run finished: %d of %d items failed", n, len(candidates))
	} else {
		s.logger.Infof("Delivery run finished: %d items processed", len(candidates))
	}
	return nil
}

func (s *DeliveryServiceImpl) processItem(ctx context.Context, it *item.Item, todayWindow, reminderWindow item.Window, now time.Time) error {
	owner, err := s.userRepo.GetByUID(ctx, it.OwnerUID)
	if err != nil {
		if errors.Is(err, idb.ErrUserNotFound) {
			s.logger.WithFields(logrus.Fields{"item_id": it.ID, "owner_uid": it.OwnerUID}).
				Warn("Owner not found; skipping item")
			return nil
		}
		return fmt.Errorf("fetch owner %s: %w", it.OwnerUID, err)
	}

	decision, err := classifyItem(it, owner, todayWindow, reminderWindow, s.fromAddress, s.postponeBaseURL)
	if err != nil {
		return err
	}

	switch decision.Kind {
	case decisionFire:
		return s.fireItem(ctx, it, decision.Messages, now)
	case decisionReminder:
		return s.remindItem(ctx, it, decision.Messages, now)
	default:
		return fmt.Errorf("item %s: unexpected decision kind %d", it.ID, decision.Kind)
	}
}

// fireItem delivers a due item. The audit entry and the deactivation must be
// durable before any email goes out: if either write fails, nothing is sent
// and a later run cannot re-deliver the item.
func (s *DeliveryServiceImpl) fireItem(ctx context.Context, it *item.Item, messages []domainMail.Message, now time.Time) error {
	entry := item.LogEntry{Action: item.ActionMessageSent, Date: now.UnixMilli()}
	if err := s.itemRepo.AppendLog(ctx, it.ID, entry); err != nil {
		return fmt.Errorf("record delivery action: %w", err)
	}
	if err := s.itemRepo.Deactivate(ctx, it.ID); err != nil {
		return fmt.Errorf("deactivate item: %w", err)
	}

	var sendErr error
	for _, msg := range messages {
		if err := s.mailer.Send(ctx, msg); err != nil {
			sendErr = errors.Join(sendErr, fmt.Errorf("dispatch to %s: %w", msg.To, err))
		}
	}
	if sendErr != nil {
		return sendErr
	}

	s.logger.WithField("item_id", it.ID).Info("Item delivered and deactivated")
	return nil
}

// remindItem sends the advance notice with the postpone link. The audit
// entry is best effort here: a failed write is logged but never blocks the
// reminder itself.
func (s *DeliveryServiceImpl) remindItem(ctx context.Context, it *item.Item, messages []domainMail.Message, now time.Time) error {
	entry := item.LogEntry{Action: item.ActionPostponeSent, Date: now.UnixMilli()}
	if err := s.itemRepo.AppendLog(ctx, it.ID, entry); err != nil {
		s.logger.WithError(err).WithField("item_id", it.ID).
			Warn("Failed to record reminder action; sending reminder anyway")
	}

	for _, msg := range messages {
		if err := s.mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("dispatch reminder to %s: %w", msg.To, err)
		}
	}

	s.logger.WithField("item_id", it.ID).Info("Reminder sent")
	return nil
}
