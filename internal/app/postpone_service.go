// internal/app/postpone_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"pebble_scheduler/internal/domain/item"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the postpone flow
var ErrInvalidPostponeCode = fmt.Errorf("postpone code does not match")
var ErrItemInactive = fmt.Errorf("item has already been delivered")

// PostponeService pushes a scheduled item's send date forward by its
// configured interval, counted from the day the link is used.
type PostponeService struct {
	itemRepo item.Repository
	logger   *logrus.Logger
}

func NewPostponeService(ir item.Repository, logger *logrus.Logger) *PostponeService {
	return &PostponeService{itemRepo: ir, logger: logger}
}

// Postpone validates the code from the reminder link and reschedules the
// item to today plus its interval. If the current send date already lies on
// that target day nothing changes. Returns the effective send date.
func (s *PostponeService) Postpone(ctx context.Context, itemID, code string, now time.Time) (int64, error) {
	it, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("fetch item: %w", err)
	}
	if !it.IsActive {
		return 0, ErrItemInactive
	}
	if it.PostponeCode == "" || it.PostponeCode != code {
		return 0, ErrInvalidPostponeCode
	}

	months, err := it.Interval.Months()
	if err != nil {
		return 0, fmt.Errorf("item %s: %w", it.ID, err)
	}

	target := now.AddDate(0, months, 0)
	if item.DayWindowOf(target).Contains(it.SendDate) {
		s.logger.WithField("item_id", it.ID).Info("Item already scheduled for the target day; nothing to postpone")
		return it.SendDate, nil
	}

	newSendDate := target.UnixMilli()
	if err := s.itemRepo.UpdateSendDate(ctx, it.ID, newSendDate); err != nil {
		return 0, fmt.Errorf("update send date: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"item_id":   it.ID,
		"send_date": newSendDate,
		"interval":  string(it.Interval),
	}).Info("Item postponed")
	return newSendDate, nil
}
