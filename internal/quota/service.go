package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/logger"
)

type Store interface {
	SumBookedQuantity(ctx context.Context, userID string, from, to time.Time) (int, error)
	IncrementDailyCounter(ctx context.Context, userID, date string, count int) error
}

// ReserveGuard is the server-side atomic check-and-increment. Reserve returns
// whether the reservation fits under the cap and, when it does not, how many
// tickets are still available.
type ReserveGuard interface {
	Reserve(ctx context.Context, userID, date string, quantity, seed int) (ok bool, available int, err error)
	Release(ctx context.Context, userID, date string, quantity int)
}

type Service struct {
	store  Store
	guard  ReserveGuard
	logger *logger.Logger
}

// NewService builds the tracker. guard may be nil, in which case acceptance
// falls back to re-checking the freshly queried sum (defense in depth only,
// not race-free across clients).
func NewService(store Store, guard ReserveGuard, log *logger.Logger) *Service {
	return &Service{store: store, guard: guard, logger: log}
}

// DailyCount returns the total tickets booked by the user on the given
// calendar day. A read failure degrades to zero; this feeds display fallbacks
// and the guard seed, never the sole acceptance decision.
func (s *Service) DailyCount(ctx context.Context, userID, date string) int {
	from, to, err := DayWindow(date)
	if err != nil {
		s.logger.Error("QUOTA", fmt.Sprintf("bad date for daily count: %v", err))
		return 0
	}
	count, err := s.store.SumBookedQuantity(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("QUOTA", fmt.Sprintf("daily count query failed for %s: %v", userID, err))
		return 0
	}
	return count
}

// Remaining reports how many tickets the user may still book today.
func (s *Service) Remaining(ctx context.Context, userID string) int {
	remaining := DailyCap - s.DailyCount(ctx, userID, Today())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reserve atomically claims quantity tickets of today's quota for the user.
// The count is re-queried here, immediately before commitment, never trusted
// from a stale value. Over-cap requests fail with QuotaExceededError carrying
// the available count.
func (s *Service) Reserve(ctx context.Context, userID string, quantity int) error {
	date := Today()
	used := s.DailyCount(ctx, userID, date)

	if s.guard != nil {
		ok, available, err := s.guard.Reserve(ctx, userID, date, quantity, used)
		if err == nil {
			if !ok {
				return &errs.QuotaExceededError{Available: available}
			}
			return nil
		}
		s.logger.Warn("QUOTA", fmt.Sprintf("guard unavailable, falling back to query check: %v", err))
	}

	available := DailyCap - used
	if available < 0 {
		available = 0
	}
	if quantity > available {
		return &errs.QuotaExceededError{Available: available}
	}
	return nil
}

// Release returns a reservation, used when the booking write fails after a
// successful Reserve.
func (s *Service) Release(ctx context.Context, userID string, quantity int) {
	if s.guard == nil {
		return
	}
	s.guard.Release(ctx, userID, Today(), quantity)
}

// RecordBooking bumps the informational (user, day) counter row. Best-effort:
// the authoritative count is the booking sum, so a failed increment is only
// logged.
func (s *Service) RecordBooking(ctx context.Context, userID string, quantity int) {
	if err := s.store.IncrementDailyCounter(ctx, userID, Today(), quantity); err != nil {
		s.logger.Warn("QUOTA", fmt.Sprintf("daily counter increment failed for %s: %v", userID, err))
	}
}
