// Package admin computes the aggregate sales figures shown on the admin
// screen. Figures are recomputed from the full persisted ticket set on every
// call; at festival-app volume that is cheap and cannot drift.
package admin

import (
	"context"
	"fmt"

	"github.com/falahalshidi/shrfa-app/internal/logger"
)

type Store interface {
	SumTicketRevenue(ctx context.Context) (int64, error)
	CountTickets(ctx context.Context) (int, error)
}

type Service struct {
	store  Store
	logger *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, logger: log}
}

// Stats are the aggregate sales figures. Revenue sums ticket-level prices:
// tickets are what was actually issued, and they survive festival deletion
// and partially-failed bookings.
type Stats struct {
	TotalRevenueBaisa int64 `json:"total_revenue_baisa"`
	TicketCount       int   `json:"ticket_count"`
}

// Stats recomputes the figures. Read failures degrade to zero values so the
// admin screen renders instead of erroring.
func (s *Service) Stats(ctx context.Context) Stats {
	var stats Stats

	revenue, err := s.store.SumTicketRevenue(ctx)
	if err != nil {
		s.logger.Error("ADMIN", fmt.Sprintf("revenue sum failed: %v", err))
	} else {
		stats.TotalRevenueBaisa = revenue
	}

	count, err := s.store.CountTickets(ctx)
	if err != nil {
		s.logger.Error("ADMIN", fmt.Sprintf("ticket count failed: %v", err))
	} else {
		stats.TicketCount = count
	}

	return stats
}
