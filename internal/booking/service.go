// Package booking implements ticket purchase: quota enforcement, price
// snapshotting and per-unit ticket issuance.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/logger"
	"github.com/falahalshidi/shrfa-app/internal/models"
)

type Store interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	TicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error)
	TicketsByBooking(ctx context.Context, bookingID string) ([]models.Ticket, error)
}

// QuotaKeeper is the daily-cap enforcement port. Reserve returns
// *errs.QuotaExceededError when the purchase would pass the cap.
type QuotaKeeper interface {
	Reserve(ctx context.Context, userID string, quantity int) error
	Release(ctx context.Context, userID string, quantity int)
	RecordBooking(ctx context.Context, userID string, quantity int)
}

// EventPublisher streams purchase events to the message broker. Publishing is
// best-effort; failures never fail the purchase.
type EventPublisher interface {
	PublishBookingCreated(booking models.Booking) error
	PublishTicketIssued(ticket models.Ticket) error
}

// QRRenderer produces the scannable image bytes embedded in each ticket.
type QRRenderer interface {
	Render(ticket models.Ticket) ([]byte, error)
}

type Service struct {
	store  Store
	quota  QuotaKeeper
	events EventPublisher
	qr     QRRenderer
	logger *logger.Logger
}

// NewService builds the booking service. events and qr may be nil.
func NewService(store Store, quota QuotaKeeper, events EventPublisher, qr QRRenderer, log *logger.Logger) *Service {
	return &Service{store: store, quota: quota, events: events, qr: qr, logger: log}
}

// PurchaseResult is a created booking with its issued tickets.
type PurchaseResult struct {
	Booking models.Booking  `json:"booking"`
	Tickets []models.Ticket `json:"tickets"`
}

// Purchase books quantity tickets of a festival for the user. The daily count
// is re-checked and atomically reserved before anything is written; the unit
// price is snapshotted into the booking and each ticket.
//
// On a ticket persistence failure after the booking row commits, the result
// holds the tickets that did persist and the returned error is a
// *errs.PartialFailureError naming the ones that did not, so the caller can
// re-issue exactly those instead of re-charging the whole purchase.
func (s *Service) Purchase(ctx context.Context, user *models.User, festival *models.Festival, quantity int) (*PurchaseResult, error) {
	if user == nil || user.ID == "" {
		return nil, &errs.ValidationError{Field: "user", Reason: "required"}
	}
	if festival == nil || festival.ID == "" {
		return nil, &errs.ValidationError{Field: "festival", Reason: "required"}
	}
	if quantity < 1 {
		return nil, &errs.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}

	if err := s.quota.Reserve(ctx, user.ID, quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bookingRecord := models.Booking{
		ID:              uuid.NewString(),
		FestivalID:      festival.ID,
		UserID:          user.ID,
		Quantity:        quantity,
		TotalPriceBaisa: festival.PriceBaisa * int64(quantity),
		PurchaseDate:    now,
		CreatedAt:       now,
	}

	tickets := make([]models.Ticket, 0, quantity)
	for i := 0; i < quantity; i++ {
		ticket := models.Ticket{
			ID:           uuid.NewString(),
			BookingID:    bookingRecord.ID,
			FestivalID:   festival.ID,
			FestivalName: festival.Name,
			UserID:       user.ID,
			PurchaseDate: now,
			PriceBaisa:   festival.PriceBaisa,
			Barcode:      GenerateBarcode(),
			TicketNumber: GenerateTicketNumber(),
			CreatedAt:    now,
		}
		if s.qr != nil {
			qrBytes, err := s.qr.Render(ticket)
			if err != nil {
				s.quota.Release(ctx, user.ID, quantity)
				return nil, fmt.Errorf("failed to generate QR for ticket %s: %w", ticket.ID, err)
			}
			ticket.QRCode = qrBytes
		}
		tickets = append(tickets, ticket)
	}

	if err := s.store.CreateBooking(ctx, &bookingRecord); err != nil {
		s.quota.Release(ctx, user.ID, quantity)
		return nil, &errs.TransientIOError{Op: "booking.create", Err: err}
	}

	result := &PurchaseResult{Booking: bookingRecord, Tickets: make([]models.Ticket, 0, quantity)}
	var missing []string
	var lastErr error
	for i := range tickets {
		if err := s.store.CreateTicket(ctx, &tickets[i]); err != nil {
			s.logger.Error("BOOKING", fmt.Sprintf("ticket %s failed to persist: %v", tickets[i].ID, err))
			missing = append(missing, tickets[i].ID)
			lastErr = err
			continue
		}
		result.Tickets = append(result.Tickets, tickets[i])
	}

	if len(missing) > 0 {
		// The booking row exists, so the reservation stands; the caller must
		// re-issue only the missing tickets.
		return result, &errs.PartialFailureError{
			BookingID:        bookingRecord.ID,
			MissingTicketIDs: missing,
			Err:              lastErr,
		}
	}

	s.quota.RecordBooking(ctx, user.ID, quantity)
	s.publish(bookingRecord, result.Tickets)
	s.logger.LogBooking("CREATED", bookingRecord.ID,
		fmt.Sprintf("%d ticket(s) for festival %s, total %d baisa", quantity, festival.ID, bookingRecord.TotalPriceBaisa))

	return result, nil
}

// Booking returns one booking with the tickets issued under it.
func (s *Service) Booking(ctx context.Context, id string) (*PurchaseResult, error) {
	bookingRecord, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("booking %s not found: %w", id, err)
	}
	tickets, err := s.store.TicketsByBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets for booking %s: %w", id, err)
	}
	return &PurchaseResult{Booking: *bookingRecord, Tickets: tickets}, nil
}

// Ticket returns one ticket by id.
func (s *Service) Ticket(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ticket %s not found: %w", id, err)
	}
	return ticket, nil
}

// TicketsByUser returns all tickets a user has purchased. Read failures
// degrade to an empty list.
func (s *Service) TicketsByUser(ctx context.Context, userID string) []models.Ticket {
	tickets, err := s.store.TicketsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("BOOKING", fmt.Sprintf("ticket list failed for user %s: %v", userID, err))
		return nil
	}
	return tickets
}

// TicketsByBooking returns the tickets issued under one booking.
func (s *Service) TicketsByBooking(ctx context.Context, bookingID string) ([]models.Ticket, error) {
	tickets, err := s.store.TicketsByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets for booking %s: %w", bookingID, err)
	}
	return tickets, nil
}

func (s *Service) publish(booking models.Booking, tickets []models.Ticket) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishBookingCreated(booking); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("publish booking.created failed for %s: %v", booking.ID, err))
	}
	for _, ticket := range tickets {
		if err := s.events.PublishTicketIssued(ticket); err != nil {
			s.logger.Error("KAFKA", fmt.Sprintf("publish ticket.issued failed for %s: %v", ticket.ID, err))
		}
	}
}
