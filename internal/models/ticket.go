package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Ticket is one admission unit. A booking of quantity N yields N ticket rows
// sharing the booking id and purchase timestamp. The festival name is
// denormalized so the ticket stays displayable after festival deletion.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID           string    `bun:"id,pk" json:"id"`
	BookingID    string    `bun:"booking_id,notnull" json:"booking_id"`
	FestivalID   string    `bun:"festival_id,notnull" json:"festival_id"`
	FestivalName string    `bun:"festival_name,notnull" json:"festival_name"`
	UserID       string    `bun:"user_id,notnull" json:"user_id"`
	PurchaseDate time.Time `bun:"purchase_date,notnull" json:"purchase_date"`
	PriceBaisa   int64     `bun:"price_baisa,notnull" json:"price_baisa"`
	Barcode      string    `bun:"barcode,notnull" json:"barcode"`
	TicketNumber string    `bun:"ticket_number,notnull" json:"ticket_number"`
	QRCode       []byte    `bun:"qr_code" json:"-"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}
