package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking groups the tickets purchased in one transaction. Immutable once
// created; TotalPriceBaisa snapshots quantity x unit price at purchase time.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID              string    `bun:"id,pk" json:"id"`
	FestivalID      string    `bun:"festival_id,notnull" json:"festival_id"`
	UserID          string    `bun:"user_id,notnull" json:"user_id"`
	Quantity        int       `bun:"quantity,notnull" json:"quantity"`
	TotalPriceBaisa int64     `bun:"total_price_baisa,notnull" json:"total_price_baisa"`
	PurchaseDate    time.Time `bun:"purchase_date,notnull" json:"purchase_date"`
	CreatedAt       time.Time `bun:"created_at,notnull" json:"created_at"`
}
