package models

import (
	"github.com/uptrace/bun"
)

// DailyBooking is a running counter of tickets booked by a user on one
// calendar day (Asia/Muscat). It is informational: the authoritative count is
// always the range sum over bookings, which cannot drift.
type DailyBooking struct {
	bun.BaseModel `bun:"table:daily_bookings"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID string `bun:"user_id,notnull" json:"user_id"`
	Date   string `bun:"date,notnull" json:"date"`
	Count  int    `bun:"count,notnull" json:"count"`
}
