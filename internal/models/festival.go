package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Festival is a listed festival. Dates are plain YYYY-MM-DD calendar strings
// and prices are integral baisa (minor currency unit).
type Festival struct {
	bun.BaseModel `bun:"table:festivals"`

	ID           string    `bun:"id,pk" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Description  string    `bun:"description,notnull" json:"description"`
	Location     string    `bun:"location,notnull" json:"location"`
	StartDate    string    `bun:"start_date,notnull" json:"start_date"`
	EndDate      string    `bun:"end_date,notnull" json:"end_date"`
	WorkingHours string    `bun:"working_hours,notnull" json:"working_hours"`
	Activities   []string  `bun:"activities" json:"activities"`
	PriceBaisa   int64     `bun:"price_baisa,notnull" json:"price_baisa"`
	ImageURL     string    `bun:"image_url,nullzero" json:"image_url,omitempty"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" json:"updated_at"`
}
