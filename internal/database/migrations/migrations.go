// Package migrations creates the table schema from the bun models. The same
// DDL works for both the sqlite and postgres backends, which keeps dev, tests
// and production on one schema definition.
package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/falahalshidi/shrfa-app/internal/models"
)

func tableModels() []interface{} {
	return []interface{}{
		(*models.Profile)(nil),
		(*models.Festival)(nil),
		(*models.Booking)(nil),
		(*models.Ticket)(nil),
		(*models.DailyBooking)(nil),
	}
}

// Setup creates any missing tables.
func Setup(ctx context.Context, db *bun.DB) error {
	for _, model := range tableModels() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// Reset drops and recreates every table. For dev and tests only.
func Reset(ctx context.Context, db *bun.DB) error {
	for _, model := range tableModels() {
		if err := db.ResetModel(ctx, model); err != nil {
			return fmt.Errorf("reset table for %T: %w", model, err)
		}
	}
	return nil
}
