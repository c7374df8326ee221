package quota

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/falahalshidi/shrfa-app/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// SumBookedQuantity sums booking quantities for the user inside [from, to).
func (d *DB) SumBookedQuantity(ctx context.Context, userID string, from, to time.Time) (int, error) {
	var total sql.NullInt64
	err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		ColumnExpr("SUM(quantity)").
		Where("user_id = ?", userID).
		Where("purchase_date >= ?", from).
		Where("purchase_date < ?", to).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return int(total.Int64), nil
}

// IncrementDailyCounter bumps the (user, date) counter row, creating it on
// first booking of the day.
func (d *DB) IncrementDailyCounter(ctx context.Context, userID, date string, count int) error {
	var existing models.DailyBooking
	err := d.Bun.NewSelect().
		Model(&existing).
		Where("user_id = ?", userID).
		Where("date = ?", date).
		Limit(1).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		row := models.DailyBooking{
			UserID: userID,
			Date:   date,
			Count:  count,
		}
		_, err = d.Bun.NewInsert().Model(&row).Exec(ctx)
		return err
	}
	if err != nil {
		return err
	}

	existing.Count += count
	_, err = d.Bun.NewUpdate().
		Model(&existing).
		Column("count").
		Where("user_id = ?", userID).
		Where("date = ?", date).
		Exec(ctx)
	return err
}
