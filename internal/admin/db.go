package admin

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	"github.com/falahalshidi/shrfa-app/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) SumTicketRevenue(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	err := d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		ColumnExpr("SUM(price_baisa)").
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Int64, nil
}

func (d *DB) CountTickets(ctx context.Context) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Count(ctx)
}
