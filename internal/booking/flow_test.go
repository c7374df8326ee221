package booking_test

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/falahalshidi/shrfa-app/internal/booking"
	bookingdb "github.com/falahalshidi/shrfa-app/internal/booking/db"
	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/logger"
	"github.com/falahalshidi/shrfa-app/internal/models"
	"github.com/falahalshidi/shrfa-app/internal/qr"
	"github.com/falahalshidi/shrfa-app/internal/quota"
)

// setupFlowDB wires the real stores against an in-memory database so the
// purchase path runs end to end.
func setupFlowDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Booking)(nil)))
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Ticket)(nil)))
	require.NoError(t, bunDB.ResetModel(ctx, (*models.DailyBooking)(nil)))

	t.Cleanup(func() { bunDB.Close() })
	return bunDB
}

func TestPurchaseFlow(t *testing.T) {
	bunDB := setupFlowDB(t)
	log := logger.NewLogger()

	quotaService := quota.NewService(&quota.DB{Bun: bunDB}, nil, log)
	svc := booking.NewService(&bookingdb.DB{Bun: bunDB}, quotaService, nil, qr.NewGenerator("test-secret"), log)

	ctx := context.Background()
	user := testUser()
	festival := testFestival()

	result, err := svc.Purchase(ctx, user, festival, 3)
	require.NoError(t, err)
	require.Len(t, result.Tickets, 3)

	// The purchase is reflected in the daily count and remaining quota.
	assert.Equal(t, 3, quotaService.DailyCount(ctx, user.ID, quota.Today()))
	assert.Equal(t, quota.DailyCap-3, quotaService.Remaining(ctx, user.ID))

	// Tickets round-trip with their encrypted QR image.
	stored, err := svc.Ticket(ctx, result.Tickets[0].ID)
	require.NoError(t, err)
	assert.Equal(t, result.Tickets[0].Barcode, stored.Barcode)
	assert.True(t, bytes.HasPrefix(stored.QRCode, []byte{0x89, 'P', 'N', 'G'}))

	mine := svc.TicketsByUser(ctx, user.ID)
	assert.Len(t, mine, 3)

	byBooking, err := svc.TicketsByBooking(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Len(t, byBooking, 3)

	detail, err := svc.Booking(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Booking.TotalPriceBaisa, detail.Booking.TotalPriceBaisa)
	assert.Len(t, detail.Tickets, 3)
}

func TestPurchaseFlowEnforcesDailyCap(t *testing.T) {
	bunDB := setupFlowDB(t)
	log := logger.NewLogger()

	quotaService := quota.NewService(&quota.DB{Bun: bunDB}, nil, log)
	svc := booking.NewService(&bookingdb.DB{Bun: bunDB}, quotaService, nil, nil, log)

	ctx := context.Background()
	user := testUser()
	festival := testFestival()

	_, err := svc.Purchase(ctx, user, festival, quota.DailyCap-2)
	require.NoError(t, err)

	_, err = svc.Purchase(ctx, user, festival, 3)

	var quotaErr *errs.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 2, quotaErr.Available)

	// The remaining two still fit.
	_, err = svc.Purchase(ctx, user, festival, 2)
	assert.NoError(t, err)
	assert.Equal(t, 0, quotaService.Remaining(ctx, user.ID))
}
