package quota_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/logger"
	"github.com/falahalshidi/shrfa-app/internal/quota"
)

// MockStore is a mock implementation of the quota.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SumBookedQuantity(ctx context.Context, userID string, from, to time.Time) (int, error) {
	args := m.Called(userID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) IncrementDailyCounter(ctx context.Context, userID, date string, count int) error {
	args := m.Called(userID, date, count)
	return args.Error(0)
}

// fakeGuard lets tests steer the atomic reservation outcome.
type fakeGuard struct {
	ok        bool
	available int
	err       error
	released  int
}

func (f *fakeGuard) Reserve(ctx context.Context, userID, date string, quantity, seed int) (bool, int, error) {
	return f.ok, f.available, f.err
}

func (f *fakeGuard) Release(ctx context.Context, userID, date string, quantity int) {
	f.released += quantity
}

func TestDayWindow(t *testing.T) {
	from, to, err := quota.DayWindow("2024-05-10")

	assert.NoError(t, err)
	// Muscat midnight is 20:00 UTC the previous evening.
	assert.Equal(t, time.Date(2024, 5, 9, 20, 0, 0, 0, time.UTC), from)
	assert.Equal(t, 24*time.Hour, to.Sub(from))
}

func TestDayWindowRejectsBadDate(t *testing.T) {
	_, _, err := quota.DayWindow("10/05/2024")
	assert.Error(t, err)
}

func TestDateOf(t *testing.T) {
	// 21:00 UTC is already the next calendar day in Muscat.
	ts := time.Date(2024, 5, 9, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-10", quota.DateOf(ts))
}

func TestReserveWithinCap(t *testing.T) {
	mockStore := new(MockStore)
	svc := quota.NewService(mockStore, nil, logger.NewLogger())

	mockStore.On("SumBookedQuantity", "user-1", mock.Anything, mock.Anything).Return(15, nil)

	err := svc.Reserve(context.Background(), "user-1", 5)

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestReserveRejectsOverCap(t *testing.T) {
	mockStore := new(MockStore)
	svc := quota.NewService(mockStore, nil, logger.NewLogger())

	mockStore.On("SumBookedQuantity", "user-1", mock.Anything, mock.Anything).Return(15, nil)

	err := svc.Reserve(context.Background(), "user-1", 6)

	var quotaErr *errs.QuotaExceededError
	assert.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 5, quotaErr.Available)
}

func TestReserveRejectsWhenCapReached(t *testing.T) {
	mockStore := new(MockStore)
	svc := quota.NewService(mockStore, nil, logger.NewLogger())

	mockStore.On("SumBookedQuantity", "user-1", mock.Anything, mock.Anything).Return(quota.DailyCap, nil)

	err := svc.Reserve(context.Background(), "user-1", 1)

	var quotaErr *errs.QuotaExceededError
	assert.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 0, quotaErr.Available)
}

func TestReserveUsesGuardVerdict(t *testing.T) {
	mockStore := new(MockStore)
	guard := &fakeGuard{ok: false, available: 2}
	svc := quota.NewService(mockStore, guard, logger.NewLogger())

	mockStore.On("SumBookedQuantity", "user-1", mock.Anything, mock.Anything).Return(18, nil)

	err := svc.Reserve(context.Background(), "user-1", 3)

	var quotaErr *errs.QuotaExceededError
	assert.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 2, quotaErr.Available)
}

func TestReserveFallsBackWhenGuardUnavailable(t *testing.T) {
	mockStore := new(MockStore)
	guard := &fakeGuard{err: errors.New("connection refused")}
	svc := quota.NewService(mockStore, guard, logger.NewLogger())

	mockStore.On("SumBookedQuantity", "user-1", mock.Anything, mock.Anything).Return(10, nil)

	err := svc.Reserve(context.Background(), "user-1", 5)

	assert.NoError(t, err)
}

func TestDailyCountDegradesToZero(t *testing.T) {
	mockStore := new(MockStore)
	svc := quota.NewService(mockStore, nil, logger.NewLogger())

	mockStore.On("SumBookedQuantity", "user-1", mock.Anything, mock.Anything).Return(0, errors.New("connection refused"))

	count := svc.DailyCount(context.Background(), "user-1", quota.Today())

	assert.Equal(t, 0, count)
}

func TestRemainingClampsAtZero(t *testing.T) {
	mockStore := new(MockStore)
	svc := quota.NewService(mockStore, nil, logger.NewLogger())

	mockStore.On("SumBookedQuantity", "user-1", mock.Anything, mock.Anything).Return(quota.DailyCap+3, nil)

	assert.Equal(t, 0, svc.Remaining(context.Background(), "user-1"))
}

func TestReleaseDelegatesToGuard(t *testing.T) {
	guard := &fakeGuard{ok: true}
	svc := quota.NewService(new(MockStore), guard, logger.NewLogger())

	svc.Release(context.Background(), "user-1", 4)

	assert.Equal(t, 4, guard.released)
}
