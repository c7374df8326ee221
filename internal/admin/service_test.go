package admin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/falahalshidi/shrfa-app/internal/admin"
	"github.com/falahalshidi/shrfa-app/internal/logger"
)

// MockStore is a mock implementation of the admin.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SumTicketRevenue(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) CountTickets(ctx context.Context) (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func TestStatsAggregatesTickets(t *testing.T) {
	mockStore := new(MockStore)
	svc := admin.NewService(mockStore, logger.NewLogger())

	mockStore.On("SumTicketRevenue").Return(int64(4000), nil)
	mockStore.On("CountTickets").Return(8, nil)

	stats := svc.Stats(context.Background())

	assert.Equal(t, int64(4000), stats.TotalRevenueBaisa)
	assert.Equal(t, 8, stats.TicketCount)
	mockStore.AssertExpectations(t)
}

func TestStatsDegradesToZeroOnFailure(t *testing.T) {
	mockStore := new(MockStore)
	svc := admin.NewService(mockStore, logger.NewLogger())

	mockStore.On("SumTicketRevenue").Return(int64(0), errors.New("connection refused"))
	mockStore.On("CountTickets").Return(0, errors.New("connection refused"))

	stats := svc.Stats(context.Background())

	assert.Equal(t, int64(0), stats.TotalRevenueBaisa)
	assert.Equal(t, 0, stats.TicketCount)
}

func TestStatsPartialFailureKeepsGoodFigure(t *testing.T) {
	mockStore := new(MockStore)
	svc := admin.NewService(mockStore, logger.NewLogger())

	mockStore.On("SumTicketRevenue").Return(int64(0), errors.New("connection refused"))
	mockStore.On("CountTickets").Return(8, nil)

	stats := svc.Stats(context.Background())

	assert.Equal(t, int64(0), stats.TotalRevenueBaisa)
	assert.Equal(t, 8, stats.TicketCount)
}
