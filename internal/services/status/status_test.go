package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-gate/internal/models"
	services "github.com/magabrotheeeer/subscription-gate/internal/services/status"
)

// Мок для SubscriptionReader
type SubscriptionReaderMock struct {
	mock.Mock
}

func (m *SubscriptionReaderMock) FindSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		endDate   time.Time
		wantDays  int
		wantHours int
	}{
		{
			name:      "five days and three hours",
			endDate:   now.Add(5*24*time.Hour + 3*time.Hour),
			wantDays:  5,
			wantHours: 3,
		},
		{
			name:      "less than a day",
			endDate:   now.Add(7 * time.Hour),
			wantDays:  0,
			wantHours: 7,
		},
		{
			name:      "exactly one day",
			endDate:   now.Add(24 * time.Hour),
			wantDays:  1,
			wantHours: 0,
		},
		{
			name:      "partial hour is floored",
			endDate:   now.Add(2*time.Hour + 59*time.Minute),
			wantDays:  0,
			wantHours: 2,
		},
		{
			name:      "already expired",
			endDate:   now.Add(-time.Hour),
			wantDays:  0,
			wantHours: 0,
		},
		{
			name:      "exactly now",
			endDate:   now,
			wantDays:  0,
			wantHours: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, hours := services.Remaining(tt.endDate, now)
			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.wantHours, hours)
		})
	}
}

func TestStatusService_Snapshot(t *testing.T) {
	repo := new(SubscriptionReaderMock)
	sub := &models.Subscription{
		UserUID: "uid-1",
		Type:    models.SubscriptionTypeTrial,
		Status:  models.SubscriptionStatusActive,
		EndDate: time.Now().Add(3*24*time.Hour + 5*time.Hour + 30*time.Minute),
	}
	repo.On("FindSubscriptionByUserUID", mock.Anything, "uid-1").Return(sub, nil).Once()

	svc := services.NewStatusService(repo, time.Minute, newNoopLogger())
	view, err := svc.Snapshot(context.Background(), "uid-1")

	require.NoError(t, err)
	assert.Equal(t, sub, view.Subscription)
	assert.Equal(t, 3, view.DaysRemaining)
	assert.Equal(t, 5, view.HoursRemaining)
	repo.AssertExpectations(t)
}

func TestStatusService_Snapshot_NotFound(t *testing.T) {
	repo := new(SubscriptionReaderMock)
	repo.On("FindSubscriptionByUserUID", mock.Anything, "uid-1").
		Return(nil, models.ErrSubscriptionNotFound).Once()

	svc := services.NewStatusService(repo, time.Minute, newNoopLogger())
	view, err := svc.Snapshot(context.Background(), "uid-1")

	assert.ErrorIs(t, err, models.ErrSubscriptionNotFound)
	assert.Nil(t, view)
}

func TestStatusService_Watch(t *testing.T) {
	repo := new(SubscriptionReaderMock)
	sub := &models.Subscription{
		UserUID: "uid-1",
		EndDate: time.Now().Add(48 * time.Hour),
	}
	repo.On("FindSubscriptionByUserUID", mock.Anything, "uid-1").Return(sub, nil)

	svc := services.NewStatusService(repo, 20*time.Millisecond, newNoopLogger())
	ctx, cancel := context.WithCancel(context.Background())

	out := svc.Watch(ctx, "uid-1")

	// первый снимок приходит немедленно, затем по таймеру
	first := <-out
	assert.Equal(t, 1, first.DaysRemaining)

	select {
	case second := <-out:
		assert.NotNil(t, second.Subscription)
	case <-time.After(time.Second):
		t.Fatal("no refreshed snapshot received")
	}

	cancel()
	for range out {
		// дочитываем до закрытия канала
	}
}

func TestStatusService_Watch_Restartable(t *testing.T) {
	repo := new(SubscriptionReaderMock)
	repo.On("FindSubscriptionByUserUID", mock.Anything, "uid-1").
		Return(&models.Subscription{UserUID: "uid-1", EndDate: time.Now().Add(time.Hour)}, nil)

	svc := services.NewStatusService(repo, time.Minute, newNoopLogger())

	ctx1, cancel1 := context.WithCancel(context.Background())
	out1 := svc.Watch(ctx1, "uid-1")
	<-out1
	cancel1()

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	out2 := svc.Watch(ctx2, "uid-1")

	select {
	case view := <-out2:
		assert.Equal(t, "uid-1", view.Subscription.UserUID)
	case <-time.After(time.Second):
		t.Fatal("restarted watch produced no snapshot")
	}
}
