package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenHoursDefaultsClosed(t *testing.T) {
	f := newFixture(t)
	svc := NewOpenHoursService(f.stores, time.UTC, zap.NewNop())

	hours, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, hours, 7)
	assert.Equal(t, time.Monday, hours[0].Weekday)
	assert.Equal(t, time.Sunday, hours[6].Weekday)
	for _, h := range hours {
		assert.True(t, h.Closed())
	}
}

func TestIsOpenAtInclusiveBounds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewOpenHoursService(f.stores, time.UTC, zap.NewNop())

	// id 1 = понедельник
	require.NoError(t, svc.Update(ctx, &model.OpenHours{ID: 1, OpenTime: ptr(tod(9, 0)), CloseTime: ptr(tod(17, 0))}))

	monday := func(hour, minute int) time.Time {
		return time.Date(2024, time.June, 10, hour, minute, 0, 0, time.UTC)
	}
	tests := []struct {
		at   time.Time
		want bool
	}{
		{monday(8, 59), false},
		{monday(9, 0), true},
		{monday(12, 30), true},
		{monday(17, 0), true},
		{monday(17, 1), false},
		{time.Date(2024, time.June, 11, 12, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		open, err := svc.IsOpenAt(ctx, tt.at)
		require.NoError(t, err)
		assert.Equal(t, tt.want, open, tt.at.String())
	}
}

func TestOpenHoursUpdateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewOpenHoursService(f.stores, time.UTC, zap.NewNop())

	var verr *model.ValidationError
	require.ErrorAs(t, svc.Update(ctx, &model.OpenHours{ID: 2, OpenTime: ptr(tod(9, 0))}), &verr)
	require.ErrorAs(t, svc.Update(ctx, &model.OpenHours{ID: 2, OpenTime: ptr(tod(18, 0)), CloseTime: ptr(tod(9, 0))}), &verr)

	// Выходной: оба времени пустые
	require.NoError(t, svc.Update(ctx, &model.OpenHours{ID: 2}))
}
