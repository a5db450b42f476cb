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

func seedBookings(t *testing.T, f *fixture) (*model.Service, *model.Employee) {
	t.Helper()
	ctx := context.Background()

	color := &model.Service{Name: "Color", Description: "Färgning", Price: 500, CategoryID: &f.category.ID}
	require.NoError(t, f.stores.Services.Create(ctx, color))

	emp := &model.Employee{Email: "lisa@salon.se", DisplayName: "Lisa", Role: model.RoleEmployee}
	require.NoError(t, f.stores.Employees.Create(ctx, emp))

	created := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	add := func(serviceID string, date model.Date, start model.TimeOfDay, status model.PaymentStatus, employeeID *string) {
		require.NoError(t, f.stores.Bookings.Create(ctx, &model.Booking{
			CustomerID:    f.customer.ID,
			ServiceID:     serviceID,
			EmployeeID:    employeeID,
			BookingDate:   date,
			StartTime:     start,
			EndTime:       start + 30,
			Status:        model.BookingStatusConfirmed,
			PaymentStatus: status,
			CreatedAt:     created,
		}))
		created = created.Add(time.Hour)
	}

	add(f.haircut.ID, june10, tod(10, 0), model.PaymentPaid, &emp.ID)
	add(f.haircut.ID, model.NewDate(2024, time.June, 12), tod(9, 0), model.PaymentPending, nil)
	add(color.ID, june10, tod(9, 0), model.PaymentPaid, nil)
	add(color.ID, model.NewDate(2024, time.July, 2), tod(9, 0), model.PaymentUnpaid, nil)
	add("deleted-service", june10, tod(15, 0), model.PaymentPaid, nil)
	return color, emp
}

func TestServiceBookingCounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	color, _ := seedBookings(t, f)
	stats := NewStatsService(f.stores, zap.NewNop())

	counts, err := stats.ServiceBookingCounts(ctx, GranularityWeek, model.NewDate(2024, time.June, 14))
	require.NoError(t, err)
	require.Len(t, counts, 2)
	byID := map[string]int{}
	for _, c := range counts {
		byID[c.Service.ID] = c.Count
	}
	assert.Equal(t, 2, byID[f.haircut.ID])
	assert.Equal(t, 1, byID[color.ID])

	counts, err = stats.ServiceBookingCounts(ctx, GranularityMonth, model.NewDate(2024, time.July, 20))
	require.NoError(t, err)
	byID = map[string]int{}
	for _, c := range counts {
		byID[c.Service.ID] = c.Count
	}
	assert.Equal(t, 0, byID[f.haircut.ID])
	assert.Equal(t, 1, byID[color.ID])

	_, err = stats.ServiceBookingCounts(ctx, "day", june10)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestServiceBookingCountsForYear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stats := NewStatsService(f.stores, zap.NewNop())

	for _, year := range []int{2023, 2024} {
		require.NoError(t, f.stores.Bookings.Create(ctx, &model.Booking{
			CustomerID:    f.customer.ID,
			ServiceID:     f.haircut.ID,
			BookingDate:   model.NewDate(year, time.June, 10),
			StartTime:     tod(10, 0),
			EndTime:       tod(10, 30),
			Status:        model.BookingStatusConfirmed,
			PaymentStatus: model.PaymentPaid,
			CreatedAt:     time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC),
		}))
	}

	// Без года совпадают июни всех лет
	counts, err := stats.ServiceBookingCounts(ctx, GranularityMonth, june10)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 2, counts[0].Count)

	year := 2024
	period := PeriodFilter{Granularity: GranularityMonth, Key: PeriodOf(june10, GranularityMonth), Year: &year}
	counts, err = stats.ServiceBookingCountsFor(ctx, period)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].Count)

	summary, err := stats.PaymentSummary(ctx, period)
	require.NoError(t, err)
	assert.Equal(t, counts[0].Count, summary.Total())

	_, err = stats.ServiceBookingCountsFor(ctx, PeriodFilter{})
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPaymentSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedBookings(t, f)
	stats := NewStatsService(f.stores, zap.NewNop())

	all, err := stats.PaymentSummary(ctx, PeriodFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Counts[model.PaymentPaid])
	assert.Equal(t, int64(800), all.Revenue[model.PaymentPaid])
	assert.Equal(t, int64(300), all.Revenue[model.PaymentPending])
	assert.Equal(t, int64(500), all.Revenue[model.PaymentUnpaid])
	assert.Equal(t, 1, all.Skipped)

	year := 2024
	june, err := stats.PaymentSummary(ctx, PeriodFilter{Granularity: GranularityMonth, Key: 5, Year: &year})
	require.NoError(t, err)
	assert.Equal(t, 3, june.Total())
	assert.Zero(t, june.Counts[model.PaymentUnpaid])

	other := 2023
	empty, err := stats.PaymentSummary(ctx, PeriodFilter{Year: &other})
	require.NoError(t, err)
	assert.Zero(t, empty.Total())
}

func TestBookingsOn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, emp := seedBookings(t, f)
	stats := NewStatsService(f.stores, zap.NewNop())

	day, err := stats.BookingsOn(ctx, june10)
	require.NoError(t, err)
	require.Len(t, day, 3)

	assert.Equal(t, "Color", day[0].ServiceName)
	assert.Equal(t, "Ej tilldelad", day[0].EmployeeName)
	assert.Equal(t, "Haircut", day[1].ServiceName)
	assert.Equal(t, emp.DisplayName, day[1].EmployeeName)
	assert.Equal(t, "Anna", day[1].CustomerName)
	assert.Equal(t, "Ingen tjänst", day[2].ServiceName)

	_, err = stats.BookingsOn(ctx, model.Date{})
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestEnrichedBookingsForYear(t *testing.T) {
	f := newFixture(t)
	seedBookings(t, f)
	stats := NewStatsService(f.stores, zap.NewNop())

	year := 2024
	rows, err := stats.EnrichedBookings(context.Background(), PeriodFilter{Year: &year})
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestNewBookingsSince(t *testing.T) {
	f := newFixture(t)
	seedBookings(t, f)
	stats := NewStatsService(f.stores, zap.NewNop())

	count, err := stats.NewBookingsSince(context.Background(), time.Date(2024, time.June, 1, 13, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestBookingsCreatedSince(t *testing.T) {
	f := newFixture(t)
	seedBookings(t, f)
	stats := NewStatsService(f.stores, zap.NewNop())
	since := time.Date(2024, time.June, 1, 14, 0, 0, 0, time.UTC)

	bookings, err := stats.BookingsCreatedSince(context.Background(), since)
	require.NoError(t, err)
	// созданная ровно в since уже учтена
	require.Len(t, bookings, 2)
	for _, b := range bookings {
		assert.True(t, b.CreatedAt.After(since))
	}
}
