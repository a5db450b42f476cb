package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"go.uber.org/zap"
)

type StatsService struct {
	bookings  BookingStore
	services  ServiceStore
	customers CustomerStore
	employees EmployeeStore
	logger    *zap.Logger
}

func NewStatsService(stores Stores, logger *zap.Logger) *StatsService {
	return &StatsService{
		bookings:  stores.Bookings,
		services:  stores.Services,
		customers: stores.Customers,
		employees: stores.Employees,
		logger:    logger,
	}
}

// ServiceBookingCount бронирования одной услуги за период
type ServiceBookingCount struct {
	Service  *model.Service   `json:"service"`
	Count    int              `json:"count"`
	Bookings []*model.Booking `json:"bookings"`
}

// ServiceBookingCounts считает бронирования каждой услуги в периоде, содержащем reference.
// Год не учитывается: номер недели или месяца сравнивается по всем годам.
func (s *StatsService) ServiceBookingCounts(ctx context.Context, g Granularity, reference model.Date) ([]ServiceBookingCount, error) {
	return s.ServiceBookingCountsFor(ctx, PeriodFilter{Granularity: g, Key: PeriodOf(reference, g)})
}

// ServiceBookingCountsFor считает бронирования каждой услуги в периоде period
func (s *StatsService) ServiceBookingCountsFor(ctx context.Context, period PeriodFilter) ([]ServiceBookingCount, error) {
	if !period.Granularity.Valid() {
		return nil, model.NewValidationError("granularity", "must be week, month or year")
	}

	services, err := s.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	bookings, err := s.bookings.List(ctx, model.BookingFilter{})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	inPeriod := filterPeriod(bookings, period)
	counts := make([]ServiceBookingCount, 0, len(services))
	for _, svc := range services {
		matched := FilterBookingsForService(inPeriod, svc.ID, period.Granularity, period.Key)
		counts = append(counts, ServiceBookingCount{
			Service:  svc,
			Count:    len(matched),
			Bookings: matched,
		})
	}
	return counts, nil
}

// PeriodFilter выбор периода для сводки; пустая гранулярность означает всё время
type PeriodFilter struct {
	Granularity Granularity
	Key         PeriodKey
	Year        *int
}

func (f PeriodFilter) matches(d model.Date) bool {
	if f.Year != nil && d.Year != *f.Year {
		return false
	}
	if f.Granularity == "" {
		return true
	}
	return PeriodOf(d, f.Granularity) == f.Key
}

// PaymentSummary сводка по статусам оплаты за выбранный период
func (s *StatsService) PaymentSummary(ctx context.Context, period PeriodFilter) (PaymentSummary, error) {
	if period.Granularity != "" && !period.Granularity.Valid() {
		return PaymentSummary{}, model.NewValidationError("granularity", "must be week, month or year")
	}

	services, err := s.services.List(ctx)
	if err != nil {
		return PaymentSummary{}, fmt.Errorf("list services: %w", err)
	}
	bookings, err := s.bookings.List(ctx, model.BookingFilter{})
	if err != nil {
		return PaymentSummary{}, fmt.Errorf("list bookings: %w", err)
	}

	summary := AggregateByPaymentStatus(filterPeriod(bookings, period), services)
	if summary.Skipped > 0 {
		s.logger.Warn("Bookings skipped in payment summary",
			zap.Int("skipped", summary.Skipped),
		)
	}
	return summary, nil
}

// BookingsOn бронирования на дату с именами услуг, клиентов и сотрудников
func (s *StatsService) BookingsOn(ctx context.Context, date model.Date) ([]EnrichedBooking, error) {
	if date.IsZero() {
		return nil, model.NewValidationError("date", "date is required")
	}
	bookings, err := s.bookings.List(ctx, model.BookingFilter{Date: &date})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.enrich(ctx, bookings)
}

// EnrichedBookings все бронирования периода в виде для таблицы и отчёта
func (s *StatsService) EnrichedBookings(ctx context.Context, period PeriodFilter) ([]EnrichedBooking, error) {
	bookings, err := s.bookings.List(ctx, model.BookingFilter{})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.enrich(ctx, filterPeriod(bookings, period))
}

// NewBookingsSince количество бронирований, созданных после since
func (s *StatsService) NewBookingsSince(ctx context.Context, since time.Time) (int, error) {
	count, err := s.bookings.CountCreatedSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("count new bookings: %w", err)
	}
	return count, nil
}

// BookingsCreatedSince бронирования, созданные после since
func (s *StatsService) BookingsCreatedSince(ctx context.Context, since time.Time) ([]*model.Booking, error) {
	bookings, err := s.bookings.List(ctx, model.BookingFilter{CreatedAfter: &since})
	if err != nil {
		return nil, fmt.Errorf("list new bookings: %w", err)
	}
	return bookings, nil
}

func (s *StatsService) enrich(ctx context.Context, bookings []*model.Booking) ([]EnrichedBooking, error) {
	services, err := s.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	employees, err := s.employees.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return Enrich(bookings, services, customers, employees), nil
}

func filterPeriod(bookings []*model.Booking, period PeriodFilter) []*model.Booking {
	out := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if period.matches(b.BookingDate) {
			out = append(out, b)
		}
	}
	return out
}
