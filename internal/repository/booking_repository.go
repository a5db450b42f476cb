package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, slot_id, customer_id, service_id, employee_id, booking_date,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), status, payment_status, created_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(db base.DB, timeout time.Duration) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(db, timeout)}
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	query := `
		INSERT INTO bookings (id, slot_id, customer_id, service_id, employee_id, booking_date,
			start_time, end_time, status, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::time, $8::time, $9, $10, $11)
	`

	_, err := r.ExecAffected(ctx, "create booking", query,
		booking.ID,
		booking.SlotID,
		booking.CustomerID,
		booking.ServiceID,
		booking.EmployeeID,
		booking.BookingDate.Time(),
		booking.StartTime.String(),
		booking.EndTime.String(),
		string(booking.Status),
		string(booking.PaymentStatus),
		booking.CreatedAt,
	)
	return err
}

// List возвращает бронирования по фильтру, упорядоченные по дате и времени начала
func (r *BookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, filter.Date.Time())
		conds = append(conds, fmt.Sprintf("booking_date = $%d", len(args)))
	}
	if filter.ServiceID != nil {
		args = append(args, *filter.ServiceID)
		conds = append(conds, fmt.Sprintf("service_id = $%d", len(args)))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		conds = append(conds, fmt.Sprintf("created_at > $%d", len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY booking_date, start_time, id`

	var bookings []*model.Booking
	err := r.QueryAll(ctx, "list bookings", query, args, func(rows pgx.Rows) error {
		booking, err := scanBooking(rows)
		if err != nil {
			return err
		}
		bookings = append(bookings, booking)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountCreatedSince считает бронирования, созданные после since
func (r *BookingRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.QueryOne(ctx, "count new bookings",
		`SELECT COUNT(*) FROM bookings WHERE created_at > $1`, []any{since}, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanBooking(rows pgx.Rows) (*model.Booking, error) {
	var (
		booking       model.Booking
		date          time.Time
		start, end    string
		status        string
		paymentStatus string
	)
	err := rows.Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.CustomerID,
		&booking.ServiceID,
		&booking.EmployeeID,
		&date,
		&start,
		&end,
		&status,
		&paymentStatus,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}

	booking.BookingDate = model.DateOf(date)
	booking.Status = model.BookingStatus(status)
	booking.PaymentStatus = model.PaymentStatus(paymentStatus)
	if booking.StartTime, err = model.ParseTimeOfDay(start); err != nil {
		return nil, fmt.Errorf("scan booking start: %w", err)
	}
	if booking.EndTime, err = model.ParseTimeOfDay(end); err != nil {
		return nil, fmt.Errorf("scan booking end: %w", err)
	}
	return &booking, nil
}
