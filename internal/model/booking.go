package model

import "time"

type BookingStatus string

const BookingStatusConfirmed BookingStatus = "Confirmed"

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
	PaymentUnpaid  PaymentStatus = "Unpaid"
)

// PaymentStatuses порядок корзин в отчётах
var PaymentStatuses = []PaymentStatus{PaymentPaid, PaymentPending, PaymentUnpaid}

func (s PaymentStatus) Valid() bool {
	for _, known := range PaymentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Booking struct {
	ID            string        `json:"id"`
	SlotID        *string       `json:"slot_id"`
	CustomerID    string        `json:"customer_id"`
	ServiceID     string        `json:"service_id"`
	EmployeeID    *string       `json:"employee_id"`
	BookingDate   Date          `json:"booking_date"`
	StartTime     TimeOfDay     `json:"start_time"`
	EndTime       TimeOfDay     `json:"end_time"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

type BookingFilter struct {
	Status    *BookingStatus
	Date      *Date
	ServiceID *string
	// CreatedAfter created_at строго позже
	CreatedAfter *time.Time
}
