package formatting

import "github.com/Freeeeeet/salon_admin/internal/model"

// StatusDisplay отображение статуса: emoji и текст
type StatusDisplay struct {
	Emoji string
	Text  string
}

func (d StatusDisplay) String() string {
	return d.Emoji + " " + d.Text
}

// GetPaymentStatusDisplay возвращает emoji и текст для статуса оплаты
func GetPaymentStatusDisplay(status model.PaymentStatus) StatusDisplay {
	displays := map[model.PaymentStatus]StatusDisplay{
		model.PaymentPaid:    {"💰", "Оплачено"},
		model.PaymentPending: {"⏳", "Ожидает оплаты"},
		model.PaymentUnpaid:  {"❌", "Не оплачено"},
	}

	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса бронирования
func GetBookingStatusDisplay(status model.BookingStatus) StatusDisplay {
	if status == model.BookingStatusConfirmed {
		return StatusDisplay{"✅", "Подтверждена"}
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// GetSlotStatusDisplay возвращает emoji и текст для занятости слота
func GetSlotStatusDisplay(booked bool) StatusDisplay {
	if booked {
		return StatusDisplay{"🔴", "Занят"}
	}
	return StatusDisplay{"🟢", "Свободен"}
}
