package service

import (
	"github.com/Freeeeeet/salon_admin/internal/model"
)

type Granularity string

const (
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

func (g Granularity) Valid() bool {
	return g == GranularityWeek || g == GranularityMonth || g == GranularityYear
}

// PeriodKey номер периода: неделя (1..53), месяц (0..11) или год
type PeriodKey int

// PeriodOf вычисляет ключ периода для даты.
// Неделя считается от 1 января без правил ISO-8601: 1-7 января неделя 1.
func PeriodOf(date model.Date, g Granularity) PeriodKey {
	switch g {
	case GranularityWeek:
		return PeriodKey((date.Time().YearDay() + 6) / 7)
	case GranularityMonth:
		return PeriodKey(date.Month - 1)
	default:
		return PeriodKey(date.Year)
	}
}

// FilterBookingsForService бронирования услуги, попадающие в период key
func FilterBookingsForService(bookings []*model.Booking, serviceID string, g Granularity, key PeriodKey) []*model.Booking {
	var out []*model.Booking
	for _, b := range bookings {
		if b.ServiceID == serviceID && PeriodOf(b.BookingDate, g) == key {
			out = append(out, b)
		}
	}
	return out
}

// PaymentSummary количество и выручка по статусам оплаты.
// Все три статуса присутствуют всегда.
type PaymentSummary struct {
	Counts  map[model.PaymentStatus]int   `json:"counts"`
	Revenue map[model.PaymentStatus]int64 `json:"revenue"`
	Skipped int                           `json:"skipped"`
}

func newPaymentSummary() PaymentSummary {
	s := PaymentSummary{
		Counts:  make(map[model.PaymentStatus]int, len(model.PaymentStatuses)),
		Revenue: make(map[model.PaymentStatus]int64, len(model.PaymentStatuses)),
	}
	for _, status := range model.PaymentStatuses {
		s.Counts[status] = 0
		s.Revenue[status] = 0
	}
	return s
}

// Total общее количество учтённых бронирований
func (s PaymentSummary) Total() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

// AggregateByPaymentStatus суммирует бронирования по статусу оплаты по текущей цене услуги.
// Бронирования удалённых услуг и с неизвестным статусом пропускаются.
func AggregateByPaymentStatus(bookings []*model.Booking, services []*model.Service) PaymentSummary {
	prices := make(map[string]int64, len(services))
	for _, svc := range services {
		prices[svc.ID] = svc.Price
	}

	summary := newPaymentSummary()
	for _, b := range bookings {
		price, ok := prices[b.ServiceID]
		if !ok || !b.PaymentStatus.Valid() {
			summary.Skipped++
			continue
		}
		summary.Counts[b.PaymentStatus]++
		summary.Revenue[b.PaymentStatus] += price
	}
	return summary
}

const (
	unknownService  = "Ingen tjänst"
	unknownCustomer = "Ingen kund"
	unassigned      = "Ej tilldelad"
)

// EnrichedBooking бронирование с именами услуги, клиента и сотрудника
type EnrichedBooking struct {
	*model.Booking
	ServiceName  string `json:"service_name"`
	ServicePrice int64  `json:"service_price"`
	CustomerName string `json:"customer_name"`
	EmployeeName string `json:"employee_name"`
}

// Enrich строит представление бронирований с разрешёнными связями
func Enrich(
	bookings []*model.Booking,
	services []*model.Service,
	customers []*model.Customer,
	employees []*model.Employee,
) []EnrichedBooking {
	serviceByID := make(map[string]*model.Service, len(services))
	for _, svc := range services {
		serviceByID[svc.ID] = svc
	}
	customerByID := make(map[string]*model.Customer, len(customers))
	for _, c := range customers {
		customerByID[c.ID] = c
	}
	employeeByID := make(map[string]*model.Employee, len(employees))
	for _, e := range employees {
		employeeByID[e.ID] = e
	}

	out := make([]EnrichedBooking, 0, len(bookings))
	for _, b := range bookings {
		eb := EnrichedBooking{
			Booking:      b,
			ServiceName:  unknownService,
			CustomerName: unknownCustomer,
			EmployeeName: unassigned,
		}
		if svc, ok := serviceByID[b.ServiceID]; ok {
			eb.ServiceName = svc.Name
			eb.ServicePrice = svc.Price
		}
		if c, ok := customerByID[b.CustomerID]; ok {
			eb.CustomerName = c.Name
		}
		if b.EmployeeID != nil {
			if e, ok := employeeByID[*b.EmployeeID]; ok {
				eb.EmployeeName = employeeName(e)
			}
		}
		out = append(out, eb)
	}
	return out
}

func employeeName(e *model.Employee) string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Email
}
