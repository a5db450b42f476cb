package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/formatting"
	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/notify"
	"github.com/Freeeeeet/salon_admin/internal/repository"
	"go.uber.org/zap"
)

// notifyTimeout ограничение на отправку уведомления после бронирования
const notifyTimeout = 10 * time.Second

// AvailableSlots результат поиска свободных слотов; пустой результат не ошибка
type AvailableSlots struct {
	Slots []*model.Slot `json:"slots"`
}

// Empty сигнал "нет свободных слотов" для отображения вместо ошибки
func (a AvailableSlots) Empty() bool {
	return len(a.Slots) == 0
}

// BookingIntent данные формы бронирования.
// Пустые поля даты и времени берутся из слота.
type BookingIntent struct {
	CustomerID    string              `json:"customer_id"`
	ServiceID     string              `json:"service_id"`
	EmployeeID    *string             `json:"employee_id"`
	Date          model.Date          `json:"date"`
	StartTime     *model.TimeOfDay    `json:"start_time"`
	EndTime       *model.TimeOfDay    `json:"end_time"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
}

type AvailabilityService struct {
	slots     SlotStore
	bookings  BookingStore
	services  ServiceStore
	customers CustomerStore
	notifier  notify.Notifier
	adminChat string
	logger    *zap.Logger
	now       func() time.Time
}

func NewAvailabilityService(stores Stores, notifier notify.Notifier, adminChat string, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		slots:     stores.Slots,
		bookings:  stores.Bookings,
		services:  stores.Services,
		customers: stores.Customers,
		notifier:  notifier,
		adminChat: adminChat,
		logger:    logger,
		now:       time.Now,
	}
}

// GetAvailableSlots возвращает свободные слоты услуги на дату
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, serviceID string, date model.Date) (AvailableSlots, error) {
	if serviceID == "" || date.IsZero() {
		return AvailableSlots{}, nil
	}

	free := false
	slots, err := s.slots.List(ctx, model.SlotFilter{
		ServiceID: &serviceID,
		Date:      &date,
		IsBooked:  &free,
	})
	if err != nil {
		return AvailableSlots{}, fmt.Errorf("list available slots: %w", err)
	}
	return AvailableSlots{Slots: slots}, nil
}

// BookSlot резервирует слот и записывает бронирование
func (s *AvailabilityService) BookSlot(ctx context.Context, slotID string, intent BookingIntent) (*model.Booking, error) {
	// Проверки до любого обращения к хранилищу
	if intent.CustomerID == "" {
		return nil, model.NewValidationError("customer_id", "customer is required")
	}
	if slotID == "" {
		return nil, model.NewValidationError("slot_id", "slot is required")
	}
	if intent.PaymentStatus == "" {
		intent.PaymentStatus = model.PaymentUnpaid
	}
	if !intent.PaymentStatus.Valid() {
		return nil, model.NewValidationError("payment_status", "unknown payment status")
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSlotUpdateFailed, err)
	}
	if err := matchSlot(slot, &intent); err != nil {
		return nil, err
	}

	// Резервируем слот условным обновлением
	if err := s.slots.MarkBooked(ctx, slotID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrSlotAlreadyTaken, slotID)
		}
		return nil, fmt.Errorf("%w: %w", ErrSlotUpdateFailed, err)
	}

	booking := &model.Booking{
		SlotID:        &slot.ID,
		CustomerID:    intent.CustomerID,
		ServiceID:     slot.ServiceID,
		EmployeeID:    intent.EmployeeID,
		BookingDate:   slot.Date,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		Status:        model.BookingStatusConfirmed,
		PaymentStatus: intent.PaymentStatus,
		CreatedAt:     s.now(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		s.releaseSlot(ctx, slotID, err)
		return nil, fmt.Errorf("%w: %w", ErrBookingInsertFailed, err)
	}

	s.logger.Info("Slot booked",
		zap.String("booking_id", booking.ID),
		zap.String("slot_id", slotID),
		zap.String("customer_id", booking.CustomerID),
		zap.String("service_id", booking.ServiceID),
		zap.String("payment_status", string(booking.PaymentStatus)),
	)

	if s.notifier != nil {
		go s.notifyBooked(context.WithoutCancel(ctx), booking)
	}

	return booking, nil
}

// matchSlot сверяет форму со слотом и дополняет пропущенные поля
func matchSlot(slot *model.Slot, intent *BookingIntent) error {
	if intent.ServiceID == "" {
		intent.ServiceID = slot.ServiceID
	}
	if intent.ServiceID != slot.ServiceID {
		return model.NewValidationError("service_id", "service does not match the slot")
	}
	if !intent.Date.IsZero() && intent.Date != slot.Date {
		return model.NewValidationError("date", "date does not match the slot")
	}
	if intent.StartTime != nil && *intent.StartTime != slot.StartTime {
		return model.NewValidationError("start_time", "start time does not match the slot")
	}
	if intent.EndTime != nil && *intent.EndTime != slot.EndTime {
		return model.NewValidationError("end_time", "end time does not match the slot")
	}
	return nil
}

// releaseSlot снимает резерв после неудачной записи бронирования
func (s *AvailabilityService) releaseSlot(ctx context.Context, slotID string, cause error) {
	if err := s.slots.UpdateBooked(context.WithoutCancel(ctx), slotID, false); err != nil {
		s.logger.Error("Orphaned slot reservation",
			zap.String("slot_id", slotID),
			zap.NamedError("insert_error", cause),
			zap.Error(err),
		)
		return
	}
	s.logger.Warn("Slot reservation released after failed booking insert",
		zap.String("slot_id", slotID),
		zap.Error(cause),
	)
}

func (s *AvailabilityService) notifyBooked(ctx context.Context, booking *model.Booking) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	serviceName := booking.ServiceID
	if svc, err := s.services.GetByID(ctx, booking.ServiceID); err == nil {
		serviceName = svc.Name
	}

	msg := notify.Message{
		ToAdmin: s.adminChat,
		MessageAdmin: fmt.Sprintf("✅ Новая запись: %s, %s %s–%s",
			serviceName,
			formatting.FormatDate(booking.BookingDate),
			booking.StartTime, booking.EndTime),
	}
	if customer, err := s.customers.GetByID(ctx, booking.CustomerID); err == nil {
		msg.ToCustomer = customer.Phone
		msg.MessageCustomer = fmt.Sprintf("Hej %s! Din bokning av %s %s kl. %s är bekräftad.",
			customer.Name, serviceName, booking.BookingDate, booking.StartTime)
		msg.MessageAdmin += "\n👤 " + customer.Name
	}

	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("Failed to send booking notification",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

// CreateSlot создаёт слот для существующей услуги
func (s *AvailabilityService) CreateSlot(ctx context.Context, slot *model.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if _, err := s.services.GetByID(ctx, slot.ServiceID); err != nil {
		if IsNotFound(err) {
			return model.NewValidationError("service_id", "service does not exist")
		}
		return fmt.Errorf("get service: %w", err)
	}

	slot.IsBooked = false
	if err := s.slots.Create(ctx, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.String("slot_id", slot.ID),
		zap.String("service_id", slot.ServiceID),
		zap.String("date", slot.Date.String()),
		zap.String("start", slot.StartTime.String()),
	)
	return nil
}

// ListSlots возвращает слоты по фильтру
func (s *AvailabilityService) ListSlots(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error) {
	slots, err := s.slots.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// DeleteSlot удаляет слот
func (s *AvailabilityService) DeleteSlot(ctx context.Context, slotID string) error {
	if err := s.slots.Delete(ctx, slotID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	s.logger.Info("Slot deleted", zap.String("slot_id", slotID))
	return nil
}

// BusyDay занятые слоты одного дня
type BusyDay struct {
	Date  model.Date    `json:"date"`
	Slots []*model.Slot `json:"slots"`
}

// ListBusySlotsForMonth занятые слоты календарного месяца, сгруппированные по датам
func (s *AvailabilityService) ListBusySlotsForMonth(ctx context.Context, year int, month time.Month) ([]BusyDay, error) {
	if month < time.January || month > time.December {
		return nil, model.NewValidationError("month", "month must be between 1 and 12")
	}

	from := model.NewDate(year, month, 1)
	to := model.DateOf(from.Time().AddDate(0, 1, 0))

	slots, err := s.slots.ListBetween(ctx, from, to, true)
	if err != nil {
		return nil, fmt.Errorf("list busy slots: %w", err)
	}

	// Слоты уже упорядочены по дате
	var days []BusyDay
	for _, slot := range slots {
		if n := len(days); n > 0 && days[n-1].Date == slot.Date {
			days[n-1].Slots = append(days[n-1].Slots, slot)
			continue
		}
		days = append(days, BusyDay{Date: slot.Date, Slots: []*model.Slot{slot}})
	}
	return days, nil
}

// WeekSchedule слоты недели с понедельника Start, свободные и занятые
type WeekSchedule struct {
	Start model.Date
	Slots []*model.Slot
}

// WeekStart понедельник недели, в которую попадает day
func WeekStart(day model.Date) model.Date {
	offset := (int(day.Weekday()) + 6) % 7
	return model.DateOf(day.Time().AddDate(0, 0, -offset))
}

// GetWeekSchedule все слоты недели, содержащей day, упорядоченные по дате и времени
func (s *AvailabilityService) GetWeekSchedule(ctx context.Context, day model.Date) (*WeekSchedule, error) {
	if day.IsZero() {
		return nil, model.NewValidationError("date", "date is required")
	}
	start := WeekStart(day)
	end := model.DateOf(start.Time().AddDate(0, 0, 7))

	var slots []*model.Slot
	for _, booked := range []bool{false, true} {
		part, err := s.slots.ListBetween(ctx, start, end, booked)
		if err != nil {
			return nil, fmt.Errorf("list week slots: %w", err)
		}
		slots = append(slots, part...)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return &WeekSchedule{Start: start, Slots: slots}, nil
}
