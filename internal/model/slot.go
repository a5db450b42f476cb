package model

// Slot свободное окно для записи на услугу (таблица available_slots)
type Slot struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	Date      Date      `json:"date"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
	IsBooked  bool      `json:"is_booked"`
}

func (s *Slot) Validate() error {
	if s.ServiceID == "" {
		return NewValidationError("service_id", "service is required")
	}
	if s.Date.IsZero() {
		return NewValidationError("date", "date is required")
	}
	if s.StartTime >= s.EndTime {
		return NewValidationError("end_time", "end time must be after start time")
	}
	return nil
}

// SlotFilter фильтры на равенство, nil означает "без ограничения"
type SlotFilter struct {
	ServiceID *string
	Date      *Date
	IsBooked  *bool
}
