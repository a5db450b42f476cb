package model

import "time"

// OpenHours часы работы на день недели; nil время означает "закрыто"
type OpenHours struct {
	ID        int64        `json:"id"`
	Weekday   time.Weekday `json:"weekday"`
	OpenTime  *TimeOfDay   `json:"open_time"`
	CloseTime *TimeOfDay   `json:"close_time"`
}

func (h *OpenHours) Closed() bool {
	return h.OpenTime == nil || h.CloseTime == nil
}

func (h *OpenHours) Validate() error {
	if (h.OpenTime == nil) != (h.CloseTime == nil) {
		return NewValidationError("close_time", "both open and close time must be set, or neither")
	}
	if !h.Closed() && *h.OpenTime >= *h.CloseTime {
		return NewValidationError("close_time", "close time must be after open time")
	}
	return nil
}
