package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует календарную дату
func FormatDate(d model.Date) string {
	return d.Time().Format("02.01.2006")
}

// FormatDateShort день и месяц
func FormatDateShort(d model.Date) string {
	return d.Time().Format("02.01")
}

// FormatDateWithWeekday форматирует дату с кратким днём недели
func FormatDateWithWeekday(d model.Date) string {
	return fmt.Sprintf("%s (%s)", FormatDate(d), GetWeekdayShortName(d.Weekday()))
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end model.TimeOfDay) string {
	return fmt.Sprintf("%s-%s", start, end)
}

// FormatOpenHours форматирует часы работы, nil означает выходной
func FormatOpenHours(h *model.OpenHours) string {
	if h.Closed() {
		return "выходной"
	}
	return FormatTimeRange(*h.OpenTime, *h.CloseTime)
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday time.Weekday) string {
	names := []string{
		"Воскресенье",
		"Понедельник",
		"Вторник",
		"Среда",
		"Четверг",
		"Пятница",
		"Суббота",
	}
	if weekday >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "Неизвестно"
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday time.Weekday) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "?"
}

// GetMonthName возвращает название месяца на русском
func GetMonthName(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "Январь",
		time.February:  "Февраль",
		time.March:     "Март",
		time.April:     "Апрель",
		time.May:       "Май",
		time.June:      "Июнь",
		time.July:      "Июль",
		time.August:    "Август",
		time.September: "Сентябрь",
		time.October:   "Октябрь",
		time.November:  "Ноябрь",
		time.December:  "Декабрь",
	}
	return names[month]
}
