package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "300.00 kr", FormatPrice(30000))
	assert.Equal(t, "12.05 kr", FormatPrice(1205))
	assert.Equal(t, "300 kr", FormatPriceShort(30000))
	assert.Equal(t, "12.50 kr", FormatPriceShort(1250))
}

func TestFormatDate(t *testing.T) {
	d := model.NewDate(2024, time.June, 10)
	assert.Equal(t, "10.06.2024", FormatDate(d))
	assert.Equal(t, "10.06.2024 (Пн)", FormatDateWithWeekday(d))
	assert.Equal(t, "10.06", FormatDateShort(d))
	assert.Equal(t, "10:00-10:30", FormatTimeRange(model.NewTimeOfDay(10, 0), model.NewTimeOfDay(10, 30)))
}

func TestFormatOpenHours(t *testing.T) {
	open, closeAt := model.NewTimeOfDay(9, 0), model.NewTimeOfDay(17, 0)
	assert.Equal(t, "09:00-17:00", FormatOpenHours(&model.OpenHours{OpenTime: &open, CloseTime: &closeAt}))
	assert.Equal(t, "выходной", FormatOpenHours(&model.OpenHours{}))
}

func TestPluralizeBookings(t *testing.T) {
	assert.Equal(t, "запись", PluralizeBookings(1))
	assert.Equal(t, "записи", PluralizeBookings(3))
	assert.Equal(t, "записей", PluralizeBookings(5))
	assert.Equal(t, "записей", PluralizeBookings(11))
	assert.Equal(t, "запись", PluralizeBookings(21))
}

func TestStatusDisplays(t *testing.T) {
	assert.Equal(t, "💰 Оплачено", GetPaymentStatusDisplay(model.PaymentPaid).String())
	assert.Equal(t, "❓", GetPaymentStatusDisplay("Refunded").Emoji)
	assert.Equal(t, "🔴", GetSlotStatusDisplay(true).Emoji)
}
