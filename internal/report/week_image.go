package report

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/formatting"
	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	legendWidth     = 130
	dayPaddingX     = 8
	minSlotHeight   = 8.0
	slotRadius      = 6.0
	shadowOffset    = 3.0
	daysInWeek      = 7
	hourPadding     = 1
	defaultMinHour  = 8
	defaultMaxHour  = 20
	maxLabelRunes   = 18
)

const (
	titleFontSize  = 25.0
	dayFontSize    = 24.0
	hourFontSize   = 18.0
	slotFontSize   = 16.0
	legendFontSize = 13.0
)

var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotFreeColor       = color.RGBA{133, 193, 85, 220}
	slotBookedColor     = color.RGBA{255, 182, 193, 255}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
	slotBookedTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor     = color.RGBA{0, 0, 0, 20}
)

// WeekData что рисовать на картинке недели
type WeekData struct {
	Schedule     *service.WeekSchedule
	ServiceNames map[string]string // service_id -> название
	Now          time.Time         // для подсветки сегодняшнего дня
}

type hourRange struct {
	start int
	end   int
}

func (h hourRange) total() int {
	return h.end - h.start + 1
}

type fontCache struct {
	mu     sync.Mutex
	parsed map[bool]*opentype.Font
}

var fonts = fontCache{parsed: make(map[bool]*opentype.Font)}

// face шрифт Go нужного размера; при ошибке basicfont
func (c *fontCache) face(size float64, bold bool) font.Face {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.parsed[bold]
	if !ok {
		data := goregular.TTF
		if bold {
			data = gobold.TTF
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			return basicfont.Face7x13
		}
		c.parsed[bold] = parsed
		f = parsed
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// WeekImage рисует расписание недели в PNG: свободные слоты зелёные, занятые розовые
func WeekImage(data WeekData) ([]byte, error) {
	if data.Schedule == nil {
		return nil, fmt.Errorf("week image: no schedule")
	}

	start := data.Schedule.Start
	today := model.DateOf(data.Now)
	byDay := groupByDay(data.Schedule.Slots)
	hours := hourRangeOf(data.Schedule.Slots)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total())

	drawTitle(dc, start)
	drawHourLabels(dc, hours, cellHeight)

	for i := range daysInWeek {
		day := model.DateOf(start.Time().AddDate(0, 0, i))
		x := float64(leftLabelsWidth + i*dayWidth)
		drawDay(dc, day, i, day == today, x, dayWidth, dayHeight, hours, cellHeight)
		for _, slot := range byDay[day] {
			drawSlot(dc, slot, data.ServiceNames[slot.ServiceID], x, dayWidth, hours, cellHeight)
		}
		if day == today {
			drawNowLine(dc, data.Now, x, dayWidth, hours, cellHeight)
		}
	}

	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ServiceNames словарь service_id -> название для подписей на слотах
func ServiceNames(services []*model.Service) map[string]string {
	names := make(map[string]string, len(services))
	for _, svc := range services {
		names[svc.ID] = svc.Name
	}
	return names
}

func groupByDay(slots []*model.Slot) map[model.Date][]*model.Slot {
	byDay := make(map[model.Date][]*model.Slot)
	for _, slot := range slots {
		byDay[slot.Date] = append(byDay[slot.Date], slot)
	}
	return byDay
}

// hourRangeOf часы, которые покрывают все слоты, с запасом по краям
func hourRangeOf(slots []*model.Slot) hourRange {
	if len(slots) == 0 {
		return hourRange{start: defaultMinHour, end: defaultMaxHour}
	}

	minHour, maxHour := 24, 0
	for _, slot := range slots {
		minHour = min(minHour, slot.StartTime.Hour())
		endHour := slot.EndTime.Hour()
		if slot.EndTime.Minute() > 0 {
			endHour++
		}
		maxHour = max(maxHour, endHour)
	}
	return hourRange{
		start: max(0, minHour-hourPadding),
		end:   min(23, maxHour+hourPadding),
	}
}

func drawTitle(dc *gg.Context, start model.Date) {
	end := model.DateOf(start.Time().AddDate(0, 0, daysInWeek-1))
	title := formatting.GetMonthName(start.Month) + " " + fmt.Sprint(start.Year)
	if end.Month != start.Month {
		title = formatting.GetMonthName(start.Month) + " - " + formatting.GetMonthName(end.Month) + " " + fmt.Sprint(end.Year)
	}

	dc.SetFontFace(fonts.face(titleFontSize, true))
	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, w/2+10, float64(headerHeight)/8+h/2, 0, 0)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetFontFace(fonts.face(hourFontSize, false))
	dc.SetColor(hourLabelColor)
	for i := range hours.total() {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+i), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDay(dc *gg.Context, day model.Date, index int, isToday bool, x float64, dayWidth, dayHeight int, hours hourRange, cellHeight float64) {
	y := float64(headerHeight)

	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case index%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	dc.SetFontFace(fonts.face(dayFontSize, true))
	dc.SetColor(textColor)
	center := x + float64(dayWidth)/2
	dc.DrawStringAnchored(formatting.FormatDateShort(day), center, y, 0.5, -1)
	dc.DrawStringAnchored(formatting.GetWeekdayShortName(day.Weekday()), center, y, 0.5, -0.2)

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for i := 0; i <= hours.total(); i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawSlot(dc *gg.Context, slot *model.Slot, serviceName string, x float64, dayWidth int, hours hourRange, cellHeight float64) {
	from := float64(slot.StartTime) / 60
	to := float64(slot.EndTime) / 60

	y := float64(headerHeight) + (from-float64(hours.start))*cellHeight
	height := max((to-from)*cellHeight, minSlotHeight)
	width := float64(dayWidth) - float64(dayPaddingX*2)
	left := x + float64(dayPaddingX)

	fill, text := slotFreeColor, slotTextColor
	if slot.IsBooked {
		fill, text = slotBookedColor, slotBookedTextColor
	}

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(left+shadowOffset, y+2+shadowOffset, width, height-4, slotRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(left, y+2, width, height-4, slotRadius)
	dc.Fill()

	dc.SetColor(darken(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(left, y+2, width, height-4, slotRadius)
	dc.Stroke()

	dc.SetFontFace(fonts.face(slotFontSize, false))
	dc.SetColor(text)
	dc.DrawStringAnchored(slot.StartTime.String(), left+8, y+18, 0, 0)

	if serviceName != "" && height > 25 {
		dc.SetFontFace(fonts.face(slotFontSize-2, false))
		dc.DrawStringAnchored(truncate(serviceName, maxLabelRunes), left+8, y+34, 0, 0)
	}
}

func drawNowLine(dc *gg.Context, now time.Time, x float64, dayWidth int, hours hourRange, cellHeight float64) {
	hour := float64(now.Hour()) + float64(now.Minute())/60
	if hour < float64(hours.start) || hour > float64(hours.end+1) {
		return
	}

	y := float64(headerHeight) + (hour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(x, y, x+float64(dayWidth), y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context, dayWidth int) {
	x := float64(leftLabelsWidth + daysInWeek*dayWidth + 10)
	y := float64(imageHeight) - 80

	items := []struct {
		label string
		clr   color.Color
	}{
		{"Свободно", slotFreeColor},
		{"Занято", slotBookedColor},
	}

	const boxW, boxH = 20.0, 14.0
	dc.SetFontFace(fonts.face(legendFontSize, false))
	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(item.label, x+boxW+8, y+boxH/2+1, 0, 0.2)
		y += boxH + 14
	}
}

func darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// truncate обрезает по рунам
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
