// Package report выгружает бронирования и сводку по оплатам в xlsx.
package report

import (
	"fmt"
	"io"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/xuri/excelize/v2"
)

const (
	BookingsSheet = "Bokningar"
	SummarySheet  = "Sammanfattning"
)

var bookingHeader = []any{
	"Datum", "Start", "Slut", "Tjänst", "Kund", "Utförare", "Status", "Betalning", "Pris (kr)", "Skapad",
}

// Data содержимое отчёта
type Data struct {
	Title    string
	Bookings []service.EnrichedBooking
	Summary  service.PaymentSummary
}

// Write строит книгу и пишет её в w
func Write(w io.Writer, data Data) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", BookingsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}

	if err := writeBookings(f, data.Bookings, header, money); err != nil {
		return err
	}
	if err := writeSummary(f, data, header, money); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeBookings(f *excelize.File, bookings []service.EnrichedBooking, header, money int) error {
	if err := f.SetSheetRow(BookingsSheet, "A1", &bookingHeader); err != nil {
		return fmt.Errorf("write booking header: %w", err)
	}
	if err := f.SetCellStyle(BookingsSheet, "A1", "J1", header); err != nil {
		return fmt.Errorf("style booking header: %w", err)
	}

	for i, b := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			b.BookingDate.String(),
			b.StartTime.String(),
			b.EndTime.String(),
			b.ServiceName,
			b.CustomerName,
			b.EmployeeName,
			string(b.Status),
			string(b.PaymentStatus),
			kronor(b.ServicePrice),
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(BookingsSheet, cell, &row); err != nil {
			return fmt.Errorf("write booking row %d: %w", i+2, err)
		}
	}

	if len(bookings) > 0 {
		last := fmt.Sprintf("I%d", len(bookings)+1)
		if err := f.SetCellStyle(BookingsSheet, "I2", last, money); err != nil {
			return fmt.Errorf("style prices: %w", err)
		}
	}
	return f.SetColWidth(BookingsSheet, "A", "J", 16)
}

func writeSummary(f *excelize.File, data Data, header, money int) error {
	if data.Title != "" {
		if err := f.SetCellValue(SummarySheet, "A1", data.Title); err != nil {
			return fmt.Errorf("write title: %w", err)
		}
	}
	if err := f.SetSheetRow(SummarySheet, "A2", &[]any{"Betalning", "Antal", "Intäkt (kr)"}); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "C2", header); err != nil {
		return fmt.Errorf("style summary header: %w", err)
	}

	row := 3
	for _, status := range model.PaymentStatuses {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{string(status), data.Summary.Counts[status], kronor(data.Summary.Revenue[status])}
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
		row++
	}

	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(SummarySheet, cell, &[]any{"Hoppade över", data.Summary.Skipped}); err != nil {
		return fmt.Errorf("write skipped row: %w", err)
	}
	if err := f.SetCellStyle(SummarySheet, "C3", fmt.Sprintf("C%d", row-1), money); err != nil {
		return fmt.Errorf("style revenue: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "C", 18)
}

func kronor(ore int64) float64 {
	return float64(ore) / 100
}
