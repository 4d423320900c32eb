package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
)

const bookingsSheet = "Prenotazioni"

var bookingHeaders = []string{
	"ID",
	"Orario",
	"Nome",
	"Cognome",
	"Email",
	"Telefono",
	"Stato",
	"Motivo annullamento",
	"Messaggio",
	"Questionario",
	"Creata il",
}

// Цвет строки по статусу бронирования
var statusFill = map[domain.BookingStatus]string{
	domain.StatusConfirmed: "#C6EFCE",
	domain.StatusCompleted: "#DDEBF7",
	domain.StatusNoShow:    "#FFEB9C",
	domain.StatusCancelled: "#FFC7CE",
}

// XLSXExporter строит выгрузку бронирований события в формате xlsx
type XLSXExporter struct {
	loc *time.Location
}

// NewXLSXExporter создает экспортер; время создания бронирований выводится в loc
func NewXLSXExporter(loc *time.Location) *XLSXExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &XLSXExporter{loc: loc}
}

// EventBookings возвращает книгу с бронированиями события.
// Первая строка содержит заголовок события, вторая названия колонок.
func (e *XLSXExporter) EventBookings(event *domain.OpenHouseEvent, rows []*domain.BookingDetails) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: create sheet: %v", ErrBuildWorkbook, err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	lastCol, _ := excelize.ColumnNumberToName(len(bookingHeaders))

	// Заголовок события
	title := fmt.Sprintf("Open House %s, %s - %s",
		event.EventDate.Format(domain.DateFormat), event.StartTime, event.EndTime)
	if len(rows) > 0 && rows[0].Property.Title != "" {
		title = fmt.Sprintf("%s (%s)", title, rows[0].Property.Title)
	}
	_ = f.SetCellValue(bookingsSheet, "A1", title)
	_ = f.MergeCell(bookingsSheet, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(bookingsSheet, "A1", "A1", titleStyle)

	// Колонки
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(bookingsSheet, cell, header)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	_ = f.SetColWidth(bookingsSheet, "A", "B", 14)
	_ = f.SetColWidth(bookingsSheet, "C", lastCol, 22)

	styles := make(map[domain.BookingStatus]int, len(statusFill))
	for status, color := range statusFill {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: create style: %v", ErrBuildWorkbook, err)
		}
		styles[status] = style
	}

	for i, d := range rows {
		row := i + 3
		values := []interface{}{
			d.Booking.ID,
			fmt.Sprintf("%s - %s", d.Slot.StartTime, d.Slot.EndTime),
			d.Client.FirstName,
			d.Client.LastName,
			d.Client.Email,
			d.Client.Phone,
			d.Booking.DisplayStatus(),
			cancellationReason(&d.Booking),
			stringValue(d.Booking.Message),
			yesNo(d.Booking.QuestionnaireCompleted),
			d.Booking.CreatedAt.In(e.loc).Format("2006-01-02 15:04"),
		}

		first, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(bookingsSheet, first, &values); err != nil {
			return nil, fmt.Errorf("%w: write row %d: %v", ErrBuildWorkbook, row, err)
		}

		if style, ok := styles[d.Booking.Status]; ok {
			last, _ := excelize.CoordinatesToCellName(len(bookingHeaders), row)
			_ = f.SetCellStyle(bookingsSheet, first, last, style)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("%w: write workbook: %v", ErrBuildWorkbook, err)
	}

	return buf.Bytes(), nil
}

func cancellationReason(b *domain.Booking) string {
	if b.Cancellation == nil {
		return ""
	}
	return b.Cancellation.Reason
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(v bool) string {
	if v {
		return "Sì"
	}
	return "No"
}
