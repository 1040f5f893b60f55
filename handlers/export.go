package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"atlastours/database/repository"
)

// ExportHandler streams admin data exports.
type ExportHandler struct {
	Store repository.Storage
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(store repository.Storage) *ExportHandler {
	return &ExportHandler{Store: store}
}

const bookingsSheet = "Bookings"

// ExportBookings writes every booking to an Excel workbook and streams it as
// a download.
func (h *ExportHandler) ExportBookings(c *gin.Context) {
	bookings, err := h.Store.GetBookings(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch bookings for export", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		zap.L().Error("Failed to create export sheet", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"ID", "Activity", "Customer", "Phone", "Email", "People",
		"Date", "Status", "Payment", "Paid (MAD)", "Total (MAD)", "Created",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, header)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		activityName := ""
		if b.Activity != nil {
			activityName = b.Activity.Name
		}
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), activityName)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("C%d", row), b.CustomerName)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("D%d", row), b.CustomerPhone)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("E%d", row), b.CustomerEmail)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("F%d", row), b.NumberOfPeople)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("G%d", row), b.PreferredDate.Format("2006-01-02"))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("H%d", row), b.Status)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("I%d", row), b.PaymentStatus)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("J%d", row), b.PaidAmount)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("K%d", row), b.TotalAmount)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("L%d", row), b.CreatedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 38)
	_ = f.SetColWidth(bookingsSheet, "B", "E", 24)
	_ = f.SetColWidth(bookingsSheet, "F", "L", 14)

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		zap.L().Error("Failed to stream export", zap.Error(err))
	}
}
