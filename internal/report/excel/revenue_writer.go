package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
)

// RevenueWriter writes revenue reports as Excel workbooks
type RevenueWriter struct {
	companyName string
	logger      *zap.Logger
}

// NewRevenueWriter creates a new revenue writer
func NewRevenueWriter(companyName string, logger *zap.Logger) *RevenueWriter {
	return &RevenueWriter{
		companyName: companyName,
		logger:      logger,
	}
}

// Export writes the report to outputPath as a single-sheet workbook: a
// header block, then one row per client.
func (w *RevenueWriter) Export(report *port.RevenueReport, outputPath string) error {
	w.logger.Info("Writing revenue workbook",
		zap.String("output_path", outputPath),
		zap.Int("clients", len(report.ByClient)))

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Revenue"
	f.SetSheetName(f.GetSheetName(0), sheet)

	w.setCell(f, sheet, "A1", w.companyName)
	w.setCell(f, sheet, "A2", "Revenue Report")
	w.setCell(f, sheet, "B3", report.Start.Format("2006-01-02"))
	w.setCell(f, sheet, "A3", "From")
	w.setCell(f, sheet, "A4", "To")
	w.setCell(f, sheet, "B4", report.End.Format("2006-01-02"))
	w.setCell(f, sheet, "A5", "Bills Paid")
	w.setCell(f, sheet, "B5", fmt.Sprintf("%d", report.BillCount))
	w.setCell(f, sheet, "A6", "Total")
	w.setCell(f, sheet, "B6", fmt.Sprintf("%.2f", report.Total))
	w.setCell(f, sheet, "A7", "Generated")
	w.setCell(f, sheet, "B7", time.Now().Format("2006-01-02 15:04"))

	w.setCell(f, sheet, "A9", "Client ID")
	w.setCell(f, sheet, "B9", "Client")
	w.setCell(f, sheet, "C9", "Bills")
	w.setCell(f, sheet, "D9", "Revenue")

	row := 10
	for _, c := range report.ByClient {
		w.setCell(f, sheet, fmt.Sprintf("A%d", row), c.ClientID)
		w.setCell(f, sheet, fmt.Sprintf("B%d", row), c.FirstName+" "+c.LastName)
		w.setCell(f, sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%d", c.BillCount))
		w.setCell(f, sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("%.2f", c.Total))
		row++
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	w.logger.Info("Revenue workbook written", zap.String("output_path", outputPath))
	return nil
}

// setCell sets a cell value in the Excel file
func (w *RevenueWriter) setCell(f *excelize.File, sheet, cell, value string) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}
