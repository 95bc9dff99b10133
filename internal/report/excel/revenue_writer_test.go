package excel

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
)

func TestRevenueWriter_Export(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	writer := NewRevenueWriter("Smith Sealing", logger)

	report := &port.RevenueReport{
		Start:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Total:     1520.50,
		BillCount: 3,
		ByClient: []port.ClientRevenue{
			{ClientID: "AB12c", FirstName: "Dana", LastName: "Smith", BillCount: 2, Total: 1040.50},
			{ClientID: "Xy9Qa", FirstName: "Lee", LastName: "Ortiz", BillCount: 1, Total: 480},
		},
	}

	outputPath := filepath.Join(t.TempDir(), "revenue.xlsx")
	require.NoError(t, writer.Export(report, outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		value, err := f.GetCellValue("Revenue", cell)
		require.NoError(t, err)
		return value
	}

	assert.Equal(t, "Smith Sealing", get("A1"))
	assert.Equal(t, "2026-08-01", get("B3"))
	assert.Equal(t, "2026-08-31", get("B4"))
	assert.Equal(t, "3", get("B5"))
	assert.Equal(t, "1520.50", get("B6"))

	assert.Equal(t, "AB12c", get("A10"))
	assert.Equal(t, "Dana Smith", get("B10"))
	assert.Equal(t, "2", get("C10"))
	assert.Equal(t, "1040.50", get("D10"))
	assert.Equal(t, "Lee Ortiz", get("B11"))
}

func TestRevenueWriter_ExportEmptyReport(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	writer := NewRevenueWriter("Smith Sealing", logger)

	report := &port.RevenueReport{
		Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}

	outputPath := filepath.Join(t.TempDir(), "revenue_empty.xlsx")
	require.NoError(t, writer.Export(report, outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("Revenue", "A10")
	require.NoError(t, err)
	assert.Empty(t, value)
}
