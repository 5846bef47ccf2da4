package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteSummaryExcel renders the summary report as an XLSX workbook.
func WriteSummaryExcel(w io.Writer, summary *SummaryResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Period")
	f.SetCellValue(sheet, "B1", string(summary.Period))
	f.SetCellValue(sheet, "A2", "From")
	f.SetCellValue(sheet, "B2", summary.FromDate.Format("2006-01-02"))
	f.SetCellValue(sheet, "A3", "To")
	f.SetCellValue(sheet, "B3", summary.ToDate.Format("2006-01-02"))

	f.SetCellValue(sheet, "A5", "TotalInvested")
	f.SetCellValue(sheet, "B5", summary.TotalInvested.InexactFloat64())
	f.SetCellValue(sheet, "A6", "TotalSold")
	f.SetCellValue(sheet, "B6", summary.TotalSold.InexactFloat64())
	f.SetCellValue(sheet, "A7", "NetProfit")
	f.SetCellValue(sheet, "B7", summary.NetProfit.InexactFloat64())
	f.SetCellValue(sheet, "A8", "ProfitMargin")
	f.SetCellValue(sheet, "B8", summary.ProfitMargin.InexactFloat64())
	f.SetCellValue(sheet, "A9", "SalesCount")
	f.SetCellValue(sheet, "B9", summary.SalesCount)
	f.SetCellValue(sheet, "A10", "PurchasesCount")
	f.SetCellValue(sheet, "B10", summary.PurchasesCount)

	// Top products table
	f.SetCellValue(sheet, "A12", "ProductName")
	f.SetCellValue(sheet, "B12", "QtySold")
	f.SetCellValue(sheet, "C12", "Revenue")
	f.SetCellValue(sheet, "D12", "Profit")
	for i, row := range summary.TopProducts {
		r := 13 + i
		f.SetCellValue(sheet, "A"+fmt.Sprint(r), row.ProductName)
		f.SetCellValue(sheet, "B"+fmt.Sprint(r), row.QtySold.InexactFloat64())
		f.SetCellValue(sheet, "C"+fmt.Sprint(r), row.Revenue.InexactFloat64())
		f.SetCellValue(sheet, "D"+fmt.Sprint(r), row.Profit.InexactFloat64())
	}

	return f.Write(w)
}
