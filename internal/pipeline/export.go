package pipeline

import (
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fundlist/internal"
)

var exportHeaders = []string{
	"基金代码", "基金名称", "基金类型", "基金全称", "基金公司", "成立日期",
	"最新净值日期", "最新单位净值", "导出时间",
}

// ExportFundsToXLSX writes the enriched table to a single-sheet
// workbook. exportedAt is stamped identically on every row.
func ExportFundsToXLSX(funds []internal.FundRecord, exportedAt, sheetName, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if sheetName != "" && sheetName != sheet {
		if err := f.SetSheetName(sheet, sheetName); err != nil {
			return err
		}
		sheet = sheetName
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, fund := range funds {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, fund.Code)
		set(2, fund.Name)
		set(3, derefString(fund.Type))
		set(4, derefString(fund.FullName))
		set(5, derefString(fund.Company))
		set(6, derefString(fund.InceptionDate))
		set(7, derefString(fund.NavDate))
		set(8, derefDecimal(fund.Nav))
		set(9, exportedAt)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefDecimal(v *decimal.Decimal) any {
	if v == nil {
		return ""
	}
	f, _ := v.Float64()
	return f
}
