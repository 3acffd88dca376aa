package roster

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the named sheet (or the active one) of a workbook.
func ParseXLSX(r io.Reader, sheetName, emailColumn string) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, invalidf("failed to read Excel file, make sure it is a valid .xlsx")
	}
	defer f.Close()

	sheet := sheetName
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return Result{}, invalidf("sheet %q not found in the Excel file", sheetName)
	}
	if sheet == "" {
		return Result{}, invalidf("no worksheet found in the Excel file")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Result{}, invalidf("failed to read sheet %q", sheet)
	}

	res, err := ExtractRows(rows, emailColumn)
	if err != nil {
		return Result{}, err
	}
	res.SheetName = sheet
	return res, nil
}
