package roster

import (
	"encoding/csv"
	"errors"
	"io"
)

// ParseCSV reads a comma separated roster with a header row. Ragged rows
// are allowed.
func ParseCSV(r io.Reader, emailColumn string) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, invalidf("failed to read CSV file: %v", err)
		}
		rows = append(rows, rec)
	}
	return ExtractRows(rows, emailColumn)
}
