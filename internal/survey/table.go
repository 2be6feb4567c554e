package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "clinocontour/internal/errors"
)

const utf8BOM = "\ufeff"

// Table is the raw survey grid: row 0 is the header, every row has the same
// number of cells.
type Table struct {
	Rows [][]string
}

// Header returns row 0.
func (t *Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Data returns the rows after the header.
func (t *Table) Data() [][]string {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// Width returns the header cell count.
func (t *Table) Width() int {
	return len(t.Header())
}

// IsWorkbook reports whether name has an Excel workbook extension.
func IsWorkbook(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// LoadTable reads the survey at path. Files ending in .xlsx are read as
// workbooks, anything else as comma-delimited text.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewFileAccessError(path, err)
	}
	defer f.Close()

	table, err := Read(f, path)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext(apperrors.KeyPath, path)
		}
		return nil, err
	}
	return table, nil
}

// Read reads a table from r, choosing the format from name's extension.
func Read(r io.Reader, name string) (*Table, error) {
	if IsWorkbook(name) {
		return ReadWorkbook(r)
	}
	return ReadCSV(r)
}

// ReadCSV reads comma-delimited text. A row whose cell count differs from the
// header's, or a blank line before the last row, is a MalformedTableError.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	next := 1 // file line the next record must start on
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, apperrors.NewAppError(apperrors.ErrTypeMalformedTable,
					fmt.Sprintf("line %d is not valid comma-delimited text", parseErr.Line), err).
					WithContext(apperrors.KeyRow, len(rows))
			}
			return nil, apperrors.NewAppError(apperrors.ErrTypeFileAccess, "cannot read survey", err)
		}
		// encoding/csv skips empty lines; a gap in line numbers is one.
		if line, _ := reader.FieldPos(0); line > next {
			return nil, apperrors.NewBlankRowError(next - 1)
		}
		last := len(record) - 1
		endLine, _ := reader.FieldPos(last)
		next = endLine + strings.Count(record[last], "\n") + 1

		if len(rows) == 0 {
			record[0] = strings.TrimPrefix(record[0], utf8BOM)
		}
		rows = append(rows, record)
	}

	return newTable(rows)
}

// ReadWorkbook reads the first sheet of an Excel workbook. Header cells that
// hold Excel date serials are converted to dd/mm/yyyy text; trailing empty
// cells, which excelize omits, are restored so short rows keep their shape.
func ReadWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeMalformedTable, "cannot open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewTableShapeError("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeMalformedTable,
			fmt.Sprintf("cannot read sheet %q", sheets[0]), err)
	}

	// Trailing blank rows are dropped; interior ones would shift positions.
	for len(rows) > 0 && blankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	for i, row := range rows {
		if blankRow(row) {
			return nil, apperrors.NewBlankRowError(i)
		}
	}

	if len(rows) > 0 {
		header := rows[0]
		for i := 1; i < len(header); i++ {
			header[i] = serialToDate(header[i])
		}
		width := len(header)
		for i := 1; i < len(rows); i++ {
			for len(rows[i]) < width {
				rows[i] = append(rows[i], "")
			}
		}
	}

	return newTable(rows)
}

func newTable(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewTableShapeError("survey has no header row")
	}

	width := len(rows[0])
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) != width {
			return nil, apperrors.NewMalformedTableError(i, width, len(rows[i]))
		}
	}
	return &Table{Rows: rows}, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// serialToDate converts an Excel date serial to dd/mm/yyyy. Anything that is
// not a plain number is returned unchanged.
func serialToDate(cell string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || serial <= 0 {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return t.Format(DateFormat)
}
