package survey

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "clinocontour/internal/errors"
)

const (
	// DateLayout parses header dates; day and month may be one or two digits.
	DateLayout = "2/1/2006"

	// DateFormat is how dates are printed.
	DateFormat = "02/01/2006"
)

// DateAxis is the ascending sequence of survey dates.
type DateAxis []time.Time

// DepthAxis holds one depth per data row, in file order.
type DepthAxis []float64

// DateColumn pairs a survey date with the file column it was read from.
type DateColumn struct {
	Date   time.Time
	Column int
}

// ParseDate parses the first whitespace-delimited token of cell as dd/mm/yyyy.
func ParseDate(cell string) (time.Time, error) {
	token := strings.TrimSpace(cell)
	if fields := strings.Fields(token); len(fields) > 0 {
		token = fields[0]
	}
	return time.Parse(DateLayout, token)
}

// BuildDateAxis parses the header row, skipping its label cell, and returns
// the dates sorted ascending with their source columns. Equal dates keep
// their file order.
func BuildDateAxis(header []string) ([]DateColumn, error) {
	if len(header) < 2 {
		return nil, nil
	}

	columns := make([]DateColumn, 0, len(header)-1)
	for j := 1; j < len(header); j++ {
		date, err := ParseDate(header[j])
		if err != nil {
			return nil, apperrors.NewDateParseError(j, header[j], err)
		}
		columns = append(columns, DateColumn{Date: date, Column: j})
	}

	sort.SliceStable(columns, func(a, b int) bool {
		return columns[a].Date.Before(columns[b].Date)
	})
	return columns, nil
}

// Dates projects the sorted pairs onto a DateAxis.
func Dates(columns []DateColumn) DateAxis {
	axis := make(DateAxis, len(columns))
	for i, c := range columns {
		axis[i] = c.Date
	}
	return axis
}

// CheckAscending returns a MalformedTableError naming the first header column
// whose date is earlier than the column before it.
func CheckAscending(columns []DateColumn) error {
	byColumn := append([]DateColumn(nil), columns...)
	sort.Slice(byColumn, func(a, b int) bool {
		return byColumn[a].Column < byColumn[b].Column
	})
	for i := 1; i < len(byColumn); i++ {
		if byColumn[i].Date.Before(byColumn[i-1].Date) {
			return apperrors.NewTableShapeError(
				fmt.Sprintf("header date in column %d is earlier than column %d", byColumn[i].Column, byColumn[i-1].Column)).
				WithContext(apperrors.KeyRow, 0).
				WithContext(apperrors.KeyColumn, byColumn[i].Column)
		}
	}
	return nil
}

var errNonFiniteDepth = errors.New("depth must be a finite number")

// BuildDepthAxis parses cell 0 of every data row. rows excludes the header,
// so rows[i] is file row i+1. Unlike readings, depths must be finite.
func BuildDepthAxis(rows [][]string) (DepthAxis, error) {
	depths := make(DepthAxis, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			return nil, apperrors.NewMalformedTableError(i+1, 1, 0)
		}
		v, err := parseNumber(row[0])
		if err != nil {
			return nil, apperrors.NewNumericParseError(i+1, 0, row[0], err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperrors.NewNumericParseError(i+1, 0, row[0], errNonFiniteDepth)
		}
		depths[i] = v
	}
	return depths, nil
}

func parseNumber(cell string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}
