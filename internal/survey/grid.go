package survey

import (
	apperrors "clinocontour/internal/errors"
)

// Grid holds the readings indexed [depth row][date column].
type Grid [][]float64

// Rows returns the number of depth rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of date columns, or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// AssembleGrid parses the readings of every data row. Grid column k holds the
// readings from file column columns[k].Column, so the grid follows the same
// order as the date axis built from columns. Cells are visited in file order,
// which makes the reported error the first bad cell in the file.
func AssembleGrid(rows [][]string, columns []DateColumn) (Grid, error) {
	slot := make(map[int]int, len(columns))
	for k, c := range columns {
		slot[c.Column] = k
	}

	grid := make(Grid, len(rows))
	for i, row := range rows {
		if len(row) != len(columns)+1 {
			return nil, apperrors.NewMalformedTableError(i+1, len(columns)+1, len(row))
		}
		values := make([]float64, len(columns))
		for j := 1; j < len(row); j++ {
			k, ok := slot[j]
			if !ok {
				return nil, apperrors.NewTableShapeError("date columns do not cover the table").
					WithContext(apperrors.KeyColumn, j)
			}
			v, err := parseNumber(row[j])
			if err != nil {
				return nil, apperrors.NewNumericParseError(i+1, j, row[j], err)
			}
			values[k] = v
		}
		grid[i] = values
	}
	return grid, nil
}

// Options controls how a table becomes a Survey.
type Options struct {
	// StrictDates rejects headers whose dates are not already ascending
	// instead of reordering their columns.
	StrictDates bool
}

// Survey is a table reduced to aligned axes and readings.
type Survey struct {
	Dates   DateAxis
	Depths  DepthAxis
	Grid    Grid
	Columns []DateColumn
}

// FromTable builds the date axis, depth axis and grid of t.
func FromTable(t *Table, opts Options) (*Survey, error) {
	columns, err := BuildDateAxis(t.Header())
	if err != nil {
		return nil, err
	}
	if opts.StrictDates {
		if err := CheckAscending(columns); err != nil {
			return nil, err
		}
	}

	depths, err := BuildDepthAxis(t.Data())
	if err != nil {
		return nil, err
	}

	grid, err := AssembleGrid(t.Data(), columns)
	if err != nil {
		return nil, err
	}

	return &Survey{
		Dates:   Dates(columns),
		Depths:  depths,
		Grid:    grid,
		Columns: columns,
	}, nil
}
