// Package survey turns an inclinometer survey table into the three aligned
// inputs of a contour plot: a date axis, a depth axis and a reading grid.
//
// # Table layout
//
// Row 0 is the header. Its first cell is a label and is ignored; every other
// cell starts with a dd/mm/yyyy date, optionally followed by free text after
// whitespace. Each following row holds a depth in metres in cell 0 and one
// inclination reading per header date:
//
//	Label,01/01/2020,15/01/2020,01/02/2020
//	0.5,1.1,1.3,1.0
//	1.5,2.2,2.0,1.9
//
// Tables are read from comma-delimited text (ReadCSV) or from the first sheet
// of an Excel workbook (ReadWorkbook). LoadTable picks the reader from the
// file extension.
//
// # Column order
//
// The date axis is sorted ascending. Each date stays paired with the file
// column it came from (DateColumn), and AssembleGrid emits grid columns in
// the order of those pairs, so Grid[i][j] is always the reading taken at
// Depths[i] on Dates[j]. With Options.StrictDates set, a header that is not
// already ascending is rejected instead of reordered.
//
// # Errors
//
// All failures are *errors.AppError values. Row and column indices are
// 0-based file positions: the header is row 0 and the depth column is
// column 0.
package survey
