package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "clinocontour/internal/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		cell    string
		want    time.Time
		wantErr bool
	}{
		{cell: "31/12/2020", want: date(2020, 12, 31)},
		{cell: "1/2/2021", want: date(2021, 2, 1)},
		{cell: "  15/01/2020  ", want: date(2020, 1, 15)},
		{cell: "15/01/2020 08:30 reading B", want: date(2020, 1, 15)},
		{cell: "2020-01-15", wantErr: true},
		{cell: "13/13/2020", wantErr: true},
		{cell: "01/01/20", wantErr: true},
		{cell: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := ParseDate(tt.cell)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestBuildDateAxis_SortsWithSourceColumns(t *testing.T) {
	columns, err := BuildDateAxis([]string{"Label", "15/01/2020", "01/01/2020", "01/02/2020"})
	require.NoError(t, err)

	assert.Equal(t, []DateColumn{
		{Date: date(2020, 1, 1), Column: 2},
		{Date: date(2020, 1, 15), Column: 1},
		{Date: date(2020, 2, 1), Column: 3},
	}, columns)
	assert.Equal(t, DateAxis{date(2020, 1, 1), date(2020, 1, 15), date(2020, 2, 1)}, Dates(columns))
}

func TestBuildDateAxis_EqualDatesKeepFileOrder(t *testing.T) {
	columns, err := BuildDateAxis([]string{"Label", "02/01/2020", "01/01/2020 am", "01/01/2020 pm"})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 1}, []int{columns[0].Column, columns[1].Column, columns[2].Column})
}

func TestBuildDateAxis_LabelOnly(t *testing.T) {
	columns, err := BuildDateAxis([]string{"Label"})

	require.NoError(t, err)
	assert.Empty(t, columns)
}

func TestBuildDateAxis_BadCell(t *testing.T) {
	_, err := BuildDateAxis([]string{"Label", "01/01/2020", "Jan 2020"})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeDateParse, appErr.Type)
	col, ok := appErr.Column()
	require.True(t, ok)
	assert.Equal(t, 2, col)
	assert.Equal(t, "Jan 2020", appErr.Context[apperrors.KeyCell])
}

func TestCheckAscending(t *testing.T) {
	sorted, err := BuildDateAxis([]string{"Label", "01/01/2020", "01/01/2020", "15/01/2020"})
	require.NoError(t, err)
	assert.NoError(t, CheckAscending(sorted))

	unsorted, err := BuildDateAxis([]string{"Label", "01/01/2020", "15/01/2020", "10/01/2020"})
	require.NoError(t, err)

	err = CheckAscending(unsorted)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeMalformedTable, appErr.Type)
	col, ok := appErr.Column()
	require.True(t, ok)
	assert.Equal(t, 3, col)
}

func TestBuildDepthAxis_PreservesOrder(t *testing.T) {
	depths, err := BuildDepthAxis([][]string{
		{"3.0", "1"},
		{" 0.5 ", "1"},
		{"12", "1"},
		{"-1.5", "1"},
	})

	require.NoError(t, err)
	assert.Equal(t, DepthAxis{3.0, 0.5, 12, -1.5}, depths)
}

func TestBuildDepthAxis_BadDepth(t *testing.T) {
	tests := []struct {
		name string
		cell string
	}{
		{"text", "shallow"},
		{"empty", ""},
		{"blank", "   "},
		{"not a number", "NaN"},
		{"infinite", "Inf"},
		{"negative infinite", "-Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildDepthAxis([][]string{{"0.5", "1"}, {tt.cell, "1"}})

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrTypeNumericParse, appErr.Type)
			row, _ := appErr.Row()
			col, _ := appErr.Column()
			assert.Equal(t, 2, row)
			assert.Equal(t, 0, col)
		})
	}
}
