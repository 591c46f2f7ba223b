package ingest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_predictor/internal/model"
)

func TestEnergyParser_Parse(t *testing.T) {
	input := `Date,Time,Global_active_power
2024-11-21,12:00:00,1.5
2024-11-21,13:00:00,2.25`

	parser := &EnergyParser{}
	table, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, table.Records, 2)

	assert.Equal(t, []string{"Date", "Time", "Global_active_power"}, table.Header)
	assert.Equal(t, 2, table.Records[0].Line)
	assert.Equal(t, "2024-11-21", table.Records[0].Date)
	assert.Equal(t, "12:00:00", table.Records[0].Time)
	assert.InDelta(t, 1.5, table.Records[0].Power, 1e-12)
	assert.False(t, table.Records[0].Missing)
	assert.Equal(t, 3, table.Records[1].Line)
	assert.Empty(t, table.Head)
}

func TestEnergyParser_ColumnsInAnyOrder(t *testing.T) {
	input := `Voltage,Global_active_power,Time,Date
234.8,4.216,17:24:00,16/12/2006`

	parser := &EnergyParser{}
	table, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "16/12/2006", table.Records[0].Date)
	assert.Equal(t, "17:24:00", table.Records[0].Time)
	assert.InDelta(t, 4.216, table.Records[0].Power, 1e-12)
}

func TestEnergyParser_MissingValues(t *testing.T) {
	input := `Date,Time,Global_active_power
2024-11-21,12:00:00,?
2024-11-21,13:00:00,
2024-11-21,14:00:00,NaN
2024-11-21,15:00:00,0.5`

	parser := &EnergyParser{}
	table, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, table.Records, 4)
	assert.True(t, table.Records[0].Missing)
	assert.True(t, table.Records[1].Missing)
	assert.True(t, table.Records[2].Missing)
	assert.False(t, table.Records[3].Missing)
}

func TestEnergyParser_CustomDelimiter(t *testing.T) {
	input := "Date;Time;Global_active_power\n16/12/2006;17:24:00;4.216\n16/12/2006;17:25:00;-\n"

	parser := &EnergyParser{Delimiter: ';', MissingTokens: []string{"-"}}
	table, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.InDelta(t, 4.216, table.Records[0].Power, 1e-12)
	assert.True(t, table.Records[1].Missing)
}

func TestEnergyParser_MissingColumns(t *testing.T) {
	input := `Date,Global_active_power
2024-11-21,1.5`

	parser := &EnergyParser{}
	_, err := parser.Parse(strings.NewReader(input))

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInputParse)
	assert.Contains(t, err.Error(), "Time")
}

func TestEnergyParser_InvalidReading(t *testing.T) {
	input := `Date,Time,Global_active_power
2024-11-21,12:00:00,1.5
2024-11-21,13:00:00,lots`

	parser := &EnergyParser{}
	_, err := parser.Parse(strings.NewReader(input))

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInputParse)
	assert.Contains(t, err.Error(), "line 3")
}

func TestEnergyParser_MissingTokensIgnoreCase(t *testing.T) {
	input := `Date,Time,Global_active_power
2024-11-21,12:00:00,NAN
2024-11-21,13:00:00,Nan
2024-11-21,14:00:00,na`

	parser := &EnergyParser{}
	table, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, table.Records, 3)
	for _, r := range table.Records {
		assert.True(t, r.Missing, "line %d", r.Line)
	}
}

func TestEnergyParser_NonFiniteReading(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		missing []string
	}{
		{"NAN without nan token", "NAN", []string{"?"}},
		{"Inf", "Inf", nil},
		{"-infinity", "-infinity", nil},
		{"+INF", "+INF", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "Date,Time,Global_active_power\n" +
				"2024-11-21,12:00:00,1.5\n" +
				"2024-11-21,13:00:00," + tt.value + "\n"

			parser := &EnergyParser{MissingTokens: tt.missing}
			_, err := parser.Parse(strings.NewReader(input))

			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInputParse)
			assert.Contains(t, err.Error(), "line 3")
		})
	}
}

func TestEnergyParser_EmptyInput(t *testing.T) {
	parser := &EnergyParser{}
	_, err := parser.Parse(strings.NewReader(""))

	assert.ErrorIs(t, err, model.ErrInputParse)
}

func TestEnergyParser_PreviewRows(t *testing.T) {
	input := `Date,Time,Global_active_power
2024-11-21,12:00:00,1
2024-11-21,13:00:00,2
2024-11-21,14:00:00,3`

	parser := &EnergyParser{PreviewRows: 2}
	table, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, table.Head, 2)
	assert.Equal(t, []string{"2024-11-21", "13:00:00", "2"}, table.Head[1])
	assert.Len(t, table.Records, 3)
}

func TestLoadFile_SampleFile(t *testing.T) {
	table, err := LoadFile("../../testdata/energy_sample.csv", &EnergyParser{PreviewRows: 5})

	require.NoError(t, err)
	require.Len(t, table.Records, 6)
	assert.Len(t, table.Head, 5)
	assert.Len(t, table.Header, 5)

	var missing int
	for _, r := range table.Records {
		if r.Missing {
			missing++
		}
	}
	assert.Equal(t, 2, missing)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.csv"), &EnergyParser{})

	assert.ErrorIs(t, err, model.ErrInputNotFound)
}
