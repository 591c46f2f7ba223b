package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"energy_predictor/internal/model"
)

// DefaultMissingTokens are the readings treated as missing values.
var DefaultMissingTokens = []string{"", "?", "NA", "NaN", "nan"}

// EnergyParser parses household power consumption tables.
//
// Expected format (extra columns allowed, any order):
//
//	Date,Time,Global_active_power
//	16/12/2006,17:24:00,4.216
//	16/12/2006,17:25:00,?
type EnergyParser struct {
	// Delimiter separates fields. Zero means comma.
	Delimiter rune
	// MissingTokens mark a missing reading, matched case-insensitively. Nil means DefaultMissingTokens.
	MissingTokens []string
	// PreviewRows is the number of raw rows kept in Table.Head.
	PreviewRows int
}

type columnIndex struct {
	date, time, power int
}

func (p *EnergyParser) Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	if p.Delimiter != 0 {
		cr.Comma = p.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV header: %w", model.ErrInputParse, err)
	}
	cols, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	table := &Table{Header: trimAll(header)}
	missing := p.missingSet()
	lineNum := 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV line %d: %w", model.ErrInputParse, lineNum, err)
		}

		raw, err := parseEnergyRecord(record, cols, missing, lineNum)
		if err != nil {
			return nil, err
		}

		if len(table.Head) < p.PreviewRows {
			table.Head = append(table.Head, record)
		}
		table.Records = append(table.Records, raw)
	}

	return table, nil
}

func (p *EnergyParser) missingSet() map[string]bool {
	tokens := p.MissingTokens
	if tokens == nil {
		tokens = DefaultMissingTokens
	}
	set := make(map[string]bool, len(tokens)+1)
	set[""] = true
	for _, t := range tokens {
		set[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return set
}

func indexHeader(header []string) (columnIndex, error) {
	cols := columnIndex{date: -1, time: -1, power: -1}
	for i, name := range header {
		switch headerName(name) {
		case model.ColumnDate:
			cols.date = i
		case model.ColumnTime:
			cols.time = i
		case model.ColumnPower:
			cols.power = i
		}
	}

	var absent []string
	if cols.date < 0 {
		absent = append(absent, model.ColumnDate)
	}
	if cols.time < 0 {
		absent = append(absent, model.ColumnTime)
	}
	if cols.power < 0 {
		absent = append(absent, model.ColumnPower)
	}
	if len(absent) > 0 {
		return cols, fmt.Errorf("%w: missing column(s) %s", model.ErrInputParse, strings.Join(absent, ", "))
	}
	return cols, nil
}

func parseEnergyRecord(record []string, cols columnIndex, missing map[string]bool, lineNum int) (model.RawRecord, error) {
	raw := model.RawRecord{
		Line: lineNum,
		Date: strings.TrimSpace(record[cols.date]),
		Time: strings.TrimSpace(record[cols.time]),
	}

	value := strings.TrimSpace(record[cols.power])
	if missing[strings.ToLower(value)] {
		raw.Missing = true
		return raw, nil
	}

	power, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return raw, fmt.Errorf("%w: line %d: parsing %s %q: %w", model.ErrInputParse, lineNum, model.ColumnPower, value, err)
	}
	if math.IsNaN(power) || math.IsInf(power, 0) {
		return raw, fmt.Errorf("%w: line %d: %s %q is not a finite number", model.ErrInputParse, lineNum, model.ColumnPower, value)
	}
	raw.Power = power
	return raw, nil
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = headerName(f)
	}
	return out
}

// LoadFile opens path and parses it with p.
func LoadFile(path string, p Parser) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("%w: opening %s: %w", model.ErrInputNotFound, path, err)
	}
	defer f.Close()

	table, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return table, nil
}
