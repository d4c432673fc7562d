package feature

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// maxCSVViolations bounds the number of cell problems collected before ReadCSV gives up.
const maxCSVViolations = 20

// missingMarkers are the cell values treated as absent, in addition to the empty string.
// They match the default NA markers of common dataframe CSV readers so that exported
// spreadsheets behave the same as they did in the notebook the model was built from.
var missingMarkers = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true, "n/a": true, "nan": true, "null": true,
}

// ReadCSV parses a CSV document with a header row into Records using the lenient batch
// policy:
//   - the header must contain every column in Fields; extra columns are ignored
//   - missing categorical cells become "0", missing numeric cells become 0
//   - TotalCharges cells that do not parse as a number become 0
//   - other numeric cells that are present but unparseable reject the whole file
//
// Integer columns accept decimal text and truncate it. Every failure is a *ValidationError.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, invalidCSV(errors.New("no columns to parse from file"))
	}
	if err != nil {
		return nil, invalidCSV(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}
	var missing []string
	for _, f := range Fields {
		if _, ok := pos[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		verr := &ValidationError{Summary: "Missing columns: " + strings.Join(missing, ", ")}
		for _, m := range missing {
			verr.add(m, 0, "required column not found")
		}
		return nil, verr
	}

	verr := &ValidationError{}
	var out []Record
	for row := 1; ; row++ {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalidCSV(err)
		}
		if len(cells) > len(header) {
			return nil, invalidCSV(fmt.Errorf("row %d: expected %d fields, saw %d", row, len(header), len(cells)))
		}
		var rec Record
		for _, f := range Fields {
			cell := ""
			if i := pos[f.Name]; i < len(cells) {
				cell = cells[i]
			}
			v, msg := coerceCell(f, cell)
			if msg != "" {
				verr.add(f.Name, row, "%s", msg)
				if len(verr.Violations) >= maxCSVViolations {
					return nil, verr
				}
				continue
			}
			rec.set(f.Name, v)
		}
		out = append(out, rec)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &ValidationError{
			Summary:    "CSV file contains no data rows",
			Violations: []Violation{{Field: "file", Message: "no data rows"}},
		}
	}
	return out, nil
}

// coerceCell converts one CSV cell. msg is non-empty only for present values in numeric
// columns that are unparseable (except TotalCharges, which falls back to 0) or outside the
// column's range.
func coerceCell(f Field, cell string) (Value, string) {
	if f.Kind == Categorical {
		if missingMarkers[cell] {
			return Value{Kind: Categorical, Str: "0"}, ""
		}
		return Value{Kind: Categorical, Str: cell}, ""
	}
	s := strings.TrimSpace(cell)
	if missingMarkers[s] {
		return Value{Kind: f.Kind, Num: 0}, ""
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		if f.Name == TotalCharges {
			return Value{Kind: Float, Num: 0}, ""
		}
		return Value{}, fmt.Sprintf("could not convert %q to %s", cell, f.Kind)
	}
	if f.Kind == Int {
		x = math.Trunc(x)
		if x > math.MaxInt32 {
			return Value{}, fmt.Sprintf("%q is out of range", cell)
		}
	}
	if msg := checkRange(f, x); msg != "" {
		return Value{}, fmt.Sprintf("%q %s", cell, msg)
	}
	return Value{Kind: f.Kind, Num: x}, ""
}

func invalidCSV(err error) *ValidationError {
	msg := "Invalid CSV file: " + err.Error()
	return &ValidationError{Summary: msg, Violations: []Violation{{Field: "file", Message: err.Error()}}}
}
