package feature

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// DecodeStrict parses one JSON object into a Record. Every field in Fields must be present
// with its declared JSON type; unknown fields, nulls, out-of-domain categories and
// out-of-range numbers are rejected. Numeric strings are not coerced. All violations are
// reported together in a *ValidationError.
func DecodeStrict(data []byte) (*Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		msg := "request body must be a JSON object"
		if err != nil {
			msg += ": " + err.Error()
		}
		return nil, &ValidationError{Summary: msg, Violations: []Violation{{Field: "body", Message: msg}}}
	}

	verr := &ValidationError{}
	unknown := make([]string, 0)
	for k := range raw {
		if _, ok := Lookup(k); !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		verr.add(k, 0, "extra fields not permitted")
	}

	rec := &Record{}
	for _, f := range Fields {
		msg, ok := raw[f.Name]
		if !ok {
			verr.add(f.Name, 0, "field required")
			continue
		}
		v, problem := decodeValue(f, msg)
		if problem != "" {
			verr.add(f.Name, 0, "%s", problem)
			continue
		}
		rec.set(f.Name, v)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeValue(f Field, msg json.RawMessage) (Value, string) {
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return Value{}, "must be a " + f.Kind.String() + ", got null"
	}
	switch f.Kind {
	case Int:
		// Whole-number floats such as 5.0 are accepted.
		var x float64
		if err := json.Unmarshal(msg, &x); err != nil || x != math.Trunc(x) {
			return Value{}, "must be an integer"
		}
		if math.Abs(x) > math.MaxInt32 {
			return Value{}, "must be an integer no larger than 2147483647"
		}
		v := Value{Kind: Int, Num: x}
		return v, checkRange(f, v.Num)
	case Float:
		var x float64
		if err := json.Unmarshal(msg, &x); err != nil {
			return Value{}, "must be a number"
		}
		v := Value{Kind: Float, Num: x}
		return v, checkRange(f, v.Num)
	default:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return Value{}, "must be a string"
		}
		if !f.Allows(s) {
			if f.Domain == nil {
				return Value{}, "must not be empty"
			}
			return Value{}, "must be one of " + quoteAll(f.Domain)
		}
		return Value{Kind: Categorical, Str: s}, ""
	}
}

// checkRange applies the numeric constraints of the schema.
func checkRange(f Field, x float64) string {
	switch f.Name {
	case SeniorCitizen:
		if x != 0 && x != 1 {
			return "must be 0 or 1"
		}
	case Tenure, MonthlyCharges, TotalCharges:
		if x < 0 {
			return "must be greater than or equal to 0"
		}
	}
	return ""
}

func quoteAll(vals []string) string {
	q := make([]string, len(vals))
	for i, v := range vals {
		q[i] = `"` + v + `"`
	}
	return strings.Join(q, ", ")
}
