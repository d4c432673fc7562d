package feature

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]any {
	return map[string]any{
		"customerID":       "7590-VHVEG",
		"gender":           "Female",
		"SeniorCitizen":    0,
		"Partner":          "Yes",
		"Dependents":       "No",
		"PhoneService":     "No",
		"MultipleLines":    "No phone service",
		"InternetService":  "DSL",
		"OnlineSecurity":   "No",
		"OnlineBackup":     "Yes",
		"DeviceProtection": "No",
		"TechSupport":      "No",
		"StreamingTV":      "No",
		"StreamingMovies":  "No",
		"Contract":         "Month-to-month",
		"PaperlessBilling": "Yes",
		"PaymentMethod":    "Electronic check",
		"tenure":           1,
		"MonthlyCharges":   29.85,
		"TotalCharges":     29.85,
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestDecodeStrict_Valid(t *testing.T) {
	rec, err := DecodeStrict(mustJSON(t, validPayload()))
	require.NoError(t, err)

	assert.Equal(t, "7590-VHVEG", rec.CustomerID)
	assert.Equal(t, "Female", rec.Gender)
	assert.Equal(t, 0, rec.SeniorCitizen)
	assert.Equal(t, "No phone service", rec.MultipleLines)
	assert.Equal(t, 1, rec.Tenure)
	assert.InDelta(t, 29.85, rec.MonthlyCharges, 1e-9)
	assert.InDelta(t, 29.85, rec.TotalCharges, 1e-9)
}

func TestDecodeStrict_MissingField(t *testing.T) {
	p := validPayload()
	delete(p, "tenure")
	delete(p, "Contract")

	_, err := DecodeStrict(mustJSON(t, p))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "want *ValidationError, got %T", err)
	assert.Equal(t, []string{"Contract", "tenure"}, verr.Fields())
	assert.Contains(t, err.Error(), "tenure: field required")
}

func TestDecodeStrict_ExtraField(t *testing.T) {
	p := validPayload()
	p["Churn"] = "Yes"
	p["age"] = 40

	_, err := DecodeStrict(mustJSON(t, p))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Churn", "age"}, verr.Fields())
	assert.Contains(t, err.Error(), "extra fields not permitted")
}

func TestDecodeStrict_TypeErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"numeric string for float", "MonthlyCharges", "29.85"},
		{"numeric string for int", "tenure", "12"},
		{"fractional int", "tenure", 12.5},
		{"number for string", "gender", 1},
		{"null string", "Partner", nil},
		{"null number", "TotalCharges", nil},
		{"bool for int", "SeniorCitizen", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			p[tc.field] = tc.value
			_, err := DecodeStrict(mustJSON(t, p))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want *ValidationError, got %v", err)
			assert.Equal(t, []string{tc.field}, verr.Fields())
		})
	}
}

func TestDecodeStrict_RangeAndDomain(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  string
	}{
		{"senior citizen out of range", "SeniorCitizen", 2, "must be 0 or 1"},
		{"negative tenure", "tenure", -1, "greater than or equal to 0"},
		{"tenure beyond int32", "tenure", 1e20, "no larger than"},
		{"negative charges", "MonthlyCharges", -0.01, "greater than or equal to 0"},
		{"unknown contract", "Contract", "Three year", "must be one of"},
		{"empty customer id", "customerID", "", "must not be empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			p[tc.field] = tc.value
			_, err := DecodeStrict(mustJSON(t, p))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDecodeStrict_WholeNumberFloatForInt(t *testing.T) {
	body := bytes.Replace(mustJSON(t, validPayload()), []byte(`"tenure":1`), []byte(`"tenure":5.0`), 1)
	require.Contains(t, string(body), `"tenure":5.0`)

	rec, err := DecodeStrict(body)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.Tenure)
}

func TestDecodeStrict_NotAnObject(t *testing.T) {
	for _, body := range []string{"", "[]", "null", `"x"`, "{"} {
		_, err := DecodeStrict([]byte(body))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "body %q", body)
		assert.Equal(t, []string{"body"}, verr.Fields())
	}
}

func TestRecord_GetAndValues(t *testing.T) {
	rec, err := DecodeStrict(mustJSON(t, validPayload()))
	require.NoError(t, err)

	v, ok := rec.Get(Tenure)
	require.True(t, ok)
	assert.Equal(t, Int, v.Kind)
	assert.Equal(t, "1", v.Text())

	v, ok = rec.Get(MonthlyCharges)
	require.True(t, ok)
	assert.Equal(t, "29.85", v.Text())

	_, ok = rec.Get("Churn")
	assert.False(t, ok)

	vals := rec.Values()
	require.Len(t, vals, len(Fields))
	assert.Equal(t, "7590-VHVEG", vals[0].Str)
}
