package insight

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churn-prediction/backend/internal/feature"
)

func goldenCases() map[string]feature.Record {
	return map[string]feature.Record{
		"fiber_month_to_month": {
			CustomerID: "A-1", Contract: "Month-to-month", InternetService: "Fiber optic",
			Tenure: 5, MonthlyCharges: 80, TechSupport: "No",
			PhoneService: "Yes", MultipleLines: "No", OnlineSecurity: "No", OnlineBackup: "Yes",
			DeviceProtection: "No", StreamingTV: "Yes", StreamingMovies: "No",
		},
		"two_year_loyal": {
			CustomerID: "B-2", Contract: "Two year", InternetService: "DSL",
			Tenure: 72, MonthlyCharges: 130, TechSupport: "Yes",
			PhoneService: "Yes", MultipleLines: "Yes", OnlineSecurity: "Yes", OnlineBackup: "Yes",
			DeviceProtection: "Yes", StreamingTV: "Yes", StreamingMovies: "Yes",
		},
		"one_year_no_internet": {
			CustomerID: "C-3", Contract: "One year", InternetService: "No",
			Tenure: 30, MonthlyCharges: 20, TechSupport: "No internet service",
			PhoneService: "Yes", MultipleLines: "Yes", OnlineSecurity: "No internet service",
			OnlineBackup: "No internet service", DeviceProtection: "No internet service",
			StreamingTV: "No internet service", StreamingMovies: "No internet service",
		},
	}
}

func TestDerive_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for name, rec := range goldenCases() {
		t.Run(name, func(t *testing.T) {
			data, err := json.MarshalIndent(Derive(&rec), "", "  ")
			require.NoError(t, err)
			g.Assert(t, name, data)
		})
	}
}

func TestFactors_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		rec   feature.Record
		label string
		want  float64
	}{
		{"tenure 11 is short", feature.Record{Tenure: 11}, "Tenure", 0.30},
		{"tenure 12 is mid", feature.Record{Tenure: 12}, "Tenure", -0.10},
		{"tenure 48 is mid", feature.Record{Tenure: 48}, "Tenure", -0.10},
		{"tenure 49 is long", feature.Record{Tenure: 49}, "Tenure", -0.35},
		{"charges 70 is low", feature.Record{MonthlyCharges: 70}, "Charges", -0.10},
		{"charges above 70", feature.Record{MonthlyCharges: 70.01}, "Charges", 0.20},
		{"placeholder contract", feature.Record{Contract: "0"}, "Contract", -0.40},
		{"placeholder tech support", feature.Record{TechSupport: "0"}, "Tech Support", -0.15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := find(Factors(&tc.rec), tc.label)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFactors_FiberNetOnlyForFiberOrNone(t *testing.T) {
	_, ok := find(Factors(&feature.Record{InternetService: "DSL"}), "Fiber Net")
	assert.False(t, ok)
	assert.Len(t, Factors(&feature.Record{InternetService: "DSL"}), 4)
	assert.Len(t, Factors(&feature.Record{InternetService: "Fiber optic"}), 5)
}

func TestPersona_ClampedAndOrdered(t *testing.T) {
	rec := feature.Record{Tenure: 500, MonthlyCharges: 1e6}
	got := Persona(&rec)
	require.Len(t, got, 5)
	subjects := make([]string, len(got))
	for i, a := range got {
		subjects[i] = a.Subject
		assert.GreaterOrEqual(t, a.A, 0)
		assert.LessOrEqual(t, a.A, 100)
		assert.Equal(t, 100, a.FullMark)
	}
	assert.Equal(t, []string{"Loyalty", "Value", "Services", "Support", "Security"}, subjects)
	assert.Equal(t, 100, got[0].A)
	assert.Equal(t, 100, got[1].A)
	assert.Equal(t, 0, got[2].A)
	assert.Equal(t, 40, got[3].A)
	assert.Equal(t, 30, got[4].A)
}

func TestDerive_Idempotent(t *testing.T) {
	for name, rec := range goldenCases() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Derive(&rec), Derive(&rec))
		})
	}
}

func find(factors []Factor, name string) (float64, bool) {
	for _, f := range factors {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}
