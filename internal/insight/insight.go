// Package insight derives the heuristic churn drivers and customer persona shown next to a
// single prediction. The values are fixed business rules, independent of the model.
package insight

import (
	"math"

	"churn-prediction/backend/internal/feature"
)

// Factor is one signed churn driver. Positive values push toward churn.
type Factor struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PersonaAxis is one spoke of the persona radar chart.
type PersonaAxis struct {
	Subject  string `json:"subject"`
	A        int    `json:"A"`
	FullMark int    `json:"fullMark"`
}

// Bundle is returned with a single prediction. It is never persisted.
type Bundle struct {
	Factors []Factor      `json:"factors"`
	Persona []PersonaAxis `json:"persona"`
}

const fullMark = 100

// serviceFields are counted toward the Services axis.
var serviceFields = []string{
	feature.PhoneService, feature.MultipleLines, feature.OnlineSecurity, feature.OnlineBackup,
	feature.DeviceProtection, feature.TechSupport, feature.StreamingTV, feature.StreamingMovies,
}

// Derive computes the bundle for r. It is a pure function of r.
func Derive(r *feature.Record) Bundle {
	return Bundle{Factors: Factors(r), Persona: Persona(r)}
}

// Factors returns the churn drivers in fixed order: Contract, Tenure, Fiber Net (only for
// fiber or no internet), Charges, Tech Support.
func Factors(r *feature.Record) []Factor {
	out := make([]Factor, 0, 5)

	switch r.Contract {
	case "Month-to-month":
		out = append(out, Factor{"Contract", 0.45})
	case "One year":
		out = append(out, Factor{"Contract", -0.20})
	default:
		out = append(out, Factor{"Contract", -0.40})
	}

	switch {
	case r.Tenure < 12:
		out = append(out, Factor{"Tenure", 0.30})
	case r.Tenure > 48:
		out = append(out, Factor{"Tenure", -0.35})
	default:
		out = append(out, Factor{"Tenure", -0.10})
	}

	switch r.InternetService {
	case "Fiber optic":
		out = append(out, Factor{"Fiber Net", 0.25})
	case "No":
		out = append(out, Factor{"Fiber Net", -0.15})
	}

	if r.MonthlyCharges > 70 {
		out = append(out, Factor{"Charges", 0.20})
	} else {
		out = append(out, Factor{"Charges", -0.10})
	}

	if r.TechSupport == "No" {
		out = append(out, Factor{"Tech Support", 0.15})
	} else {
		out = append(out, Factor{"Tech Support", -0.15})
	}
	return out
}

// Persona returns the five radar axes, each truncated to an integer in [0, 100].
func Persona(r *feature.Record) []PersonaAxis {
	loyalty := math.Min(float64(r.Tenure)/72*100, 100)
	value := math.Min(r.MonthlyCharges/120*100, 100)

	active := 0
	for _, name := range serviceFields {
		if v, _ := r.Get(name); v.Str == "Yes" {
			active++
		}
	}
	services := float64(active) / float64(len(serviceFields)) * 100

	support := 40
	if r.TechSupport == "Yes" {
		support = 100
	}
	if r.OnlineBackup == "Yes" {
		support += 20
	}

	security := 30
	if r.OnlineSecurity == "Yes" {
		security = 100
	}

	return []PersonaAxis{
		axis("Loyalty", loyalty),
		axis("Value", value),
		axis("Services", services),
		axis("Support", float64(support)),
		axis("Security", float64(security)),
	}
}

func axis(subject string, score float64) PersonaAxis {
	return PersonaAxis{Subject: subject, A: clamp(score), FullMark: fullMark}
}

// clamp truncates toward zero and bounds the result to [0, 100].
func clamp(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= fullMark {
		return fullMark
	}
	return int(v)
}
