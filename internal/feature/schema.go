// Package feature defines the churn model's input schema and converts raw input
// (a JSON object or CSV rows) into validated Records.
package feature

import "strings"

// Kind is the declared type of an input field.
type Kind int

const (
	// Categorical fields carry a string drawn from the field's domain.
	Categorical Kind = iota
	// Int fields carry a whole number.
	Int
	// Float fields carry a finite decimal number.
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "integer"
	case Float:
		return "number"
	default:
		return "string"
	}
}

// Field name constants, spelled as the model and the dashboard expect them.
const (
	CustomerID       = "customerID"
	Gender           = "gender"
	SeniorCitizen    = "SeniorCitizen"
	Partner          = "Partner"
	Dependents       = "Dependents"
	PhoneService     = "PhoneService"
	MultipleLines    = "MultipleLines"
	InternetService  = "InternetService"
	OnlineSecurity   = "OnlineSecurity"
	OnlineBackup     = "OnlineBackup"
	DeviceProtection = "DeviceProtection"
	TechSupport      = "TechSupport"
	StreamingTV      = "StreamingTV"
	StreamingMovies  = "StreamingMovies"
	Contract         = "Contract"
	PaperlessBilling = "PaperlessBilling"
	PaymentMethod    = "PaymentMethod"
	Tenure           = "tenure"
	MonthlyCharges   = "MonthlyCharges"
	TotalCharges     = "TotalCharges"
)

// Field describes one input column.
type Field struct {
	Name string
	Kind Kind
	// Domain lists the accepted values of a categorical field. Nil means any non-empty string.
	Domain []string
}

// Column returns the store column name for the field (lower-cased name).
func (f Field) Column() string {
	return strings.ToLower(f.Name)
}

// Allows reports whether v is in the field's domain. Fields without a domain accept any non-empty value.
func (f Field) Allows(v string) bool {
	if f.Domain == nil {
		return v != ""
	}
	for _, d := range f.Domain {
		if d == v {
			return true
		}
	}
	return false
}

var (
	yesNo         = []string{"Yes", "No"}
	phoneOption   = []string{"Yes", "No", "No phone service"}
	internetAddOn = []string{"Yes", "No", "No internet service"}
)

// Fields is the canonical, ordered input schema. The order is the CSV/column order used by
// the store and by error messages.
var Fields = []Field{
	{Name: CustomerID, Kind: Categorical},
	{Name: Gender, Kind: Categorical, Domain: []string{"Female", "Male"}},
	{Name: SeniorCitizen, Kind: Int},
	{Name: Partner, Kind: Categorical, Domain: yesNo},
	{Name: Dependents, Kind: Categorical, Domain: yesNo},
	{Name: PhoneService, Kind: Categorical, Domain: yesNo},
	{Name: MultipleLines, Kind: Categorical, Domain: phoneOption},
	{Name: InternetService, Kind: Categorical, Domain: []string{"DSL", "Fiber optic", "No"}},
	{Name: OnlineSecurity, Kind: Categorical, Domain: internetAddOn},
	{Name: OnlineBackup, Kind: Categorical, Domain: internetAddOn},
	{Name: DeviceProtection, Kind: Categorical, Domain: internetAddOn},
	{Name: TechSupport, Kind: Categorical, Domain: internetAddOn},
	{Name: StreamingTV, Kind: Categorical, Domain: internetAddOn},
	{Name: StreamingMovies, Kind: Categorical, Domain: internetAddOn},
	{Name: Contract, Kind: Categorical, Domain: []string{"Month-to-month", "One year", "Two year"}},
	{Name: PaperlessBilling, Kind: Categorical, Domain: yesNo},
	{Name: PaymentMethod, Kind: Categorical, Domain: []string{
		"Electronic check", "Mailed check", "Bank transfer (automatic)", "Credit card (automatic)",
	}},
	{Name: Tenure, Kind: Int},
	{Name: MonthlyCharges, Kind: Float},
	{Name: TotalCharges, Kind: Float},
}

var fieldIndex = func() map[string]int {
	m := make(map[string]int, len(Fields))
	for i, f := range Fields {
		m[f.Name] = i
	}
	return m
}()

// Lookup returns the field with the given name.
func Lookup(name string) (Field, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return Field{}, false
	}
	return Fields[i], true
}

// Names returns the field names in canonical order.
func Names() []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = f.Name
	}
	return out
}
