package feature

import "strconv"

// Record is one customer's input row. Values are set once by DecodeStrict or ReadCSV and
// are not modified afterwards.
type Record struct {
	CustomerID       string
	Gender           string
	SeniorCitizen    int
	Partner          string
	Dependents       string
	PhoneService     string
	MultipleLines    string
	InternetService  string
	OnlineSecurity   string
	OnlineBackup     string
	DeviceProtection string
	TechSupport      string
	StreamingTV      string
	StreamingMovies  string
	Contract         string
	PaperlessBilling string
	PaymentMethod    string
	Tenure           int
	MonthlyCharges   float64
	TotalCharges     float64
}

// Value is a field value in one of the declared kinds.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
}

// Text returns the value as a string. Numbers use the shortest representation
// ("29", "70.35") so that numeric fields can be matched against learned categories.
func (v Value) Text() string {
	if v.Kind == Categorical {
		return v.Str
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

// Get returns the value of the named field and false if the name is not in the schema.
func (r *Record) Get(name string) (Value, bool) {
	switch name {
	case SeniorCitizen:
		return Value{Kind: Int, Num: float64(r.SeniorCitizen)}, true
	case Tenure:
		return Value{Kind: Int, Num: float64(r.Tenure)}, true
	case MonthlyCharges:
		return Value{Kind: Float, Num: r.MonthlyCharges}, true
	case TotalCharges:
		return Value{Kind: Float, Num: r.TotalCharges}, true
	}
	p := r.stringField(name)
	if p == nil {
		return Value{}, false
	}
	return Value{Kind: Categorical, Str: *p}, true
}

// Values returns the record's values in canonical field order.
func (r *Record) Values() []Value {
	out := make([]Value, len(Fields))
	for i, f := range Fields {
		out[i], _ = r.Get(f.Name)
	}
	return out
}

func (r *Record) stringField(name string) *string {
	switch name {
	case CustomerID:
		return &r.CustomerID
	case Gender:
		return &r.Gender
	case Partner:
		return &r.Partner
	case Dependents:
		return &r.Dependents
	case PhoneService:
		return &r.PhoneService
	case MultipleLines:
		return &r.MultipleLines
	case InternetService:
		return &r.InternetService
	case OnlineSecurity:
		return &r.OnlineSecurity
	case OnlineBackup:
		return &r.OnlineBackup
	case DeviceProtection:
		return &r.DeviceProtection
	case TechSupport:
		return &r.TechSupport
	case StreamingTV:
		return &r.StreamingTV
	case StreamingMovies:
		return &r.StreamingMovies
	case Contract:
		return &r.Contract
	case PaperlessBilling:
		return &r.PaperlessBilling
	case PaymentMethod:
		return &r.PaymentMethod
	}
	return nil
}

// set assigns a typed value to the named field. Used only while building a record.
func (r *Record) set(name string, v Value) {
	switch name {
	case SeniorCitizen:
		r.SeniorCitizen = int(v.Num)
	case Tenure:
		r.Tenure = int(v.Num)
	case MonthlyCharges:
		r.MonthlyCharges = v.Num
	case TotalCharges:
		r.TotalCharges = v.Num
	default:
		if p := r.stringField(name); p != nil {
			*p = v.Str
		}
	}
}
