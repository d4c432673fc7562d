package domain

// RiskCount is the number of stored rows in one risk tier.
type RiskCount struct {
	Risk  Risk
	Count int64
}

// DayCount is the number of rows created on one UTC calendar day (YYYY-MM-DD).
type DayCount struct {
	Date  string
	Count int64
}

// Totals summarizes the whole table. Average is 0 when Count is 0.
type Totals struct {
	Count   int64
	Average float64
}
