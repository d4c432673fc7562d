package db

import (
	"strconv"
	"strings"
)

// Dialect holds the SQL differences between the supported drivers.
type Dialect struct {
	Driver string
	// dayExpr renders a timestamp column as YYYY-MM-DD in UTC.
	dayExpr string
}

// DialectFor returns the dialect for a DB_DRIVER value. Unknown drivers fall back to Postgres.
func DialectFor(driver string) Dialect {
	if driver == DriverSQLite {
		return Dialect{Driver: DriverSQLite, dayExpr: "substr(%s, 1, 10)"}
	}
	return Dialect{Driver: DriverPostgres, dayExpr: "TO_CHAR(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD')"}
}

// Placeholder returns the bind marker for the n-th (1-based) parameter.
func (d Dialect) Placeholder(n int) string {
	if d.Driver == DriverSQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// Placeholders returns a parenthesized group of count markers starting at parameter start.
func (d Dialect) Placeholders(start, count int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Placeholder(start + i))
	}
	b.WriteByte(')')
	return b.String()
}

// Day renders column as a UTC calendar date string.
func (d Dialect) Day(column string) string {
	return strings.Replace(d.dayExpr, "%s", column, 1)
}
