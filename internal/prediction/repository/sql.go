package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"churn-prediction/backend/internal/db"
	"churn-prediction/backend/internal/feature"
	"churn-prediction/backend/internal/prediction/domain"
)

// batchChunk bounds the rows per INSERT statement so the bind-parameter count stays under the
// driver limits (65535 for Postgres, 32766 for SQLite).
const batchChunk = 500

// SQLRepository implements Repository over database/sql for Postgres and SQLite.
type SQLRepository struct {
	db      *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

// NewSQLRepository returns a prediction repository that uses conn with the given dialect.
func NewSQLRepository(conn *sql.DB, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{db: conn, dialect: dialect, now: time.Now}
}

// WithClock replaces the clock used for created_at. Tests use it to pin timestamps.
func (r *SQLRepository) WithClock(now func() time.Time) *SQLRepository {
	r.now = now
	return r
}

// insertColumns is the column list shared by single and batch inserts.
var insertColumns = func() []string {
	cols := []string{"created_at", "churn_probability", "prediction"}
	for _, f := range feature.Fields {
		cols = append(cols, f.Column())
	}
	return cols
}()

func (r *SQLRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// args returns the bind values for p in insertColumns order.
func args(p *domain.Prediction, createdAt time.Time) []any {
	out := make([]any, 0, len(insertColumns))
	out = append(out, createdAt, p.Probability, p.Class)
	for _, v := range p.Record.Values() {
		if v.Kind == feature.Categorical {
			out = append(out, v.Str)
			continue
		}
		if v.Kind == feature.Int {
			out = append(out, int64(v.Num))
			continue
		}
		out = append(out, v.Num)
	}
	return out
}

func (r *SQLRepository) insertSQL(rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO churn_predictions (")
	b.WriteString(strings.Join(insertColumns, ", "))
	b.WriteString(") VALUES ")
	n := len(insertColumns)
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.dialect.Placeholders(i*n+1, n))
	}
	return b.String()
}

// Insert stores p in its own transaction and sets p.ID and p.CreatedAt.
func (r *SQLRepository) Insert(ctx context.Context, p *domain.Prediction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := r.timestamp()
	var id int64
	if err := tx.QueryRowContext(ctx, r.insertSQL(1)+" RETURNING id", args(p, createdAt)...).Scan(&id); err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prediction: %w", err)
	}
	p.ID = id
	p.CreatedAt = createdAt
	return nil
}

// InsertBatch stores ps with chunked multi-row INSERTs inside one transaction.
// All rows share one created_at. Nothing is visible unless every chunk succeeds.
func (r *SQLRepository) InsertBatch(ctx context.Context, ps []domain.Prediction) error {
	if len(ps) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := r.timestamp()
	for start := 0; start < len(ps); start += batchChunk {
		end := min(start+batchChunk, len(ps))
		chunk := ps[start:end]
		vals := make([]any, 0, len(chunk)*len(insertColumns))
		for i := range chunk {
			vals = append(vals, args(&chunk[i], createdAt)...)
		}
		if _, err := tx.ExecContext(ctx, r.insertSQL(len(chunk)), vals...); err != nil {
			return fmt.Errorf("insert predictions %d-%d: %w", start, end-1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit predictions: %w", err)
	}
	for i := range ps {
		ps[i].CreatedAt = createdAt
	}
	return nil
}

// ListRecent returns up to limit summaries newest first, skipping offset rows.
func (r *SQLRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.Summary, error) {
	q := fmt.Sprintf(
		"SELECT id, created_at, churn_probability, prediction, customerid FROM churn_predictions ORDER BY id DESC LIMIT %s OFFSET %s",
		r.dialect.Placeholder(1), r.dialect.Placeholder(2))
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Summary, 0, limit)
	for rows.Next() {
		var s domain.Summary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Probability, &s.Class, &s.CustomerID); err != nil {
			return nil, err
		}
		s.CreatedAt = s.CreatedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteAll removes every prediction row.
func (r *SQLRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM churn_predictions")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// riskOrder is the presentation order of CountByRisk.
var riskOrder = []domain.Risk{domain.RiskHigh, domain.RiskMedium, domain.RiskLow}

// CountByRisk buckets stored probabilities with the same cutoffs as RiskFromProbability.
// Tiers with no rows are omitted.
func (r *SQLRepository) CountByRisk(ctx context.Context) ([]domain.RiskCount, error) {
	q := fmt.Sprintf(`SELECT
    CASE
        WHEN churn_probability >= %s THEN '%s'
        WHEN churn_probability >= %s THEN '%s'
        ELSE '%s'
    END AS risk_level,
    COUNT(*)
FROM churn_predictions
GROUP BY 1`,
		formatCutoff(domain.HighRiskThreshold), domain.RiskHigh,
		formatCutoff(domain.MediumRiskCutoff), domain.RiskMedium,
		domain.RiskLow)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Risk]int64, len(riskOrder))
	for rows.Next() {
		var (
			risk  string
			count int64
		)
		if err := rows.Scan(&risk, &count); err != nil {
			return nil, err
		}
		counts[domain.Risk(risk)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.RiskCount, 0, len(counts))
	for _, risk := range riskOrder {
		if n, ok := counts[risk]; ok {
			out = append(out, domain.RiskCount{Risk: risk, Count: n})
		}
	}
	return out, nil
}

func formatCutoff(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CountByDay counts rows with created_at >= since per UTC calendar day, oldest first.
// Days without rows are not returned.
func (r *SQLRepository) CountByDay(ctx context.Context, since time.Time) ([]domain.DayCount, error) {
	day := r.dialect.Day("created_at")
	q := fmt.Sprintf(
		"SELECT %s AS day, COUNT(*) FROM churn_predictions WHERE created_at >= %s GROUP BY 1 ORDER BY 1 ASC",
		day, r.dialect.Placeholder(1))
	rows, err := r.db.QueryContext(ctx, q, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DayCount
	for rows.Next() {
		var d domain.DayCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Totals returns the row count and mean probability, 0 for an empty table.
func (r *SQLRepository) Totals(ctx context.Context) (domain.Totals, error) {
	var t domain.Totals
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(AVG(churn_probability), 0) FROM churn_predictions").Scan(&t.Count, &t.Average)
	return t, err
}
