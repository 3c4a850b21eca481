package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/zemouh/finagent/internal/models"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrAdviceNotFound = errors.New("no advice stored for record")
)

// RecordRepository handles database operations for financial records
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// Insert stores an assessment and its message lines for a user
func (r *RecordRepository) Insert(ctx context.Context, userID int64, a models.BudgetAssessment) (*models.FinancialRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rec := &models.FinancialRecord{UserID: userID, BudgetAssessment: a}

	query := `
		INSERT INTO financial_records
			(user_id, evaluated_at, income, fixed_expenses, saving_goal, remaining, risk_level, savings_ratio, flag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query,
		userID, a.Timestamp,
		a.Income.String(), a.FixedExpenses.String(), a.SavingGoal.String(), a.Remaining.String(),
		nullableRisk(a.Risk), nullableDecimal(a.SavingsRatio), nullableFlag(a.Flags),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}

	for i, msg := range a.Messages {
		_, err = tx.Exec(ctx,
			`INSERT INTO record_messages (record_id, position, message) VALUES ($1, $2, $3)`,
			rec.ID, i, msg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert record message: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit record: %w", err)
	}
	return rec, nil
}

// GetByID retrieves one record, including its message lines.
// Records are user-scoped; asking for another user's record is a not-found.
func (r *RecordRepository) GetByID(ctx context.Context, userID, id int64) (*models.FinancialRecord, error) {
	query := `
		SELECT id, user_id, evaluated_at, income::text, fixed_expenses::text, saving_goal::text, remaining::text, risk_level, savings_ratio::text, flag, created_at
		FROM financial_records
		WHERE id = $1 AND user_id = $2
	`
	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	if err := r.loadMessages(ctx, []*models.FinancialRecord{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByUser retrieves a user's records, newest first
func (r *RecordRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.FinancialRecord, error) {
	query := `
		SELECT id, user_id, evaluated_at, income::text, fixed_expenses::text, saving_goal::text, remaining::text, risk_level, savings_ratio::text, flag, created_at
		FROM financial_records
		WHERE user_id = $1
		ORDER BY evaluated_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadMessages(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByDateRange retrieves a user's records whose evaluation time falls
// in [start, end), oldest first.
func (r *RecordRepository) ListByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.FinancialRecord, error) {
	query := `
		SELECT id, user_id, evaluated_at, income::text, fixed_expenses::text, saving_goal::text, remaining::text, risk_level, savings_ratio::text, flag, created_at
		FROM financial_records
		WHERE user_id = $1 AND evaluated_at >= $2 AND evaluated_at < $3
		ORDER BY evaluated_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list records by date: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadMessages(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes one record and its dependent rows
func (r *RecordRepository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM financial_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteAllForUser removes every record belonging to a user
func (r *RecordRepository) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM financial_records WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Statistics computes a user's aggregate averages
func (r *RecordRepository) Statistics(ctx context.Context, userID int64) (*models.Statistics, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(income), 0)::text,
		       COALESCE(AVG(fixed_expenses), 0)::text,
		       COALESCE(AVG(remaining), 0)::text,
		       AVG(savings_ratio)::text
		FROM financial_records
		WHERE user_id = $1
	`
	var (
		stats    models.Statistics
		avgInc   string
		avgExp   string
		avgRem   string
		avgRatio *string
	)
	err := r.pool.QueryRow(ctx, query, userID).
		Scan(&stats.Count, &avgInc, &avgExp, &avgRem, &avgRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	if stats.AvgIncome, err = decimal.NewFromString(avgInc); err != nil {
		return nil, fmt.Errorf("invalid avg income: %w", err)
	}
	if stats.AvgExpenses, err = decimal.NewFromString(avgExp); err != nil {
		return nil, fmt.Errorf("invalid avg expenses: %w", err)
	}
	if stats.AvgRemaining, err = decimal.NewFromString(avgRem); err != nil {
		return nil, fmt.Errorf("invalid avg remaining: %w", err)
	}
	if avgRatio != nil {
		d, err := decimal.NewFromString(*avgRatio)
		if err != nil {
			return nil, fmt.Errorf("invalid avg savings ratio: %w", err)
		}
		stats.AvgSavingsRatio = &d
	}
	return &stats, nil
}

// InsertAdvice stores generated advisory prose for a record
func (r *RecordRepository) InsertAdvice(ctx context.Context, recordID int64, text string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ai_analysis (record_id, analysis_text) VALUES ($1, $2)`, recordID, text)
	if err != nil {
		return fmt.Errorf("failed to insert advice: %w", err)
	}
	return nil
}

// GetAdvice retrieves the most recent advisory prose for a record
func (r *RecordRepository) GetAdvice(ctx context.Context, recordID int64) (string, error) {
	var text string
	err := r.pool.QueryRow(ctx,
		`SELECT analysis_text FROM ai_analysis WHERE record_id = $1 ORDER BY created_at DESC LIMIT 1`,
		recordID).Scan(&text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrAdviceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get advice: %w", err)
	}
	return text, nil
}

func (r *RecordRepository) loadMessages(ctx context.Context, records []*models.FinancialRecord) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(records))
	byID := make(map[int64]*models.FinancialRecord, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
		byID[rec.ID] = rec
	}

	rows, err := r.pool.Query(ctx,
		`SELECT record_id, message FROM record_messages WHERE record_id = ANY($1) ORDER BY record_id, position`,
		ids)
	if err != nil {
		return fmt.Errorf("failed to load record messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recordID int64
			message  string
		)
		if err := rows.Scan(&recordID, &message); err != nil {
			return fmt.Errorf("failed to scan record message: %w", err)
		}
		if rec, ok := byID[recordID]; ok {
			rec.Messages = append(rec.Messages, message)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.FinancialRecord, error) {
	var (
		rec      models.FinancialRecord
		income   string
		expenses string
		goal     string
		rem      string
		risk     *string
		ratio    *string
		flag     *string
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Timestamp,
		&income, &expenses, &goal, &rem, &risk, &ratio, &flag, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	if rec.Income, err = decimal.NewFromString(income); err != nil {
		return nil, fmt.Errorf("invalid income value: %w", err)
	}
	if rec.FixedExpenses, err = decimal.NewFromString(expenses); err != nil {
		return nil, fmt.Errorf("invalid fixed expenses value: %w", err)
	}
	if rec.SavingGoal, err = decimal.NewFromString(goal); err != nil {
		return nil, fmt.Errorf("invalid saving goal value: %w", err)
	}
	if rec.Remaining, err = decimal.NewFromString(rem); err != nil {
		return nil, fmt.Errorf("invalid remaining value: %w", err)
	}
	if risk != nil {
		rec.Risk = models.RiskLevel(*risk)
	}
	if ratio != nil {
		d, err := decimal.NewFromString(*ratio)
		if err != nil {
			return nil, fmt.Errorf("invalid savings ratio value: %w", err)
		}
		rec.SavingsRatio = &d
	}
	if flag != nil {
		rec.Flags = []models.Flag{models.Flag(*flag)}
	}
	return &rec, nil
}

func scanRecords(rows pgx.Rows) ([]*models.FinancialRecord, error) {
	var records []*models.FinancialRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

func nullableRisk(r models.RiskLevel) *string {
	if r == models.RiskUnknown {
		return nil
	}
	s := string(r)
	return &s
}

func nullableDecimal(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func nullableFlag(flags []models.Flag) *string {
	if len(flags) == 0 {
		return nil
	}
	s := string(flags[0])
	return &s
}
