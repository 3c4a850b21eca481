package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/repository"
)

// RecordStore handles SQLite operations for financial records
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore creates a new RecordStore
func NewRecordStore(d *DB) *RecordStore {
	return &RecordStore{db: d.db}
}

// Insert stores an assessment and its message lines for a user
func (s *RecordStore) Insert(ctx context.Context, userID int64, a models.BudgetAssessment) (*models.FinancialRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	rec := &models.FinancialRecord{UserID: userID, BudgetAssessment: a}
	rec.CreatedAt = time.Now().UTC()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO financial_records
			(user_id, evaluated_at, income, fixed_expenses, saving_goal, remaining, risk_level, savings_ratio, flag, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, a.Timestamp.UTC().Format(timeLayout),
		a.Income.String(), a.FixedExpenses.String(), a.SavingGoal.String(), a.Remaining.String(),
		nullableRisk(a.Risk), nullableDecimal(a.SavingsRatio), nullableFlag(a.Flags),
		rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("read record id: %w", err)
	}

	for i, msg := range a.Messages {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO record_messages (record_id, position, message) VALUES (?, ?, ?)`,
			rec.ID, i, msg,
		)
		if err != nil {
			return nil, fmt.Errorf("insert record message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record: %w", err)
	}
	return rec, nil
}

// GetByID retrieves one record, including its message lines.
// Records are user-scoped; asking for another user's record is a not-found.
func (s *RecordStore) GetByID(ctx context.Context, userID, id int64) (*models.FinancialRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, evaluated_at, income, fixed_expenses, saving_goal, remaining, risk_level, savings_ratio, flag, created_at
		FROM financial_records
		WHERE id = ? AND user_id = ?`, id, userID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	if err := s.loadMessages(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByUser retrieves a user's records, newest first
func (s *RecordStore) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.FinancialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, evaluated_at, income, fixed_expenses, saving_goal, remaining, risk_level, savings_ratio, flag, created_at
		FROM financial_records
		WHERE user_id = ?
		ORDER BY evaluated_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return s.collectRecords(ctx, rows)
}

// ListByDateRange retrieves records with evaluation time in [start, end), oldest first
func (s *RecordStore) ListByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.FinancialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, evaluated_at, income, fixed_expenses, saving_goal, remaining, risk_level, savings_ratio, flag, created_at
		FROM financial_records
		WHERE user_id = ? AND evaluated_at >= ? AND evaluated_at < ?
		ORDER BY evaluated_at ASC, id ASC`,
		userID, start.UTC().Format(timeLayout), end.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("list records by date: %w", err)
	}
	defer rows.Close()

	return s.collectRecords(ctx, rows)
}

// Delete removes one record and its dependent rows
func (s *RecordStore) Delete(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM financial_records WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

// DeleteAllForUser removes every record belonging to a user
func (s *RecordStore) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM financial_records WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}
	return res.RowsAffected()
}

// Statistics computes a user's aggregate averages. Amounts live in TEXT
// columns, so the averages go through a REAL cast and are rounded back
// to cents; exact decimals are only guaranteed for stored values.
func (s *RecordStore) Statistics(ctx context.Context, userID int64) (*models.Statistics, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(CAST(income AS REAL)), 0),
		       COALESCE(AVG(CAST(fixed_expenses AS REAL)), 0),
		       COALESCE(AVG(CAST(remaining AS REAL)), 0),
		       AVG(CAST(savings_ratio AS REAL))
		FROM financial_records
		WHERE user_id = ?`, userID)

	var (
		stats    models.Statistics
		avgInc   float64
		avgExp   float64
		avgRem   float64
		avgRatio *float64
	)
	if err := row.Scan(&stats.Count, &avgInc, &avgExp, &avgRem, &avgRatio); err != nil {
		return nil, fmt.Errorf("compute statistics: %w", err)
	}

	stats.AvgIncome = decimal.NewFromFloat(avgInc).Round(2)
	stats.AvgExpenses = decimal.NewFromFloat(avgExp).Round(2)
	stats.AvgRemaining = decimal.NewFromFloat(avgRem).Round(2)
	if avgRatio != nil {
		d := decimal.NewFromFloat(*avgRatio).Round(2)
		stats.AvgSavingsRatio = &d
	}
	return &stats, nil
}

// InsertAdvice stores generated advisory prose for a record
func (s *RecordStore) InsertAdvice(ctx context.Context, recordID int64, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ai_analysis (record_id, analysis_text, created_at) VALUES (?, ?, ?)`,
		recordID, text, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert advice: %w", err)
	}
	return nil
}

// GetAdvice retrieves the most recent advisory prose for a record
func (s *RecordStore) GetAdvice(ctx context.Context, recordID int64) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT analysis_text FROM ai_analysis WHERE record_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		recordID).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrAdviceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get advice: %w", err)
	}
	return text, nil
}

func (s *RecordStore) collectRecords(ctx context.Context, rows *sql.Rows) ([]*models.FinancialRecord, error) {
	var records []*models.FinancialRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	for _, rec := range records {
		if err := s.loadMessages(ctx, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *RecordStore) loadMessages(ctx context.Context, rec *models.FinancialRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message FROM record_messages WHERE record_id = ? ORDER BY position`, rec.ID)
	if err != nil {
		return fmt.Errorf("load record messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return fmt.Errorf("scan record message: %w", err)
		}
		rec.Messages = append(rec.Messages, msg)
	}
	return rows.Err()
}

func scanRecord(row rowScanner) (*models.FinancialRecord, error) {
	var (
		rec       models.FinancialRecord
		evaluated string
		income    string
		expenses  string
		goal      string
		rem       string
		risk      sql.NullString
		ratio     sql.NullString
		flag      sql.NullString
		created   string
	)
	err := row.Scan(&rec.ID, &rec.UserID, &evaluated,
		&income, &expenses, &goal, &rem, &risk, &ratio, &flag, &created)
	if err != nil {
		return nil, err
	}

	if rec.Timestamp, err = time.Parse(timeLayout, evaluated); err != nil {
		return nil, fmt.Errorf("invalid evaluated_at: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
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
	if risk.Valid {
		rec.Risk = models.RiskLevel(risk.String)
	}
	if ratio.Valid {
		d, err := decimal.NewFromString(ratio.String)
		if err != nil {
			return nil, fmt.Errorf("invalid savings ratio value: %w", err)
		}
		rec.SavingsRatio = &d
	}
	if flag.Valid {
		rec.Flags = []models.Flag{models.Flag(flag.String)}
	}
	return &rec, nil
}

func nullableRisk(r models.RiskLevel) any {
	if r == models.RiskUnknown {
		return nil
	}
	return string(r)
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullableFlag(flags []models.Flag) any {
	if len(flags) == 0 {
		return nil
	}
	return string(flags[0])
}
