package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/repository"
	"github.com/zemouh/finagent/internal/rules"
)

const defaultHistoryLimit = 100

// Advisor turns an assessment into prose recommendations. It must not
// fail: implementations degrade to a canned message on any error, and
// they may read but never alter the assessment.
type Advisor interface {
	Advise(ctx context.Context, a models.BudgetAssessment) string
}

// BudgetService orchestrates classification, persistence and advice
type BudgetService struct {
	records RecordStore
	advisor Advisor
}

// NewBudgetService creates a new BudgetService. advisor may be nil when
// no advisory backend is configured.
func NewBudgetService(records RecordStore, advisor Advisor) *BudgetService {
	return &BudgetService{
		records: records,
		advisor: advisor,
	}
}

// Evaluate classifies the budget triple, stores the result for the user
// and optionally attaches generated advice. Classification itself never
// fails; errors come only from the store.
func (s *BudgetService) Evaluate(ctx context.Context, userID int64, income, fixedExpenses, savingGoal decimal.Decimal, withAdvice bool) (*models.EvaluateResponse, error) {
	assessment := rules.Classify(income, fixedExpenses, savingGoal)

	rec, err := s.records.Insert(ctx, userID, assessment)
	if err != nil {
		return nil, fmt.Errorf("failed to store assessment: %w", err)
	}

	resp := &models.EvaluateResponse{
		Record:    *rec,
		FollowUps: rules.FollowUpQuestions(assessment),
	}

	if withAdvice && s.advisor != nil {
		resp.Advice = s.advisor.Advise(ctx, assessment)
		if err := s.records.InsertAdvice(ctx, rec.ID, resp.Advice); err != nil {
			// advice is best effort; the assessment is already stored
			log.Errorf("failed to store advice for record %d: %v", rec.ID, err)
		}
	}

	return resp, nil
}

// History returns a user's stored evaluations, newest first
func (s *BudgetService) History(ctx context.Context, userID int64, limit int) ([]*models.FinancialRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.records.ListByUser(ctx, userID, limit)
}

// HistoryRange returns a user's evaluations within [start, end)
func (s *BudgetService) HistoryRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.FinancialRecord, error) {
	if !end.After(start) {
		return nil, errors.New("end date must be after start date")
	}
	return s.records.ListByDateRange(ctx, userID, start, end)
}

// Record returns one stored evaluation with its advice, if any
func (s *BudgetService) Record(ctx context.Context, userID, id int64) (*models.FinancialRecord, string, error) {
	rec, err := s.records.GetByID(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	advice, err := s.records.GetAdvice(ctx, rec.ID)
	if errors.Is(err, repository.ErrAdviceNotFound) {
		return rec, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return rec, advice, nil
}

// DeleteRecord removes one stored evaluation
func (s *BudgetService) DeleteRecord(ctx context.Context, userID, id int64) error {
	return s.records.Delete(ctx, userID, id)
}

// DeleteAll removes a user's entire history and returns the count
func (s *BudgetService) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	return s.records.DeleteAllForUser(ctx, userID)
}

// Statistics returns a user's aggregate averages
func (s *BudgetService) Statistics(ctx context.Context, userID int64) (*models.Statistics, error) {
	return s.records.Statistics(ctx, userID)
}

// ExportCSV writes a user's full history as CSV, newest first, in the
// column order of the stored record fields.
func (s *BudgetService) ExportCSV(ctx context.Context, userID int64, w io.Writer) error {
	records, err := s.records.ListByUser(ctx, userID, defaultHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load records for export: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "evaluated_at", "income", "fixed_expenses", "saving_goal", "remaining", "risk_level", "savings_ratio", "flag"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		ratio := ""
		if rec.SavingsRatio != nil {
			ratio = rec.SavingsRatio.StringFixed(2)
		}
		flag := ""
		if len(rec.Flags) > 0 {
			flag = string(rec.Flags[0])
		}
		row := []string{
			fmt.Sprintf("%d", rec.ID),
			rec.Timestamp.UTC().Format(time.RFC3339),
			rec.Income.StringFixed(2),
			rec.FixedExpenses.StringFixed(2),
			rec.SavingGoal.StringFixed(2),
			rec.Remaining.StringFixed(2),
			string(rec.Risk),
			ratio,
			flag,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
