package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/repository"
)

// memRecordStore is an in-memory RecordStore for service tests
type memRecordStore struct {
	nextID  int64
	records map[int64]*models.FinancialRecord
	advice  map[int64]string
}

func newMemRecordStore() *memRecordStore {
	return &memRecordStore{
		nextID:  1,
		records: make(map[int64]*models.FinancialRecord),
		advice:  make(map[int64]string),
	}
}

func (m *memRecordStore) Insert(_ context.Context, userID int64, a models.BudgetAssessment) (*models.FinancialRecord, error) {
	rec := &models.FinancialRecord{
		ID:               m.nextID,
		UserID:           userID,
		BudgetAssessment: a,
		CreatedAt:        time.Now().UTC(),
	}
	m.records[rec.ID] = rec
	m.nextID++
	return rec, nil
}

func (m *memRecordStore) GetByID(_ context.Context, userID, id int64) (*models.FinancialRecord, error) {
	rec, ok := m.records[id]
	if !ok || rec.UserID != userID {
		return nil, repository.ErrRecordNotFound
	}
	return rec, nil
}

func (m *memRecordStore) ListByUser(_ context.Context, userID int64, limit int) ([]*models.FinancialRecord, error) {
	var out []*models.FinancialRecord
	for id := m.nextID - 1; id >= 1 && len(out) < limit; id-- {
		if rec, ok := m.records[id]; ok && rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRecordStore) ListByDateRange(_ context.Context, userID int64, start, end time.Time) ([]*models.FinancialRecord, error) {
	var out []*models.FinancialRecord
	for id := int64(1); id < m.nextID; id++ {
		rec, ok := m.records[id]
		if !ok || rec.UserID != userID {
			continue
		}
		if !rec.Timestamp.Before(start) && rec.Timestamp.Before(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRecordStore) Delete(_ context.Context, userID, id int64) error {
	rec, ok := m.records[id]
	if !ok || rec.UserID != userID {
		return repository.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memRecordStore) DeleteAllForUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	for id, rec := range m.records {
		if rec.UserID == userID {
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}

func (m *memRecordStore) Statistics(_ context.Context, userID int64) (*models.Statistics, error) {
	return &models.Statistics{}, nil
}

func (m *memRecordStore) InsertAdvice(_ context.Context, recordID int64, text string) error {
	m.advice[recordID] = text
	return nil
}

func (m *memRecordStore) GetAdvice(_ context.Context, recordID int64) (string, error) {
	text, ok := m.advice[recordID]
	if !ok {
		return "", repository.ErrAdviceNotFound
	}
	return text, nil
}

type staticAdvisor struct {
	text string
}

func (a staticAdvisor) Advise(context.Context, models.BudgetAssessment) string {
	return a.text
}

func TestEvaluateStoresAssessment(t *testing.T) {
	store := newMemRecordStore()
	svc := NewBudgetService(store, nil)

	resp, err := svc.Evaluate(context.Background(), 1,
		decimal.NewFromInt(5000), decimal.NewFromInt(3000), decimal.NewFromInt(1000), false)
	require.NoError(t, err)

	assert.Equal(t, models.RiskLow, resp.Record.Risk)
	assert.NotZero(t, resp.Record.ID)
	assert.NotEmpty(t, resp.FollowUps)
	assert.Empty(t, resp.Advice)
	assert.Len(t, store.records, 1)
}

func TestEvaluateWithAdvice(t *testing.T) {
	store := newMemRecordStore()
	svc := NewBudgetService(store, staticAdvisor{text: "cut the streaming services"})

	resp, err := svc.Evaluate(context.Background(), 1,
		decimal.NewFromInt(5000), decimal.NewFromInt(3000), decimal.NewFromInt(2500), true)
	require.NoError(t, err)

	assert.Equal(t, "cut the streaming services", resp.Advice)
	assert.Equal(t, "cut the streaming services", store.advice[resp.Record.ID])
}

func TestEvaluateAdviceSkippedWithoutRequest(t *testing.T) {
	store := newMemRecordStore()
	svc := NewBudgetService(store, staticAdvisor{text: "unused"})

	resp, err := svc.Evaluate(context.Background(), 1,
		decimal.NewFromInt(5000), decimal.NewFromInt(3000), decimal.NewFromInt(1000), false)
	require.NoError(t, err)

	assert.Empty(t, resp.Advice)
	assert.Empty(t, store.advice)
}

func TestRecordReturnsAdvice(t *testing.T) {
	store := newMemRecordStore()
	svc := NewBudgetService(store, staticAdvisor{text: "advice text"})

	resp, err := svc.Evaluate(context.Background(), 7,
		decimal.NewFromInt(4000), decimal.NewFromInt(1000), decimal.NewFromInt(500), true)
	require.NoError(t, err)

	rec, advice, err := svc.Record(context.Background(), 7, resp.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Record.ID, rec.ID)
	assert.Equal(t, "advice text", advice)

	// other users cannot see the record
	_, _, err = svc.Record(context.Background(), 8, resp.Record.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestHistoryRangeRejectsInvertedRange(t *testing.T) {
	svc := NewBudgetService(newMemRecordStore(), nil)

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.HistoryRange(context.Background(), 1, start, start)
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	store := newMemRecordStore()
	svc := NewBudgetService(store, nil)

	_, err := svc.Evaluate(context.Background(), 1,
		decimal.NewFromInt(5000), decimal.NewFromInt(3000), decimal.NewFromInt(1000), false)
	require.NoError(t, err)
	_, err = svc.Evaluate(context.Background(), 1,
		decimal.NewFromInt(3000), decimal.NewFromInt(3500), decimal.NewFromInt(500), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), 1, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,evaluated_at,income,fixed_expenses,saving_goal,remaining,risk_level,savings_ratio,flag", lines[0])
	// newest first: the overspending record comes before the achievable one
	assert.Contains(t, lines[1], "negative_remaining")
	assert.Contains(t, lines[2], "20.00")
}
