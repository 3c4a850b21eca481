package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/repository"
	"github.com/zemouh/finagent/internal/rules"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) int64 {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, NewUserStore(db).Create(context.Background(), u))
	return u.ID
}

func classify(income, expenses, goal int64) models.BudgetAssessment {
	return rules.Classify(decimal.NewFromInt(income), decimal.NewFromInt(expenses), decimal.NewFromInt(goal))
}

func TestInsertAndGetRecord(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	userID := createTestUser(t, db, "alice")

	a := classify(5000, 3000, 1000)
	rec, err := store.Insert(context.Background(), userID, a)
	require.NoError(t, err)
	require.NotZero(t, rec.ID)

	got, err := store.GetByID(context.Background(), userID, rec.ID)
	require.NoError(t, err)

	assert.True(t, got.Income.Equal(decimal.NewFromInt(5000)))
	assert.True(t, got.Remaining.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, models.RiskLow, got.Risk)
	require.NotNil(t, got.SavingsRatio)
	assert.Equal(t, "20", got.SavingsRatio.String())
	assert.Equal(t, a.Messages, got.Messages)
	assert.Empty(t, got.Flags)
	assert.WithinDuration(t, a.Timestamp, got.Timestamp, time.Second)
}

func TestGetRecordIsUserScoped(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	rec, err := store.Insert(context.Background(), alice, classify(5000, 3000, 1000))
	require.NoError(t, err)

	_, err = store.GetByID(context.Background(), bob, rec.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestRecordPreservesFlag(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	userID := createTestUser(t, db, "alice")

	rec, err := store.Insert(context.Background(), userID, classify(3000, 3500, 500))
	require.NoError(t, err)

	got, err := store.GetByID(context.Background(), userID, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, got.Risk)
	require.Len(t, got.Flags, 1)
	assert.Equal(t, models.FlagNegativeRemaining, got.Flags[0])
	assert.Nil(t, got.SavingsRatio)
}

func TestListByUserNewestFirst(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	userID := createTestUser(t, db, "alice")

	first, err := store.Insert(context.Background(), userID, classify(5000, 3000, 1000))
	require.NoError(t, err)
	second, err := store.Insert(context.Background(), userID, classify(6000, 3000, 1000))
	require.NoError(t, err)

	records, err := store.ListByUser(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)

	limited, err := store.ListByUser(context.Background(), userID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListByDateRange(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	userID := createTestUser(t, db, "alice")

	a := classify(5000, 3000, 1000)
	_, err := store.Insert(context.Background(), userID, a)
	require.NoError(t, err)

	start := a.Timestamp.Add(-time.Hour)
	end := a.Timestamp.Add(time.Hour)

	records, err := store.ListByDateRange(context.Background(), userID, start, end)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	none, err := store.ListByDateRange(context.Background(), userID, start.Add(-2*time.Hour), start)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteRecord(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	userID := createTestUser(t, db, "alice")

	rec, err := store.Insert(context.Background(), userID, classify(5000, 3000, 1000))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), userID, rec.ID))
	assert.ErrorIs(t, store.Delete(context.Background(), userID, rec.ID), repository.ErrRecordNotFound)

	_, err = store.GetByID(context.Background(), userID, rec.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestDeleteAllForUser(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < 3; i++ {
		_, err := store.Insert(context.Background(), alice, classify(5000, 3000, 1000))
		require.NoError(t, err)
	}
	_, err := store.Insert(context.Background(), bob, classify(4000, 2000, 500))
	require.NoError(t, err)

	n, err := store.DeleteAllForUser(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	remaining, err := store.ListByUser(context.Background(), bob, 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestStatistics(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	userID := createTestUser(t, db, "alice")

	_, err := store.Insert(context.Background(), userID, classify(4000, 2000, 400))
	require.NoError(t, err)
	_, err = store.Insert(context.Background(), userID, classify(6000, 4000, 600))
	require.NoError(t, err)

	stats, err := store.Statistics(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Count)
	assert.Equal(t, "5000", stats.AvgIncome.String())
	assert.Equal(t, "3000", stats.AvgExpenses.String())
	assert.Equal(t, "2000", stats.AvgRemaining.String())
	require.NotNil(t, stats.AvgSavingsRatio)
	assert.Equal(t, "10", stats.AvgSavingsRatio.String())
}

func TestStatisticsEmpty(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	userID := createTestUser(t, db, "alice")

	stats, err := store.Statistics(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Count)
	assert.True(t, stats.AvgIncome.IsZero())
	assert.Nil(t, stats.AvgSavingsRatio)
}

func TestAdviceRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewRecordStore(db)
	userID := createTestUser(t, db, "alice")

	rec, err := store.Insert(context.Background(), userID, classify(5000, 3000, 1000))
	require.NoError(t, err)

	_, err = store.GetAdvice(context.Background(), rec.ID)
	assert.ErrorIs(t, err, repository.ErrAdviceNotFound)

	require.NoError(t, store.InsertAdvice(context.Background(), rec.ID, "1. Save more."))
	text, err := store.GetAdvice(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "1. Save more.", text)
}
