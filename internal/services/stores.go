package services

import (
	"context"
	"time"

	"github.com/zemouh/finagent/internal/models"
)

// RecordStore is the persistence port for financial records. It is
// satisfied by both the Postgres repository and the SQLite store.
type RecordStore interface {
	Insert(ctx context.Context, userID int64, a models.BudgetAssessment) (*models.FinancialRecord, error)
	GetByID(ctx context.Context, userID, id int64) (*models.FinancialRecord, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.FinancialRecord, error)
	ListByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.FinancialRecord, error)
	Delete(ctx context.Context, userID, id int64) error
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
	Statistics(ctx context.Context, userID int64) (*models.Statistics, error)
	InsertAdvice(ctx context.Context, recordID int64, text string) error
	GetAdvice(ctx context.Context, recordID int64) (string, error)
}

// UserStore is the persistence port for user accounts
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
