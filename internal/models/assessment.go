package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel is the coarse three-tier classification of budget health.
// The zero value means the evaluation terminated before risk could be
// assessed (invalid income or missing goal).
type RiskLevel string

const (
	RiskUnknown RiskLevel = ""
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
)

// Flag is a machine-readable tag marking which condition drove the
// classification. An achievable budget carries no flag.
type Flag string

const (
	FlagInvalidIncome     Flag = "invalid_income"
	FlagZeroGoal          Flag = "zero_goal"
	FlagNegativeRemaining Flag = "negative_remaining"
	FlagUnrealisticGoal   Flag = "unrealistic_goal"
	FlagGoalTooHigh       Flag = "goal_too_high"
)

// BudgetAssessment is the result of classifying one (income, fixed
// expenses, saving goal) triple. It is immutable once produced; two
// evaluations with identical inputs differ only in Timestamp.
type BudgetAssessment struct {
	Income        decimal.Decimal  `json:"income"`
	FixedExpenses decimal.Decimal  `json:"fixed_expenses"`
	SavingGoal    decimal.Decimal  `json:"saving_goal"`
	Remaining     decimal.Decimal  `json:"remaining"`
	Risk          RiskLevel        `json:"risk,omitempty"`
	SavingsRatio  *decimal.Decimal `json:"savings_ratio,omitempty"`
	Messages      []string         `json:"messages"`
	Flags         []Flag           `json:"flags,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

// HasFlag reports whether the assessment carries the given flag.
func (a BudgetAssessment) HasFlag(f Flag) bool {
	for _, have := range a.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// FinancialRecord is a persisted BudgetAssessment tied to a user.
type FinancialRecord struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	BudgetAssessment
	CreatedAt time.Time `json:"created_at"`
}

// Statistics aggregates a user's evaluation history.
// AvgSavingsRatio is nil when no stored record has a ratio.
type Statistics struct {
	Count           int64            `json:"count"`
	AvgIncome       decimal.Decimal  `json:"avg_income"`
	AvgExpenses     decimal.Decimal  `json:"avg_expenses"`
	AvgRemaining    decimal.Decimal  `json:"avg_remaining"`
	AvgSavingsRatio *decimal.Decimal `json:"avg_savings_ratio,omitempty"`
}
