package rules

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zemouh/finagent/internal/models"
)

// Canonical message lines, in the order Classify emits them.
const (
	msgInvalidIncome   = "Income must be greater than 0."
	msgZeroGoal        = "Saving goal is 0 or less. Set a small positive goal to start."
	msgOverspending    = "Warning: Your expenses exceed your income."
	msgOverspendingFix = "Action: reduce expenses or increase income."
	msgUnrealistic     = "Your saving goal is unrealistic (greater than income)."
	msgUnrealisticFix  = "Action: increase income or lower the goal."
	msgGoalTooHigh     = "Your saving goal is too high based on current expenses."
	msgGoalTooHighFix  = "Action: lower the saving goal or cut expenses."
	msgAchievable      = "Your saving goal is achievable."

	msgSuggestions      = "Suggestions:"
	msgSuggestRange     = "Keep savings between 20% and 40% of income."
	msgSuggestTrim      = "Reduce non-essential spending if needed."
	msgSuggestEmergency = "Build an emergency fund (3-6 months)."
)

var oneHundred = decimal.NewFromInt(100)

// Classify evaluates a budget triple and returns a fresh assessment.
// It is pure apart from the timestamp: identical inputs always produce
// identical classification fields (risk, ratio, messages, flags).
//
// The checks run as a strict decision tree. Invalid or structurally
// impossible budgets (non-positive income, non-positive goal, expenses
// at or above income, goal above income) terminate immediately with a
// single flag and no savings ratio; a tight-but-possible goal (above
// remaining, at or below income) and an achievable goal both fall
// through to the ratio and the generic suggestions. A goal exactly
// equal to remaining counts as achievable.
//
// The savings ratio is goal/income*100 rounded to 2 decimal places,
// half away from zero. The arithmetic stays in decimal form end to
// end; no binary floating point is involved.
func Classify(income, fixedExpenses, savingGoal decimal.Decimal) models.BudgetAssessment {
	remaining := income.Sub(fixedExpenses)

	a := models.BudgetAssessment{
		Income:        income,
		FixedExpenses: fixedExpenses,
		SavingGoal:    savingGoal,
		Remaining:     remaining,
		Timestamp:     time.Now().UTC(),
	}

	if income.Sign() <= 0 {
		a.Flags = []models.Flag{models.FlagInvalidIncome}
		a.Messages = []string{msgInvalidIncome}
		return a
	}

	if savingGoal.Sign() <= 0 {
		a.Flags = []models.Flag{models.FlagZeroGoal}
		a.Messages = []string{msgZeroGoal}
		return a
	}

	if remaining.Sign() <= 0 {
		a.Risk = models.RiskHigh
		a.Flags = []models.Flag{models.FlagNegativeRemaining}
		a.Messages = []string{msgOverspending, msgOverspendingFix}
		return a
	}

	if savingGoal.GreaterThan(income) {
		a.Risk = models.RiskHigh
		a.Flags = []models.Flag{models.FlagUnrealisticGoal}
		a.Messages = []string{msgUnrealistic, msgUnrealisticFix}
		return a
	}

	if savingGoal.GreaterThan(remaining) {
		a.Risk = models.RiskMedium
		a.Flags = []models.Flag{models.FlagGoalTooHigh}
		a.Messages = []string{msgGoalTooHigh, msgGoalTooHighFix}
	} else {
		a.Risk = models.RiskLow
		a.Messages = []string{msgAchievable}
	}

	ratio := savingGoal.Div(income).Mul(oneHundred).Round(2)
	a.SavingsRatio = &ratio

	a.Messages = append(a.Messages,
		"Recommended saving ratio: "+ratio.StringFixed(2)+"%",
		msgSuggestions,
		msgSuggestRange,
		msgSuggestTrim,
		msgSuggestEmergency,
	)

	return a
}

// FactSummary renders the assessment's numeric conclusions as one fact
// per line. It is the only input the advisory composer may ground its
// prose on.
func FactSummary(a models.BudgetAssessment) string {
	s := "Income: $" + a.Income.StringFixed(2) + "\n" +
		"Fixed Expenses: $" + a.FixedExpenses.StringFixed(2) + "\n" +
		"Saving Goal: $" + a.SavingGoal.StringFixed(2) + "\n" +
		"Remaining: $" + a.Remaining.StringFixed(2)
	if a.Risk != models.RiskUnknown {
		s += "\nRisk Level: " + string(a.Risk)
	}
	if a.SavingsRatio != nil {
		s += "\nSavings Ratio: " + a.SavingsRatio.StringFixed(2) + "%"
	}
	for _, f := range a.Flags {
		s += "\nFlag: " + string(f)
	}
	return s
}
