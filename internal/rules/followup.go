package rules

import (
	"github.com/zemouh/finagent/internal/models"
)

// FollowUpQuestions maps an assessment to the follow-up questions the
// advisory layer asks next. The mapping is total: every (risk, flag)
// combination Classify can produce has an entry, and unflagged results
// get questions keyed on risk alone.
func FollowUpQuestions(a models.BudgetAssessment) []string {
	switch {
	case a.HasFlag(models.FlagInvalidIncome):
		return []string{
			"What is your actual monthly take-home income?",
			"Do you have irregular income sources we should average out?",
		}
	case a.HasFlag(models.FlagZeroGoal):
		return []string{
			"Could you commit to saving even a small amount, like 5% of income?",
			"What is the first thing you would want savings for?",
		}
	case a.HasFlag(models.FlagNegativeRemaining):
		return []string{
			"Which fixed expenses could you reduce or eliminate this month?",
			"Is there a way to add income in the short term?",
			"Do you have debt payments included in your fixed expenses?",
		}
	case a.HasFlag(models.FlagUnrealisticGoal):
		return []string{
			"What deadline is driving a goal larger than your income?",
			"Could the goal be spread over several months instead?",
		}
	case a.HasFlag(models.FlagGoalTooHigh):
		return []string{
			"Which non-essential expenses could you cut to close the gap?",
			"Would a slightly lower goal this month still meet your plans?",
		}
	}

	switch a.Risk {
	case models.RiskLow:
		return []string{
			"Do you want to automate this saving amount each month?",
			"Have you started a 3-6 month emergency fund?",
		}
	default:
		return nil
	}
}
