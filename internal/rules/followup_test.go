package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFollowUpQuestionsCoverEveryOutcome(t *testing.T) {
	cases := []struct {
		name                string
		income, fixed, goal string
	}{
		{"invalid income", "0", "0", "100"},
		{"zero goal", "4000", "1000", "0"},
		{"overspending", "3000", "3500", "500"},
		{"unrealistic", "2000", "500", "2500"},
		{"tight", "5000", "3000", "2500"},
		{"achievable", "5000", "3000", "1000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := Classify(dec(tc.income), dec(tc.fixed), dec(tc.goal))
			qs := FollowUpQuestions(a)
			assert.NotEmpty(t, qs, "every flagged or Low-risk outcome gets follow-ups")
		})
	}
}

func TestFollowUpQuestionsMediumMatchesFlag(t *testing.T) {
	a := Classify(dec("5000"), dec("3000"), dec("2500"))
	qs := FollowUpQuestions(a)

	assert.Contains(t, qs[0], "non-essential")
}

func TestFollowUpQuestionsDeterministic(t *testing.T) {
	a := Classify(dec("5000"), dec("3000"), dec("1000"))
	assert.Equal(t, FollowUpQuestions(a), FollowUpQuestions(a))
}
