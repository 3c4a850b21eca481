package advisor

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/rules"
)

const systemPrompt = "You are a professional financial advisor with expertise in personal finance management. " +
	"Based only on the computed financial facts provided, output a corrective action plan. " +
	"Each action must include: what to change, how much to change, and the expected impact. " +
	"No greetings, no summaries, no disclaimers. Use numbered bullet points only."

const fallbackAdvice = "Advice generation is currently unavailable.\n\n" +
	"General recommendations:\n" +
	"- Aim to save 20-30% of your income\n" +
	"- Build an emergency fund covering 3-6 months of expenses\n" +
	"- Track your spending and review your budget monthly\n" +
	"- Consider automating your savings"

// Models tried in order of preference; the first one that answers wins.
var defaultModels = []string{"glm-4", "glm-4-plus", "glm-3-turbo", "chatglm_turbo"}

// Completer is the text-generation port, satisfied by the GLM client
type Completer interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// Composer turns an assessment's facts into prose recommendations.
// It only ever reads the assessment; the numeric conclusions are fixed
// before it runs, and any failure degrades to a canned message.
type Composer struct {
	client Completer
	models []string
}

// NewComposer creates a new Composer
func NewComposer(client Completer) *Composer {
	return &Composer{
		client: client,
		models: defaultModels,
	}
}

// Advise implements services.Advisor
func (c *Composer) Advise(ctx context.Context, a models.BudgetAssessment) string {
	facts := rules.FactSummary(a)

	for _, model := range c.models {
		text, err := c.client.Complete(ctx, model, systemPrompt, facts)
		if err == nil {
			return text
		}
		log.Warnf("advice generation with %s failed: %v", model, err)
	}
	return fallbackAdvice
}
