package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/repository"
	"github.com/zemouh/finagent/internal/services"
)

const localUsername = "local"

// App is the interactive prompt-loop front end. Evaluations are stored
// under a single auto-created local account.
type App struct {
	prompter  *Prompter
	out       io.Writer
	budgetSvc *services.BudgetService
	users     services.UserStore
	advice    bool
}

// NewApp creates a new CLI App. withAdvice controls whether each
// evaluation also requests generated advice.
func NewApp(in io.Reader, out io.Writer, budgetSvc *services.BudgetService, users services.UserStore, withAdvice bool) *App {
	return &App{
		prompter:  NewPrompter(in, out),
		out:       out,
		budgetSvc: budgetSvc,
		users:     users,
		advice:    withAdvice,
	}
}

// Run executes the prompt loop until the user quits or input ends
func (a *App) Run(ctx context.Context) error {
	userID, err := a.localUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up local user: %w", err)
	}

	fmt.Fprintln(a.out, "Personal Budget Assistant")
	fmt.Fprintln(a.out, "Type q at any prompt to quit.")

	for {
		choice, err := a.prompter.ReadLine("Press Enter to calculate, or type q to quit: ")
		if err != nil {
			return quitOrErr(err)
		}
		if choice == "q" {
			fmt.Fprintln(a.out, "Bye.")
			return nil
		}

		income, err := a.prompter.ReadAmount("Monthly income: ")
		if err != nil {
			return quitOrErr(err)
		}
		fixed, err := a.prompter.ReadAmount("Fixed expenses: ")
		if err != nil {
			return quitOrErr(err)
		}
		goal, err := a.prompter.ReadAmount("Saving goal: ")
		if err != nil {
			return quitOrErr(err)
		}

		resp, err := a.budgetSvc.Evaluate(ctx, userID, income, fixed, goal, a.advice)
		if err != nil {
			return err
		}

		fmt.Fprintln(a.out, "-------Result-------")
		for _, line := range resp.Record.Messages {
			fmt.Fprintln(a.out, line)
		}
		fmt.Fprintln(a.out, "--------------------")

		if len(resp.FollowUps) > 0 {
			fmt.Fprintln(a.out, "Worth thinking about:")
			for _, q := range resp.FollowUps {
				fmt.Fprintln(a.out, "  - "+q)
			}
		}

		if resp.Advice != "" {
			fmt.Fprintln(a.out, "-------Advice-------")
			fmt.Fprintln(a.out, resp.Advice)
			fmt.Fprintln(a.out, "--------------------")
		}
	}
}

func (a *App) localUser(ctx context.Context) (int64, error) {
	u, err := a.users.GetByUsername(ctx, localUsername)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return 0, err
	}

	u = &models.User{
		Username:     localUsername,
		Email:        "local@localhost",
		PasswordHash: "!", // no password login for the local account
	}
	if err := a.users.Create(ctx, u); err != nil {
		return 0, err
	}
	return u.ID, nil
}

func quitOrErr(err error) error {
	if errors.Is(err, ErrQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
