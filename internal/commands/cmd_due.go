package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// DueCmd fetches the study queue, and optionally submits a review grade
// for one card. Scheduling stays on the server; this is only the
// retrieval/submission plumbing.
type DueCmd struct {
	flags  *Flags
	app    *App
	deck   string
	submit string
	grade  int
}

// NewDueCmd creates a new due command.
func NewDueCmd(flags *Flags, app *App) *DueCmd {
	return &DueCmd{flags: flags, app: app}
}

// Register adds the due command to the application.
func (cmd *DueCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "due",
		Usage: "Show cards due for study, or submit a review grade",
		Description: `Without flags, lists the cards currently due for review.

Examples:
  deckhand due
  deckhand due --deck verbs
  deckhand due --submit card_123 --grade 4`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "deck",
				Aliases:     []string{"d"},
				Usage:       "limit the queue to one deck",
				Destination: &cmd.deck,
			},
			&cli.StringFlag{
				Name:        "submit",
				Usage:       "card ID to submit a review grade for",
				Destination: &cmd.submit,
			},
			&cli.IntFlag{
				Name:        "grade",
				Usage:       "review grade 0-5 (with --submit)",
				Value:       -1,
				Destination: &cmd.grade,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DueCmd) run(ctx context.Context, c *cli.Command) error {
	w := c.Root().Writer

	if cmd.submit != "" {
		if cmd.grade < 0 || cmd.grade > 5 {
			return fmt.Errorf("--grade must be between 0 and 5")
		}
		if err := cmd.app.Client.SubmitGrade(ctx, cmd.submit, cmd.grade); err != nil {
			return fmt.Errorf("submit grade: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Recorded grade %d for card %s.\n", cmd.grade, cmd.submit)
		return nil
	}

	cards, err := cmd.app.Client.StudyQueue(ctx, cmd.deck)
	if err != nil {
		return fmt.Errorf("fetch study queue: %w", err)
	}

	if len(cards) == 0 {
		_, _ = fmt.Fprintln(w, "Nothing due. Nice.")
		return nil
	}

	_, _ = fmt.Fprintf(w, "%d card(s) due:\n", len(cards))
	for _, card := range cards {
		front := card.Front
		if len(front) > 60 {
			front = front[:57] + "..."
		}
		_, _ = fmt.Fprintf(w, "  %-12s %s\n", card.ID, front)
	}
	return nil
}
