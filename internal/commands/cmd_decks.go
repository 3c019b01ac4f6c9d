package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/quizkit/deckhand/pkg/iojson"
)

// DecksCmd lists the decks available on the card service.
type DecksCmd struct {
	flags    *Flags
	app      *App
	jsonFlag bool
}

// NewDecksCmd creates a new decks command.
func NewDecksCmd(flags *Flags, app *App) *DecksCmd {
	return &DecksCmd{flags: flags, app: app}
}

// Register adds the decks command to the application.
func (cmd *DecksCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "decks",
		Usage: "List decks on the card service",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonFlag,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DecksCmd) run(ctx context.Context, c *cli.Command) error {
	decks, err := cmd.app.Client.ListDecks(ctx)
	if err != nil {
		return fmt.Errorf("list decks: %w", err)
	}

	w := c.Root().Writer

	if cmd.jsonFlag {
		return iojson.Print(w, decks)
	}

	if len(decks) == 0 {
		_, _ = fmt.Fprintln(w, "No decks found.")
		return nil
	}

	_, _ = fmt.Fprintf(w, "%-16s %-30s %s\n", "ID", "NAME", "CARDS")
	for _, d := range decks {
		_, _ = fmt.Fprintf(w, "%-16s %-30s %d\n", d.ID, d.Name, d.CardCount)
	}
	return nil
}
