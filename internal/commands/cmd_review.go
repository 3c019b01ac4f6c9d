package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/quizkit/deckhand/internal/api"
	"github.com/quizkit/deckhand/internal/core/card"
	"github.com/quizkit/deckhand/internal/core/commit"
	"github.com/quizkit/deckhand/internal/core/session"
	"github.com/quizkit/deckhand/internal/tui"
	"github.com/quizkit/deckhand/pkg/iojson"
)

// ReviewCmd reviews a batch of generated flashcard candidates and
// commits the accepted subset to a deck.
type ReviewCmd struct {
	flags  *Flags
	app    *App
	reader iojson.FileReader[[]card.Seed]
	deck   string
	yes    bool
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags, app *App) *ReviewCmd {
	return &ReviewCmd{flags: flags, app: app}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "review",
		Usage: "Review generated flashcard candidates before saving them",
		Description: `Review opens an interactive session over a batch of generated
flashcard candidates. Accept, edit, or reject each candidate, then save
the accepted set into a deck. Nothing is persisted until you save.

Examples:
  deckhand review --deck grammar -f candidates.json
  generate-cards "irregular verbs" | deckhand review --deck verbs
  deckhand review --deck verbs -f candidates.json --yes   # accept everything`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "deck",
				Aliases:     []string{"d"},
				Usage:       "target deck ID",
				Destination: &cmd.deck,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the interactive review: accept every candidate and save",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	deck := cmd.deck
	if deck == "" {
		deck = cmd.app.Cfg.Review.DefaultDeck
	}
	if deck == "" {
		return fmt.Errorf("no deck given; pass --deck or set review.default_deck in the config")
	}

	seeds, err := cmd.reader.Read()
	if err != nil {
		return fmt.Errorf("read candidates: %w", err)
	}
	if len(seeds) == 0 {
		_, _ = fmt.Fprintln(c.Root().Writer, "No candidates to review.")
		return nil
	}

	sess := session.New(seeds)
	pipeline := commit.New(cmd.app.Client, deck, log.With().Str("component", "commit").Logger())

	log.Info().Int("candidates", len(seeds)).Str("deck", deck).Msg("review: session started")

	var persisted []api.Card
	if cmd.yes {
		persisted, err = cmd.runHeadless(ctx, sess, pipeline)
	} else {
		persisted, err = cmd.runTUI(sess, pipeline, deck)
	}
	if err != nil {
		return err
	}
	if persisted == nil {
		// Session cancelled; decisions are discarded with no side effects.
		return nil
	}

	cmd.report(ctx, c, deck, persisted)
	return nil
}

// runHeadless accepts every candidate and commits in one step.
func (cmd *ReviewCmd) runHeadless(ctx context.Context, sess *session.Session, pipeline *commit.Pipeline) ([]api.Card, error) {
	sess.AcceptAll()

	result, err := pipeline.Complete(ctx, sess.Items())
	if err != nil {
		return nil, fmt.Errorf("save cards: %w", err)
	}
	return result.Persisted, nil
}

// runTUI runs the interactive review and returns the persisted records,
// or nil when the session was cancelled.
func (cmd *ReviewCmd) runTUI(sess *session.Session, pipeline *commit.Pipeline, deck string) ([]api.Card, error) {
	m := tui.New(sess, pipeline, deck, log.With().Str("component", "tui").Logger())

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run review TUI: %w", err)
	}

	fm, ok := final.(tui.Model)
	if !ok {
		return nil, fmt.Errorf("unexpected final model type")
	}
	if fm.Cancelled() {
		return nil, nil
	}
	if err := fm.CommitErr(); err != nil {
		return fm.Persisted(), fmt.Errorf("save cards: %w", err)
	}
	return fm.Persisted(), nil
}

// report prints the outcome. The deck's first page is re-fetched from
// the server rather than echoing local records: the server owns the
// ordering.
func (cmd *ReviewCmd) report(ctx context.Context, c *cli.Command, deck string, persisted []api.Card) {
	w := c.Root().Writer
	_, _ = fmt.Fprintf(w, "Saved %d card(s) to deck %s.\n", len(persisted), deck)

	page, err := cmd.app.Client.ListCards(ctx, deck, 1)
	if err != nil {
		log.Warn().Err(err).Msg("review: refresh after save failed")
		return
	}

	_, _ = fmt.Fprintf(w, "\nDeck %s now starts with:\n", deck)
	for _, rec := range page.Cards {
		front := rec.Front
		if len(front) > 60 {
			front = front[:57] + "..."
		}
		_, _ = fmt.Fprintf(w, "  %-12s %s\n", rec.ID, front)
	}
	if page.HasMore {
		_, _ = fmt.Fprintln(w, "  ...")
	}
}
