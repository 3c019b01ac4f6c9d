package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/quizkit/deckhand/internal/api"
	"github.com/quizkit/deckhand/internal/commands"
	"github.com/quizkit/deckhand/internal/core/config"
	"github.com/quizkit/deckhand/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}
	deckhandApp := &commands.App{}

	app := &cli.Command{
		Name:      "deckhand",
		Usage:     "Review machine-generated flashcards before they reach your decks",
		UsageText: "deckhand [global options] command [command options]",
		Description: `Deckhand takes a batch of generated flashcard candidates, walks you
through an interactive review (accept, edit, reject), and saves the
accepted cards to your card service. Nothing is written until you save.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("DECKHAND_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("DECKHAND_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("DECKHAND_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			client := api.New(cfg.Server.BaseURL, cfg.Server.Token,
				api.WithAttempts(cfg.Retry.ReadAttempts, cfg.Retry.WriteAttempts),
				api.WithLogger(log.With().Str("component", "api").Logger()),
			)

			deckhandApp.Cfg = cfg
			deckhandApp.Client = client

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewReviewCmd(flags, deckhandApp).Register(app)
	app = commands.NewDecksCmd(flags, deckhandApp).Register(app)
	app = commands.NewDueCmd(flags, deckhandApp).Register(app)

	exitCode := 0
	if runErr := app.Run(ctx, os.Args); runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
