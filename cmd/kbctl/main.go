package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"chatwidget/internal/knowledge"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "kbctl",
		Usage:  "Inspect and query the chat widget knowledge base",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kb",
				Usage:   "Path to a YAML knowledge file (default: embedded seed)",
				EnvVars: []string{"KNOWLEDGE_FILE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "query",
				Usage:     "Match a query and print the selected answer",
				ArgsUsage: "<text...>",
				Action:    queryCommand,
			},
			{
				Name:   "keywords",
				Usage:  "List keywords in match order",
				Action: keywordsCommand,
			},
			{
				Name:   "stats",
				Usage:  "Print entry and tag counts",
				Action: statsCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", c.String("log-level"))
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func loadMatcher(c *cli.Context) (*knowledge.Matcher, error) {
	kb, err := knowledge.Load(c.String("kb"))
	if err != nil {
		return nil, err
	}
	return knowledge.NewMatcher(kb, knowledge.WithLogger(slog.Default())), nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("query text is required")
	}
	m, err := loadMatcher(c)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, m.QueryText(strings.Join(c.Args().Slice(), " ")))
}

func keywordsCommand(c *cli.Context) error {
	m, err := loadMatcher(c)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, m.Keywords())
}

func statsCommand(c *cli.Context) error {
	m, err := loadMatcher(c)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, m.Stats())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
