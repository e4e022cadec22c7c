package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/spotterhq/spotter/pkg/query"
	"github.com/spotterhq/spotter/pkg/store"
)

// HistoryCommand creates the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show or clear the search history",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum entries to show (0 for all)",
				Value: 20,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return showHistory(c.String("config"), c.Int("limit"))
		},
		Commands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Delete the whole search history",
				Action: func(ctx context.Context, c *cli.Command) error {
					return clearHistory(c.String("config"))
				},
			},
		},
	}
}

func showHistory(configPath string, limit int) error {
	env, err := loadAppEnv(configPath)
	if err != nil {
		return err
	}

	entries, err := env.history.All()
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No searches recorded yet.")
		return nil
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for _, entry := range entries {
		fmt.Println(formatHistoryEntry(entry))
	}
	return nil
}

func formatHistoryEntry(entry store.HistoryEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %q", formatTime(entry.Timestamp), entry.Phrase)
	if entry.Mode != "" {
		fmt.Fprintf(&b, " [%s]", entry.Mode)
	}
	if len(entry.Authors) > 0 {
		fmt.Fprintf(&b, " scoped to %d accounts", len(entry.Authors))
	} else {
		b.WriteString(" all of X")
	}
	if entry.Since != nil {
		fmt.Fprintf(&b, " since %s", entry.Since.Format(query.DateFormat))
	}
	if entry.Until != nil {
		fmt.Fprintf(&b, " until %s", entry.Until.Format(query.DateFormat))
	}
	fmt.Fprintf(&b, " -> %d results", entry.ResultCount)

	return b.String()
}

func clearHistory(configPath string) error {
	env, err := loadAppEnv(configPath)
	if err != nil {
		return err
	}

	if err := env.history.Clear(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	fmt.Println("Search history cleared.")
	return nil
}
