package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/spotterhq/spotter/pkg/export"
	"github.com/spotterhq/spotter/pkg/query"
	"github.com/spotterhq/spotter/pkg/search"
	"github.com/spotterhq/spotter/pkg/tweet"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	tweetStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1).
			Margin(0, 0, 1, 2)

	authorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Margin(1, 0, 0, 0)
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search for a phrase and show or export the results",
		ArgsUsage: "<phrase>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Result ordering: Latest or Top",
			},
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Maximum provider pages to fetch (0 uses the configured budget)",
			},
			&cli.StringFlag{
				Name:  "since",
				Usage: "Only results on or after this date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "until",
				Usage: "Only results before this date (YYYY-MM-DD)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Search all of X instead of the curated accounts",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export instead of displaying: csv, csvgz, tsv or xlsx",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Export file path (defaults to a name derived from the phrase)",
			},
			&cli.BoolFlag{
				Name:  "no-pager",
				Usage: "Disable pager and output directly to terminal",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			phrase := strings.TrimSpace(c.Args().First())
			if phrase == "" {
				return fmt.Errorf("usage: spotter search <phrase>")
			}
			return runSearch(ctx, c, phrase)
		},
	}
}

func runSearch(ctx context.Context, c *cli.Command, phrase string) error {
	env, err := loadAppEnv(c.String("config"))
	if err != nil {
		return err
	}

	req := search.Request{
		Phrase:     phrase,
		Mode:       c.String("mode"),
		PageBudget: c.Int("pages"),
	}
	if req.Mode == "" {
		req.Mode = env.cfg.Provider.DefaultMode
	}
	if req.PageBudget == 0 {
		req.PageBudget = env.cfg.Provider.PageBudget
	}
	if c.Bool("all") {
		req.Authors = []string{}
	}

	if since := c.String("since"); since != "" {
		t, err := time.Parse(query.DateFormat, since)
		if err != nil {
			return fmt.Errorf("invalid --since date %q, expected YYYY-MM-DD", since)
		}
		req.Since = &t
	}
	if until := c.String("until"); until != "" {
		t, err := time.Parse(query.DateFormat, until)
		if err != nil {
			return fmt.Errorf("invalid --until date %q, expected YYYY-MM-DD", until)
		}
		req.Until = &t
	}

	result, err := env.service.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if formatFlag := c.String("format"); formatFlag != "" {
		return exportResults(c.String("output"), formatFlag, phrase, result)
	}

	output := formatSearchOutput(phrase, result)
	if c.Bool("no-pager") || !isTerminal() {
		fmt.Print(output)
		return nil
	}
	return displayWithPager(output)
}

// exportResults writes the rows to a file in the requested format.
func exportResults(path, formatFlag, phrase string, result *search.Result) error {
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	if path == "" {
		path = format.Filename("spotter_" + exportSlug(phrase))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close export file: %v\n", err)
		}
	}()

	if err := export.Write(f, format, result.Rows); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("Exported %d results to %s\n", len(result.Rows), path)
	return nil
}

// formatSearchOutput creates the styled terminal rendering of a result set
func formatSearchOutput(phrase string, result *search.Result) string {
	var output strings.Builder

	output.WriteString(titleStyle.Render(fmt.Sprintf("Results for %s", phrase)))
	output.WriteString("\n")

	scope := "all of X"
	if len(result.Authors) > 0 {
		scope = fmt.Sprintf("%d curated accounts", len(result.Authors))
	}
	summary := fmt.Sprintf("%d tweets (%s)  query: %s", len(result.Rows), scope, result.Query)
	output.WriteString(summaryStyle.Render(summary))
	output.WriteString("\n")

	if len(result.Rows) == 0 {
		output.WriteString(noDataStyle.Render("Nothing matched."))
		output.WriteString("\n")
		return output.String()
	}

	for i, row := range result.Rows {
		output.WriteString(formatTweet(row, i+1))
		output.WriteString("\n")
	}

	return output.String()
}

// formatTweet formats a single result for display
func formatTweet(row tweet.Row, index int) string {
	var content strings.Builder

	author := fmt.Sprintf("#%d  %s @%s", index, row.AuthorName, row.AuthorHandle)
	content.WriteString(authorStyle.Render(author))
	content.WriteString("  ")
	content.WriteString(metaStyle.Render(formatCreatedAt(row.CreatedAt)))
	content.WriteString("\n\n")

	content.WriteString(row.Text)

	if row.URL != "" {
		content.WriteString("\n" + urlStyle.Render(row.URL))
	}

	counters := fmt.Sprintf("%s likes | %s RTs | %s replies | %s views",
		formatNumber(row.LikeCount), formatNumber(row.RetweetCount),
		formatNumber(row.ReplyCount), formatNumber(row.ViewCount))
	content.WriteString("\n\n")
	content.WriteString(metaStyle.Render(counters))

	return tweetStyle.Render(content.String())
}

// formatCreatedAt renders the provider's timestamp relative to now,
// falling back to the raw string when the format is unexpected.
func formatCreatedAt(createdAt string) string {
	if createdAt == "" {
		return ""
	}
	if t, err := time.Parse(time.RubyDate, createdAt); err == nil {
		return formatTime(t)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		return formatTime(t)
	}
	return createdAt
}
