package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"mcquiz/internal/history"
)

const shortKeyLength = 12

// runHistory builds the handler for the history command.
func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to .mcquiz.yml (default: search upward)")
		quizKey := flags.String("quiz", "", "Only attempts of this quiz key (full key, see --summary)")
		player := flags.String("player", "", "Only attempts of this player")
		limit := flags.Int("limit", 20, "Maximum attempts to list (0 for all)")
		summary := flags.Bool("summary", false, "Show per-quiz totals instead of attempts")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if *limit < 0 {
			fmt.Fprintln(stderr, "--limit must be >= 0")
			return ExitUsage
		}

		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Config error:\n%v\n", err)
			return ExitError
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		attempts, err := openAttemptLog(ctx, cfg)
		if err != nil {
			fmt.Fprintf(stderr, "History unavailable: %v\n", err)
			return ExitError
		}
		if attempts == nil {
			fmt.Fprintln(stderr, "History is disabled (history.driver: none)")
			return ExitError
		}
		defer attempts.Close()

		if *summary {
			summaries, err := attempts.Summaries(ctx)
			if err != nil {
				fmt.Fprintf(stderr, "History failed: %v\n", err)
				return ExitError
			}
			if len(summaries) == 0 {
				fmt.Fprintln(stdout, "No attempts recorded yet.")
				return ExitOK
			}
			fmt.Fprintln(stdout, renderSummaries(summaries))
			return ExitOK
		}

		list, err := attempts.List(ctx, history.Filter{QuizKey: strings.TrimSpace(*quizKey), Player: strings.TrimSpace(*player), Limit: *limit})
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		if len(list) == 0 {
			fmt.Fprintln(stdout, "No attempts recorded yet.")
			return ExitOK
		}
		fmt.Fprintln(stdout, renderAttempts(list))
		return ExitOK
	}
}

func renderAttempts(attempts []history.Attempt) string {
	rows := make([][]string, 0, len(attempts))
	for _, attempt := range attempts {
		rows = append(rows, []string{
			attempt.FinishedAt.Local().Format("2006-01-02 15:04"),
			shortKey(attempt.QuizKey),
			attempt.Player,
			string(attempt.Source),
			string(attempt.Mode),
			fmt.Sprintf("%d / %d", attempt.Score, attempt.Total),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Finished", "Quiz", "Player", "Source", "Mode", "Score").
		Rows(rows...).
		String()
}

func renderSummaries(summaries []history.Summary) string {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, []string{
			summary.QuizKey,
			strconv.Itoa(summary.Attempts),
			strconv.Itoa(summary.BestScore),
			fmt.Sprintf("%.0f%%", summary.Percent()),
			summary.LastFinishedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Quiz", "Attempts", "Best", "Correct", "Last played").
		Rows(rows...).
		String()
}

func shortKey(key string) string {
	if len(key) <= shortKeyLength {
		return key
	}
	return key[:shortKeyLength]
}
