package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mcquiz/internal/config"
	"mcquiz/internal/history"
	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
	"mcquiz/internal/ui/play"
)

// playInput allows tests to override stdin for plain prompts.
var playInput io.Reader = os.Stdin

// runLiveUI is a test seam for the bubbletea program.
var runLiveUI = func(model play.Model, stdout io.Writer) (play.Model, error) {
	final, err := tea.NewProgram(model, tea.WithOutput(stdout)).Run()
	if err != nil {
		return model, err
	}
	finished, ok := final.(play.Model)
	if !ok {
		return model, fmt.Errorf("unexpected model %T", final)
	}
	return finished, nil
}

// runPlay builds the handler for the play command.
func runPlay(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to .mcquiz.yml (default: search upward)")
		modeFlag := fs.String("mode", "", "Quiz mode: auto|immediate|review (default: quiz.mode)")
		uiFlag := fs.String("ui", "auto", "UI mode: auto|live|plain")
		formatFlag := fs.String("format", "auto", "Question format: auto|csv|json|yaml")
		player := fs.String("player", "", "Player name stored with the attempt (default: $USER)")
		noHistory := fs.Bool("no-history", false, "Do not record the attempt")
		noColor := fs.Bool("no-color", false, "Disable colors in the live UI")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Expected exactly one question file")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		decision, err := resolveUIMode(*uiFlag, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}
		format, err := question.ParseFormat(*formatFlag)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Config error:\n%v\n", err)
			return ExitError
		}

		set, err := question.LoadFile(fs.Arg(0), format)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
			return ExitError
		}
		printWarnings(stderr, set)

		requested := *modeFlag
		if strings.TrimSpace(requested) == "" {
			requested = cfg.Quiz.Mode
		}
		mode, err := quiz.ResolveMode(requested, set.Format)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		session, err := quiz.New(set, mode)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed: %v\n", err)
			return ExitError
		}

		startedAt := time.Now()
		if decision.useLive {
			model, err := runLiveUI(play.NewModel(session, play.Options{NoColor: *noColor}), stdout)
			if err != nil {
				fmt.Fprintf(stderr, "UI error: %v\n", err)
				return ExitError
			}
			session = model.Session()
		} else if err := play.RunPlain(session, playInput, stdout); err != nil {
			fmt.Fprintf(stderr, "Play failed: %v\n", err)
			return ExitError
		}

		if session.Finished && !*noHistory {
			if err := recordTerminalAttempt(cfg, session, playerName(*player), startedAt); err != nil {
				fmt.Fprintf(stderr, "Warning: attempt not recorded: %v\n", err)
			}
		}
		return ExitOK
	}
}

// recordTerminalAttempt stores a finished terminal session.
func recordTerminalAttempt(cfg config.Config, session *quiz.Session, player string, startedAt time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	attempts, err := openAttemptLog(ctx, cfg)
	if err != nil || attempts == nil {
		return err
	}
	defer attempts.Close()
	attempt, err := history.AttemptFromSession(session, history.SourceTerminal, player, startedAt)
	if err != nil {
		return err
	}
	_, err = attempts.Record(ctx, attempt)
	return err
}

func playerName(flagValue string) string {
	if name := strings.TrimSpace(flagValue); name != "" {
		return name
	}
	if name := strings.TrimSpace(os.Getenv("USER")); name != "" {
		return name
	}
	return "local"
}

func printWarnings(w io.Writer, set question.Set) {
	for _, warning := range set.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}
