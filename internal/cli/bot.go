package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mcquiz/internal/history"
	"mcquiz/internal/question"
	"mcquiz/internal/telegram"
)

// TokenEnv overrides telegram.token.
const TokenEnv = "MCQUIZ_TELEGRAM_TOKEN"

// telegramClient is the part of *tgbotapi.BotAPI the bot command uses.
type telegramClient interface {
	telegram.API
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// newTelegramClient is a test seam for connecting to Telegram.
var newTelegramClient = func(token string) (telegramClient, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return api, nil
}

// runBot builds the handler for the bot command.
func runBot(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to .mcquiz.yml (default: search upward)")
		questionsFile := fs.String("questions", "", "Questions served by /quiz (overrides telegram.questions_file)")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Config error:\n%v\n", err)
			return ExitError
		}
		token := strings.TrimSpace(os.Getenv(TokenEnv))
		if token == "" {
			token = strings.TrimSpace(cfg.Telegram.Token)
		}
		if token == "" {
			fmt.Fprintf(stderr, "Missing bot token: set telegram.token or %s\n", TokenEnv)
			return ExitUsage
		}

		path := strings.TrimSpace(*questionsFile)
		if path == "" {
			path = cfg.Telegram.QuestionsFile
		}
		var questions string
		format := question.FormatAuto
		if path != "" {
			set, err := question.LoadFile(path, question.FormatAuto)
			if err != nil {
				fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
				return ExitError
			}
			printWarnings(stderr, set)
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(stderr, "Load failed: %v\n", err)
				return ExitError
			}
			questions = string(data)
			format = set.Format
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := newLogger(stderr)
		app, err := openGame(ctx, cfg, history.SourceTelegram, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Startup failed: %v\n", err)
			return ExitError
		}
		defer func() {
			if err := app.Close(); err != nil {
				logger.Printf("close: %v", err)
			}
		}()

		client, err := newTelegramClient(token)
		if err != nil {
			fmt.Fprintf(stderr, "Telegram connection failed: %v\n", err)
			return ExitError
		}
		bot, err := telegram.New(client, telegram.Config{
			Game:      app.service,
			Questions: questions,
			Format:    format,
			Logger:    logger,
		})
		if err != nil {
			fmt.Fprintf(stderr, "Startup failed: %v\n", err)
			return ExitError
		}

		updateConfig := tgbotapi.NewUpdate(0)
		updateConfig.Timeout = cfg.Telegram.PollTimeout
		updates := client.GetUpdatesChan(updateConfig)
		defer client.StopReceivingUpdates()

		fmt.Fprintln(stdout, "Telegram bot running; press Ctrl+C to stop.")
		if err := bot.Run(ctx, updates); err != nil {
			fmt.Fprintf(stderr, "Bot error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
