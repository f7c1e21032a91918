// Package telegram plays quizzes in Telegram chats. Each chat is one player.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mcquiz/internal/game"
	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
	"mcquiz/internal/store"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Config wires a Bot.
type Config struct {
	Game *game.Service
	// Questions is the question text loaded by /quiz. Players may also paste
	// their own questions as a message.
	Questions string
	Format    question.Format
	Logger    *log.Logger
}

// Bot routes updates to the game service.
type Bot struct {
	api       API
	game      *game.Service
	questions string
	format    question.Format
	logger    *log.Logger
}

const helpText = `Send /quiz to play the default questions, or paste your own questions as CSV (Question, Option A, Option B, Option C, Option D, Answer) or JSON ({"mcqs": [...]}).
Commands: /quiz /score /next /previous /finish /restart /help`

// New validates cfg and returns a Bot.
func New(api API, cfg Config) (*Bot, error) {
	if api == nil {
		return nil, errors.New("telegram: api is required")
	}
	if cfg.Game == nil {
		return nil, errors.New("telegram: game service is required")
	}
	if cfg.Format == "" {
		cfg.Format = question.FormatAuto
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Bot{api: api, game: cfg.Game, questions: cfg.Questions, format: cfg.Format, logger: cfg.Logger}, nil
}

// Run handles updates until ctx is done or the channel closes.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.HandleUpdate(ctx, update); err != nil {
				b.logger.Printf("telegram: update %d: %v", update.UpdateID, err)
			}
		}
	}
}

// HandleUpdate processes one message or button press.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)
	}
	return nil
}

func playerKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	key := playerKey(chatID)
	var (
		entry store.Entry
		err   error
	)
	switch msg.Command() {
	case "start", "help":
		return b.send(tgbotapi.NewMessage(chatID, helpText))
	case "quiz":
		if strings.TrimSpace(b.questions) == "" {
			return b.send(tgbotapi.NewMessage(chatID, "No default questions are configured. Paste your own questions instead."))
		}
		entry, err = b.game.Load(ctx, key, game.LoadRequest{Text: b.questions, Format: string(b.format)})
	case "score":
		entry, err = b.game.Entry(ctx, key)
		entry.Notice, entry.Error = "", ""
	case "next":
		entry, err = b.game.Next(ctx, key)
	case "previous", "prev":
		entry, err = b.game.Previous(ctx, key)
	case "finish":
		entry, err = b.game.Finish(ctx, key)
	case "restart":
		entry, err = b.game.Restart(ctx, key)
	case "":
		entry, err = b.game.Load(ctx, key, game.LoadRequest{Text: msg.Text})
	default:
		return b.send(tgbotapi.NewMessage(chatID, "Unknown command.\n"+helpText))
	}
	if err != nil {
		return err
	}
	return b.reply(chatID, entry)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Printf("telegram: answer callback: %v", err)
	}
	if callback.Message == nil {
		return nil
	}
	chatID := callback.Message.Chat.ID
	key := playerKey(chatID)

	var (
		entry store.Entry
		err   error
	)
	switch data := callback.Data; {
	case strings.HasPrefix(data, "opt:"):
		entry, err = b.answer(ctx, key, data)
	case data == "next":
		entry, err = b.game.Next(ctx, key)
	case data == "prev":
		entry, err = b.game.Previous(ctx, key)
	case data == "finish":
		entry, err = b.game.Finish(ctx, key)
	case data == "restart":
		entry, err = b.game.Restart(ctx, key)
	default:
		return b.send(tgbotapi.NewMessage(chatID, "Unknown action."))
	}
	if err != nil {
		return err
	}
	return b.reply(chatID, entry)
}

// answer decodes "opt:<question index>:<slot>" and submits the option text.
// Buttons from an earlier question are rejected.
func (b *Bot) answer(ctx context.Context, key, data string) (store.Entry, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 {
		return store.Entry{}, fmt.Errorf("malformed callback data %q", data)
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return store.Entry{}, fmt.Errorf("malformed callback data %q", data)
	}
	slot, err := strconv.Atoi(parts[2])
	if err != nil || slot < 0 || slot >= question.OptionCount {
		return store.Entry{}, fmt.Errorf("malformed callback data %q", data)
	}
	return b.game.SubmitAt(ctx, key, index, slot)
}

// reply sends the notice or error, then the current question or results.
func (b *Bot) reply(chatID int64, entry store.Entry) error {
	if entry.Notice != "" {
		if err := b.send(tgbotapi.NewMessage(chatID, entry.Notice)); err != nil {
			return err
		}
	}
	if entry.Error != "" {
		if err := b.send(tgbotapi.NewMessage(chatID, entry.Error)); err != nil {
			return err
		}
	}
	snap := entry.Session.Snapshot()
	switch snap.Phase {
	case quiz.PhaseInProgress:
		return b.send(questionMessage(chatID, snap))
	case quiz.PhaseFinished:
		return b.send(resultsMessage(chatID, snap))
	}
	if entry.Error == "" {
		return b.send(tgbotapi.NewMessage(chatID, helpText))
	}
	return nil
}

func (b *Bot) send(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
