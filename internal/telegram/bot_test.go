package telegram

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mcquiz/internal/game"
	"mcquiz/internal/history"
	"mcquiz/internal/store/memory"
	"mcquiz/internal/testutil"
)

const questions = "Question,Option A,Option B,Option C,Option D,Answer\n2+2?,3,4,5,6,B\nCapital of France?,Berlin,Madrid,Paris,Rome,C\n"

type fakeAPI struct {
	sent      []tgbotapi.MessageConfig
	callbacks []tgbotapi.CallbackConfig
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if callback, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, callback)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatalf("no messages sent")
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeAPI) texts() string {
	parts := make([]string, 0, len(f.sent))
	for _, msg := range f.sent {
		parts = append(parts, msg.Text)
	}
	return strings.Join(parts, "\n---\n")
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()
	svc, err := game.New(game.Config{
		Store:  memory.New(time.Hour),
		Source: history.SourceTelegram,
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	api := &fakeAPI{}
	bot, err := New(api, Config{Game: svc, Questions: questions, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("new bot: %v", err)
	}
	return bot, api
}

func command(chatID int64, text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func press(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func buttons(msg tgbotapi.MessageConfig) []tgbotapi.InlineKeyboardButton {
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		return nil
	}
	var out []tgbotapi.InlineKeyboardButton
	for _, row := range markup.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

// TestQuizCommandShowsFirstQuestion verifies /quiz loads the default questions.
func TestQuizCommandShowsFirstQuestion(t *testing.T) {
	ctx := testutil.Context(t, 0)
	bot, api := newTestBot(t)
	if err := bot.HandleUpdate(ctx, command(7, "/quiz")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(api.sent[0].Text, "Loaded 2 questions.") {
		t.Fatalf("expected load notice, got %q", api.sent[0].Text)
	}
	msg := api.last(t)
	if !strings.Contains(msg.Text, "Question 1/2") || !strings.Contains(msg.Text, "2+2?") {
		t.Fatalf("unexpected question text %q", msg.Text)
	}
	got := buttons(msg)
	if len(got) != 5 {
		t.Fatalf("expected 4 options and finish, got %d buttons", len(got))
	}
	if got[1].Text != "B. 4" || got[1].CallbackData == nil || *got[1].CallbackData != "opt:0:1" {
		t.Fatalf("unexpected option button %+v", got[1])
	}
}

// TestAnsweringThroughButtons verifies a full immediate-mode game.
func TestAnsweringThroughButtons(t *testing.T) {
	ctx := testutil.Context(t, 0)
	bot, api := newTestBot(t)
	steps := []tgbotapi.Update{
		command(7, "/quiz"),
		press(7, "opt:0:1"),
		press(7, "opt:1:0"),
	}
	for _, update := range steps {
		if err := bot.HandleUpdate(ctx, update); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	all := api.texts()
	if !strings.Contains(all, "Correct!") {
		t.Fatalf("expected correct feedback in %q", all)
	}
	if !strings.Contains(all, "Incorrect. The correct answer is C: Paris.") {
		t.Fatalf("expected miss feedback in %q", all)
	}
	last := api.last(t)
	if !strings.Contains(last.Text, "Your score: 1 / 2") {
		t.Fatalf("expected results, got %q", last.Text)
	}
	if got := buttons(last); len(got) != 1 || got[0].Text != "Restart" {
		t.Fatalf("expected restart button, got %+v", got)
	}
	if len(api.callbacks) != 2 {
		t.Fatalf("expected callbacks answered, got %d", len(api.callbacks))
	}
}

// TestStaleButtonIsRejected verifies a button from an earlier question is ignored.
func TestStaleButtonIsRejected(t *testing.T) {
	ctx := testutil.Context(t, 0)
	bot, api := newTestBot(t)
	for _, update := range []tgbotapi.Update{command(7, "/quiz"), press(7, "opt:0:1"), press(7, "opt:0:2")} {
		if err := bot.HandleUpdate(ctx, update); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	if !strings.Contains(api.texts(), "That question is no longer active.") {
		t.Fatalf("expected stale notice in %q", api.texts())
	}
	entry, err := bot.game.Entry(ctx, playerKey(7))
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.Session.Score != 1 || entry.Session.Index != 1 {
		t.Fatalf("stale press changed state: score=%d index=%d", entry.Session.Score, entry.Session.Index)
	}
}

// TestPastedQuestionsStartQuiz verifies plain text is loaded as questions.
func TestPastedQuestionsStartQuiz(t *testing.T) {
	ctx := testutil.Context(t, 0)
	bot, api := newTestBot(t)
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 9},
		Text: `{"mcqs": [{"question": "Sky?", "options": {"A": "Blue", "B": "Green", "C": "Red", "D": "Black"}, "answer": "A"}]}`,
	}}
	if err := bot.HandleUpdate(ctx, update); err != nil {
		t.Fatalf("handle: %v", err)
	}
	msg := api.last(t)
	if !strings.Contains(msg.Text, "Sky?") {
		t.Fatalf("expected pasted question, got %q", msg.Text)
	}
	var labels []string
	for _, button := range buttons(msg) {
		labels = append(labels, button.Text)
	}
	if strings.Join(labels, ",") != "A. Blue,B. Green,C. Red,D. Black,Finish" {
		t.Fatalf("unexpected buttons %v", labels)
	}
}

// TestChatsAreIndependent verifies each chat keeps its own session.
func TestChatsAreIndependent(t *testing.T) {
	ctx := testutil.Context(t, 0)
	bot, _ := newTestBot(t)
	for _, update := range []tgbotapi.Update{command(1, "/quiz"), command(2, "/quiz"), press(1, "opt:0:1")} {
		if err := bot.HandleUpdate(ctx, update); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	first, _ := bot.game.Entry(ctx, playerKey(1))
	second, _ := bot.game.Entry(ctx, playerKey(2))
	if first.Session.Score != 1 || second.Session.Score != 0 || second.Session.Index != 0 {
		t.Fatalf("chats leaked state: first=%+v second=%+v", first.Session, second.Session)
	}
}

// TestActionWithoutQuiz verifies buttons before loading explain what to do.
func TestActionWithoutQuiz(t *testing.T) {
	ctx := testutil.Context(t, 0)
	bot, api := newTestBot(t)
	if err := bot.HandleUpdate(ctx, press(3, "next")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := api.last(t).Text; got != "Load some questions first." {
		t.Fatalf("unexpected reply %q", got)
	}
}

// TestRunStopsWhenChannelCloses verifies Run drains updates and returns.
func TestRunStopsWhenChannelCloses(t *testing.T) {
	bot, api := newTestBot(t)
	updates := make(chan tgbotapi.Update, 1)
	updates <- command(5, "/help")
	close(updates)
	if err := bot.Run(context.Background(), updates); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(api.last(t).Text, "Send /quiz") {
		t.Fatalf("expected help text, got %q", api.last(t).Text)
	}
}

// TestNextRefusedInImmediateMode verifies /next does not skip questions in an
// immediate-mode quiz.
func TestNextRefusedInImmediateMode(t *testing.T) {
	ctx := testutil.Context(t, 0)
	bot, api := newTestBot(t)
	for _, update := range []tgbotapi.Update{command(4, "/quiz"), command(4, "/next")} {
		if err := bot.HandleUpdate(ctx, update); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	if !strings.Contains(api.texts(), "Next and Previous are only available in review mode.") {
		t.Fatalf("expected refusal in %q", api.texts())
	}
	entry, err := bot.game.Entry(ctx, playerKey(4))
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.Session.Index != 0 {
		t.Fatalf("expected first question to stay current, got index %d", entry.Session.Index)
	}
}
