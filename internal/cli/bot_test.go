package cli

import (
	"bytes"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeTelegramClient struct {
	updates chan tgbotapi.Update
	sent    []tgbotapi.Chattable
	timeout int
	stopped bool
}

func (f *fakeTelegramClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegramClient) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegramClient) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	f.timeout = config.Timeout
	return f.updates
}

func (f *fakeTelegramClient) StopReceivingUpdates() {
	f.stopped = true
}

func stubTelegram(t *testing.T, client *fakeTelegramClient) *string {
	t.Helper()
	var token string
	original := newTelegramClient
	newTelegramClient = func(value string) (telegramClient, error) {
		token = value
		return client, nil
	}
	t.Cleanup(func() { newTelegramClient = original })
	return &token
}

// TestBotCommandServesUpdates verifies the bot plays the configured questions.
func TestBotCommandServesUpdates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quiz.csv", sampleQuestions)
	configPath := writeConfig(t, dir, "telegram:\n  questions_file: quiz.csv\n  poll_timeout: 30\n")
	t.Setenv(TokenEnv, "secret-token")

	client := &fakeTelegramClient{updates: make(chan tgbotapi.Update, 1)}
	client.updates <- tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 42},
		Text:     "/quiz",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 5}},
	}}
	close(client.updates)
	token := stubTelegram(t, client)

	var out, errOut bytes.Buffer
	code := Run([]string{"bot", "--config", configPath}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit ok, got %d: %s", code, errOut.String())
	}
	if *token != "secret-token" || client.timeout != 30 || !client.stopped {
		t.Fatalf("unexpected client use: token=%q timeout=%d stopped=%v", *token, client.timeout, client.stopped)
	}
	var texts []string
	for _, sent := range client.sent {
		if msg, ok := sent.(tgbotapi.MessageConfig); ok {
			texts = append(texts, msg.Text)
		}
	}
	if !strings.Contains(strings.Join(texts, "\n"), "2+2?") {
		t.Fatalf("expected first question sent, got %v", texts)
	}
}

// TestBotCommandNeedsToken verifies a missing token is a usage error.
func TestBotCommandNeedsToken(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "")
	t.Setenv(TokenEnv, "")
	stubTelegram(t, &fakeTelegramClient{})

	var out, errOut bytes.Buffer
	if code := Run([]string{"bot", "--config", configPath}, &out, &errOut); code != ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(errOut.String(), TokenEnv) {
		t.Fatalf("expected token hint, got %q", errOut.String())
	}
}
