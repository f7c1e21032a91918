package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mcquiz/internal/quiz"
)

// questionMessage shows the current question with one button per option.
func questionMessage(chatID int64, snap quiz.Snapshot) tgbotapi.MessageConfig {
	current := snap.Question
	var text strings.Builder
	fmt.Fprintf(&text, "Question %d/%d (score %d)\n\n%s", current.Number, snap.Total, snap.Score, current.Prompt)
	if current.Submitted {
		fmt.Fprintf(&text, "\n\nYour answer: %s", current.Selected)
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(current.Options)+1)
	if !current.Submitted {
		for slot, option := range current.Options {
			data := fmt.Sprintf("opt:%d:%d", snap.Index, slot)
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(option.Label+". "+option.Text, data),
			))
		}
	}
	var nav []tgbotapi.InlineKeyboardButton
	if snap.Mode == quiz.ModeReview {
		if current.Number > 1 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Previous", "prev"))
		}
		if current.Number < snap.Total {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next", "next"))
		}
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Finish", "finish"))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return msg
}

// resultsMessage shows the final score with a restart button.
func resultsMessage(chatID int64, snap quiz.Snapshot) tgbotapi.MessageConfig {
	var text strings.Builder
	fmt.Fprintf(&text, "Quiz finished! Your score: %d / %d\n", snap.Score, snap.Total)
	for _, result := range snap.Results {
		mark := "-"
		switch {
		case result.Submitted && result.Correct:
			mark = "✓"
		case result.Submitted:
			mark = "✗"
		}
		fmt.Fprintf(&text, "\n%s %d. %s", mark, result.Number, result.Prompt)
	}
	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Restart", "restart")),
	)
	return msg
}
