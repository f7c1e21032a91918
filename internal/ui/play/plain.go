package play

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"mcquiz/internal/game"
	"mcquiz/internal/question"
	"mcquiz/internal/quiz"
)

// RunPlain plays the session as numbered text prompts, for pipes and
// terminals where the interactive UI is not wanted. It returns when the quiz
// finishes, the player quits, or in reaches EOF.
func RunPlain(session *quiz.Session, in io.Reader, out io.Writer) error {
	if session == nil {
		return errors.New("play: session is nil")
	}
	scanner := bufio.NewScanner(in)
	for !session.Finished {
		record, ok := session.Current()
		if !ok {
			break
		}
		printQuestion(out, session, record)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			fmt.Fprintln(out)
			return nil
		}
		input := strings.TrimSpace(scanner.Text())
		command := strings.ToLower(input)
		switch command {
		case "q", "quit":
			return nil
		case "n", "next", "p", "previous":
			switch {
			case !session.CanNavigate():
				fmt.Fprintln(out, "Next and Previous are only available in review mode.")
			case (command == "n" || command == "next") && !session.Next():
				fmt.Fprintln(out, "Already at the last question.")
			case (command == "p" || command == "previous") && !session.Previous():
				fmt.Fprintln(out, "Already at the first question.")
			}
			continue
		case "f", "finish":
			_ = session.Finish()
			continue
		}
		option, ok := optionForInput(record, input)
		if !ok {
			fmt.Fprintln(out, "Answer with A, B, C or D (or n, p, f, q).")
			continue
		}
		outcome, err := session.Submit(option)
		if err != nil {
			fmt.Fprintln(out, game.ActionMessage(err))
			continue
		}
		fmt.Fprintln(out, game.Feedback(record, outcome))
	}
	printResults(out, session.Snapshot())
	return nil
}

func printQuestion(out io.Writer, session *quiz.Session, record question.Record) {
	fmt.Fprintf(out, "\nQuestion %d/%d (score %d)\n%s\n", session.Index+1, session.Total(), session.Score, record.Prompt)
	for slot, option := range record.Options {
		fmt.Fprintf(out, "  %s. %s\n", question.Labels[slot], option)
	}
	if session.Submitted {
		fmt.Fprintln(out, "(answered)")
	}
	fmt.Fprint(out, "> ")
}

// optionForInput accepts a label (A-D) or the exact option text.
func optionForInput(record question.Record, input string) (string, bool) {
	if key := question.ParseAnswerKey(input); key.Valid() {
		slot, _ := key.Slot()
		return record.Options[slot], true
	}
	if record.HasOption(input) {
		return input, true
	}
	return "", false
}

func printResults(out io.Writer, snap quiz.Snapshot) {
	fmt.Fprintf(out, "\nFinished! Your score: %d / %d\n", snap.Score, snap.Total)
	for _, row := range rowsForSnapshot(snap) {
		fmt.Fprintf(out, "%3s. %-8s %s\n", row[0], row[2], row[1])
	}
}
