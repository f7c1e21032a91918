package play

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"mcquiz/internal/quiz"
)

const (
	colNumber  = 4
	colResult  = 9
	colAnswer  = 18
	minPrompt  = 20
	defaultRow = 80
)

// defaultColumns returns the results table columns for an 80-column terminal.
func defaultColumns() []table.Column {
	return columnsForWidth(defaultRow)
}

// columnsForWidth gives the prompt column whatever width is left.
func columnsForWidth(width int) []table.Column {
	prompt := width - colNumber - colResult - 2*colAnswer - 8
	if prompt < minPrompt {
		prompt = minPrompt
	}
	return []table.Column{
		{Title: "#", Width: colNumber},
		{Title: "Question", Width: prompt},
		{Title: "Result", Width: colResult},
		{Title: "Your answer", Width: colAnswer},
		{Title: "Correct", Width: colAnswer},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252")).Bold(true)
	return styles
}

// rowsForSnapshot converts finished results into table rows.
func rowsForSnapshot(snap quiz.Snapshot) []table.Row {
	rows := make([]table.Row, 0, len(snap.Results))
	for _, result := range snap.Results {
		status := "skipped"
		switch {
		case result.Submitted && result.Correct:
			status = "correct"
		case result.Submitted:
			status = "wrong"
		}
		correct := result.CorrectOption
		if result.InvalidKey {
			correct = "(invalid key)"
		}
		rows = append(rows, table.Row{
			fmt.Sprint(result.Number),
			result.Prompt,
			status,
			result.Selected,
			correct,
		})
	}
	return rows
}
