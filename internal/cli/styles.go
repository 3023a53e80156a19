// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/radstage/internal/engine"
	"github.com/Veraticus/radstage/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#5B8DEF")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3") // Light teal
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	StageIcon   = "🫁"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the application icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(StageIcon + " " + title)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}

// RenderRunSummary renders the outcome counts of a classification run.
func RenderRunSummary(summary *engine.RunSummary) string {
	lines := []string{
		fmt.Sprintf("Run:            %s", summary.RunID),
		fmt.Sprintf("Records:        %d", summary.Total),
		fmt.Sprintf("Skipped:        %d", summary.Skipped),
		SuccessStyle.Render(fmt.Sprintf("Persisted:      %d", summary.Persisted)),
		countLine("Non-terminal:   %d", summary.NonTerminal),
		countLine("Decode failed:  %d", summary.DecodeFailed),
		fmt.Sprintf("Backend calls:  %d", summary.Calls()),
		SubtleStyle.Render(fmt.Sprintf("Elapsed:        %s", summary.Duration.Round(time.Second))),
	}
	return RenderBox("Classification Summary", strings.Join(lines, "\n"))
}

func countLine(format string, n int) string {
	line := fmt.Sprintf(format, n)
	if n > 0 {
		return WarningStyle.Render(line)
	}
	return line
}

var attemptColumns = []string{"ID", "RECORD", "MODEL", "OUTCOME", "FINISH", "TOKENS", "WHEN", "DETAIL"}

// RenderAttempts renders ledger rows as a table. An empty slice renders a
// short notice instead.
func RenderAttempts(attempts []model.Attempt) string {
	if len(attempts) == 0 {
		return SubtleStyle.Render("No attempts recorded")
	}

	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.RecordID,
			a.Model,
			string(a.Outcome),
			a.FinishReason,
			fmt.Sprintf("%d/%d", a.PromptTokens, a.CompletionTokens),
			a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(a.Detail, 60),
		})
	}

	widths := make([]int, len(attemptColumns))
	for i, col := range attemptColumns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	header := make([]string, len(attemptColumns))
	for i, col := range attemptColumns {
		header[i] = TableCellStyle.Width(widths[i] + 2).Render(col)
	}
	b.WriteString(TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, header...)))

	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		if attempts[r].Outcome != model.OutcomePersisted {
			line = WarningStyle.Render(line)
		}
		b.WriteString("\n")
		b.WriteString(line)
	}

	return b.String()
}

// RenderAttemptStats renders per-outcome counts in reporting order.
func RenderAttemptStats(stats map[model.AttemptOutcome]int) string {
	parts := make([]string, 0, len(stats))
	for _, outcome := range model.AttemptOutcomes() {
		parts = append(parts, fmt.Sprintf("%s=%d", outcome, stats[outcome]))
	}
	return SubtleStyle.Render(strings.Join(parts, "  "))
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
