package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"quickcore/internal/models"

	"github.com/fatih/color"
)

// Output is where the Print helpers write; tests swap it for a buffer.
var Output io.Writer = color.Output

var (
	// SuccessColor for successful operations
	SuccessColor = color.New(color.FgGreen, color.Bold)

	// ErrorColor for error messages
	ErrorColor = color.New(color.FgRed, color.Bold)

	// WarningColor for warning messages
	WarningColor = color.New(color.FgYellow, color.Bold)

	// InfoColor for informational messages
	InfoColor = color.New(color.FgCyan, color.Bold)

	// TitleColor for titles and headers
	TitleColor = color.New(color.FgMagenta, color.Bold)

	// SubtleColor for secondary text
	SubtleColor = color.New(color.FgHiBlack)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	SuccessColor.Fprintf(Output, "✅ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	ErrorColor.Fprintf(Output, "❌ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	WarningColor.Fprintf(Output, "⚠️  "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	InfoColor.Fprintf(Output, "ℹ️  "+format+"\n", args...)
}

// PrintTitle prints a title
func PrintTitle(format string, args ...interface{}) {
	TitleColor.Fprintf(Output, "📚 "+format+"\n", args...)
}

// PrintText prints plain, uncoloured text with an optional indent
func PrintText(indent int, format string, args ...interface{}) {
	fmt.Fprintf(Output, strings.Repeat(" ", indent)+format+"\n", args...)
}

// PrintSubtle prints secondary text
func PrintSubtle(format string, args ...interface{}) {
	SubtleColor.Fprintf(Output, format+"\n", args...)
}

// PrintProgress prints a progress message
func PrintProgress(current, total int, message string) {
	InfoColor.Fprintf(Output, "📊 [%d/%d] %s\n", current, total, message)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Fprintln(Output, strings.Repeat("─", 80))
}

// PriorityColor picks the badge colour for a topic priority
func PriorityColor(p models.Priority) *color.Color {
	switch p.Level() {
	case models.PriorityLevelHigh:
		return ErrorColor
	case models.PriorityLevelMedium:
		return WarningColor
	case models.PriorityLevelLow:
		return SuccessColor
	default:
		return SubtleColor
	}
}

// IsTerminal checks if output is going to a terminal
func IsTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
