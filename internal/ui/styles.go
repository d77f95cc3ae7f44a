package ui

import "fmt"

// ANSI256 color codes for the message roles the commands print.
const (
	colorInfo     = 71  // green
	colorComment  = 178 // yellow
	colorError    = 160 // red
	colorQuestion = 74  // blue
)

var noColor bool

// Info returns s styled as an informational message (green).
func Info(s string) string {
	return render(colorInfo, s)
}

// Comment returns s styled as a secondary remark (yellow).
func Comment(s string) string {
	return render(colorComment, s)
}

// Error returns s styled as an error message (red).
func Error(s string) string {
	return render(colorError, s)
}

// Question returns s styled as an interactive prompt (blue).
func Question(s string) string {
	return render(colorQuestion, s)
}

func render(color int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
