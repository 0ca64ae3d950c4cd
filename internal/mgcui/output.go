// Package mgcui renders MGCInts's CLI progress output with lipgloss,
// styled for the step names the CLI reports: Preprocess, Link, Compile.
package mgcui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorSuccess = lipgloss.Color("#5AF78E")
	colorWarning = lipgloss.Color("#F7DC6F")
	colorError   = lipgloss.Color("#FF6B9D")
	colorMuted   = lipgloss.Color("#6C7086")
	colorText    = lipgloss.Color("#CDD6F4")
	colorSubtle  = lipgloss.Color("#7F849C")
	colorBorder  = lipgloss.Color("#45475A")
)

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2).
			MarginBottom(1)

	styleSection = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#56C3F4")).
			MarginTop(1)

	styleFileInput  = lipgloss.NewStyle().Foreground(colorText)
	styleFileOutput = lipgloss.NewStyle().Foreground(colorSuccess)
	styleMuted      = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	styleStepLabel = lipgloss.NewStyle().Foreground(colorText).Width(12).Align(lipgloss.Left)
	styleStepTime  = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)

	styleSummary = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorBorder).
			MarginTop(1).
			PaddingTop(1)

	styleIndent = lipgloss.NewStyle().PaddingLeft(2)
)

// StepStatus is the outcome of one pipeline step.
type StepStatus int

const (
	StepSuccess StepStatus = iota
	StepSkipped
	StepWarning
	StepError
)

// Step is one pipeline stage ProcessOutput reports on, with its outcome,
// duration and an optional message. The stage names are chosen by the
// caller; the CLI reports Preprocess, Link and Compile.
type Step struct {
	Name     string
	Status   StepStatus
	Duration time.Duration
	Message  string
}

// ProcessOutput is the CLI's running build/patch progress display.
type ProcessOutput struct {
	startTime time.Time
}

// New creates a progress display, starting its elapsed-time clock.
func New() *ProcessOutput {
	return &ProcessOutput{startTime: time.Now()}
}

// PrintHeader prints the tool banner.
func (o *ProcessOutput) PrintHeader(version string) {
	fmt.Println(styleHeader.Render("MGCInts") + " " + styleMuted.Render("v"+version))
}

// PrintFile announces the input/output pair being compiled.
func (o *ProcessOutput) PrintFile(inputPath, outputPath string) {
	input := styleFileInput.Render(inputPath)
	arrow := styleMuted.Render("->")
	output := styleFileOutput.Render(outputPath)
	fmt.Printf("  %s %s %s\n\n", input, arrow, output)
}

// PrintStep reports one pipeline step's outcome.
func (o *ProcessOutput) PrintStep(step Step) {
	var icon, statusText string
	var statusStyle lipgloss.Style
	switch step.Status {
	case StepSuccess:
		icon, statusText, statusStyle = "+", "done", styleSuccess
	case StepSkipped:
		icon, statusText, statusStyle = "o", "skipped", styleMuted
	case StepWarning:
		icon, statusText, statusStyle = "!", "warning", styleWarning
	case StepError:
		icon, statusText, statusStyle = "x", "failed", styleError
	}

	line := fmt.Sprintf("  %s %s%s", icon, styleStepLabel.Render(step.Name), statusStyle.Render(statusText))
	if step.Duration > 0 {
		line += " " + styleStepTime.Render("("+formatDuration(step.Duration)+")")
	}
	fmt.Println(line)

	if step.Message != "" {
		fmt.Println(styleMuted.Render("    " + step.Message))
	}
}

// PrintSummary prints the final outcome line.
func (o *ProcessOutput) PrintSummary(success bool, errMsg string) {
	elapsed := time.Since(o.startTime)
	fmt.Println()

	var summary string
	if success {
		summary = fmt.Sprintf("%s built in %s", styleSuccess.Render("success"), styleStepTime.Render(formatDuration(elapsed)))
	} else {
		summary = styleError.Render("build failed")
		if errMsg != "" {
			summary += "\n" + styleError.Render("  error: ") + errMsg
		}
	}
	fmt.Println(styleSummary.Render(summary))
}

// PrintError prints a standalone error line (used outside a step).
func (o *ProcessOutput) PrintError(msg string) {
	fmt.Println(styleIndent.Render(styleError.Render("error: ") + msg))
}

// PrintWarning prints a standalone warning line.
func (o *ProcessOutput) PrintWarning(msg string) {
	fmt.Println(styleIndent.Render(styleWarning.Render("warning: ") + msg))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// Divider renders a horizontal rule, used to separate multi-source runs.
func Divider() string {
	return styleMuted.Render(strings.Repeat("-", 60))
}
