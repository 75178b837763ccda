package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fungen.dev/internal/store"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// color wraps text in ANSI color if stderr is a terminal.
func color(code, text string) string {
	if !isTerminal(os.Stderr) {
		return text
	}
	return code + text + colorReset
}

// printGenerateResult prints a generate call's output to stdout (pipeable)
// and its metadata to stderr.
func printGenerateResult(output string, iterations int, sessionID string, d time.Duration, err error) {
	if output != "" {
		fmt.Print(output)
		if !strings.HasSuffix(output, "\n") {
			fmt.Println()
		}
	}

	fmt.Fprintln(os.Stderr)
	if err == nil {
		fmt.Fprintf(os.Stderr, "%s  %d iterations  %s\n",
			color(colorGreen+colorBold, "[OK]"),
			iterations,
			color(colorDim, formatDuration(d)))
	} else {
		fmt.Fprintf(os.Stderr, "%s  %s\n",
			color(colorRed+colorBold, "[FAIL]"),
			color(colorDim, formatDuration(d)))
		fmt.Fprintf(os.Stderr, "%s %s\n", color(colorRed, "Error:"), err)
	}
	if sessionID != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", color(colorDim, "Session:"), sessionID)
	}
}

// printTemplate prints a single template to stdout.
func printTemplate(t *store.Template) {
	fmt.Printf("%d\t%s\n", t.ID, t.Name)
}

// printTemplates prints a list of templates to stdout.
func printTemplates(templates []store.Template) {
	for _, t := range templates {
		printTemplate(&t)
	}
	fmt.Fprintf(os.Stderr, "%s %d\n", color(colorDim, "Total:"), len(templates))
}

// printSubstitute prints a single substitute to stdout.
func printSubstitute(s *store.Substitute) {
	fmt.Printf("%d\t%s\n", s.ID, s.Name)
}

// printSubstitutes prints a list of substitutes to stdout.
func printSubstitutes(subs []store.Substitute) {
	for _, s := range subs {
		printSubstitute(&s)
	}
	fmt.Fprintf(os.Stderr, "%s %d\n", color(colorDim, "Total:"), len(subs))
}

// printReceipt summarizes a batch mutation's updated/ignored rows to stderr.
func printReceipt(updated int, ignored []string) {
	fmt.Fprintf(os.Stderr, "%s  %d updated\n", color(colorGreen+colorBold, "[OK]"), updated)
	if len(ignored) > 0 {
		fmt.Fprintf(os.Stderr, "%s %s\n", color(colorYellow, "Ignored:"), strings.Join(ignored, ", "))
	}
}

// formatDuration formats a duration for human display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
