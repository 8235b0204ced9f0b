package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, target string) error
}

// NewFormatter returns the formatter for format ("json" or text).
func NewFormatter(format string) Formatter {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return JSONFormatter{}
	}
	return TextFormatter{}
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

func (TextFormatter) Format(w io.Writer, result *Result, target string) error {
	p := &printer{w: w}
	p.line("Linting: %s", target)
	p.line("%s", strings.Repeat("━", 60))
	p.line("")

	for _, issue := range result.Issues {
		formatIssue(p, issue)
		p.line("")
	}

	p.line("%s", strings.Repeat("━", 60))
	p.line("Results:")
	p.line("  %d file%s scanned", result.FilesTotal, pluralize(result.FilesTotal))
	if n := result.ErrorCount(); n > 0 {
		p.line("  %d error%s (document rejected)", n, pluralize(n))
	}
	if n := result.WarningCount(); n > 0 {
		p.line("  %d warning%s (unsupported syntax)", n, pluralize(n))
	}
	if n := result.InfoCount(); n > 0 {
		p.line("  %d info", n)
	}
	p.line("")

	switch {
	case result.HasErrors():
		p.line("✗ Some documents cannot be parsed.")
	case result.HasWarnings():
		p.line("⚠ Some constructs will not render as written.")
	case len(result.Issues) > 0:
		p.line("ℹ All issues are informational.")
	default:
		p.line("✓ All documents use supported syntax.")
	}
	return p.err
}

func formatIssue(p *printer, issue Issue) {
	var icon string
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
	case SeverityWarning:
		icon = "⚠"
	default:
		icon = "ℹ"
	}

	loc := issue.FilePath
	if issue.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, issue.Line)
	}
	p.line("%s %s", icon, loc)
	p.line("  %s: %s [%s]", issue.Severity, issue.Message, issue.Rule)
	if issue.Explanation != "" {
		for line := range strings.SplitSeq(strings.TrimSpace(issue.Explanation), "\n") {
			p.line("  %s", line)
		}
	}
	if issue.Fix != "" {
		p.line("  Fix: %s", issue.Fix)
	}
}

// printer remembers the first write error so formatting code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	Path         string      `json:"path"`
	FilesTotal   int         `json:"files_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	InfoCount    int         `json:"info_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	FilePath    string `json:"file_path"`
	Severity    string `json:"severity"`
	Rule        string `json:"rule"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
	Fix         string `json:"fix,omitempty"`
	Line        int    `json:"line,omitempty"`
}

// NewJSONOutput converts result into its JSON shape.
func NewJSONOutput(result *Result, target string) JSONOutput {
	out := JSONOutput{
		Path:         target,
		FilesTotal:   result.FilesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		InfoCount:    result.InfoCount(),
		Issues:       make([]JSONIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		out.Issues = append(out.Issues, JSONIssue{
			FilePath:    issue.FilePath,
			Severity:    issue.Severity.String(),
			Rule:        issue.Rule,
			Message:     issue.Message,
			Explanation: issue.Explanation,
			Fix:         issue.Fix,
			Line:        issue.Line,
		})
	}
	return out
}

func (JSONFormatter) Format(w io.Writer, result *Result, target string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewJSONOutput(result, target))
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
