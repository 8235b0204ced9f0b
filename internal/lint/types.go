// Package lint reports Markdown constructs that blockmark's constrained
// grammar does not support, so authors learn why a document parses the way
// it does.
package lint

import "path/filepath"

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo marks constructs that parse, but not as their author
	// probably expects.
	SeverityInfo Severity = iota
	// SeverityWarning marks constructs that degrade to plain text or split
	// into unexpected blocks.
	SeverityWarning
	// SeverityError marks documents the parser rejects.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem found in a file.
type Issue struct {
	FilePath    string   // Path or name of the checked input
	Severity    Severity // Issue severity level
	Rule        string   // Rule identifier (e.g., "setext-heading")
	Message     string   // Brief description of the issue
	Explanation string   // How blockmark will read the construct
	Fix         string   // Suggested rewrite
	Line        int      // 1-based line number (0 if file-level issue)
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue
	FilesTotal int
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool { return r.count(SeverityError) > 0 }

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool { return r.count(SeverityWarning) > 0 }

func (r *Result) ErrorCount() int   { return r.count(SeverityError) }
func (r *Result) WarningCount() int { return r.count(SeverityWarning) }
func (r *Result) InfoCount() int    { return r.count(SeverityInfo) }

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Config contains configuration for the linter.
type Config struct {
	// Quiet suppresses warnings and info, only showing errors.
	Quiet bool

	// Format specifies output format (text, json).
	Format string
}

// IsDocFile returns true if the file is a Markdown document.
func IsDocFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".md" || ext == ".markdown"
}
