package lint

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/frontmatter"
	"git.home.luguber.info/inful/blockmark/internal/parser"
)

// Linter checks Markdown sources against blockmark's grammar.
type Linter struct {
	cfg    *Config
	parser *parser.Parser
}

// NewLinter creates a linter. A nil p uses parser.New(); passing the
// configured parser lets extension blocks count as recognized.
func NewLinter(cfg *Config, p *parser.Parser) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	if p == nil {
		p = parser.New()
	}
	return &Linter{cfg: cfg, parser: p}
}

// Check lints one in-memory document. name is copied into each issue.
func (l *Linter) Check(name string, src []byte) []Issue {
	var issues []Issue
	add := func(f finding, line int) {
		if l.cfg.Quiet && f.severity != SeverityError {
			return
		}
		issues = append(issues, Issue{
			FilePath:    name,
			Severity:    f.severity,
			Rule:        f.rule,
			Message:     f.message,
			Explanation: f.explain,
			Fix:         f.fix,
			Line:        line,
		})
	}

	body := src
	bodyStart := 0
	_, rest, had, _, err := frontmatter.Split(src)
	switch {
	case stderrors.Is(err, frontmatter.ErrMissingClosingDelimiter):
		add(finding{
			rule:     RuleFrontmatterOpen,
			severity: SeverityWarning,
			message:  "frontmatter is never closed",
			explain:  "Without a closing --- line the header is parsed as ordinary blocks.",
			fix:      "Add a line containing only --- after the last key.",
		}, 1)
	case had:
		body = rest
		bodyStart = len(src) - len(rest)
	}

	if _, err := l.parser.Parse(string(src)); err != nil {
		line := 0
		if ce, ok := errors.AsClassified(err); ok {
			if off, ok := ce.Context().Get("offset"); ok {
				if n, ok := off.(int); ok {
					lead := len(body) - len(bytes.TrimLeft(body, " \t\r\n"))
					line = lineAt(src, bodyStart+lead+n)
				}
			}
		}
		add(finding{
			rule:     RuleParseError,
			severity: SeverityError,
			message:  "document cannot be parsed",
			explain:  err.Error(),
		}, line)
	}

	for _, f := range scanBody(body) {
		add(f, lineAt(src, bodyStart+f.offset))
	}

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

// LintPath lints a Markdown file or every Markdown file below a directory.
func (l *Linter) LintPath(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotFound, "lint path not found").
			WithContext("path", path).
			Build()
	}

	result := &Result{Issues: []Issue{}}
	if !info.IsDir() {
		result.FilesTotal = 1
		return result, l.lintFile(path, result)
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Skip hidden directories and files
		if d.Name()[0] == '.' && p != path {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsDocFile(p) {
			return nil
		}
		result.FilesTotal++
		return l.lintFile(p, result)
	})
	return result, err
}

// LintFiles lints a specific list of files.
func (l *Linter) LintFiles(files []string) (*Result, error) {
	result := &Result{Issues: []Issue{}}
	for _, file := range files {
		result.FilesTotal++
		if err := l.lintFile(file, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (l *Linter) lintFile(path string, result *Result) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read file").
			WithContext("path", path).
			Build()
	}
	result.Issues = append(result.Issues, l.Check(path, src)...)
	return nil
}

// lineAt converts a byte offset into a 1-based line number.
func lineAt(src []byte, offset int) int {
	offset = min(max(offset, 0), len(src))
	return bytes.Count(src[:offset], []byte("\n")) + 1
}
