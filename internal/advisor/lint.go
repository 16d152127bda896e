package advisor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// IssueType identifies a linter rule.
type IssueType string

const (
	IssueMissingRole     IssueType = "missing_role"
	IssueMissingFormat   IssueType = "missing_format"
	IssueAmbiguousPhrase IssueType = "ambiguous_phrase"
	IssueMultipleTasks   IssueType = "multiple_tasks"
)

// Severity of a linter issue. Only warnings count toward blocking.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// LinterIssue is a single structural quality problem found in a prompt.
type LinterIssue struct {
	Type     IssueType `json:"type"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// roleIndicators are matched as case-insensitive substrings.
var roleIndicators = []string{"you are", "act as", "role:", "persona:", "as a", "as an"}

// formatIndicators are matched as case-insensitive substrings.
var formatIndicators = []string{"bullet", "list", "steps", "code", "json", "table", "format:", "output:", "structure:"}

// ambiguousWords are matched as whole words, reported in this order.
var ambiguousWords = []string{"some", "etc", "things", "handle", "appropriate", "various", "several", "many"}

var (
	andWordRegex  = regexp.MustCompile(`(?i)\band\b`)
	alsoWordRegex = regexp.MustCompile(`(?i)\balso\b`)
)

// Lint scans a prompt for structural issues. Issues are always returned in
// the order missing_role, missing_format, ambiguous_phrase, multiple_tasks.
// Empty or whitespace-only prompts yield no issues.
func Lint(prompt string) []LinterIssue {
	issues := make([]LinterIssue, 0, 4)
	lower := strings.ToLower(prompt)
	length := utf8.RuneCountInString(prompt)

	if length > 50 && !containsAny(lower, roleIndicators) {
		issues = append(issues, LinterIssue{
			Type:     IssueMissingRole,
			Message:  `No role definition found (e.g., "You are..."). Consider specifying the AI's role.`,
			Severity: SeverityWarning,
		})
	}

	if length > 80 && !containsAny(lower, formatIndicators) {
		issues = append(issues, LinterIssue{
			Type:     IssueMissingFormat,
			Message:  "No output format specified. Consider requesting bullets, steps, code, or JSON.",
			Severity: SeverityInfo,
		})
	}

	if found := matchWords(prompt, ambiguousWords); len(found) > 0 {
		issues = append(issues, LinterIssue{
			Type:     IssueAmbiguousPhrase,
			Message:  "Ambiguous phrases detected: " + strings.Join(found, ", ") + ". Consider being more specific.",
			Severity: SeverityWarning,
		})
	}

	if hasMultipleTasks(prompt, length) {
		issues = append(issues, LinterIssue{
			Type:     IssueMultipleTasks,
			Message:  "Multiple tasks detected. Consider splitting into separate prompts for better results.",
			Severity: SeverityWarning,
		})
	}

	return issues
}

// CountWarnings returns the number of warning-severity issues.
func CountWarnings(issues []LinterIssue) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// hasMultipleTasks: more than one question mark, "and" twice or more, or
// "also" in a prompt longer than 100 characters.
func hasMultipleTasks(prompt string, length int) bool {
	if strings.Count(prompt, "?") > 1 {
		return true
	}
	if len(andWordRegex.FindAllStringIndex(prompt, 2)) >= 2 {
		return true
	}
	return alsoWordRegex.MatchString(prompt) && length > 100
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// wordRegexes caches one case-insensitive whole-word matcher per keyword.
var wordRegexes = map[string]*regexp.Regexp{}

func init() {
	for _, list := range [][]string{ambiguousWords, highConfidenceWords, conceptualWords, fillerWords} {
		for _, w := range list {
			wordRegexes[w] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		}
	}
}

// matchWords returns the words from list that occur as whole words in text,
// in list order.
func matchWords(text string, list []string) []string {
	var found []string
	for _, w := range list {
		if wordRegexes[w].MatchString(text) {
			found = append(found, w)
		}
	}
	return found
}
