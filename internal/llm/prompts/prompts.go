// Package prompts builds the LLM prompts used to extract questions from exam text.
package prompts

import (
	"bytes"
	_ "embed"
	"regexp"
	"strings"
	"text/template"
	"unicode/utf8"
)

// MaxTextRunes caps the exam text sent in one request.
const MaxTextRunes = 60000

var examTextRegex = regexp.MustCompile(`(?i)</?\s*exam-text\b[^>]*>`)

//go:embed extract.tmpl
var extractSource string

var extractTemplate = template.Must(template.New("extract").Parse(extractSource))

// ExtractData holds template data for the extraction prompt.
type ExtractData struct {
	SourceName string
	// ExpectedCount is the number of questions on the paper; 0 means unknown.
	ExpectedCount int
}

// BuildExtractPrompt renders the system prompt for one exam file.
func BuildExtractPrompt(data ExtractData) (string, error) {
	var buf bytes.Buffer
	if err := extractTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WrapExamText fences the exam text for the user message. Tags inside the
// text are removed so the fence cannot be closed early.
func WrapExamText(text string) string {
	text = strings.TrimSpace(examTextRegex.ReplaceAllString(text, ""))
	if utf8.RuneCountInString(text) > MaxTextRunes {
		runes := []rune(text)
		text = string(runes[:MaxTextRunes]) + "\n\n[Text truncated due to length]"
	}
	return "<exam-text>\n" + text + "\n</exam-text>"
}
