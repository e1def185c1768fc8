package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Choice is an answer label shown next to an option.
type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
	ChoiceC Choice = "C"
	ChoiceD Choice = "D"
)

// Choices lists the answer labels in display order.
var Choices = []Choice{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

// ErrInvalidChoice is returned for labels outside A-D.
var ErrInvalidChoice = errors.New("invalid choice")

// ParseChoice normalizes user input ("a", " B ", "3") into a Choice.
func ParseChoice(s string) (Choice, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "A", "1":
		return ChoiceA, nil
	case "B", "2":
		return ChoiceB, nil
	case "C", "3":
		return ChoiceC, nil
	case "D", "4":
		return ChoiceD, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, s)
}

// Valid reports whether c is one of A-D.
func (c Choice) Valid() bool {
	switch c {
	case ChoiceA, ChoiceB, ChoiceC, ChoiceD:
		return true
	}
	return false
}

// Subject is the topic bucket assigned to a question during extraction.
type Subject string

const (
	SubjectProcess  Subject = "process"
	SubjectIndustry Subject = "industry"
)

// Options holds the text of the four choices.
type Options struct {
	A string `json:"A" yaml:"A"`
	B string `json:"B" yaml:"B"`
	C string `json:"C" yaml:"C"`
	D string `json:"D" yaml:"D"`
}

// Get returns the option text for a label.
func (o Options) Get(c Choice) string {
	switch c {
	case ChoiceA:
		return o.A
	case ChoiceB:
		return o.B
	case ChoiceC:
		return o.C
	case ChoiceD:
		return o.D
	}
	return ""
}

// Question is a single multiple-choice problem as it appears in a source document.
type Question struct {
	Question   string  `json:"question" yaml:"question"`
	Options    Options `json:"options" yaml:"options"`
	Answer     Choice  `json:"answer" yaml:"answer"`
	Source     string  `json:"source" yaml:"source"`
	Number     int     `json:"number" yaml:"number"`
	Year       int     `json:"year,omitempty" yaml:"year,omitempty"`
	ExamNumber string  `json:"exam_number,omitempty" yaml:"exam_number,omitempty"`
	Subject    Subject `json:"subject,omitempty" yaml:"subject,omitempty"`
}

// Validate checks that the question can be presented and graded.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("question text is empty")
	}
	if !q.Answer.Valid() {
		return fmt.Errorf("answer %q is not one of A-D", q.Answer)
	}
	if q.Options.Get(q.Answer) == "" {
		return fmt.Errorf("option %s for the answer is empty", q.Answer)
	}
	return nil
}

// Label returns the "year-exam_number" tag of a question, or "" when unknown.
func (q Question) Label() string {
	if q.Year == 0 && q.ExamNumber == "" {
		return ""
	}
	return fmt.Sprintf("%d-%s", q.Year, q.ExamNumber)
}

// QuestionDocument is the payload of one question source.
type QuestionDocument struct {
	Problems []Question `json:"problems" yaml:"problems"`
}

// Evaluation is the outcome of answering a question.
type Evaluation struct {
	Chosen    Choice `json:"chosen"`
	Correct   Choice `json:"correct"`
	IsCorrect bool   `json:"is_correct"`
}

// Stats holds cumulative answer counts.
type Stats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Valid reports whether the counts satisfy 0 <= correct <= total.
func (s Stats) Valid() bool {
	return s.Correct >= 0 && s.Total >= 0 && s.Correct <= s.Total
}

// AccuracyPercent returns 100*correct/total rounded to one decimal, or 0 when nothing was answered.
func (s Stats) AccuracyPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return math.Round(1000*float64(s.Correct)/float64(s.Total)) / 10
}

// StatsView is the stats snapshot handed to renderers.
type StatsView struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy_percent"`
}

// View converts counts into a StatsView.
func (s Stats) View() StatsView {
	return StatsView{Correct: s.Correct, Total: s.Total, Accuracy: s.AccuracyPercent()}
}
