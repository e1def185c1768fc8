package model

import (
	"errors"
	"testing"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in      string
		want    Choice
		wantErr bool
	}{
		{"A", ChoiceA, false},
		{" b ", ChoiceB, false},
		{"3", ChoiceC, false},
		{"d", ChoiceD, false},
		{"E", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChoice(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidChoice) {
					t.Fatalf("ParseChoice(%q) error = %v, want ErrInvalidChoice", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChoice(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseChoice(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAccuracyPercent(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  float64
	}{
		{"nothing answered", Stats{}, 0},
		{"three of four", Stats{Correct: 3, Total: 4}, 75.0},
		{"one of three", Stats{Correct: 1, Total: 3}, 33.3},
		{"two of three", Stats{Correct: 2, Total: 3}, 66.7},
		{"all correct", Stats{Correct: 5, Total: 5}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.AccuracyPercent(); got != tt.want {
				t.Errorf("AccuracyPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuestionValidate(t *testing.T) {
	good := Question{
		Question: "Which gas is used in plasma etching?",
		Options:  Options{A: "CF4", B: "He", C: "Ne", D: "Ar"},
		Answer:   ChoiceA,
		Source:   "111-1.pdf",
		Number:   1,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	badAnswer := good
	badAnswer.Answer = "E"
	if err := badAnswer.Validate(); err == nil {
		t.Error("expected error for answer outside A-D")
	}

	missingOption := good
	missingOption.Options.A = ""
	if err := missingOption.Validate(); err == nil {
		t.Error("expected error for empty answer option")
	}

	empty := good
	empty.Question = "  "
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty question text")
	}
}

func TestQuestionLabel(t *testing.T) {
	q := Question{Year: 111, ExamNumber: "2"}
	if got := q.Label(); got != "111-2" {
		t.Errorf("Label() = %q, want '111-2'", got)
	}
	if got := (Question{}).Label(); got != "" {
		t.Errorf("Label() of bare question = %q, want empty", got)
	}
}
